package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/nerrad567/relay-node/internal/infrastructure/database"
	"github.com/nerrad567/relay-node/internal/led"
)

// Setting keys.
const (
	keyGlobalBrightness = "led.global_brightness"
	keyLastEffect       = "led.last_effect"
)

// ErrNotFound indicates the requested setting has never been saved.
var ErrNotFound = errors.New("settings: not found")

// Store reads and writes persisted node settings.
//
// Thread Safety:
//   - Safe for concurrent use; the underlying database serialises writes.
type Store struct {
	db *database.DB
}

// New creates a Store and ensures the settings table exists.
//
// Returns:
//   - *Store: Ready store
//   - error: If the schema cannot be created
func New(ctx context.Context, db *database.DB) (*Store, error) {
	const schema = `
		CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating settings table: %w", err)
	}

	return &Store{db: db}, nil
}

// get returns the raw value for a key.
func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

// set upserts the value for a key.
func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// GlobalBrightness returns the persisted global brightness.
//
// Returns:
//   - uint8: The brightness (0-255)
//   - error: ErrNotFound if never saved, otherwise any database error
func (s *Store) GlobalBrightness(ctx context.Context) (uint8, error) {
	value, err := s.get(ctx, keyGlobalBrightness)
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseUint(value, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("parsing stored brightness %q: %w", value, err)
	}
	return uint8(n), nil
}

// SaveGlobalBrightness persists the global brightness.
func (s *Store) SaveGlobalBrightness(ctx context.Context, brightness uint8) error {
	return s.set(ctx, keyGlobalBrightness, strconv.FormatUint(uint64(brightness), 10))
}

// LastEffect returns the persisted last custom effect.
//
// Returns:
//   - led.Config: The stored effect configuration
//   - error: ErrNotFound if never saved, otherwise any database or
//     decode error
func (s *Store) LastEffect(ctx context.Context) (led.Config, error) {
	value, err := s.get(ctx, keyLastEffect)
	if err != nil {
		return led.Config{}, err
	}

	cfg, err := led.ConfigFromJSON([]byte(value))
	if err != nil {
		return led.Config{}, fmt.Errorf("decoding stored effect: %w", err)
	}
	return cfg, nil
}

// SaveLastEffect persists a custom effect configuration.
func (s *Store) SaveLastEffect(ctx context.Context, cfg led.Config) error {
	data, err := led.ConfigToJSON(cfg)
	if err != nil {
		return fmt.Errorf("encoding effect: %w", err)
	}
	return s.set(ctx, keyLastEffect, string(data))
}

// ClearLastEffect removes the persisted effect, so the next boot shows
// plain status again.
func (s *Store) ClearLastEffect(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", keyLastEffect); err != nil {
		return fmt.Errorf("clearing setting %s: %w", keyLastEffect, err)
	}
	return nil
}

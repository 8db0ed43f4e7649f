package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/relay-node/internal/infrastructure/database"
	"github.com/nerrad567/relay-node/internal/led"
)

// openTestStore creates a store backed by a temporary database.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	store, err := New(context.Background(), db)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store
}

func TestGlobalBrightness_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GlobalBrightness(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGlobalBrightness_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveGlobalBrightness(ctx, 180); err != nil {
		t.Fatalf("SaveGlobalBrightness() error = %v", err)
	}

	got, err := store.GlobalBrightness(ctx)
	if err != nil {
		t.Fatalf("GlobalBrightness() error = %v", err)
	}
	if got != 180 {
		t.Errorf("GlobalBrightness() = %d, want 180", got)
	}

	// Overwrite
	if err := store.SaveGlobalBrightness(ctx, 0); err != nil {
		t.Fatalf("SaveGlobalBrightness() overwrite error = %v", err)
	}
	got, err = store.GlobalBrightness(ctx)
	if err != nil {
		t.Fatalf("GlobalBrightness() error = %v", err)
	}
	if got != 0 {
		t.Errorf("GlobalBrightness() after overwrite = %d, want 0", got)
	}
}

func TestLastEffect_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cfg := led.Config{
		Kind:       led.Rainbow,
		Primary:    led.ColorOff,
		Speed:      250 * time.Millisecond,
		Brightness: 128,
		Repeat:     true,
	}

	if err := store.SaveLastEffect(ctx, cfg); err != nil {
		t.Fatalf("SaveLastEffect() error = %v", err)
	}

	got, err := store.LastEffect(ctx)
	if err != nil {
		t.Fatalf("LastEffect() error = %v", err)
	}
	if got != cfg {
		t.Errorf("LastEffect() = %+v, want %+v", got, cfg)
	}
}

func TestLastEffect_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.LastEffect(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClearLastEffect(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cfg := led.Config{Kind: led.Solid, Primary: led.ColorGreen, Speed: time.Second, Brightness: 255}
	if err := store.SaveLastEffect(ctx, cfg); err != nil {
		t.Fatalf("SaveLastEffect() error = %v", err)
	}

	if err := store.ClearLastEffect(ctx); err != nil {
		t.Fatalf("ClearLastEffect() error = %v", err)
	}

	if _, err := store.LastEffect(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}

	// Clearing again is a no-op.
	if err := store.ClearLastEffect(ctx); err != nil {
		t.Errorf("ClearLastEffect() second call error = %v", err)
	}
}

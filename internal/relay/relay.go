package relay

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Package errors.
var (
	// ErrUnavailable indicates no relay pin is present.
	ErrUnavailable = errors.New("relay unavailable")

	// ErrInvalidState indicates an unparseable relay state string.
	ErrInvalidState = errors.New("invalid relay state")
)

// State is the relay position.
type State int

const (
	// Off: coil released.
	Off State = iota

	// On: coil energised.
	On
)

// String returns the wire representation of the state ("on"/"off").
func (s State) String() string {
	if s == On {
		return "on"
	}
	return "off"
}

// ParseState parses the wire representation of a relay state.
//
// Returns:
//   - error: ErrInvalidState for anything other than "on" or "off"
func ParseState(s string) (State, error) {
	switch s {
	case "on":
		return On, nil
	case "off":
		return Off, nil
	default:
		return Off, fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
}

// Pin abstracts the hardware output that switches the relay coil.
type Pin interface {
	// Set drives the output high (true) or low (false).
	Set(on bool) error
}

// Logger defines the logging interface for this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Relay is the single relay output.
//
// Thread Safety:
//   - All methods are safe for concurrent use. The pin is driven under
//     the lock so commands cannot interleave.
type Relay struct {
	pin Pin
	log Logger

	mu       sync.Mutex
	state    State
	known    bool
	onChange func(State)
}

// New creates a Relay for the given pin. A nil pin is tolerated: every
// command returns ErrUnavailable.
func New(pin Pin) *Relay {
	return &Relay{
		pin: pin,
		log: noopLogger{},
	}
}

// SetLogger sets the logger for the relay.
func (r *Relay) SetLogger(log Logger) {
	r.log = log
}

// SetOnChange registers a callback fired after every successful state
// command, including a re-command of the current state. Invoked with
// the lock released.
func (r *Relay) SetOnChange(fn func(State)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// SetState drives the relay to the given position.
//
// The in-memory state is updated only after the pin accepts the
// command, so a hardware failure leaves the readback untouched.
func (r *Relay) SetState(s State) error {
	if r.pin == nil {
		return ErrUnavailable
	}

	r.mu.Lock()
	if err := r.pin.Set(s == On); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("relay pin set: %w", err)
	}
	r.state = s
	r.known = true
	fn := r.onChange
	r.mu.Unlock()

	r.log.Info("relay switched", "state", s.String())
	if fn != nil {
		fn(s)
	}
	return nil
}

// On energises the relay.
func (r *Relay) On() error {
	return r.SetState(On)
}

// Off releases the relay.
func (r *Relay) Off() error {
	return r.SetState(Off)
}

// Toggle flips the relay position. An unknown position toggles to On.
func (r *Relay) Toggle() error {
	r.mu.Lock()
	next := On
	if r.known && r.state == On {
		next = Off
	}
	r.mu.Unlock()
	return r.SetState(next)
}

// State returns the last commanded position. Before the first
// successful command it returns Off.
func (r *Relay) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// IsOn reports whether the relay is energised.
func (r *Relay) IsOn() bool {
	return r.State() == On
}

// RelayState reports the last commanded position and whether any
// command has succeeded yet. Satisfies the connectivity tracker's
// provider interface.
func (r *Relay) RelayState() (on bool, known bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == On, r.known
}

// MemoryPin is an in-memory Pin for tests and dry runs.
type MemoryPin struct {
	mu  sync.Mutex
	on  bool
	err error
}

// NewMemoryPin creates a MemoryPin, optionally failing every Set with
// the given error.
func NewMemoryPin(err error) *MemoryPin {
	return &MemoryPin{err: err}
}

// Set records the commanded level.
func (p *MemoryPin) Set(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.on = on
	return nil
}

// IsOn reports the recorded level.
func (p *MemoryPin) IsOn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// SysfsPin drives a GPIO line through the sysfs value file. The line
// must already be exported and configured as an output.
type SysfsPin struct {
	path string
}

// NewSysfsPin creates a SysfsPin for the given value file, typically
// /sys/class/gpio/gpioN/value.
func NewSysfsPin(path string) *SysfsPin {
	return &SysfsPin{path: path}
}

// Set writes the level to the value file.
func (p *SysfsPin) Set(on bool) error {
	level := "0"
	if on {
		level = "1"
	}
	if err := os.WriteFile(p.path, []byte(level), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p.path, err)
	}
	return nil
}

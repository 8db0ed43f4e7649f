package connectivity

import (
	"sync"

	"github.com/nerrad567/relay-node/internal/led"
)

// LinkState is the network interface association state.
type LinkState int

const (
	// LinkDisconnected: interface down or carrier lost.
	LinkDisconnected LinkState = iota

	// LinkConnecting: association or DHCP in progress.
	LinkConnecting

	// LinkConnected: interface up with carrier.
	LinkConnected

	// LinkFailed: the link driver reported an unrecoverable fault.
	LinkFailed
)

// String returns a human-readable link state name for logging.
func (s LinkState) String() string {
	switch s {
	case LinkDisconnected:
		return "disconnected"
	case LinkConnecting:
		return "connecting"
	case LinkConnected:
		return "connected"
	case LinkFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SessionState is the broker session state.
type SessionState int

const (
	// SessionDisconnected: no session and none being attempted.
	SessionDisconnected SessionState = iota

	// SessionConnecting: connect or reconnect in flight.
	SessionConnecting

	// SessionConnected: session established.
	SessionConnected

	// SessionError: the session layer reported an error.
	SessionError
)

// String returns a human-readable session state name for logging.
func (s SessionState) String() string {
	switch s {
	case SessionDisconnected:
		return "disconnected"
	case SessionConnecting:
		return "connecting"
	case SessionConnected:
		return "connected"
	case SessionError:
		return "error"
	default:
		return "unknown"
	}
}

// StatusApplier receives the composed status on every transition. The
// LED controller satisfies this in production.
type StatusApplier interface {
	ApplyStatus(status led.Status) error
}

// RelayStateProvider reports whether the relay position is known and,
// if so, whether it is energised. It refines the status while the
// broker session is connected.
type RelayStateProvider interface {
	RelayState() (on bool, known bool)
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

// Tracker consolidates link and session state into one system status.
//
// Thread Safety:
//   - All methods are safe for concurrent use. The link monitor and
//     the session layer deliver transitions from their own goroutines.
type Tracker struct {
	applier StatusApplier
	relay   RelayStateProvider
	log     Logger

	mu      sync.Mutex
	link    LinkState
	session SessionState

	// onSessionUp runs after a session-connected transition, outside the
	// lock. The broker layer uses it to re-subscribe and re-publish
	// retained state.
	onSessionUp func()

	// onStatus observes every composed status, after it has been applied.
	onStatus func(status led.Status)
}

// NewTracker creates a Tracker that pushes composed status changes to
// the given applier. Both link and session start Disconnected.
func NewTracker(applier StatusApplier) *Tracker {
	return &Tracker{
		applier: applier,
		log:     noopLogger{},
	}
}

// SetLogger sets the logger for the tracker.
func (t *Tracker) SetLogger(log Logger) {
	t.log = log
}

// SetRelayProvider wires the relay state source used to refine the
// status while the broker session is connected. Optional: without one
// a connected session composes to the relay-unknown status.
func (t *Tracker) SetRelayProvider(relay RelayStateProvider) {
	t.mu.Lock()
	t.relay = relay
	t.mu.Unlock()
}

// SetOnSessionUp registers a hook invoked after every transition into
// SessionConnected. Invoked outside the tracker lock.
func (t *Tracker) SetOnSessionUp(fn func()) {
	t.mu.Lock()
	t.onSessionUp = fn
	t.mu.Unlock()
}

// SetOnStatus registers an observer for every composed status, called
// after the status has been applied. Used for telemetry.
func (t *Tracker) SetOnStatus(fn func(status led.Status)) {
	t.mu.Lock()
	t.onStatus = fn
	t.mu.Unlock()
}

// OnLinkState records a link transition and re-applies the composed
// status. Safe to call with the current state; the status is re-applied
// regardless so a lost frame cannot wedge the indicator.
func (t *Tracker) OnLinkState(state LinkState) {
	t.mu.Lock()
	prev := t.link
	t.link = state
	t.mu.Unlock()

	if prev != state {
		t.log.Info("link state changed", "from", prev.String(), "to", state.String())
	}
	t.apply()
}

// OnSessionState records a broker session transition and re-applies
// the composed status. A transition into SessionConnected additionally
// fires the session-up hook.
func (t *Tracker) OnSessionState(state SessionState) {
	t.mu.Lock()
	prev := t.session
	t.session = state
	hook := t.onSessionUp
	t.mu.Unlock()

	if prev != state {
		t.log.Info("session state changed", "from", prev.String(), "to", state.String())
	}

	if state == SessionConnected && prev != SessionConnected && hook != nil {
		hook()
	}
	t.apply()
}

// States returns the current (link, session) pair as one consistent
// snapshot.
func (t *Tracker) States() (LinkState, SessionState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.link, t.session
}

// Status returns the currently composed system status.
func (t *Tracker) Status() led.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.composeLocked()
}

// Refresh re-applies the composed status without a state change. The
// heartbeat and the relay layer use it after side effects that alter
// the composition inputs (a relay toggle, a periodic re-assert).
func (t *Tracker) Refresh() {
	t.apply()
}

// composeLocked derives the seven-way status from the current pair.
// Caller must hold t.mu.
func (t *Tracker) composeLocked() led.Status {
	// A live session trumps the raw link: the relay position is the
	// interesting signal once the broker is reachable.
	if t.session == SessionConnected {
		if t.relay != nil {
			if on, known := t.relay.RelayState(); known {
				if on {
					return led.StatusBrokerRelayOn
				}
				return led.StatusBrokerRelayOff
			}
		}
		return led.StatusBrokerUp
	}

	// A session error only means something while the link itself is
	// healthy; otherwise the link-level status is the real story.
	if t.session == SessionError && t.link == LinkConnected {
		return led.StatusError
	}

	switch t.link {
	case LinkConnected:
		return led.StatusLinkUp
	case LinkConnecting:
		return led.StatusConnecting
	case LinkFailed:
		return led.StatusError
	default:
		return led.StatusDisconnected
	}
}

// apply recomposes the status and pushes it to the applier and the
// status observer. Applier failures are logged, never propagated: a
// broken indicator must not disturb connectivity handling.
func (t *Tracker) apply() {
	t.mu.Lock()
	status := t.composeLocked()
	observer := t.onStatus
	t.mu.Unlock()

	if t.applier != nil {
		if err := t.applier.ApplyStatus(status); err != nil {
			t.log.Warn("status apply failed", "status", status.String(), "error", err)
		}
	}
	if observer != nil {
		observer(status)
	}
}

package netmon

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/vishvananda/netlink"

	"github.com/nerrad567/relay-node/internal/connectivity"
)

// ErrAlreadyStarted indicates Start was called twice.
var ErrAlreadyStarted = errors.New("link monitor already started")

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

// Monitor subscribes to kernel link updates for one interface and
// reports state transitions through a callback.
type Monitor struct {
	iface   string
	onState func(connectivity.LinkState)
	log     Logger

	mu      sync.Mutex
	done    chan struct{}
	started bool
	wg      sync.WaitGroup
}

// NewMonitor creates a Monitor for the named interface. Transitions
// are delivered to onState from the monitor's own goroutine.
func NewMonitor(iface string, onState func(connectivity.LinkState)) *Monitor {
	return &Monitor{
		iface:   iface,
		onState: onState,
		log:     noopLogger{},
	}
}

// SetLogger sets the logger for the monitor.
func (m *Monitor) SetLogger(log Logger) {
	m.log = log
}

// Start subscribes to netlink link events and begins delivering state
// transitions. The current interface state is probed and delivered
// first. Call Stop to tear down.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	updates := make(chan netlink.LinkUpdate)
	if err := netlink.LinkSubscribe(updates, done); err != nil {
		m.mu.Lock()
		m.started = false
		m.mu.Unlock()
		return fmt.Errorf("netlink link subscribe: %w", err)
	}

	// Probe once so the tracker starts from reality, not from an
	// assumed disconnect.
	if link, err := netlink.LinkByName(m.iface); err != nil {
		m.log.Warn("link probe failed", "interface", m.iface, "error", err)
		m.onState(connectivity.LinkDisconnected)
	} else {
		attrs := link.Attrs()
		m.onState(mapLinkState(attrs.OperState, attrs.Flags))
	}

	m.wg.Add(1)
	go m.loop(updates, done)

	m.log.Info("link monitor started", "interface", m.iface)
	return nil
}

// Stop tears down the netlink subscription and waits for the event
// loop to exit. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	close(m.done)
	m.mu.Unlock()

	m.wg.Wait()
	m.log.Info("link monitor stopped", "interface", m.iface)
}

// loop consumes link updates until the done channel closes. Repeated
// deliveries of the same state are passed through; the tracker
// tolerates them and re-asserts the indicator.
func (m *Monitor) loop(updates chan netlink.LinkUpdate, done chan struct{}) {
	defer m.wg.Done()

	var last connectivity.LinkState = -1
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			attrs := update.Link.Attrs()
			if attrs.Name != m.iface {
				continue
			}
			state := mapLinkState(attrs.OperState, attrs.Flags)
			if state != last {
				m.log.Debug("link update",
					"interface", attrs.Name,
					"oper", attrs.OperState.String(),
					"state", state.String(),
				)
				last = state
			}
			m.onState(state)
		case <-done:
			return
		}
	}
}

// mapLinkState translates kernel operational state plus interface
// flags into the tracker's link classification.
func mapLinkState(oper netlink.LinkOperState, flags net.Flags) connectivity.LinkState {
	switch oper {
	case netlink.OperUp:
		return connectivity.LinkConnected
	case netlink.OperDormant:
		// Admin-up, waiting on association (802.1X, Wi-Fi auth).
		return connectivity.LinkConnecting
	case netlink.OperUnknown:
		// Virtual and loopback devices never report oper state; fall
		// back to the admin flag.
		if flags&net.FlagUp != 0 {
			return connectivity.LinkConnected
		}
		return connectivity.LinkDisconnected
	default:
		if flags&net.FlagUp != 0 {
			// Admin-up but no carrier yet.
			return connectivity.LinkConnecting
		}
		return connectivity.LinkDisconnected
	}
}

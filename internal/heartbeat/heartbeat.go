package heartbeat

import (
	"sync"
	"time"

	"github.com/nerrad567/relay-node/internal/relay"
)

// DefaultInterval is the heartbeat period.
const DefaultInterval = 30 * time.Second

// Broker is the subset of the MQTT client the heartbeat needs.
type Broker interface {
	IsConnected() bool
	PublishOnline() error
	PublishRetained(topic string, payload []byte) error
}

// RelayStater reports the current relay position.
type RelayStater interface {
	State() relay.State
}

// Refresher re-applies the composed indicator status.
type Refresher interface {
	Refresh()
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

// Heartbeat re-publishes the node's retained state on a fixed ticker.
//
// Thread Safety:
//   - Start and Stop are safe to call from any goroutine. Beats run on
//     the heartbeat's own goroutine.
type Heartbeat struct {
	broker          Broker
	relay           RelayStater
	tracker         Refresher
	relayStateTopic string
	interval        time.Duration
	log             Logger

	mu      sync.Mutex
	done    chan struct{}
	started bool
	wg      sync.WaitGroup
}

// New creates a Heartbeat publishing the relay state to the given
// topic. A zero interval selects DefaultInterval. The relay and
// tracker are optional; nil skips their part of the beat.
func New(broker Broker, r RelayStater, tracker Refresher, relayStateTopic string, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Heartbeat{
		broker:          broker,
		relay:           r,
		tracker:         tracker,
		relayStateTopic: relayStateTopic,
		interval:        interval,
		log:             noopLogger{},
	}
}

// SetLogger sets the logger for the heartbeat.
func (h *Heartbeat) SetLogger(log Logger) {
	h.log = log
}

// Start launches the heartbeat loop. Idempotent: a second call while
// running is a no-op.
func (h *Heartbeat) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return
	}
	h.started = true
	h.done = make(chan struct{})

	h.wg.Add(1)
	go h.loop(h.done)

	h.log.Info("heartbeat started", "interval", h.interval)
}

// Stop halts the heartbeat loop and waits for it to exit. Idempotent.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	if !h.started {
		h.mu.Unlock()
		return
	}
	h.started = false
	close(h.done)
	h.mu.Unlock()

	h.wg.Wait()
	h.log.Info("heartbeat stopped")
}

// loop ticks until the done channel closes.
func (h *Heartbeat) loop(done chan struct{}) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.beat()
		case <-done:
			return
		}
	}
}

// beat re-asserts the retained state. Skipped entirely while the
// session is down; the reconnect path republishes everything anyway.
func (h *Heartbeat) beat() {
	if !h.broker.IsConnected() {
		return
	}

	if err := h.broker.PublishOnline(); err != nil {
		h.log.Warn("heartbeat online publish failed", "error", err)
	}

	if h.relay != nil {
		state := h.relay.State()
		if err := h.broker.PublishRetained(h.relayStateTopic, []byte(state.String())); err != nil {
			h.log.Warn("heartbeat relay state publish failed", "state", state.String(), "error", err)
		}
	}

	if h.tracker != nil {
		h.tracker.Refresh()
	}

	h.log.Debug("heartbeat published")
}

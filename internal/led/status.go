package led

import "time"

// Status is the coarse system status rendered on the indicator. It
// combines link, broker-session and relay state into the seven-way
// classification the canonical effect table is keyed on.
type Status int

const (
	// StatusDisconnected: no network link.
	StatusDisconnected Status = iota

	// StatusConnecting: link association in progress.
	StatusConnecting

	// StatusLinkUp: link established, broker session not yet up.
	StatusLinkUp

	// StatusBrokerUp: broker session up, relay state unknown.
	StatusBrokerUp

	// StatusBrokerRelayOn: broker session up, relay energised.
	StatusBrokerRelayOn

	// StatusBrokerRelayOff: broker session up, relay released.
	StatusBrokerRelayOff

	// StatusError: link failure or broker session error.
	StatusError

	statusCount
)

// String returns a human-readable status name for logging.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusLinkUp:
		return "link_up"
	case StatusBrokerUp:
		return "broker_up"
	case StatusBrokerRelayOn:
		return "broker_relay_on"
	case StatusBrokerRelayOff:
		return "broker_relay_off"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Canonical status effect timings.
const (
	solidStatusSpeed = 5 * time.Second // static colors re-idle slowly
	breatheSpeed     = time.Second
	blinkSpeed       = 500 * time.Millisecond
	strobeSpeed      = 200 * time.Millisecond
)

// statusEffect is the fixed status → effect table.
//
// Off for disconnected, slow blue breathe while connecting, cyan blink
// once the link is up, green/yellow solids for relay on/off under a
// live broker session, and a fast red strobe on error.
func statusEffect(status Status) (Config, bool) {
	switch status {
	case StatusDisconnected:
		return Config{
			Kind:       Solid,
			Primary:    ColorOff,
			Speed:      time.Second,
			Brightness: 0,
			Repeat:     true,
		}, true

	case StatusConnecting:
		return Config{
			Kind:       Breathe,
			Primary:    ColorBlue,
			Speed:      breatheSpeed,
			Brightness: 128,
			Repeat:     true,
		}, true

	case StatusLinkUp:
		return Config{
			Kind:       Blink,
			Primary:    ColorCyan,
			Speed:      blinkSpeed,
			Brightness: 200,
			Repeat:     true,
		}, true

	case StatusBrokerUp, StatusBrokerRelayOn:
		return Config{
			Kind:       Solid,
			Primary:    ColorGreen,
			Speed:      solidStatusSpeed,
			Brightness: 255,
			Repeat:     true,
		}, true

	case StatusBrokerRelayOff:
		return Config{
			Kind:       Solid,
			Primary:    ColorYellow,
			Speed:      solidStatusSpeed,
			Brightness: 255,
			Repeat:     true,
		}, true

	case StatusError:
		return Config{
			Kind:       Strobe,
			Primary:    ColorRed,
			Speed:      strobeSpeed,
			Brightness: 255,
			Repeat:     true,
		}, true

	default:
		return Config{}, false
	}
}

// ApplyStatus renders the canonical effect for a coarse system status.
//
// It is a total function over the Status enumeration: every reachable
// status maps to a fixed effect configuration, which replaces whatever
// effect is currently running.
//
// Returns:
//   - error: ErrInvalidStatus for values outside the enumeration,
//     otherwise any StartEffect error
func (c *Controller) ApplyStatus(status Status) error {
	cfg, ok := statusEffect(status)
	if !ok {
		return ErrInvalidStatus
	}

	c.log.Debug("applying status", "status", status.String(), "effect", cfg.Kind.String())
	return c.StartEffect(cfg)
}

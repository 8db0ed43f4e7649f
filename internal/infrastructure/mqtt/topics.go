package mqtt

import "fmt"

// Topics builds the node's MQTT topic names from its device ID.
// Using these helpers ensures consistent topic naming across the codebase.
//
// The scheme is flat under the device ID:
//
//	{device}/status         retained "online"/"offline" (LWT)
//	{device}/relay/set      incoming relay commands ("on"/"off")
//	{device}/relay/state    retained relay position
//	{device}/led/set        incoming effect configs (JSON)
//	{device}/led/brightness incoming global brightness (0-255)
type Topics struct {
	Device string
}

// Status returns the availability topic.
//
// Example: relay-node-001/status
func (t Topics) Status() string {
	return fmt.Sprintf("%s/status", t.Device)
}

// RelaySet returns the relay command topic.
//
// Example: relay-node-001/relay/set
func (t Topics) RelaySet() string {
	return fmt.Sprintf("%s/relay/set", t.Device)
}

// RelayState returns the retained relay state topic.
//
// Example: relay-node-001/relay/state
func (t Topics) RelayState() string {
	return fmt.Sprintf("%s/relay/state", t.Device)
}

// LEDSet returns the effect override topic.
//
// Example: relay-node-001/led/set
func (t Topics) LEDSet() string {
	return fmt.Sprintf("%s/led/set", t.Device)
}

// LEDBrightness returns the global brightness topic.
//
// Example: relay-node-001/led/brightness
func (t Topics) LEDBrightness() string {
	return fmt.Sprintf("%s/led/brightness", t.Device)
}

// All returns a pattern matching every topic under this device.
// Use with caution - this receives ALL traffic for the node.
//
// Pattern: relay-node-001/#
func (t Topics) All() string {
	return fmt.Sprintf("%s/#", t.Device)
}

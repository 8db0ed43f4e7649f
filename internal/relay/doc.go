// Package relay drives the node's single relay output and tracks its
// last commanded position.
//
// The Relay wraps a Pin, the hardware abstraction for whatever path
// actually switches the coil (GPIO character device, sysfs, a test
// fake). State readback is from the last successful command, not the
// hardware: the relay is an output, there is nothing to sense.
//
// An optional change callback lets the MQTT layer publish the new
// position and the connectivity tracker recompose the indicator status
// without this package knowing about either.
package relay

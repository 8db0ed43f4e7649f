package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStatusTransition records a composed system status change.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: This node's device ID
//   - status: The new status name (e.g. "link_up", "broker_relay_on")
//
// Example:
//
//	client.WriteStatusTransition("relay-node-001", "broker_relay_on")
func (c *Client) WriteStatusTransition(deviceID string, status string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"status_transitions",
		map[string]string{
			"device_id": deviceID,
			"status":    status,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRelayState records a relay position change.
//
// Parameters:
//   - deviceID: This node's device ID
//   - on: Whether the relay is energised
func (c *Client) WriteRelayState(deviceID string, on bool) {
	if !c.IsConnected() {
		return
	}

	state := 0
	if on {
		state = 1
	}

	point := write.NewPoint(
		"relay_state",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"on": state,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteEffectRun records the completion of an indicator effect run.
//
// Used for tracking renderer activity (frames rendered per effect).
//
// Parameters:
//   - deviceID: This node's device ID
//   - kind: The effect kind name (e.g. "breathe", "strobe")
//   - frames: Frames rendered during the run
func (c *Client) WriteEffectRun(deviceID string, kind string, frames int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"effect_runs",
		map[string]string{
			"device_id": deviceID,
			"kind":      kind,
		},
		map[string]interface{}{
			"frames": frames,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "relay-node-001"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}

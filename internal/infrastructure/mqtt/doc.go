// Package mqtt provides MQTT client connectivity for the relay node.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The broker session is the node's only control surface: relay
// commands and LED overrides arrive over it, and the relay state plus
// the availability marker are published back, retained, so anything
// joining late sees the current position.
//
//	Relay Node ↔ MQTT Broker ↔ Controllers / Dashboards
//
// Topic scheme (flat under the device ID):
//
//	{device}/status          retained "online"/"offline", LWT
//	{device}/relay/set       relay commands ("on"/"off")
//	{device}/relay/state     retained relay position
//	{device}/led/set         effect configs (JSON)
//	{device}/led/brightness  global brightness (0-255)
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, cfg.Device.ID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Receive relay commands
//	err = client.Subscribe(client.Topics().RelaySet(), 1,
//	    func(topic string, payload []byte) error {
//	        return handleCommand(string(payload))
//	    })
//
//	// Publish relay state
//	client.PublishRetained(client.Topics().RelayState(), []byte("on"))
package mqtt

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the relay node.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	LED       LEDConfig       `yaml:"led"`
	Relay     RelayConfig     `yaml:"relay"`
	Network   NetworkConfig   `yaml:"network"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DeviceConfig identifies this node. The ID is the MQTT topic root.
type DeviceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// LEDConfig contains the status indicator settings.
type LEDConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path is the sysfs directory of the multicolor LED class device,
	// e.g. /sys/class/leds/rgb:status.
	Path string `yaml:"path"`

	// BootBrightness is the global brightness applied during the boot
	// sequence before the persisted value is restored (0-255).
	BootBrightness int `yaml:"boot_brightness"`
}

// RelayConfig contains the relay output settings.
type RelayConfig struct {
	Enabled bool `yaml:"enabled"`

	// GPIOValuePath is the sysfs value file of the exported GPIO line,
	// e.g. /sys/class/gpio/gpio17/value.
	GPIOValuePath string `yaml:"gpio_value_path"`

	// InitialState is the position driven at boot: "on" or "off".
	InitialState string `yaml:"initial_state"`
}

// NetworkConfig contains link monitoring settings.
type NetworkConfig struct {
	// Interface is the network interface watched for link state.
	Interface string `yaml:"interface"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// TelemetryConfig contains InfluxDB connection settings.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: RELAYNODE_SECTION_KEY
// For example: RELAYNODE_MQTT_HOST, RELAYNODE_DEVICE_ID
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			ID:   "relay-node-001",
			Name: "Relay Node",
		},
		LED: LEDConfig{
			Enabled:        true,
			Path:           "/sys/class/leds/rgb:status",
			BootBrightness: 64,
		},
		Relay: RelayConfig{
			Enabled:       true,
			GPIOValuePath: "/sys/class/gpio/gpio17/value",
			InitialState:  "off",
		},
		Network: NetworkConfig{
			Interface: "eth0",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "relay-node-001",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/relaynode.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: RELAYNODE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Device
	if v := os.Getenv("RELAYNODE_DEVICE_ID"); v != "" {
		cfg.Device.ID = v
	}

	// Network
	if v := os.Getenv("RELAYNODE_NETWORK_INTERFACE"); v != "" {
		cfg.Network.Interface = v
	}

	// MQTT
	if v := os.Getenv("RELAYNODE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("RELAYNODE_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("RELAYNODE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("RELAYNODE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Telemetry
	if v := os.Getenv("RELAYNODE_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}

	// Database
	if v := os.Getenv("RELAYNODE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Device.ID == "" {
		errs = append(errs, "device.id is required")
	}
	if strings.ContainsAny(c.Device.ID, "+#/") {
		errs = append(errs, "device.id must not contain MQTT topic separators or wildcards")
	}

	if c.LED.BootBrightness < 0 || c.LED.BootBrightness > 255 {
		errs = append(errs, "led.boot_brightness must be between 0 and 255")
	}

	if c.Relay.Enabled && c.Relay.GPIOValuePath == "" {
		errs = append(errs, "relay.gpio_value_path is required when relay is enabled")
	}
	if c.Relay.InitialState != "on" && c.Relay.InitialState != "off" {
		errs = append(errs, "relay.initial_state must be \"on\" or \"off\"")
	}

	if c.Network.Interface == "" {
		errs = append(errs, "network.interface is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.URL == "" {
			errs = append(errs, "telemetry.url is required when telemetry is enabled")
		}
		if c.Telemetry.Token == "" {
			errs = append(errs, "telemetry.token is required when telemetry is enabled (set RELAYNODE_TELEMETRY_TOKEN)")
		}
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetBusyTimeout returns the SQLite busy timeout as a Duration.
func (c *Config) GetBusyTimeout() time.Duration {
	return time.Duration(c.Database.BusyTimeout) * time.Second
}

// GetFlushInterval returns the telemetry flush interval as a Duration.
func (c *Config) GetFlushInterval() time.Duration {
	return time.Duration(c.Telemetry.FlushInterval) * time.Second
}

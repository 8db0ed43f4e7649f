// Relay Node - single-relay IoT node daemon
//
// This is the main entry point for the relay-node daemon. The node:
//   - Watches its network interface for link state changes
//   - Holds an MQTT session to the site broker (LWT availability)
//   - Drives a single relay output from broker commands
//   - Renders the composed device status on a one-pixel RGB indicator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nerrad567/relay-node/internal/connectivity"
	"github.com/nerrad567/relay-node/internal/heartbeat"
	"github.com/nerrad567/relay-node/internal/infrastructure/config"
	"github.com/nerrad567/relay-node/internal/infrastructure/database"
	"github.com/nerrad567/relay-node/internal/infrastructure/influxdb"
	"github.com/nerrad567/relay-node/internal/infrastructure/logging"
	"github.com/nerrad567/relay-node/internal/infrastructure/mqtt"
	"github.com/nerrad567/relay-node/internal/led"
	"github.com/nerrad567/relay-node/internal/netmon"
	"github.com/nerrad567/relay-node/internal/relay"
	"github.com/nerrad567/relay-node/internal/settings"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// bootSplashDuration is how long the low-brightness boot indication
// stays visible before normal status rendering takes over.
const bootSplashDuration = 500 * time.Millisecond

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting relay node",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Settings store (persisted brightness and last effect)
	store, err := settings.New(ctx, db)
	if err != nil {
		return fmt.Errorf("initialising settings store: %w", err)
	}

	// Indicator: boot splash at low brightness, then restore the
	// persisted level and either the last custom effect or plain
	// status rendering.
	controller := newIndicator(cfg, log)
	defer func() {
		if stopErr := controller.StopEffect(); stopErr != nil {
			log.Error("error stopping indicator", "error", stopErr)
		}
	}()

	controller.SetGlobalBrightness(uint8(cfg.LED.BootBrightness))
	if splashErr := controller.SetColor(led.ColorBlue); splashErr != nil {
		log.Warn("boot indication failed", "error", splashErr)
	}
	time.Sleep(bootSplashDuration)

	controller.SetGlobalBrightness(restoreBrightness(ctx, store, log))

	if lastEffect, lastErr := store.LastEffect(ctx); lastErr == nil {
		if startErr := controller.StartEffect(lastEffect); startErr != nil {
			log.Warn("restoring last effect failed", "error", startErr)
		} else {
			log.Info("last effect restored", "kind", lastEffect.Kind.String())
		}
	} else {
		if !errors.Is(lastErr, settings.ErrNotFound) {
			log.Warn("reading last effect failed", "error", lastErr)
		}
		if statusErr := controller.ApplyStatus(led.StatusDisconnected); statusErr != nil {
			log.Warn("applying initial status failed", "error", statusErr)
		}
	}

	// Relay output
	rly := newRelay(cfg, log)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.Telemetry.Enabled {
		influxClient, err = influxdb.Connect(cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.Telemetry.URL,
			"org", cfg.Telemetry.Org,
			"bucket", cfg.Telemetry.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Connectivity tracker composes link + session + relay into the
	// indicator status.
	tracker := connectivity.NewTracker(controller)
	tracker.SetLogger(log)
	tracker.SetRelayProvider(rly)
	if influxClient != nil {
		deviceID := cfg.Device.ID
		tracker.SetOnStatus(func(status led.Status) {
			influxClient.WriteStatusTransition(deviceID, status.String())
		})
		controller.SetOnEffectEnd(func(kind string, frames int) {
			influxClient.WriteEffectRun(deviceID, kind, frames)
		})
	}

	// Link monitor feeds the tracker from kernel netlink updates.
	monitor := netmon.NewMonitor(cfg.Network.Interface, tracker.OnLinkState)
	monitor.SetLogger(log)
	if err := monitor.Start(); err != nil {
		return fmt.Errorf("starting link monitor: %w", err)
	}
	defer func() {
		log.Info("stopping link monitor")
		monitor.Stop()
	}()
	log.Info("link monitor started", "interface", cfg.Network.Interface)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT, cfg.Device.ID)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	topics := mqttClient.Topics()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Session state callbacks drive the tracker.
	mqttClient.SetOnConnect(func() {
		tracker.OnSessionState(connectivity.SessionConnected)
	})
	mqttClient.SetOnDisconnect(func(err error) {
		if err != nil {
			tracker.OnSessionState(connectivity.SessionError)
		} else {
			tracker.OnSessionState(connectivity.SessionDisconnected)
		}
	})
	mqttClient.SetOnReconnecting(func() {
		tracker.OnSessionState(connectivity.SessionConnecting)
	})

	// On every session (re)establishment, re-assert retained state the
	// broker may have lost.
	tracker.SetOnSessionUp(func() {
		state := rly.State()
		if pubErr := mqttClient.PublishRetained(topics.RelayState(), []byte(state.String())); pubErr != nil {
			log.Warn("publishing relay state failed", "state", state.String(), "error", pubErr)
		}
	})

	// Relay changes publish retained state, record telemetry, and
	// recompose the indicator status.
	deviceID := cfg.Device.ID
	rly.SetOnChange(func(state relay.State) {
		if pubErr := mqttClient.PublishRetained(topics.RelayState(), []byte(state.String())); pubErr != nil {
			log.Warn("publishing relay state failed", "state", state.String(), "error", pubErr)
		}
		if influxClient != nil {
			influxClient.WriteRelayState(deviceID, state == relay.On)
		}
		tracker.Refresh()
	})

	// Connect blocked until the first session was up, but the session
	// callbacks above were installed after the fact. Seed the tracker.
	tracker.OnSessionState(connectivity.SessionConnected)

	// Command subscriptions
	if err := subscribeCommands(ctx, mqttClient, cfg, controller, rly, store, log); err != nil {
		return err
	}
	log.Info("command subscriptions established",
		"relay", topics.RelaySet(),
		"led", topics.LEDSet(),
	)

	// Heartbeat re-asserts retained presence while the session is up.
	hb := heartbeat.New(mqttClient, rly, tracker, topics.RelayState(), heartbeat.DefaultInterval)
	hb.SetLogger(log)
	hb.Start()
	defer hb.Stop()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. Heartbeat
	// 2. MQTT (publishes retained offline on the way out)
	// 3. Link monitor
	// 4. InfluxDB (if enabled)
	// 5. Indicator
	// 6. Database

	log.Info("relay node stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses RELAYNODE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("RELAYNODE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// newIndicator builds the LED controller. A missing or disabled
// indicator degrades to a discard pixel so status composition, effect
// commands and persistence keep working on a dark node.
func newIndicator(cfg *config.Config, log *logging.Logger) *led.Controller {
	var pixel led.Pixel = discardPixel{}

	if cfg.LED.Enabled {
		p, err := newSysfsPixel(cfg.LED.Path)
		if err != nil {
			log.Warn("indicator unavailable, running dark", "path", cfg.LED.Path, "error", err)
		} else {
			pixel = p
			log.Info("indicator initialised", "path", cfg.LED.Path)
		}
	} else {
		log.Info("indicator disabled")
	}

	controller := led.NewController(pixel)
	controller.SetLogger(log)
	return controller
}

// newRelay builds the relay driver and drives the configured initial
// state. A disabled relay still yields a usable driver: it reports its
// state as unknown and rejects commands with ErrUnavailable.
func newRelay(cfg *config.Config, log *logging.Logger) *relay.Relay {
	var pin relay.Pin
	if cfg.Relay.Enabled {
		pin = relay.NewSysfsPin(cfg.Relay.GPIOValuePath)
	}

	rly := relay.New(pin)
	rly.SetLogger(log)

	if !cfg.Relay.Enabled {
		log.Info("relay disabled")
		return rly
	}

	initial, err := relay.ParseState(cfg.Relay.InitialState)
	if err != nil {
		log.Warn("invalid initial relay state, leaving output unknown", "state", cfg.Relay.InitialState)
		return rly
	}
	if setErr := rly.SetState(initial); setErr != nil {
		log.Warn("driving initial relay state failed", "state", initial.String(), "error", setErr)
	} else {
		log.Info("relay initialised", "pin", cfg.Relay.GPIOValuePath, "state", initial.String())
	}
	return rly
}

// restoreBrightness returns the persisted global brightness, or full
// brightness if none has ever been saved.
func restoreBrightness(ctx context.Context, store *settings.Store, log *logging.Logger) uint8 {
	brightness, err := store.GlobalBrightness(ctx)
	if err != nil {
		if !errors.Is(err, settings.ErrNotFound) {
			log.Warn("reading persisted brightness failed", "error", err)
		}
		return 255
	}
	log.Info("global brightness restored", "brightness", brightness)
	return brightness
}

// subscribeCommands wires the node's three command topics. Malformed
// payloads are logged and dropped rather than surfaced as handler
// errors: a bad publish from a dashboard must not look like a broken
// subscription.
func subscribeCommands(
	ctx context.Context,
	client *mqtt.Client,
	cfg *config.Config,
	controller *led.Controller,
	rly *relay.Relay,
	store *settings.Store,
	log *logging.Logger,
) error {
	topics := client.Topics()
	qos := byte(cfg.MQTT.QoS)

	if err := client.Subscribe(topics.RelaySet(), qos, func(_ string, payload []byte) error {
		state, parseErr := relay.ParseState(string(payload))
		if parseErr != nil {
			log.Warn("ignoring malformed relay command", "payload", string(payload))
			return nil
		}
		return rly.SetState(state)
	}); err != nil {
		return fmt.Errorf("subscribing to relay commands: %w", err)
	}

	if err := client.Subscribe(topics.LEDSet(), qos, func(_ string, payload []byte) error {
		effectCfg, parseErr := led.ConfigFromJSON(payload)
		if parseErr != nil {
			log.Warn("ignoring malformed effect config", "error", parseErr)
			return nil
		}
		if startErr := controller.StartEffect(effectCfg); startErr != nil {
			return startErr
		}
		if saveErr := store.SaveLastEffect(ctx, effectCfg); saveErr != nil {
			log.Warn("persisting effect failed", "error", saveErr)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("subscribing to effect commands: %w", err)
	}

	if err := client.Subscribe(topics.LEDBrightness(), qos, func(_ string, payload []byte) error {
		value, parseErr := strconv.ParseUint(string(payload), 10, 8)
		if parseErr != nil {
			log.Warn("ignoring malformed brightness", "payload", string(payload))
			return nil
		}
		controller.SetGlobalBrightness(uint8(value))
		if saveErr := store.SaveGlobalBrightness(ctx, uint8(value)); saveErr != nil {
			log.Warn("persisting brightness failed", "error", saveErr)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("subscribing to brightness commands: %w", err)
	}

	return nil
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

package led

import (
	"sync"
	"time"
)

// Stop timing constants.
const (
	// stopTimeout bounds how long StopEffect waits for the renderer to
	// exit cooperatively before detaching it.
	stopTimeout = 500 * time.Millisecond

	// stopPollInterval is the granularity of the cooperative wait.
	stopPollInterval = 10 * time.Millisecond
)

// defaultBrightness is the global brightness applied until a caller or
// the settings store says otherwise.
const defaultBrightness = 255

// Pixel is the indicator peripheral consumed by the renderer.
//
// Implementations wrap whatever hardware path drives the pixel (sysfs
// multicolor LED class, SPI strip driver, a test fake). Both methods
// are simple synchronous calls.
type Pixel interface {
	// Write sets the pixel to the given color.
	Write(c Color) error

	// Clear turns the pixel off.
	Clear() error
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

// Controller owns the active effect configuration and the renderer
// lifecycle.
//
// The (Config, renderer handle) pair is one logical unit guarded by a
// single mutex. The lock is held only for the short critical sections
// of install/spawn/signal, never across a frame sleep or a pixel
// write.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Controller struct {
	pixel Pixel
	log   Logger

	// startMu serialises whole start sequences (teardown + install) so
	// two concurrent StartEffect calls cannot each install a renderer.
	startMu sync.Mutex

	mu      sync.Mutex
	current *renderer
	cfg     Config

	// onEffectEnd observes every finished render run (replaced,
	// stopped or self-terminated), for telemetry.
	onEffectEnd func(kind string, frames int)

	brightMu   sync.RWMutex
	brightness uint8
}

// NewController creates a Controller for the given pixel peripheral.
//
// A nil pixel is tolerated: the controller is created but every
// operation returns ErrUnavailable, mirroring a node whose indicator
// failed to initialise.
func NewController(pixel Pixel) *Controller {
	return &Controller{
		pixel:      pixel,
		log:        noopLogger{},
		brightness: defaultBrightness,
	}
}

// SetLogger sets the logger for the controller and its renderers.
func (c *Controller) SetLogger(log Logger) {
	c.log = log
}

// SetOnEffectEnd registers an observer invoked when a render run ends,
// with the effect kind name and the number of frames rendered. Invoked
// from the renderer's goroutine.
func (c *Controller) SetOnEffectEnd(fn func(kind string, frames int)) {
	c.mu.Lock()
	c.onEffectEnd = fn
	c.mu.Unlock()
}

// StartEffect stops any running effect and starts a new one.
//
// The previous renderer is fully torn down before the new one is
// spawned; two renderers never run concurrently. StartEffect returns
// once the new renderer goroutine has been launched, not once its
// first frame has been written.
//
// Returns:
//   - error: ErrUnavailable if no pixel peripheral is present,
//     ErrInvalidEffect if the configuration is malformed
func (c *Controller) StartEffect(cfg Config) error {
	if c.pixel == nil {
		return ErrUnavailable
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.startMu.Lock()
	defer c.startMu.Unlock()

	if err := c.StopEffect(); err != nil {
		return err
	}

	c.mu.Lock()
	r := newRenderer(cfg, c.pixel, c.GlobalBrightness, c.rendererExited, c.log)
	c.cfg = cfg
	c.current = r
	go r.run()
	c.mu.Unlock()

	c.log.Debug("effect started", "kind", cfg.Kind.String(), "speed", cfg.Speed, "repeat", cfg.Repeat)
	return nil
}

// StopEffect stops the running effect, if any.
//
// It is idempotent: with no active renderer it is a no-op returning
// nil. Otherwise it cancels the renderer and waits up to stopTimeout
// for a clean exit, polling in stopPollInterval steps. A renderer that
// misses the deadline is detached: the handle is cleared so the caller
// is never blocked indefinitely, and the straggler's cancelled context
// stops it from touching the peripheral again. The pixel is always
// cleared before returning.
func (c *Controller) StopEffect() error {
	c.mu.Lock()
	r := c.current
	c.mu.Unlock()

	if r == nil {
		return nil
	}

	r.stop()

	deadline := time.NewTimer(stopTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(stopPollInterval)
	defer ticker.Stop()

waitLoop:
	for {
		select {
		case <-r.done:
			break waitLoop
		case <-deadline.C:
			c.log.Warn("renderer did not exit within deadline, detaching",
				"kind", r.cfg.Kind.String(),
				"timeout", stopTimeout,
			)
			c.mu.Lock()
			if c.current == r {
				c.current = nil
			}
			c.mu.Unlock()
			break waitLoop
		case <-ticker.C:
		}
	}

	if c.pixel != nil {
		if err := c.pixel.Clear(); err != nil {
			c.log.Warn("pixel clear failed", "error", err)
		}
	}
	return nil
}

// rendererExited is invoked by a renderer when its loop ends, whether
// self-terminated or cancelled. If the renderer is still the current
// one it is detached and the pixel cleared; a stale renderer (already
// replaced or abandoned) must not touch the peripheral.
func (c *Controller) rendererExited(r *renderer) {
	c.mu.Lock()
	isCurrent := c.current == r
	if isCurrent {
		c.current = nil
	}
	observer := c.onEffectEnd
	c.mu.Unlock()

	if isCurrent {
		if err := c.pixel.Clear(); err != nil {
			c.log.Warn("pixel clear failed", "error", err)
		}
		c.log.Debug("effect ended", "kind", r.cfg.Kind.String())
	}
	if observer != nil {
		observer(r.cfg.Kind.String(), int(r.frames))
	}
}

// SetColor displays a steady color by starting a one-shot Solid effect.
func (c *Controller) SetColor(color Color) error {
	return c.StartEffect(Config{
		Kind:       Solid,
		Primary:    color,
		Speed:      time.Second,
		Brightness: 255,
		Repeat:     false,
	})
}

// Off turns the indicator off.
func (c *Controller) Off() error {
	return c.SetColor(ColorOff)
}

// SetGlobalBrightness sets the node-wide brightness factor (0-255)
// applied on top of each effect's own brightness. Takes effect on the
// next rendered frame.
func (c *Controller) SetGlobalBrightness(b uint8) {
	c.brightMu.Lock()
	c.brightness = b
	c.brightMu.Unlock()
}

// GlobalBrightness returns the node-wide brightness factor.
func (c *Controller) GlobalBrightness() uint8 {
	c.brightMu.RLock()
	defer c.brightMu.RUnlock()
	return c.brightness
}

// IsRunning reports whether an effect renderer is currently active.
func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// CurrentEffect returns the active effect configuration, if any.
func (c *Controller) CurrentEffect() (Config, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg, c.current != nil
}

package led

import (
	"context"
	"math/rand"
	"time"
)

// Renderer timing constants.
const (
	// frameDivisor derives the frame interval from the effect speed.
	frameDivisor = 10

	// minFrameInterval is the floor on the render cadence. Anything
	// shorter would busy-spin the goroutine.
	minFrameInterval = time.Millisecond

	// oneShotFrames bounds non-repeating effects: the renderer
	// self-terminates after this many frames even without a stop
	// signal.
	oneShotFrames = 100
)

// renderer is one running effect instance.
//
// It captures its configuration at spawn time and never re-reads the
// controller's shared state except for global brightness, which is
// sampled once per frame. The done channel is closed when the render
// loop has fully exited.
type renderer struct {
	cfg        Config
	pixel      Pixel
	brightness func() uint8
	log        Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// exited is called exactly once when the loop ends; the controller
	// uses it to detach the handle and clear the pixel if this renderer
	// is still the current one.
	exited func(*renderer)

	// frames is the number of frames rendered, recorded as the loop
	// exits. Only the render goroutine writes it; exited callbacks read
	// it on the same goroutine.
	frames uint32
}

func newRenderer(cfg Config, pixel Pixel, brightness func() uint8, exited func(*renderer), log Logger) *renderer {
	ctx, cancel := context.WithCancel(context.Background())
	return &renderer{
		cfg:        cfg,
		pixel:      pixel,
		brightness: brightness,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		exited:     exited,
	}
}

// stop signals the render loop to exit. It does not wait.
func (r *renderer) stop() {
	r.cancel()
}

// frameInterval returns the per-frame sleep for this effect.
//
// Solid writes a single frame and then idle-waits its full period;
// every other kind ticks at Speed/frameDivisor. The result never drops
// below minFrameInterval.
func (r *renderer) frameInterval() time.Duration {
	interval := r.cfg.Speed / frameDivisor
	if r.cfg.Kind == Solid {
		interval = r.cfg.Speed
	}
	if interval < minFrameInterval {
		interval = minFrameInterval
	}
	return interval
}

// run is the render loop. It executes on its own goroutine until the
// context is cancelled or a non-repeating effect completes its frame
// budget. Pixel write failures are logged and the loop continues; a
// broken frame must not abort the effect.
func (r *renderer) run() {
	defer close(r.done)
	defer r.exited(r)

	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // Cosmetic jitter, not security sensitive

	interval := r.frameInterval()
	var frame uint32
	defer func() { r.frames = frame }()

	for {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		// Solid is static: compute and write only the first frame, then
		// keep idling so the effect stays cancellable.
		if r.cfg.Kind != Solid || frame == 0 {
			color := frameColor(r.cfg, frame, rng)
			color = Scale(color, r.brightness())
			if err := r.pixel.Write(color); err != nil {
				r.log.Warn("pixel write failed", "kind", r.cfg.Kind.String(), "frame", frame, "error", err)
			}
		}

		frame++
		if !r.cfg.Repeat && frame > oneShotFrames {
			return
		}

		select {
		case <-r.ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

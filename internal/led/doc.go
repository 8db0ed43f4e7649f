// Package led drives the node's single-pixel RGB status indicator.
//
// This package manages:
//   - Pure color math (HSV conversion, blending, brightness scaling)
//   - A library of time-based effects (blink, breathe, rainbow, strobe, ...)
//   - A background renderer goroutine producing one frame per tick
//   - Effect lifecycle with cooperative stop and a bounded force path
//   - Mapping of coarse system status to canonical indicator effects
//
// # Architecture
//
// The Controller owns the active effect configuration and the renderer
// handle as one lock-guarded unit. StartEffect always tears down the
// previous renderer before spawning a new one, so at most one renderer
// runs at any instant. The renderer captures its configuration at spawn
// time; configurations are replaced wholesale, never mutated in place.
//
//	Tracker → Controller.ApplyStatus → StartEffect → renderer → Pixel
//
// # Concurrency
//
// The renderer runs on its own goroutine and suspends only at its
// per-frame sleep. StopEffect cancels the renderer's context, waits up
// to stopTimeout for a clean exit, then detaches the handle and clears
// the pixel itself. Global brightness is read once per frame and may
// lag a concurrent update by one frame, which is acceptable.
package led

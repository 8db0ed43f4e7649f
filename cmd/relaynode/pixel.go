package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nerrad567/relay-node/internal/led"
)

// sysfsPixel drives a Linux multicolor LED class device
// (Documentation/leds/leds-class-multicolor.rst). The kernel scales
// each channel in multi_intensity by brightness/max_brightness; all of
// our color math happens in software, so brightness is pinned at full
// once and every frame goes through multi_intensity alone.
type sysfsPixel struct {
	intensityPath  string
	brightnessPath string
}

// newSysfsPixel probes the LED class directory and pins brightness.
//
// Parameters:
//   - dir: sysfs directory of the device, e.g. /sys/class/leds/rgb:status
//
// Returns:
//   - *sysfsPixel: Ready pixel driver
//   - error: If the device is absent or not writable
func newSysfsPixel(dir string) (*sysfsPixel, error) {
	p := &sysfsPixel{
		intensityPath:  filepath.Join(dir, "multi_intensity"),
		brightnessPath: filepath.Join(dir, "brightness"),
	}

	if _, err := os.Stat(p.intensityPath); err != nil {
		return nil, fmt.Errorf("probing multicolor LED %s: %w", dir, err)
	}
	if err := os.WriteFile(p.brightnessPath, []byte("255"), 0o644); err != nil {
		return nil, fmt.Errorf("pinning LED brightness: %w", err)
	}

	return p, nil
}

// Write sets the pixel to the given color.
func (p *sysfsPixel) Write(c led.Color) error {
	value := fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
	if err := os.WriteFile(p.intensityPath, []byte(value), 0o644); err != nil {
		return fmt.Errorf("writing LED intensity: %w", err)
	}
	return nil
}

// Clear turns the pixel off.
func (p *sysfsPixel) Clear() error {
	return p.Write(led.ColorOff)
}

// discardPixel keeps the indicator plumbing alive on nodes without an
// LED: writes succeed and go nowhere. Status composition, effect
// commands and persistence all behave identically to a lit node.
type discardPixel struct{}

func (discardPixel) Write(led.Color) error { return nil }
func (discardPixel) Clear() error          { return nil }

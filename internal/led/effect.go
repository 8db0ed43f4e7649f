package led

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Kind identifies an effect in the closed effect library.
type Kind int

// Effect kinds. The chase/wipe kinds are defined for multi-pixel strips
// and degrade to their single-pixel limits on this peripheral; they are
// kept as distinct values so stored configurations remain valid if the
// indicator ever grows into a strip.
const (
	Solid Kind = iota
	Blink
	Breathe
	Rainbow
	RainbowChase
	Pulse
	Strobe
	FadeInOut
	ColorWipe
	TheaterChase
	Fire
	Sparkle

	kindCount
)

// kindNames maps each Kind to its wire/config name.
var kindNames = map[Kind]string{
	Solid:        "solid",
	Blink:        "blink",
	Breathe:      "breathe",
	Rainbow:      "rainbow",
	RainbowChase: "rainbow_chase",
	Pulse:        "pulse",
	Strobe:       "strobe",
	FadeInOut:    "fade_in_out",
	ColorWipe:    "color_wipe",
	TheaterChase: "theater_chase",
	Fire:         "fire",
	Sparkle:      "sparkle",
}

// String returns the effect kind's config name, or "unknown".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k is a member of the effect library.
func (k Kind) Valid() bool {
	return k >= Solid && k < kindCount
}

// ParseKind resolves an effect name to its Kind.
//
// Returns:
//   - Kind: The matching kind
//   - error: ErrInvalidEffect if the name is not in the library
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidEffect, name)
}

// Config describes one effect instance.
//
// A Config is owned exclusively by the Controller while active and is
// replaced, never mutated, on every StartEffect call.
type Config struct {
	// Kind selects the per-frame color formula.
	Kind Kind

	// Primary is the effect's main color.
	Primary Color

	// Secondary is used by blend-style kinds (ColorWipe). Ignored by
	// kinds that only use Primary.
	Secondary Color

	// Speed is the effect's base period. The renderer derives its frame
	// cadence from this value (most kinds tick at Speed/10).
	Speed time.Duration

	// Brightness scales the effect's output (0-255). Global brightness
	// is applied on top of this by the renderer.
	Brightness uint8

	// Repeat keeps the effect running until stopped. When false the
	// renderer self-terminates after a bounded number of frames.
	Repeat bool
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: kind index %d", ErrInvalidEffect, int(c.Kind))
	}
	return nil
}

// Per-kind formula constants.
const (
	breatheOmega      = 0.1 // radians per frame for the breathe envelope
	pulseOmega        = 0.2 // radians per frame for the pulse envelope
	rainbowHueStep    = 10  // degrees advanced per rainbow frame
	chaseHueStep      = 30  // degrees advanced per rainbow-chase frame
	strobeCycleFrames = 10  // strobe period in frames
	strobeOnFrames    = 2   // strobe duty: on for 2 of 10 frames
	fadeCycleFrames   = 200 // fade-in-out period in frames
	theaterPeriod     = 3   // theater chase: on every third frame
	sparkleChance     = 10  // sparkle fires on ~1 in 10 frames
)

// frameColor computes the color for one frame of an effect.
//
// It is a pure function of the configuration, the monotonically
// increasing frame counter and (for the stochastic kinds) the supplied
// random source. Effect brightness is applied here; global brightness
// is layered on by the renderer.
func frameColor(cfg Config, frame uint32, rng *rand.Rand) Color {
	switch cfg.Kind {
	case Solid:
		return Scale(cfg.Primary, cfg.Brightness)

	case Blink:
		if frame%2 == 0 {
			return Scale(cfg.Primary, cfg.Brightness)
		}
		return ColorOff

	case Breathe:
		breath := (math.Sin(float64(frame)*breatheOmega) + 1) / 2
		return Scale(cfg.Primary, uint8(breath*float64(cfg.Brightness)))

	case Rainbow:
		hue := int(frame) * rainbowHueStep % hueMax
		return HSVToRGB(hue, satMax, cfg.Brightness)

	case RainbowChase:
		// Single-pixel limit of the chase: the rainbow sweeps past the
		// one pixel at chase cadence.
		hue := int(frame) * chaseHueStep % hueMax
		return HSVToRGB(hue, satMax, cfg.Brightness)

	case Pulse:
		pulse := math.Abs(math.Sin(float64(frame) * pulseOmega))
		return Scale(cfg.Primary, uint8(pulse*float64(cfg.Brightness)))

	case Strobe:
		if frame%strobeCycleFrames < strobeOnFrames {
			return Scale(cfg.Primary, cfg.Brightness)
		}
		return ColorOff

	case FadeInOut:
		step := frame % fadeCycleFrames
		half := uint32(fadeCycleFrames / 2)
		var level uint32
		if step < half {
			level = step * uint32(cfg.Brightness) / half
		} else {
			level = (fadeCycleFrames - step) * uint32(cfg.Brightness) / half
		}
		return Scale(cfg.Primary, uint8(level))

	case ColorWipe:
		// Single-pixel limit of the wipe: alternate between the wipe
		// color and the background it replaces.
		if frame%2 == 0 {
			return Scale(cfg.Primary, cfg.Brightness)
		}
		return Scale(cfg.Secondary, cfg.Brightness)

	case TheaterChase:
		if frame%theaterPeriod == 0 {
			return Scale(cfg.Primary, cfg.Brightness)
		}
		return ColorOff

	case Fire:
		// Random green/blue jitter around a fixed red base.
		c := Color{
			R: 255,
			G: uint8(rng.Intn(100) + 50),
			B: uint8(rng.Intn(20)),
		}
		return Scale(c, cfg.Brightness)

	case Sparkle:
		if rng.Intn(sparkleChance) == 0 {
			return Scale(cfg.Primary, cfg.Brightness)
		}
		return ColorOff

	default:
		return ColorOff
	}
}

// configJSON is the wire form of Config used by the MQTT diagnostics
// channel and the settings store.
type configJSON struct {
	Kind       string `json:"kind"`
	Primary    Color  `json:"primary"`
	Secondary  Color  `json:"secondary,omitempty"`
	SpeedMS    int64  `json:"speed_ms"`
	Brightness uint8  `json:"brightness"`
	Repeat     bool   `json:"repeat"`
}

// ConfigFromJSON decodes an effect configuration from its JSON wire
// form (kind by name, speed in milliseconds).
//
// Returns:
//   - Config: Decoded and validated configuration
//   - error: ErrInvalidEffect for unknown kinds or malformed payloads
func ConfigFromJSON(payload []byte) (Config, error) {
	var raw configJSON
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidEffect, err)
	}

	kind, err := ParseKind(raw.Kind)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Kind:       kind,
		Primary:    raw.Primary,
		Secondary:  raw.Secondary,
		Speed:      time.Duration(raw.SpeedMS) * time.Millisecond,
		Brightness: raw.Brightness,
		Repeat:     raw.Repeat,
	}
	return cfg, nil
}

// ConfigToJSON encodes an effect configuration to its JSON wire form.
func ConfigToJSON(cfg Config) ([]byte, error) {
	raw := configJSON{
		Kind:       cfg.Kind.String(),
		Primary:    cfg.Primary,
		Secondary:  cfg.Secondary,
		SpeedMS:    cfg.Speed.Milliseconds(),
		Brightness: cfg.Brightness,
		Repeat:     cfg.Repeat,
	}
	return json.Marshal(raw)
}

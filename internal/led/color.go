package led

// Color is an 8-bit-per-channel RGB value. Colors are immutable value
// types; all transformations return a new Color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Predefined palette colors, matching the indicator's status scheme.
var (
	ColorOff     = Color{0, 0, 0}
	ColorRed     = Color{255, 0, 0}
	ColorGreen   = Color{0, 255, 0}
	ColorBlue    = Color{0, 0, 255}
	ColorYellow  = Color{255, 255, 0}
	ColorCyan    = Color{0, 255, 255}
	ColorMagenta = Color{255, 0, 255}
	ColorWhite   = Color{255, 255, 255}
	ColorOrange  = Color{255, 165, 0}
	ColorPurple  = Color{128, 0, 128}
	ColorPink    = Color{255, 192, 203}
	ColorLime    = Color{50, 205, 50}
)

// Conversion constants for the fixed-point HSV math below.
const (
	hueMax        = 360 // degrees per full hue cycle
	hueSectorSize = 60  // degrees per HSV sector (6 sectors)
	satMax        = 100 // saturation is expressed as a percentage
	channelMax    = 255
)

// HSVToRGB converts an HSV color to RGB.
//
// Parameters:
//   - hue: Hue angle in degrees (0-359, values wrap modulo 360)
//   - saturation: Saturation percentage (0-100, clamped)
//   - value: Channel intensity (0-255)
//
// The conversion uses the standard six-sector decomposition with
// integer fixed-point arithmetic, continuous across the 359→0 hue
// wraparound. Saturation 0 takes the achromatic fast path and returns
// value replicated on all three channels.
func HSVToRGB(hue int, saturation uint8, value uint8) Color {
	if saturation == 0 {
		return Color{value, value, value}
	}
	if saturation > satMax {
		saturation = satMax
	}

	hue %= hueMax
	if hue < 0 {
		hue += hueMax
	}

	sector := hue / hueSectorSize
	// Position within the sector, rescaled to 0-255.
	remainder := (hue % hueSectorSize) * channelMax / (hueSectorSize - 1)

	v := int(value)
	s := int(saturation) * channelMax / satMax

	p := uint8(v * (channelMax - s) / channelMax)
	q := uint8(v * (channelMax - s*remainder/channelMax) / channelMax)
	t := uint8(v * (channelMax - s*(channelMax-remainder)/channelMax) / channelMax)

	switch sector {
	case 0:
		return Color{value, t, p}
	case 1:
		return Color{q, value, p}
	case 2:
		return Color{p, value, t}
	case 3:
		return Color{p, q, value}
	case 4:
		return Color{t, p, value}
	default:
		return Color{value, p, q}
	}
}

// Blend linearly interpolates between two colors.
//
// factor 0 returns exactly a, factor 255 returns exactly b. Channel
// arithmetic uses integer truncation.
func Blend(a, b Color, factor uint8) Color {
	f := int(factor)
	inv := channelMax - f
	return Color{
		R: uint8((int(a.R)*inv + int(b.R)*f) / channelMax),
		G: uint8((int(a.G)*inv + int(b.G)*f) / channelMax),
		B: uint8((int(a.B)*inv + int(b.B)*f) / channelMax),
	}
}

// Scale multiplies each channel by brightness/255.
//
// Brightness 255 is an identity operation and returns the color
// unchanged, avoiding any rounding drift.
func Scale(c Color, brightness uint8) Color {
	if brightness == channelMax {
		return c
	}
	b := int(brightness)
	return Color{
		R: uint8(int(c.R) * b / channelMax),
		G: uint8(int(c.G) * b / channelMax),
		B: uint8(int(c.B) * b / channelMax),
	}
}

package led

import "testing"

func TestScale_FullBrightnessIsIdentity(t *testing.T) {
	colors := []Color{
		ColorOff,
		ColorRed,
		ColorWhite,
		ColorOrange,
		ColorPink,
		{13, 77, 201},
	}

	for _, c := range colors {
		if got := Scale(c, 255); got != c {
			t.Errorf("Scale(%v, 255) = %v, want identity", c, got)
		}
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name       string
		color      Color
		brightness uint8
		expected   Color
	}{
		{
			name:       "zero brightness blanks all channels",
			color:      ColorWhite,
			brightness: 0,
			expected:   ColorOff,
		},
		{
			name:       "half brightness truncates",
			color:      Color{255, 100, 1},
			brightness: 128,
			expected:   Color{128, 50, 0},
		},
		{
			name:       "black stays black",
			color:      ColorOff,
			brightness: 200,
			expected:   ColorOff,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scale(tt.color, tt.brightness); got != tt.expected {
				t.Errorf("Scale(%v, %d) = %v, want %v", tt.color, tt.brightness, got, tt.expected)
			}
		})
	}
}

func TestBlend_Endpoints(t *testing.T) {
	pairs := []struct{ a, b Color }{
		{ColorRed, ColorBlue},
		{ColorOff, ColorWhite},
		{Color{10, 20, 30}, Color{200, 100, 50}},
	}

	for _, p := range pairs {
		if got := Blend(p.a, p.b, 0); got != p.a {
			t.Errorf("Blend(%v, %v, 0) = %v, want %v", p.a, p.b, got, p.a)
		}
		if got := Blend(p.a, p.b, 255); got != p.b {
			t.Errorf("Blend(%v, %v, 255) = %v, want %v", p.a, p.b, got, p.b)
		}
	}
}

func TestBlend_Midpoint(t *testing.T) {
	got := Blend(ColorOff, ColorWhite, 128)
	if got.R != got.G || got.G != got.B {
		t.Errorf("midpoint blend of gray endpoints should be gray, got %v", got)
	}
	if got.R < 126 || got.R > 129 {
		t.Errorf("midpoint blend = %v, want ~128 per channel", got)
	}
}

func TestHSVToRGB_Achromatic(t *testing.T) {
	for _, hue := range []int{0, 90, 180, 359} {
		for _, value := range []uint8{0, 1, 128, 255} {
			got := HSVToRGB(hue, 0, value)
			want := Color{value, value, value}
			if got != want {
				t.Errorf("HSVToRGB(%d, 0, %d) = %v, want %v", hue, value, got, want)
			}
		}
	}
}

func TestHSVToRGB_PrimaryHues(t *testing.T) {
	tests := []struct {
		name     string
		hue      int
		expected Color
	}{
		{name: "red", hue: 0, expected: ColorRed},
		{name: "green", hue: 120, expected: ColorGreen},
		{name: "blue", hue: 240, expected: ColorBlue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HSVToRGB(tt.hue, 100, 255)
			if got != tt.expected {
				t.Errorf("HSVToRGB(%d, 100, 255) = %v, want %v", tt.hue, got, tt.expected)
			}
		})
	}
}

// TestHSVToRGB_Continuity walks the full hue circle and verifies no
// channel jumps by more than a single HSV step between adjacent hues,
// including across the 359→0 wraparound.
func TestHSVToRGB_Continuity(t *testing.T) {
	const maxStep = 8

	absDiff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			d = -d
		}
		return d
	}

	prev := HSVToRGB(359, 100, 255)
	for hue := 0; hue < 360; hue++ {
		cur := HSVToRGB(hue, 100, 255)
		if absDiff(cur.R, prev.R) > maxStep ||
			absDiff(cur.G, prev.G) > maxStep ||
			absDiff(cur.B, prev.B) > maxStep {
			t.Fatalf("discontinuity at hue %d: %v -> %v", hue, prev, cur)
		}
		prev = cur
	}
}

package colors

// Color is a straight RGBA value used for clear colors and vertex tints.
type Color [4]float32

var (
	// Background is the frame clear color.
	Background = Color{0, 0, 0.3, 1}
	DarkGray   = Color{0.08, 0.10, 0.12, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// RGB drops the alpha channel.
func (c Color) RGB() ColorRGB { return ColorRGB{c[0], c[1], c[2]} }

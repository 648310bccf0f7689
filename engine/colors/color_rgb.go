package colors

import "github.com/hubastard/lumen/engine/math3d"

// ColorRGB holds three non-negative float channels. Channels may exceed 1
// after blending; MaxToOne brings them back into range.
type ColorRGB struct {
	R, G, B float32
}

var (
	Red     = ColorRGB{1, 0, 0}
	Blue    = ColorRGB{0, 0, 1}
	Green   = ColorRGB{0, 1, 0}
	Yellow  = ColorRGB{1, 1, 0}
	Cyan    = ColorRGB{0, 1, 1}
	Magenta = ColorRGB{1, 0, 1}
	White   = ColorRGB{1, 1, 1}
	Black   = ColorRGB{0, 0, 0}
	Gray    = ColorRGB{0.5, 0.5, 0.5}
)

// MaxToOne scales the color down so its largest channel is at most 1.
// Colors already in range are left untouched.
func (c *ColorRGB) MaxToOne() {
	m := max(c.R, c.G, c.B)
	if m > 1 {
		*c = c.DivScalar(m)
	}
}

// Lerp interpolates linearly from c1 to c2.
func Lerp(c1, c2 ColorRGB, f float32) ColorRGB {
	return ColorRGB{
		math3d.Lerp(c1.R, c2.R, f),
		math3d.Lerp(c1.G, c2.G, f),
		math3d.Lerp(c1.B, c2.B, f),
	}
}

func (c ColorRGB) Add(o ColorRGB) ColorRGB      { return ColorRGB{c.R + o.R, c.G + o.G, c.B + o.B} }
func (c ColorRGB) Sub(o ColorRGB) ColorRGB      { return ColorRGB{c.R - o.R, c.G - o.G, c.B - o.B} }
func (c ColorRGB) Mul(o ColorRGB) ColorRGB      { return ColorRGB{c.R * o.R, c.G * o.G, c.B * o.B} }
func (c ColorRGB) Div(o ColorRGB) ColorRGB      { return ColorRGB{c.R / o.R, c.G / o.G, c.B / o.B} }
func (c ColorRGB) Scale(s float32) ColorRGB     { return ColorRGB{c.R * s, c.G * s, c.B * s} }
func (c ColorRGB) DivScalar(s float32) ColorRGB { return ColorRGB{c.R / s, c.G / s, c.B / s} }
func (c ColorRGB) RGBA(alpha float32) Color     { return Color{c.R, c.G, c.B, alpha} }

// Equal compares channels within math3d.Epsilon.
func (c ColorRGB) Equal(o ColorRGB) bool {
	return math3d.AreEqual(c.R, o.R, math3d.Epsilon) &&
		math3d.AreEqual(c.G, o.G, math3d.Epsilon) &&
		math3d.AreEqual(c.B, o.B, math3d.Epsilon)
}

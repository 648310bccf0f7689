// Package math3d is a small float32 vector and matrix package for the
// left-handed, row-vector (v * M) conventions used by the renderer.
package math3d

import "github.com/chewxy/math32"

const (
	Pi = math32.Pi

	// DegToRadFactor is the number of radians per degree.
	DegToRadFactor = Pi / 180

	// Epsilon is the default tolerance used by the Equal methods.
	Epsilon float32 = 1e-5

	// Epsilon4 is the tighter tolerance used by Vector4.Equal.
	Epsilon4 float32 = 1e-6
)

// AreEqual reports whether a and b differ by at most eps.
func AreEqual(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

func DegToRad(deg float32) float32 { return deg * DegToRadFactor }

// Lerp interpolates linearly between a and b.
func Lerp(a, b, f float32) float32 { return a + f*(b-a) }

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Saturate clamps v to [0, 1].
func Saturate(v float32) float32 { return Clamp(v, 0, 1) }

func Sqrt(v float32) float32 { return math32.Sqrt(v) }
func Sin(v float32) float32  { return math32.Sin(v) }
func Cos(v float32) float32  { return math32.Cos(v) }
func Tan(v float32) float32  { return math32.Tan(v) }

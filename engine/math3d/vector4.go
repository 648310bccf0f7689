package math3d

import "fmt"

// Vector4 is a vector/point in homogeneous coordinates.
type Vector4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

func Vec4(x, y, z, w float32) Vector4 { return Vector4{X: x, Y: y, Z: z, W: w} }

// Vector4FromVector3 returns v extended with the given w.
func Vector4FromVector3(v Vector3, w float32) Vector4 { return Vector4{v.X, v.Y, v.Z, w} }

func (v Vector4) Magnitude() float32    { return Sqrt(v.SqrMagnitude()) }
func (v Vector4) SqrMagnitude() float32 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W }

// Normalize scales v to unit length in place and returns its previous magnitude.
// v must not be the zero vector.
func (v *Vector4) Normalize() float32 {
	m := v.Magnitude()
	assertNonZero(m)
	v.X /= m
	v.Y /= m
	v.Z /= m
	v.W /= m
	return m
}

func (v Vector4) Normalized() Vector4 {
	v.Normalize()
	return v
}

func (v Vector4) Dot(o Vector4) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W }

func (v Vector4) XY() Vector2  { return Vector2{v.X, v.Y} }
func (v Vector4) XYZ() Vector3 { return Vector3{v.X, v.Y, v.Z} }

func (v Vector4) Add(o Vector4) Vector4       { return Vector4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W} }
func (v Vector4) Sub(o Vector4) Vector4       { return Vector4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W} }
func (v Vector4) MulScalar(s float32) Vector4 { return Vector4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

// Equal compares component-wise within Epsilon4.
func (v Vector4) Equal(o Vector4) bool {
	return AreEqual(v.X, o.X, Epsilon4) && AreEqual(v.Y, o.Y, Epsilon4) &&
		AreEqual(v.Z, o.Z, Epsilon4) && AreEqual(v.W, o.W, Epsilon4)
}

func (v Vector4) Dim(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	case 3:
		return v.W
	}
	panic(fmt.Sprintf("math3d: Vector4 index %d out of range", i))
}

func (v *Vector4) SetDim(i int, value float32) {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	case 2:
		v.Z = value
	case 3:
		v.W = value
	default:
		panic(fmt.Sprintf("math3d: Vector4 index %d out of range", i))
	}
}

func (v Vector4) String() string { return fmt.Sprintf("(%g, %g, %g, %g)", v.X, v.Y, v.Z, v.W) }

package math3d

import "fmt"

// Vector3 is a 3D vector/point with X, Y and Z components.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

var (
	Vector3UnitX = Vector3{1, 0, 0}
	Vector3UnitY = Vector3{0, 1, 0}
	Vector3UnitZ = Vector3{0, 0, 1}
	Vector3Zero  = Vector3{}
)

func Vec3(x, y, z float32) Vector3 { return Vector3{X: x, Y: y, Z: z} }

// Vector3Between returns the vector pointing from `from` to `to`.
func Vector3Between(from, to Vector3) Vector3 { return to.Sub(from) }

func (v Vector3) Magnitude() float32    { return Sqrt(v.SqrMagnitude()) }
func (v Vector3) SqrMagnitude() float32 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Normalize scales v to unit length in place and returns its previous magnitude.
// v must not be the zero vector.
func (v *Vector3) Normalize() float32 {
	m := v.Magnitude()
	assertNonZero(m)
	v.X /= m
	v.Y /= m
	v.Z /= m
	return m
}

// Normalized returns v scaled to unit length. v must not be the zero vector.
func (v Vector3) Normalized() Vector3 {
	v.Normalize()
	return v
}

func (v Vector3) Dot(o Vector3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Project returns the projection of v onto o.
func (v Vector3) Project(o Vector3) Vector3 {
	return o.MulScalar(v.Dot(o) / o.Dot(o))
}

// Reject returns the component of v perpendicular to o.
func (v Vector3) Reject(o Vector3) Vector3 {
	return v.Sub(v.Project(o))
}

// Reflect mirrors v about the plane with normal n. n must be unit length.
func (v Vector3) Reflect(n Vector3) Vector3 {
	return v.Sub(n.MulScalar(2 * v.Dot(n)))
}

// ToPoint4 returns v as a homogeneous point (w=1).
func (v Vector3) ToPoint4() Vector4 { return Vector4{v.X, v.Y, v.Z, 1} }

// ToVector4 returns v as a homogeneous direction (w=0).
func (v Vector3) ToVector4() Vector4 { return Vector4{v.X, v.Y, v.Z, 0} }

func (v Vector3) XY() Vector2 { return Vector2{v.X, v.Y} }

func (v Vector3) Add(o Vector3) Vector3       { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3       { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) MulScalar(s float32) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3) DivScalar(s float32) Vector3 { return Vector3{v.X / s, v.Y / s, v.Z / s} }
func (v Vector3) Negate() Vector3             { return Vector3{-v.X, -v.Y, -v.Z} }

// Equal compares component-wise within Epsilon.
func (v Vector3) Equal(o Vector3) bool { return v.EqualTol(o, Epsilon) }

func (v Vector3) EqualTol(o Vector3, eps float32) bool {
	return AreEqual(v.X, o.X, eps) && AreEqual(v.Y, o.Y, eps) && AreEqual(v.Z, o.Z, eps)
}

// Dim returns the component at index i (0=X, 1=Y, 2=Z).
func (v Vector3) Dim(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("math3d: Vector3 index %d out of range", i))
}

func (v *Vector3) SetDim(i int, value float32) {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	case 2:
		v.Z = value
	default:
		panic(fmt.Sprintf("math3d: Vector3 index %d out of range", i))
	}
}

func (v Vector3) String() string { return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z) }

package math3d

import "fmt"

// Vector2 is a 2D vector/point with X and Y components.
type Vector2 struct {
	X float32
	Y float32
}

var (
	Vector2UnitX = Vector2{1, 0}
	Vector2UnitY = Vector2{0, 1}
	Vector2Zero  = Vector2{}
)

func Vec2(x, y float32) Vector2 { return Vector2{X: x, Y: y} }

// Vector2Between returns the vector pointing from `from` to `to`.
func Vector2Between(from, to Vector2) Vector2 { return to.Sub(from) }

func (v Vector2) Magnitude() float32    { return Sqrt(v.SqrMagnitude()) }
func (v Vector2) SqrMagnitude() float32 { return v.X*v.X + v.Y*v.Y }

// Normalize scales v to unit length in place and returns its previous magnitude.
// v must not be the zero vector.
func (v *Vector2) Normalize() float32 {
	m := v.Magnitude()
	assertNonZero(m)
	v.X /= m
	v.Y /= m
	return m
}

// Normalized returns v scaled to unit length. v must not be the zero vector.
func (v Vector2) Normalized() Vector2 {
	v.Normalize()
	return v
}

func (v Vector2) Dot(o Vector2) float32 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product of v and o.
func (v Vector2) Cross(o Vector2) float32 { return v.X*o.Y - v.Y*o.X }

func (v Vector2) Add(o Vector2) Vector2       { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2       { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) MulScalar(s float32) Vector2 { return Vector2{v.X * s, v.Y * s} }
func (v Vector2) DivScalar(s float32) Vector2 { return Vector2{v.X / s, v.Y / s} }
func (v Vector2) Negate() Vector2             { return Vector2{-v.X, -v.Y} }

// Equal compares component-wise within Epsilon.
func (v Vector2) Equal(o Vector2) bool { return v.EqualTol(o, Epsilon) }

func (v Vector2) EqualTol(o Vector2, eps float32) bool {
	return AreEqual(v.X, o.X, eps) && AreEqual(v.Y, o.Y, eps)
}

// Dim returns the component at index i (0=X, 1=Y).
func (v Vector2) Dim(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	panic(fmt.Sprintf("math3d: Vector2 index %d out of range", i))
}

// SetDim sets the component at index i.
func (v *Vector2) SetDim(i int, value float32) {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		panic(fmt.Sprintf("math3d: Vector2 index %d out of range", i))
	}
}

func (v Vector2) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

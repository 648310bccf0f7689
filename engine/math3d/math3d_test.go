package math3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

var sampleVectors = []Vector3{
	{1, 0, 0},
	{0, -3, 4},
	{1.5, 2.25, -7},
	{-0.001, 0.002, 0.0005},
	{100, -250, 12},
}

func TestNormalizedHasUnitMagnitude(t *testing.T) {
	for _, v := range sampleVectors {
		assert.InDelta(t, 1, v.Normalized().Magnitude(), tol, "v=%v", v)
	}
	assert.InDelta(t, 1, Vec2(3, 4).Normalized().Magnitude(), tol)
	assert.InDelta(t, 1, Vec4(1, 2, 3, 4).Normalized().Magnitude(), tol)
}

func TestNormalizeReturnsMagnitude(t *testing.T) {
	v := Vec3(0, 3, 4)
	assert.InDelta(t, 5, v.Normalize(), tol)
	assert.True(t, v.Equal(Vec3(0, 0.6, 0.8)))
}

func TestCrossIsPerpendicular(t *testing.T) {
	for _, a := range sampleVectors {
		for _, b := range sampleVectors {
			c := a.Cross(b)
			scale := a.Magnitude() * b.Magnitude() * (a.Magnitude() + b.Magnitude())
			assert.InDelta(t, 0, c.Dot(a)/scale, tol, "a=%v b=%v", a, b)
			assert.InDelta(t, 0, c.Dot(b)/scale, tol, "a=%v b=%v", a, b)
		}
	}
	assert.True(t, Vector3UnitX.Cross(Vector3UnitY).Equal(Vector3UnitZ))
}

func TestAddNegateIsZero(t *testing.T) {
	for _, v := range sampleVectors {
		assert.True(t, v.Add(v.Negate()).Equal(Vector3Zero))
	}
	assert.True(t, Vec2(1, -2).Add(Vec2(1, -2).Negate()).Equal(Vector2Zero))
}

func TestDoubleReflectIsIdentity(t *testing.T) {
	normals := []Vector3{Vector3UnitY, Vec3(1, 1, 0).Normalized(), Vec3(-2, 3, 6).Normalized()}
	for _, n := range normals {
		for _, v := range sampleVectors {
			got := v.Reflect(n).Reflect(n)
			assert.True(t, got.EqualTol(v, 1e-3), "v=%v n=%v got=%v", v, n, got)
		}
	}
	assert.True(t, Vec3(1, -1, 0).Reflect(Vector3UnitY).Equal(Vec3(1, 1, 0)))
}

func TestProjectReject(t *testing.T) {
	v := Vec3(3, 4, 5)
	p := v.Project(Vector3UnitX)
	r := v.Reject(Vector3UnitX)
	assert.True(t, p.Equal(Vec3(3, 0, 0)))
	assert.True(t, r.Equal(Vec3(0, 4, 5)))
	assert.True(t, p.Add(r).Equal(v))
}

func TestDimIndexing(t *testing.T) {
	v := Vec3(1, 2, 3)
	v.SetDim(1, 7)
	assert.Equal(t, float32(7), v.Dim(1))
	assert.Panics(t, func() { v.Dim(3) })

	v4 := Vec4(1, 2, 3, 4)
	assert.Equal(t, float32(4), v4.Dim(3))
	assert.Panics(t, func() { Vec2(0, 0).Dim(2) })
}

func TestVector4EqualUsesTightTolerance(t *testing.T) {
	a := Vec4(1, 1, 1, 1)
	assert.True(t, a.Equal(Vec4(1, 1, 1, 1+5e-7)))
	assert.False(t, a.Equal(Vec4(1, 1, 1, 1+5e-6)))
	assert.True(t, Vec3(1, 1, 1).Equal(Vec3(1, 1, 1+5e-6)))
}

func TestMatrixIdentityAndInverse(t *testing.T) {
	m := Rotation(0.3, -1.1, 0.7).Mul(Translation(4, -2, 9))
	assert.True(t, m.Mul(m.Inverse()).Equal(Identity()))
	assert.True(t, Identity().Mul(m).Equal(m))
	assert.True(t, m.Transpose().Transpose().Equal(m))
}

func TestTransformPointVsVector(t *testing.T) {
	m := Translation(1, 2, 3)
	assert.True(t, m.TransformPoint(Vector3Zero).Equal(Vec3(1, 2, 3)))
	assert.True(t, m.TransformVector(Vector3UnitX).Equal(Vector3UnitX))

	v4 := m.TransformVector4(Vec4(0, 0, 0, 1))
	assert.True(t, v4.Equal(Vec4(1, 2, 3, 1)))
}

func TestRotationY(t *testing.T) {
	// yaw a quarter turn turns +Z toward +X in a left-handed frame
	got := RotationY(Pi / 2).TransformVector(Vector3UnitZ)
	assert.True(t, got.Equal(Vector3UnitX), "got %v", got)
}

func TestTransformNormalKeepsPerpendicular(t *testing.T) {
	m := Scale(2, 1, 1)
	tangent := m.TransformVector(Vec3(1, -1, 0))
	normal := m.TransformNormal(Vec3(1, 1, 0))
	assert.InDelta(t, 0, tangent.Dot(normal), tol)
}

func TestLookAtLH(t *testing.T) {
	view := LookAtLH(Vec3(0, 0, -10), Vector3UnitZ, Vector3UnitY)
	// the world origin sits 10 units ahead of the camera
	assert.True(t, view.TransformPoint(Vector3Zero).Equal(Vec3(0, 0, 10)))
	// a point to the right stays on +X
	assert.True(t, view.TransformPoint(Vec3(1, 0, -10)).Equal(Vec3(1, 0, 0)))
}

func TestPerspectiveFovLH(t *testing.T) {
	fovTan := Tan(DegToRad(90) / 2)
	p := PerspectiveFovLH(fovTan, 1, 0.1, 100)
	assert.InDelta(t, 1, p.At(0, 0), tol)
	assert.InDelta(t, 1, p.At(1, 1), tol)

	wide := PerspectiveFovLH(fovTan, 2, 0.1, 100)
	assert.InDelta(t, 0.5, wide.At(0, 0), tol)
	assert.InDelta(t, p.At(1, 1), wide.At(1, 1), tol)

	near := p.TransformVector4(Vec4(0, 0, 0.1, 1))
	far := p.TransformVector4(Vec4(0, 0, 100, 1))
	assert.InDelta(t, 0, near.Z/near.W, tol)
	assert.InDelta(t, 1, far.Z/far.W, tol)
}

func TestFloatsRoundTrip(t *testing.T) {
	m := Rotation(0.1, 0.2, 0.3)
	assert.True(t, MatrixFromFloats(m.Floats()).Equal(m))
	f := Translation(5, 6, 7).Floats()
	assert.Equal(t, float32(5), f[12])
}

package math3d

import "fmt"

// Matrix is a 4x4 matrix stored as rows, using the row-vector convention:
// a point p is transformed as p * M, so rows 0..2 hold the X, Y and Z axes
// and row 3 holds the translation. Composition reads left to right:
// world.Mul(view).Mul(projection).
type Matrix [4]Vector4

func Identity() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// NewMatrix builds a matrix from three axes and a translation.
func NewMatrix(xAxis, yAxis, zAxis, t Vector3) Matrix {
	return Matrix{
		xAxis.ToVector4(),
		yAxis.ToVector4(),
		zAxis.ToVector4(),
		t.ToPoint4(),
	}
}

func Translation(x, y, z float32) Matrix {
	m := Identity()
	m[3] = Vector4{x, y, z, 1}
	return m
}

func TranslationVec(t Vector3) Matrix { return Translation(t.X, t.Y, t.Z) }

func Scale(x, y, z float32) Matrix {
	return Matrix{
		{x, 0, 0, 0},
		{0, y, 0, 0},
		{0, 0, z, 0},
		{0, 0, 0, 1},
	}
}

// RotationX rotates by pitch radians about the X axis.
func RotationX(pitch float32) Matrix {
	c, s := Cos(pitch), Sin(pitch)
	return Matrix{
		{1, 0, 0, 0},
		{0, c, s, 0},
		{0, -s, c, 0},
		{0, 0, 0, 1},
	}
}

// RotationY rotates by yaw radians about the Y axis.
func RotationY(yaw float32) Matrix {
	c, s := Cos(yaw), Sin(yaw)
	return Matrix{
		{c, 0, -s, 0},
		{0, 1, 0, 0},
		{s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotationZ rotates by roll radians about the Z axis.
func RotationZ(roll float32) Matrix {
	c, s := Cos(roll), Sin(roll)
	return Matrix{
		{c, s, 0, 0},
		{-s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Rotation applies pitch, then yaw, then roll.
func Rotation(pitch, yaw, roll float32) Matrix {
	return RotationX(pitch).Mul(RotationY(yaw)).Mul(RotationZ(roll))
}

// LookAtLH returns the left-handed view matrix of a camera at origin looking
// along forward. forward must not be parallel to up.
func LookAtLH(origin, forward, up Vector3) Matrix {
	f := forward.Normalized()
	r := up.Cross(f).Normalized()
	u := f.Cross(r)
	return Matrix{
		{r.X, u.X, f.X, 0},
		{r.Y, u.Y, f.Y, 0},
		{r.Z, u.Z, f.Z, 0},
		{-origin.Dot(r), -origin.Dot(u), -origin.Dot(f), 1},
	}
}

// PerspectiveFovLH returns a left-handed perspective projection mapping view
// depth [near, far] to [0, 1]. fovTan is tan(fovAngle/2).
func PerspectiveFovLH(fovTan, aspect, near, far float32) Matrix {
	a := far / (far - near)
	b := -(far * near) / (far - near)
	return Matrix{
		{1 / (aspect * fovTan), 0, 0, 0},
		{0, 1 / fovTan, 0, 0},
		{0, 0, a, 1},
		{0, 0, b, 0},
	}
}

// At returns the element at row r, column c.
func (m Matrix) At(r, c int) float32 { return m[r].Dim(c) }

func (m *Matrix) Set(r, c int, v float32) { m[r].SetDim(c, v) }

func (m Matrix) AxisX() Vector3       { return m[0].XYZ() }
func (m Matrix) AxisY() Vector3       { return m[1].XYZ() }
func (m Matrix) AxisZ() Vector3       { return m[2].XYZ() }
func (m Matrix) Translation() Vector3 { return m[3].XYZ() }

// Mul returns m * o.
func (m Matrix) Mul(o Matrix) Matrix {
	var out Matrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m.At(r, k) * o.At(k, c)
			}
			out.Set(r, c, sum)
		}
	}
	return out
}

func (m Matrix) Transpose() Matrix {
	var out Matrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.Set(c, r, m.At(r, c))
		}
	}
	return out
}

// TransformVector transforms a direction (w=0).
func (m Matrix) TransformVector(v Vector3) Vector3 {
	return Vector3{
		v.X*m[0].X + v.Y*m[1].X + v.Z*m[2].X,
		v.X*m[0].Y + v.Y*m[1].Y + v.Z*m[2].Y,
		v.X*m[0].Z + v.Y*m[1].Z + v.Z*m[2].Z,
	}
}

// TransformPoint transforms a position (w=1) without the perspective divide.
func (m Matrix) TransformPoint(p Vector3) Vector3 {
	return m.TransformVector(p).Add(m[3].XYZ())
}

// TransformNormal transforms a surface normal by the inverse transpose of m.
func (m Matrix) TransformNormal(n Vector3) Vector3 {
	return m.Inverse().Transpose().TransformVector(n)
}

// TransformVector4 transforms a homogeneous vector.
func (m Matrix) TransformVector4(v Vector4) Vector4 {
	return Vector4{
		v.X*m[0].X + v.Y*m[1].X + v.Z*m[2].X + v.W*m[3].X,
		v.X*m[0].Y + v.Y*m[1].Y + v.Z*m[2].Y + v.W*m[3].Y,
		v.X*m[0].Z + v.Y*m[1].Z + v.Z*m[2].Z + v.W*m[3].Z,
		v.X*m[0].W + v.Y*m[1].W + v.Z*m[2].W + v.W*m[3].W,
	}
}

// Inverse returns the inverse of m. A singular matrix yields non-finite values.
func (m Matrix) Inverse() Matrix {
	a := m.Floats()
	var inv [16]float32

	inv[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	inv[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	inv[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	inv[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	det := a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
	invDet := 1 / det
	for i := range inv {
		inv[i] *= invDet
	}
	return MatrixFromFloats(inv)
}

// Floats returns the elements row by row, ready for upload. Shaders that
// multiply `mat * vec` see the transpose, which matches the row-vector math.
func (m Matrix) Floats() [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		out[r*4+0] = m[r].X
		out[r*4+1] = m[r].Y
		out[r*4+2] = m[r].Z
		out[r*4+3] = m[r].W
	}
	return out
}

// MatrixFromFloats is the inverse of Floats.
func MatrixFromFloats(f [16]float32) Matrix {
	var m Matrix
	for r := 0; r < 4; r++ {
		m[r] = Vector4{f[r*4+0], f[r*4+1], f[r*4+2], f[r*4+3]}
	}
	return m
}

// Equal compares element-wise within Epsilon.
func (m Matrix) Equal(o Matrix) bool {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if !AreEqual(m.At(r, c), o.At(r, c), Epsilon) {
				return false
			}
		}
	}
	return true
}

func (m Matrix) String() string {
	return fmt.Sprintf("[%v %v %v %v]", m[0], m[1], m[2], m[3])
}

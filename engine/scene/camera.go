package scene

import (
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/math3d"
)

const (
	cameraSpeed      = 1
	cameraBoost      = 5
	mouseSensitivity = 0.25
	// radians per pixel of mouse motion
	mouseAngle = mouseSensitivity * math3d.DegToRadFactor

	defaultNear = 0.1
	defaultFar  = 100
)

// Camera is a free-flying left-handed camera driven by keyboard and relative
// mouse input.
type Camera struct {
	origin  math3d.Vector3
	forward math3d.Vector3
	yaw     float32
	pitch   float32

	fovAngle float32 // radians
	fovTan   float32
	aspect   float32
	near     float32
	far      float32

	view math3d.Matrix
}

// NewCamera places a camera at origin looking down +Z.
func NewCamera(origin math3d.Vector3, fovDegrees, aspect float32) *Camera {
	c := &Camera{
		origin:  origin,
		forward: math3d.Vector3UnitZ,
		aspect:  aspect,
		near:    defaultNear,
		far:     defaultFar,
	}
	c.SetFovAngleDegrees(fovDegrees)
	c.view = c.calculateView()
	return c
}

// SetFovAngleDegrees stores the angle in radians and caches tan(angle/2).
func (c *Camera) SetFovAngleDegrees(deg float32) {
	c.fovAngle = math3d.DegToRad(deg)
	c.fovTan = math3d.Tan(c.fovAngle * 0.5)
}

func (c *Camera) FovAngle() float32               { return c.fovAngle }
func (c *Camera) FovTan() float32                 { return c.fovTan }
func (c *Camera) SetAspectRatio(a float32)        { c.aspect = a }
func (c *Camera) AspectRatio() float32            { return c.aspect }
func (c *Camera) SetClipPlanes(near, far float32) { c.near, c.far = near, far }
func (c *Camera) Near() float32                   { return c.near }
func (c *Camera) Far() float32                    { return c.far }
func (c *Camera) Position() math3d.Vector3        { return c.origin }
func (c *Camera) Forward() math3d.Vector3         { return c.forward }

func (c *Camera) SetPosition(p math3d.Vector3) {
	c.origin = p
	c.view = c.calculateView()
}

// ViewMatrix returns the view matrix computed by the last Update.
func (c *Camera) ViewMatrix() math3d.Matrix { return c.view }

// ProjectionMatrix is rebuilt on every call from the cached fov tangent.
func (c *Camera) ProjectionMatrix() math3d.Matrix {
	return math3d.PerspectiveFovLH(c.fovTan, c.aspect, c.near, c.far)
}

func (c *Camera) Move(delta math3d.Vector3) { c.origin = c.origin.Add(delta) }

// Rotate accumulates yaw and pitch and recomputes the forward vector.
func (c *Camera) Rotate(yaw, pitch float32) {
	c.yaw += yaw
	c.pitch += pitch
	c.forward = math3d.RotationY(c.yaw).TransformVector(math3d.RotationX(c.pitch).TransformVector(math3d.Vector3UnitZ))
}

// alongView turns a camera-space z offset into world space, following yaw
// and then pitch.
func (c *Camera) alongView(dist float32) math3d.Vector3 {
	v := math3d.RotationY(c.yaw).TransformVector(math3d.Vector3UnitZ.MulScalar(dist))
	return math3d.RotationX(c.pitch).TransformVector(v)
}

func (c *Camera) alongYaw(v math3d.Vector3) math3d.Vector3 {
	return math3d.RotationY(c.yaw).TransformVector(v)
}

// Update moves and turns the camera from the current input snapshot, then
// rebuilds the view matrix.
func (c *Camera) Update(in *core.Input, dt float32) {
	step := float32(cameraSpeed) * dt
	if in.IsKeyDown(core.KeyLeftShift) {
		step *= cameraBoost
	}

	if in.IsKeyDown(core.KeyW) || in.IsKeyDown(core.KeyUp) {
		c.Move(c.alongView(step))
	}
	if in.IsKeyDown(core.KeyS) || in.IsKeyDown(core.KeyDown) {
		c.Move(c.alongView(-step))
	}
	if in.IsKeyDown(core.KeyD) || in.IsKeyDown(core.KeyRight) {
		c.Move(c.alongYaw(math3d.Vector3UnitX.MulScalar(step)))
	}
	if in.IsKeyDown(core.KeyA) || in.IsKeyDown(core.KeyLeft) {
		c.Move(c.alongYaw(math3d.Vector3UnitX.MulScalar(-step)))
	}
	if in.IsKeyDown(core.KeySpace) {
		c.Move(math3d.Vector3UnitY.MulScalar(step))
	}
	if in.IsKeyDown(core.KeyC) {
		c.Move(math3d.Vector3UnitY.MulScalar(-step))
	}

	dx, dy := in.MouseDelta()
	buttons := in.Buttons() & (core.MouseLeft | core.MouseRight)
	switch buttons {
	case core.MouseRight:
		c.Rotate(dx*mouseAngle, -dy*mouseAngle)
	case core.MouseLeft:
		c.Rotate(dx*mouseAngle, 0)
		c.Move(c.alongView(-dy * mouseSensitivity * 0.5))
	case core.MouseLeft | core.MouseRight:
		c.Move(c.alongYaw(math3d.Vector3UnitY.MulScalar(dy * mouseSensitivity)))
	}

	c.view = c.calculateView()
}

func (c *Camera) calculateView() math3d.Matrix {
	return math3d.LookAtLH(c.origin, c.forward, math3d.Vector3UnitY)
}

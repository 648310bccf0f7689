package scene

import (
	"testing"

	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/math3d"
	"github.com/stretchr/testify/assert"
)

// recorder is a Drawable that logs what the scene does with it.
type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) Draw(gfx.Context) error {
	*r.log = append(*r.log, r.name)
	return nil
}
func (r *recorder) SetWorldViewProjection(_, _ math3d.Matrix, _ math3d.Vector3) {}
func (r *recorder) ApplyMatrix(math3d.Matrix)                                   {}
func (r *recorder) CycleFilteringMode() gfx.Filter                              { return gfx.FilterPoint }
func (r *recorder) Release()                                                    { *r.log = append(*r.log, "release "+r.name) }

func TestProjectionMatrix(t *testing.T) {
	c := NewCamera(math3d.Vector3{}, 90, 1)
	assert.InDelta(t, 1, c.FovTan(), 1e-6)

	n, f := c.Near(), c.Far()
	p := c.ProjectionMatrix()
	assert.InDelta(t, 1, p.At(0, 0), 1e-5)
	assert.InDelta(t, 1, p.At(1, 1), 1e-5)
	assert.InDelta(t, f/(f-n), p.At(2, 2), 1e-5)
	assert.InDelta(t, 1, p.At(2, 3), 0)
	assert.InDelta(t, -f*n/(f-n), p.At(3, 2), 1e-5)
	assert.InDelta(t, 0, p.At(3, 3), 0)

	c.SetAspectRatio(2)
	assert.InDelta(t, 0.5, c.ProjectionMatrix().At(0, 0), 1e-5)
}

func TestProjectionMapsClipPlanesToUnitDepth(t *testing.T) {
	c := NewCamera(math3d.Vector3{}, 60, 16.0/9.0)
	p := c.ProjectionMatrix()
	for _, tc := range []struct{ z, depth float32 }{{c.Near(), 0}, {c.Far(), 1}} {
		v := p.TransformVector4(math3d.Vec4(0, 0, tc.z, 1))
		assert.InDelta(t, tc.depth, v.Z/v.W, 1e-5)
	}
}

func TestCameraKeyboardMovement(t *testing.T) {
	c := NewCamera(math3d.Vector3{}, 45, 1)
	in := core.NewInput()

	press(in, core.KeyW, true)
	c.Update(in, 1)
	assert.True(t, c.Position().Equal(math3d.Vec3(0, 0, 1)), "got %v", c.Position())

	press(in, core.KeyLeftShift, true)
	c.Update(in, 1)
	assert.True(t, c.Position().Equal(math3d.Vec3(0, 0, 6)), "got %v", c.Position())

	press(in, core.KeyW, false)
	press(in, core.KeyLeftShift, false)
	press(in, core.KeySpace, true)
	press(in, core.KeyD, true)
	c.Update(in, 0.5)
	assert.True(t, c.Position().Equal(math3d.Vec3(0.5, 0.5, 6)), "got %v", c.Position())
}

func TestCameraViewFollowsPosition(t *testing.T) {
	c := NewCamera(math3d.Vec3(0, 0, -10), 45, 1)
	p := c.ViewMatrix().TransformPoint(math3d.Vec3(0, 0, -10))
	assert.True(t, p.Equal(math3d.Vector3{}), "got %v", p)

	c.SetPosition(math3d.Vec3(1, 2, 3))
	p = c.ViewMatrix().TransformPoint(math3d.Vec3(1, 2, 5))
	assert.True(t, p.Equal(math3d.Vec3(0, 0, 2)), "got %v", p)
}

func mouseDrag(in *core.Input, b core.MouseButton, dx, dy float64) {
	in.EndFrame()
	in.Handle(core.EventMouseButton{Button: b, Down: true})
	x, y := in.Mouse()
	in.Handle(core.EventMouseMove{X: x, Y: y})
	in.Handle(core.EventMouseMove{X: x + dx, Y: y + dy})
}

func TestCameraRightDragTurns(t *testing.T) {
	c := NewCamera(math3d.Vector3{}, 45, 1)
	in := core.NewInput()

	// 360 px at 0.25 degrees per pixel is a quarter turn
	mouseDrag(in, core.MouseRight, 360, 0)
	c.Update(in, 0)

	fwd := c.Forward()
	assert.InDelta(t, 1, math3d.Vec2(fwd.X, fwd.Z).Magnitude(), 1e-5)
	assert.InDelta(t, 0, fwd.Z, 1e-5)
	assert.InDelta(t, 0, fwd.Y, 1e-5)
	assert.True(t, c.Position().Equal(math3d.Vector3{}))
}

func TestCameraLeftDragDollies(t *testing.T) {
	c := NewCamera(math3d.Vector3{}, 45, 1)
	in := core.NewInput()

	mouseDrag(in, core.MouseLeft, 0, -8)
	c.Update(in, 0)
	assert.True(t, c.Position().Equal(math3d.Vec3(0, 0, 1)), "got %v", c.Position())
	assert.True(t, c.Forward().Equal(math3d.Vector3UnitZ))
}

func TestCameraBothButtonsPanVertically(t *testing.T) {
	c := NewCamera(math3d.Vector3{}, 45, 1)
	in := core.NewInput()
	in.Handle(core.EventMouseButton{Button: core.MouseLeft, Down: true})

	mouseDrag(in, core.MouseRight, 0, 4)
	c.Update(in, 0)
	assert.True(t, c.Position().Equal(math3d.Vec3(0, 1, 0)), "got %v", c.Position())
}

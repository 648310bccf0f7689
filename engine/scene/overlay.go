package scene

import (
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/math3d"
	"github.com/hubastard/lumen/engine/text"
)

const (
	overlayFontPx = 18
	// label height and margin in view units; the screen is 2 units tall
	overlayHeight = 0.1
	overlayMargin = 0.03
)

// overlay is a text label pinned to the top-left corner of the screen. It is
// drawn after both draw lists and is not affected by the camera.
type overlay struct {
	dev    gfx.Device
	effect gfx.EffectSource
	face   *text.Face
	aspect float32
	// canvas width in pixels, wide enough for every label the scene shows
	width  int

	mesh  *gfx.TransparentMesh
	label string
}

func newOverlay(dev gfx.Device, effect gfx.EffectSource, aspect float32, labels []string) (*overlay, error) {
	face, err := text.NewFace(overlayFontPx)
	if err != nil {
		return nil, err
	}
	o := &overlay{dev: dev, effect: effect, face: face, aspect: aspect}
	for _, l := range labels {
		w, _ := face.Measure(l)
		o.width = max(o.width, w)
	}
	return o, nil
}

// set shows s. The quad is built on first use; later labels only replace its
// texture. The previous label stays when the upload fails.
func (o *overlay) set(s string) error {
	if o.mesh != nil && s == o.label {
		return nil
	}
	img := o.face.RenderWidth(s, colors.Color{1, 1, 1, 1}, o.width)
	if o.mesh != nil {
		if err := o.mesh.ReplaceDiffuse(o.dev, img); err != nil {
			return err
		}
		o.label = s
		return nil
	}

	x0 := -o.aspect + overlayMargin
	y0 := float32(1 - overlayMargin)
	x1 := x0 + overlayHeight*float32(img.Width)/float32(img.Height)
	y1 := y0 - overlayHeight
	m, err := gfx.NewTransparentMesh(o.dev, gfx.TransparentMeshDesc{
		Vertices: []gfx.Vertex{
			{Position: math3d.Vec3(x0, y0, 0), Color: colors.White, UV: math3d.Vec2(0, 0)},
			{Position: math3d.Vec3(x1, y0, 0), Color: colors.White, UV: math3d.Vec2(1, 0)},
			{Position: math3d.Vec3(x1, y1, 0), Color: colors.White, UV: math3d.Vec2(1, 1)},
			{Position: math3d.Vec3(x0, y1, 0), Color: colors.White, UV: math3d.Vec2(0, 1)},
		},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
		Topology: gfx.TriangleList,
		Effect:   o.effect,
		Diffuse:  &img,
	})
	if err != nil {
		return err
	}
	m.SetWorldViewProjection(math3d.Identity(), math3d.Scale(1/o.aspect, 1, 1), math3d.Vector3{})
	o.mesh, o.label = m, s
	return nil
}

func (o *overlay) Label() string { return o.label }

func (o *overlay) draw(ctx gfx.Context) error {
	if o.mesh == nil {
		return nil
	}
	return o.mesh.Draw(ctx)
}

func (o *overlay) release() {
	if o.mesh != nil {
		o.mesh.Release()
		o.mesh = nil
	}
	_ = o.face.Close()
}

package scene

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hubastard/lumen/engine/assets"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/errs"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/math3d"
	"github.com/hubastard/lumen/engine/profiler"
)

// Kind selects what a Scene puts on screen.
type Kind int

const (
	Triangle Kind = iota
	TexturedQuad
	Vehicle
)

var kindNames = [...]string{
	Triangle:     "triangle",
	TexturedQuad: "quad",
	Vehicle:      "vehicle",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps a config name to a Kind. Matching ignores case.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, errors.Newf("unknown scene %q (want triangle, quad or vehicle)", s)
}

const (
	poscolEffect      = "poscol.fx.yaml"
	materialEffect    = "material.fx.yaml"
	transparentEffect = "transparent.fx.yaml"

	// radians per second
	vehicleSpin = 45 * math3d.DegToRadFactor
)

var lightDirection = math3d.Vec3(0.577, -0.577, 0.577)

type Options struct {
	AssetsDir  string
	FovDegrees float32
	// Overlay shows the scene name and filter mode in a screen corner.
	Overlay bool
}

// Scene owns a camera and two draw lists. Opaque meshes are drawn first,
// transparent ones after, each in insertion order.
type Scene struct {
	kind Kind
	opts Options

	camera      *Camera
	opaque      []gfx.Drawable
	transparent []gfx.Drawable
	spinning    []gfx.Drawable
	lightDir    math3d.Vector3
	overlay     *overlay
	filter      gfx.Filter

	showTransparent bool
	initialized     bool
	held            map[core.Key]bool
}

// New returns an empty scene. Nothing touches a device until Initialize.
func New(kind Kind, opts Options) *Scene {
	if opts.FovDegrees <= 0 {
		opts.FovDegrees = 45
	}
	origin := math3d.Vec3(0, 0, -10)
	switch kind {
	case Triangle:
		origin = math3d.Vec3(0, 0, -1)
	case Vehicle:
		origin = math3d.Vec3(0, 0, -12)
	}
	return &Scene{
		kind:            kind,
		opts:            opts,
		camera:          NewCamera(origin, opts.FovDegrees, 1),
		lightDir:        lightDirection,
		filter:          gfx.FilterPoint,
		showTransparent: true,
		held:            map[core.Key]bool{},
	}
}

func (s *Scene) Kind() Kind                     { return s.kind }
func (s *Scene) Camera() *Camera                { return s.camera }
func (s *Scene) LightDirection() math3d.Vector3 { return s.lightDir }
func (s *Scene) TransparentVisible() bool       { return s.showTransparent }
func (s *Scene) FilteringMode() gfx.Filter      { return s.filter }

// AddMesh appends d to the opaque list. The scene takes ownership.
func (s *Scene) AddMesh(d gfx.Drawable) { s.opaque = append(s.opaque, d) }

// AddTransparentMesh appends d to the transparent list. The scene takes
// ownership.
func (s *Scene) AddTransparentMesh(d gfx.Drawable) { s.transparent = append(s.transparent, d) }

// Initialize creates the meshes of the scene kind on dev. It may succeed
// only once; on failure everything created so far is released.
func (s *Scene) Initialize(dev gfx.Device, aspect float32) error {
	if s.initialized {
		return errors.Newf("%s scene already initialized", s.kind)
	}
	s.camera.SetAspectRatio(aspect)

	var err error
	switch s.kind {
	case Triangle:
		err = s.initTriangle(dev)
	case TexturedQuad:
		err = s.initQuad(dev)
	case Vehicle:
		err = s.initVehicle(dev)
	default:
		err = errors.Newf("unknown scene kind %d", int(s.kind))
	}
	if err == nil && s.opts.Overlay {
		err = s.initOverlay(dev, aspect)
	}
	if err != nil {
		s.Release()
		return err
	}
	s.initialized = true

	core.Logger().Info("scene initialized",
		"scene", s.kind,
		"opaque", len(s.opaque),
		"transparent", len(s.transparent),
		"light", s.lightDir)
	return nil
}

func (s *Scene) initTriangle(dev gfx.Device) error {
	fx, err := s.effect(poscolEffect)
	if err != nil {
		return err
	}
	white := assets.SolidImage(colors.White)
	m, err := gfx.NewTransparentMesh(dev, gfx.TransparentMeshDesc{
		Vertices: []gfx.Vertex{
			{Position: math3d.Vec3(0, 0.5, 0.5), Color: colors.Red},
			{Position: math3d.Vec3(0.5, -0.5, 0.5), Color: colors.Blue},
			{Position: math3d.Vec3(-0.5, -0.5, 0.5), Color: colors.Green},
		},
		Indices:  []uint32{0, 1, 2},
		Topology: gfx.TriangleList,
		Effect:   fx,
		Diffuse:  &white,
	})
	if err != nil {
		return err
	}
	s.AddMesh(m)
	return nil
}

func (s *Scene) initQuad(dev gfx.Device) error {
	fx, err := s.effect(poscolEffect)
	if err != nil {
		return err
	}
	grid, err := assets.LoadImage(s.opts.AssetsDir, "uv_grid.png")
	if err != nil {
		return err
	}
	m, err := gfx.NewTransparentMesh(dev, gfx.TransparentMeshDesc{
		Vertices: []gfx.Vertex{
			{Position: math3d.Vec3(-3, 3, 2), Color: colors.White, UV: math3d.Vec2(0, 0)},
			{Position: math3d.Vec3(3, 3, 2), Color: colors.White, UV: math3d.Vec2(1, 0)},
			{Position: math3d.Vec3(3, -3, 2), Color: colors.White, UV: math3d.Vec2(1, 1)},
			{Position: math3d.Vec3(-3, -3, 2), Color: colors.White, UV: math3d.Vec2(0, 1)},
		},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
		Topology: gfx.TriangleList,
		Effect:   fx,
		Diffuse:  &grid,
	})
	if err != nil {
		return err
	}
	s.AddMesh(m)
	return nil
}

func (s *Scene) initVehicle(dev gfx.Device) error {
	fx, err := s.effect(materialEffect)
	if err != nil {
		return err
	}
	vertices, indices, err := s.model("vehicle.obj")
	if err != nil {
		return err
	}
	var maps gfx.MaterialImages
	for _, slot := range []struct {
		dst  **assets.Image
		file string
	}{
		{&maps.Diffuse, "vehicle_diffuse.png"},
		{&maps.Normal, "vehicle_normal.png"},
		{&maps.Specular, "vehicle_specular.png"},
		{&maps.Glossiness, "vehicle_gloss.png"},
	} {
		img, err := assets.LoadImage(s.opts.AssetsDir, slot.file)
		if err != nil {
			return err
		}
		*slot.dst = &img
	}
	vehicle, err := gfx.NewMesh(dev, gfx.MeshDesc{
		Vertices: vertices,
		Indices:  indices,
		Topology: gfx.TriangleList,
		Effect:   fx,
		Maps:     maps,
	})
	if err != nil {
		return err
	}
	s.AddMesh(vehicle)
	s.spinning = append(s.spinning, vehicle)

	fireFx, err := s.effect(transparentEffect)
	if err != nil {
		return err
	}
	fireVerts, fireIdx, err := s.model("fireFX.obj")
	if err != nil {
		return err
	}
	fireImg, err := assets.LoadImage(s.opts.AssetsDir, "fireFX_diffuse.png")
	if err != nil {
		return err
	}
	fire, err := gfx.NewTransparentMesh(dev, gfx.TransparentMeshDesc{
		Vertices: fireVerts,
		Indices:  fireIdx,
		Topology: gfx.TriangleList,
		Effect:   fireFx,
		Diffuse:  &fireImg,
	})
	if err != nil {
		return err
	}
	s.AddTransparentMesh(fire)
	s.spinning = append(s.spinning, fire)
	return nil
}

func (s *Scene) initOverlay(dev gfx.Device, aspect float32) error {
	fx, err := s.effect(transparentEffect)
	if err != nil {
		return err
	}
	var labels []string
	for _, f := range gfx.Filters() {
		labels = append(labels, s.status(f))
	}
	if s.overlay, err = newOverlay(dev, fx, aspect, labels); err != nil {
		return err
	}
	return s.overlay.set(s.status(s.filter))
}

func (s *Scene) status(f gfx.Filter) string {
	return fmt.Sprintf("%s  |  filter: %s (F2)", s.kind, f)
}

func (s *Scene) effect(name string) (gfx.EffectSource, error) {
	src, err := assets.LoadEffectSource(s.opts.AssetsDir, name)
	if err != nil {
		return gfx.EffectSource{}, err
	}
	return gfx.EffectSource{Name: name, Source: src}, nil
}

// model loads an OBJ file as white vertices.
func (s *Scene) model(name string) ([]gfx.Vertex, []uint32, error) {
	m, err := assets.LoadOBJ(s.opts.AssetsDir, name)
	if err != nil {
		return nil, nil, err
	}
	out := make([]gfx.Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = gfx.Vertex{
			Position: v.Position,
			Color:    colors.White,
			UV:       v.UV,
			Normal:   v.Normal,
			Tangent:  v.Tangent,
		}
	}
	return out, m.Indices, nil
}

// Update advances the camera, pushes the new transforms to every mesh and
// handles the scene hotkeys: F2 cycles texture filtering, F3 shows or hides
// the transparent list.
func (s *Scene) Update(in *core.Input, dt float32) {
	defer profiler.Start("scene.update")()

	s.camera.Update(in, dt)

	if len(s.spinning) > 0 {
		spin := math3d.RotationY(vehicleSpin * dt)
		for _, d := range s.spinning {
			d.ApplyMatrix(spin)
		}
	}

	view, proj := s.camera.ViewMatrix(), s.camera.ProjectionMatrix()
	origin := s.camera.Position()
	s.each(func(d gfx.Drawable) { d.SetWorldViewProjection(view, proj, origin) })

	if s.pressed(in, core.KeyF2) {
		s.each(func(d gfx.Drawable) { s.filter = d.CycleFilteringMode() })
		if s.overlay != nil {
			if err := s.overlay.set(s.status(s.filter)); err != nil {
				core.Logger().Warn("overlay not updated", "err", err)
			}
		}
	}
	if s.pressed(in, core.KeyF3) {
		s.showTransparent = !s.showTransparent
		core.Logger().Info("transparent meshes", "visible", s.showTransparent)
	}
}

// pressed reports a key that is down now and was up on the previous Update.
func (s *Scene) pressed(in *core.Input, k core.Key) bool {
	down := in.IsKeyDown(k)
	was := s.held[k]
	s.held[k] = down
	return down && !was
}

func (s *Scene) each(f func(gfx.Drawable)) {
	for _, d := range s.opaque {
		f(d)
	}
	for _, d := range s.transparent {
		f(d)
	}
}

// Draw records every visible mesh into ctx. An empty scene fails before any
// call reaches the context.
func (s *Scene) Draw(ctx gfx.Context) error {
	if len(s.opaque) == 0 && len(s.transparent) == 0 {
		return errs.New(errs.SceneIsEmpty, "%s scene has no meshes", s.kind)
	}
	for _, d := range s.opaque {
		if err := d.Draw(ctx); err != nil {
			return err
		}
	}
	if s.showTransparent {
		for _, d := range s.transparent {
			if err := d.Draw(ctx); err != nil {
				return err
			}
		}
	}
	if s.overlay != nil {
		return s.overlay.draw(ctx)
	}
	return nil
}

// Release frees every mesh. The scene can be initialized again afterwards.
func (s *Scene) Release() {
	s.each(func(d gfx.Drawable) { d.Release() })
	s.opaque, s.transparent, s.spinning = nil, nil, nil
	if s.overlay != nil {
		s.overlay.release()
		s.overlay = nil
	}
	s.initialized = false
}

package gfx

import (
	"github.com/hubastard/lumen/engine/assets"
	"github.com/hubastard/lumen/engine/errs"
	"github.com/hubastard/lumen/engine/math3d"
)

// Drawable is what a scene keeps in its draw lists.
type Drawable interface {
	Draw(ctx Context) error
	SetWorldViewProjection(view, projection math3d.Matrix, origin math3d.Vector3)
	ApplyMatrix(m math3d.Matrix)
	CycleFilteringMode() Filter
	Release()
}

// MaterialImages are the decoded maps of a lit mesh. Nil entries leave the
// slot unbound.
type MaterialImages struct {
	Diffuse    *assets.Image
	Normal     *assets.Image
	Specular   *assets.Image
	Glossiness *assets.Image
}

type MeshDesc struct {
	Vertices []Vertex
	Indices  []uint32
	Topology Topology
	Effect   EffectSource
	Maps     MaterialImages
}

type TransparentMeshDesc struct {
	Vertices []Vertex
	Indices  []uint32
	Topology Topology
	Effect   EffectSource
	Diffuse  *assets.Image
}

// meshBase is the geometry and transform state shared by both mesh kinds.
type meshBase struct {
	buffers    *BufferPair
	sampler    *Sampler
	textures   []*Texture
	topology   Topology
	world      math3d.Matrix
	transforms Transforms
}

func (m *meshBase) draw(ctx Context, fx Effect) error {
	if m.buffers == nil {
		return errs.New(errs.MeshRenderError, "mesh was released")
	}
	ctx.SetPrimitiveTopology(m.topology)
	ctx.SetInputLayout(fx.InputLayout())
	m.buffers.Bind(ctx)
	fx.Upload(m.transforms)

	tech := fx.Technique()
	for i := 0; i < tech.PassCount(); i++ {
		tech.Pass(i).Apply(ctx)
		ctx.DrawIndexed(m.buffers.IndexCount(), 0, 0)
	}
	return nil
}

// SetWorldViewProjection rebuilds the uploaded transforms from the current
// world matrix and the camera.
func (m *meshBase) SetWorldViewProjection(view, projection math3d.Matrix, origin math3d.Vector3) {
	m.transforms = Transforms{
		World:               m.world,
		WorldViewProjection: m.world.Mul(view).Mul(projection),
		CameraOrigin:        origin,
	}
}

// ApplyMatrix composes m before the current world matrix. Like SetWorld it
// takes effect at the next SetWorldViewProjection.
func (m *meshBase) ApplyMatrix(t math3d.Matrix) { m.world = t.Mul(m.world) }

func (m *meshBase) SetWorld(w math3d.Matrix) { m.world = w }
func (m *meshBase) World() math3d.Matrix     { return m.world }
func (m *meshBase) Transforms() Transforms   { return m.transforms }

func (m *meshBase) CycleFilteringMode() Filter { return m.sampler.Cycle() }
func (m *meshBase) FilteringMode() Filter      { return m.sampler.Mode() }

func (m *meshBase) VertexCount() int   { return m.buffers.VertexCount() }
func (m *meshBase) IndexCount() int    { return m.buffers.IndexCount() }
func (m *meshBase) Topology() Topology { return m.topology }

func (m *meshBase) release() {
	if m.buffers != nil {
		m.buffers.Release()
		m.buffers = nil
	}
	for _, t := range m.textures {
		t.Release()
	}
	m.textures = nil
	if m.sampler != nil {
		m.sampler.Release()
		m.sampler = nil
	}
}

// build fills the parts every mesh needs once its effect exists. On error
// everything it created is released again.
func (m *meshBase) build(dev Device, fx EffectModule, vertices []Vertex, indices []uint32, images ...*assets.Image) ([]*Texture, error) {
	var err error
	if m.sampler, err = NewSampler(dev, fx); err != nil {
		return nil, err
	}
	if m.buffers, err = NewBufferPair(dev, vertices, indices); err != nil {
		m.release()
		return nil, err
	}
	out := make([]*Texture, len(images))
	for i, img := range images {
		if img == nil {
			continue
		}
		tex, err := NewTexture(dev, *img)
		if err != nil {
			m.release()
			return nil, err
		}
		m.textures = append(m.textures, tex)
		out[i] = tex
	}
	return out, nil
}

// checkGeometry rejects input no device call could draw: empty buffers,
// unknown topologies and indices past the last vertex.
func checkGeometry(vertices []Vertex, indices []uint32, t Topology) error {
	if len(vertices) == 0 || len(indices) == 0 {
		return errs.New(errs.BufferIsEmpty, "%d vertices, %d indices", len(vertices), len(indices))
	}
	if t != TriangleList && t != TriangleStrip {
		return errs.New(errs.MeshCreateFail, "topology %d", int(t))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return errs.New(errs.MeshCreateFail, "index %d at %d, %d vertices", idx, i, len(vertices))
		}
	}
	return nil
}

// Mesh is an opaque, lit drawable.
type Mesh struct {
	meshBase
	effect *MaterialEffect
}

// NewMesh builds the effect, sampler, buffers and maps of a lit mesh.
func NewMesh(dev Device, desc MeshDesc) (*Mesh, error) {
	if err := checkGeometry(desc.Vertices, desc.Indices, desc.Topology); err != nil {
		return nil, err
	}
	fx, err := NewMaterialEffect(dev, desc.Effect)
	if err != nil {
		return nil, err
	}
	m := &Mesh{
		meshBase: meshBase{topology: desc.Topology, world: math3d.Identity()},
		effect:   fx,
	}
	maps, err := m.build(dev, fx.Module(), desc.Vertices, desc.Indices,
		desc.Maps.Diffuse, desc.Maps.Normal, desc.Maps.Specular, desc.Maps.Glossiness)
	if err != nil {
		fx.Release()
		return nil, err
	}
	fx.SetMaps(maps[0], maps[1], maps[2], maps[3])
	m.transforms.World = m.world
	return m, nil
}

// Draw binds the geometry, uploads the transforms and issues one indexed
// draw per technique pass.
func (m *Mesh) Draw(ctx Context) error { return m.draw(ctx, m.effect) }

func (m *Mesh) Effect() *MaterialEffect { return m.effect }

func (m *Mesh) Release() {
	m.release()
	if m.effect != nil {
		m.effect.Release()
		m.effect = nil
	}
}

// TransparentMesh is drawn after every opaque mesh with the unlit effect.
type TransparentMesh struct {
	meshBase
	effect *DiffuseEffect
}

func NewTransparentMesh(dev Device, desc TransparentMeshDesc) (*TransparentMesh, error) {
	if err := checkGeometry(desc.Vertices, desc.Indices, desc.Topology); err != nil {
		return nil, err
	}
	fx, err := NewDiffuseEffect(dev, desc.Effect)
	if err != nil {
		return nil, err
	}
	m := &TransparentMesh{
		meshBase: meshBase{topology: desc.Topology, world: math3d.Identity()},
		effect:   fx,
	}
	maps, err := m.build(dev, fx.Module(), desc.Vertices, desc.Indices, desc.Diffuse)
	if err != nil {
		fx.Release()
		return nil, err
	}
	fx.SetDiffuseMap(maps[0])
	m.transforms.World = m.world
	return m, nil
}

func (m *TransparentMesh) Draw(ctx Context) error { return m.draw(ctx, m.effect) }

func (m *TransparentMesh) Effect() *DiffuseEffect { return m.effect }

// ReplaceDiffuse uploads img and binds it in place of the current diffuse
// map. Geometry, effect and sampler are kept. On error the old map stays.
func (m *TransparentMesh) ReplaceDiffuse(dev Device, img assets.Image) error {
	if m.buffers == nil {
		return errs.New(errs.MeshRenderError, "mesh was released")
	}
	tex, err := NewTexture(dev, img)
	if err != nil {
		return err
	}
	m.effect.SetDiffuseMap(tex)
	for _, t := range m.textures {
		t.Release()
	}
	m.textures = []*Texture{tex}
	return nil
}

func (m *TransparentMesh) Release() {
	m.release()
	if m.effect != nil {
		m.effect.Release()
		m.effect = nil
	}
}

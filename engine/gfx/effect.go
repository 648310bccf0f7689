package gfx

import (
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/errs"
	"github.com/hubastard/lumen/engine/math3d"
)

// DefaultTechnique is the technique every effect must declare.
const DefaultTechnique = "DefaultTechnique"

// EffectSource is an effect description and the name it is reported under.
type EffectSource struct {
	Name   string
	Source []byte
}

// Transforms is the per-draw uniform bundle a mesh uploads right before it
// applies the passes of its effect. SetWorldViewProjection snapshots the
// world matrix into it: SetWorld and ApplyMatrix reach the GPU only after the
// next SetWorldViewProjection, so callers move a mesh first and then hand it
// the camera.
type Transforms struct {
	World               math3d.Matrix
	WorldViewProjection math3d.Matrix
	CameraOrigin        math3d.Vector3
}

// Effect is the part of an effect a mesh draws with.
type Effect interface {
	Module() EffectModule
	Technique() Technique
	InputLayout() InputLayout
	Upload(t Transforms)
	Release()
}

// effectCore holds what every effect variant shares: the compiled module,
// its default technique and the input layout built for Vertex.
type effectCore struct {
	module    Handle[EffectModule]
	technique Technique
	layout    Handle[InputLayout]
}

func newEffectCore(dev Device, src EffectSource) (effectCore, error) {
	mod, err := dev.CompileEffect(src.Name, src.Source)
	if err != nil {
		core.Logger().Error("effect compile failed", "effect", src.Name, "diagnostic", err.Error())
		return effectCore{}, errs.Wrap(err, errs.EffectCreateFail, "%s", src.Name)
	}
	c := effectCore{module: Own(mod)}
	if mod == nil || !mod.IsValid() {
		c.release()
		return effectCore{}, errs.New(errs.InvalidEffect, "%s", src.Name)
	}

	c.technique = mod.TechniqueByName(DefaultTechnique)
	if c.technique == nil {
		c.release()
		return effectCore{}, errs.New(errs.InvalidTechnique, "%s: no technique %q", src.Name, DefaultTechnique)
	}

	layout, err := dev.CreateInputLayout(VertexLayout, c.technique)
	if err != nil {
		c.release()
		return effectCore{}, errs.Wrap(err, errs.LayoutCreateFail, "%s", src.Name)
	}
	c.layout = Own(layout)
	return c, nil
}

func (c *effectCore) Module() EffectModule     { return c.module.Get() }
func (c *effectCore) Technique() Technique     { return c.technique }
func (c *effectCore) InputLayout() InputLayout { return c.layout.Get() }

func (c *effectCore) release() {
	c.layout.Release()
	c.technique = nil
	c.module.Release()
}

// binder looks variables up in order and keeps the first failure.
type binder struct {
	effect string
	err    error
}

func bind[V comparable](b *binder, find func(string) V, name string, kind errs.Kind) V {
	var zero V
	if b.err != nil {
		return zero
	}
	v := find(name)
	if v == zero {
		b.err = errs.New(kind, "%s: no variable %q", b.effect, name)
	}
	return v
}

// MaterialEffect is the lit effect: transforms, camera origin and four
// material maps.
type MaterialEffect struct {
	effectCore
	worldViewProj MatrixVariable
	world         MatrixVariable
	cameraOrigin  VectorVariable
	diffuseMap    ShaderResourceVariable
	normalMap     ShaderResourceVariable
	specularMap   ShaderResourceVariable
	glossMap      ShaderResourceVariable
}

func NewMaterialEffect(dev Device, src EffectSource) (*MaterialEffect, error) {
	c, err := newEffectCore(dev, src)
	if err != nil {
		return nil, err
	}
	mod := c.Module()
	b := &binder{effect: src.Name}
	fx := &MaterialEffect{
		effectCore:    c,
		worldViewProj: bind(b, mod.MatrixByName, "gWorldViewProj", errs.InvalidWorldViewProjection),
		world:         bind(b, mod.MatrixByName, "gWorldMatrix", errs.InvalidWorldMatrix),
		cameraOrigin:  bind(b, mod.VectorByName, "gCameraPosition", errs.InvalidCameraOrigin),
		diffuseMap:    bind(b, mod.ShaderResourceByName, "gDiffuseMap", errs.InvalidDiffuseMap),
		normalMap:     bind(b, mod.ShaderResourceByName, "gNormalMap", errs.InvalidNormalMap),
		specularMap:   bind(b, mod.ShaderResourceByName, "gSpecularMap", errs.InvalidSpecularMap),
		glossMap:      bind(b, mod.ShaderResourceByName, "gGlossinessMap", errs.InvalidGlossinessMap),
	}
	if b.err != nil {
		c.release()
		return nil, b.err
	}
	core.Logger().Debug("effect created", "effect", src.Name, "passes", c.technique.PassCount())
	return fx, nil
}

func (e *MaterialEffect) Upload(t Transforms) {
	e.worldViewProj.SetMatrix(t.WorldViewProjection)
	e.world.SetMatrix(t.World)
	e.cameraOrigin.SetVector(t.CameraOrigin.ToPoint4())
}

// SetMaps binds the material textures. Nil textures leave their slot as is.
func (e *MaterialEffect) SetMaps(diffuse, normal, specular, gloss *Texture) {
	setMap(e.diffuseMap, diffuse)
	setMap(e.normalMap, normal)
	setMap(e.specularMap, specular)
	setMap(e.glossMap, gloss)
}

func (e *MaterialEffect) Release() { e.release() }

// DiffuseEffect is the unlit effect used for transparent meshes.
type DiffuseEffect struct {
	effectCore
	worldViewProj MatrixVariable
	diffuseMap    ShaderResourceVariable
}

func NewDiffuseEffect(dev Device, src EffectSource) (*DiffuseEffect, error) {
	c, err := newEffectCore(dev, src)
	if err != nil {
		return nil, err
	}
	mod := c.Module()
	b := &binder{effect: src.Name}
	fx := &DiffuseEffect{
		effectCore:    c,
		worldViewProj: bind(b, mod.MatrixByName, "gWorldViewProj", errs.InvalidWorldViewProjection),
		diffuseMap:    bind(b, mod.ShaderResourceByName, "gDiffuseMap", errs.InvalidDiffuseMap),
	}
	if b.err != nil {
		c.release()
		return nil, b.err
	}
	core.Logger().Debug("effect created", "effect", src.Name, "passes", c.technique.PassCount())
	return fx, nil
}

func (e *DiffuseEffect) Upload(t Transforms) {
	e.worldViewProj.SetMatrix(t.WorldViewProjection)
}

func (e *DiffuseEffect) SetDiffuseMap(tex *Texture) { setMap(e.diffuseMap, tex) }

func (e *DiffuseEffect) Release() { e.release() }

func setMap(v ShaderResourceVariable, tex *Texture) {
	if tex != nil {
		v.SetResource(tex.View())
	}
}

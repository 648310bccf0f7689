package glbackend

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/math3d"
	"gopkg.in/yaml.v3"
)

// effectDesc is the on-disk effect format:
//
//	technique: DefaultTechnique
//	samplers: [gSampler]
//	passes:
//	  - name: P0
//	    cull: back          # none | back | front
//	    depth: true
//	    depth_write: true
//	    blend: none         # none | alpha
//	    vertex: |
//	      #version 330 core
//	      ...
//	    fragment: |
//	      ...
//
// Every pass links its own program. Uniforms with the same name across passes
// are one effect variable.
type effectDesc struct {
	Technique string     `yaml:"technique"`
	Samplers  []string   `yaml:"samplers"`
	Passes    []passDesc `yaml:"passes"`
}

type passDesc struct {
	Name       string `yaml:"name"`
	Blend      string `yaml:"blend"`
	Depth      *bool  `yaml:"depth"`
	DepthWrite *bool  `yaml:"depth_write"`
	Cull       string `yaml:"cull"`
	Vertex     string `yaml:"vertex"`
	Fragment   string `yaml:"fragment"`
}

func parseEffect(src []byte) (effectDesc, error) {
	var desc effectDesc
	dec := yaml.NewDecoder(strings.NewReader(string(src)))
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return effectDesc{}, errors.Wrap(err, "parse effect")
	}
	if desc.Technique == "" {
		return effectDesc{}, errors.New("effect has no technique name")
	}
	if len(desc.Passes) == 0 {
		return effectDesc{}, errors.Newf("technique %q has no passes", desc.Technique)
	}
	for i, p := range desc.Passes {
		if p.Vertex == "" || p.Fragment == "" {
			return effectDesc{}, errors.Newf("pass %d: vertex and fragment sources are required", i)
		}
		switch p.Blend {
		case "", "none", "alpha":
		default:
			return effectDesc{}, errors.Newf("pass %d: unknown blend %q", i, p.Blend)
		}
		switch p.Cull {
		case "", "none", "back", "front":
		default:
			return effectDesc{}, errors.Newf("pass %d: unknown cull %q", i, p.Cull)
		}
	}
	return desc, nil
}

// passState is the fixed-function part of a pass.
type passState struct {
	blend      bool
	depth      bool
	depthWrite bool
	cull       uint32 // 0 disables culling
}

func (p passDesc) state() passState {
	s := passState{blend: p.Blend == "alpha", depth: true, depthWrite: true, cull: gl.BACK}
	if p.Depth != nil {
		s.depth = *p.Depth
	}
	if p.DepthWrite != nil {
		s.depthWrite = *p.DepthWrite
	}
	switch p.Cull {
	case "none":
		s.cull = 0
	case "front":
		s.cull = gl.FRONT
	}
	return s
}

type effect struct {
	name      string
	technique *technique
	matrices  []*matrixVar
	vectors   []*vectorVar
	textures  []*textureVar
	samplers  []*samplerVar
	released  bool
}

type technique struct {
	fx     *effect
	name   string
	passes []*pass
}

type pass struct {
	fx      *effect
	index   int
	name    string
	program uint32
	state   passState
}

// CompileEffect parses src, links one program per pass and collects the
// active uniforms. The returned error carries the GLSL diagnostic.
func (d *Device) CompileEffect(name string, src []byte) (gfx.EffectModule, error) {
	desc, err := parseEffect(src)
	if err != nil {
		return nil, errors.Wrapf(err, "effect %s", name)
	}

	fx := &effect{name: name}
	fx.technique = &technique{fx: fx, name: desc.Technique}
	for i, pd := range desc.Passes {
		prog, err := makeProgram(pd.Vertex, pd.Fragment)
		if err != nil {
			fx.Release()
			return nil, errors.Wrapf(err, "effect %s pass %d", name, i)
		}
		fx.technique.passes = append(fx.technique.passes, &pass{
			fx: fx, index: i, name: pd.Name, program: prog, state: pd.state(),
		})
	}
	for _, s := range desc.Samplers {
		fx.samplers = append(fx.samplers, &samplerVar{name: s})
	}
	fx.collectUniforms()

	if err := glError("compile effect"); err != nil {
		fx.Release()
		return nil, errors.Wrapf(err, "effect %s", name)
	}
	core.Logger().Debug("effect compiled", "effect", name, "passes", len(desc.Passes),
		"matrices", len(fx.matrices), "vectors", len(fx.vectors), "textures", len(fx.textures))
	return fx, nil
}

// uniform is one named uniform with its location in every pass (-1 when a
// pass does not use it).
type uniform struct {
	name  string
	xtype uint32
	locs  []int32
}

func (fx *effect) collectUniforms() {
	passes := fx.technique.passes
	seen := map[string]*uniform{}
	var order []*uniform
	for i, p := range passes {
		var count int32
		gl.GetProgramiv(p.program, gl.ACTIVE_UNIFORMS, &count)
		buf := make([]uint8, 256)
		for u := uint32(0); u < uint32(count); u++ {
			var length, size int32
			var xtype uint32
			gl.GetActiveUniform(p.program, u, int32(len(buf)), &length, &size, &xtype, &buf[0])
			name := strings.TrimSuffix(string(buf[:length]), "[0]")

			un, ok := seen[name]
			if !ok {
				un = &uniform{name: name, xtype: xtype, locs: make([]int32, len(passes))}
				for j := range un.locs {
					un.locs[j] = -1
				}
				seen[name] = un
				order = append(order, un)
			}
			un.locs[i] = gl.GetUniformLocation(p.program, gl.Str(name+"\x00"))
		}
	}

	unit := int32(0)
	for _, un := range order {
		switch un.xtype {
		case gl.FLOAT_MAT4:
			fx.matrices = append(fx.matrices, &matrixVar{uniform: *un})
		case gl.FLOAT_VEC3, gl.FLOAT_VEC4:
			fx.vectors = append(fx.vectors, &vectorVar{uniform: *un})
		case gl.SAMPLER_2D:
			fx.textures = append(fx.textures, &textureVar{uniform: *un, unit: unit})
			unit++
		}
	}
}

func (fx *effect) IsValid() bool { return !fx.released && fx.technique != nil }

func (fx *effect) Release() {
	if fx.released {
		return
	}
	fx.released = true
	for _, p := range fx.technique.passes {
		if p.program != 0 {
			gl.DeleteProgram(p.program)
			p.program = 0
		}
	}
}

func (fx *effect) TechniqueByName(name string) gfx.Technique {
	if fx.technique == nil || fx.technique.name != name {
		return nil
	}
	return fx.technique
}

func (fx *effect) MatrixByName(name string) gfx.MatrixVariable {
	for _, v := range fx.matrices {
		if v.name == name {
			return v
		}
	}
	return nil
}

func (fx *effect) VectorByName(name string) gfx.VectorVariable {
	for _, v := range fx.vectors {
		if v.name == name {
			return v
		}
	}
	return nil
}

func (fx *effect) ShaderResourceByName(name string) gfx.ShaderResourceVariable {
	for _, v := range fx.textures {
		if v.name == name {
			return v
		}
	}
	return nil
}

func (fx *effect) SamplerByName(name string) gfx.SamplerVariable {
	for _, v := range fx.samplers {
		if v.name == name {
			return v
		}
	}
	return nil
}

func (t *technique) Name() string        { return t.name }
func (t *technique) PassCount() int      { return len(t.passes) }
func (t *technique) Pass(i int) gfx.Pass { return t.passes[i] }

// Apply binds the program and fixed-function state of the pass and pushes
// every variable value the pass reads.
func (p *pass) Apply(ctx gfx.Context) {
	gl.UseProgram(p.program)
	if c, ok := ctx.(*Context); ok {
		c.program = p.program
	}

	s := p.state
	if s.blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
	if s.depth {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(s.depthWrite)
	if s.cull == 0 {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(s.cull)
	}

	fx := p.fx
	for _, m := range fx.matrices {
		if loc := m.locs[p.index]; loc >= 0 && m.set {
			gl.UniformMatrix4fv(loc, 1, false, &m.value[0])
		}
	}
	for _, v := range fx.vectors {
		loc := v.locs[p.index]
		if loc < 0 {
			continue
		}
		if v.xtype == gl.FLOAT_VEC3 {
			gl.Uniform3f(loc, v.value.X, v.value.Y, v.value.Z)
		} else {
			gl.Uniform4f(loc, v.value.X, v.value.Y, v.value.Z, v.value.W)
		}
	}

	var sampler uint32
	if len(fx.samplers) > 0 && fx.samplers[0].state != nil {
		sampler = fx.samplers[0].state.name
	}
	for _, t := range fx.textures {
		loc := t.locs[p.index]
		if loc < 0 {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(t.unit))
		var name uint32
		if t.view != nil && t.view.tex != nil {
			name = t.view.tex.name
		}
		gl.BindTexture(gl.TEXTURE_2D, name)
		gl.BindSampler(uint32(t.unit), sampler)
		gl.Uniform1i(loc, t.unit)
	}
}

type matrixVar struct {
	uniform
	value [16]float32
	set   bool
}

// SetMatrix stores m row by row; uploaded without transpose, GLSL sees the
// transpose, so shaders multiply as `matrix * vector`.
func (v *matrixVar) SetMatrix(m math3d.Matrix) {
	v.value = m.Floats()
	v.set = true
}

type vectorVar struct {
	uniform
	value math3d.Vector4
}

func (v *vectorVar) SetVector(vec math3d.Vector4) { v.value = vec }

type textureVar struct {
	uniform
	unit int32
	view *shaderResourceView
}

func (v *textureVar) SetResource(srv gfx.ShaderResourceView) {
	v.view, _ = srv.(*shaderResourceView)
}

// samplerVar is a named sampler slot. GLSL has no separate sampler objects,
// so the bound state applies to every texture unit of the effect.
type samplerVar struct {
	name  string
	state *samplerState
}

func (v *samplerVar) SetSampler(_ int, s gfx.SamplerState) {
	v.state, _ = s.(*samplerState)
}

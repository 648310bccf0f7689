// Package gfxtest provides a recording gfx.Device for tests. Every device and
// context call is appended to a shared log, created objects are counted until
// released, and any call can be made to fail by name.
package gfxtest

import (
	"fmt"
	"slices"

	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/math3d"
)

// Call is one recorded method call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string { return fmt.Sprintf("%s%v", c.Name, c.Args) }

// DrawCall holds the arguments of one DrawIndexed.
type DrawCall struct {
	IndexCount, StartIndex, BaseVertex int
}

// Device is a recording gfx.Device. The zero value is not usable; call
// NewDevice.
type Device struct {
	// PassCount is the number of passes of every compiled technique.
	PassCount int
	// InvalidEffects makes compiled modules report IsValid() == false.
	InvalidEffects bool

	calls    []Call
	fail     map[string]error
	omitted  map[string]bool
	live     map[*Resource]bool
	values   map[string]any
	draws    []DrawCall
	released int
	ctx      *Context
}

func NewDevice() *Device {
	d := &Device{
		PassCount: 1,
		fail:      map[string]error{},
		omitted:   map[string]bool{},
		live:      map[*Resource]bool{},
		values:    map[string]any{},
	}
	d.ctx = &Context{dev: d}
	return d
}

// Factory returns a gfx.DeviceFactory handing out d.
func (d *Device) Factory() gfx.DeviceFactory {
	return func(gfx.Surface) (gfx.Device, error) {
		if err := d.record("CreateDevice"); err != nil {
			return nil, err
		}
		return d, nil
	}
}

// Fail makes every later call named name return err.
func (d *Device) Fail(name string, err error) { d.fail[name] = err }

// Omit removes techniques or variables from every effect compiled afterwards.
func (d *Device) Omit(names ...string) {
	for _, n := range names {
		d.omitted[n] = true
	}
}

func (d *Device) Calls() []Call { return slices.Clone(d.calls) }

// Names returns the recorded call names in order.
func (d *Device) Names() []string {
	out := make([]string, len(d.calls))
	for i, c := range d.calls {
		out[i] = c.Name
	}
	return out
}

func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls and draws. Live objects stay live.
func (d *Device) Reset() {
	d.calls = nil
	d.draws = nil
}

// Live returns the number of created objects not yet released.
func (d *Device) Live() int { return len(d.live) }

// LiveKinds returns the kinds of the live objects, sorted.
func (d *Device) LiveKinds() []string {
	var out []string
	for r := range d.live {
		out = append(out, r.Kind)
	}
	slices.Sort(out)
	return out
}

// Released returns the number of Release calls on created objects.
func (d *Device) Released() int { return d.released }

func (d *Device) Draws() []DrawCall { return slices.Clone(d.draws) }

// Value returns the last value written to the named effect variable.
func (d *Device) Value(name string) (any, bool) {
	v, ok := d.values[name]
	return v, ok
}

func (d *Device) record(name string, args ...any) error {
	d.calls = append(d.calls, Call{Name: name, Args: args})
	return d.fail[name]
}

func (d *Device) newResource(kind string) *Resource {
	r := &Resource{dev: d, Kind: kind}
	d.live[r] = true
	return r
}

// Resource is the object type behind every fake handle.
type Resource struct {
	dev  *Device
	Kind string
	// Released reports whether Release was called. A second Release panics.
	Released bool
}

func (r *Resource) Release() {
	if r.Released {
		panic("gfxtest: double release of " + r.Kind)
	}
	r.Released = true
	r.dev.released++
	delete(r.dev.live, r)
	r.dev.calls = append(r.dev.calls, Call{Name: "Release", Args: []any{r.Kind}})
}

type Texture struct {
	*Resource
	desc gfx.Texture2DDesc
	// Data is the initial content, nil for render targets.
	Data *gfx.SubresourceData
}

func (t *Texture) Desc() gfx.Texture2DDesc { return t.desc }

func (d *Device) CreateBuffer(desc gfx.BufferDesc, data []byte) (gfx.Buffer, error) {
	if err := d.record("CreateBuffer", desc, len(data)); err != nil {
		return nil, err
	}
	return d.newResource("Buffer"), nil
}

func (d *Device) CreateTexture2D(desc gfx.Texture2DDesc, data *gfx.SubresourceData) (gfx.Texture2D, error) {
	if err := d.record("CreateTexture2D", desc); err != nil {
		return nil, err
	}
	return &Texture{Resource: d.newResource("Texture2D"), desc: desc, Data: data}, nil
}

func (d *Device) CreateShaderResourceView(tex gfx.Texture2D) (gfx.ShaderResourceView, error) {
	if err := d.record("CreateShaderResourceView"); err != nil {
		return nil, err
	}
	return d.newResource("ShaderResourceView"), nil
}

func (d *Device) CreateRenderTargetView(tex gfx.Texture2D) (gfx.RenderTargetView, error) {
	if err := d.record("CreateRenderTargetView"); err != nil {
		return nil, err
	}
	return d.newResource("RenderTargetView"), nil
}

func (d *Device) CreateDepthStencilView(tex gfx.Texture2D) (gfx.DepthStencilView, error) {
	if err := d.record("CreateDepthStencilView"); err != nil {
		return nil, err
	}
	return d.newResource("DepthStencilView"), nil
}

func (d *Device) CreateSamplerState(desc gfx.SamplerDesc) (gfx.SamplerState, error) {
	if err := d.record("CreateSamplerState", desc.Filter); err != nil {
		return nil, err
	}
	return &SamplerState{Resource: d.newResource("SamplerState"), Filter: desc.Filter}, nil
}

// SamplerState remembers the filter it was created with.
type SamplerState struct {
	*Resource
	Filter gfx.Filter
}

func (d *Device) CompileEffect(name string, src []byte) (gfx.EffectModule, error) {
	if err := d.record("CompileEffect", name); err != nil {
		return nil, err
	}
	return &Effect{Resource: d.newResource("Effect"), name: name, valid: !d.InvalidEffects}, nil
}

func (d *Device) CreateInputLayout(elements []gfx.InputElement, tech gfx.Technique) (gfx.InputLayout, error) {
	if err := d.record("CreateInputLayout", len(elements)); err != nil {
		return nil, err
	}
	return d.newResource("InputLayout"), nil
}

func (d *Device) CreateSwapchain(desc gfx.SwapchainDesc) (gfx.Swapchain, error) {
	if err := d.record("CreateSwapchain", desc.Width, desc.Height); err != nil {
		return nil, err
	}
	return &Swapchain{Resource: d.newResource("Swapchain"), desc: desc}, nil
}

func (d *Device) ImmediateContext() gfx.Context { return d.ctx }

func (d *Device) Release() { d.calls = append(d.calls, Call{Name: "ReleaseDevice"}) }

type Swapchain struct {
	*Resource
	desc gfx.SwapchainDesc
}

func (s *Swapchain) BackBuffer() (gfx.Texture2D, error) {
	if err := s.dev.record("BackBuffer"); err != nil {
		return nil, err
	}
	return &Texture{Resource: s.dev.newResource("BackBuffer"), desc: gfx.Texture2DDesc{
		Width: s.desc.Width, Height: s.desc.Height, Format: s.desc.Format, Samples: s.desc.Samples,
		Bind: gfx.BindRenderTarget,
	}}, nil
}

func (s *Swapchain) Present() error { return s.dev.record("Present") }

// Effect is a compiled module that knows every variable name not omitted on
// its device.
type Effect struct {
	*Resource
	name  string
	valid bool
}

func (e *Effect) IsValid() bool { return e.valid }

func (e *Effect) has(name string) bool { return !e.dev.omitted[name] }

func (e *Effect) TechniqueByName(name string) gfx.Technique {
	if !e.has(name) {
		return nil
	}
	return &Technique{dev: e.dev, name: name}
}

func (e *Effect) MatrixByName(name string) gfx.MatrixVariable {
	if !e.has(name) {
		return nil
	}
	return &Variable{dev: e.dev, name: name}
}

func (e *Effect) VectorByName(name string) gfx.VectorVariable {
	if !e.has(name) {
		return nil
	}
	return &Variable{dev: e.dev, name: name}
}

func (e *Effect) ShaderResourceByName(name string) gfx.ShaderResourceVariable {
	if !e.has(name) {
		return nil
	}
	return &Variable{dev: e.dev, name: name}
}

func (e *Effect) SamplerByName(name string) gfx.SamplerVariable {
	if !e.has(name) {
		return nil
	}
	return &Variable{dev: e.dev, name: name}
}

type Technique struct {
	dev  *Device
	name string
}

func (t *Technique) Name() string   { return t.name }
func (t *Technique) PassCount() int { return t.dev.PassCount }
func (t *Technique) Pass(i int) gfx.Pass {
	return &Pass{dev: t.dev, index: i}
}

type Pass struct {
	dev   *Device
	index int
}

func (p *Pass) Apply(gfx.Context) { _ = p.dev.record("Apply", p.index) }

// Variable implements every effect variable kind and stores the last value.
type Variable struct {
	dev  *Device
	name string
}

func (v *Variable) set(call string, value any) {
	_ = v.dev.record(call, v.name)
	v.dev.values[v.name] = value
}

func (v *Variable) SetMatrix(m math3d.Matrix)              { v.set("SetMatrix", m) }
func (v *Variable) SetVector(vec math3d.Vector4)           { v.set("SetVector", vec) }
func (v *Variable) SetResource(srv gfx.ShaderResourceView) { v.set("SetResource", srv) }
func (v *Variable) SetSampler(_ int, s gfx.SamplerState)   { v.set("SetSampler", s) }

// Context records into its device's log.
type Context struct {
	dev *Device
}

func (c *Context) SetPrimitiveTopology(t gfx.Topology) { _ = c.dev.record("SetPrimitiveTopology", t) }
func (c *Context) SetInputLayout(gfx.InputLayout)      { _ = c.dev.record("SetInputLayout") }

func (c *Context) SetVertexBuffer(slot int, _ gfx.Buffer, stride, offset int) {
	_ = c.dev.record("SetVertexBuffer", slot, stride, offset)
}

func (c *Context) SetIndexBuffer(_ gfx.Buffer, format gfx.Format, offset int) {
	_ = c.dev.record("SetIndexBuffer", format, offset)
}

func (c *Context) DrawIndexed(indexCount, startIndex, baseVertex int) {
	_ = c.dev.record("DrawIndexed", indexCount, startIndex, baseVertex)
	c.dev.draws = append(c.dev.draws, DrawCall{indexCount, startIndex, baseVertex})
}

func (c *Context) SetRenderTargets(gfx.RenderTargetView, gfx.DepthStencilView) {
	_ = c.dev.record("SetRenderTargets")
}

func (c *Context) SetViewport(vp gfx.Viewport) { _ = c.dev.record("SetViewport", vp) }

func (c *Context) ClearRenderTarget(_ gfx.RenderTargetView, col colors.Color) {
	_ = c.dev.record("ClearRenderTarget", col)
}

func (c *Context) ClearDepthStencil(_ gfx.DepthStencilView, flags gfx.ClearFlags, depth float32, stencil uint8) {
	_ = c.dev.record("ClearDepthStencil", flags, depth, stencil)
}

func (c *Context) ClearState() { _ = c.dev.record("ClearState") }
func (c *Context) Flush()      { _ = c.dev.record("Flush") }
func (c *Context) Release()    { _ = c.dev.record("ReleaseContext") }

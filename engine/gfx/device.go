// Package gfx holds the device contract the engine draws through and the
// resource wrappers built on top of it: buffers, textures, samplers, effects
// and meshes. Backends live in sub-packages (gl for OpenGL, gfxtest for the
// recording fake used by tests).
package gfx

import (
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/math3d"
)

// Resource is any object created by a Device.
type Resource interface {
	Release()
}

type Topology int

const (
	TriangleList Topology = iota
	TriangleStrip
)

func (t Topology) String() string {
	if t == TriangleStrip {
		return "TriangleStrip"
	}
	return "TriangleList"
}

type Format int

const (
	FormatUnknown Format = iota
	FormatRGBA8
	FormatD24S8
	FormatR32Uint
	FormatR32G32Float
	FormatR32G32B32Float
)

// Size returns the byte size of one element of f.
func (f Format) Size() int {
	switch f {
	case FormatRGBA8, FormatD24S8, FormatR32Uint:
		return 4
	case FormatR32G32Float:
		return 8
	case FormatR32G32B32Float:
		return 12
	default:
		return 0
	}
}

// Components returns the number of float components of a vertex format.
func (f Format) Components() int {
	switch f {
	case FormatR32G32Float:
		return 2
	case FormatR32G32B32Float:
		return 3
	case FormatRGBA8:
		return 4
	default:
		return 1
	}
}

type Usage int

const (
	UsageDefault Usage = iota
	UsageImmutable
)

type BindFlags uint8

const (
	BindVertexBuffer BindFlags = 1 << iota
	BindIndexBuffer
	BindShaderResource
	BindRenderTarget
	BindDepthStencil
)

type BufferDesc struct {
	ByteWidth int
	Usage     Usage
	Bind      BindFlags
}

type Buffer interface {
	Resource
}

type Texture2DDesc struct {
	Width, Height int
	Format        Format
	Samples       int
	Usage         Usage
	Bind          BindFlags
}

// SubresourceData is the initial content of a texture. Pitch is the byte
// distance between rows and may exceed Width*4.
type SubresourceData struct {
	Pixels []byte
	Pitch  int
}

type Texture2D interface {
	Resource
	Desc() Texture2DDesc
}

type ShaderResourceView interface{ Resource }
type RenderTargetView interface{ Resource }
type DepthStencilView interface{ Resource }

// Filter is a texture sampling mode.
type Filter int

const (
	FilterPoint Filter = iota
	FilterLinear
	FilterAnisotropic
)

func (f Filter) String() string {
	switch f {
	case FilterPoint:
		return "point"
	case FilterLinear:
		return "linear"
	case FilterAnisotropic:
		return "anisotropic"
	default:
		return "unknown"
	}
}

type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressClamp
)

type SamplerDesc struct {
	Filter        Filter
	Address       AddressMode
	MaxAnisotropy int
}

type SamplerState interface{ Resource }

// InputElement describes one per-vertex attribute. Semantic names match the
// attribute names the effect declares.
type InputElement struct {
	Semantic string
	Format   Format
	Offset   int
}

type InputLayout interface{ Resource }

type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

type ClearFlags uint8

const (
	ClearDepth ClearFlags = 1 << iota
	ClearStencil
)

// Surface is the window a swapchain presents into.
type Surface interface {
	FramebufferSize() (int, int)
	SwapBuffers()
}

type SwapchainDesc struct {
	Width, Height int
	Format        Format
	Samples       int
	Surface       Surface
}

type Swapchain interface {
	Resource
	// BackBuffer returns the image presented by Present. The returned
	// texture is a borrowed reference and may be released once a view
	// over it exists.
	BackBuffer() (Texture2D, error)
	Present() error
}

// EffectModule is a compiled effect. Lookups return nil when the name does
// not exist or has the wrong type.
type EffectModule interface {
	Resource
	IsValid() bool
	TechniqueByName(name string) Technique
	MatrixByName(name string) MatrixVariable
	VectorByName(name string) VectorVariable
	ShaderResourceByName(name string) ShaderResourceVariable
	SamplerByName(name string) SamplerVariable
}

// Technique is borrowed from its EffectModule and is valid only while the
// module is alive.
type Technique interface {
	Name() string
	PassCount() int
	Pass(i int) Pass
}

// Pass commits its program, fixed-function state and the current variable
// values of its effect to ctx.
type Pass interface {
	Apply(ctx Context)
}

type MatrixVariable interface {
	SetMatrix(m math3d.Matrix)
}

type VectorVariable interface {
	SetVector(v math3d.Vector4)
}

type ShaderResourceVariable interface {
	SetResource(v ShaderResourceView)
}

type SamplerVariable interface {
	SetSampler(index int, s SamplerState)
}

// Device creates resources. All methods must be called from the thread that
// owns the device.
type Device interface {
	CreateBuffer(desc BufferDesc, data []byte) (Buffer, error)
	CreateTexture2D(desc Texture2DDesc, data *SubresourceData) (Texture2D, error)
	CreateShaderResourceView(tex Texture2D) (ShaderResourceView, error)
	CreateRenderTargetView(tex Texture2D) (RenderTargetView, error)
	CreateDepthStencilView(tex Texture2D) (DepthStencilView, error)
	CreateSamplerState(desc SamplerDesc) (SamplerState, error)
	// CompileEffect compiles an effect description. On failure the error
	// carries the compiler diagnostic.
	CompileEffect(name string, src []byte) (EffectModule, error)
	CreateInputLayout(elements []InputElement, tech Technique) (InputLayout, error)
	CreateSwapchain(desc SwapchainDesc) (Swapchain, error)
	ImmediateContext() Context
	Release()
}

// Context records pipeline state and draw commands.
type Context interface {
	SetPrimitiveTopology(t Topology)
	SetInputLayout(l InputLayout)
	SetVertexBuffer(slot int, b Buffer, stride, offset int)
	SetIndexBuffer(b Buffer, format Format, offset int)
	DrawIndexed(indexCount, startIndex, baseVertex int)
	SetRenderTargets(rtv RenderTargetView, dsv DepthStencilView)
	SetViewport(vp Viewport)
	ClearRenderTarget(rtv RenderTargetView, c colors.Color)
	ClearDepthStencil(dsv DepthStencilView, flags ClearFlags, depth float32, stencil uint8)
	ClearState()
	Flush()
	Release()
}

// DeviceFactory creates a device and its immediate context for a surface.
type DeviceFactory func(s Surface) (Device, error)

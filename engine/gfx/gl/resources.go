package glbackend

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/lumen/engine/gfx"
)

type buffer struct {
	name uint32
	size int
}

func (b *buffer) Release() {
	if b.name != 0 {
		gl.DeleteBuffers(1, &b.name)
		b.name = 0
	}
}

// CreateBuffer uploads through COPY_WRITE_BUFFER so index buffers never touch
// the element binding of whatever vertex array is bound.
func (d *Device) CreateBuffer(desc gfx.BufferDesc, data []byte) (gfx.Buffer, error) {
	if desc.ByteWidth <= 0 {
		return nil, errors.Newf("buffer size %d", desc.ByteWidth)
	}
	if data != nil && len(data) != desc.ByteWidth {
		return nil, errors.Newf("buffer size %d, data %d bytes", desc.ByteWidth, len(data))
	}
	if desc.Usage == gfx.UsageImmutable && data == nil {
		return nil, errors.New("immutable buffer without data")
	}

	usage := uint32(gl.DYNAMIC_DRAW)
	if desc.Usage == gfx.UsageImmutable {
		usage = gl.STATIC_DRAW
	}
	b := &buffer{size: desc.ByteWidth}
	gl.GenBuffers(1, &b.name)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.name)
	if data != nil {
		gl.BufferData(gl.COPY_WRITE_BUFFER, desc.ByteWidth, gl.Ptr(data), usage)
	} else {
		gl.BufferData(gl.COPY_WRITE_BUFFER, desc.ByteWidth, nil, usage)
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	if err := glError("create buffer"); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// texture is either a sampled GL texture or a renderbuffer (render targets
// and depth buffers).
type texture struct {
	name         uint32
	desc         gfx.Texture2DDesc
	renderbuffer bool
	// borrowed textures belong to a swapchain
	borrowed bool
}

func (t *texture) Desc() gfx.Texture2DDesc { return t.desc }

func (t *texture) Release() {
	if t.borrowed || t.name == 0 {
		return
	}
	if t.renderbuffer {
		gl.DeleteRenderbuffers(1, &t.name)
	} else {
		gl.DeleteTextures(1, &t.name)
	}
	t.name = 0
}

func (d *Device) CreateTexture2D(desc gfx.Texture2DDesc, data *gfx.SubresourceData) (gfx.Texture2D, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, errors.Newf("texture size %dx%d", desc.Width, desc.Height)
	}
	if desc.Samples > 1 {
		return nil, errors.Newf("%d samples not supported", desc.Samples)
	}

	if desc.Bind&(gfx.BindDepthStencil|gfx.BindRenderTarget) != 0 {
		return d.createRenderbuffer(desc)
	}
	if desc.Format != gfx.FormatRGBA8 {
		return nil, errors.Newf("texture format %d not supported", desc.Format)
	}

	t := &texture{desc: desc}
	gl.GenTextures(1, &t.name)
	gl.BindTexture(gl.TEXTURE_2D, t.name)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)

	if data != nil {
		if err := checkPixels(desc, data); err != nil {
			gl.BindTexture(gl.TEXTURE_2D, 0)
			t.Release()
			return nil, err
		}
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(data.Pitch/4))
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data.Pixels))
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, nil)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError("create texture"); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// checkPixels validates the pitch the upload will honour.
func checkPixels(desc gfx.Texture2DDesc, data *gfx.SubresourceData) error {
	row := desc.Width * 4
	if data.Pitch < row || data.Pitch%4 != 0 {
		return errors.Newf("pitch %d for width %d", data.Pitch, desc.Width)
	}
	if need := data.Pitch*(desc.Height-1) + row; len(data.Pixels) < need {
		return errors.Newf("%d pixel bytes, need %d", len(data.Pixels), need)
	}
	return nil
}

func (d *Device) createRenderbuffer(desc gfx.Texture2DDesc) (gfx.Texture2D, error) {
	var internal uint32
	switch desc.Format {
	case gfx.FormatD24S8:
		internal = gl.DEPTH24_STENCIL8
	case gfx.FormatRGBA8:
		internal = gl.RGBA8
	default:
		return nil, errors.Newf("renderbuffer format %d not supported", desc.Format)
	}
	t := &texture{desc: desc, renderbuffer: true}
	gl.GenRenderbuffers(1, &t.name)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.name)
	gl.RenderbufferStorage(gl.RENDERBUFFER, internal, int32(desc.Width), int32(desc.Height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	if err := glError("create renderbuffer"); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// Views do not own GL objects; they are valid while their texture is.
type view struct{ tex *texture }

func (v *view) Release() { v.tex = nil }

type shaderResourceView struct{ view }
type renderTargetView struct{ view }
type depthStencilView struct{ view }

func asTexture(tex gfx.Texture2D) (*texture, error) {
	t, ok := tex.(*texture)
	if !ok || t == nil || t.name == 0 {
		return nil, errors.New("not a live gl texture")
	}
	return t, nil
}

func (d *Device) CreateShaderResourceView(tex gfx.Texture2D) (gfx.ShaderResourceView, error) {
	t, err := asTexture(tex)
	if err != nil {
		return nil, err
	}
	if t.renderbuffer {
		return nil, errors.New("renderbuffers cannot be sampled")
	}
	return &shaderResourceView{view{t}}, nil
}

func (d *Device) CreateRenderTargetView(tex gfx.Texture2D) (gfx.RenderTargetView, error) {
	t, err := asTexture(tex)
	if err != nil {
		return nil, err
	}
	if !t.renderbuffer || t.desc.Format != gfx.FormatRGBA8 {
		return nil, errors.New("render target view needs an RGBA8 render target")
	}
	return &renderTargetView{view{t}}, nil
}

func (d *Device) CreateDepthStencilView(tex gfx.Texture2D) (gfx.DepthStencilView, error) {
	t, err := asTexture(tex)
	if err != nil {
		return nil, err
	}
	if !t.renderbuffer || t.desc.Format != gfx.FormatD24S8 {
		return nil, errors.New("depth stencil view needs a D24S8 depth buffer")
	}
	return &depthStencilView{view{t}}, nil
}

type samplerState struct {
	name uint32
}

func (s *samplerState) Release() {
	if s.name != 0 {
		gl.DeleteSamplers(1, &s.name)
		s.name = 0
	}
}

func (d *Device) CreateSamplerState(desc gfx.SamplerDesc) (gfx.SamplerState, error) {
	s := &samplerState{}
	gl.GenSamplers(1, &s.name)

	wrap := int32(gl.REPEAT)
	if desc.Address == gfx.AddressClamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.SamplerParameteri(s.name, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(s.name, gl.TEXTURE_WRAP_T, wrap)

	switch desc.Filter {
	case gfx.FilterPoint:
		gl.SamplerParameteri(s.name, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.SamplerParameteri(s.name, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	case gfx.FilterLinear, gfx.FilterAnisotropic:
		gl.SamplerParameteri(s.name, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.SamplerParameteri(s.name, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	default:
		s.Release()
		return nil, errors.Newf("filter %d not supported", desc.Filter)
	}
	if desc.Filter == gfx.FilterAnisotropic && d.maxAniso > 1 {
		gl.SamplerParameterf(s.name, textureMaxAnisotropy, min(float32(desc.MaxAnisotropy), d.maxAniso))
	}

	if err := glError("create sampler"); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

// inputLayout resolves attribute locations per program when first drawn.
type inputLayout struct {
	elements  []gfx.InputElement
	locations map[uint32][]int32
}

func (l *inputLayout) Release() { l.locations = nil }

func (l *inputLayout) locationsFor(program uint32) []int32 {
	if locs, ok := l.locations[program]; ok {
		return locs
	}
	locs := make([]int32, len(l.elements))
	for i, el := range l.elements {
		locs[i] = gl.GetAttribLocation(program, gl.Str(el.Semantic+"\x00"))
	}
	l.locations[program] = locs
	return locs
}

// CreateInputLayout checks the elements against the first pass of tech; at
// least POSITION must be consumed.
func (d *Device) CreateInputLayout(elements []gfx.InputElement, tech gfx.Technique) (gfx.InputLayout, error) {
	t, ok := tech.(*technique)
	if !ok || len(t.passes) == 0 {
		return nil, errors.New("technique has no passes")
	}
	l := &inputLayout{elements: elements, locations: map[uint32][]int32{}}
	for _, p := range t.passes {
		used := false
		for i, loc := range l.locationsFor(p.program) {
			if loc >= 0 && elements[i].Semantic == "POSITION" {
				used = true
			}
		}
		if !used {
			return nil, errors.Newf("pass %q does not read POSITION", p.name)
		}
	}
	return l, nil
}

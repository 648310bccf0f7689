package glbackend

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/gfx"
)

// Context mirrors an immediate context: bindings are recorded on Set* calls
// and resolved against the current program when a draw is issued.
type Context struct {
	dev *Device
	vao uint32
	fbo uint32

	topology     gfx.Topology
	layout       *inputLayout
	vertexBuffer *buffer
	stride       int
	offset       int
	indexBuffer  *buffer
	indexOffset  int
	program      uint32
	enabled      uint32 // attribute locations enabled on vao
}

func newContext(d *Device) *Context {
	c := &Context{dev: d}
	gl.GenVertexArrays(1, &c.vao)
	gl.GenFramebuffers(1, &c.fbo)
	return c
}

func (c *Context) SetPrimitiveTopology(t gfx.Topology) { c.topology = t }

func (c *Context) SetInputLayout(l gfx.InputLayout) { c.layout, _ = l.(*inputLayout) }

func (c *Context) SetVertexBuffer(slot int, b gfx.Buffer, stride, offset int) {
	if slot != 0 {
		core.Logger().Warn("only vertex buffer slot 0 is supported", "slot", slot)
		return
	}
	c.vertexBuffer, _ = b.(*buffer)
	c.stride, c.offset = stride, offset
}

func (c *Context) SetIndexBuffer(b gfx.Buffer, format gfx.Format, offset int) {
	if format != gfx.FormatR32Uint {
		core.Logger().Warn("only 32-bit indices are supported", "format", format)
		return
	}
	c.indexBuffer, _ = b.(*buffer)
	c.indexOffset = offset
}

func (c *Context) DrawIndexed(indexCount, startIndex, baseVertex int) {
	if c.layout == nil || c.vertexBuffer == nil || c.indexBuffer == nil || c.program == 0 {
		core.Logger().Warn("draw skipped: incomplete pipeline state")
		return
	}
	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vertexBuffer.name)

	var enabled uint32
	for i, loc := range c.layout.locationsFor(c.program) {
		if loc < 0 {
			continue
		}
		el := c.layout.elements[i]
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), int32(el.Format.Components()), gl.FLOAT, false,
			int32(c.stride), gl.PtrOffset(c.offset+el.Offset))
		enabled |= 1 << uint32(loc)
	}
	for loc := uint32(0); loc < 32; loc++ {
		if c.enabled&(1<<loc) != 0 && enabled&(1<<loc) == 0 {
			gl.DisableVertexAttribArray(loc)
		}
	}
	c.enabled = enabled

	mode := uint32(gl.TRIANGLES)
	if c.topology == gfx.TriangleStrip {
		mode = gl.TRIANGLE_STRIP
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.indexBuffer.name)
	gl.DrawElementsBaseVertex(mode, int32(indexCount), gl.UNSIGNED_INT,
		gl.PtrOffset(c.indexOffset+startIndex*4), int32(baseVertex))
}

// SetRenderTargets attaches the views to the context framebuffer and makes
// it the draw target.
func (c *Context) SetRenderTargets(rtv gfx.RenderTargetView, dsv gfx.DepthStencilView) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
	var color, depth uint32
	if v, ok := rtv.(*renderTargetView); ok && v.tex != nil {
		color = v.tex.name
	}
	if v, ok := dsv.(*depthStencilView); ok && v.tex != nil {
		depth = v.tex.name
	}
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, color)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, depth)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		core.Logger().Warn("framebuffer incomplete", "status", status)
	}
}

func (c *Context) SetViewport(vp gfx.Viewport) {
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
	gl.DepthRange(float64(vp.MinDepth), float64(vp.MaxDepth))
}

func (c *Context) ClearRenderTarget(_ gfx.RenderTargetView, col colors.Color) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
	gl.ColorMask(true, true, true, true)
	gl.ClearBufferfv(gl.COLOR, 0, &col[0])
}

func (c *Context) ClearDepthStencil(_ gfx.DepthStencilView, flags gfx.ClearFlags, depth float32, stencil uint8) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
	gl.DepthMask(true)
	gl.StencilMask(0xFF)
	switch {
	case flags&gfx.ClearDepth != 0 && flags&gfx.ClearStencil != 0:
		gl.ClearBufferfi(gl.DEPTH_STENCIL, 0, depth, int32(stencil))
	case flags&gfx.ClearDepth != 0:
		gl.ClearBufferfv(gl.DEPTH, 0, &depth)
	case flags&gfx.ClearStencil != 0:
		s := int32(stencil)
		gl.ClearBufferiv(gl.STENCIL, 0, &s)
	}
}

// ClearState unbinds everything and restores the device defaults.
func (c *Context) ClearState() {
	gl.UseProgram(0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	*c = Context{dev: c.dev, vao: c.vao, fbo: c.fbo}
}

func (c *Context) Flush() { gl.Flush() }

func (c *Context) Release() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
	if c.fbo != 0 {
		gl.DeleteFramebuffers(1, &c.fbo)
		c.fbo = 0
	}
}

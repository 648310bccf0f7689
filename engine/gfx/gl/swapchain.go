package glbackend

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/lumen/engine/gfx"
)

// swapchain renders into its own colour renderbuffer and presents by
// blitting it to the window's default framebuffer.
type swapchain struct {
	dev     *Device
	desc    gfx.SwapchainDesc
	color   *texture
	readFBO uint32
}

func (d *Device) CreateSwapchain(desc gfx.SwapchainDesc) (gfx.Swapchain, error) {
	if desc.Surface == nil {
		return nil, errors.New("swapchain needs a surface")
	}
	if desc.Format != gfx.FormatRGBA8 || desc.Samples > 1 {
		return nil, errors.Newf("swapchain format %d with %d samples not supported", desc.Format, desc.Samples)
	}
	rb, err := d.createRenderbuffer(gfx.Texture2DDesc{
		Width: desc.Width, Height: desc.Height, Format: desc.Format, Samples: 1,
		Bind: gfx.BindRenderTarget,
	})
	if err != nil {
		return nil, err
	}

	sc := &swapchain{dev: d, desc: desc, color: rb.(*texture)}
	gl.GenFramebuffers(1, &sc.readFBO)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, sc.readFBO)
	gl.FramebufferRenderbuffer(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, sc.color.name)
	status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		sc.Release()
		return nil, errors.Newf("swapchain framebuffer incomplete: 0x%04x", status)
	}
	return sc, nil
}

func (s *swapchain) BackBuffer() (gfx.Texture2D, error) {
	if s.color == nil || s.color.name == 0 {
		return nil, errors.New("swapchain was released")
	}
	return &texture{name: s.color.name, desc: s.color.desc, renderbuffer: true, borrowed: true}, nil
}

func (s *swapchain) Present() error {
	w, h := s.desc.Surface.FramebufferSize()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, s.readFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, int32(s.desc.Width), int32(s.desc.Height), 0, 0, int32(w), int32(h),
		gl.COLOR_BUFFER_BIT, gl.LINEAR)
	s.desc.Surface.SwapBuffers()

	var fbo uint32
	if s.dev.ctx != nil {
		fbo = s.dev.ctx.fbo
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	return glError("present")
}

func (s *swapchain) Release() {
	if s.readFBO != 0 {
		gl.DeleteFramebuffers(1, &s.readFBO)
		s.readFBO = 0
	}
	if s.color != nil {
		s.color.Release()
		s.color = nil
	}
}

// Package renderer owns the device, swapchain and the colour and depth
// targets a scene is drawn into, and presents each frame to the window.
package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/errs"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/profiler"
)

// Scene is what Render draws between clear and present.
type Scene interface {
	Draw(ctx gfx.Context) error
}

type Renderer struct {
	surface gfx.Surface
	width   int
	height  int

	device      gfx.Handle[gfx.Device]
	ctx         gfx.Context
	swapchain   gfx.Handle[gfx.Swapchain]
	depth       gfx.Handle[gfx.Texture2D]
	depthView   gfx.Handle[gfx.DepthStencilView]
	targetView  gfx.Handle[gfx.RenderTargetView]
	initialized bool
}

// New creates the device through newDevice and builds the render targets for
// the current size of s. The returned Renderer is never nil: when an error is
// returned it is left uninitialized, owns nothing and Render does nothing.
func New(s gfx.Surface, newDevice gfx.DeviceFactory) (*Renderer, error) {
	r := &Renderer{surface: s}
	r.width, r.height = s.FramebufferSize()
	if err := r.init(newDevice); err != nil {
		r.release()
		core.Logger().Error("renderer init failed", "kind", errs.KindOf(err), "err", err)
		return r, err
	}
	r.initialized = true
	core.Logger().Info("renderer initialized", "width", r.width, "height", r.height)
	return r, nil
}

func (r *Renderer) init(newDevice gfx.DeviceFactory) error {
	dev, err := newDevice(r.surface)
	if err != nil {
		return errs.Wrap(err, errs.DeviceCreateFail, "create device")
	}
	r.device = gfx.Own(dev)
	r.ctx = dev.ImmediateContext()

	sc, err := dev.CreateSwapchain(gfx.SwapchainDesc{
		Width:   r.width,
		Height:  r.height,
		Format:  gfx.FormatRGBA8,
		Samples: 1,
		Surface: r.surface,
	})
	if err != nil {
		return errs.Wrap(err, errs.SwapChainCreateFail, "%dx%d", r.width, r.height)
	}
	r.swapchain = gfx.Own(sc)

	depth, err := dev.CreateTexture2D(gfx.Texture2DDesc{
		Width:   r.width,
		Height:  r.height,
		Format:  gfx.FormatD24S8,
		Samples: 1,
		Usage:   gfx.UsageDefault,
		Bind:    gfx.BindDepthStencil,
	}, nil)
	if err != nil {
		return errs.Wrap(err, errs.DepthStencilCreateFail, "%dx%d", r.width, r.height)
	}
	r.depth = gfx.Own(depth)

	dsv, err := dev.CreateDepthStencilView(depth)
	if err != nil {
		return errs.Wrap(err, errs.DepthStencilViewCreateFail, "depth view")
	}
	r.depthView = gfx.Own(dsv)

	back, err := sc.BackBuffer()
	if err != nil {
		return errs.Wrap(err, errs.GetRenderTargetBufferFail, "back buffer")
	}
	rtv, err := dev.CreateRenderTargetView(back)
	// the view keeps what it needs of the back buffer
	back.Release()
	if err != nil {
		return errs.Wrap(err, errs.RenderTargetViewCreateFail, "target view")
	}
	r.targetView = gfx.Own(rtv)

	r.ctx.SetRenderTargets(rtv, dsv)
	r.ctx.SetViewport(gfx.Viewport{
		Width:    float32(r.width),
		Height:   float32(r.height),
		MinDepth: 0,
		MaxDepth: 1,
	})
	return nil
}

func (r *Renderer) Initialized() bool { return r.initialized }

// Device returns the device, or nil when the renderer is not initialized.
func (r *Renderer) Device() gfx.Device { return r.device.Get() }

func (r *Renderer) AspectRatio() float32 {
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

// Render clears both targets, draws scene and presents. An uninitialized
// renderer does nothing. When scene fails to draw nothing is presented.
func (r *Renderer) Render(scene Scene) error {
	if !r.initialized {
		return nil
	}
	defer profiler.Start("render")()

	r.ctx.ClearRenderTarget(r.targetView.Get(), colors.Background)
	r.ctx.ClearDepthStencil(r.depthView.Get(), gfx.ClearDepth|gfx.ClearStencil, 1, 0)

	if err := scene.Draw(r.ctx); err != nil {
		return err
	}
	if err := r.swapchain.Get().Present(); err != nil {
		return errors.Wrap(err, "present")
	}
	return nil
}

// Shutdown releases everything in reverse creation order. It is safe to call
// more than once.
func (r *Renderer) Shutdown() {
	if !r.device.Valid() {
		return
	}
	r.release()
	r.initialized = false
	core.Logger().Info("renderer shut down")
}

func (r *Renderer) release() {
	r.targetView.Release()
	r.depthView.Release()
	r.depth.Release()
	r.swapchain.Release()
	if r.ctx != nil {
		r.ctx.ClearState()
		r.ctx.Flush()
		r.ctx.Release()
		r.ctx = nil
	}
	r.device.Release()
}

// Package glbackend implements the gfx device contract on an OpenGL 3.3 core
// context. The context must be current on the calling thread.
package glbackend

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/gfx"
)

// EXT_texture_filter_anisotropic, not part of the 3.3 core headers.
const (
	textureMaxAnisotropy    = 0x84FE
	maxTextureMaxAnisotropy = 0x84FF
)

type Device struct {
	surface  gfx.Surface
	ctx      *Context
	maxAniso float32
}

// NewDevice loads the GL entry points for the current context and sets the
// fixed state the engine relies on: clockwise front faces and depth testing.
// It matches gfx.DeviceFactory.
func NewDevice(s gfx.Surface) (gfx.Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "gl init")
	}
	core.Logger().Info("gl device",
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)))

	d := &Device{surface: s}
	if hasExtension("texture_filter_anisotropic") {
		gl.GetFloatv(maxTextureMaxAnisotropy, &d.maxAniso)
	}

	gl.FrontFace(gl.CW)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	d.ctx = newContext(d)
	if err := glError("device init"); err != nil {
		d.ctx.Release()
		return nil, err
	}
	return d, nil
}

func hasExtension(suffix string) bool {
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := uint32(0); i < uint32(n); i++ {
		if strings.HasSuffix(gl.GoStr(gl.GetStringi(gl.EXTENSIONS, i)), suffix) {
			return true
		}
	}
	return false
}

func (d *Device) ImmediateContext() gfx.Context { return d.ctx }

// Release drops the immediate context. The GL context itself belongs to the
// window.
func (d *Device) Release() {
	if d.ctx != nil {
		d.ctx.Release()
		d.ctx = nil
	}
}

// glError drains the GL error queue and reports the first error.
func glError(op string) error {
	first := uint32(gl.NO_ERROR)
	for e := gl.GetError(); e != gl.NO_ERROR; e = gl.GetError() {
		if first == gl.NO_ERROR {
			first = e
		}
	}
	if first != gl.NO_ERROR {
		return errors.Newf("%s: gl error 0x%04x", op, first)
	}
	return nil
}

package gfx

import (
	"github.com/hubastard/lumen/engine/assets"
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/errs"
)

// Texture is an RGBA8 image on the device plus a shader view over it.
type Texture struct {
	resource      Handle[Texture2D]
	view          Handle[ShaderResourceView]
	width, height int
}

// NewTexture uploads img using its pitch verbatim.
func NewTexture(dev Device, img assets.Image) (*Texture, error) {
	res, err := dev.CreateTexture2D(Texture2DDesc{
		Width:   img.Width,
		Height:  img.Height,
		Format:  FormatRGBA8,
		Samples: 1,
		Usage:   UsageDefault,
		Bind:    BindShaderResource,
	}, &SubresourceData{Pixels: img.Pixels, Pitch: img.Pitch})
	if err != nil {
		return nil, errs.Wrap(err, errs.ResourceCreateFail, "%dx%d", img.Width, img.Height)
	}
	resh := Own[Texture2D](res)

	view, err := dev.CreateShaderResourceView(res)
	if err != nil {
		resh.Release()
		return nil, errs.Wrap(err, errs.ResourceViewCreateFail, "%dx%d", img.Width, img.Height)
	}
	return &Texture{
		resource: resh,
		view:     Own[ShaderResourceView](view),
		width:    img.Width,
		height:   img.Height,
	}, nil
}

// LoadTexture decodes root/textures/rel and uploads it. The decoded pixels
// are not kept.
func LoadTexture(dev Device, root, rel string) (*Texture, error) {
	img, err := assets.LoadImage(root, rel)
	if err != nil {
		return nil, err
	}
	tex, err := NewTexture(dev, img)
	if err != nil {
		return nil, err
	}
	core.Logger().Debug("texture loaded", "path", rel, "width", img.Width, "height", img.Height)
	return tex, nil
}

func (t *Texture) View() ShaderResourceView { return t.view.Get() }
func (t *Texture) Size() (int, int)         { return t.width, t.height }

func (t *Texture) Release() {
	t.view.Release()
	t.resource.Release()
}

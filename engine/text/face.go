// Package text rasterizes single-line labels into straight-alpha images that can be
// uploaded as textures.
package text

import (
	"image"
	"image/color"

	"github.com/cockroachdb/errors"
	"github.com/hubastard/lumen/engine/assets"
	"github.com/hubastard/lumen/engine/colors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// padding around the text, in pixels
const pad = 2

// Face renders text with the built-in Go Regular font at a fixed pixel size.
type Face struct {
	face    font.Face
	ascent  int
	descent int
}

func NewFace(sizePx float64) (*Face, error) {
	if sizePx <= 0 {
		return nil, errors.Newf("font size %g", sizePx)
	}
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new face")
	}
	m := face.Metrics()
	return &Face{face: face, ascent: m.Ascent.Ceil(), descent: m.Descent.Ceil()}, nil
}

// Measure returns the pixel size Render produces for s.
func (f *Face) Measure(s string) (w, h int) {
	adv := font.MeasureString(f.face, s)
	return adv.Ceil() + 2*pad, f.ascent + f.descent + 2*pad
}

// Render draws s in c on a transparent background. Glyph edges keep the full
// colour of c and fade through alpha only.
func (f *Face) Render(s string, c colors.Color) assets.Image {
	return f.RenderWidth(s, c, 0)
}

// RenderWidth is Render on a canvas at least minWidth pixels wide, text
// left-aligned.
func (f *Face) RenderWidth(s string, c colors.Color, minWidth int) assets.Image {
	w, h := f.Measure(s)
	w = max(w, minWidth)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(toNRGBA(c)),
		Face: f.face,
		Dot:  fixed.P(pad, pad+f.ascent),
	}
	d.DrawString(s)
	return assets.FromImage(dst)
}

func (f *Face) Close() error { return f.face.Close() }

func toNRGBA(c colors.Color) color.NRGBA {
	ch := func(v float32) uint8 { return uint8(min(max(v, 0), 1)*255 + 0.5) }
	return color.NRGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: ch(c[3])}
}

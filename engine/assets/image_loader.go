package assets

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/errs"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is decoded RGBA8 pixel data with straight (non-premultiplied) alpha,
// top row first. Pitch is the byte length of one row in Pixels and may exceed
// Width*4. Alpha-blended passes multiply by source alpha themselves.
type Image struct {
	Width, Height int
	Pitch         int
	Pixels        []byte
}

// LoadImage decodes root/textures/rel (png, jpeg, bmp, tiff or webp) into RGBA8.
func LoadImage(root, rel string) (Image, error) {
	path := filepath.Join(root, "textures", rel)
	f, err := os.Open(path)
	if err != nil {
		return Image{}, errs.Wrap(err, errs.CouldNotOpenFile, "open %q", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Image{}, errs.Wrap(err, errs.CouldNotOpenFile, "decode %q", path)
	}
	return FromImage(img), nil
}

// FromImage converts any image to straight-alpha RGBA8, keeping the
// decoder's row pitch when it already is NRGBA. Premultiplied sources are
// un-premultiplied.
func FromImage(img image.Image) Image {
	m := imageToNRGBA(img)
	b := m.Bounds()
	// Pix starts at Bounds().Min, so a sub-image still reads from offset 0.
	off := m.PixOffset(b.Min.X, b.Min.Y)
	return Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pitch:  m.Stride,
		Pixels: m.Pix[off:],
	}
}

// SolidImage returns a 1x1 opaque image of the given color.
func SolidImage(c colors.ColorRGB) Image {
	c.MaxToOne()
	return Image{
		Width: 1, Height: 1, Pitch: 4,
		Pixels: []byte{toByte(c.R), toByte(c.G), toByte(c.B), 255},
	}
}

func toByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	return byte(v*255 + 0.5)
}

func imageToNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok {
		return m
	}
	dst := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

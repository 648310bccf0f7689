package text

import (
	"testing"

	"github.com/hubastard/lumen/engine/colors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDrawsOpaqueGlyphPixels(t *testing.T) {
	f, err := NewFace(16)
	require.NoError(t, err)
	defer f.Close()

	img := f.Render("F2 linear", colors.Color{1, 1, 1, 1})
	w, h := f.Measure("F2 linear")
	assert.Equal(t, w, img.Width)
	assert.Equal(t, h, img.Height)
	assert.Greater(t, img.Width, img.Height)

	var covered, clear int
	for y := 0; y < img.Height; y++ {
		row := img.Pixels[y*img.Pitch : y*img.Pitch+img.Width*4]
		for x := 0; x < len(row); x += 4 {
			if row[x+3] == 0 {
				clear++
			} else {
				covered++
			}
		}
	}
	assert.Positive(t, covered)
	assert.Positive(t, clear)
	// corners stay transparent
	assert.Zero(t, img.Pixels[3])
}

func TestMeasureGrowsWithText(t *testing.T) {
	f, err := NewFace(16)
	require.NoError(t, err)
	defer f.Close()

	w1, h1 := f.Measure("a")
	w2, h2 := f.Measure("aaaa")
	assert.Greater(t, w2, w1)
	assert.Equal(t, h1, h2)

	w0, _ := f.Measure("")
	assert.Equal(t, 2*pad, w0)
}

func TestNewFaceRejectsBadSize(t *testing.T) {
	_, err := NewFace(0)
	assert.Error(t, err)
}

func TestToNRGBAClamps(t *testing.T) {
	c := toNRGBA(colors.Color{2, -1, 0.5, 1})
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(128), c.B)
	assert.Equal(t, uint8(255), c.A)
}

func TestRenderEdgesKeepFullColour(t *testing.T) {
	f, err := NewFace(16)
	require.NoError(t, err)
	defer f.Close()

	img := f.Render("o", colors.Color{1, 1, 1, 1})
	var partial int
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.Pixels[y*img.Pitch+x*4 : y*img.Pitch+x*4+4]
			if px[3] == 0 {
				continue
			}
			if px[3] < 255 {
				partial++
			}
			assert.Equal(t, []byte{255, 255, 255}, px[:3], "pixel %d,%d alpha %d", x, y, px[3])
		}
	}
	assert.Positive(t, partial)
}

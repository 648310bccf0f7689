package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/errs"
	"github.com/hubastard/lumen/engine/math3d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, dir, name), data, 0o644))
}

func TestLoadImagePNG(t *testing.T) {
	root := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(2, 1, color.NRGBA{0, 0, 255, 255})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "textures"), 0o755))
	f, err := os.Create(filepath.Join(root, "textures", "tiny.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	got, err := LoadImage(root, "tiny.png")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Width)
	assert.Equal(t, 2, got.Height)
	assert.GreaterOrEqual(t, got.Pitch, got.Width*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, got.Pixels[0:4])
	last := got.Pitch + 2*4
	assert.Equal(t, []byte{0, 0, 255, 255}, got.Pixels[last:last+4])
}

func TestLoadImageMissing(t *testing.T) {
	_, err := LoadImage(t.TempDir(), "missing.png")
	assert.True(t, errs.Is(err, errs.CouldNotOpenFile))
}

func TestFromImageKeepsPitchOfSubImage(t *testing.T) {
	big := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	big.Set(2, 2, color.NRGBA{9, 8, 7, 255})
	sub := big.SubImage(image.Rect(2, 2, 4, 4))

	got := FromImage(sub)
	assert.Equal(t, 2, got.Width)
	assert.Equal(t, 32, got.Pitch)
	assert.Equal(t, []byte{9, 8, 7, 255}, got.Pixels[:4])
}

func TestFromImageKeepsStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{255, 139, 20, 101})
	got := FromImage(src)
	assert.Equal(t, []byte{255, 139, 20, 101}, got.Pixels[:4])

	// premultiplied input comes back out straight
	pre := image.NewRGBA(image.Rect(0, 0, 1, 1))
	pre.SetRGBA(0, 0, color.RGBA{64, 32, 0, 128})
	got = FromImage(pre)
	assert.InDelta(t, 127, int(got.Pixels[0]), 1)
	assert.InDelta(t, 63, int(got.Pixels[1]), 1)
	assert.Equal(t, []byte{0, 128}, got.Pixels[2:4])
}

func TestLoadImageKeepsTranslucentColour(t *testing.T) {
	root := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, 64})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "textures"), 0o755))
	f, err := os.Create(filepath.Join(root, "textures", "glass.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	got, err := LoadImage(root, "glass.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{200, 100, 50, 64}, got.Pixels[:4])
}

func TestSolidImage(t *testing.T) {
	img := SolidImage(colors.White)
	assert.Equal(t, Image{Width: 1, Height: 1, Pitch: 4, Pixels: []byte{255, 255, 255, 255}}, img)
	assert.Equal(t, []byte{255, 128, 0, 255}, SolidImage(colors.ColorRGB{R: 2, G: 1, B: 0}).Pixels)
}

func TestLoadEffectSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "effects", "x.fx.yaml", []byte("technique: DefaultTechnique\n"))
	b, err := LoadEffectSource(root, "x.fx.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(b), "DefaultTechnique")

	_, err = LoadEffectSource(root, "nope.fx.yaml")
	assert.Equal(t, errs.CategoryFile, errs.CategoryOf(err))
}

const quadOBJ = `o quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 -1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestLoadOBJTriangulatesAndDedupes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "models", "quad.obj", []byte(quadOBJ))

	m, err := LoadOBJ(root, "quad.obj")
	require.NoError(t, err)
	require.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)

	v0 := m.Vertices[0]
	assert.True(t, v0.Position.Equal(math3d.Vec3(-1, -1, 0)))
	assert.True(t, v0.UV.Equal(math3d.Vec2(0, 1)), "uv %v", v0.UV)
	assert.True(t, v0.Normal.Equal(math3d.Vec3(0, 0, -1)))
	assert.True(t, v0.Tangent.Equal(math3d.Vector3UnitX), "tangent %v", v0.Tangent)
}

func TestLoadOBJMissing(t *testing.T) {
	_, err := LoadOBJ(t.TempDir(), "vehicle.obj")
	assert.True(t, errs.Is(err, errs.CouldNotOpenFile))
}

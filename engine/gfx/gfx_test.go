package gfx_test

import (
	"errors"
	"testing"

	"github.com/hubastard/lumen/engine/assets"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/errs"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/gfx/gfxtest"
	"github.com/hubastard/lumen/engine/math3d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDevice = errors.New("device lost")

var triangle = []gfx.Vertex{
	{Position: math3d.Vec3(0, 0.5, 0.5), Color: colors.Red},
	{Position: math3d.Vec3(0.5, -0.5, 0.5), Color: colors.Blue},
	{Position: math3d.Vec3(-0.5, -0.5, 0.5), Color: colors.Green},
}

var white = assets.SolidImage(colors.White)

func diffuseDesc() gfx.TransparentMeshDesc {
	return gfx.TransparentMeshDesc{
		Vertices: triangle,
		Indices:  []uint32{0, 1, 2},
		Effect:   gfx.EffectSource{Name: "diffuse.fx.yaml"},
		Diffuse:  &white,
	}
}

func materialDesc() gfx.MeshDesc {
	return gfx.MeshDesc{
		Vertices: triangle,
		Indices:  []uint32{0, 1, 2},
		Effect:   gfx.EffectSource{Name: "material.fx.yaml"},
		Maps:     gfx.MaterialImages{Diffuse: &white, Normal: &white, Specular: &white, Glossiness: &white},
	}
}

func TestVertexLayoutMatchesStruct(t *testing.T) {
	assert.Equal(t, 56, gfx.VertexStride)
	last := gfx.VertexLayout[len(gfx.VertexLayout)-1]
	assert.Equal(t, gfx.VertexStride, last.Offset+last.Format.Size())
}

type fakeResource struct{ releases int }

func (f *fakeResource) Release() { f.releases++ }

func TestHandleTakeAndRelease(t *testing.T) {
	r := &fakeResource{}
	h := gfx.Own[gfx.Resource](r)
	require.True(t, h.Valid())

	moved := h.Take()
	assert.False(t, h.Valid())
	h.Release()
	assert.Equal(t, 0, r.releases)

	moved.Release()
	moved.Release()
	assert.Equal(t, 1, r.releases)

	var empty gfx.Handle[gfx.Resource]
	empty.Release()
	none := gfx.Own[gfx.Resource](nil)
	assert.False(t, none.Valid())
}

func TestBufferPairRejectsEmptyInputBeforeDevice(t *testing.T) {
	dev := gfxtest.NewDevice()

	_, err := gfx.NewBufferPair(dev, nil, []uint32{0})
	assert.ErrorIs(t, err, errs.ErrBufferIsEmpty)
	_, err = gfx.NewBufferPair(dev, triangle, nil)
	assert.ErrorIs(t, err, errs.ErrBufferIsEmpty)

	assert.Zero(t, dev.Count("CreateBuffer"))
	assert.Empty(t, dev.Calls())
}

func TestBufferPairCreatesImmutableBuffers(t *testing.T) {
	dev := gfxtest.NewDevice()
	bp, err := gfx.NewBufferPair(dev, triangle, []uint32{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, bp.VertexCount())
	assert.Equal(t, 3, bp.IndexCount())

	calls := dev.Calls()
	require.Len(t, calls, 2)
	vdesc := calls[0].Args[0].(gfx.BufferDesc)
	assert.Equal(t, gfx.UsageImmutable, vdesc.Usage)
	assert.Equal(t, 3*gfx.VertexStride, vdesc.ByteWidth)
	assert.Equal(t, 3*gfx.VertexStride, calls[0].Args[1])
	assert.Equal(t, 12, calls[1].Args[0].(gfx.BufferDesc).ByteWidth)

	bp.Release()
	bp.Release()
	assert.Zero(t, dev.Live())
}

func TestBufferPairCreateFail(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Fail("CreateBuffer", errDevice)

	_, err := gfx.NewBufferPair(dev, triangle, []uint32{0, 1, 2})
	assert.True(t, errs.Is(err, errs.BufferCreateFail))
	assert.ErrorIs(t, err, errDevice)
	assert.Zero(t, dev.Live())
}

func TestTextureHonoursPitch(t *testing.T) {
	dev := gfxtest.NewDevice()
	img := assets.Image{Width: 2, Height: 2, Pitch: 16, Pixels: make([]byte, 32)}

	tex, err := gfx.NewTexture(dev, img)
	require.NoError(t, err)
	require.NotNil(t, tex.View())
	w, h := tex.Size()
	assert.Equal(t, [2]int{2, 2}, [2]int{w, h})

	desc := dev.Calls()[0].Args[0].(gfx.Texture2DDesc)
	assert.Equal(t, gfx.FormatRGBA8, desc.Format)
	tex.Release()
	assert.Zero(t, dev.Live())
}

func TestTextureErrorsAreDistinct(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Fail("CreateTexture2D", errDevice)
	_, err := gfx.NewTexture(dev, white)
	assert.True(t, errs.Is(err, errs.ResourceCreateFail))

	dev = gfxtest.NewDevice()
	dev.Fail("CreateShaderResourceView", errDevice)
	_, err = gfx.NewTexture(dev, white)
	assert.True(t, errs.Is(err, errs.ResourceViewCreateFail))
	assert.Zero(t, dev.Live(), "image must be released when the view fails")
}

func TestSamplerClosedCycle(t *testing.T) {
	dev := gfxtest.NewDevice()
	fx, err := dev.CompileEffect("fx", nil)
	require.NoError(t, err)

	s, err := gfx.NewSampler(dev, fx)
	require.NoError(t, err)
	assert.Equal(t, 3, dev.Count("CreateSamplerState"), "states are created eagerly")
	assert.Equal(t, gfx.FilterPoint, s.Mode())

	created := dev.Count("CreateSamplerState")
	seen := []gfx.Filter{s.Cycle(), s.Cycle(), s.Cycle()}
	assert.Equal(t, []gfx.Filter{gfx.FilterLinear, gfx.FilterAnisotropic, gfx.FilterPoint}, seen)
	assert.Equal(t, created, dev.Count("CreateSamplerState"), "cycling never creates")

	bound, ok := dev.Value(gfx.SamplerVariableName)
	require.True(t, ok)
	assert.Equal(t, gfx.FilterPoint, bound.(*gfxtest.SamplerState).Filter)

	s.Release()
	fx.Release()
	assert.Zero(t, dev.Live())
}

func TestSamplerErrors(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Omit(gfx.SamplerVariableName)
	fx, _ := dev.CompileEffect("fx", nil)
	_, err := gfx.NewSampler(dev, fx)
	assert.True(t, errs.Is(err, errs.InvalidSampler))

	dev = gfxtest.NewDevice()
	fx, _ = dev.CompileEffect("fx", nil)
	dev.Fail("CreateSamplerState", errDevice)
	_, err = gfx.NewSampler(dev, fx)
	assert.True(t, errs.Is(err, errs.InvalidSampler))
	assert.Equal(t, []string{"Effect"}, dev.LiveKinds())
}

func TestEffectConstructionOrder(t *testing.T) {
	cases := []struct {
		name string
		prep func(d *gfxtest.Device)
		kind errs.Kind
	}{
		{"compile", func(d *gfxtest.Device) { d.Fail("CompileEffect", errDevice) }, errs.EffectCreateFail},
		{"invalid", func(d *gfxtest.Device) { d.InvalidEffects = true }, errs.InvalidEffect},
		{"technique", func(d *gfxtest.Device) { d.Omit(gfx.DefaultTechnique) }, errs.InvalidTechnique},
		{"layout", func(d *gfxtest.Device) { d.Fail("CreateInputLayout", errDevice) }, errs.LayoutCreateFail},
		{"wvp", func(d *gfxtest.Device) { d.Omit("gWorldViewProj") }, errs.InvalidWorldViewProjection},
		{"world", func(d *gfxtest.Device) { d.Omit("gWorldMatrix") }, errs.InvalidWorldMatrix},
		{"camera", func(d *gfxtest.Device) { d.Omit("gCameraPosition") }, errs.InvalidCameraOrigin},
		{"diffuse", func(d *gfxtest.Device) { d.Omit("gDiffuseMap") }, errs.InvalidDiffuseMap},
		{"normal", func(d *gfxtest.Device) { d.Omit("gNormalMap") }, errs.InvalidNormalMap},
		{"specular", func(d *gfxtest.Device) { d.Omit("gSpecularMap") }, errs.InvalidSpecularMap},
		{"gloss", func(d *gfxtest.Device) { d.Omit("gGlossinessMap") }, errs.InvalidGlossinessMap},
		{"first failure wins", func(d *gfxtest.Device) { d.Omit("gWorldMatrix", "gNormalMap") }, errs.InvalidWorldMatrix},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			tc.prep(dev)
			fx, err := gfx.NewMaterialEffect(dev, gfx.EffectSource{Name: "material"})
			assert.Nil(t, fx)
			assert.Equal(t, tc.kind, errs.KindOf(err))
			assert.Zero(t, dev.Live(), "live: %v", dev.LiveKinds())
		})
	}
}

func TestDiffuseEffectNeedsOnlyItsVariables(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Omit("gWorldMatrix", "gCameraPosition", "gNormalMap", "gSpecularMap", "gGlossinessMap")
	fx, err := gfx.NewDiffuseEffect(dev, gfx.EffectSource{Name: "diffuse"})
	require.NoError(t, err)

	fx.Upload(gfx.Transforms{WorldViewProjection: math3d.Translation(1, 2, 3)})
	v, ok := dev.Value("gWorldViewProj")
	require.True(t, ok)
	assert.True(t, v.(math3d.Matrix).Equal(math3d.Translation(1, 2, 3)))

	fx.Release()
	fx.Release()
	assert.Zero(t, dev.Live())
}

func TestMeshDrawIssuesOneDrawPerPass(t *testing.T) {
	for _, passes := range []int{1, 2, 3} {
		dev := gfxtest.NewDevice()
		dev.PassCount = passes
		m, err := gfx.NewTransparentMesh(dev, diffuseDesc())
		require.NoError(t, err)

		dev.Reset()
		require.NoError(t, m.Draw(dev.ImmediateContext()))
		draws := dev.Draws()
		require.Len(t, draws, passes)
		for _, d := range draws {
			assert.Equal(t, gfxtest.DrawCall{IndexCount: 3}, d)
		}
		assert.Equal(t, passes, dev.Count("Apply"))
		m.Release()
	}
}

func TestMeshDrawOrder(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.PassCount = 2
	m, err := gfx.NewMesh(dev, materialDesc())
	require.NoError(t, err)

	dev.Reset()
	require.NoError(t, m.Draw(dev.ImmediateContext()))
	assert.Equal(t, []string{
		"SetPrimitiveTopology", "SetInputLayout", "SetVertexBuffer", "SetIndexBuffer",
		"SetMatrix", "SetMatrix", "SetVector",
		"Apply", "DrawIndexed", "Apply", "DrawIndexed",
	}, dev.Names())

	vb := dev.Calls()[2]
	assert.Equal(t, []any{0, gfx.VertexStride, 0}, vb.Args)
	assert.Equal(t, []any{gfx.FormatR32Uint, 0}, dev.Calls()[3].Args)
}

func TestMeshTransforms(t *testing.T) {
	dev := gfxtest.NewDevice()
	m, err := gfx.NewMesh(dev, materialDesc())
	require.NoError(t, err)

	m.SetWorld(math3d.Translation(0, 0, 5))
	m.ApplyMatrix(math3d.Scale(2, 2, 2))
	assert.True(t, m.World().Equal(math3d.Scale(2, 2, 2).Mul(math3d.Translation(0, 0, 5))))

	view := math3d.Translation(0, 0, 1)
	proj := math3d.PerspectiveFovLH(1, 1, 0.1, 100)
	origin := math3d.Vec3(1, 2, 3)
	m.SetWorldViewProjection(view, proj, origin)
	require.NoError(t, m.Draw(dev.ImmediateContext()))

	wvp, _ := dev.Value("gWorldViewProj")
	assert.True(t, wvp.(math3d.Matrix).Equal(m.World().Mul(view).Mul(proj)))
	world, _ := dev.Value("gWorldMatrix")
	assert.True(t, world.(math3d.Matrix).Equal(m.World()))
	cam, _ := dev.Value("gCameraPosition")
	assert.True(t, cam.(math3d.Vector4).Equal(math3d.Vec4(1, 2, 3, 1)))
}

func TestMeshRejectsEmptyGeometryWithoutDeviceCalls(t *testing.T) {
	dev := gfxtest.NewDevice()
	desc := materialDesc()
	desc.Indices = nil
	_, err := gfx.NewMesh(dev, desc)
	assert.ErrorIs(t, err, errs.ErrBufferIsEmpty)
	assert.Empty(t, dev.Calls())
}

func TestMeshFailureReleasesEverything(t *testing.T) {
	for _, step := range []string{"CreateSamplerState", "CreateBuffer", "CreateTexture2D", "CreateShaderResourceView"} {
		t.Run(step, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			dev.Fail(step, errDevice)
			m, err := gfx.NewMesh(dev, materialDesc())
			assert.Nil(t, m)
			assert.Error(t, err)
			assert.Zero(t, dev.Live(), "live: %v", dev.LiveKinds())
		})
	}
}

func TestMeshReleaseOnceAndDrawAfterRelease(t *testing.T) {
	dev := gfxtest.NewDevice()
	m, err := gfx.NewMesh(dev, materialDesc())
	require.NoError(t, err)
	assert.Equal(t, gfx.FilterLinear, m.CycleFilteringMode())

	m.Release()
	m.Release()
	assert.Zero(t, dev.Live())
	assert.True(t, errs.Is(m.Draw(dev.ImmediateContext()), errs.MeshRenderError))
}

func TestTransparentMeshReplaceDiffuseKeepsGeometry(t *testing.T) {
	dev := gfxtest.NewDevice()
	m, err := gfx.NewTransparentMesh(dev, diffuseDesc())
	require.NoError(t, err)
	live := dev.Live()
	old, _ := dev.Value("gDiffuseMap")
	dev.Reset()

	require.NoError(t, m.ReplaceDiffuse(dev, assets.SolidImage(colors.Red)))
	for _, call := range []string{"CompileEffect", "CreateInputLayout", "CreateBuffer", "CreateSamplerState"} {
		assert.Zero(t, dev.Count(call), call)
	}
	assert.Equal(t, 1, dev.Count("CreateTexture2D"))
	assert.Equal(t, live, dev.Live(), "live: %v", dev.LiveKinds())
	cur, _ := dev.Value("gDiffuseMap")
	assert.NotSame(t, old, cur)

	dev.Fail("CreateTexture2D", errDevice)
	assert.ErrorIs(t, m.ReplaceDiffuse(dev, white), errDevice)
	kept, _ := dev.Value("gDiffuseMap")
	assert.Same(t, cur, kept)
	assert.Equal(t, live, dev.Live())

	m.Release()
	assert.Zero(t, dev.Live())
	assert.True(t, errs.Is(m.ReplaceDiffuse(dev, white), errs.MeshRenderError))
}

func TestMeshRejectsBadGeometryWithoutDeviceCalls(t *testing.T) {
	outOfRange := diffuseDesc()
	outOfRange.Indices = []uint32{0, 1, 3}
	badTopology := diffuseDesc()
	badTopology.Topology = gfx.Topology(7)

	for name, desc := range map[string]gfx.TransparentMeshDesc{"index": outOfRange, "topology": badTopology} {
		t.Run(name, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			_, err := gfx.NewTransparentMesh(dev, desc)
			assert.True(t, errs.Is(err, errs.MeshCreateFail), "got %v", err)
			assert.Equal(t, errs.CategoryMesh, errs.CategoryOf(err))
			assert.Empty(t, dev.Calls())
		})
	}

	desc := materialDesc()
	desc.Indices = []uint32{2, 1, 9}
	dev := gfxtest.NewDevice()
	_, err := gfx.NewMesh(dev, desc)
	assert.True(t, errs.Is(err, errs.MeshCreateFail), "got %v", err)
	assert.Empty(t, dev.Calls())
}

func TestWorldChangesWaitForNextCameraUpdate(t *testing.T) {
	dev := gfxtest.NewDevice()
	m, err := gfx.NewTransparentMesh(dev, diffuseDesc())
	require.NoError(t, err)
	defer m.Release()

	view, proj := math3d.Identity(), math3d.Identity()
	m.SetWorldViewProjection(view, proj, math3d.Vector3{})
	m.ApplyMatrix(math3d.Translation(4, 0, 0))
	require.NoError(t, m.Draw(dev.ImmediateContext()))
	wvp, _ := dev.Value("gWorldViewProj")
	assert.True(t, wvp.(math3d.Matrix).Equal(math3d.Identity()), "got %v", wvp)

	m.SetWorldViewProjection(view, proj, math3d.Vector3{})
	require.NoError(t, m.Draw(dev.ImmediateContext()))
	wvp, _ = dev.Value("gWorldViewProj")
	assert.True(t, wvp.(math3d.Matrix).Equal(math3d.Translation(4, 0, 0)), "got %v", wvp)
}

package gfx

import (
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/errs"
)

// BufferPair owns an immutable vertex buffer and its 32-bit index buffer.
type BufferPair struct {
	vertices    Handle[Buffer]
	indices     Handle[Buffer]
	vertexCount int
	indexCount  int
}

// NewBufferPair uploads vertices and indices. Empty input is rejected before
// the device is touched.
func NewBufferPair(dev Device, vertices []Vertex, indices []uint32) (*BufferPair, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errs.New(errs.BufferIsEmpty, "%d vertices, %d indices", len(vertices), len(indices))
	}

	vb, err := dev.CreateBuffer(BufferDesc{
		ByteWidth: len(vertices) * VertexStride,
		Usage:     UsageImmutable,
		Bind:      BindVertexBuffer,
	}, vertexBytes(vertices))
	if err != nil {
		return nil, errs.Wrap(err, errs.BufferCreateFail, "vertex buffer")
	}
	vbh := Own[Buffer](vb)

	ib, err := dev.CreateBuffer(BufferDesc{
		ByteWidth: len(indices) * 4,
		Usage:     UsageImmutable,
		Bind:      BindIndexBuffer,
	}, indexBytes(indices))
	if err != nil {
		vbh.Release()
		return nil, errs.Wrap(err, errs.BufferCreateFail, "index buffer")
	}

	core.Logger().Debug("buffers created", "vertices", len(vertices), "indices", len(indices))
	return &BufferPair{
		vertices:    vbh,
		indices:     Own[Buffer](ib),
		vertexCount: len(vertices),
		indexCount:  len(indices),
	}, nil
}

func (b *BufferPair) VertexCount() int { return b.vertexCount }
func (b *BufferPair) IndexCount() int  { return b.indexCount }

// Bind sets both buffers on slot 0 of ctx.
func (b *BufferPair) Bind(ctx Context) {
	ctx.SetVertexBuffer(0, b.vertices.Get(), VertexStride, 0)
	ctx.SetIndexBuffer(b.indices.Get(), FormatR32Uint, 0)
}

func (b *BufferPair) Release() {
	b.indices.Release()
	b.vertices.Release()
}

package gfx

import (
	"unsafe"

	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/math3d"
)

// Vertex is the single vertex record used by every mesh. Fields the effect
// does not read are still uploaded.
type Vertex struct {
	Position math3d.Vector3
	Color    colors.ColorRGB
	UV       math3d.Vector2
	Normal   math3d.Vector3
	Tangent  math3d.Vector3
}

// VertexStride is the byte size of one Vertex.
const VertexStride = int(unsafe.Sizeof(Vertex{}))

// VertexLayout describes Vertex for input layout creation.
var VertexLayout = []InputElement{
	{Semantic: "POSITION", Format: FormatR32G32B32Float, Offset: int(unsafe.Offsetof(Vertex{}.Position))},
	{Semantic: "COLOR", Format: FormatR32G32B32Float, Offset: int(unsafe.Offsetof(Vertex{}.Color))},
	{Semantic: "TEXCOORD", Format: FormatR32G32Float, Offset: int(unsafe.Offsetof(Vertex{}.UV))},
	{Semantic: "NORMAL", Format: FormatR32G32B32Float, Offset: int(unsafe.Offsetof(Vertex{}.Normal))},
	{Semantic: "TANGENT", Format: FormatR32G32B32Float, Offset: int(unsafe.Offsetof(Vertex{}.Tangent))},
}

func vertexBytes(vs []Vertex) []byte {
	if len(vs) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vs[0])), len(vs)*VertexStride)
}

func indexBytes(ind []uint32) []byte {
	if len(ind) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&ind[0])), len(ind)*4)
}

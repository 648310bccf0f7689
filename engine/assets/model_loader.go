package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/g3n/engine/loader/obj"
	"github.com/hubastard/lumen/engine/errs"
	"github.com/hubastard/lumen/engine/math3d"
)

// ModelVertex is one unique corner of a loaded model.
type ModelVertex struct {
	Position math3d.Vector3
	UV       math3d.Vector2
	Normal   math3d.Vector3
	Tangent  math3d.Vector3
}

// Model is an indexed triangle list. Indices are zero-based.
type Model struct {
	Vertices []ModelVertex
	Indices  []uint32
}

// LoadOBJ reads root/models/rel. Faces are fan-triangulated, corners sharing
// the same position/uv/normal triple are merged, V is flipped to a top-left
// texture origin and per-vertex tangents are accumulated from the triangles.
func LoadOBJ(root, rel string) (Model, error) {
	path := filepath.Join(root, "models", rel)
	f, err := os.Open(path)
	if err != nil {
		return Model{}, errs.Wrap(err, errs.CouldNotOpenFile, "open %q", path)
	}
	defer f.Close()

	// materials are not used; an empty library keeps the decoder off the filesystem
	dec, err := obj.DecodeReader(f, strings.NewReader(""))
	if err != nil {
		return Model{}, errs.Wrap(err, errs.CouldNotOpenFile, "decode %q", path)
	}

	b := modelBuilder{dec: dec, unique: map[corner]uint32{}}
	for _, o := range dec.Objects {
		for _, face := range o.Faces {
			for i := 2; i < len(face.Vertices); i++ {
				b.add(face, 0)
				b.add(face, i-1)
				b.add(face, i)
			}
		}
	}
	b.computeTangents()
	return b.model, nil
}

type corner struct{ v, uv, n int }

type modelBuilder struct {
	dec    *obj.Decoder
	unique map[corner]uint32
	model  Model
}

func (b *modelBuilder) add(face obj.Face, i int) {
	key := corner{v: face.Vertices[i], uv: -1, n: -1}
	if i < len(face.Uvs) {
		key.uv = face.Uvs[i]
	}
	if i < len(face.Normals) {
		key.n = face.Normals[i]
	}
	if idx, ok := b.unique[key]; ok {
		b.model.Indices = append(b.model.Indices, idx)
		return
	}

	var v ModelVertex
	pos := b.dec.Vertices
	v.Position = math3d.Vec3(pos[key.v*3], pos[key.v*3+1], pos[key.v*3+2])
	if uvs := b.dec.Uvs; key.uv >= 0 && key.uv*2+1 < len(uvs) {
		v.UV = math3d.Vec2(uvs[key.uv*2], 1-uvs[key.uv*2+1])
	}
	if ns := b.dec.Normals; key.n >= 0 && key.n*3+2 < len(ns) {
		v.Normal = math3d.Vec3(ns[key.n*3], ns[key.n*3+1], ns[key.n*3+2])
	}

	idx := uint32(len(b.model.Vertices))
	b.model.Vertices = append(b.model.Vertices, v)
	b.unique[key] = idx
	b.model.Indices = append(b.model.Indices, idx)
}

func (b *modelBuilder) computeTangents() {
	vs := b.model.Vertices
	ind := b.model.Indices
	for i := 0; i+2 < len(ind); i += 3 {
		i0, i1, i2 := ind[i], ind[i+1], ind[i+2]
		e1 := vs[i1].Position.Sub(vs[i0].Position)
		e2 := vs[i2].Position.Sub(vs[i0].Position)
		d1 := vs[i1].UV.Sub(vs[i0].UV)
		d2 := vs[i2].UV.Sub(vs[i0].UV)

		det := d1.X*d2.Y - d2.X*d1.Y
		if det == 0 {
			continue
		}
		r := 1 / det
		t := e1.MulScalar(d2.Y).Sub(e2.MulScalar(d1.Y)).MulScalar(r)
		vs[i0].Tangent = vs[i0].Tangent.Add(t)
		vs[i1].Tangent = vs[i1].Tangent.Add(t)
		vs[i2].Tangent = vs[i2].Tangent.Add(t)
	}

	// Gram-Schmidt against the normal; vertices without a usable tangent keep zero
	for i := range vs {
		n, t := vs[i].Normal, vs[i].Tangent
		if n.SqrMagnitude() == 0 || t.SqrMagnitude() == 0 {
			continue
		}
		t = t.Reject(n)
		if t.SqrMagnitude() == 0 {
			continue
		}
		vs[i].Tangent = t.Normalized()
	}
}

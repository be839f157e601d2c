package dcel

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// UpdateFaceNormals sets each triangular face's unit normal from its
// winding.
func (m *Mesh) UpdateFaceNormals() {
	for id, f := range m.Faces() {
		t := sdf.Triangle3(m.Triangle(id))
		f.Normal = t.Normal()
	}
}

// UpdateVertexNormals sets each vertex normal to the area-weighted average
// of its incident face normals. Isolated vertices get a zero normal.
func (m *Mesh) UpdateVertexNormals() {
	for _, v := range m.Vertices() {
		v.Normal = v3.Vec{}
	}
	for id := range m.Faces() {
		p := m.Triangle(id)
		// The unnormalized cross product weighs by twice the area.
		n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		for _, vid := range m.TriangleVertices(id) {
			v := m.Vertex(vid)
			v.Normal = v.Normal.Add(n)
		}
	}
	for _, v := range m.Vertices() {
		if v.Normal.Length() > 0 {
			v.Normal = v.Normal.Normalize()
		}
	}
}

// UpdateBoundingBox recomputes the axis-aligned box of all vertices. An
// empty mesh gets the zero box.
func (m *Mesh) UpdateBoundingBox() {
	first := true
	var bb sdf.Box3
	for _, v := range m.Vertices() {
		if first {
			bb = sdf.Box3{Min: v.Point, Max: v.Point}
			first = false
			continue
		}
		bb.Min = bb.Min.Min(v.Point)
		bb.Max = bb.Max.Max(v.Point)
	}
	m.bbox = bb
}

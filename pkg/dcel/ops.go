package dcel

import (
	"fmt"

	"github.com/chazu/hull3d/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MakeTriangle adds the face a, b, c with half-edges a->b, b->c, c->a linked
// by Next and Prev. Twins are left nil. Each vertex's incident half-edge is
// set to the new half-edge leaving it.
func (m *Mesh) MakeTriangle(a, b, c VertexID) (FaceID, [3]HalfEdgeID) {
	f := m.AddFace()
	verts := [3]VertexID{a, b, c}
	var es [3]HalfEdgeID
	for i := range es {
		es[i] = m.AddHalfEdge()
	}
	for i, id := range es {
		e := m.HalfEdge(id)
		e.From = verts[i]
		e.To = verts[(i+1)%3]
		e.Next = es[(i+1)%3]
		e.Prev = es[(i+2)%3]
		e.Face = f
		m.Vertex(verts[i]).HalfEdge = id
	}
	m.Face(f).HalfEdge = es[0]
	return f, es
}

// SetTwins pairs two half-edges.
func (m *Mesh) SetTwins(a, b HalfEdgeID) {
	m.HalfEdge(a).Twin = b
	m.HalfEdge(b).Twin = a
}

// LinkTwins pairs every half-edge that has no twin with the half-edge
// running the opposite way between the same vertices. It returns the number
// of half-edges left without a partner.
func (m *Mesh) LinkTwins() int {
	type key struct{ from, to VertexID }
	open := make(map[key]HalfEdgeID)
	for id, e := range m.HalfEdges() {
		if !e.Twin.IsNil() {
			continue
		}
		if t, ok := open[key{e.To, e.From}]; ok {
			m.SetTwins(id, t)
			delete(open, key{e.To, e.From})
			continue
		}
		open[key{e.From, e.To}] = id
	}
	return len(open)
}

// FaceHalfEdges returns the half-edges bounding f, starting at its recorded
// half-edge and following Next. It panics if the cycle does not close.
func (m *Mesh) FaceHalfEdges(f FaceID) []HalfEdgeID {
	start := m.Face(f).HalfEdge
	out := []HalfEdgeID{start}
	limit := m.NumHalfEdges()
	for cur := m.HalfEdge(start).Next; cur != start; cur = m.HalfEdge(cur).Next {
		out = append(out, cur)
		if len(out) > limit {
			panic(fmt.Sprintf("dcel: face %v boundary does not close", f))
		}
	}
	return out
}

// FaceVertices returns the vertices of f in boundary order.
func (m *Mesh) FaceVertices(f FaceID) []VertexID {
	es := m.FaceHalfEdges(f)
	out := make([]VertexID, len(es))
	for i, e := range es {
		out[i] = m.HalfEdge(e).From
	}
	return out
}

// TriangleVertices returns the three vertices of a triangular face without
// allocating. The result is meaningless for faces of other degrees.
func (m *Mesh) TriangleVertices(f FaceID) [3]VertexID {
	e0 := m.HalfEdge(m.Face(f).HalfEdge)
	e1 := m.HalfEdge(e0.Next)
	return [3]VertexID{e0.From, e1.From, e1.To}
}

// Triangle returns the corner points of a triangular face.
func (m *Mesh) Triangle(f FaceID) [3]geom.Point {
	vs := m.TriangleVertices(f)
	return [3]geom.Point{
		m.Vertex(vs[0]).Point,
		m.Vertex(vs[1]).Point,
		m.Vertex(vs[2]).Point,
	}
}

// Points returns the vertex coordinates in index order.
func (m *Mesh) Points() []geom.Point {
	out := make([]geom.Point, 0, m.NumVertices())
	for _, v := range m.Vertices() {
		out = append(out, v.Point)
	}
	return out
}

// Translate moves every vertex by d.
func (m *Mesh) Translate(d v3.Vec) {
	for _, v := range m.Vertices() {
		v.Point = v.Point.Add(d)
	}
	if !m.IsEmpty() {
		m.bbox.Min = m.bbox.Min.Add(d)
		m.bbox.Max = m.bbox.Max.Add(d)
	}
}

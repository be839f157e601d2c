// Package dcel implements a half-edge (doubly connected edge list) mesh.
//
// Vertices, half-edges and faces live in three independent arenas and are
// addressed through generation-checked handles. Deleting an element never
// renumbers the others, so a handle stays valid until its own element is
// deleted or the mesh is compacted. Dereferencing a stale handle panics.
//
// Deletion does not repair references held by other elements. Callers
// remove a face's half-edges before the face and orphaned vertices last.
package dcel

import (
	"fmt"
	"iter"

	"github.com/chazu/hull3d/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a mesh vertex.
type Vertex struct {
	Point geom.Point
	// Flag is free for the caller. The hull builder stores the input index
	// of the point here.
	Flag     int
	Normal   v3.Vec
	HalfEdge HalfEdgeID // one half-edge leaving this vertex
}

// HalfEdge is one directed side of an edge, bounding a single face.
type HalfEdge struct {
	From, To VertexID
	Twin     HalfEdgeID
	Next     HalfEdgeID
	Prev     HalfEdgeID
	Face     FaceID
}

// Face is a mesh face.
type Face struct {
	HalfEdge HalfEdgeID // one bounding half-edge
	Normal   v3.Vec
	Color    string
}

// Mesh is a half-edge mesh.
type Mesh struct {
	vertices  arena[Vertex]
	halfEdges arena[HalfEdge]
	faces     arena[Face]
	bbox      sdf.Box3
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// AddVertex appends a vertex at p.
func (m *Mesh) AddVertex(p geom.Point) VertexID {
	return VertexID(m.vertices.add(&Vertex{Point: p}))
}

// AddHalfEdge appends an unlinked half-edge. The caller fills its fields.
func (m *Mesh) AddHalfEdge() HalfEdgeID {
	return HalfEdgeID(m.halfEdges.add(&HalfEdge{}))
}

// AddFace appends an unlinked face. The caller fills its fields.
func (m *Mesh) AddFace() FaceID {
	return FaceID(m.faces.add(&Face{}))
}

// DeleteVertex removes a vertex. It panics if id is stale.
func (m *Mesh) DeleteVertex(id VertexID) {
	if !m.vertices.remove(handle(id)) {
		panic(fmt.Sprintf("dcel: delete of stale vertex %v", id))
	}
}

// DeleteHalfEdge removes a half-edge. It panics if id is stale.
func (m *Mesh) DeleteHalfEdge(id HalfEdgeID) {
	if !m.halfEdges.remove(handle(id)) {
		panic(fmt.Sprintf("dcel: delete of stale half-edge %v", id))
	}
}

// DeleteFace removes a face. It panics if id is stale.
func (m *Mesh) DeleteFace(id FaceID) {
	if !m.faces.remove(handle(id)) {
		panic(fmt.Sprintf("dcel: delete of stale face %v", id))
	}
}

// Vertex returns the vertex for id. The pointer stays valid until the vertex
// is deleted. It panics if id is stale.
func (m *Mesh) Vertex(id VertexID) *Vertex {
	v, ok := m.vertices.get(handle(id))
	if !ok {
		panic(fmt.Sprintf("dcel: stale vertex %v", id))
	}
	return v
}

// HalfEdge returns the half-edge for id. It panics if id is stale.
func (m *Mesh) HalfEdge(id HalfEdgeID) *HalfEdge {
	e, ok := m.halfEdges.get(handle(id))
	if !ok {
		panic(fmt.Sprintf("dcel: stale half-edge %v", id))
	}
	return e
}

// Face returns the face for id. It panics if id is stale.
func (m *Mesh) Face(id FaceID) *Face {
	f, ok := m.faces.get(handle(id))
	if !ok {
		panic(fmt.Sprintf("dcel: stale face %v", id))
	}
	return f
}

// HasVertex reports whether id refers to a live vertex.
func (m *Mesh) HasVertex(id VertexID) bool {
	_, ok := m.vertices.get(handle(id))
	return ok
}

// HasHalfEdge reports whether id refers to a live half-edge.
func (m *Mesh) HasHalfEdge(id HalfEdgeID) bool {
	_, ok := m.halfEdges.get(handle(id))
	return ok
}

// HasFace reports whether id refers to a live face.
func (m *Mesh) HasFace(id FaceID) bool {
	_, ok := m.faces.get(handle(id))
	return ok
}

// NumVertices returns the number of live vertices.
func (m *Mesh) NumVertices() int { return m.vertices.live }

// NumHalfEdges returns the number of live half-edges.
func (m *Mesh) NumHalfEdges() int { return m.halfEdges.live }

// NumFaces returns the number of live faces.
func (m *Mesh) NumFaces() int { return m.faces.live }

// IsEmpty reports whether the mesh has no vertices.
func (m *Mesh) IsEmpty() bool { return m.vertices.live == 0 }

// Vertices iterates live vertices in index order.
func (m *Mesh) Vertices() iter.Seq2[VertexID, *Vertex] {
	return func(yield func(VertexID, *Vertex) bool) {
		for h, v := range m.vertices.all() {
			if !yield(VertexID(h), v) {
				return
			}
		}
	}
}

// HalfEdges iterates live half-edges in index order.
func (m *Mesh) HalfEdges() iter.Seq2[HalfEdgeID, *HalfEdge] {
	return func(yield func(HalfEdgeID, *HalfEdge) bool) {
		for h, e := range m.halfEdges.all() {
			if !yield(HalfEdgeID(h), e) {
				return
			}
		}
	}
}

// Faces iterates live faces in index order.
func (m *Mesh) Faces() iter.Seq2[FaceID, *Face] {
	return func(yield func(FaceID, *Face) bool) {
		for h, f := range m.faces.all() {
			if !yield(FaceID(h), f) {
				return
			}
		}
	}
}

// BoundingBox returns the box computed by the last UpdateBoundingBox.
func (m *Mesh) BoundingBox() sdf.Box3 {
	return m.bbox
}

// Clone returns a deep copy. Handles into m are valid against the copy.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		vertices:  m.vertices.clone(),
		halfEdges: m.halfEdges.clone(),
		faces:     m.faces.clone(),
		bbox:      m.bbox,
	}
}

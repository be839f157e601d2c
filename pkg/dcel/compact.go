package dcel

// Remap maps handles issued before a Compact to their replacements. Handles
// of elements that were already deleted have no entry.
type Remap struct {
	Vertices  map[VertexID]VertexID
	HalfEdges map[HalfEdgeID]HalfEdgeID
	Faces     map[FaceID]FaceID
}

// Compact renumbers every arena densely. The element at index i moves to
// i minus the number of deleted elements of its kind below i, and every
// reference stored in the mesh is rewritten. All handles issued before the
// call become stale; translate them through the returned Remap. References
// to elements that were deleted become nil.
func (m *Mesh) Compact() Remap {
	r := Remap{
		Vertices:  make(map[VertexID]VertexID, m.vertices.live),
		HalfEdges: make(map[HalfEdgeID]HalfEdgeID, m.halfEdges.live),
		Faces:     make(map[FaceID]FaceID, m.faces.live),
	}
	for _, mv := range m.vertices.compact() {
		r.Vertices[VertexID(mv.from)] = VertexID(mv.to)
	}
	for _, mv := range m.halfEdges.compact() {
		r.HalfEdges[HalfEdgeID(mv.from)] = HalfEdgeID(mv.to)
	}
	for _, mv := range m.faces.compact() {
		r.Faces[FaceID(mv.from)] = FaceID(mv.to)
	}

	for _, v := range m.Vertices() {
		v.HalfEdge = r.HalfEdges[v.HalfEdge]
	}
	for _, e := range m.HalfEdges() {
		e.From = r.Vertices[e.From]
		e.To = r.Vertices[e.To]
		e.Twin = r.HalfEdges[e.Twin]
		e.Next = r.HalfEdges[e.Next]
		e.Prev = r.HalfEdges[e.Prev]
		e.Face = r.Faces[e.Face]
	}
	for _, f := range m.Faces() {
		f.HalfEdge = r.HalfEdges[f.HalfEdge]
	}
	return r
}

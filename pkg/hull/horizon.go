package hull

import (
	"github.com/chazu/hull3d/pkg/dcel"
	"github.com/chazu/hull3d/pkg/geom"
)

// horizon returns the boundary of the visible region as a closed chain of
// half-edges on visible faces whose twins lie on hidden faces. Consecutive
// entries share a vertex: horizon[i].To == horizon[i+1].From, wrapping
// around at the end. The region lies to the left of the chain.
func (b *Builder) horizon(p geom.Point, visible []dcel.FaceID, isVisible map[dcel.FaceID]bool) []dcel.HalfEdgeID {
	m := b.mesh
	seed := dcel.HalfEdgeID{}
	for _, f := range visible {
		for _, e := range m.FaceHalfEdges(f) {
			if !isVisible[m.HalfEdge(m.HalfEdge(e).Twin).Face] {
				seed = e
				break
			}
		}
		if !seed.IsNil() {
			break
		}
	}
	if seed.IsNil() {
		panic(&InvariantError{Point: p, Message: "no visible face borders a hidden face"})
	}

	// Every step lands on a half-edge of a visible face, each at most once.
	limit := 3*len(visible) + 1
	var out []dcel.HalfEdgeID
	cur := seed
	for steps := 0; ; steps++ {
		if steps > limit {
			panic(&InvariantError{Point: p, Message: "horizon walk does not close"})
		}
		e := m.HalfEdge(cur)
		if isVisible[m.HalfEdge(e.Twin).Face] {
			// Pivot across the shared edge, staying around the same vertex.
			cur = m.HalfEdge(e.Twin).Next
		} else {
			out = append(out, cur)
			cur = e.Next
		}
		if cur == seed {
			return out
		}
	}
}

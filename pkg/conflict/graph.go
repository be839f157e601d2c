// Package conflict implements the bipartite conflict graph used by the
// incremental hull: left nodes are points not yet on the hull, right nodes
// are hull faces, and an arc (p, f) records that p sees f.
package conflict

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/chazu/hull3d/pkg/dcel"
	"github.com/chazu/hull3d/pkg/geom"
	"github.com/samber/lo"
)

type leftNode struct {
	point geom.Point
	seq   int // position in insertion order
	arcs  map[dcel.FaceID]struct{}
}

// Graph is a bipartite conflict graph. Faces are keyed by their mesh handle,
// so deleting one face never disturbs the keys of the others.
//
// The zero value is not usable; call New.
type Graph struct {
	left  map[geom.Point]*leftNode
	order []*leftNode // insertion order, nil once deleted
	right map[dcel.FaceID]map[geom.Point]struct{}
	arcs  int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		left:  make(map[geom.Point]*leftNode),
		right: make(map[dcel.FaceID]map[geom.Point]struct{}),
	}
}

// AddLeftNode registers p with no arcs. It reports false if p is already
// present.
func (g *Graph) AddLeftNode(p geom.Point) bool {
	if _, ok := g.left[p]; ok {
		return false
	}
	n := &leftNode{point: p, seq: len(g.order), arcs: make(map[dcel.FaceID]struct{})}
	g.left[p] = n
	g.order = append(g.order, n)
	return true
}

// AddRightNode registers face f with no arcs. It reports false if f is
// already present.
func (g *Graph) AddRightNode(f dcel.FaceID) bool {
	if _, ok := g.right[f]; ok {
		return false
	}
	g.right[f] = make(map[geom.Point]struct{})
	return true
}

// AddArc records that p sees f. Adding an existing arc is a no-op. Both
// nodes must exist.
func (g *Graph) AddArc(p geom.Point, f dcel.FaceID) {
	n, ok := g.left[p]
	if !ok {
		panic(fmt.Sprintf("conflict: arc from unknown point %s", geom.Format(p)))
	}
	pts, ok := g.right[f]
	if !ok {
		panic(fmt.Sprintf("conflict: arc to unknown face %v", f))
	}
	if _, dup := n.arcs[f]; dup {
		return
	}
	n.arcs[f] = struct{}{}
	pts[p] = struct{}{}
	g.arcs++
}

// DeleteArc removes the arc (p, f) if present.
func (g *Graph) DeleteArc(p geom.Point, f dcel.FaceID) {
	n, ok := g.left[p]
	if !ok {
		return
	}
	if _, ok := n.arcs[f]; !ok {
		return
	}
	delete(n.arcs, f)
	delete(g.right[f], p)
	g.arcs--
}

// DeleteLeftNode removes p and all its arcs.
func (g *Graph) DeleteLeftNode(p geom.Point) {
	n, ok := g.left[p]
	if !ok {
		return
	}
	for f := range n.arcs {
		delete(g.right[f], p)
	}
	g.arcs -= len(n.arcs)
	g.order[n.seq] = nil
	delete(g.left, p)
}

// DeleteRightNode removes face f and every arc touching it.
func (g *Graph) DeleteRightNode(f dcel.FaceID) {
	pts, ok := g.right[f]
	if !ok {
		return
	}
	for p := range pts {
		delete(g.left[p].arcs, f)
	}
	g.arcs -= len(pts)
	delete(g.right, f)
}

// HasLeftNode reports whether p is registered.
func (g *Graph) HasLeftNode(p geom.Point) bool {
	_, ok := g.left[p]
	return ok
}

// HasRightNode reports whether f is registered.
func (g *Graph) HasRightNode(f dcel.FaceID) bool {
	_, ok := g.right[f]
	return ok
}

// SizeAdjacencesLeftNode returns the number of faces p sees. Unknown points
// see nothing.
func (g *Graph) SizeAdjacencesLeftNode(p geom.Point) int {
	n, ok := g.left[p]
	if !ok {
		return 0
	}
	return len(n.arcs)
}

// SizeAdjacencesRightNode returns the number of points that see f.
func (g *Graph) SizeAdjacencesRightNode(f dcel.FaceID) int {
	return len(g.right[f])
}

// AdjacentLeftNode returns the faces p sees, ordered by face index.
func (g *Graph) AdjacentLeftNode(p geom.Point) []dcel.FaceID {
	n, ok := g.left[p]
	if !ok {
		return nil
	}
	faces := lo.Keys(n.arcs)
	slices.SortFunc(faces, dcel.FaceID.Compare)
	return faces
}

// AdjacentRightNode returns the points that see f, ordered by coordinate.
func (g *Graph) AdjacentRightNode(f dcel.FaceID) []geom.Point {
	pts := lo.Keys(g.right[f])
	slices.SortFunc(pts, geom.Compare)
	return pts
}

// PointsSeeing iterates the points that see f in no particular order.
func (g *Graph) PointsSeeing(f dcel.FaceID) iter.Seq[geom.Point] {
	return maps.Keys(g.right[f])
}

// LeftNodes iterates the registered points in insertion order. Points
// deleted during iteration are skipped once reached; points added during
// iteration are visited.
func (g *Graph) LeftNodes() iter.Seq[geom.Point] {
	return func(yield func(geom.Point) bool) {
		for i := 0; i < len(g.order); i++ {
			n := g.order[i]
			if n == nil {
				continue
			}
			if !yield(n.point) {
				return
			}
		}
	}
}

// NumLeftNodes returns the number of registered points.
func (g *Graph) NumLeftNodes() int { return len(g.left) }

// NumRightNodes returns the number of registered faces.
func (g *Graph) NumRightNodes() int { return len(g.right) }

// NumArcs returns the number of arcs.
func (g *Graph) NumArcs() int { return g.arcs }

// Remap rekeys right nodes after the mesh they mirror was compacted. Faces
// missing from faces are dropped with their arcs.
func (g *Graph) Remap(faces map[dcel.FaceID]dcel.FaceID) {
	right := make(map[dcel.FaceID]map[geom.Point]struct{}, len(g.right))
	for old, pts := range g.right {
		nw, ok := faces[old]
		if !ok {
			g.arcs -= len(pts)
			for p := range pts {
				delete(g.left[p].arcs, old)
			}
			continue
		}
		right[nw] = pts
	}
	g.right = right
	for _, n := range g.left {
		arcs := make(map[dcel.FaceID]struct{}, len(n.arcs))
		for f := range n.arcs {
			arcs[faces[f]] = struct{}{}
		}
		n.arcs = arcs
	}
}

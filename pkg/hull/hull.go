// Package hull computes 3D convex hulls by randomized incremental
// construction over a half-edge mesh and a conflict graph.
//
// The builder starts from a tetrahedron of four input points and inserts
// the remaining points one at a time in a shuffled order. Each pending point
// keeps the set of hull faces it sees; a point that sees no face is inside
// the current hull and is dropped for good. Inserting a point removes the
// faces it sees and fans new triangles from it to the horizon, and only the
// points that saw one of the two faces on a horizon edge are retested
// against the new triangle on that edge.
package hull

import (
	"math/rand/v2"
	"slices"

	"github.com/chazu/hull3d/pkg/conflict"
	"github.com/chazu/hull3d/pkg/dcel"
	"github.com/chazu/hull3d/pkg/geom"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Stats counts the work done by the last Build.
type Stats struct {
	Points       int // input points, duplicates included
	Distinct     int // distinct input coordinates
	Duplicates   int // repeated coordinates, Points - Distinct
	Inserted     int // points that became hull vertices, seed included
	Discarded    int // points found inside the hull
	FacesCreated int
	FacesDeleted int
	MaxHorizon   int // longest horizon seen
}

// Builder computes convex hulls. A Builder is not safe for concurrent use;
// successive Build calls share its random source.
type Builder struct {
	opts  options
	pred  geom.Predicate
	rng   *rand.Rand
	log   *zap.Logger
	mesh  *dcel.Mesh
	graph *conflict.Graph
	index map[geom.Point]int // first input index of each coordinate
	stats Stats
}

// New returns a Builder configured by opts.
func New(opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	rng := o.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(o.seed, o.seed))
	}
	return &Builder{
		opts: o,
		pred: geom.Predicate{Epsilon: o.epsilon},
		rng:  rng,
		log:  o.logger,
	}
}

// ConvexHull computes the hull of points with a new Builder.
func ConvexHull(points []geom.Point, opts ...Option) (*dcel.Mesh, error) {
	return New(opts...).Build(points)
}

// FromMesh computes the hull of the vertices of m.
func FromMesh(m *dcel.Mesh, opts ...Option) (*dcel.Mesh, error) {
	return ConvexHull(m.Points(), opts...)
}

// Stats returns the counters of the last Build.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Build returns the convex hull of points as a closed triangle mesh with
// outward-wound faces, dense handles, and up-to-date normals and bounding
// box. Each vertex's Flag holds the index of the first input point with its
// coordinates.
//
// Fewer than four input points give an empty mesh and no error, whatever
// their coordinates. Otherwise NaN or infinite coordinates give
// ErrNonFiniteInput and input whose points span no volume gives
// ErrDegenerateInput.
func (b *Builder) Build(points []geom.Point) (*dcel.Mesh, error) {
	b.mesh = dcel.New()
	b.graph = conflict.New()
	b.index = make(map[geom.Point]int, len(points))
	b.stats = Stats{Points: len(points)}

	if len(points) < 4 {
		b.stats.Distinct = len(lo.Uniq(points))
		b.stats.Duplicates = b.stats.Points - b.stats.Distinct
		b.log.Debug("too few points for a hull", zap.Int("points", len(points)))
		return b.mesh, nil
	}

	var distinct []geom.Point
	for i, p := range points {
		if !geom.IsFinite(p) {
			return nil, errors.Wrapf(ErrNonFiniteInput, "point %d %s", i, geom.Format(p))
		}
		if _, seen := b.index[p]; !seen {
			b.index[p] = i
			distinct = append(distinct, p)
		}
	}
	b.stats.Distinct = len(distinct)
	b.stats.Duplicates = b.stats.Points - b.stats.Distinct

	seed, err := b.pickSeed(distinct)
	if err != nil {
		return nil, err
	}
	faces := b.buildTetrahedron(distinct[seed[0]], distinct[seed[1]], distinct[seed[2]], distinct[seed[3]])
	b.stats.Inserted = 4

	rest := make([]geom.Point, 0, len(distinct)-4)
	for i, p := range distinct {
		if !slices.Contains(seed[:], i) {
			rest = append(rest, p)
		}
	}
	b.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	for _, p := range rest {
		b.graph.AddLeftNode(p)
		for _, f := range faces {
			if b.sees(p, f) {
				b.graph.AddArc(p, f)
			}
		}
	}

	for p := range b.graph.LeftNodes() {
		if b.graph.SizeAdjacencesLeftNode(p) == 0 {
			b.graph.DeleteLeftNode(p)
			b.stats.Discarded++
			continue
		}
		b.insert(p)
		if b.opts.validate {
			b.check(p)
		}
	}

	b.mesh.UpdateFaceNormals()
	b.mesh.UpdateVertexNormals()
	b.mesh.UpdateBoundingBox()
	b.graph.Remap(b.mesh.Compact().Faces)

	b.log.Info("convex hull built",
		zap.Int("points", b.stats.Points),
		zap.Int("vertices", b.mesh.NumVertices()),
		zap.Int("faces", b.mesh.NumFaces()),
		zap.Int("discarded", b.stats.Discarded),
		zap.Int("duplicates", b.stats.Duplicates),
		zap.Int("max_horizon", b.stats.MaxHorizon),
	)
	return b.mesh, nil
}

// sees reports whether p is strictly in front of face f.
func (b *Builder) sees(p geom.Point, f dcel.FaceID) bool {
	t := b.mesh.Triangle(f)
	return b.pred.Visible(t[0], t[1], t[2], p)
}

// insert adds p, which sees at least one face, as a new hull vertex.
func (b *Builder) insert(p geom.Point) {
	m, g := b.mesh, b.graph

	visible := g.AdjacentLeftNode(p)
	isVisible := make(map[dcel.FaceID]bool, len(visible))
	for _, f := range visible {
		isVisible[f] = true
	}
	horizon := b.horizon(p, visible, isVisible)

	// Capture everything needed from the doomed faces before deleting them.
	type wedge struct {
		from, to   dcel.VertexID
		outer      dcel.HalfEdgeID
		candidates []geom.Point
	}
	wedges := make([]wedge, len(horizon))
	onHorizon := make(map[dcel.VertexID]bool, len(horizon))
	candidates := 0
	for i, id := range horizon {
		e := m.HalfEdge(id)
		outer := m.HalfEdge(e.Twin)
		seeing := make(map[geom.Point]struct{},
			g.SizeAdjacencesRightNode(e.Face)+g.SizeAdjacencesRightNode(outer.Face))
		for _, f := range [2]dcel.FaceID{e.Face, outer.Face} {
			for q := range g.PointsSeeing(f) {
				seeing[q] = struct{}{}
			}
		}
		delete(seeing, p)
		wedges[i] = wedge{
			from:       e.From,
			to:         e.To,
			outer:      e.Twin,
			candidates: lo.Keys(seeing),
		}
		onHorizon[e.From] = true
		candidates += len(wedges[i].candidates)
	}

	g.DeleteLeftNode(p)

	doomed := make(map[dcel.VertexID]bool)
	for _, f := range visible {
		for _, e := range m.FaceHalfEdges(f) {
			if v := m.HalfEdge(e).From; !onHorizon[v] {
				doomed[v] = true
			}
			m.DeleteHalfEdge(e)
		}
		g.DeleteRightNode(f)
		m.DeleteFace(f)
	}
	gone := lo.Keys(doomed)
	slices.SortFunc(gone, dcel.VertexID.Compare)
	for _, v := range gone {
		m.DeleteVertex(v)
	}

	vp := b.addVertex(p)
	first, prev := dcel.HalfEdgeID{}, dcel.HalfEdgeID{}
	for i, w := range wedges {
		f, es := m.MakeTriangle(w.from, w.to, vp)
		m.SetTwins(es[0], w.outer)
		if i == 0 {
			first = es[2]
		} else {
			m.SetTwins(prev, es[2])
		}
		prev = es[1]

		g.AddRightNode(f)
		for _, q := range w.candidates {
			if b.sees(q, f) {
				g.AddArc(q, f)
			}
		}
	}
	m.SetTwins(prev, first)

	b.stats.Inserted++
	b.stats.FacesDeleted += len(visible)
	b.stats.FacesCreated += len(wedges)
	b.stats.MaxHorizon = max(b.stats.MaxHorizon, len(horizon))
	b.log.Debug("inserted point",
		zap.String("point", geom.Format(p)),
		zap.Int("visible", len(visible)),
		zap.Int("horizon", len(horizon)),
		zap.Int("removed_vertices", len(gone)),
		zap.Int("candidates", candidates),
	)
}

// check validates the mesh and the face bookkeeping after inserting p.
func (b *Builder) check(p geom.Point) {
	if errs := dcel.Validate(b.mesh); len(errs) > 0 {
		panic(&InvariantError{Point: p, Message: errs[0].Error()})
	}
	if b.graph.NumRightNodes() != b.mesh.NumFaces() {
		panic(&InvariantError{Point: p, Message: "conflict graph and mesh disagree on the face set"})
	}
	for f := range b.mesh.Faces() {
		if !b.graph.HasRightNode(f) {
			panic(&InvariantError{Point: p, Message: "face " + f.String() + " missing from conflict graph"})
		}
	}
}

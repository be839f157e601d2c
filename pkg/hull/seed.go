package hull

import (
	"github.com/chazu/hull3d/pkg/dcel"
	"github.com/chazu/hull3d/pkg/geom"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// pickSeed returns the indices into pts of four points that span a volume.
// Random quadruples are tried first; if none works the points are scanned
// in order for the first distinct, non-collinear and non-coplanar picks.
func (b *Builder) pickSeed(pts []geom.Point) ([4]int, error) {
	n := len(pts)
	for attempt := 0; attempt < b.opts.maxSeedAttempts; attempt++ {
		q := [4]int{b.rng.IntN(n), b.rng.IntN(n), b.rng.IntN(n), b.rng.IntN(n)}
		if q[0] == q[1] || q[0] == q[2] || q[0] == q[3] ||
			q[1] == q[2] || q[1] == q[3] || q[2] == q[3] {
			continue
		}
		if b.pred.Orientation(pts[q[0]], pts[q[1]], pts[q[2]], pts[q[3]]) != geom.Zero {
			b.log.Debug("seed tetrahedron found by sampling", zap.Int("attempts", attempt+1))
			return q, nil
		}
	}
	return b.scanSeed(pts)
}

func (b *Builder) scanSeed(pts []geom.Point) ([4]int, error) {
	// pts holds distinct points, so the first two always differ.
	if len(pts) < 2 {
		return [4]int{}, errors.Wrap(ErrDegenerateInput, "all points coincide")
	}
	k := -1
	for i := 2; i < len(pts); i++ {
		if !b.pred.Collinear(pts[0], pts[1], pts[i]) {
			k = i
			break
		}
	}
	if k < 0 {
		return [4]int{}, errors.Wrap(ErrDegenerateInput, "all points are collinear")
	}
	for i := 2; i < len(pts); i++ {
		if i == k {
			continue
		}
		if b.pred.Orientation(pts[0], pts[1], pts[k], pts[i]) != geom.Zero {
			b.log.Debug("seed tetrahedron found by scan")
			return [4]int{0, 1, k, i}, nil
		}
	}
	return [4]int{}, errors.Wrap(ErrDegenerateInput, "all points are coplanar")
}

// buildTetrahedron materializes the seed as four outward-wound faces and
// registers them with the conflict graph.
func (b *Builder) buildTetrahedron(a, c1, c2, d geom.Point) [4]dcel.FaceID {
	// Orient so that d is behind abc; then every face below faces outward.
	if b.pred.Orientation(a, c1, c2, d) == geom.Negative {
		c1, c2 = c2, c1
	}
	va := b.addVertex(a)
	vb := b.addVertex(c1)
	vc := b.addVertex(c2)
	vd := b.addVertex(d)

	var faces [4]dcel.FaceID
	faces[0], _ = b.mesh.MakeTriangle(va, vb, vc)
	faces[1], _ = b.mesh.MakeTriangle(va, vc, vd)
	faces[2], _ = b.mesh.MakeTriangle(va, vd, vb)
	faces[3], _ = b.mesh.MakeTriangle(vb, vd, vc)
	if open := b.mesh.LinkTwins(); open != 0 {
		panic(&InvariantError{Point: a, Message: "seed tetrahedron is not closed"})
	}
	for _, f := range faces {
		b.graph.AddRightNode(f)
	}
	b.stats.FacesCreated += 4
	b.log.Debug("seed tetrahedron",
		zap.String("a", geom.Format(a)),
		zap.String("b", geom.Format(c1)),
		zap.String("c", geom.Format(c2)),
		zap.String("d", geom.Format(d)),
	)
	return faces
}

func (b *Builder) addVertex(p geom.Point) dcel.VertexID {
	v := b.mesh.AddVertex(p)
	b.mesh.Vertex(v).Flag = b.index[p]
	return v
}

// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Hulls are built exactly
// by pkg/hull and evaluated as signed distance fields so they compose
// with the rest of sdfx.
package sdfx

import (
	"math"

	"github.com/chazu/hull3d/pkg/dcel"
	"github.com/chazu/hull3d/pkg/geom"
	"github.com/chazu/hull3d/pkg/hull"
	"github.com/chazu/hull3d/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*SdfxKernel)(nil)
	_ sdf.SDF3      = (*hullSDF)(nil)
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid. When the solid is
// a bare hull, or a rigid motion of one, mesh keeps the exact triangles.
type sdfxSolid struct {
	s    sdf.SDF3
	mesh *dcel.Mesh
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	if s.mesh != nil {
		bb = s.mesh.BoundingBox()
	}
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// plane is n·p = d with unit n pointing out of the hull.
type plane struct {
	n v3.Vec
	d float64
}

// hullSDF evaluates a convex polytope as the maximum of its face plane
// distances. The value is exact inside and a lower bound outside, which is
// enough for marching cubes.
type hullSDF struct {
	planes []plane
	bb     sdf.Box3
}

func newHullSDF(m *dcel.Mesh) *hullSDF {
	h := &hullSDF{bb: m.BoundingBox()}
	for id, f := range m.Faces() {
		p := m.Triangle(id)
		h.planes = append(h.planes, plane{n: f.Normal, d: f.Normal.Dot(p[0])})
	}
	return h
}

// Evaluate returns the signed distance from p to the hull surface.
func (h *hullSDF) Evaluate(p v3.Vec) float64 {
	d := math.Inf(-1)
	for _, pl := range h.planes {
		d = math.Max(d, pl.n.Dot(p)-pl.d)
	}
	return d
}

// BoundingBox returns the hull's axis-aligned box.
func (h *hullSDF) BoundingBox() sdf.Box3 {
	return h.bb
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	hullOpts  []hull.Option
	meshCells int
}

// New returns a new SdfxKernel. The options are passed to every hull
// build.
func New(opts ...hull.Option) *SdfxKernel {
	return &SdfxKernel{hullOpts: opts, meshCells: defaultMeshCells}
}

// WithMeshCells sets the marching cubes resolution used for composite
// solids and returns k.
func (k *SdfxKernel) WithMeshCells(cells int) *SdfxKernel {
	if cells > 0 {
		k.meshCells = cells
	}
	return k
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Hull builds the convex hull of points. Inputs with fewer than four points
// return kernel.ErrEmptyHull; degenerate inputs return the hull package's
// error.
func (k *SdfxKernel) Hull(points []geom.Point) (kernel.Solid, error) {
	m, err := hull.ConvexHull(points, k.hullOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "sdfx: hull")
	}
	if m.IsEmpty() {
		return nil, errors.Wrapf(kernel.ErrEmptyHull, "%d points", len(points))
	}
	return &sdfxSolid{s: newHullSDF(m), mesh: m}, nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := v3.Vec{X: x, Y: y, Z: z}
	return k.transform(s, sdf.Translate3d(d), func(m *dcel.Mesh) { m.Translate(d) })
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	mat := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return k.transform(s, mat, func(m *dcel.Mesh) {
		for _, v := range m.Vertices() {
			v.Point = mat.MulPosition(v.Point)
		}
		m.UpdateFaceNormals()
		m.UpdateVertexNormals()
		m.UpdateBoundingBox()
	})
}

// transform applies mat to the field and, for exact solids, applies move
// to a copy of the mesh.
func (k *SdfxKernel) transform(s kernel.Solid, mat sdf.M44, move func(*dcel.Mesh)) kernel.Solid {
	src := s.(*sdfxSolid)
	if src.mesh == nil {
		return wrap(sdf.Transform3D(src.s, mat))
	}
	m := src.mesh.Clone()
	move(m)
	return &sdfxSolid{s: newHullSDF(m), mesh: m}
}

// ToMesh converts a solid to a triangle mesh. Exact hulls export their
// faces directly with flat normals; composites go through marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	src, ok := s.(*sdfxSolid)
	if !ok {
		return nil, errors.Errorf("sdfx: foreign solid %T", s)
	}
	if src.mesh != nil {
		return exactMesh(src.mesh), nil
	}

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(src.s, renderer)

	out := &kernel.Mesh{
		Vertices: make([]float32, 0, len(triangles)*9),
		Normals:  make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for _, tri := range triangles {
		appendTriangle(out, [3]v3.Vec{tri[0], tri[1], tri[2]}, tri.Normal())
	}
	return out, nil
}

func exactMesh(m *dcel.Mesh) *kernel.Mesh {
	n := m.NumFaces()
	out := &kernel.Mesh{
		Vertices: make([]float32, 0, n*9),
		Normals:  make([]float32, 0, n*9),
		Indices:  make([]uint32, 0, n*3),
		Exact:    true,
	}
	for id, f := range m.Faces() {
		appendTriangle(out, m.Triangle(id), f.Normal)
	}
	return out
}

// appendTriangle adds an unshared triangle so each face keeps its own
// normal.
func appendTriangle(out *kernel.Mesh, tri [3]v3.Vec, n v3.Vec) {
	base := uint32(out.VertexCount())
	for j, v := range tri {
		out.Vertices = append(out.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		out.Normals = append(out.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		out.Indices = append(out.Indices, base+uint32(j))
	}
}

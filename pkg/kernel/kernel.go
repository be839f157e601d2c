// Package kernel defines the abstract geometry kernel interface.
// Implementations build convex hull solids from point sets and compose
// them; the kernel abstraction lets the rest of the system stay
// independent of the backend.
package kernel

import (
	"github.com/chazu/hull3d/pkg/geom"
	"github.com/pkg/errors"
)

// ErrEmptyHull is returned by Kernel.Hull when the input has fewer than
// four points and therefore no volume.
var ErrEmptyHull = errors.New("kernel: hull has no volume")

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Hull builds the convex hull of a point set.
	Hull(points []geom.Point) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

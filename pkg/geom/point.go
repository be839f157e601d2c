// Package geom holds the point type and the orientation predicates the
// hull construction is built on.
package geom

import (
	"cmp"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Point is a 3D coordinate. It is the sdfx vector type so hull output can be
// handed straight to sdfx without conversion. Points are comparable and are
// used as map keys to identify input points.
type Point = v3.Vec

// P is shorthand for constructing a Point.
func P(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Compare orders points lexicographically by X, then Y, then Z.
func Compare(a, b Point) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}

// Less reports whether a sorts before b.
func Less(a, b Point) bool {
	return Compare(a, b) < 0
}

// IsFinite reports whether every coordinate of p is a finite number.
func IsFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// Format renders a point compactly for logs and error messages.
func Format(p Point) string {
	return fmt.Sprintf("(%g %g %g)", p.X, p.Y, p.Z)
}

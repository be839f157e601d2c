package geom

import "math"

// Sign is the classified result of an orientation test.
type Sign int

const (
	Negative Sign = -1
	Zero     Sign = 0
	Positive Sign = 1
)

func (s Sign) String() string {
	switch s {
	case Negative:
		return "negative"
	case Zero:
		return "zero"
	case Positive:
		return "positive"
	default:
		return "unknown"
	}
}

// orientErrBound is the static error bound for the orient3d determinant,
// (7 + 56e)e with e = 2^-53. A determinant whose magnitude is below
// orientErrBound times the permanent cannot be trusted for its sign.
const orientErrBound = 7.771561172376103e-16

// SignedVolume returns the determinant of the 4x4 homogeneous matrix whose
// rows are (p.X, p.Y, p.Z, 1) for p0..p3. It equals six times the signed
// volume of the tetrahedron and reduces to (p0-p3) . ((p1-p3) x (p2-p3)).
//
// The result is positive when p3 lies below the plane through p0, p1, p2,
// where "below" means p0, p1, p2 appear counterclockwise when viewed from
// above. For a face wound counterclockwise as seen from outside the hull, a
// point in front of the face therefore gives a negative value.
func SignedVolume(p0, p1, p2, p3 Point) float64 {
	det, _ := orient3d(p0, p1, p2, p3)
	return det
}

func orient3d(a, b, c, d Point) (det, permanent float64) {
	adx, ady, adz := a.X-d.X, a.Y-d.Y, a.Z-d.Z
	bdx, bdy, bdz := b.X-d.X, b.Y-d.Y, b.Z-d.Z
	cdx, cdy, cdz := c.X-d.X, c.Y-d.Y, c.Z-d.Z

	bdxcdy, cdxbdy := bdx*cdy, cdx*bdy
	cdxady, adxcdy := cdx*ady, adx*cdy
	adxbdy, bdxady := adx*bdy, bdx*ady

	det = adz*(bdxcdy-cdxbdy) + bdz*(cdxady-adxcdy) + cdz*(adxbdy-bdxady)
	permanent = math.Abs(adz)*(math.Abs(bdxcdy)+math.Abs(cdxbdy)) +
		math.Abs(bdz)*(math.Abs(cdxady)+math.Abs(adxcdy)) +
		math.Abs(cdz)*(math.Abs(adxbdy)+math.Abs(bdxady))
	return det, permanent
}

// Predicate classifies orientations with a tolerance. The zero value uses
// only the floating-point error bound of the determinant; Epsilon widens the
// band of results that count as coplanar.
type Predicate struct {
	Epsilon float64
}

// Orientation classifies d against the plane through a, b, c using the sign
// convention of SignedVolume. Determinants inside the error band are Zero.
func (pr Predicate) Orientation(a, b, c, d Point) Sign {
	det, permanent := orient3d(a, b, c, d)
	bound := orientErrBound*permanent + pr.Epsilon
	switch {
	case det > bound:
		return Positive
	case det < -bound:
		return Negative
	default:
		return Zero
	}
}

// Visible reports whether p lies strictly in front of the triangle a, b, c,
// wound counterclockwise as seen from its front side. Points on the plane
// are hidden.
func (pr Predicate) Visible(a, b, c, p Point) bool {
	return pr.Orientation(a, b, c, p) == Negative
}

// Coplanar reports whether the four points are coplanar within tolerance.
func (pr Predicate) Coplanar(a, b, c, d Point) bool {
	return pr.Orientation(a, b, c, d) == Zero
}

// Collinear reports whether a, b, c lie on one line within tolerance.
func (pr Predicate) Collinear(a, b, c Point) bool {
	ab, ac := b.Sub(a), c.Sub(a)
	n := ab.Cross(ac)
	scale := ab.Length() * ac.Length()
	return n.Length() <= orientErrBound*scale+pr.Epsilon
}

// Orientation classifies with the default predicate.
func Orientation(a, b, c, d Point) Sign {
	return Predicate{}.Orientation(a, b, c, d)
}

// Visible tests visibility with the default predicate.
func Visible(a, b, c, p Point) bool {
	return Predicate{}.Visible(a, b, c, p)
}

package geom

import (
	"math"
	"testing"
)

func TestSignedVolumeUnitTetrahedron(t *testing.T) {
	a := P(0, 0, 0)
	b := P(1, 0, 0)
	c := P(0, 1, 0)

	// Above the counterclockwise triangle: in front, negative.
	if got := SignedVolume(a, b, c, P(0, 0, 1)); got != -1 {
		t.Errorf("SignedVolume above = %v, want -1", got)
	}
	// Below: behind, positive.
	if got := SignedVolume(a, b, c, P(0, 0, -1)); got != 1 {
		t.Errorf("SignedVolume below = %v, want 1", got)
	}
	if got := SignedVolume(a, b, c, P(3, 4, 0)); got != 0 {
		t.Errorf("SignedVolume on plane = %v, want 0", got)
	}
}

func TestSignedVolumeSwapFlipsSign(t *testing.T) {
	a, b, c, d := P(1, 2, 3), P(-4, 0, 2), P(0, 5, -1), P(2, 2, 2)
	v := SignedVolume(a, b, c, d)
	w := SignedVolume(a, c, b, d)
	if v == 0 {
		t.Fatal("expected non-degenerate tetrahedron")
	}
	if math.Abs(v+w) > 1e-12 {
		t.Errorf("swapping two points should negate: %v vs %v", v, w)
	}
}

func TestOrientation(t *testing.T) {
	a, b, c := P(0, 0, 0), P(1, 0, 0), P(0, 1, 0)
	tests := []struct {
		name string
		d    Point
		want Sign
	}{
		{"above", P(0.2, 0.2, 1), Negative},
		{"below", P(0.2, 0.2, -1), Positive},
		{"on plane", P(5, -3, 0), Zero},
		{"tiny above", P(0, 0, 1e-300), Negative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Orientation(a, b, c, tt.d); got != tt.want {
				t.Errorf("Orientation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrientationNearlyCoplanarIsZero(t *testing.T) {
	// d lies exactly on the tilted plane z = 0.3x + 0.2y through a, b, c.
	// At this scale the products round, so the computed determinant is not
	// zero, but it stays inside the error bound.
	a := P(1e8, 0, 3e7)
	b := P(0, 1e8, 2e7)
	c := P(-1e8, -1e8, -5e7)
	d := P(-5e6, -3e7, -7.5e6)

	det, permanent := orient3d(a, b, c, d)
	if bound := orientErrBound * permanent; math.Abs(det) > bound {
		t.Fatalf("|det| = %g exceeds bound %g", math.Abs(det), bound)
	}
	if got := Orientation(a, b, c, d); got != Zero {
		t.Errorf("Orientation = %v, want zero inside error bound", got)
	}
	if Visible(a, b, c, d) {
		t.Error("on-plane point reported visible")
	}
}

func TestPredicateEpsilon(t *testing.T) {
	a, b, c := P(0, 0, 0), P(1, 0, 0), P(0, 1, 0)
	d := P(0.1, 0.1, 1e-6)

	if got := (Predicate{}).Orientation(a, b, c, d); got != Negative {
		t.Errorf("default predicate = %v, want negative", got)
	}
	if got := (Predicate{Epsilon: 1e-3}).Orientation(a, b, c, d); got != Zero {
		t.Errorf("widened predicate = %v, want zero", got)
	}
}

func TestVisibleOnPlaneIsHidden(t *testing.T) {
	a, b, c := P(0, 0, 1), P(1, 0, 1), P(0, 1, 1)
	if Visible(a, b, c, P(0.5, 0.5, 1)) {
		t.Error("point on the face plane must not be visible")
	}
	if !Visible(a, b, c, P(0.5, 0.5, 2)) {
		t.Error("point in front of the face must be visible")
	}
	if Visible(a, b, c, P(0.5, 0.5, 0)) {
		t.Error("point behind the face must not be visible")
	}
}

func TestCollinear(t *testing.T) {
	pr := Predicate{}
	if !pr.Collinear(P(0, 0, 0), P(1, 1, 1), P(3, 3, 3)) {
		t.Error("points on the diagonal should be collinear")
	}
	if pr.Collinear(P(0, 0, 0), P(1, 0, 0), P(0, 1, 0)) {
		t.Error("triangle corners should not be collinear")
	}
	if !pr.Collinear(P(2, 2, 2), P(2, 2, 2), P(5, 0, 1)) {
		t.Error("a repeated point makes any triple collinear")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Point
		want int
	}{
		{P(0, 0, 0), P(0, 0, 0), 0},
		{P(0, 0, 0), P(1, 0, 0), -1},
		{P(1, 0, 0), P(0, 9, 9), 1},
		{P(1, 2, 0), P(1, 3, 0), -1},
		{P(1, 2, 5), P(1, 2, 4), 1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if !Less(P(0, 0, 0), P(0, 0, 1)) {
		t.Error("Less should order by Z last")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(P(1, -2, 3)) {
		t.Error("finite point reported non-finite")
	}
	if IsFinite(P(math.NaN(), 0, 0)) {
		t.Error("NaN coordinate reported finite")
	}
	if IsFinite(P(0, math.Inf(1), 0)) {
		t.Error("Inf coordinate reported finite")
	}
}

func TestPointAsMapKey(t *testing.T) {
	m := map[Point]int{P(1, 2, 3): 7}
	if m[P(1, 2, 3)] != 7 {
		t.Error("equal coordinates should address the same key")
	}
	if _, ok := m[P(1, 2, 3.0000001)]; ok {
		t.Error("distinct coordinates must not collide")
	}
}

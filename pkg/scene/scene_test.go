package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/hull3d/pkg/geom"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func tetra(name string) *HullSpec {
	return &HullSpec{
		Name: name,
		Points: []geom.Point{
			geom.P(0, 0, 0), geom.P(1, 0, 0), geom.P(0, 1, 0), geom.P(0, 0, 1),
		},
	}
}

func hasFinding(errs []ValidationError, sev ValidationSeverity, substr string) bool {
	for _, e := range errs {
		if e.Severity == sev && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Scene
// ---------------------------------------------------------------------------

func TestAddAndLookup(t *testing.T) {
	s := New()
	s.Add(tetra("a"))
	s.Add(tetra("b"))

	if s.HullCount() != 2 {
		t.Fatalf("HullCount = %d, want 2", s.HullCount())
	}
	if got := s.Lookup("b"); got != s.Hulls[1] {
		t.Errorf("Lookup(b) = %v", got)
	}
	if s.Lookup("missing") != nil {
		t.Error("Lookup(missing) should be nil")
	}
	if got := s.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Names = %v", got)
	}
	if s.PointCount() != 8 {
		t.Errorf("PointCount = %d, want 8", s.PointCount())
	}
}

func TestMustLookupPanics(t *testing.T) {
	s := New()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(r.(string), `"ghost"`) {
			t.Errorf("panic = %v", r)
		}
	}()
	s.MustLookup("ghost")
}

func TestEmptyScene(t *testing.T) {
	s := New()
	if s.PointCount() != 0 || len(s.Names()) != 0 {
		t.Errorf("empty scene: points=%d names=%v", s.PointCount(), s.Names())
	}
	if errs := Validate(s); len(errs) != 0 {
		t.Errorf("empty scene findings: %v", errs)
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		hulls   []*HullSpec
		sev     ValidationSeverity
		message string
	}{
		{
			name:    "empty name",
			hulls:   []*HullSpec{tetra("")},
			sev:     SeverityError,
			message: "empty name",
		},
		{
			name:    "duplicate name",
			hulls:   []*HullSpec{tetra("a"), tetra("a")},
			sev:     SeverityError,
			message: "duplicate hull name",
		},
		{
			name: "non-finite point",
			hulls: []*HullSpec{{
				Name:   "nan",
				Points: append(tetra("").Points, geom.P(math.NaN(), 0, 0)),
			}},
			sev:     SeverityError,
			message: "not finite",
		},
		{
			name: "infinite point",
			hulls: []*HullSpec{{
				Name:   "inf",
				Points: append(tetra("").Points, geom.P(0, math.Inf(1), 0)),
			}},
			sev:     SeverityError,
			message: "not finite",
		},
		{
			name: "too few points",
			hulls: []*HullSpec{{
				Name:   "tri",
				Points: []geom.Point{geom.P(0, 0, 0), geom.P(1, 0, 0), geom.P(0, 1, 0)},
			}},
			sev:     SeverityWarning,
			message: "at least 4",
		},
		{
			name: "duplicates",
			hulls: []*HullSpec{{
				Name:   "dup",
				Points: append(tetra("").Points, geom.P(0, 0, 0), geom.P(1, 0, 0)),
			}},
			sev:     SeverityWarning,
			message: "2 duplicate points",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for _, h := range tt.hulls {
				s.Add(h)
			}
			errs := Validate(s)
			if !hasFinding(errs, tt.sev, tt.message) {
				t.Errorf("missing %s %q in %v", tt.sev, tt.message, errs)
			}
		})
	}
}

func TestValidateAllSplitsSeverity(t *testing.T) {
	s := New()
	s.Add(tetra("ok"))
	s.Add(&HullSpec{Name: "small", Points: []geom.Point{geom.P(0, 0, 0)}})
	s.Add(tetra("ok"))

	r := ValidateAll(s)
	if r.OK() {
		t.Fatal("duplicate name should block")
	}
	if len(r.Errors) != 1 {
		t.Errorf("errors = %v, want 1", r.Errors)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", r.Warnings)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Hull: "h", Message: "bad", Severity: SeverityWarning}
	if got := e.Error(); got != `[warning] hull "h": bad` {
		t.Errorf("Error() = %q", got)
	}
	e = ValidationError{Message: "bad"}
	if got := e.Error(); got != "[error] bad" {
		t.Errorf("Error() = %q", got)
	}
	if got := ValidationSeverity(7).String(); got != "ValidationSeverity(7)" {
		t.Errorf("String() = %q", got)
	}
}

package scene

import (
	"fmt"

	"github.com/chazu/hull3d/pkg/geom"
)

// MinHullPoints is the smallest input that yields a non-empty hull.
const MinHullPoints = 4

// ValidationSeverity indicates whether a finding blocks tessellation or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Hull     string             // hull name, empty for scene-level findings
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Hull == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] hull %q: %s", e.Severity, e.Hull, e.Message)
}

// ValidationResult splits findings into blocking errors and warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks every hull input and returns all findings in definition
// order. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(s)...)
	for _, h := range s.Hulls {
		errs = append(errs, validatePoints(h)...)
	}
	return errs
}

// ValidateAll runs Validate and separates the findings by severity.
func ValidateAll(s *Scene) ValidationResult {
	var r ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityError {
			r.Errors = append(r.Errors, e)
		} else {
			r.Warnings = append(r.Warnings, e)
		}
	}
	return r
}

func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, h := range s.Hulls {
		if h.Name == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("hull %d has an empty name", i),
				Severity: SeverityError,
			})
			continue
		}
		if seen[h.Name] {
			errs = append(errs, ValidationError{
				Hull:     h.Name,
				Message:  "duplicate hull name",
				Severity: SeverityError,
			})
		}
		seen[h.Name] = true
	}
	return errs
}

func validatePoints(h *HullSpec) []ValidationError {
	var errs []ValidationError
	distinct := make(map[geom.Point]bool, len(h.Points))
	dups := 0
	for i, p := range h.Points {
		if !geom.IsFinite(p) {
			errs = append(errs, ValidationError{
				Hull:     h.Name,
				Message:  fmt.Sprintf("point %d is not finite: %s", i, geom.Format(p)),
				Severity: SeverityError,
			})
			continue
		}
		if distinct[p] {
			dups++
		}
		distinct[p] = true
	}
	if len(h.Points) < MinHullPoints {
		errs = append(errs, ValidationError{
			Hull:     h.Name,
			Message:  fmt.Sprintf("%d points, at least %d are needed for a hull", len(h.Points), MinHullPoints),
			Severity: SeverityWarning,
		})
	}
	if dups > 0 {
		errs = append(errs, ValidationError{
			Hull:     h.Name,
			Message:  fmt.Sprintf("%d duplicate points ignored", dups),
			Severity: SeverityWarning,
		})
	}
	return errs
}

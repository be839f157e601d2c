package hull

import (
	"fmt"

	"github.com/chazu/hull3d/pkg/geom"
	"github.com/pkg/errors"
)

var (
	// ErrDegenerateInput is returned when no four input points span a
	// volume: all points coincide, or lie on one line or one plane.
	ErrDegenerateInput = errors.New("hull: degenerate input")

	// ErrNonFiniteInput is returned when a coordinate is NaN or infinite.
	ErrNonFiniteInput = errors.New("hull: non-finite coordinate")
)

// InvariantError reports broken internal bookkeeping. The builder panics
// with it; it is never returned as an error value.
type InvariantError struct {
	Point   geom.Point // point being inserted when the check failed
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("hull: invariant violated inserting %s: %s", geom.Format(e.Point), e.Message)
}

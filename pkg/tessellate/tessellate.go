// Package tessellate turns a scene into triangle meshes using a geometry
// kernel. One mesh is produced per named hull.
package tessellate

import (
	"runtime"

	"github.com/chazu/hull3d/pkg/kernel"
	"github.com/chazu/hull3d/pkg/scene"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// HullError reports a hull that could not be tessellated.
type HullError struct {
	Hull string
	Err  error
}

func (e *HullError) Error() string {
	return "tessellate: hull " + e.Hull + ": " + e.Err.Error()
}

// Cause returns the underlying error for errors.Cause.
func (e *HullError) Cause() error { return e.Err }

// Unwrap returns the underlying error for errors.Is.
func (e *HullError) Unwrap() error { return e.Err }

// Tessellate builds one mesh per hull in definition order. Hulls with fewer
// than scene.MinHullPoints points are skipped. Hulls are built in parallel;
// k must be safe for concurrent use.
//
// A hull that fails does not stop the others: the returned slice holds the
// meshes that succeeded and the error combines one *HullError per failure
// (split it with multierr.Errors). The scene is never mutated.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	results := make([]*kernel.Mesh, len(s.Hulls))
	failures := make([]error, len(s.Hulls))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, h := range s.Hulls {
		if len(h.Points) < scene.MinHullPoints {
			continue
		}
		g.Go(func() error {
			mesh, err := tessellateHull(k, h)
			if err != nil {
				failures[i] = &HullError{Hull: h.Name, Err: err}
				return nil
			}
			results[i] = mesh
			return nil
		})
	}
	// Workers report through failures; Wait only joins them.
	_ = g.Wait()

	var meshes []*kernel.Mesh
	for _, m := range results {
		if m != nil {
			meshes = append(meshes, m)
		}
	}
	return meshes, multierr.Combine(failures...)
}

func tessellateHull(k kernel.Kernel, h *scene.HullSpec) (*kernel.Mesh, error) {
	solid, err := k.Hull(h.Points)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, errors.Wrap(err, "ToMesh")
	}
	mesh.PartName = h.Name
	return mesh, nil
}

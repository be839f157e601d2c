// Package scene defines the result of script evaluation: an ordered set of
// named point clouds, each of which becomes one convex hull.
package scene

import (
	"fmt"

	"github.com/chazu/hull3d/pkg/geom"
	"github.com/samber/lo"
)

// HullSpec is one named hull input.
type HullSpec struct {
	Name   string       `json:"name"`
	Points []geom.Point `json:"points"`
}

// Scene is produced fresh by every evaluation and is not mutated after it
// is returned.
type Scene struct {
	Hulls     []*HullSpec    `json:"hulls"`
	NameIndex map[string]int `json:"name_index"`
	Version   uint64         `json:"version"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{NameIndex: make(map[string]int)}
}

// Add appends a hull input. A later hull with the same name shadows the
// earlier one in NameIndex; Validate reports the duplicate.
func (s *Scene) Add(h *HullSpec) {
	s.Hulls = append(s.Hulls, h)
	if h.Name != "" {
		s.NameIndex[h.Name] = len(s.Hulls) - 1
	}
}

// Lookup returns the hull with the given name, or nil.
func (s *Scene) Lookup(name string) *HullSpec {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Hulls[i]
}

// MustLookup returns the hull with the given name, or panics.
func (s *Scene) MustLookup(name string) *HullSpec {
	h := s.Lookup(name)
	if h == nil {
		panic(fmt.Sprintf("scene: no hull named %q", name))
	}
	return h
}

// Names returns hull names in definition order.
func (s *Scene) Names() []string {
	return lo.Map(s.Hulls, func(h *HullSpec, _ int) string { return h.Name })
}

// PointCount is the total number of input points across all hulls.
func (s *Scene) PointCount() int {
	return lo.SumBy(s.Hulls, func(h *HullSpec) int { return len(h.Points) })
}

// HullCount returns the number of hull inputs.
func (s *Scene) HullCount() int {
	return len(s.Hulls)
}

package dcel

import "fmt"

// ValidationError describes one broken mesh invariant.
type ValidationError struct {
	Code    string
	Message string
	Element string // handle of the offending element, empty if mesh-level
}

func (e ValidationError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Element)
}

// Validate checks that the mesh is a closed, triangulated, linked surface
// of genus zero. An empty mesh is valid. The mesh is not modified.
func Validate(m *Mesh) []ValidationError {
	if m.IsEmpty() && m.NumFaces() == 0 && m.NumHalfEdges() == 0 {
		return nil
	}
	var errs []ValidationError
	errs = append(errs, validateHalfEdges(m)...)
	errs = append(errs, validateFaces(m)...)
	errs = append(errs, validateVertices(m)...)
	if len(errs) == 0 {
		errs = append(errs, validateEuler(m)...)
	}
	return errs
}

func validateHalfEdges(m *Mesh) []ValidationError {
	var errs []ValidationError
	for id, e := range m.HalfEdges() {
		el := id.String()
		if !m.HasVertex(e.From) || !m.HasVertex(e.To) {
			errs = append(errs, ValidationError{
				Code:    "DANGLING_VERTEX",
				Message: fmt.Sprintf("endpoints %v -> %v not both live", e.From, e.To),
				Element: el,
			})
			continue
		}
		if !m.HasFace(e.Face) {
			errs = append(errs, ValidationError{
				Code:    "DANGLING_FACE",
				Message: fmt.Sprintf("face %v not live", e.Face),
				Element: el,
			})
		}
		if !m.HasHalfEdge(e.Twin) {
			errs = append(errs, ValidationError{
				Code:    "OPEN_EDGE",
				Message: "half-edge has no twin",
				Element: el,
			})
		} else {
			t := m.HalfEdge(e.Twin)
			if t.Twin != id {
				errs = append(errs, ValidationError{
					Code:    "TWIN_ASYMMETRY",
					Message: fmt.Sprintf("twin %v points back to %v", e.Twin, t.Twin),
					Element: el,
				})
			}
			if t.From != e.To || t.To != e.From {
				errs = append(errs, ValidationError{
					Code:    "TWIN_ENDPOINTS",
					Message: fmt.Sprintf("twin %v does not reverse the edge", e.Twin),
					Element: el,
				})
			}
		}
		if !m.HasHalfEdge(e.Next) || !m.HasHalfEdge(e.Prev) {
			errs = append(errs, ValidationError{
				Code:    "DANGLING_LINK",
				Message: "next or prev not live",
				Element: el,
			})
			continue
		}
		if m.HalfEdge(e.Next).Prev != id || m.HalfEdge(e.Prev).Next != id {
			errs = append(errs, ValidationError{
				Code:    "LINK_ASYMMETRY",
				Message: "next.prev or prev.next does not return",
				Element: el,
			})
		}
		if m.HalfEdge(e.Next).From != e.To {
			errs = append(errs, ValidationError{
				Code:    "BROKEN_CHAIN",
				Message: "next does not start where this half-edge ends",
				Element: el,
			})
		}
		if m.HalfEdge(e.Next).Face != e.Face {
			errs = append(errs, ValidationError{
				Code:    "MIXED_FACE",
				Message: "next bounds a different face",
				Element: el,
			})
		}
	}
	return errs
}

func validateFaces(m *Mesh) []ValidationError {
	var errs []ValidationError
	for id, f := range m.Faces() {
		el := id.String()
		if !m.HasHalfEdge(f.HalfEdge) {
			errs = append(errs, ValidationError{
				Code:    "DANGLING_HALF_EDGE",
				Message: fmt.Sprintf("outer half-edge %v not live", f.HalfEdge),
				Element: el,
			})
			continue
		}
		// Walk at most three steps; a triangle returns to the start.
		cur := f.HalfEdge
		ok := true
		for i := 0; i < 3; i++ {
			e := m.HalfEdge(cur)
			if e.Face != id {
				ok = false
				break
			}
			if !m.HasHalfEdge(e.Next) {
				ok = false
				break
			}
			cur = e.Next
		}
		if !ok || cur != f.HalfEdge {
			errs = append(errs, ValidationError{
				Code:    "NOT_TRIANGLE",
				Message: "boundary does not close after three steps",
				Element: el,
			})
		}
	}
	return errs
}

func validateVertices(m *Mesh) []ValidationError {
	var errs []ValidationError
	for id, v := range m.Vertices() {
		if !m.HasHalfEdge(v.HalfEdge) {
			errs = append(errs, ValidationError{
				Code:    "ISOLATED_VERTEX",
				Message: "incident half-edge not live",
				Element: id.String(),
			})
			continue
		}
		if m.HalfEdge(v.HalfEdge).From != id {
			errs = append(errs, ValidationError{
				Code:    "INCIDENT_ORIGIN",
				Message: fmt.Sprintf("incident half-edge %v does not leave the vertex", v.HalfEdge),
				Element: id.String(),
			})
		}
	}
	return errs
}

func validateEuler(m *Mesh) []ValidationError {
	v, e, f := m.NumVertices(), m.NumHalfEdges()/2, m.NumFaces()
	if v-e+f != 2 {
		return []ValidationError{{
			Code:    "EULER_CHARACTERISTIC",
			Message: fmt.Sprintf("V - E + F = %d - %d + %d = %d, want 2", v, e, f, v-e+f),
		}}
	}
	return nil
}

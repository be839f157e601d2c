package dcel

import (
	"cmp"
	"fmt"
)

// VertexID is a stable reference to a vertex. The zero value is nil.
type VertexID handle

// HalfEdgeID is a stable reference to a half-edge. The zero value is nil.
type HalfEdgeID handle

// FaceID is a stable reference to a face. The zero value is nil.
type FaceID handle

// Index returns the slot index. Indices are dense only after Compact.
func (id VertexID) Index() int { return int(id.idx) }

// IsNil reports whether id refers to nothing.
func (id VertexID) IsNil() bool { return id.gen == 0 }

// Compare orders handles by slot index.
func (id VertexID) Compare(o VertexID) int { return cmp.Compare(id.idx, o.idx) }

func (id VertexID) String() string {
	if id.IsNil() {
		return "v<nil>"
	}
	return fmt.Sprintf("v%d", id.idx)
}

// Index returns the slot index. Indices are dense only after Compact.
func (id HalfEdgeID) Index() int { return int(id.idx) }

// IsNil reports whether id refers to nothing.
func (id HalfEdgeID) IsNil() bool { return id.gen == 0 }

// Compare orders handles by slot index.
func (id HalfEdgeID) Compare(o HalfEdgeID) int { return cmp.Compare(id.idx, o.idx) }

func (id HalfEdgeID) String() string {
	if id.IsNil() {
		return "e<nil>"
	}
	return fmt.Sprintf("e%d", id.idx)
}

// Index returns the slot index. Indices are dense only after Compact.
func (id FaceID) Index() int { return int(id.idx) }

// IsNil reports whether id refers to nothing.
func (id FaceID) IsNil() bool { return id.gen == 0 }

// Compare orders handles by slot index.
func (id FaceID) Compare(o FaceID) int { return cmp.Compare(id.idx, o.idx) }

func (id FaceID) String() string {
	if id.IsNil() {
		return "f<nil>"
	}
	return fmt.Sprintf("f%d", id.idx)
}

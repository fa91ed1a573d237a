// Package halfedge implements the editable half-edge mesh kernel: the
// topology store, its builder, query/selection layers, the edit operators,
// raycasting, and undo/redo described by the mesh-editing spec this module
// implements.
package halfedge

import "github.com/ajcurley/limemesh"

// Null is the sentinel index meaning "no reference". It is encoded as
// math.MaxUint32 by the lime codec; in memory a negative int is used
// since Go has no unsigned-overflow-as-null idiom as clean as -1.
const Null = -1

// Vertex is a geometric sample carrying position, normal, UV, and color
// attributes, plus one outgoing half-edge used only to start vertex walks.
type Vertex struct {
	Position meshx.Vector
	Normal   meshx.Vector
	UV       [2]float64
	Color    [4]float64

	// OutgoingHalfEdge is one half-edge originating at this vertex, or Null.
	OutgoingHalfEdge int

	Selected bool
}

// HalfEdge is a directed boundary segment of one face.
type HalfEdge struct {
	// ToVertex is the vertex this half-edge points at.
	ToVertex int

	// Face is the owning face, or Null if boundary. No builder in this
	// package ever produces a boundary half-edge (face-less); only Twin may
	// be Null, when the edge has no neighboring face at all.
	Face int

	Next int
	Prev int
	Twin int
}

// IsBoundary reports whether this half-edge has no twin (a true geometric
// boundary edge).
func (h HalfEdge) IsBoundary() bool {
	return h.Twin == Null
}

// Face is an ordered polygon with 3 or more vertices (typically a
// triangle or quad, but n-gons are permitted).
type Face struct {
	// FirstHalfEdge is any half-edge on this face's cycle.
	FirstHalfEdge int

	// VertexCount is n. A face with VertexCount == 0 is a tombstone,
	// awaiting removal by RebuildFromFaces.
	VertexCount int

	Selected bool
}

// IsTombstone reports whether this face has been marked for removal by an
// in-progress operator and is awaiting RebuildFromFaces.
func (f Face) IsTombstone() bool {
	return f.VertexCount == 0
}

// edgeKey is the undirected edge key (min(v0,v1), max(v0,v1)) used by the
// edge map.
type edgeKey struct {
	lo, hi int
}

func makeEdgeKey(v0, v1 int) edgeKey {
	if v0 < v1 {
		return edgeKey{v0, v1}
	}
	return edgeKey{v1, v0}
}

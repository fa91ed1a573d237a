package halfedge

import (
	"fmt"

	"github.com/ajcurley/limemesh"
)

// ValidateTopology checks every invariant that must hold after a public
// operation and returns one error per violation found. It is a debug
// helper: it reports but never repairs.
func (m *EditableMesh) ValidateTopology() []error {
	var errs []error

	for i, he := range m.halfEdges {
		if m.halfEdges[he.Next].Prev != i {
			errs = append(errs, fmt.Errorf("half-edge %d: next.prev != self", i))
		}
		if m.halfEdges[he.Prev].Next != i {
			errs = append(errs, fmt.Errorf("half-edge %d: prev.next != self", i))
		}

		if he.Twin != Null {
			twin := m.halfEdges[he.Twin]
			if twin.Twin != i {
				errs = append(errs, fmt.Errorf("half-edge %d: twin.twin != self", i))
			}

			from, to := m.EdgeVertices(i)
			twinFrom, twinTo := m.EdgeVertices(he.Twin)
			// Twins are paired by position, so a seam-split vertex at the
			// same position counts as the same endpoint.
			key := func(v int) uint64 { return meshx.PositionKey(m.vertices[v].Position) }
			if key(twinFrom) != key(to) || key(twinTo) != key(from) {
				errs = append(errs, fmt.Errorf("half-edge %d: twin endpoints not reversed", i))
			}
		}

		if he.Face < 0 || he.Face >= len(m.faces) {
			errs = append(errs, fmt.Errorf("half-edge %d: face index out of range", i))
		} else if m.halfEdges[i].Face != he.Face {
			errs = append(errs, fmt.Errorf("half-edge %d: inconsistent face", i))
		}

		if he.ToVertex < 0 || he.ToVertex >= len(m.vertices) {
			errs = append(errs, fmt.Errorf("half-edge %d: to-vertex out of range", i))
		}
		if he.Next < 0 || he.Next >= len(m.halfEdges) {
			errs = append(errs, fmt.Errorf("half-edge %d: next out of range", i))
		}
		if he.Prev < 0 || he.Prev >= len(m.halfEdges) {
			errs = append(errs, fmt.Errorf("half-edge %d: prev out of range", i))
		}
	}

	for f, face := range m.faces {
		if face.VertexCount == 0 {
			errs = append(errs, fmt.Errorf("face %d: tombstone present after public operation", f))
			continue
		}

		count := 0
		h := face.FirstHalfEdge
		start := h

		for {
			if m.halfEdges[h].Face != f {
				errs = append(errs, fmt.Errorf("face %d: half-edge %d does not reference this face", f, h))
			}
			count++
			h = m.halfEdges[h].Next
			if h == start {
				break
			}
			if count > len(m.halfEdges) {
				errs = append(errs, fmt.Errorf("face %d: cycle never closes", f))
				break
			}
		}

		if count != face.VertexCount {
			errs = append(errs, fmt.Errorf("face %d: cycle length %d != vertex count %d", f, count, face.VertexCount))
		}
	}

	seen := make(map[edgeKey]struct{}, len(m.halfEdges))
	for _, he := range m.halfEdges {
		from, to := he.ToVertex, m.halfEdges[he.Prev].ToVertex
		seen[makeEdgeKey(from, to)] = struct{}{}
	}
	for key := range seen {
		if _, ok := m.edgeMap[key]; !ok {
			errs = append(errs, fmt.Errorf("edge map missing entry for edge (%d, %d)", key.lo, key.hi))
		}
	}

	for i, v := range m.vertices {
		if v.OutgoingHalfEdge != Null && (v.OutgoingHalfEdge < 0 || v.OutgoingHalfEdge >= len(m.halfEdges)) {
			errs = append(errs, fmt.Errorf("vertex %d: outgoing half-edge out of range", i))
		}
	}

	return errs
}

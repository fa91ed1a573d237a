package halfedge

import "github.com/ajcurley/limemesh"

// AddFace appends a face and its n half-edges from a CCW vertex cycle. It
// returns Null without mutating the store if len(vertexIndices) < 3 or any
// index is out of range. Twins are left Null and the edge map is not
// touched; batched callers call LinkTwinsByPosition and RebuildEdgeMap once
// after all faces have been added.
func (m *EditableMesh) AddFace(vertexIndices []int) int {
	n := len(vertexIndices)

	if n < 3 {
		return Null
	}

	for _, v := range vertexIndices {
		if v < 0 || v >= len(m.vertices) {
			return Null
		}
	}

	m.faceIndex = nil

	first := len(m.halfEdges)
	faceIndex := len(m.faces)

	for i, v := range vertexIndices {
		next := (i + 1) % n
		prev := (i - 1 + n) % n

		m.halfEdges = append(m.halfEdges, HalfEdge{
			ToVertex: vertexIndices[next],
			Face:     faceIndex,
			Next:     first + next,
			Prev:     first + prev,
			Twin:     Null,
		})

		if m.vertices[v].OutgoingHalfEdge == Null {
			m.vertices[v].OutgoingHalfEdge = first + i
		}
	}

	m.faces = append(m.faces, Face{
		FirstHalfEdge: first,
		VertexCount:   n,
	})

	return faceIndex
}

// RebuildEdgeMap clears the edge map and inserts one entry per half-edge,
// keyed by its undirected endpoint pair. The first half-edge seen for a
// given key wins; later duplicates are ignored.
func (m *EditableMesh) RebuildEdgeMap() {
	m.edgeMap = make(map[edgeKey]int, len(m.halfEdges))

	for i, he := range m.halfEdges {
		if he.Prev < 0 || he.Prev >= len(m.halfEdges) {
			continue
		}
		from := m.halfEdges[he.Prev].ToVertex
		key := makeEdgeKey(from, he.ToVertex)

		if _, ok := m.edgeMap[key]; !ok {
			m.edgeMap[key] = i
		}
	}
}

// LinkTwinsByPosition clears every existing twin link, then pairs each
// half-edge with another unpaired half-edge whose (quantized) endpoint
// positions run in reverse. Uses a hash
// map keyed on the ordered pair of position keys for linear time. Never
// rewinds a face to force a pairing; a half-edge may remain twinless (a true
// geometric boundary).
func (m *EditableMesh) LinkTwinsByPosition() {
	type posPair struct{ from, to uint64 }

	unpaired := make(map[posPair]int)

	for i := range m.halfEdges {
		m.halfEdges[i].Twin = Null
	}

	for i, he := range m.halfEdges {
		if he.Twin != Null {
			continue
		}

		from := m.halfEdges[he.Prev].ToVertex
		to := he.ToVertex
		fromKey := meshx.PositionKey(m.vertices[from].Position)
		toKey := meshx.PositionKey(m.vertices[to].Position)

		// Look for an unpaired half-edge running the opposite direction:
		// its "from" equals our "to" and vice versa.
		wantKey := posPair{toKey, fromKey}

		if twin, ok := unpaired[wantKey]; ok {
			m.halfEdges[i].Twin = twin
			m.halfEdges[twin].Twin = i
			delete(unpaired, wantKey)
		} else {
			unpaired[posPair{fromKey, toKey}] = i
		}
	}
}

// RebuildFromFaces collects every non-tombstone face's vertex cycle and
// selection flag, resets all outgoing half-edge references, clears the
// face/half-edge/selected-edge arrays, and re-emits each surviving face via
// AddFace before relinking twins and rebuilding the edge map. This is the
// normalizer called after operators that leave tombstones behind.
func (m *EditableMesh) RebuildFromFaces() {
	type survivor struct {
		vertices []int
		selected bool
	}

	survivors := make([]survivor, 0, len(m.faces))

	for i := range m.faces {
		if m.faces[i].VertexCount == 0 {
			continue
		}

		survivors = append(survivors, survivor{
			vertices: m.FaceVertices(i),
			selected: m.faces[i].Selected,
		})
	}

	for i := range m.vertices {
		m.vertices[i].OutgoingHalfEdge = Null
	}

	m.halfEdges = m.halfEdges[:0]
	m.faces = m.faces[:0]
	m.selectedEdges = make(map[int]struct{})

	for _, s := range survivors {
		idx := m.AddFace(s.vertices)
		if idx != Null {
			m.faces[idx].Selected = s.selected
		}
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
}

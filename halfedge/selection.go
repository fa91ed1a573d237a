package halfedge

import "github.com/ajcurley/limemesh"

// SelectVertex selects a vertex. When additive is false, the whole
// selection is cleared first.
func (m *EditableMesh) SelectVertex(index int, additive bool) {
	if !additive {
		m.ClearSelection()
	}
	m.vertices[index].Selected = true
}

// SelectFace selects a face. When additive is false, the whole selection is
// cleared first.
func (m *EditableMesh) SelectFace(index int, additive bool) {
	if !additive {
		m.ClearSelection()
	}
	m.faces[index].Selected = true
}

// SelectEdge selects an edge. When additive is false, the whole selection
// is cleared first. Both half-edges of the pair are inserted.
func (m *EditableMesh) SelectEdge(h int, additive bool) {
	if !additive {
		m.ClearSelection()
	}
	m.insertEdgePair(h)
}

// insertEdgePair inserts h and its twin (if any) into the selected-edges
// set.
func (m *EditableMesh) insertEdgePair(h int) {
	m.selectedEdges[h] = struct{}{}
	if twin := m.halfEdges[h].Twin; twin != Null {
		m.selectedEdges[twin] = struct{}{}
	}
}

// removeEdgePair removes h and its twin (if any) from the selected-edges
// set.
func (m *EditableMesh) removeEdgePair(h int) {
	delete(m.selectedEdges, h)
	if twin := m.halfEdges[h].Twin; twin != Null {
		delete(m.selectedEdges, twin)
	}
}

// ToggleVertexSelection flips the selection state of a single vertex.
func (m *EditableMesh) ToggleVertexSelection(index int) {
	m.vertices[index].Selected = !m.vertices[index].Selected
}

// ToggleFaceSelection flips the selection state of a single face.
func (m *EditableMesh) ToggleFaceSelection(index int) {
	m.faces[index].Selected = !m.faces[index].Selected
}

// ToggleEdgeSelection flips the selection state of an edge (both
// half-edges of the pair together).
func (m *EditableMesh) ToggleEdgeSelection(h int) {
	if _, ok := m.selectedEdges[h]; ok {
		m.removeEdgePair(h)
	} else {
		m.insertEdgePair(h)
	}
}

// ClearSelection clears all three selection sets.
func (m *EditableMesh) ClearSelection() {
	for i := range m.vertices {
		m.vertices[i].Selected = false
	}
	for i := range m.faces {
		m.faces[i].Selected = false
	}
	m.selectedEdges = make(map[int]struct{})
}

// SelectionMode names which selection set an operation applies to.
type SelectionMode int

const (
	SelectionModeVertex SelectionMode = iota
	SelectionModeEdge
	SelectionModeFace
)

// InvertSelection flips the bits of the requested selection set only.
func (m *EditableMesh) InvertSelection(mode SelectionMode) {
	switch mode {
	case SelectionModeVertex:
		for i := range m.vertices {
			m.vertices[i].Selected = !m.vertices[i].Selected
		}
	case SelectionModeFace:
		for i := range m.faces {
			m.faces[i].Selected = !m.faces[i].Selected
		}
	case SelectionModeEdge:
		next := make(map[int]struct{})
		for i := range m.halfEdges {
			canon := m.canonicalEdge(i)
			if canon != i {
				continue
			}
			if _, ok := m.selectedEdges[i]; !ok {
				next[i] = struct{}{}
				if twin := m.halfEdges[i].Twin; twin != Null {
					next[twin] = struct{}{}
				}
			}
		}
		m.selectedEdges = next
	}
}

// SelectEdgeLoop unions the selection with the loop walk starting at h.
func (m *EditableMesh) SelectEdgeLoop(h int) {
	for _, e := range m.EdgeLoop(h) {
		m.insertEdgePair(e)
	}
}

// SelectEdgeRing unions the selection with the ring walk starting at h.
func (m *EditableMesh) SelectEdgeRing(h int) {
	for _, e := range m.EdgeRing(h) {
		m.insertEdgePair(e)
	}
}

// SelectedVertices returns the indices of selected vertices.
func (m *EditableMesh) SelectedVertices() []int {
	result := make([]int, 0)
	for i, v := range m.vertices {
		if v.Selected {
			result = append(result, i)
		}
	}
	return result
}

// SelectedFaces returns the indices of selected faces.
func (m *EditableMesh) SelectedFaces() []int {
	result := make([]int, 0)
	for i, f := range m.faces {
		if f.Selected {
			result = append(result, i)
		}
	}
	return result
}

// SelectedEdges returns one canonical half-edge index per selected
// undirected edge.
func (m *EditableMesh) SelectedEdges() []int {
	seen := make(map[int]struct{})
	result := make([]int, 0)

	for h := range m.selectedEdges {
		canon := m.canonicalEdge(h)
		if _, ok := seen[canon]; !ok {
			seen[canon] = struct{}{}
			result = append(result, canon)
		}
	}

	return result
}

// HasSelection reports whether any vertex, edge, or face is selected.
func (m *EditableMesh) HasSelection() bool {
	return len(m.SelectedVertices()) > 0 || len(m.selectedEdges) > 0 || len(m.SelectedFaces()) > 0
}

// AffectedVertices returns the union of selected vertices, endpoints of
// selected edges, and vertices of selected faces.
func (m *EditableMesh) AffectedVertices() []int {
	seen := make(map[int]struct{})
	result := make([]int, 0)

	add := func(v int) {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	for _, v := range m.SelectedVertices() {
		add(v)
	}

	for h := range m.selectedEdges {
		from, to := m.EdgeVertices(h)
		add(from)
		add(to)
	}

	for _, f := range m.SelectedFaces() {
		for _, v := range m.FaceVertices(f) {
			add(v)
		}
	}

	return result
}

// AffectedVerticesByPosition expands AffectedVertices to every vertex
// sharing a quantized position key with a member of the set, so that
// hard-normal seams move together under transforms.
func (m *EditableMesh) AffectedVerticesByPosition() []int {
	keys := make(map[uint64]struct{})
	for _, v := range m.AffectedVertices() {
		keys[meshx.PositionKey(m.vertices[v].Position)] = struct{}{}
	}

	result := make([]int, 0, len(m.vertices))
	for i, v := range m.vertices {
		if _, ok := keys[meshx.PositionKey(v.Position)]; ok {
			result = append(result, i)
		}
	}

	return result
}

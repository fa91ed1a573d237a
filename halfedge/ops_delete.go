package halfedge

// DeleteFaces removes the given faces by reconstructing the face and
// half-edge arrays from the surviving faces' vertex cycles. Clears the
// selection.
func (m *EditableMesh) DeleteFaces(faces []int) {
	doomed := make(map[int]bool, len(faces))
	for _, f := range faces {
		doomed[f] = true
	}

	for f := range m.faces {
		if doomed[f] {
			m.faces[f].VertexCount = 0
		}
	}

	m.RebuildFromFaces()
	m.RecomputeNormals()
	m.ClearSelection()
}

// DeleteSelectedFaces deletes the currently selected faces.
func (m *EditableMesh) DeleteSelectedFaces() {
	m.DeleteFaces(m.SelectedFaces())
}

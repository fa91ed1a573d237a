package halfedge

import "github.com/ajcurley/limemesh"

// MergeVertices averages the position/normal/UV/color of vertIndices into
// the first (kept) vertex, rewrites every half-edge endpoint referencing a
// removed vertex to the kept one, and deletes any face whose unique-vertex
// set then drops below three. Requires len(vertIndices) >= 2; otherwise
// returns without mutation.
func (m *EditableMesh) MergeVertices(vertIndices []int) {
	if len(vertIndices) < 2 {
		return
	}

	kept := vertIndices[0]
	removed := make(map[int]bool, len(vertIndices)-1)
	for _, v := range vertIndices[1:] {
		removed[v] = true
	}

	var pos, norm meshx.Vector
	var uv [2]float64
	var col [4]float64

	for _, v := range vertIndices {
		vert := m.vertices[v]
		pos = pos.Add(vert.Position)
		norm = norm.Add(vert.Normal)
		uv[0] += vert.UV[0]
		uv[1] += vert.UV[1]
		col[0] += vert.Color[0]
		col[1] += vert.Color[1]
		col[2] += vert.Color[2]
		col[3] += vert.Color[3]
	}

	n := float64(len(vertIndices))
	m.vertices[kept].Position = pos.MulScalar(1 / n)
	m.vertices[kept].UV = [2]float64{uv[0] / n, uv[1] / n}
	m.vertices[kept].Color = [4]float64{col[0] / n, col[1] / n, col[2] / n, col[3] / n}

	if norm.Mag() > 1e-12 {
		m.vertices[kept].Normal = norm.Unit()
	}

	for i := range m.halfEdges {
		if removed[m.halfEdges[i].ToVertex] {
			m.halfEdges[i].ToVertex = kept
		}
	}

	var degenerate []int

	for f := range m.faces {
		if m.faces[f].VertexCount == 0 {
			continue
		}

		unique := make(map[int]bool)
		for _, v := range m.FaceVertices(f) {
			unique[v] = true
		}

		if len(unique) < 3 {
			degenerate = append(degenerate, f)
		}
	}

	if len(degenerate) > 0 {
		m.DeleteFaces(degenerate)
		return
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
}

// MergeSelectedVertices merges the currently selected vertices.
func (m *EditableMesh) MergeSelectedVertices() {
	m.MergeVertices(m.SelectedVertices())
}

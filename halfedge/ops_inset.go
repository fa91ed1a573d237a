package halfedge

// InsetFaces insets every selected face that has exactly four vertices by
// amount, clamped to [0.01, 0.99]. Each processed quad becomes an inner quad
// plus four border quads; non-quad faces in the selection are skipped.
func (m *EditableMesh) InsetFaces(amount float64) {
	if amount < 0.01 {
		amount = 0.01
	}
	if amount > 0.99 {
		amount = 0.99
	}

	selected := m.SelectedFaces()
	var queued [][]int

	for _, f := range selected {
		if m.faces[f].VertexCount != 4 {
			continue
		}

		verts := m.FaceVertices(f)
		center := m.FaceCenter(f)
		centerUV := [2]float64{0, 0}
		for _, v := range verts {
			centerUV[0] += m.vertices[v].UV[0]
			centerUV[1] += m.vertices[v].UV[1]
		}
		centerUV[0] /= float64(len(verts))
		centerUV[1] /= float64(len(verts))

		inner := make([]int, len(verts))
		for i, v := range verts {
			nv := m.vertices[v]
			nv.Position = nv.Position.Lerp(center, amount)
			nv.UV[0] = nv.UV[0] + (centerUV[0]-nv.UV[0])*amount
			nv.UV[1] = nv.UV[1] + (centerUV[1]-nv.UV[1])*amount
			inner[i] = m.AddVertex(nv)
		}

		n := len(verts)
		queued = append(queued, inner)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			queued = append(queued, []int{verts[i], verts[j], inner[j], inner[i]})
		}

		m.faces[f].VertexCount = 0
	}

	for _, cycle := range queued {
		m.AddFace(cycle)
	}

	m.RebuildFromFaces()
	m.RecomputeNormals()
}

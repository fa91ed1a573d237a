package halfedge

import "github.com/ajcurley/limemesh"

// FlipNormals reverses the winding of the selected faces. With exactly one
// face selected, that face alone is reversed. With more than one, the
// average face-normal direction is computed; target_dir is defined as the
// direction opposite whichever side (aligned with or opposed to the
// average) holds the majority of selected faces, and only faces opposing
// target_dir are reversed. Reselects the original set afterward.
func (m *EditableMesh) FlipNormals() {
	selected := m.SelectedFaces()
	if len(selected) == 0 {
		return
	}

	flip := make(map[int]bool, len(selected))

	if len(selected) == 1 {
		flip[selected[0]] = true
	} else {
		var avg meshx.Vector
		for _, f := range selected {
			avg = avg.Add(m.FaceNormal(f))
		}

		if avg.Mag() < 1e-12 {
			for _, f := range selected {
				flip[f] = true
			}
		} else {
			avgDir := avg.Unit()

			aligned, opposed := 0, 0
			for _, f := range selected {
				if m.FaceNormal(f).Dot(avgDir) >= 0 {
					aligned++
				} else {
					opposed++
				}
			}

			targetDir := avgDir.MulScalar(-1)
			if opposed > aligned {
				targetDir = avgDir
			}

			for _, f := range selected {
				if m.FaceNormal(f).Dot(targetDir) < 0 {
					flip[f] = true
				}
			}
		}
	}

	var cycles [][]int
	for f := range m.faces {
		verts := m.FaceVertices(f)
		if flip[f] {
			verts = reverseInts(verts)
		}
		cycles = append(cycles, verts)
	}

	for i := range m.vertices {
		m.vertices[i].OutgoingHalfEdge = Null
	}
	m.halfEdges = m.halfEdges[:0]
	m.faces = m.faces[:0]
	m.selectedEdges = make(map[int]struct{})

	for _, c := range cycles {
		m.AddFace(c)
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	for _, f := range selected {
		m.faces[f].Selected = true
	}
}

// reverseInts returns a new slice with vs in reverse order.
func reverseInts(vs []int) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = v
	}
	return out
}

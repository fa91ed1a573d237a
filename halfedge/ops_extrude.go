package halfedge

import "github.com/ajcurley/limemesh"

// ExtrudeFaces extrudes the faces in faces by distance along each vertex's
// locally-averaged face normal. If any boundary edge of the selection has a
// twin whose face lies outside the selection, the extrusion is "connected"
// (the base stays attached to the rest of the mesh via fresh side quads);
// otherwise it "floats" free and gets its own reversed bottom cap. Reselects
// the original face indices, which are preserved across the rebuild.
func (m *EditableMesh) ExtrudeFaces(faces []int, distance float64) {
	if len(faces) == 0 {
		return
	}

	inSelection := make(map[int]bool, len(faces))
	for _, f := range faces {
		inSelection[f] = true
	}

	vertexSet := make(map[int]bool)
	var orderedVertices []int

	for _, f := range faces {
		for _, v := range m.FaceVertices(f) {
			if !vertexSet[v] {
				vertexSet[v] = true
				orderedVertices = append(orderedVertices, v)
			}
		}
	}

	dir := make(map[int]meshx.Vector, len(orderedVertices))
	for _, v := range orderedVertices {
		var sum meshx.Vector
		for _, f := range faces {
			for _, fv := range m.FaceVertices(f) {
				if fv == v {
					sum = sum.Add(m.FaceNormal(f))
					break
				}
			}
		}
		if sum.Mag() > 1e-12 {
			dir[v] = sum.Unit()
		} else {
			dir[v] = meshx.NewVector(0, 1, 0)
		}
	}

	type boundaryEdge struct{ v0, v1 int }

	edgeCount := make(map[edgeKey]int)
	edgeOriented := make(map[edgeKey]boundaryEdge)
	edgeHalfEdge := make(map[edgeKey]int)

	for _, f := range faces {
		for _, h := range m.FaceHalfEdges(f) {
			from, to := m.EdgeVertices(h)
			key := makeEdgeKey(from, to)
			edgeCount[key]++
			edgeOriented[key] = boundaryEdge{from, to}
			edgeHalfEdge[key] = h
		}
	}

	var boundary []boundaryEdge
	connected := false

	for key, count := range edgeCount {
		if count != 1 {
			continue
		}
		boundary = append(boundary, edgeOriented[key])

		h := edgeHalfEdge[key]
		if twin := m.halfEdges[h].Twin; twin != Null && !inSelection[m.halfEdges[twin].Face] {
			connected = true
		}
	}

	bottomMap := make(map[int]int, len(orderedVertices))
	topMap := make(map[int]int, len(orderedVertices))

	for _, v := range orderedVertices {
		bottomMap[v] = m.AddVertex(m.vertices[v])

		if connected {
			moved := m.vertices[v]
			moved.Position = moved.Position.Add(dir[v].MulScalar(distance))
			topMap[v] = m.AddVertex(moved)
		} else {
			m.vertices[v].Position = m.vertices[v].Position.Add(dir[v].MulScalar(distance))
			topMap[v] = v
		}
	}

	oldFaceCount := len(m.faces)
	cycles := make([][]int, 0, oldFaceCount+len(boundary)+len(faces))

	for f := 0; f < oldFaceCount; f++ {
		original := m.FaceVertices(f)

		if inSelection[f] {
			cycle := make([]int, len(original))
			for i, v := range original {
				cycle[i] = topMap[v]
			}
			cycles = append(cycles, cycle)
			continue
		}

		if connected {
			cycle := make([]int, len(original))
			changed := false
			for i, v := range original {
				if bv, ok := bottomMap[v]; ok {
					cycle[i] = bv
					changed = true
				} else {
					cycle[i] = v
				}
			}
			if changed {
				cycles = append(cycles, cycle)
				continue
			}
		}

		cycles = append(cycles, original)
	}

	for _, e := range boundary {
		cycles = append(cycles, []int{
			bottomMap[e.v0], bottomMap[e.v1], topMap[e.v1], topMap[e.v0],
		})
	}

	if !connected {
		for _, f := range faces {
			original := m.FaceVertices(f)
			reversed := make([]int, len(original))
			for i, v := range original {
				reversed[len(original)-1-i] = bottomMap[v]
			}
			cycles = append(cycles, reversed)
		}
	}

	for i := range m.vertices {
		m.vertices[i].OutgoingHalfEdge = Null
	}
	m.halfEdges = m.halfEdges[:0]
	m.faces = m.faces[:0]
	m.selectedEdges = make(map[int]struct{})

	for _, cycle := range cycles {
		m.AddFace(cycle)
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	m.ClearSelection()
	for _, f := range faces {
		m.faces[f].Selected = true
	}
}

package halfedge

import "github.com/ajcurley/limemesh"

// DefaultMergeNormalThreshold is the dot-product threshold used by
// MergeTrianglesToQuads when the caller wants the spec's default.
const DefaultMergeNormalThreshold = 0.85

// MergeTrianglesToQuads pairs adjacent unmerged triangles whose face
// normals agree within threshold (dot product) into quads, leaving
// unmatched triangles unchanged.
func (m *EditableMesh) MergeTrianglesToQuads(threshold float64) {
	type pair struct {
		a, b, sharedHalfEdge int
	}

	merged := make([]bool, len(m.faces))
	pairByLow := make(map[int]pair)

	for f := range m.faces {
		if merged[f] || m.faces[f].VertexCount != 3 {
			continue
		}

		for _, h := range m.FaceHalfEdges(f) {
			twin := m.halfEdges[h].Twin
			if twin == Null {
				continue
			}

			g := m.halfEdges[twin].Face
			if g <= f || merged[g] || m.faces[g].VertexCount != 3 {
				continue
			}

			if m.FaceNormal(f).Dot(m.FaceNormal(g)) > threshold {
				pairByLow[f] = pair{f, g, h}
				merged[f] = true
				merged[g] = true
				break
			}
		}
	}

	var cycles [][]int

	for f := range m.faces {
		if m.faces[f].VertexCount == 0 {
			continue
		}

		if p, ok := pairByLow[f]; ok {
			s0, s1 := m.EdgeVertices(p.sharedHalfEdge)
			tipA := thirdVertex(m.FaceVertices(p.a), s0, s1)

			key0 := meshx.PositionKey(m.vertices[s0].Position)
			key1 := meshx.PositionKey(m.vertices[s1].Position)
			tipB := tipByPosition(m, m.FaceVertices(p.b), key0, key1)

			cycles = append(cycles, []int{tipA, s0, tipB, s1})
			continue
		}

		if merged[f] {
			continue
		}

		cycles = append(cycles, m.FaceVertices(f))
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
}

// thirdVertex returns the member of a 3-vertex cycle not equal to a or b.
func thirdVertex(verts []int, a, b int) int {
	for _, v := range verts {
		if v != a && v != b {
			return v
		}
	}
	return verts[0]
}

// tipByPosition returns the member of verts whose quantized position
// matches neither key0 nor key1.
func tipByPosition(m *EditableMesh, verts []int, key0, key1 uint64) int {
	for _, v := range verts {
		key := meshx.PositionKey(m.vertices[v].Position)
		if key != key0 && key != key1 {
			return v
		}
	}
	return verts[0]
}

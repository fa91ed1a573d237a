package halfedge

import "github.com/ajcurley/limemesh"

// Hollow carves the mesh into a shell of the given wall thickness. Every
// original face becomes the outer surface; a second, inward-offset and
// reverse-wound copy becomes the inner surface; and every boundary edge of
// the original mesh gets a rim quad connecting outer to inner. Does nothing
// if thickness <= 0.
func (m *EditableMesh) Hollow(thickness float64) {
	if thickness <= 0 {
		return
	}

	accum := make(map[uint64]meshx.Vector)
	for f := range m.faces {
		if m.faces[f].VertexCount == 0 {
			continue
		}
		n := m.FaceNormal(f)
		for _, v := range m.FaceVertices(f) {
			key := meshx.PositionKey(m.vertices[v].Position)
			accum[key] = accum[key].Add(n)
		}
	}

	shellNormal := make(map[uint64]meshx.Vector, len(accum))
	for key, n := range accum {
		if n.Mag() > 1e-12 {
			shellNormal[key] = n.Unit()
		} else {
			shellNormal[key] = meshx.NewVector(0, 1, 0)
		}
	}

	originalVertexCount := len(m.vertices)
	innerOf := make([]int, originalVertexCount)

	for v := 0; v < originalVertexCount; v++ {
		key := meshx.PositionKey(m.vertices[v].Position)
		n := shellNormal[key]

		inner := Vertex{
			Position:         m.vertices[v].Position.Sub(n.MulScalar(thickness)),
			Normal:           m.vertices[v].Normal.MulScalar(-1),
			UV:               m.vertices[v].UV,
			Color:            m.vertices[v].Color,
			OutgoingHalfEdge: Null,
		}
		innerOf[v] = m.AddVertex(inner)
	}

	originalFaceCount := len(m.faces)
	var boundaryHalfEdges []int
	for h := range m.halfEdges {
		if m.halfEdges[h].Twin == Null {
			boundaryHalfEdges = append(boundaryHalfEdges, h)
		}
	}

	var cycles [][]int

	for f := 0; f < originalFaceCount; f++ {
		if m.faces[f].VertexCount == 0 {
			continue
		}
		verts := m.FaceVertices(f)

		outer := append([]int(nil), verts...)
		cycles = append(cycles, outer)

		inner := make([]int, len(verts))
		for i, v := range verts {
			inner[len(verts)-1-i] = innerOf[v]
		}
		cycles = append(cycles, inner)
	}

	for _, h := range boundaryHalfEdges {
		v0, v1 := m.EdgeVertices(h)
		cycles = append(cycles, []int{v0, innerOf[v0], innerOf[v1], v1})
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
}

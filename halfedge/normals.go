package halfedge

import "github.com/ajcurley/limemesh"

// RecomputeNormals sets every vertex's normal to the unit of the
// area-weighted sum of the normals of its incident faces. Idempotent:
// applying it twice yields the same result as applying it once, since each
// call derives purely from current positions.
func (m *EditableMesh) RecomputeNormals() {
	accum := make([]meshx.Vector, len(m.vertices))

	for f := range m.faces {
		if m.faces[f].VertexCount == 0 {
			continue
		}

		n := m.FaceNormal(f)
		area := m.faceArea(f)
		weighted := n.MulScalar(area)

		for _, v := range m.FaceVertices(f) {
			accum[v] = accum[v].Add(weighted)
		}
	}

	for i := range m.vertices {
		if accum[i].Mag() > 1e-12 {
			m.vertices[i].Normal = accum[i].Unit()
		}
	}
}

// faceArea computes a fan-triangulated polygon's area about its first
// vertex.
func (m *EditableMesh) faceArea(face int) float64 {
	vertices := m.FaceVertices(face)
	if len(vertices) < 3 {
		return 0
	}

	p0 := m.vertices[vertices[0]].Position
	var area float64

	for i := 1; i+1 < len(vertices); i++ {
		p1 := m.vertices[vertices[i]].Position
		p2 := m.vertices[vertices[i+1]].Position
		area += p1.Sub(p0).Cross(p2.Sub(p0)).Mag() * 0.5
	}

	return area
}

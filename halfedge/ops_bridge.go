package halfedge

// BridgeEdges connects two half-edges with segments quads (segments >= 1,
// clamped). Returns false without mutation if h1 == h2, either index is out
// of range, or the two edges share a vertex.
func (m *EditableMesh) BridgeEdges(h1, h2 int, segments int) bool {
	if segments < 1 {
		segments = 1
	}

	if h1 == h2 {
		return false
	}
	if h1 < 0 || h1 >= len(m.halfEdges) || h2 < 0 || h2 >= len(m.halfEdges) {
		return false
	}

	a0, a1 := m.EdgeVertices(h1)
	b0, b1 := m.EdgeVertices(h2)

	if a0 == b0 || a0 == b1 || a1 == b0 || a1 == b1 {
		return false
	}

	// Choose the "less twisted" pairing: (a0<->b0, a1<->b1) or
	// (a0<->b1, a1<->b0), whichever minimizes the total endpoint distance.
	// On an exact tie, prefer the first (index-order deterministic).
	p0a := m.vertices[a0].Position
	p0b := m.vertices[a1].Position
	q0 := m.vertices[b0].Position
	q1 := m.vertices[b1].Position

	straight := p0a.Sub(q0).Mag() + p0b.Sub(q1).Mag()
	crossed := p0a.Sub(q1).Mag() + p0b.Sub(q0).Mag()

	startB, endB := b0, b1
	if crossed < straight {
		startB, endB = b1, b0
	}

	rowA := make([]int, segments+1)
	rowB := make([]int, segments+1)
	rowA[0], rowA[segments] = a0, a1
	rowB[0], rowB[segments] = startB, endB

	va0, va1 := m.vertices[a0], m.vertices[a1]
	vb0, vb1 := m.vertices[startB], m.vertices[endB]

	for i := 1; i < segments; i++ {
		t := float64(i) / float64(segments)
		rowA[i] = m.AddVertex(lerpVertex(va0, va1, t))
		rowB[i] = m.AddVertex(lerpVertex(vb0, vb1, t))
	}

	var newFaces []int

	for i := 0; i < segments; i++ {
		currA, nextA := rowA[i], rowA[i+1]
		currB, nextB := rowB[i], rowB[i+1]
		f := m.AddFace([]int{currA, nextA, nextB, currB})
		if f != Null {
			newFaces = append(newFaces, f)
		}
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	m.ClearSelection()
	for _, f := range newFaces {
		m.faces[f].Selected = true
	}

	return true
}

// lerpVertex linearly interpolates position, UV, and color between two
// vertices at t in [0, 1]. Normal is left as a's and is corrected by the
// caller's subsequent RecomputeNormals.
func lerpVertex(a, b Vertex, t float64) Vertex {
	return Vertex{
		Position: a.Position.Lerp(b.Position, t),
		Normal:   a.Normal,
		UV: [2]float64{
			a.UV[0] + (b.UV[0]-a.UV[0])*t,
			a.UV[1] + (b.UV[1]-a.UV[1])*t,
		},
		Color: [4]float64{
			a.Color[0] + (b.Color[0]-a.Color[0])*t,
			a.Color[1] + (b.Color[1]-a.Color[1])*t,
			a.Color[2] + (b.Color[2]-a.Color[2])*t,
			a.Color[3] + (b.Color[3]-a.Color[3])*t,
		},
		OutgoingHalfEdge: Null,
	}
}

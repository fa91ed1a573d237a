package halfedge

import "github.com/ajcurley/limemesh"

// FaceHalfEdges walks a face's cycle starting at its FirstHalfEdge and
// returns the VertexCount half-edge indices in order.
func (m *EditableMesh) FaceHalfEdges(face int) []int {
	f := m.faces[face]
	halfEdges := make([]int, 0, f.VertexCount)
	h := f.FirstHalfEdge

	for i := 0; i < f.VertexCount; i++ {
		halfEdges = append(halfEdges, h)
		h = m.halfEdges[h].Next
	}

	return halfEdges
}

// FaceVertices returns the n vertex indices of a face in CCW order: the
// i-th returned vertex is the "from" vertex of the i-th half-edge in the
// cycle (the ToVertex of its Prev).
func (m *EditableMesh) FaceVertices(face int) []int {
	halfEdges := m.FaceHalfEdges(face)
	vertices := make([]int, len(halfEdges))

	for i, h := range halfEdges {
		prev := m.halfEdges[h].Prev
		vertices[i] = m.halfEdges[prev].ToVertex
	}

	return vertices
}

// FaceEdges returns the half-edge indices of a face's cycle (alias of
// FaceHalfEdges, named for symmetry with FaceNeighbors/FaceVertices).
func (m *EditableMesh) FaceEdges(face int) []int {
	return m.FaceHalfEdges(face)
}

// FaceNeighbors returns the faces across each non-boundary edge of face.
func (m *EditableMesh) FaceNeighbors(face int) []int {
	halfEdges := m.FaceHalfEdges(face)
	neighbors := make([]int, 0, len(halfEdges))

	for _, h := range halfEdges {
		he := m.halfEdges[h]
		if !he.IsBoundary() {
			neighbors = append(neighbors, m.halfEdges[he.Twin].Face)
		}
	}

	return neighbors
}

// VertexOutgoingHalfEdges rotates around a vertex via prev -> twin and
// returns every outgoing half-edge, stopping at a boundary. Deduplicated by
// construction (each outgoing half-edge is visited at most once).
func (m *EditableMesh) VertexOutgoingHalfEdges(vertex int) []int {
	start := m.vertices[vertex].OutgoingHalfEdge
	if start == Null {
		return nil
	}

	result := []int{start}
	h := start

	for {
		prev := m.halfEdges[h].Prev
		twin := m.halfEdges[prev].Twin

		if twin == Null || twin == start {
			break
		}

		result = append(result, twin)
		h = twin
	}

	return result
}

// VertexFaces returns the distinct faces incident to a vertex.
func (m *EditableMesh) VertexFaces(vertex int) []int {
	seen := make(map[int]struct{})
	faces := make([]int, 0)

	for _, h := range m.VertexOutgoingHalfEdges(vertex) {
		face := m.halfEdges[h].Face
		if _, ok := seen[face]; !ok {
			seen[face] = struct{}{}
			faces = append(faces, face)
		}
	}

	return faces
}

// VertexEdges returns the distinct undirected edges (one half-edge each)
// incident to a vertex.
func (m *EditableMesh) VertexEdges(vertex int) []int {
	return m.VertexOutgoingHalfEdges(vertex)
}

// VertexNeighbors returns the distinct vertices adjacent to a vertex.
func (m *EditableMesh) VertexNeighbors(vertex int) []int {
	seen := make(map[int]struct{})
	neighbors := make([]int, 0)

	for _, h := range m.VertexOutgoingHalfEdges(vertex) {
		to := m.halfEdges[h].ToVertex
		if _, ok := seen[to]; !ok {
			seen[to] = struct{}{}
			neighbors = append(neighbors, to)
		}
	}

	return neighbors
}

// EdgeVertices returns the (from, to) vertex indices of a half-edge.
func (m *EditableMesh) EdgeVertices(h int) (int, int) {
	he := m.halfEdges[h]
	from := m.halfEdges[he.Prev].ToVertex
	return from, he.ToVertex
}

// FaceNormal computes the unit cross of the face's first two edges,
// falling back to (0, 1, 0) for degenerate (near-zero-area) input.
func (m *EditableMesh) FaceNormal(face int) meshx.Vector {
	vertices := m.FaceVertices(face)
	if len(vertices) < 3 {
		return meshx.NewVector(0, 1, 0)
	}

	p0 := m.vertices[vertices[0]].Position
	p1 := m.vertices[vertices[1]].Position
	p2 := m.vertices[vertices[2]].Position

	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Mag() < 1e-12 {
		return meshx.NewVector(0, 1, 0)
	}

	return n.Unit()
}

// FaceCenter returns the average position of a face's vertices.
func (m *EditableMesh) FaceCenter(face int) meshx.Vector {
	vertices := m.FaceVertices(face)
	center := meshx.NewVector(0, 0, 0)

	for _, v := range vertices {
		center = center.Add(m.vertices[v].Position)
	}

	return center.MulScalar(1 / float64(len(vertices)))
}

// isQuad reports whether a face has exactly four vertices.
func (m *EditableMesh) isQuad(face int) bool {
	return m.faces[face].VertexCount == 4
}

// NextLoopEdge returns the half-edge two steps forward in the cycle
// (Next.Next) when the owning face is a quad, and Null otherwise.
func (m *EditableMesh) NextLoopEdge(h int) int {
	face := m.halfEdges[h].Face
	if !m.isQuad(face) {
		return Null
	}
	return m.halfEdges[m.halfEdges[h].Next].Next
}

// canonicalEdge returns the smaller index of a half-edge and its twin, used
// to record one entry per undirected edge in loop/ring walks.
func (m *EditableMesh) canonicalEdge(h int) int {
	twin := m.halfEdges[h].Twin
	if twin != Null && twin < h {
		return twin
	}
	return h
}

// EdgeLoop walks the edge loop through h: forward via
// h -> NextLoopEdge(h) -> twin -> ..., and symmetrically backward from
// h.Twin. Terminates at a non-quad, a boundary, or a revisit. Returns one
// canonical half-edge per visited undirected edge.
func (m *EditableMesh) EdgeLoop(h int) []int {
	visited := make(map[int]struct{})
	order := make([]int, 0)

	walk := func(start int) {
		cur := start
		for cur != Null {
			canon := m.canonicalEdge(cur)
			if _, ok := visited[canon]; ok {
				return
			}
			visited[canon] = struct{}{}
			order = append(order, canon)

			next := m.NextLoopEdge(cur)
			if next == Null {
				return
			}
			cur = m.halfEdges[next].Twin
		}
	}

	walk(h)

	if twin := m.halfEdges[h].Twin; twin != Null {
		walk(twin)
	}

	return order
}

// EdgeRing walks the edge ring parallel to h: h -> next -> twin -> next ->
// twin -> ..., with the same canonicalization and termination rules as
// EdgeLoop.
func (m *EditableMesh) EdgeRing(h int) []int {
	visited := make(map[int]struct{})
	order := make([]int, 0)

	walk := func(start int) {
		cur := start
		for cur != Null {
			canon := m.canonicalEdge(cur)
			if _, ok := visited[canon]; ok {
				return
			}
			visited[canon] = struct{}{}
			order = append(order, canon)

			if !m.isQuad(m.halfEdges[cur].Face) {
				return
			}

			next := m.halfEdges[cur].Next
			twin := m.halfEdges[next].Twin
			if twin == Null {
				return
			}
			cur = twin
		}
	}

	walk(h)

	if twin := m.halfEdges[h].Twin; twin != Null {
		walk(twin)
	}

	return order
}

package halfedge

import "github.com/ajcurley/limemesh"

// subdivisionRail is the set of new vertices created along one undirected,
// position-keyed edge traversed by an edge-loop insertion, together with
// the direction it was first created in (so later traversals in the
// opposite direction can reverse it instead of recreating it).
type subdivisionRail struct {
	verts  []int
	refDir meshx.Vector
}

// InsertEdgeLoop inserts count (clamped to >= 1) parallel edge loops across
// the ring of quads reached from h via NextLoopEdge, in both directions. h
// must lie on a quad; otherwise this returns without mutation.
func (m *EditableMesh) InsertEdgeLoop(h int, count int) {
	if count < 1 {
		count = 1
	}

	if h < 0 || h >= len(m.halfEdges) || !m.isQuad(m.halfEdges[h].Face) {
		return
	}

	type visit struct{ entry, exit int }

	seenFaces := make(map[int]bool)
	var visits []visit

	walk := func(start int) {
		cur := start
		for {
			face := m.halfEdges[cur].Face
			if !m.isQuad(face) || seenFaces[face] {
				return
			}
			seenFaces[face] = true

			exit := m.NextLoopEdge(cur)
			visits = append(visits, visit{cur, exit})

			twin := m.halfEdges[exit].Twin
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

	rails := make(map[[2]uint64]*subdivisionRail)

	rail := func(fromV, toV int) []int {
		fromPos := m.vertices[fromV].Position
		toPos := m.vertices[toV].Position
		k0 := meshx.PositionKey(fromPos)
		k1 := meshx.PositionKey(toPos)

		key := [2]uint64{k0, k1}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}

		dir := toPos.Sub(fromPos)

		if r, ok := rails[key]; ok {
			if dir.Dot(r.refDir) >= 0 {
				return r.verts
			}
			reversed := make([]int, len(r.verts))
			for i, v := range r.verts {
				reversed[len(r.verts)-1-i] = v
			}
			return reversed
		}

		fv, tv := m.vertices[fromV], m.vertices[toV]
		verts := make([]int, count)
		for i := 1; i <= count; i++ {
			t := float64(i) / float64(count+1)
			verts[i-1] = m.AddVertex(lerpVertex(fv, tv, t))
		}

		rails[key] = &subdivisionRail{verts: verts, refDir: dir}
		return verts
	}

	subquadsByFace := make(map[int][][]int, len(visits))

	for _, vi := range visits {
		entry, exit := vi.entry, vi.exit
		face := m.halfEdges[entry].Face

		v0, v1 := m.EdgeVertices(entry)
		h1 := m.halfEdges[entry].Next
		v2 := m.halfEdges[h1].ToVertex
		v3 := m.halfEdges[exit].ToVertex

		entryVerts := rail(v0, v1)

		exitVerts := rail(v2, v3)
		exitReversed := make([]int, len(exitVerts))
		for i, v := range exitVerts {
			exitReversed[len(exitVerts)-1-i] = v
		}

		a := make([]int, 0, count+2)
		a = append(a, v0)
		a = append(a, entryVerts...)
		a = append(a, v1)

		b := make([]int, 0, count+2)
		b = append(b, v3)
		b = append(b, exitReversed...)
		b = append(b, v2)

		var cycles [][]int
		for i := 0; i <= count; i++ {
			cycles = append(cycles, []int{a[i], a[i+1], b[i+1], b[i]})
		}

		subquadsByFace[face] = cycles
	}

	var allCycles [][]int
	for f := range m.faces {
		if m.faces[f].VertexCount == 0 {
			continue
		}
		if cycles, ok := subquadsByFace[f]; ok {
			allCycles = append(allCycles, cycles...)
			continue
		}
		allCycles = append(allCycles, m.FaceVertices(f))
	}

	for i := range m.vertices {
		m.vertices[i].OutgoingHalfEdge = Null
	}
	m.halfEdges = m.halfEdges[:0]
	m.faces = m.faces[:0]
	m.selectedEdges = make(map[int]struct{})

	for _, cycle := range allCycles {
		m.AddFace(cycle)
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()
}

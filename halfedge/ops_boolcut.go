package halfedge

import "github.com/ajcurley/limemesh"

// axisAlignTolerance is how close a face normal's dominant component must
// be to +-1 to count as axis-aligned for BooleanCutBox.
const axisAlignTolerance = 0.01

// cutHoleEps insets each hole's four corners toward its center so the hole
// boundary is strictly interior to the face it was cut from.
const cutHoleEps = 1e-4

// cutHole records one rectangular hole cut through an axis-aligned quad,
// in enough detail to pair it with an opposing hole on the other side of a
// thin wall.
type cutHole struct {
	axis                   int
	sign                   float64
	uMin, uMax, vMin, vMax float64
	corners                [4]int // canonical order: (uMin,vMin) (uMax,vMin) (uMax,vMax) (uMin,vMax)
}

// BooleanCutBox cuts a rectangular hole through every axis-aligned quad
// face whose plane lies inside [cutterMin, cutterMax] along its normal
// axis and whose projected intersection with the cutter box falls
// strictly inside the face. Faces that opposed across the cutter on the
// same axis get jamb quads walling the resulting tunnel. Leaves the mesh
// untouched if no face qualifies.
func (m *EditableMesh) BooleanCutBox(cutterMin, cutterMax meshx.Vector) {
	var holes []cutHole
	var newCycles [][]int
	cut := false

	originalFaceCount := len(m.faces)

	for f := 0; f < originalFaceCount; f++ {
		if m.faces[f].VertexCount != 4 {
			continue
		}

		n := m.FaceNormal(f)
		axis, sign := dominantAxis(n)
		if axis == -1 {
			continue
		}

		u := (axis + 1) % 3
		v := (axis + 2) % 3

		verts := m.FaceVertices(f)
		plane := m.vertices[verts[0]].Position[axis]
		if plane < cutterMin[axis] || plane > cutterMax[axis] {
			continue
		}

		faceUMin, faceUMax := m.vertices[verts[0]].Position[u], m.vertices[verts[0]].Position[u]
		faceVMin, faceVMax := m.vertices[verts[0]].Position[v], m.vertices[verts[0]].Position[v]
		for _, vi := range verts {
			p := m.vertices[vi].Position
			faceUMin, faceUMax = min(faceUMin, p[u]), max(faceUMax, p[u])
			faceVMin, faceVMax = min(faceVMin, p[v]), max(faceVMax, p[v])
		}

		ixMin := max(faceUMin, cutterMin[u])
		ixMax := min(faceUMax, cutterMax[u])
		iyMin := max(faceVMin, cutterMin[v])
		iyMax := min(faceVMax, cutterMax[v])

		if !(ixMin > faceUMin && ixMax < faceUMax && iyMin > faceVMin && iyMax < faceVMax) {
			continue
		}
		if !(ixMin < ixMax && iyMin < iyMax) {
			continue
		}

		midU, midV := (faceUMin+faceUMax)/2, (faceVMin+faceVMax)/2
		label := func(p meshx.Vector) int {
			isMaxU := p[u] > midU
			isMaxV := p[v] > midV
			switch {
			case !isMaxU && !isMaxV:
				return 0
			case isMaxU && !isMaxV:
				return 1
			case isMaxU && isMaxV:
				return 2
			default:
				return 3
			}
		}

		var faceCorner [4]int
		for _, vi := range verts {
			faceCorner[label(m.vertices[vi].Position)] = vi
		}

		holeU := [4]float64{ixMin + cutHoleEps, ixMax - cutHoleEps, ixMax - cutHoleEps, ixMin + cutHoleEps}
		holeV := [4]float64{iyMin + cutHoleEps, iyMin + cutHoleEps, iyMax - cutHoleEps, iyMax - cutHoleEps}

		faceVertsArr := [4]Vertex{
			m.vertices[faceCorner[0]], m.vertices[faceCorner[1]],
			m.vertices[faceCorner[2]], m.vertices[faceCorner[3]],
		}

		var holeCorner [4]int
		for c := 0; c < 4; c++ {
			fu := (holeU[c] - faceUMin) / (faceUMax - faceUMin)
			fv := (holeV[c] - faceVMin) / (faceVMax - faceVMin)
			bottom := lerpVertex(faceVertsArr[0], faceVertsArr[1], fu)
			top := lerpVertex(faceVertsArr[3], faceVertsArr[2], fu)
			nv := lerpVertex(bottom, top, fv)
			nv.Normal = n
			holeCorner[c] = m.AddVertex(nv)
		}

		holeFor := map[int]int{
			faceCorner[0]: holeCorner[0],
			faceCorner[1]: holeCorner[1],
			faceCorner[2]: holeCorner[2],
			faceCorner[3]: holeCorner[3],
		}

		for i := 0; i < len(verts); i++ {
			a := verts[i]
			b := verts[(i+1)%len(verts)]
			newCycles = append(newCycles, []int{a, b, holeFor[b], holeFor[a]})
		}

		m.faces[f].VertexCount = 0
		cut = true

		holes = append(holes, cutHole{
			axis: axis, sign: sign,
			uMin: ixMin, uMax: ixMax, vMin: iyMin, vMax: iyMax,
			corners: holeCorner,
		})
	}

	if !cut {
		return
	}

	for i := range holes {
		for j := i + 1; j < len(holes); j++ {
			a, b := holes[i], holes[j]
			if a.axis != b.axis || a.sign == b.sign {
				continue
			}
			if !(a.uMin < b.uMax && b.uMin < a.uMax && a.vMin < b.vMax && b.vMin < a.vMax) {
				continue
			}

			for c := 0; c < 4; c++ {
				c2 := (c + 1) % 4
				newCycles = append(newCycles, []int{a.corners[c], a.corners[c2], b.corners[c2], b.corners[c]})
			}
		}
	}

	var cycles [][]int
	for f := range m.faces {
		if m.faces[f].VertexCount == 0 {
			continue
		}
		cycles = append(cycles, m.FaceVertices(f))
	}
	cycles = append(cycles, newCycles...)

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

// dominantAxis reports which axis (0, 1, 2) n is aligned with within
// axisAlignTolerance of +-1, and the sign of that alignment. Returns
// (-1, 0) if n is not axis-aligned.
func dominantAxis(n meshx.Vector) (int, float64) {
	for a := 0; a < 3; a++ {
		if n[a] > 1-axisAlignTolerance {
			return a, 1
		}
		if n[a] < -(1 - axisAlignTolerance) {
			return a, -1
		}
	}
	return -1, 0
}

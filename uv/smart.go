package uv

import (
	"math"
	"sort"

	"github.com/peterstace/simplefeatures/rtree"

	"github.com/ajcurley/limemesh"
	"github.com/ajcurley/limemesh/halfedge"
)

// SmartProjectUVs groups faces into islands across shared edges whose
// dihedral angle is below angleThreshold (radians), flattens each island
// onto the plane perpendicular to its average normal, and packs the islands
// into the unit square with islandMargin spacing. This differs from
// PlanarProjectByNormal in using geometric adjacency rather than an
// all-pairs normal comparison, so two parallel but disjoint faces never end
// up sharing an island purely because their normals agree.
func SmartProjectUVs(mesh *halfedge.EditableMesh, angleThreshold, islandMargin float64) {
	faces := liveFaces(mesh)
	if len(faces) == 0 {
		return
	}

	indexOf := make(map[int]int, len(faces))
	for i, f := range faces {
		indexOf[f] = i
	}

	normals := make([]meshx.Vector, len(faces))
	for i, f := range faces {
		normals[i] = mesh.FaceNormal(f)
	}

	var edges [][2]int
	for i, f := range faces {
		for _, nb := range mesh.FaceNeighbors(f) {
			j, ok := indexOf[nb]
			if !ok || j <= i {
				continue
			}
			angle := math.Acos(clampUnit(normals[i].Dot(normals[j])))
			if angle < angleThreshold {
				edges = append(edges, [2]int{i, j})
			}
		}
	}

	localIslands := buildIslands(len(faces), edges)

	var footprints []islandFootprint
	for _, local := range localIslands {
		group := make([]int, len(local))
		var avg meshx.Vector
		for i, li := range local {
			group[i] = faces[li]
			avg = avg.Add(normals[li])
		}
		axis := avg
		if axis.Mag() < epsilon {
			axis = normals[local[0]]
		}

		uv := projectPlanar(mesh, group, axis.Unit())
		minU, minV, maxU, maxV := boundsOf(uv)
		footprints = append(footprints, islandFootprint{uv: uv, minU: minU, minV: minV, maxU: maxU, maxV: maxV})
	}

	packIslands(footprints, islandMargin, mesh)
}

// vertexIdentityIslands partitions the vertices referenced by live faces
// into connected components under shared-vertex-index adjacency: two faces
// sharing a vertex index (not merely a position, so a duplicated seam
// vertex from CylindricalProjectUVs stays a separate island on each side)
// belong to the same island. It is the unit SewAllUVs moves by: translating
// every vertex in an island keeps the island's own internal UV layout
// intact.
func vertexIdentityIslands(mesh *halfedge.EditableMesh) [][]int {
	faces := liveFaces(mesh)
	if len(faces) == 0 {
		return nil
	}

	vertexFaces := make(map[int][]int)
	for i, f := range faces {
		for _, v := range mesh.FaceVertices(f) {
			vertexFaces[v] = append(vertexFaces[v], i)
		}
	}

	seenPair := make(map[[2]int]bool)
	var edges [][2]int
	for _, fs := range vertexFaces {
		for a := 0; a < len(fs); a++ {
			for b := a + 1; b < len(fs); b++ {
				i, j := fs[a], fs[b]
				if i == j {
					continue
				}
				if i > j {
					i, j = j, i
				}
				key := [2]int{i, j}
				if !seenPair[key] {
					seenPair[key] = true
					edges = append(edges, key)
				}
			}
		}
	}

	localIslands := buildIslands(len(faces), edges)

	islands := make([][]int, len(localIslands))
	for idx, local := range localIslands {
		seen := make(map[int]bool)
		var verts []int
		for _, li := range local {
			for _, v := range mesh.FaceVertices(faces[li]) {
				if !seen[v] {
					seen[v] = true
					verts = append(verts, v)
				}
			}
		}
		islands[idx] = verts
	}
	return islands
}

func boundingUVBox(mesh *halfedge.EditableMesh, verts []int) rtree.Box {
	first := mesh.Vertex(verts[0]).UV
	box := rtree.Box{MinX: first[0], MinY: first[1], MaxX: first[0], MaxY: first[1]}
	for _, v := range verts[1:] {
		uv := mesh.Vertex(v).UV
		if uv[0] < box.MinX {
			box.MinX = uv[0]
		}
		if uv[1] < box.MinY {
			box.MinY = uv[1]
		}
		if uv[0] > box.MaxX {
			box.MaxX = uv[0]
		}
		if uv[1] > box.MaxY {
			box.MaxY = uv[1]
		}
	}
	return box
}

func translateBox(box rtree.Box, delta [2]float64) rtree.Box {
	return rtree.Box{
		MinX: box.MinX + delta[0],
		MinY: box.MinY + delta[1],
		MaxX: box.MaxX + delta[0],
		MaxY: box.MaxY + delta[1],
	}
}

func overlapsAny(box rtree.Box, boxes []rtree.Box, skip int) bool {
	var tree rtree.RTree
	for i, b := range boxes {
		if i == skip {
			continue
		}
		tree.Insert(b, i)
	}

	overlap := false
	_ = tree.RangeSearch(box, func(int) error {
		overlap = true
		return rtree.Stop
	})
	return overlap
}

// SewAllUVs walks every twin pair among targetFaces (or every live face, if
// targetFaces is empty) and, wherever the two sides of a shared edge
// disagree on UV, translates the neighboring side's whole UV island to
// close the gap. The edge's two geometric endpoints are matched by twin
// adjacency rather than by vertex index, since a seam-split vertex shares a
// position but not an index with its twin-side counterpart. A weld is only
// applied if the moved island's UV bounding box would not overlap the
// bounding box of any other island; a
// rejected weld is left for a later SewAllUVs call after the overlap is
// otherwise resolved. Traversal order determines which island moves toward
// which, so output is not expected to be bit-exact across runs with
// different targetFaces orderings. Returns the number of welds applied.
func SewAllUVs(mesh *halfedge.EditableMesh, targetFaces []int) int {
	faces := targetFaces
	if len(faces) == 0 {
		faces = liveFaces(mesh)
	}
	faces = append([]int(nil), faces...)
	sort.Ints(faces)

	islands := vertexIdentityIslands(mesh)
	islandOf := make(map[int]int, mesh.VertexCount())
	for idx, verts := range islands {
		for _, v := range verts {
			islandOf[v] = idx
		}
	}

	boxes := make([]rtree.Box, len(islands))
	for i, verts := range islands {
		if len(verts) > 0 {
			boxes[i] = boundingUVBox(mesh, verts)
		}
	}

	welded := 0

	for _, f := range faces {
		if mesh.Face(f).VertexCount == 0 {
			continue
		}

		for _, h := range mesh.FaceHalfEdges(f) {
			twin := mesh.HalfEdge(h).Twin
			if twin == halfedge.Null {
				continue
			}

			neighborFace := mesh.HalfEdge(twin).Face
			if neighborFace == f || mesh.Face(neighborFace).VertexCount == 0 {
				continue
			}

			a0, a1 := mesh.EdgeVertices(h)

			// The twin runs opposite direction: its ToVertex matches a0's
			// position, and its predecessor's ToVertex matches a1's.
			b0 := mesh.HalfEdge(twin).ToVertex
			b1 := mesh.HalfEdge(mesh.HalfEdge(twin).Prev).ToVertex

			uvA0, uvA1 := mesh.Vertex(a0).UV, mesh.Vertex(a1).UV
			uvB0, uvB1 := mesh.Vertex(b0).UV, mesh.Vertex(b1).UV

			dU0, dV0 := uvA0[0]-uvB0[0], uvA0[1]-uvB0[1]
			dU1, dV1 := uvA1[0]-uvB1[0], uvA1[1]-uvB1[1]

			if math.Hypot(dU0, dV0)+math.Hypot(dU1, dV1) < epsilon {
				continue
			}

			idx, ok := islandOf[b0]
			if !ok {
				continue
			}

			delta := [2]float64{(dU0 + dU1) / 2, (dV0 + dV1) / 2}
			newBox := translateBox(boxes[idx], delta)

			if overlapsAny(newBox, boxes, idx) {
				continue
			}

			for _, v := range islands[idx] {
				cur := mesh.Vertex(v).UV
				mesh.Vertex(v).UV = [2]float64{cur[0] + delta[0], cur[1] + delta[1]}
			}
			boxes[idx] = newBox
			welded++
		}
	}

	return welded
}

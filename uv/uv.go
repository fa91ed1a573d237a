// Package uv implements the UV-projection and packing operators: planar,
// box, cylindrical, per-face, and uniform-square projections, a
// normal/adjacency-driven smart projector, and a seam-welding sew pass.
// Islands are found with lvlath's graph/BFS packages and packed into the
// unit square with simplefeatures' R-tree, mirroring how the halfedge
// package itself leans on third-party graph and spatial primitives rather
// than hand-rolled equivalents.
package uv

import (
	"math"
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
	"github.com/peterstace/simplefeatures/rtree"

	"github.com/ajcurley/limemesh"
	"github.com/ajcurley/limemesh/halfedge"
)

// epsilon is the floating-point tolerance for seam, weld, and packing
// comparisons, shared across every operator in this package.
const epsilon = 1e-4

// liveFaces returns the indices of every non-tombstone face, in index order.
func liveFaces(mesh *halfedge.EditableMesh) []int {
	var faces []int
	for f := 0; f < mesh.FaceCount(); f++ {
		if mesh.Face(f).VertexCount > 0 {
			faces = append(faces, f)
		}
	}
	return faces
}

// buildIslands partitions the n items 0..n-1 into connected components
// under the given undirected edges, via BFS over an lvlath graph. Items
// with no edges at all form singleton islands.
func buildIslands(n int, edges [][2]int) [][]int {
	g := core.NewGraph()
	for i := 0; i < n; i++ {
		_ = g.AddVertex(strconv.Itoa(i))
	}
	for _, e := range edges {
		_, _ = g.AddEdge(strconv.Itoa(e[0]), strconv.Itoa(e[1]), 0)
	}

	visited := make([]bool, n)
	var islands [][]int

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}

		result, err := bfs.BFS(g, strconv.Itoa(i))
		if err != nil {
			islands = append(islands, []int{i})
			visited[i] = true
			continue
		}

		island := make([]int, 0, len(result.Order))
		for _, id := range result.Order {
			idx, convErr := strconv.Atoi(id)
			if convErr != nil || visited[idx] {
				continue
			}
			visited[idx] = true
			island = append(island, idx)
		}
		islands = append(islands, island)
	}

	return islands
}

// orthonormalBasis returns two unit vectors spanning the plane perpendicular
// to axis, suitable for projecting positions onto a flat (u, v) pair.
func orthonormalBasis(axis meshx.Vector) (meshx.Vector, meshx.Vector) {
	axis = axis.Unit()
	up := meshx.NewVector(0, 1, 0)
	if math.Abs(axis.Dot(up)) > 0.99 {
		up = meshx.NewVector(1, 0, 0)
	}
	u := up.Cross(axis).Unit()
	v := axis.Cross(u).Unit()
	return u, v
}

// dominantAxis returns 0, 1, or 2 for the component of n with the largest
// magnitude, used by the box projector to pick a tri-planar face.
func dominantAxis(n meshx.Vector) int {
	ax, ay, az := math.Abs(n.X()), math.Abs(n.Y()), math.Abs(n.Z())
	axis, largest := 0, ax
	if ay > largest {
		axis, largest = 1, ay
	}
	if az > largest {
		axis = 2
	}
	return axis
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// islandFootprint is one connected group of faces together with its raw
// (unpacked) per-vertex UV coordinates and bounding box, as produced by a
// flat projection, ready for packIslands.
type islandFootprint struct {
	uv                     map[int][2]float64
	minU, minV, maxU, maxV float64
}

// projectPlanar assigns each vertex referenced by faces its flat projection
// onto the plane perpendicular to axis, visiting each vertex once.
func projectPlanar(mesh *halfedge.EditableMesh, faces []int, axis meshx.Vector) map[int][2]float64 {
	u, v := orthonormalBasis(axis)
	out := make(map[int][2]float64)
	for _, f := range faces {
		for _, vert := range mesh.FaceVertices(f) {
			if _, ok := out[vert]; ok {
				continue
			}
			p := mesh.Vertex(vert).Position
			out[vert] = [2]float64{p.Dot(u), p.Dot(v)}
		}
	}
	return out
}

func boundsOf(uv map[int][2]float64) (minU, minV, maxU, maxV float64) {
	minU, minV = math.Inf(1), math.Inf(1)
	maxU, maxV = math.Inf(-1), math.Inf(-1)
	for _, c := range uv {
		if c[0] < minU {
			minU = c[0]
		}
		if c[1] < minV {
			minV = c[1]
		}
		if c[0] > maxU {
			maxU = c[0]
		}
		if c[1] > maxV {
			maxV = c[1]
		}
	}
	return
}

// packIslands arranges each island's footprint into the unit square with a
// shelf packer: islands are placed tallest-first, left to right, wrapping to
// a new row when the current row is full. An R-tree tracks placed boxes; the
// shelf advance already prevents overlap, so the R-tree query is a
// correctness check that shoves a colliding island down to a fresh row
// rather than a primary placement mechanism.
func packIslands(islands []islandFootprint, margin float64, mesh *halfedge.EditableMesh) {
	if len(islands) == 0 {
		return
	}

	sort.Slice(islands, func(i, j int) bool {
		return (islands[i].maxV - islands[i].minV) > (islands[j].maxV - islands[j].minV)
	})

	maxExtent := epsilon
	for _, isl := range islands {
		if w := isl.maxU - isl.minU; w > maxExtent {
			maxExtent = w
		}
		if h := isl.maxV - isl.minV; h > maxExtent {
			maxExtent = h
		}
	}
	scale := 1.0 / maxExtent

	var tree rtree.RTree
	var x, y, rowHeight float64
	extent := 1.0

	for i, isl := range islands {
		w := (isl.maxU - isl.minU) * scale
		h := (isl.maxV - isl.minV) * scale

		if x > 0 && x+w > 1 {
			x = 0
			y += rowHeight + margin
			rowHeight = 0
		}

		box := rtree.Box{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
		overlap := false
		_ = tree.RangeSearch(box, func(int) error {
			overlap = true
			return rtree.Stop
		})
		if overlap {
			x = 0
			y += rowHeight + margin
			rowHeight = 0
			box = rtree.Box{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
		}
		tree.Insert(box, i)
		extent = math.Max(extent, math.Max(box.MaxX, box.MaxY))

		for vertex, local := range isl.uv {
			u := (local[0]-isl.minU)*scale + x
			v := (local[1]-isl.minV)*scale + y
			mesh.Vertex(vertex).UV = [2]float64{u, v}
		}

		x += w + margin
		if h > rowHeight {
			rowHeight = h
		}
	}

	// Shrink the whole layout uniformly if the rows ran past the unit square.
	if extent > 1 {
		rescaled := make(map[int]bool)
		for _, isl := range islands {
			for vertex := range isl.uv {
				if !rescaled[vertex] {
					rescaled[vertex] = true
					c := mesh.Vertex(vertex).UV
					mesh.Vertex(vertex).UV = [2]float64{c[0] / extent, c[1] / extent}
				}
			}
		}
	}
}

// PlanarProjectByNormal groups faces into islands wherever their normals
// agree within tolerance (1 - cos(angle) units, so 0 requires exact
// agreement), flattens each island onto the plane perpendicular to its
// average normal, and packs the islands into the unit square with margin
// spacing between them.
func PlanarProjectByNormal(mesh *halfedge.EditableMesh, tolerance, margin float64) {
	faces := liveFaces(mesh)
	if len(faces) == 0 {
		return
	}

	normals := make([]meshx.Vector, len(faces))
	for i, f := range faces {
		normals[i] = mesh.FaceNormal(f)
	}

	var edges [][2]int
	for i := 0; i < len(faces); i++ {
		for j := i + 1; j < len(faces); j++ {
			if normals[i].Dot(normals[j]) >= 1-tolerance {
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

	packIslands(footprints, margin, mesh)
}

// BoxProjectUVs assigns every face a tri-planar projection onto whichever of
// the XY, YZ, or XZ plane its normal is most aligned with, scaled by scale.
// No packing or wrapping is performed; this is the raw, seam-heavy
// projection used for quick previews or as a fallback axis source. UVs are
// stored per vertex and no vertex is split, so a vertex shared by several
// faces keeps the projection of the last of those faces in index order.
func BoxProjectUVs(mesh *halfedge.EditableMesh, scale float64) {
	for _, f := range liveFaces(mesh) {
		axis := dominantAxis(mesh.FaceNormal(f))
		for _, vert := range mesh.FaceVertices(f) {
			p := mesh.Vertex(vert).Position
			var u, v float64
			switch axis {
			case 0:
				u, v = p.Y(), p.Z()
			case 1:
				u, v = p.X(), p.Z()
			default:
				u, v = p.X(), p.Y()
			}
			mesh.Vertex(vert).UV = [2]float64{u * scale, v * scale}
		}
	}
}

// PerFaceProjectUVs flattens every face onto the plane perpendicular to its
// own normal as its own island, then packs all of the resulting one-face
// islands into the unit square. Unlike PlanarProjectByNormal, coplanar
// neighbors are never merged into a shared island.
func PerFaceProjectUVs(mesh *halfedge.EditableMesh, margin float64) {
	faces := liveFaces(mesh)

	var footprints []islandFootprint
	for _, f := range faces {
		uv := projectPlanar(mesh, []int{f}, mesh.FaceNormal(f))
		minU, minV, maxU, maxV := boundsOf(uv)
		footprints = append(footprints, islandFootprint{uv: uv, minU: minU, minV: minV, maxU: maxU, maxV: maxV})
	}

	packIslands(footprints, margin, mesh)
}

// UniformSquareUVs assigns every face's n corners evenly spaced positions
// around the unit square's perimeter, starting at (margin, margin), with no
// relation to the face's actual shape. margin insets every corner away from
// the square's edge, which keeps neighboring islands in a shared atlas from
// bleeding into this face's texels; it is clamped to [0, 0.5]. UVs are
// stored per vertex and no vertex is split, so a vertex shared by several
// faces keeps the corner position from the last of those faces in index
// order.
func UniformSquareUVs(mesh *halfedge.EditableMesh, margin float64) {
	if margin < 0 {
		margin = 0
	} else if margin > 0.5 {
		margin = 0.5
	}

	for _, f := range liveFaces(mesh) {
		verts := mesh.FaceVertices(f)
		for i, vert := range verts {
			mesh.Vertex(vert).UV = squareCorner(i, len(verts), margin)
		}
	}
}

// squareCorner places corner i of n around the perimeter of the square
// [margin, 1-margin]^2, walking bottom, right, top, then left.
func squareCorner(i, n int, margin float64) [2]float64 {
	lo, hi := margin, 1-margin
	t := float64(i) / float64(n) * 4

	switch {
	case t < 1:
		return [2]float64{lo + t*(hi-lo), lo}
	case t < 2:
		return [2]float64{hi, lo + (t-1)*(hi-lo)}
	case t < 3:
		return [2]float64{hi - (t-2)*(hi-lo), hi}
	default:
		return [2]float64{lo, hi - (t-3)*(hi-lo)}
	}
}

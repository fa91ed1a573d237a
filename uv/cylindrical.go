package uv

import (
	"math"

	"github.com/ajcurley/limemesh"
	"github.com/ajcurley/limemesh/halfedge"
)

// CylindricalProjectUVs groups faces into islands by geometric adjacency and
// maps each island's vertices onto (theta, height) around axis, where theta
// is the angle about axis in [0, 1) and height is the position along axis
// normalized to the island's own extent. If usePCA is true, axis is ignored
// in favor of the island's own elongation axis, found by power iteration on
// its vertex position covariance (the same technique halfedge's MakeCoplanar
// uses to find a flattening axis, here aimed at the opposite, largest
// eigenvalue end of the spectrum).
//
// A face whose corners' raw theta values span more than half a turn wraps
// across the seam at theta == 0. Wrapping faces are split: every corner on
// the low side of the seam is duplicated (new vertex, same position/normal/
// color, UV.U snapped to 1.0) so the face's projected shape stays contiguous
// instead of sprawling across the full width of the unit square. Splitting
// rewrites face topology, so every split is collected first and applied in
// one DeleteFaces/AddFace pass after all islands are projected, rather than while iterating
// the mesh's original face list: DeleteFaces fully renumbers the surviving
// faces via RebuildFromFaces, which would invalidate any later index in a
// loop that mutated topology face-by-face.
func CylindricalProjectUVs(mesh *halfedge.EditableMesh, axis meshx.Vector, usePCA bool) {
	faces := liveFaces(mesh)
	if len(faces) == 0 {
		return
	}

	indexOf := make(map[int]int, len(faces))
	for i, f := range faces {
		indexOf[f] = i
	}

	var edges [][2]int
	for i, f := range faces {
		for _, nb := range mesh.FaceNeighbors(f) {
			if j, ok := indexOf[nb]; ok && j > i {
				edges = append(edges, [2]int{i, j})
			}
		}
	}

	localIslands := buildIslands(len(faces), edges)

	var toDelete []int
	var newCycles [][]int

	for _, local := range localIslands {
		group := make([]int, len(local))
		for i, li := range local {
			group[i] = faces[li]
		}

		groupAxis := axis.Unit()
		if usePCA {
			groupAxis = pcaAxis(mesh, group)
		}
		u, v := orthonormalBasis(groupAxis)

		minH, maxH := math.Inf(1), math.Inf(-1)
		seen := make(map[int]bool)
		for _, f := range group {
			for _, vert := range mesh.FaceVertices(f) {
				if seen[vert] {
					continue
				}
				seen[vert] = true
				h := mesh.Vertex(vert).Position.Dot(groupAxis)
				if h < minH {
					minH = h
				}
				if h > maxH {
					maxH = h
				}
			}
		}
		span := maxH - minH
		if span < epsilon {
			span = 1
		}

		theta := func(vert int) float64 {
			p := mesh.Vertex(vert).Position
			t := math.Atan2(p.Dot(v), p.Dot(u)) / (2 * math.Pi)
			if t < 0 {
				t += 1
			}
			return t
		}
		height := func(vert int) float64 {
			return (mesh.Vertex(vert).Position.Dot(groupAxis) - minH) / span
		}

		for _, f := range group {
			verts := mesh.FaceVertices(f)
			thetas := make([]float64, len(verts))
			lo, hi := math.Inf(1), math.Inf(-1)
			for i, vert := range verts {
				thetas[i] = theta(vert)
				if thetas[i] < lo {
					lo = thetas[i]
				}
				if thetas[i] > hi {
					hi = thetas[i]
				}
			}

			if hi-lo <= 0.5 {
				for i, vert := range verts {
					mesh.Vertex(vert).UV = [2]float64{thetas[i], height(vert)}
				}
				continue
			}

			toDelete = append(toDelete, f)
			cycle := make([]int, len(verts))
			for i, vert := range verts {
				h := height(vert)
				if thetas[i] < 0.5 {
					src := mesh.Vertex(vert)
					cycle[i] = mesh.AddVertex(halfedge.Vertex{
						Position: src.Position,
						Normal:   src.Normal,
						Color:    src.Color,
						UV:       [2]float64{1.0, h},
					})
				} else {
					mesh.Vertex(vert).UV = [2]float64{thetas[i], h}
					cycle[i] = vert
				}
			}
			newCycles = append(newCycles, cycle)
		}
	}

	if len(toDelete) == 0 {
		return
	}

	mesh.DeleteFaces(toDelete)
	for _, cycle := range newCycles {
		mesh.AddFace(cycle)
	}
	mesh.LinkTwinsByPosition()
	mesh.RebuildEdgeMap()
	mesh.RecomputeNormals()
}

// pcaAxis returns the dominant axis of the vertex positions referenced by
// faces: the eigenvector of their covariance matrix with the largest
// eigenvalue, found by direct power iteration (no deflation is needed, since
// power iteration alone already converges to the dominant eigenvector).
func pcaAxis(mesh *halfedge.EditableMesh, faces []int) meshx.Vector {
	seen := make(map[int]bool)
	var centroid meshx.Vector
	n := 0
	for _, f := range faces {
		for _, vert := range mesh.FaceVertices(f) {
			if seen[vert] {
				continue
			}
			seen[vert] = true
			centroid = centroid.Add(mesh.Vertex(vert).Position)
			n++
		}
	}
	if n == 0 {
		return meshx.NewVector(0, 1, 0)
	}
	centroid = centroid.MulScalar(1 / float64(n))

	var cov [3][3]float64
	for vert := range seen {
		d := mesh.Vertex(vert).Position.Sub(centroid)
		arr := [3]float64{d.X(), d.Y(), d.Z()}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i][j] += arr[i] * arr[j]
			}
		}
	}

	return powerIterate(cov, meshx.NewVector(1, 0.5, 0.25), 50)
}

func powerIterate(m [3][3]float64, seed meshx.Vector, iterations int) meshx.Vector {
	v := seed
	for i := 0; i < iterations; i++ {
		next := matVec(m, v)
		if next.Mag() < 1e-15 {
			return seed.Unit()
		}
		v = next.Unit()
	}
	return v
}

func matVec(m [3][3]float64, v meshx.Vector) meshx.Vector {
	arr := [3]float64{v.X(), v.Y(), v.Z()}
	var out [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i] += m[i][j] * arr[j]
		}
	}
	return meshx.NewVector(out[0], out[1], out[2])
}

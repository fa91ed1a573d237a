// Package primitive builds a handful of starting meshes straight onto a
// halfedge.EditableMesh, exercising nothing but AddVertex and AddFace the
// way any other mesh consumer would.
package primitive

import (
	"math"

	"github.com/ajcurley/limemesh"
	"github.com/ajcurley/limemesh/halfedge"
)

// Cube builds a closed, manifold cube of the given edge length, centered on
// the origin, as six CCW quads with outward normals.
func Cube(size float64) *halfedge.EditableMesh {
	m := halfedge.NewEditableMesh()
	h := size / 2

	positions := []meshx.Vector{
		meshx.NewVector(-h, -h, -h), // 0
		meshx.NewVector(h, -h, -h),  // 1
		meshx.NewVector(h, h, -h),   // 2
		meshx.NewVector(-h, h, -h),  // 3
		meshx.NewVector(-h, -h, h),  // 4
		meshx.NewVector(h, -h, h),   // 5
		meshx.NewVector(h, h, h),    // 6
		meshx.NewVector(-h, h, h),   // 7
	}

	for _, p := range positions {
		m.AddVertex(halfedge.Vertex{Position: p, Color: [4]float64{1, 1, 1, 1}})
	}

	faces := [][]int{
		{4, 5, 6, 7}, // +z
		{1, 0, 3, 2}, // -z
		{5, 1, 2, 6}, // +x
		{0, 4, 7, 3}, // -x
		{7, 6, 2, 3}, // +y
		{0, 1, 5, 4}, // -y
	}

	for _, f := range faces {
		m.AddFace(f)
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	return m
}

// Cylinder builds a cylinder of the given radius and height, centered on
// the origin with its axis along +Z, as segments side quads with, if caps is
// set, end caps of capRings concentric rings each (see addCap). divisions
// subdivides the side wall
// along its height, adding intermediate horizontal rings; it has no effect
// on the caps. segments must be at least 3; divisions at least 1.
func Cylinder(radius, height float64, segments, divisions int, caps bool, capRings int) *halfedge.EditableMesh {
	if segments < 3 {
		segments = 3
	}
	if divisions < 1 {
		divisions = 1
	}

	m := halfedge.NewEditableMesh()
	halfHeight := height / 2

	// rings[d][s] is the vertex index at division d (0 == bottom,
	// divisions == top) and side segment s.
	rings := make([][]int, divisions+1)
	for d := 0; d <= divisions; d++ {
		z := -halfHeight + height*float64(d)/float64(divisions)
		rings[d] = make([]int, segments)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			x, y := radius*math.Cos(theta), radius*math.Sin(theta)
			rings[d][s] = m.AddVertex(halfedge.Vertex{
				Position: meshx.NewVector(x, y, z),
				Color:    [4]float64{1, 1, 1, 1},
			})
		}
	}

	for d := 0; d < divisions; d++ {
		for s := 0; s < segments; s++ {
			next := (s + 1) % segments
			m.AddFace([]int{
				rings[d][s], rings[d][next],
				rings[d+1][next], rings[d+1][s],
			})
		}
	}

	if caps {
		addCap(m, rings[0], false, radius, -halfHeight, capRings)
		addCap(m, rings[divisions], true, radius, halfHeight, capRings)
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	return m
}

// addCap fills a circular cap with capRings concentric rings shrinking
// toward a single center vertex, rather than a single n-gon: the innermost
// ring is a fan of triangles around the center and each of the other
// capRings-1 rings is a band of quads, so caps keep a roughly uniform
// density as segments grows.
// outward reverses winding for the top cap so its normal also points away
// from the cylinder's body.
func addCap(m *halfedge.EditableMesh, rim []int, outward bool, radius, z float64, capRings int) {
	if capRings < 1 {
		capRings = 1
	}

	segments := len(rim)
	center := m.AddVertex(halfedge.Vertex{
		Position: meshx.NewVector(0, 0, z),
		Color:    [4]float64{1, 1, 1, 1},
	})

	// innerRings[r][s], r == 0 nearest the center, r == capRings-1 == rim.
	innerRings := make([][]int, capRings)
	for r := 0; r < capRings-1; r++ {
		frac := float64(r+1) / float64(capRings)
		innerRings[r] = make([]int, segments)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			x, y := radius*frac*math.Cos(theta), radius*frac*math.Sin(theta)
			innerRings[r][s] = m.AddVertex(halfedge.Vertex{
				Position: meshx.NewVector(x, y, z),
				Color:    [4]float64{1, 1, 1, 1},
			})
		}
	}
	innerRings[capRings-1] = rim

	// outward picks the vertex order that gives a CCW-from-+z winding (used
	// for the top cap); the bottom cap is its exact reverse, since the two
	// caps face opposite directions.
	for s := 0; s < segments; s++ {
		next := (s + 1) % segments
		cycle := []int{center, innerRings[0][next], innerRings[0][s]}
		if outward {
			cycle = []int{center, innerRings[0][s], innerRings[0][next]}
		}
		m.AddFace(cycle)
	}

	for r := 0; r+1 < capRings; r++ {
		for s := 0; s < segments; s++ {
			next := (s + 1) % segments
			var cycle []int
			if outward {
				cycle = []int{innerRings[r][s], innerRings[r+1][s], innerRings[r+1][next], innerRings[r][next]}
			} else {
				cycle = []int{innerRings[r][next], innerRings[r+1][next], innerRings[r+1][s], innerRings[r][s]}
			}
			m.AddFace(cycle)
		}
	}
}

package uv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajcurley/limemesh"
	"github.com/ajcurley/limemesh/halfedge"
	"github.com/ajcurley/limemesh/uv"
)

// buildUnitCube builds a closed, manifold unit cube (six CCW quads,
// outward normals) centered at the origin.
func buildUnitCube(t *testing.T) *halfedge.EditableMesh {
	t.Helper()

	m := halfedge.NewEditableMesh()

	positions := []meshx.Vector{
		meshx.NewVector(-0.5, -0.5, -0.5), // 0
		meshx.NewVector(0.5, -0.5, -0.5),  // 1
		meshx.NewVector(0.5, 0.5, -0.5),   // 2
		meshx.NewVector(-0.5, 0.5, -0.5),  // 3
		meshx.NewVector(-0.5, -0.5, 0.5),  // 4
		meshx.NewVector(0.5, -0.5, 0.5),   // 5
		meshx.NewVector(0.5, 0.5, 0.5),    // 6
		meshx.NewVector(-0.5, 0.5, 0.5),   // 7
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
		require.NotEqual(t, halfedge.Null, m.AddFace(f))
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	require.Empty(t, m.ValidateTopology())

	return m
}

// buildOpenCylinder builds an 8-sided open cylinder (no caps) of radius 1,
// height 2, centered on the origin with its axis along +Z. Face 0 straddles
// theta == 0 so it is guaranteed to need seam-splitting.
func buildOpenCylinder(t *testing.T) *halfedge.EditableMesh {
	t.Helper()

	const sides = 8
	m := halfedge.NewEditableMesh()

	bottom := make([]int, sides)
	top := make([]int, sides)

	for i := 0; i < sides; i++ {
		// Offset by half a step so a wedge spans theta == 0 symmetrically.
		theta := (float64(i)-0.5)/float64(sides)*2*math.Pi
		x, y := math.Cos(theta), math.Sin(theta)
		bottom[i] = m.AddVertex(halfedge.Vertex{Position: meshx.NewVector(x, y, -1), Color: [4]float64{1, 1, 1, 1}})
		top[i] = m.AddVertex(halfedge.Vertex{Position: meshx.NewVector(x, y, 1), Color: [4]float64{1, 1, 1, 1}})
	}

	for i := 0; i < sides; i++ {
		j := (i + 1) % sides
		require.NotEqual(t, halfedge.Null, m.AddFace([]int{bottom[i], bottom[j], top[j], top[i]}))
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	return m
}

func TestPlanarProjectByNormalGroupsOpposingFacesSeparately(t *testing.T) {
	m := buildUnitCube(t)
	uv.PlanarProjectByNormal(m, 1e-6, 0.05)

	for i := 0; i < m.VertexCount(); i++ {
		c := m.Vertex(i).UV
		assert.GreaterOrEqual(t, c[0], 0.0)
		assert.GreaterOrEqual(t, c[1], 0.0)
		assert.LessOrEqual(t, c[0], 1.0)
		assert.LessOrEqual(t, c[1], 1.0)
	}
}

func TestBoxProjectUVsUsesDominantAxis(t *testing.T) {
	m := buildUnitCube(t)
	uv.BoxProjectUVs(m, 1.0)

	// Vertex 4 is shared by the +z, -x and -y faces; the -y face (index 5)
	// writes it last and, with Y dominant, projects it onto (x, z).
	v4 := m.Vertex(4).UV
	assert.InDelta(t, -0.5, v4[0], 1e-9)
	assert.InDelta(t, 0.5, v4[1], 1e-9)
}

func TestPerFaceProjectUVsKeepsEachFaceItsOwnIsland(t *testing.T) {
	m := buildUnitCube(t)
	uv.PerFaceProjectUVs(m, 0.02)

	for i := 0; i < m.VertexCount(); i++ {
		c := m.Vertex(i).UV
		assert.GreaterOrEqual(t, c[0], 0.0)
		assert.LessOrEqual(t, c[0], 1.0)
	}
}

func TestUniformSquareUVsPlacesQuadCornersAtSquareCorners(t *testing.T) {
	m := buildUnitCube(t)
	uv.UniformSquareUVs(m, 0.1)

	// Vertices 4 and 5 are written last by the -y face {0,1,5,4} (corners
	// 3 and 2), vertices 6 and 7 by the +y face {7,6,2,3} (corners 1 and 0).
	corners := []([2]float64){
		m.Vertex(4).UV,
		m.Vertex(5).UV,
		m.Vertex(6).UV,
		m.Vertex(7).UV,
	}

	assert.InDelta(t, 0.1, corners[0][0], 1e-9)
	assert.InDelta(t, 0.9, corners[0][1], 1e-9)
	assert.InDelta(t, 0.9, corners[1][0], 1e-9)
	assert.InDelta(t, 0.9, corners[1][1], 1e-9)
	assert.InDelta(t, 0.9, corners[2][0], 1e-9)
	assert.InDelta(t, 0.1, corners[2][1], 1e-9)
	assert.InDelta(t, 0.1, corners[3][0], 1e-9)
	assert.InDelta(t, 0.1, corners[3][1], 1e-9)
}

func TestUniformSquareUVsClampsMargin(t *testing.T) {
	m := buildUnitCube(t)
	uv.UniformSquareUVs(m, 10)

	c := m.Vertex(4).UV
	assert.InDelta(t, 0.5, c[0], 1e-9)
	assert.InDelta(t, 0.5, c[1], 1e-9)
}

func TestCylindricalProjectUVsSplitsSeamFace(t *testing.T) {
	m := buildOpenCylinder(t)
	originalVertexCount := m.VertexCount()

	uv.CylindricalProjectUVs(m, meshx.NewVector(0, 0, 1), false)

	require.Greater(t, m.VertexCount(), originalVertexCount)
	require.Empty(t, m.ValidateTopology())

	for f := 0; f < m.FaceCount(); f++ {
		if m.Face(f).VertexCount == 0 {
			continue
		}

		verts := m.FaceVertices(f)
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range verts {
			u := m.Vertex(v).UV[0]
			if u < lo {
				lo = u
			}
			if u > hi {
				hi = u
			}
		}
		assert.LessOrEqual(t, hi-lo, 0.5, "face %d should not wrap past the seam after splitting", f)
	}
}

func TestCylindricalProjectUVsWithPCAFindsOwnAxis(t *testing.T) {
	m := buildOpenCylinder(t)
	uv.CylindricalProjectUVs(m, meshx.NewVector(1, 0, 0), true)

	require.Empty(t, m.ValidateTopology())

	for f := 0; f < m.FaceCount(); f++ {
		if m.Face(f).VertexCount == 0 {
			continue
		}
		for _, v := range m.FaceVertices(f) {
			c := m.Vertex(v).UV
			assert.GreaterOrEqual(t, c[0], -1e-9)
			assert.LessOrEqual(t, c[0], 1.0+1e-9)
			assert.GreaterOrEqual(t, c[1], -1e-9)
			assert.LessOrEqual(t, c[1], 1.0+1e-9)
		}
	}
}

func TestSmartProjectUVsRespectsAngleThreshold(t *testing.T) {
	m := buildUnitCube(t)
	uv.SmartProjectUVs(m, math.Pi/4, 0.05)

	for i := 0; i < m.VertexCount(); i++ {
		c := m.Vertex(i).UV
		assert.GreaterOrEqual(t, c[0], 0.0)
		assert.LessOrEqual(t, c[0], 1.0)
	}
}

func TestSewAllUVsReportsWeldCountAfterPerFaceProjection(t *testing.T) {
	m := buildUnitCube(t)
	uv.PerFaceProjectUVs(m, 0.05)

	welded := uv.SewAllUVs(m, nil)
	assert.GreaterOrEqual(t, welded, 0)
}

func TestSewAllUVsIsNoOpWhenAlreadyCoincident(t *testing.T) {
	m := buildUnitCube(t)
	uv.PlanarProjectByNormal(m, 1e-6, 0.05)

	first := uv.SewAllUVs(m, nil)
	second := uv.SewAllUVs(m, nil)
	assert.GreaterOrEqual(t, first, 0)
	assert.Equal(t, 0, second)
}

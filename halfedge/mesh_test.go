package halfedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajcurley/limemesh"
)

// newUnitCube builds a closed, manifold unit cube (six CCW quads, outward
// normals) centered at the origin, shared by every test in this package.
func newUnitCube(t *testing.T) *EditableMesh {
	t.Helper()

	m := NewEditableMesh()

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
		m.AddVertex(Vertex{Position: p, Color: [4]float64{1, 1, 1, 1}})
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
		require.NotEqual(t, Null, m.AddFace(f))
	}

	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	require.Empty(t, m.ValidateTopology())

	return m
}

func TestNewUnitCubeIsManifold(t *testing.T) {
	m := newUnitCube(t)

	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 6, m.FaceCount())
	assert.Equal(t, 24, m.HalfEdgeCount())

	for h := range m.halfEdges {
		assert.NotEqual(t, Null, m.halfEdges[h].Twin, "half-edge %d should have a twin on a closed cube", h)
	}
}

func TestAddFaceRejectsTooFewVertices(t *testing.T) {
	m := NewEditableMesh()
	m.AddVertex(Vertex{Position: meshx.NewVector(0, 0, 0)})
	m.AddVertex(Vertex{Position: meshx.NewVector(1, 0, 0)})

	assert.Equal(t, Null, m.AddFace([]int{0, 1}))
}

func TestAddFaceRejectsOutOfRangeVertex(t *testing.T) {
	m := NewEditableMesh()
	m.AddVertex(Vertex{Position: meshx.NewVector(0, 0, 0)})

	assert.Equal(t, Null, m.AddFace([]int{0, 1, 2}))
}

func TestFaceVerticesMatchInsertionOrder(t *testing.T) {
	m := newUnitCube(t)
	assert.Equal(t, []int{4, 5, 6, 7}, m.FaceVertices(0))
}

func TestFaceNeighborsCountsFourForEachCubeFace(t *testing.T) {
	m := newUnitCube(t)
	for f := 0; f < m.FaceCount(); f++ {
		assert.Len(t, m.FaceNeighbors(f), 4)
	}
}

func TestVertexFacesCountsThreeForEachCubeVertex(t *testing.T) {
	m := newUnitCube(t)
	for v := 0; v < m.VertexCount(); v++ {
		assert.Len(t, m.VertexFaces(v), 3)
	}
}

func TestVertexNeighborsCountsThreeForEachCubeVertex(t *testing.T) {
	m := newUnitCube(t)
	for v := 0; v < m.VertexCount(); v++ {
		assert.Len(t, m.VertexNeighbors(v), 3)
	}
}

func TestFaceNormalPointsOutward(t *testing.T) {
	m := newUnitCube(t)
	n := m.FaceNormal(0)
	assert.InDelta(t, 0, n.X(), 1e-9)
	assert.InDelta(t, 0, n.Y(), 1e-9)
	assert.InDelta(t, 1, n.Z(), 1e-9)
}

func TestEdgeLoopOnCubeFaceVisitsFourEdges(t *testing.T) {
	m := newUnitCube(t)
	h := m.FaceHalfEdges(0)[0]
	loop := m.EdgeLoop(h)
	assert.Len(t, loop, 4)
}

func TestSelectionRoundTrip(t *testing.T) {
	m := newUnitCube(t)

	m.SelectVertex(0, false)
	m.SelectFace(1, true)
	assert.ElementsMatch(t, []int{0}, m.SelectedVertices())
	assert.ElementsMatch(t, []int{1}, m.SelectedFaces())
	assert.True(t, m.HasSelection())

	m.ClearSelection()
	assert.False(t, m.HasSelection())
}

func TestAffectedVerticesByPositionExpandsThroughSeam(t *testing.T) {
	m := NewEditableMesh()

	p := meshx.NewVector(0, 0, 0)
	a := m.AddVertex(Vertex{Position: p})
	b := m.AddVertex(Vertex{Position: p})
	m.AddVertex(Vertex{Position: meshx.NewVector(1, 0, 0)})

	m.SelectVertex(a, false)
	affected := m.AffectedVerticesByPosition()

	assert.Contains(t, affected, a)
	assert.Contains(t, affected, b)
}

package halfedge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajcurley/limemesh"
)

func TestInsertEdgeLoopSplitsRingOfFourQuads(t *testing.T) {
	m := newUnitCube(t)

	// Half-edge 1 is the front face's 5->6 edge, a vertical edge of the
	// four-face side ring around the y axis.
	m.InsertEdgeLoop(1, 1)

	assert.Empty(t, m.ValidateTopology())
	assert.Equal(t, 10, m.FaceCount())
	assert.Equal(t, 12, m.VertexCount())
}

func TestInsertEdgeLoopNoOpOnOutOfRangeHalfEdge(t *testing.T) {
	m := newUnitCube(t)
	m.InsertEdgeLoop(-1, 1)
	assert.Equal(t, 6, m.FaceCount())
}

func TestInsertEdgeLoopClampsCountBelowOne(t *testing.T) {
	m := newUnitCube(t)
	m.InsertEdgeLoop(1, 0)

	assert.Empty(t, m.ValidateTopology())
	assert.Equal(t, 10, m.FaceCount())
}

func TestHollowDoublesClosedCube(t *testing.T) {
	m := newUnitCube(t)
	m.Hollow(0.1)

	assert.Empty(t, m.ValidateTopology())
	assert.Equal(t, 12, m.FaceCount())
	assert.Equal(t, 16, m.VertexCount())
}

func TestHollowNoOpOnNonPositiveThickness(t *testing.T) {
	m := newUnitCube(t)
	m.Hollow(0)
	assert.Equal(t, 6, m.FaceCount())
}

func TestBooleanCutBoxCutsThinWallAndAddsJambs(t *testing.T) {
	m := NewEditableMesh()

	front := []meshx.Vector{
		meshx.NewVector(-1, -1, 0.5),
		meshx.NewVector(1, -1, 0.5),
		meshx.NewVector(1, 1, 0.5),
		meshx.NewVector(-1, 1, 0.5),
	}
	back := []meshx.Vector{
		meshx.NewVector(1, -1, -0.5),
		meshx.NewVector(-1, -1, -0.5),
		meshx.NewVector(-1, 1, -0.5),
		meshx.NewVector(1, 1, -0.5),
	}

	var fv, bv []int
	for _, p := range front {
		fv = append(fv, m.AddVertex(Vertex{Position: p}))
	}
	for _, p := range back {
		bv = append(bv, m.AddVertex(Vertex{Position: p}))
	}

	m.AddFace(fv)
	m.AddFace(bv)
	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	m.BooleanCutBox(meshx.NewVector(-0.2, -0.2, -1), meshx.NewVector(0.2, 0.2, 1))

	assert.Empty(t, m.ValidateTopology())
	assert.Equal(t, 12, m.FaceCount()) // 4+4 frame quads, 4 jamb quads
}

func TestBooleanCutBoxNoOpWhenNoFaceQualifies(t *testing.T) {
	m := newUnitCube(t)
	m.BooleanCutBox(meshx.NewVector(10, 10, 10), meshx.NewVector(11, 11, 11))
	assert.Equal(t, 6, m.FaceCount())
}

func TestFlipNormalsSingleFaceReversesWinding(t *testing.T) {
	m := newUnitCube(t)

	before := m.FaceNormal(0)
	m.SelectFace(0, false)
	m.FlipNormals()

	assert.Empty(t, m.ValidateTopology())
	after := m.FaceNormal(0)
	assert.InDelta(t, -1, before.Dot(after), 1e-9)
	assert.ElementsMatch(t, []int{0}, m.SelectedFaces())
}

func TestFlipNormalsNoOpOnEmptySelection(t *testing.T) {
	m := newUnitCube(t)
	m.FlipNormals()
	assert.Empty(t, m.ValidateTopology())
}

func TestTranslateMovesAffectedVerticesByPosition(t *testing.T) {
	m := newUnitCube(t)
	m.SelectVertex(0, false)
	m.Translate(meshx.NewVector(1, 0, 0))

	assert.InDelta(t, 0.5, m.vertices[0].Position.X(), 1e-9)
}

func TestScaleExpandsAroundPivot(t *testing.T) {
	m := newUnitCube(t)
	m.SelectFace(0, false) // selects all four vertices of the +z face
	m.Scale(meshx.NewVector(2, 2, 2), meshx.NewVector(0, 0, 0))

	for _, v := range m.FaceVertices(0) {
		assert.InDelta(t, 1.0, math.Abs(m.vertices[v].Position.X()), 1e-9)
	}
}

func TestRotateByNinetyDegreesAboutZ(t *testing.T) {
	m := NewEditableMesh()
	v := m.AddVertex(Vertex{Position: meshx.NewVector(1, 0, 0)})
	m.AddVertex(Vertex{Position: meshx.NewVector(0, 1, 0)})
	m.AddVertex(Vertex{Position: meshx.NewVector(0, 0, 1)})
	m.AddFace([]int{0, 1, 2})
	m.SelectVertex(v, false)

	m.Rotate(meshx.NewVector(0, 0, 90), meshx.NewVector(0, 0, 0))

	p := m.vertices[v].Position
	assert.InDelta(t, 0, p.X(), 1e-6)
	assert.InDelta(t, 1, p.Y(), 1e-6)
}

func TestFlattenXSnapsToAverage(t *testing.T) {
	m := newUnitCube(t)
	for v := 0; v < m.VertexCount(); v++ {
		m.SelectVertex(v, v > 0)
	}

	m.FlattenX()

	for v := 0; v < m.VertexCount(); v++ {
		assert.InDelta(t, 0, m.vertices[v].Position.X(), 1e-9)
	}
}

func TestMakeCoplanarProjectsPerturbedFaceFlat(t *testing.T) {
	m := NewEditableMesh()
	m.AddVertex(Vertex{Position: meshx.NewVector(0, 0, 0.01)})
	m.AddVertex(Vertex{Position: meshx.NewVector(1, 0, -0.01)})
	m.AddVertex(Vertex{Position: meshx.NewVector(1, 1, 0.01)})
	m.AddVertex(Vertex{Position: meshx.NewVector(0, 1, -0.01)})
	m.AddFace([]int{0, 1, 2, 3})

	for v := 0; v < 4; v++ {
		m.SelectVertex(v, v > 0)
	}

	m.MakeCoplanar()

	n := m.FaceNormal(0)
	for _, v := range m.FaceVertices(0) {
		d := m.vertices[v].Position.Sub(m.vertices[m.FaceVertices(0)[0]].Position).Dot(n)
		assert.InDelta(t, 0, d, 1e-6)
	}
}

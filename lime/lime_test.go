package lime_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajcurley/limemesh"
	"github.com/ajcurley/limemesh/halfedge"
	"github.com/ajcurley/limemesh/lime"
)

func buildQuad(t *testing.T) *halfedge.EditableMesh {
	t.Helper()

	m := halfedge.NewEditableMesh()
	positions := []meshx.Vector{
		meshx.NewVector(0, 0, 0),
		meshx.NewVector(1, 0, 0),
		meshx.NewVector(1, 1, 0),
		meshx.NewVector(0, 1, 0),
	}

	var indices []int
	for i, p := range positions {
		indices = append(indices, m.AddVertex(halfedge.Vertex{
			Position: p,
			UV:       [2]float64{float64(i) * 0.25, 0},
			Color:    [4]float64{1, 0, 0, 1},
		}))
	}

	require.NotEqual(t, halfedge.Null, m.AddFace(indices))
	m.LinkTwinsByPosition()
	m.RebuildEdgeMap()
	m.RecomputeNormals()

	return m
}

func TestWriteReadRoundTripsVerticesAndTopology(t *testing.T) {
	m := buildQuad(t)
	doc := &lime.Document{Mesh: m}

	var buf bytes.Buffer
	require.NoError(t, lime.NewWriter(&buf).Write(doc))

	read, err := lime.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Equal(t, m.VertexCount(), read.Mesh.VertexCount())
	assert.Equal(t, m.FaceCount(), read.Mesh.FaceCount())
	assert.Equal(t, m.HalfEdgeCount(), read.Mesh.HalfEdgeCount())

	for i := 0; i < m.VertexCount(); i++ {
		want := m.Vertex(i)
		got := read.Mesh.Vertex(i)
		assert.InDelta(t, want.Position.X(), got.Position.X(), 1e-4)
		assert.InDelta(t, want.Position.Y(), got.Position.Y(), 1e-4)
		assert.InDelta(t, want.Position.Z(), got.Position.Z(), 1e-4)
		assert.Equal(t, want.Color, got.Color)
		assert.Equal(t, want.UV, got.UV)
	}

	// The quad has no adjacent face, so every half-edge is a boundary edge
	// and its twin must round-trip as the null sentinel, not 0.
	for h := 0; h < read.Mesh.HalfEdgeCount(); h++ {
		assert.Equal(t, halfedge.Null, read.Mesh.HalfEdge(h).Twin)
	}
}

func TestReadFallsBackToWhiteWhenRGBASegmentAbsent(t *testing.T) {
	src := "v 0: 1 2 3 | 0 0 1 | 0.5 0.5 | 4294967295 0\n"

	doc, err := lime.NewReader(strings.NewReader(src)).Read()
	require.NoError(t, err)
	require.Equal(t, 1, doc.Mesh.VertexCount())

	v := doc.Mesh.Vertex(0)
	assert.Equal(t, [4]float64{1, 1, 1, 1}, v.Color)
	assert.InDelta(t, 1, v.Position.X(), 1e-9)
	assert.InDelta(t, 2, v.Position.Y(), 1e-9)
	assert.InDelta(t, 3, v.Position.Z(), 1e-9)
	assert.Equal(t, halfedge.Null, v.OutgoingHalfEdge)
}

func TestReadRecoversTransformAndTexture(t *testing.T) {
	m := halfedge.NewEditableMesh()
	doc := &lime.Document{
		Mesh: m,
		Transform: &lime.Transform{
			Position: meshx.NewVector(1, 2, 3),
			Rotation: mgl64.QuatIdent(),
			Scale:    meshx.NewVector(1, 1, 1),
		},
		Texture: &lime.Texture{
			Width:  1,
			Height: 1,
			Data:   []byte{10, 20, 30, 40},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, lime.NewWriter(&buf).Write(doc))

	read, err := lime.NewReader(&buf).Read()
	require.NoError(t, err)

	require.NotNil(t, read.Transform)
	assert.InDelta(t, 1, read.Transform.Position.X(), 1e-4)
	assert.InDelta(t, 2, read.Transform.Position.Y(), 1e-4)
	assert.InDelta(t, 3, read.Transform.Position.Z(), 1e-4)
	assert.InDelta(t, 1, read.Transform.Rotation.W, 1e-4)

	require.NotNil(t, read.Texture)
	assert.Equal(t, 1, read.Texture.Width)
	assert.Equal(t, 1, read.Texture.Height)
	assert.Equal(t, []byte{10, 20, 30, 40}, read.Texture.Data)
}

func TestReadSkipsMalformedLineAndContinues(t *testing.T) {
	src := strings.Join([]string{
		"v 0: not a number here at all",
		"v 1: 0 0 0 | 0 0 1 | 0 0 | 1 1 1 1 | 4294967295 0",
	}, "\n")

	doc, err := lime.NewReader(strings.NewReader(src)).Read()
	require.NoError(t, err)

	require.Equal(t, 2, doc.Mesh.VertexCount())
	assert.Equal(t, halfedge.Null, doc.Mesh.Vertex(0).OutgoingHalfEdge)
	assert.Equal(t, halfedge.Null, doc.Mesh.Vertex(1).OutgoingHalfEdge)
}

func TestReadTrustsTwinsWithoutRelinking(t *testing.T) {
	// A lone half-edge whose twin field names an index well outside any
	// geometrically sensible pairing: Read must preserve it verbatim
	// rather than recomputing twins by position.
	src := "he 0: 1 0 1 1 5\n"

	doc, err := lime.NewReader(strings.NewReader(src)).Read()
	require.NoError(t, err)

	require.Equal(t, 1, doc.Mesh.HalfEdgeCount())
	assert.Equal(t, 5, doc.Mesh.HalfEdge(0).Twin)
}

func TestWriteThenReadPreservesSelectionFlags(t *testing.T) {
	m := buildQuad(t)
	m.SelectVertex(0, false)
	m.SelectFace(0, true)

	var buf bytes.Buffer
	require.NoError(t, lime.NewWriter(&buf).Write(&lime.Document{Mesh: m}))

	read, err := lime.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.True(t, read.Mesh.Vertex(0).Selected)
	assert.True(t, read.Mesh.Face(0).Selected)
}

package exchange

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOBJReaderParsesVerticesAndFace(t *testing.T) {
	src := strings.NewReader(`
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)

	r := NewOBJReader(src)
	require.NoError(t, r.Read())

	assert.Equal(t, 3, r.GetNumberOfVertices())
	assert.Equal(t, 1, r.GetNumberOfFaces())
	assert.Equal(t, []int{0, 1, 2}, r.GetFace(0))
}

func TestOBJReaderParsesUVsAndNormals(t *testing.T) {
	src := strings.NewReader(`
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`)

	r := NewOBJReader(src)
	require.NoError(t, r.Read())

	assert.Equal(t, 3, r.GetNumberOfUVs())
	assert.Equal(t, 1, r.GetNumberOfNormals())
}

func TestOBJReaderResolvesNegativeIndices(t *testing.T) {
	src := strings.NewReader(`
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)

	r := NewOBJReader(src)
	require.NoError(t, r.Read())

	assert.Equal(t, []int{0, 1, 2}, r.GetFace(0))
}

func TestOBJReaderTracksPatches(t *testing.T) {
	src := strings.NewReader(`
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
g hull
f 1 2 3
g deck
f 2 4 3
`)

	r := NewOBJReader(src)
	require.NoError(t, r.Read())

	require.Equal(t, 2, r.GetNumberOfPatches())
	assert.Equal(t, "hull", r.GetPatch(0))
	assert.Equal(t, "deck", r.GetPatch(1))
	assert.Equal(t, 0, r.GetFacePatch(0))
	assert.Equal(t, 1, r.GetFacePatch(1))
}

func TestOBJReaderLoadMeshSplitsCornersByUVSeam(t *testing.T) {
	// Two triangles sharing vertex 1, but with different vt at that corner:
	// the shared position should become two distinct mesh vertices.
	src := strings.NewReader(`
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vt 0 0
vt 1 0
f 1 2 3
f 1/2 4 2
`)

	r := NewOBJReader(src)
	require.NoError(t, r.Read())

	mesh := r.LoadMesh()
	assert.Equal(t, 5, mesh.VertexCount())
	assert.Equal(t, 2, mesh.FaceCount())
}

func TestOBJReaderLoadMeshRecomputesNormalsWhenAbsent(t *testing.T) {
	src := strings.NewReader(`
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)

	r := NewOBJReader(src)
	require.NoError(t, r.Read())

	mesh := r.LoadMesh()
	n := mesh.Vertex(0).Normal
	assert.Greater(t, n.Mag(), 0.0)
}

func TestOBJWriterRoundTripsVertexAndFaceCounts(t *testing.T) {
	src := strings.NewReader(`
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
f 1 2 4 3
`)

	r := NewOBJReader(src)
	require.NoError(t, r.Read())
	mesh := r.LoadMesh()

	var buf bytes.Buffer
	require.NoError(t, NewOBJWriter(&buf, mesh).Write())

	out := NewOBJReader(strings.NewReader(buf.String()))
	require.NoError(t, out.Read())

	assert.Equal(t, mesh.VertexCount(), out.GetNumberOfVertices())
	assert.Equal(t, 1, out.GetNumberOfFaces())
	assert.Equal(t, 4, len(out.GetFace(0)))
}

func TestOBJReaderRejectsMalformedVertex(t *testing.T) {
	src := strings.NewReader("v 0 0\n")
	r := NewOBJReader(src)
	assert.Error(t, r.Read())
}

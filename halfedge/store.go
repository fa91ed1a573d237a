package halfedge

import "github.com/ajcurley/limemesh/spatial"

// MaxUndoLevels bounds the undo/redo stacks (spec: cap 50).
const MaxUndoLevels = 50

// EditableMesh is the topology store: three parallel arrays plus the edge
// map, owned exclusively by one instance. All references between elements
// are plain indices; handles returned to callers do not outlive a rebuild.
type EditableMesh struct {
	vertices  []Vertex
	halfEdges []HalfEdge
	faces     []Face

	edgeMap       map[edgeKey]int
	selectedEdges map[int]struct{}

	undoStack []snapshot
	redoStack []snapshot

	// faceIndex is the cached raycast broad-phase. It is built lazily and
	// invalidated by any topology or position change; see raycast.go.
	faceIndex *spatial.Octree
}

// NewEditableMesh constructs an empty topology store.
func NewEditableMesh() *EditableMesh {
	return &EditableMesh{
		edgeMap:       make(map[edgeKey]int),
		selectedEdges: make(map[int]struct{}),
	}
}

// VertexCount returns the number of vertices.
func (m *EditableMesh) VertexCount() int {
	return len(m.vertices)
}

// FaceCount returns the number of faces.
func (m *EditableMesh) FaceCount() int {
	return len(m.faces)
}

// HalfEdgeCount returns the number of half-edges.
func (m *EditableMesh) HalfEdgeCount() int {
	return len(m.halfEdges)
}

// Vertex returns a pointer to the vertex at index.
func (m *EditableMesh) Vertex(index int) *Vertex {
	return &m.vertices[index]
}

// HalfEdge returns a pointer to the half-edge at index.
func (m *EditableMesh) HalfEdge(index int) *HalfEdge {
	return &m.halfEdges[index]
}

// Face returns a pointer to the face at index.
func (m *EditableMesh) Face(index int) *Face {
	return &m.faces[index]
}

// Clear empties everything, including undo/redo history.
func (m *EditableMesh) Clear() {
	m.vertices = nil
	m.halfEdges = nil
	m.faces = nil
	m.edgeMap = make(map[edgeKey]int)
	m.selectedEdges = make(map[int]struct{})
	m.undoStack = nil
	m.redoStack = nil
	m.faceIndex = nil
}

// AddVertex appends a vertex and returns its index.
func (m *EditableMesh) AddVertex(v Vertex) int {
	v.OutgoingHalfEdge = Null
	m.vertices = append(m.vertices, v)
	return len(m.vertices) - 1
}

// SetMeshData bulk-restores the three arrays and rebuilds the edge map. It
// does not re-link twins; the caller supplies Twin fields directly (used by
// the lime codec, which trusts twins from the file).
func (m *EditableMesh) SetMeshData(vertices []Vertex, halfEdges []HalfEdge, faces []Face) {
	m.vertices = vertices
	m.halfEdges = halfEdges
	m.faces = faces
	m.selectedEdges = make(map[int]struct{})
	m.faceIndex = nil

	m.RebuildEdgeMap()
}

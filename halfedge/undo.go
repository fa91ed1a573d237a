package halfedge

// snapshot is a by-value copy of the topology store's mutable state.
type snapshot struct {
	vertices      []Vertex
	halfEdges     []HalfEdge
	faces         []Face
	edgeMap       map[edgeKey]int
	selectedEdges map[int]struct{}
}

func (m *EditableMesh) snapshot() snapshot {
	s := snapshot{
		vertices:      append([]Vertex(nil), m.vertices...),
		halfEdges:     append([]HalfEdge(nil), m.halfEdges...),
		faces:         append([]Face(nil), m.faces...),
		edgeMap:       make(map[edgeKey]int, len(m.edgeMap)),
		selectedEdges: make(map[int]struct{}, len(m.selectedEdges)),
	}

	for k, v := range m.edgeMap {
		s.edgeMap[k] = v
	}
	for k, v := range m.selectedEdges {
		s.selectedEdges[k] = v
	}

	return s
}

func (m *EditableMesh) restore(s snapshot) {
	m.vertices = s.vertices
	m.halfEdges = s.halfEdges
	m.faces = s.faces
	m.edgeMap = s.edgeMap
	m.selectedEdges = s.selectedEdges
	m.faceIndex = nil
}

// SaveState pushes the current state to the undo stack and clears the redo
// stack. Hosts call this exactly once before any editing command. If the
// undo stack exceeds MaxUndoLevels, the oldest entry is dropped.
func (m *EditableMesh) SaveState() {
	m.undoStack = append(m.undoStack, m.snapshot())
	if len(m.undoStack) > MaxUndoLevels {
		m.undoStack = m.undoStack[1:]
	}
	m.redoStack = nil
}

// CanUndo reports whether there is a state to undo to.
func (m *EditableMesh) CanUndo() bool {
	return len(m.undoStack) > 0
}

// CanRedo reports whether there is a state to redo to.
func (m *EditableMesh) CanRedo() bool {
	return len(m.redoStack) > 0
}

// Undo pushes the current state to the redo stack and restores the most
// recent undo snapshot. Returns false if there is nothing to undo.
func (m *EditableMesh) Undo() bool {
	if !m.CanUndo() {
		return false
	}

	n := len(m.undoStack)
	prev := m.undoStack[n-1]
	m.undoStack = m.undoStack[:n-1]

	m.redoStack = append(m.redoStack, m.snapshot())
	m.restore(prev)

	return true
}

// Redo pushes the current state to the undo stack and restores the most
// recent redo snapshot. Returns false if there is nothing to redo.
func (m *EditableMesh) Redo() bool {
	if !m.CanRedo() {
		return false
	}

	n := len(m.redoStack)
	next := m.redoStack[n-1]
	m.redoStack = m.redoStack[:n-1]

	m.undoStack = append(m.undoStack, m.snapshot())
	m.restore(next)

	return true
}

// ClearUndoHistory discards both the undo and redo stacks.
func (m *EditableMesh) ClearUndoHistory() {
	m.undoStack = nil
	m.redoStack = nil
}

// UndoStackSize returns the number of snapshots on the undo stack.
func (m *EditableMesh) UndoStackSize() int {
	return len(m.undoStack)
}

// RedoStackSize returns the number of snapshots on the redo stack.
func (m *EditableMesh) RedoStackSize() int {
	return len(m.redoStack)
}

// Package lime reads and writes the lime text mesh format (v1.0, v2.0,
// v2.1): a line-oriented, '#'-commented encoding of a half-edge topology
// store plus optional whole-mesh transform and embedded texture.
package lime

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ajcurley/limemesh"
	"github.com/ajcurley/limemesh/halfedge"
)

// limeNullToken is the on-disk spelling of the null sentinel: spec encodes
// null as UINT32_MAX in both the lime and OBJ formats, though the in-memory
// representation used throughout halfedge is -1.
const limeNullToken = "4294967295"

// Transform is the mesh-level placement carried by the v2.1 extension.
type Transform struct {
	Position meshx.Vector
	Rotation mgl64.Quat
	Scale    meshx.Vector
}

// Texture is the embedded RGBA8 payload carried by the v2.1 extension.
type Texture struct {
	Width, Height int
	Data          []byte
}

// Document is everything a lime file can carry.
type Document struct {
	Mesh      *halfedge.EditableMesh
	Transform *Transform
	Texture   *Texture
}

// Reader parses a lime stream.
type Reader struct {
	reader io.Reader
}

// NewReader constructs a Reader over reader.
func NewReader(reader io.Reader) *Reader {
	return &Reader{reader: reader}
}

// ReadLimeFromPath opens path and parses it as a lime document.
func ReadLimeFromPath(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return NewReader(f).Read()
}

type vertexRecord struct {
	position meshx.Vector
	normal   meshx.Vector
	uv       [2]float64
	color    [4]float64
	outgoing int
	selected bool
}

type faceRecord struct {
	firstHalfEdge int
	vertexCount   int
	selected      bool
}

type halfEdgeRecord struct {
	toVertex, face, next, prev, twin int
}

// Read parses every line of the stream, skipping malformed lines and
// continuing, then bulk-restores a fresh EditableMesh from the recovered
// vertex/face/half-edge arrays. Twins are trusted from the file; the edge
// map is rebuilt afterward.
func (lr *Reader) Read() (*Document, error) {
	vertices := make(map[int]vertexRecord)
	faces := make(map[int]faceRecord)
	halfEdges := make(map[int]halfEdgeRecord)

	maxVertex, maxFace, maxHalfEdge := -1, -1, -1

	var pendingPos, pendingScale *meshx.Vector
	var pendingRot *mgl64.Quat
	var texWidth, texHeight int
	var texData []byte

	scanner := bufio.NewScanner(lr.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		switch fields[0] {
		case "v":
			idx, rec, ok := parseVertexLine(fields)
			if !ok {
				continue
			}
			vertices[idx] = rec
			maxVertex = max(maxVertex, idx)
		case "f":
			idx, rec, ok := parseFaceLine(fields)
			if !ok {
				continue
			}
			faces[idx] = rec
			maxFace = max(maxFace, idx)
		case "he":
			idx, rec, ok := parseHalfEdgeLine(fields)
			if !ok {
				continue
			}
			halfEdges[idx] = rec
			maxHalfEdge = max(maxHalfEdge, idx)
		case "transform_pos:":
			if v, ok := parseVec3(fields[1:]); ok {
				pendingPos = &v
			}
		case "transform_rot:":
			if q, ok := parseQuat(fields[1:]); ok {
				pendingRot = &q
			}
		case "transform_scale:":
			if v, ok := parseVec3(fields[1:]); ok {
				pendingScale = &v
			}
		case "tex_size:":
			if len(fields) >= 3 {
				w, errW := strconv.Atoi(fields[1])
				h, errH := strconv.Atoi(fields[2])
				if errW == nil && errH == nil {
					texWidth, texHeight = w, h
				}
			}
		case "tex_data:":
			if data, err := base64.StdEncoding.DecodeString(fields[1]); err == nil {
				texData = data
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	vertexSlice := make([]halfedge.Vertex, maxVertex+1)
	for i := range vertexSlice {
		vertexSlice[i] = halfedge.Vertex{OutgoingHalfEdge: halfedge.Null, Color: [4]float64{1, 1, 1, 1}}
	}
	for idx, rec := range vertices {
		vertexSlice[idx] = halfedge.Vertex{
			Position:         rec.position,
			Normal:           rec.normal,
			UV:               rec.uv,
			Color:            rec.color,
			OutgoingHalfEdge: rec.outgoing,
			Selected:         rec.selected,
		}
	}

	faceSlice := make([]halfedge.Face, maxFace+1)
	for idx, rec := range faces {
		faceSlice[idx] = halfedge.Face{
			FirstHalfEdge: rec.firstHalfEdge,
			VertexCount:   rec.vertexCount,
			Selected:      rec.selected,
		}
	}

	halfEdgeSlice := make([]halfedge.HalfEdge, maxHalfEdge+1)
	for i := range halfEdgeSlice {
		halfEdgeSlice[i] = halfedge.HalfEdge{ToVertex: halfedge.Null, Face: halfedge.Null, Next: halfedge.Null, Prev: halfedge.Null, Twin: halfedge.Null}
	}
	for idx, rec := range halfEdges {
		halfEdgeSlice[idx] = halfedge.HalfEdge{
			ToVertex: rec.toVertex,
			Face:     rec.face,
			Next:     rec.next,
			Prev:     rec.prev,
			Twin:     rec.twin,
		}
	}

	mesh := halfedge.NewEditableMesh()
	mesh.SetMeshData(vertexSlice, halfEdgeSlice, faceSlice)

	doc := &Document{Mesh: mesh}

	if pendingPos != nil || pendingRot != nil || pendingScale != nil {
		t := &Transform{Rotation: mgl64.QuatIdent(), Scale: meshx.NewVector(1, 1, 1)}
		if pendingPos != nil {
			t.Position = *pendingPos
		}
		if pendingRot != nil {
			t.Rotation = *pendingRot
		}
		if pendingScale != nil {
			t.Scale = *pendingScale
		}
		doc.Transform = t
	}

	if texWidth > 0 && texHeight > 0 && len(texData) == 4*texWidth*texHeight {
		doc.Texture = &Texture{Width: texWidth, Height: texHeight, Data: texData}
	}

	return doc, nil
}

func parseVertexLine(fields []string) (int, vertexRecord, bool) {
	idx, err := strconv.Atoi(strings.TrimSuffix(fields[1], ":"))
	if err != nil {
		return 0, vertexRecord{}, false
	}

	segs := splitBars(fields[2:])
	if len(segs) != 4 && len(segs) != 5 {
		return 0, vertexRecord{}, false
	}

	pos, ok := parseVec3(segs[0])
	if !ok {
		return 0, vertexRecord{}, false
	}

	normal, ok := parseVec3(segs[1])
	if !ok {
		return 0, vertexRecord{}, false
	}

	uv, ok := parseVec2(segs[2])
	if !ok {
		return 0, vertexRecord{}, false
	}

	color := [4]float64{1, 1, 1, 1}
	tail := segs[3]
	if len(segs) == 5 {
		c, ok := parseVec4(segs[3])
		if !ok {
			return 0, vertexRecord{}, false
		}
		color = c
		tail = segs[4]
	}

	if len(tail) != 2 {
		return 0, vertexRecord{}, false
	}

	outgoing, err := parseIndex(tail[0])
	if err != nil {
		return 0, vertexRecord{}, false
	}

	selected, err := parseBool(tail[1])
	if err != nil {
		return 0, vertexRecord{}, false
	}

	return idx, vertexRecord{position: pos, normal: normal, uv: uv, color: color, outgoing: outgoing, selected: selected}, true
}

func parseFaceLine(fields []string) (int, faceRecord, bool) {
	idx, err := strconv.Atoi(strings.TrimSuffix(fields[1], ":"))
	if err != nil {
		return 0, faceRecord{}, false
	}

	segs := splitBars(fields[2:])
	if len(segs) < 1 || len(segs[0]) != 3 {
		return 0, faceRecord{}, false
	}

	first, err := parseIndex(segs[0][0])
	if err != nil {
		return 0, faceRecord{}, false
	}

	count, err := strconv.Atoi(segs[0][1])
	if err != nil {
		return 0, faceRecord{}, false
	}

	selected, err := parseBool(segs[0][2])
	if err != nil {
		return 0, faceRecord{}, false
	}

	return idx, faceRecord{firstHalfEdge: first, vertexCount: count, selected: selected}, true
}

func parseHalfEdgeLine(fields []string) (int, halfEdgeRecord, bool) {
	idx, err := strconv.Atoi(strings.TrimSuffix(fields[1], ":"))
	if err != nil {
		return 0, halfEdgeRecord{}, false
	}

	rest := fields[2:]
	if len(rest) != 5 {
		return 0, halfEdgeRecord{}, false
	}

	to, err1 := parseIndex(rest[0])
	face, err2 := parseIndex(rest[1])
	next, err3 := parseIndex(rest[2])
	prev, err4 := parseIndex(rest[3])
	twin, err5 := parseIndex(rest[4])

	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return 0, halfEdgeRecord{}, false
	}

	return idx, halfEdgeRecord{toVertex: to, face: face, next: next, prev: prev, twin: twin}, true
}

func splitBars(tokens []string) [][]string {
	var segments [][]string
	var current []string

	for _, tok := range tokens {
		if tok == "|" {
			segments = append(segments, current)
			current = nil
			continue
		}
		current = append(current, tok)
	}

	segments = append(segments, current)
	return segments
}

func parseFloats(tokens []string) ([]float64, bool) {
	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func parseVec2(tokens []string) ([2]float64, bool) {
	if len(tokens) != 2 {
		return [2]float64{}, false
	}
	v, ok := parseFloats(tokens)
	if !ok {
		return [2]float64{}, false
	}
	return [2]float64{v[0], v[1]}, true
}

func parseVec3(tokens []string) (meshx.Vector, bool) {
	if len(tokens) != 3 {
		return meshx.Vector{}, false
	}
	v, ok := parseFloats(tokens)
	if !ok {
		return meshx.Vector{}, false
	}
	return meshx.NewVector(v[0], v[1], v[2]), true
}

func parseVec4(tokens []string) ([4]float64, bool) {
	if len(tokens) != 4 {
		return [4]float64{}, false
	}
	v, ok := parseFloats(tokens)
	if !ok {
		return [4]float64{}, false
	}
	return [4]float64{v[0], v[1], v[2], v[3]}, true
}

func parseQuat(tokens []string) (mgl64.Quat, bool) {
	if len(tokens) != 4 {
		return mgl64.Quat{}, false
	}
	v, ok := parseFloats(tokens)
	if !ok {
		return mgl64.Quat{}, false
	}
	return mgl64.Quat{W: v[0], V: mgl64.Vec3{v[1], v[2], v[3]}}, true
}

func parseBool(tok string) (bool, error) {
	switch tok {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("lime: invalid boolean token %q", tok)
	}
}

func parseIndex(tok string) (int, error) {
	if tok == limeNullToken {
		return halfedge.Null, nil
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Writer serializes a Document in lime text format. Vertex RGBA (v2.0) is
// always written, since every Vertex carries a Color; the v2.1 transform
// and texture blocks are written only when the Document carries them.
type Writer struct {
	writer io.Writer
}

// NewWriter constructs a Writer over writer.
func NewWriter(writer io.Writer) *Writer {
	return &Writer{writer: writer}
}

// WriteLimeToPath creates (or truncates) path and writes doc to it.
func WriteLimeToPath(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return NewWriter(f).Write(doc)
}

// Write emits every vertex, face, and half-edge line in index order, then
// the optional transform and texture blocks.
func (lw *Writer) Write(doc *Document) error {
	m := doc.Mesh
	bw := bufio.NewWriter(lw.writer)

	if _, err := fmt.Fprintln(bw, "# lime"); err != nil {
		return err
	}

	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		if _, err := fmt.Fprintf(bw, "v %d: %s | %s | %s | %s | %s %d\n",
			i,
			formatVec3(v.Position),
			formatVec3(v.Normal),
			formatVec2(v.UV),
			formatVec4(v.Color),
			formatIndex(v.OutgoingHalfEdge),
			boolToInt(v.Selected),
		); err != nil {
			return err
		}
	}

	for i := 0; i < m.FaceCount(); i++ {
		f := m.Face(i)
		verts := m.FaceVertices(i)

		if _, err := fmt.Fprintf(bw, "f %d: %s %d %d | %s\n",
			i,
			formatIndex(f.FirstHalfEdge),
			f.VertexCount,
			boolToInt(f.Selected),
			formatIndices(verts),
		); err != nil {
			return err
		}
	}

	for i := 0; i < m.HalfEdgeCount(); i++ {
		he := m.HalfEdge(i)
		if _, err := fmt.Fprintf(bw, "he %d: %s %s %s %s %s\n",
			i,
			formatIndex(he.ToVertex),
			formatIndex(he.Face),
			formatIndex(he.Next),
			formatIndex(he.Prev),
			formatIndex(he.Twin),
		); err != nil {
			return err
		}
	}

	if doc.Transform != nil {
		t := doc.Transform
		if _, err := fmt.Fprintf(bw, "transform_pos: %s\n", formatVec3(t.Position)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "transform_rot: %.4f %.4f %.4f %.4f\n", t.Rotation.W, t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2]); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "transform_scale: %s\n", formatVec3(t.Scale)); err != nil {
			return err
		}
	}

	if doc.Texture != nil {
		tex := doc.Texture
		if _, err := fmt.Fprintf(bw, "tex_size: %d %d\n", tex.Width, tex.Height); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "tex_data: %s\n", base64.StdEncoding.EncodeToString(tex.Data)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func formatVec2(v [2]float64) string {
	return fmt.Sprintf("%.4f %.4f", v[0], v[1])
}

func formatVec3(v meshx.Vector) string {
	return fmt.Sprintf("%.4f %.4f %.4f", v.X(), v.Y(), v.Z())
}

func formatVec4(v [4]float64) string {
	return fmt.Sprintf("%.4f %.4f %.4f %.4f", v[0], v[1], v[2], v[3])
}

func formatIndex(idx int) string {
	if idx == halfedge.Null {
		return limeNullToken
	}
	return strconv.Itoa(idx)
}

func formatIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, v := range indices {
		parts[i] = formatIndex(v)
	}
	return strings.Join(parts, " ")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

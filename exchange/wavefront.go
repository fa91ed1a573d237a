// Package exchange implements the OBJ (Wavefront) import/export contract
// of the lime mesh kernel's external interfaces.
package exchange

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ajcurley/limemesh"
	"github.com/ajcurley/limemesh/halfedge"
)

const (
	PrefixVertex   = "v"
	PrefixUV       = "vt"
	PrefixNormal   = "vn"
	PrefixFace     = "f"
	PrefixGroup    = "g"
)

var (
	ErrInvalidVertex = errors.New("invalid vertex")
	ErrInvalidUV     = errors.New("invalid uv")
	ErrInvalidNormal = errors.New("invalid normal")
	ErrInvalidFace   = errors.New("invalid face")
)

// objCorner is one v[/vt[/vn]] reference in a face line, 0-based and fully
// resolved (negative OBJ indices already rebased against the array sizes at
// the point they were parsed). vt/vn are Null when absent from the line.
type objCorner struct {
	v, vt, vn int
}

// OBJReader parses an OBJ (WaveFront) file, ASCII or GZIP ASCII, including
// vt/vn entries and negative (end-relative) indices.
type OBJReader struct {
	reader      io.Reader
	vertices    []meshx.Vector
	uvs         [][2]float64
	normals     []meshx.Vector
	faces       [][]objCorner
	facePatches []int
	patches     []string
}

// NewOBJReader constructs an OBJ reader from an io.Reader.
func NewOBJReader(reader io.Reader) *OBJReader {
	return &OBJReader{
		reader:      reader,
		vertices:    make([]meshx.Vector, 0),
		uvs:         make([][2]float64, 0),
		normals:     make([]meshx.Vector, 0),
		faces:       make([][]objCorner, 0),
		facePatches: make([]int, 0),
		patches:     make([]string, 0),
	}
}

// ReadOBJFromPath reads an OBJ file (or its .gz form) from a file path.
func ReadOBJFromPath(path string) (*OBJReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader

	if strings.ToLower(filepath.Ext(path)) == ".gz" {
		gzipFile, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer gzipFile.Close()
		reader = gzipFile
	} else {
		reader = file
	}

	objReader := NewOBJReader(reader)
	if err := objReader.Read(); err != nil {
		return nil, err
	}

	return objReader, nil
}

// Read parses the OBJ file line by line.
func (r *OBJReader) Read() error {
	count := 1
	reader := bufio.NewReader(r.reader)

	for {
		data, err := reader.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			if len(data) == 0 {
				break
			}
			err = nil
		}

		data = bytes.TrimSpace(data)
		if len(data) == 0 || data[0] == '#' {
			count++
			continue
		}

		prefix := string(r.parsePrefix(data))

		switch prefix {
		case PrefixUV:
			err = r.parseUV(data)
		case PrefixNormal:
			err = r.parseNormal(data)
		case PrefixVertex:
			err = r.parseVertex(data)
		case PrefixFace:
			err = r.parseFace(data)
		case PrefixGroup:
			r.parseGroup(data)
		}

		if err != nil {
			return fmt.Errorf("line %d: %v", count, err)
		}

		count++
	}

	return nil
}

func (r *OBJReader) parsePrefix(data []byte) []byte {
	for i := 0; i < len(data); i++ {
		value, _ := utf8.DecodeRune(data[i : i+1])
		if unicode.IsSpace(value) {
			return data[:i]
		}
	}
	return data
}

func (r *OBJReader) parseVertex(data []byte) error {
	fields := bytes.Fields(data[len(PrefixVertex):])
	if len(fields) < 3 {
		return ErrInvalidVertex
	}

	var values [3]float64
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(string(fields[i]), 64)
		if err != nil {
			return ErrInvalidVertex
		}
		values[i] = value
	}

	r.vertices = append(r.vertices, meshx.NewVectorFromArray(values))
	return nil
}

func (r *OBJReader) parseUV(data []byte) error {
	fields := bytes.Fields(data[len(PrefixUV):])
	if len(fields) < 2 {
		return ErrInvalidUV
	}

	var uv [2]float64
	for i := 0; i < 2; i++ {
		value, err := strconv.ParseFloat(string(fields[i]), 64)
		if err != nil {
			return ErrInvalidUV
		}
		uv[i] = value
	}

	r.uvs = append(r.uvs, uv)
	return nil
}

func (r *OBJReader) parseNormal(data []byte) error {
	fields := bytes.Fields(data[len(PrefixNormal):])
	if len(fields) < 3 {
		return ErrInvalidNormal
	}

	var values [3]float64
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(string(fields[i]), 64)
		if err != nil {
			return ErrInvalidNormal
		}
		values[i] = value
	}

	r.normals = append(r.normals, meshx.NewVectorFromArray(values))
	return nil
}

// parseFace parses a face line of v, v/vt, v/vt/vn, or v//vn tokens.
// Negative indices are resolved relative to the element counts parsed so
// far, per the OBJ spec's end-relative convention.
func (r *OBJReader) parseFace(data []byte) error {
	fields := bytes.Fields(data[len(PrefixFace):])
	if len(fields) < 3 {
		return ErrInvalidFace
	}

	corners := make([]objCorner, len(fields))

	for i, field := range fields {
		parts := bytes.Split(field, []byte("/"))

		v, err := parseOBJIndex(parts[0], len(r.vertices))
		if err != nil {
			return ErrInvalidFace
		}

		vt, vn := halfedge.Null, halfedge.Null

		if len(parts) >= 2 && len(parts[1]) > 0 {
			vt, err = parseOBJIndex(parts[1], len(r.uvs))
			if err != nil {
				return ErrInvalidFace
			}
		}

		if len(parts) >= 3 && len(parts[2]) > 0 {
			vn, err = parseOBJIndex(parts[2], len(r.normals))
			if err != nil {
				return ErrInvalidFace
			}
		}

		corners[i] = objCorner{v, vt, vn}
	}

	r.faces = append(r.faces, corners)
	r.facePatches = append(r.facePatches, len(r.patches)-1)

	return nil
}

// parseOBJIndex resolves a 1-based OBJ index, or a negative end-relative
// one, to a 0-based index into an array that currently holds count
// elements.
func parseOBJIndex(raw []byte, count int) (int, error) {
	value, err := strconv.Atoi(string(raw))
	if err != nil || value == 0 {
		return 0, ErrInvalidFace
	}

	if value > 0 {
		return value - 1, nil
	}

	return count + value, nil
}

func (r *OBJReader) parseGroup(data []byte) {
	patch := string(bytes.TrimSpace(data[len(PrefixGroup):]))
	r.patches = append(r.patches, patch)
}

// GetVertex returns the position of vertex index.
func (r *OBJReader) GetVertex(index int) meshx.Vector {
	return r.vertices[index]
}

// GetNumberOfVertices returns the number of parsed vertex positions.
func (r *OBJReader) GetNumberOfVertices() int {
	return len(r.vertices)
}

// GetNumberOfUVs returns the number of parsed vt entries.
func (r *OBJReader) GetNumberOfUVs() int {
	return len(r.uvs)
}

// GetNumberOfNormals returns the number of parsed vn entries.
func (r *OBJReader) GetNumberOfNormals() int {
	return len(r.normals)
}

// GetFace returns the vertex indices of a face.
func (r *OBJReader) GetFace(index int) []int {
	corners := r.faces[index]
	vertices := make([]int, len(corners))
	for i, c := range corners {
		vertices[i] = c.v
	}
	return vertices
}

// GetFacePatch returns the patch index of a face, or -1 if unset.
func (r *OBJReader) GetFacePatch(index int) int {
	return r.facePatches[index]
}

// GetNumberOfFaces returns the number of parsed faces.
func (r *OBJReader) GetNumberOfFaces() int {
	return len(r.faces)
}

// GetNumberOfFaceEdges returns the total number of face-vertex references
// across every face.
func (r *OBJReader) GetNumberOfFaceEdges() int {
	total := 0
	for _, c := range r.faces {
		total += len(c)
	}
	return total
}

// GetPatch returns the patch name at index.
func (r *OBJReader) GetPatch(index int) string {
	return r.patches[index]
}

// GetNumberOfPatches returns the number of parsed patches (g lines).
func (r *OBJReader) GetNumberOfPatches() int {
	return len(r.patches)
}

// LoadMesh builds an EditableMesh from the parsed OBJ data. Each distinct
// (v, vt, vn) corner triple becomes its own mesh vertex, so a hard-normal
// or UV seam in the file produces position-duplicated vertices exactly as
// an edit operator would. If the file carried no vn entries at all, vertex
// normals are derived with RecomputeNormals instead.
func (r *OBJReader) LoadMesh() *halfedge.EditableMesh {
	mesh := halfedge.NewEditableMesh()
	cornerIndex := make(map[objCorner]int)

	for _, corners := range r.faces {
		cycle := make([]int, len(corners))

		for i, c := range corners {
			idx, ok := cornerIndex[c]
			if !ok {
				v := halfedge.Vertex{
					Position: r.vertices[c.v],
					Color:    [4]float64{1, 1, 1, 1},
				}
				if c.vt != halfedge.Null {
					v.UV = r.uvs[c.vt]
				}
				if c.vn != halfedge.Null {
					v.Normal = r.normals[c.vn]
				}

				idx = mesh.AddVertex(v)
				cornerIndex[c] = idx
			}

			cycle[i] = idx
		}

		mesh.AddFace(cycle)
	}

	mesh.LinkTwinsByPosition()
	mesh.RebuildEdgeMap()

	if len(r.normals) == 0 {
		mesh.RecomputeNormals()
	}

	return mesh
}

// OBJWriter writes an EditableMesh out as an OBJ file with v/vt/vn/f
// records, one vt and vn per vertex (this kernel's vertices already carry
// exactly one UV and one normal each, so no corner-splitting is needed on
// write).
type OBJWriter struct {
	writer io.Writer
	mesh   *halfedge.EditableMesh
}

// NewOBJWriter constructs an OBJWriter targeting an io.Writer.
func NewOBJWriter(writer io.Writer, mesh *halfedge.EditableMesh) *OBJWriter {
	return &OBJWriter{writer: writer, mesh: mesh}
}

// Write serializes the mesh.
func (w *OBJWriter) Write() error {
	writer := bufio.NewWriter(w.writer)

	for i := 0; i < w.mesh.VertexCount(); i++ {
		v := w.mesh.Vertex(i)
		if _, err := fmt.Fprintf(writer, "v %f %f %f\n", v.Position[0], v.Position[1], v.Position[2]); err != nil {
			return err
		}
	}

	for i := 0; i < w.mesh.VertexCount(); i++ {
		v := w.mesh.Vertex(i)
		if _, err := fmt.Fprintf(writer, "vt %f %f\n", v.UV[0], v.UV[1]); err != nil {
			return err
		}
	}

	for i := 0; i < w.mesh.VertexCount(); i++ {
		v := w.mesh.Vertex(i)
		if _, err := fmt.Fprintf(writer, "vn %f %f %f\n", v.Normal[0], v.Normal[1], v.Normal[2]); err != nil {
			return err
		}
	}

	for f := 0; f < w.mesh.FaceCount(); f++ {
		if w.mesh.Face(f).VertexCount == 0 {
			continue
		}

		writer.WriteString("f")
		for _, v := range w.mesh.FaceVertices(f) {
			fmt.Fprintf(writer, " %d/%d/%d", v+1, v+1, v+1)
		}
		writer.WriteString("\n")
	}

	return writer.Flush()
}

// WriteOBJToPath serializes mesh to path, gzipping if the extension is .gz.
func WriteOBJToPath(path string, mesh *halfedge.EditableMesh) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var w io.Writer = file

	if strings.ToLower(filepath.Ext(path)) == ".gz" {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		w = gzipWriter
	}

	return NewOBJWriter(w, mesh).Write()
}

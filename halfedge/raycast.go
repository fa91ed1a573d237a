package halfedge

import (
	"math"

	"github.com/ajcurley/limemesh"
	"github.com/ajcurley/limemesh/spatial"
)

// rayTriangleEpsilon is the Möller-Trumbore acceptance threshold for face
// picks: the smallest determinant magnitude and the smallest hit distance t
// that rayTriangleHit accepts.
const rayTriangleEpsilon = 1e-4

// RayHit is the result of a successful pick: the index of the vertex, edge,
// or face hit, the world-space position of the hit, and the surface normal
// at that position (the vertex's own normal for a vertex pick, the face
// normal for an edge or face pick).
type RayHit struct {
	Index    int
	Position meshx.Vector
	Normal   meshx.Vector
}

// faceAABBItem is the broad-phase payload inserted into the face index: the
// face's own bounding box plus its index, so a query result maps straight
// back to a face without a second lookup.
type faceAABBItem struct {
	index int
	aabb  meshx.AABB
}

func (f faceAABBItem) IntersectsAABB(query meshx.AABB) bool {
	return f.aabb.IntersectsAABB(query)
}

// faceIndexOrBuild returns the cached face octree, building (or rebuilding)
// it first if it has been invalidated by a topology change.
func (m *EditableMesh) faceIndexOrBuild() *spatial.Octree {
	if m.faceIndex != nil {
		return m.faceIndex
	}

	if len(m.vertices) == 0 {
		return nil
	}

	positions := make([]meshx.Vector, 0, len(m.vertices))
	for _, v := range m.vertices {
		positions = append(positions, v.Position)
	}

	bounds := meshx.NewAABBFromVectors(positions).Buffer(0.01)
	octree := spatial.NewOctree(bounds)

	for f := range m.faces {
		if m.faces[f].VertexCount == 0 {
			continue
		}

		verts := m.FaceVertices(f)
		positions := make([]meshx.Vector, len(verts))
		for i, v := range verts {
			positions[i] = m.vertices[v].Position
		}

		item := faceAABBItem{index: f, aabb: meshx.NewAABBFromVectors(positions).Buffer(0.01)}
		octree.Insert(item)
	}

	m.faceIndex = octree
	return m.faceIndex
}

// PickVertex returns the nearest vertex along ray within threshold, and
// whether any vertex qualified.
func (m *EditableMesh) PickVertex(ray meshx.Ray, threshold float64) (RayHit, bool) {
	best := Null
	bestT := math.Inf(1)

	for i, v := range m.vertices {
		t := v.Position.Sub(ray.Origin).Dot(ray.Direction)
		if t < 0 {
			continue
		}

		closest := ray.Origin.Add(ray.Direction.MulScalar(t))
		if v.Position.Sub(closest).Mag() >= threshold {
			continue
		}

		if t < bestT {
			bestT = t
			best = i
		}
	}

	if best == Null {
		return RayHit{}, false
	}

	v := m.vertices[best]
	return RayHit{Index: best, Position: v.Position, Normal: v.Normal}, true
}

// PickEdge returns the nearest undirected edge along ray within threshold,
// keyed by its canonical half-edge index, and whether any edge qualified.
// The hit normal is taken from the edge's own face.
func (m *EditableMesh) PickEdge(ray meshx.Ray, threshold float64) (RayHit, bool) {
	best := Null
	bestT := math.Inf(1)
	bestPoint := meshx.Vector{}
	seen := make(map[int]struct{})

	for h := range m.halfEdges {
		canon := m.canonicalEdge(h)
		if _, ok := seen[canon]; ok {
			continue
		}
		seen[canon] = struct{}{}

		from, to := m.EdgeVertices(canon)
		p0 := m.vertices[from].Position
		p1 := m.vertices[to].Position

		t, s, dist, ok := closestRaySegment(ray, p0, p1)
		if !ok || t < 0 || s < 0 || s > p1.Sub(p0).Mag() || dist >= threshold {
			continue
		}

		if t < bestT {
			bestT = t
			best = canon
			bestPoint = ray.Origin.Add(ray.Direction.MulScalar(t))
		}
	}

	if best == Null {
		return RayHit{}, false
	}

	normal := m.FaceNormal(m.halfEdges[best].Face)
	return RayHit{Index: best, Position: bestPoint, Normal: normal}, true
}

// closestRaySegment solves for the closest pair of points between the
// infinite ray and the finite segment p0-p1 via the standard parametric
// line-line solve, returning the ray parameter t, the segment arc-length s
// (measured from p0), the distance between the two closest points, and
// whether the system was non-degenerate (the ray and segment are not
// parallel).
func closestRaySegment(ray meshx.Ray, p0, p1 meshx.Vector) (t, s, dist float64, ok bool) {
	d1 := ray.Direction
	d2 := p1.Sub(p0)
	r := ray.Origin.Sub(p0)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	if e < 1e-12 {
		return 0, 0, 0, false
	}

	b := d1.Dot(d2)
	c := d1.Dot(r)
	denom := a*e - b*b

	if math.Abs(denom) < 1e-12 {
		return 0, 0, 0, false
	}

	t = (b*f - c*e) / denom
	segT := (a*f - b*c) / denom

	p0OnRay := ray.Origin.Add(d1.MulScalar(t))
	p1OnSeg := p0.Add(d2.MulScalar(segT))

	return t, segT * math.Sqrt(e), p0OnRay.Sub(p1OnSeg).Mag(), true
}

// rayTriangleHit is Möller-Trumbore extended to report the hit parameter t,
// since meshx.Ray.IntersectsTriangle only reports a boolean. Unlike
// IntersectsTriangle it is two-sided: back-facing triangles are not culled.
func rayTriangleHit(ray meshx.Ray, p, q, r meshx.Vector) (float64, bool) {
	e1 := q.Sub(p)
	e2 := r.Sub(p)

	pv := ray.Direction.Cross(e2)
	det := e1.Dot(pv)

	if math.Abs(det) < rayTriangleEpsilon {
		return 0, false
	}

	invDet := 1.0 / det
	tv := ray.Origin.Sub(p)
	u := invDet * tv.Dot(pv)

	if u < 0 || u > 1 {
		return 0, false
	}

	qv := tv.Cross(e1)
	v := invDet * ray.Direction.Dot(qv)

	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := invDet * e2.Dot(qv)
	if t <= rayTriangleEpsilon {
		return 0, false
	}

	return t, true
}

// PickFace fan-triangulates each candidate face about its vertex 0 and
// returns the nearest face hit by ray, skipping any face index present in
// skip. skip may be nil.
func (m *EditableMesh) PickFace(ray meshx.Ray, skip map[int]struct{}) (RayHit, bool) {
	octree := m.faceIndexOrBuild()
	if octree == nil {
		return RayHit{}, false
	}

	bounds := meshx.NewAABBFromBounds(ray.Origin, ray.Origin.Add(ray.Direction.MulScalar(1e6))).Buffer(0.5)
	candidates := octree.Query(bounds)

	best := Null
	bestT := math.Inf(1)

	for _, idx := range candidates {
		item := octree.Item(idx).(faceAABBItem)
		face := item.index

		if skip != nil {
			if _, ok := skip[face]; ok {
				continue
			}
		}

		if m.faces[face].VertexCount == 0 {
			continue
		}

		verts := m.FaceVertices(face)
		p0 := m.vertices[verts[0]].Position

		for i := 1; i+1 < len(verts); i++ {
			p1 := m.vertices[verts[i]].Position
			p2 := m.vertices[verts[i+1]].Position

			if t, ok := rayTriangleHit(ray, p0, p1, p2); ok && t < bestT {
				bestT = t
				best = face
			}
		}
	}

	if best == Null {
		return RayHit{}, false
	}

	hit := ray.Origin.Add(ray.Direction.MulScalar(bestT))
	return RayHit{Index: best, Position: hit, Normal: m.FaceNormal(best)}, true
}

package meshx

import "math"

// Triangle in three-dimension Cartesian space.
type Triangle struct {
	P Vector
	Q Vector
	R Vector
}

// Construct a Triangle from its three vertices.
func NewTriangle(p, q, r Vector) Triangle {
	return Triangle{p, q, r}
}

// Compute the area.
func (t Triangle) Area() float64 {
	u := t.Q.Sub(t.P)
	v := t.R.Sub(t.P)
	return u.Cross(v).Mag() * 0.5
}

// Compute the normal.
func (t Triangle) Normal() Vector {
	u := t.Q.Sub(t.P)
	v := t.R.Sub(t.P)
	return u.Cross(v)
}

// Compute the unit normal.
func (t Triangle) UnitNormal() Vector {
	return t.Normal().Unit()
}

// Implement the IntersectsRay interface. Delegates to Ray.IntersectsTriangle,
// which is front-face-only (back-facing triangles are culled).
func (t Triangle) IntersectsRay(r Ray) bool {
	return r.IntersectsTriangle(t)
}

// Implement the IntersectsAABB interface via the Akenine-Moller
// separating-axis test: the box's three face axes, the triangle's normal,
// and the nine cross products of a box axis with a triangle edge.
func (t Triangle) IntersectsAABB(query AABB) bool {
	v0 := t.P.Sub(query.Center)
	v1 := t.Q.Sub(query.Center)
	v2 := t.R.Sub(query.Center)

	edges := [3]Vector{v1.Sub(v0), v2.Sub(v1), v0.Sub(v2)}
	boxAxes := [3]Vector{NewVector(1, 0, 0), NewVector(0, 1, 0), NewVector(0, 0, 1)}

	for _, a := range boxAxes {
		if !triangleAABBOverlapsOnAxis(a, v0, v1, v2, query.HalfSize) {
			return false
		}
	}

	for _, a := range boxAxes {
		for _, e := range edges {
			axis := a.Cross(e)
			if !triangleAABBOverlapsOnAxis(axis, v0, v1, v2, query.HalfSize) {
				return false
			}
		}
	}

	normal := edges[0].Cross(edges[1])
	return triangleAABBOverlapsOnAxis(normal, v0, v1, v2, query.HalfSize)
}

// triangleAABBOverlapsOnAxis projects the box-centered triangle vertices and
// a box of the given half-size onto axis and reports whether their ranges
// overlap. A near-zero axis (parallel edge/face axis) is treated as a pass.
func triangleAABBOverlapsOnAxis(axis Vector, v0, v1, v2, halfSize Vector) bool {
	if axis.Mag() < 1e-12 {
		return true
	}

	p0 := v0.Dot(axis)
	p1 := v1.Dot(axis)
	p2 := v2.Dot(axis)

	triMin := math.Min(p0, math.Min(p1, p2))
	triMax := math.Max(p0, math.Max(p1, p2))

	r := math.Abs(axis.X())*halfSize.X() +
		math.Abs(axis.Y())*halfSize.Y() +
		math.Abs(axis.Z())*halfSize.Z()

	return triMax >= -r && triMin <= r
}

package halfedge

import (
	"math"

	"github.com/ajcurley/limemesh"
	"github.com/go-gl/mathgl/mgl64"
)

// Translate shifts every affected vertex (affected_vertices expanded by
// position, see AffectedVerticesByPosition) by delta.
func (m *EditableMesh) Translate(delta meshx.Vector) {
	for _, v := range m.AffectedVerticesByPosition() {
		m.vertices[v].Position = m.vertices[v].Position.Add(delta)
	}
}

// Scale multiplies every affected vertex's offset from pivot by the
// per-axis components of scale.
func (m *EditableMesh) Scale(scale, pivot meshx.Vector) {
	for _, v := range m.AffectedVerticesByPosition() {
		rel := m.vertices[v].Position.Sub(pivot)
		scaled := meshx.NewVector(rel.X()*scale.X(), rel.Y()*scale.Y(), rel.Z()*scale.Z())
		m.vertices[v].Position = pivot.Add(scaled)
	}
	m.RecomputeNormals()
}

// Rotate applies an Euler rotation (degrees) about pivot to every affected
// vertex: first about the world X axis, then world Y, then world Z.
func (m *EditableMesh) Rotate(eulerDegrees, pivot meshx.Vector) {
	q := eulerToQuat(eulerDegrees)

	for _, v := range m.AffectedVerticesByPosition() {
		m.vertices[v].Position = rotateAbout(q, pivot, m.vertices[v].Position)
	}

	m.RecomputeNormals()
}

// eulerToQuat builds the combined rotation quaternion qz*qy*qx for Euler
// angles given in degrees: a point is rotated about the world X axis first,
// then world Y, then world Z (equivalently, intrinsic Z-then-Y-then-X).
func eulerToQuat(degrees meshx.Vector) mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(degrees.X()), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(mgl64.DegToRad(degrees.Y()), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(degrees.Z()), mgl64.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx)
}

// rotateAbout rotates p around pivot by q.
func rotateAbout(q mgl64.Quat, pivot, p meshx.Vector) meshx.Vector {
	rel := p.Sub(pivot)
	rotated := q.Rotate(mgl64.Vec3{rel.X(), rel.Y(), rel.Z()})
	return pivot.Add(meshx.NewVector(rotated[0], rotated[1], rotated[2]))
}

// FlattenX snaps every affected vertex's X coordinate to the average of
// the set, and recomputes normals.
func (m *EditableMesh) FlattenX() { m.flattenAxis(0) }

// FlattenY is the Y-axis counterpart of FlattenX.
func (m *EditableMesh) FlattenY() { m.flattenAxis(1) }

// FlattenZ is the Z-axis counterpart of FlattenX.
func (m *EditableMesh) FlattenZ() { m.flattenAxis(2) }

func (m *EditableMesh) flattenAxis(axis int) {
	affected := m.AffectedVerticesByPosition()
	if len(affected) == 0 {
		return
	}

	var sum float64
	for _, v := range affected {
		sum += m.vertices[v].Position[axis]
	}
	avg := sum / float64(len(affected))

	for _, v := range affected {
		m.vertices[v].Position[axis] = avg
	}

	m.RecomputeNormals()
}

// MakeCoplanar projects every affected vertex onto the best-fit plane
// through their centroid. The plane normal comes from the covariance
// matrix of the affected positions: if the matrix is near-diagonal, the
// normal is the coordinate axis of its smallest diagonal entry; otherwise
// the two largest-eigenvalue eigenvectors are found by power iteration and
// the normal is their cross product.
func (m *EditableMesh) MakeCoplanar() {
	affected := m.AffectedVerticesByPosition()
	if len(affected) < 3 {
		return
	}

	var centroid meshx.Vector
	for _, v := range affected {
		centroid = centroid.Add(m.vertices[v].Position)
	}
	centroid = centroid.MulScalar(1 / float64(len(affected)))

	var cov [3][3]float64
	for _, v := range affected {
		d := m.vertices[v].Position.Sub(centroid)
		arr := [3]float64{d.X(), d.Y(), d.Z()}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i][j] += arr[i] * arr[j]
			}
		}
	}

	normal := planeNormalFromCovariance(cov)

	for _, v := range affected {
		p := m.vertices[v].Position
		d := p.Sub(centroid).Dot(normal)
		m.vertices[v].Position = p.Sub(normal.MulScalar(d))
	}

	m.RecomputeNormals()
}

func planeNormalFromCovariance(cov [3][3]float64) meshx.Vector {
	diagSum := math.Abs(cov[0][0]) + math.Abs(cov[1][1]) + math.Abs(cov[2][2])
	if diagSum < 1e-12 {
		return meshx.NewVector(0, 1, 0)
	}

	offDiagSum := math.Abs(cov[0][1]) + math.Abs(cov[0][2]) + math.Abs(cov[1][2])
	if offDiagSum < 1e-9*diagSum {
		axis := 0
		if cov[1][1] < cov[axis][axis] {
			axis = 1
		}
		if cov[2][2] < cov[axis][axis] {
			axis = 2
		}
		var n [3]float64
		n[axis] = 1
		return meshx.NewVector(n[0], n[1], n[2])
	}

	e1 := powerIterateEigenvector(cov, meshx.NewVector(1, 0.5, 0.25), 50)
	lambda1 := matVec(cov, e1).Dot(e1)

	e1arr := [3]float64{e1.X(), e1.Y(), e1.Z()}
	var deflated [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			deflated[i][j] = cov[i][j] - lambda1*e1arr[i]*e1arr[j]
		}
	}

	e2 := powerIterateEigenvector(deflated, meshx.NewVector(0.25, 1, 0.5), 50)

	normal := e1.Cross(e2)
	if normal.Mag() < 1e-12 {
		return meshx.NewVector(0, 1, 0)
	}
	return normal.Unit()
}

// powerIterateEigenvector estimates the dominant eigenvector of a
// symmetric 3x3 matrix via repeated multiply-and-normalize from seed.
func powerIterateEigenvector(m [3][3]float64, seed meshx.Vector, iters int) meshx.Vector {
	v := seed.Unit()
	for i := 0; i < iters; i++ {
		mv := matVec(m, v)
		if mv.Mag() < 1e-12 {
			break
		}
		v = mv.Unit()
	}
	return v
}

func matVec(m [3][3]float64, v meshx.Vector) meshx.Vector {
	return meshx.NewVector(
		m[0][0]*v.X()+m[0][1]*v.Y()+m[0][2]*v.Z(),
		m[1][0]*v.X()+m[1][1]*v.Y()+m[1][2]*v.Z(),
		m[2][0]*v.X()+m[2][1]*v.Y()+m[2][2]*v.Z(),
	)
}

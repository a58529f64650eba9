package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/piwi3910/CircleCut/internal/model"
)

// eps separates touching from overlapping projections.
const eps = 1e-6

// projection is the (min, max) interval of a polygon projected on an axis.
type projection struct {
	min, max float64
}

func project(axis r2.Vec, corners [4]r2.Vec) projection {
	p := projection{min: r2.Dot(axis, corners[0])}
	p.max = p.min
	for _, c := range corners[1:] {
		d := r2.Dot(axis, c)
		if d < p.min {
			p.min = d
		}
		if d > p.max {
			p.max = d
		}
	}
	return p
}

// projectionsOverlap reports whether two projections are closer than the
// required clearance. gap > 0 is overlap, 0 is touching, < 0 is separation.
func projectionsOverlap(a, b projection, tolerance float64) bool {
	gap := math.Min(a.max, b.max) - math.Max(a.min, b.min)
	if tolerance < eps {
		return gap > eps
	}
	return gap > -tolerance-eps
}

// edgeNormal returns the unit normal of the edge from a to b, or the zero
// vector for a degenerate edge.
func edgeNormal(a, b r2.Vec) r2.Vec {
	edge := r2.Sub(b, a)
	n := r2.Vec{X: -edge.Y, Y: edge.X}
	length := math.Sqrt(n.X*n.X + n.Y*n.Y)
	if length == 0 {
		return r2.Vec{}
	}
	return r2.Vec{X: n.X / length, Y: n.Y / length}
}

func toVecs(corners [4]model.Position) [4]r2.Vec {
	var v [4]r2.Vec
	for i, c := range corners {
		v[i] = r2.Vec{X: c.X, Y: c.Y}
	}
	return v
}

// SATCollide tests two convex quadrilaterals with the separating axis theorem.
// Edge normals of both shapes are tried in turn and the first separating axis
// ends the test.
func SATCollide(a, b [4]model.Position, tolerance float64) bool {
	va, vb := toVecs(a), toVecs(b)
	for i := 0; i < 4; i++ {
		axis := edgeNormal(va[i], va[(i+1)%4])
		if !projectionsOverlap(project(axis, va), project(axis, vb), tolerance) {
			return false
		}

		axis = edgeNormal(vb[i], vb[(i+1)%4])
		if !projectionsOverlap(project(axis, va), project(axis, vb), tolerance) {
			return false
		}
	}
	return true
}

// RectanglesOverlap reports whether a and b overlap or sit closer than tolerance.
func RectanglesOverlap(a, b model.Rectangle, tolerance float64) bool {
	return SATCollide(a.Corners(), b.Corners(), tolerance)
}

// RectangleOverlapsAny stops at the first rectangle in placed that collides with r.
func RectangleOverlapsAny(r model.Rectangle, placed []model.Rectangle, tolerance float64) bool {
	for _, p := range placed {
		if RectanglesOverlap(r, p, tolerance) {
			return true
		}
	}
	return false
}

// FitsInCircle reports whether all four corners of r lie within radius of the origin.
// A radius of zero or less rejects everything.
func FitsInCircle(r model.Rectangle, radius float64) bool {
	for _, c := range r.Corners() {
		if math.Sqrt(c.X*c.X+c.Y*c.Y) > radius {
			return false
		}
	}
	return true
}

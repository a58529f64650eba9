package engine

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/CircleCut/internal/model"
)

// boundsEps is the slack allowed on corner distances when auditing a result.
const boundsEps = 0.001

// touchEps is the edge distance below which two rectangles count as touching.
const touchEps = 1e-3

// OverlapReport describes one colliding pair found by Verify.
type OverlapReport struct {
	I, J           int
	GapX, GapY     float64 // bounding box overlap per axis, positive means overlap
	CenterDistance float64
}

// BoundsViolation is a corner found outside the effective radius.
type BoundsViolation struct {
	Index    int
	Corner   int
	Distance float64
	Limit    float64
}

// Verification is an independent audit of a PackingResult.
type Verification struct {
	Count            int
	RotationCounts   map[float64]int
	InvalidRotations []int
	Overlaps         []OverlapReport // pairs that actually intersect
	OutOfBounds      []BoundsViolation

	// ClearanceViolations are non-overlapping pairs closer than the tolerance.
	ClearanceViolations []OverlapReport

	// Touching counts rectangles that share an edge with an earlier one.
	// With a positive tolerance every rectangle counts.
	Touching int

	// OpenSlots are edge-adjacent positions where one more rectangle would still fit.
	OpenSlots []model.Rectangle

	MinClearance       float64 // smallest bounding box separation between any pair
	MaxCornerDistance  float64
	MeanCenterDistance float64
}

// Passed reports whether the result satisfies the rotation, overlap and bounds checks.
// Open slots are informational only.
func (v Verification) Passed() bool {
	return len(v.InvalidRotations) == 0 && len(v.Overlaps) == 0 &&
		len(v.OutOfBounds) == 0 && len(v.ClearanceViolations) == 0
}

// LogValue implements slog.LogValuer.
func (v Verification) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", v.Count),
		slog.Bool("passed", v.Passed()),
		slog.Int("invalid_rotations", len(v.InvalidRotations)),
		slog.Int("overlaps", len(v.Overlaps)),
		slog.Int("out_of_bounds", len(v.OutOfBounds)),
		slog.Int("clearance_violations", len(v.ClearanceViolations)),
		slog.Int("touching", v.Touching),
		slog.Int("open_slots", len(v.OpenSlots)),
		slog.Float64("min_clearance", v.MinClearance),
	)
}

// Verify audits result against settings: orientation, pairwise collisions,
// clearance, containment, edge contact and leftover edge-adjacent room.
//
// Overlap is judged at zero tolerance and clearance separately with a
// boundsEps slack. The engine's own tolerance test also rejects pairs sitting
// exactly tolerance apart, which is how the base grid spaces its cells.
func Verify(result model.PackingResult, settings model.PackSettings) Verification {
	rects := result.Rectangles
	v := Verification{
		Count:          len(rects),
		RotationCounts: result.RotationCounts(),
	}

	for i, r := range rects {
		if r.Rotation != 0 && r.Rotation != 90 {
			v.InvalidRotations = append(v.InvalidRotations, i)
		}
	}

	var clearances []float64
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			gapX, gapY := bboxGaps(rects[i], rects[j])
			sep := separation(gapX, gapY)
			clearances = append(clearances, sep)

			dx := rects[i].Position.X - rects[j].Position.X
			dy := rects[i].Position.Y - rects[j].Position.Y
			report := OverlapReport{
				I: i, J: j,
				GapX: gapX, GapY: gapY,
				CenterDistance: math.Sqrt(dx*dx + dy*dy),
			}
			switch {
			case RectanglesOverlap(rects[i], rects[j], 0):
				v.Overlaps = append(v.Overlaps, report)
			case settings.Tolerance > 0 && sep < settings.Tolerance-boundsEps:
				v.ClearanceViolations = append(v.ClearanceViolations, report)
			}
		}
	}
	if len(clearances) > 0 {
		v.MinClearance = floats.Min(clearances)
	}

	limit := settings.EffectiveRadius()
	var cornerDists, centerDists []float64
	for i, r := range rects {
		for k, c := range r.Corners() {
			d := math.Sqrt(c.X*c.X + c.Y*c.Y)
			cornerDists = append(cornerDists, d)
			if d > limit+boundsEps {
				v.OutOfBounds = append(v.OutOfBounds, BoundsViolation{Index: i, Corner: k, Distance: d, Limit: limit})
			}
		}
		centerDists = append(centerDists, math.Hypot(r.Position.X, r.Position.Y))
	}
	if len(rects) > 0 {
		v.MaxCornerDistance = floats.Max(cornerDists)
		v.MeanCenterDistance = stat.Mean(centerDists, nil)
	}

	for i := range rects {
		if touchesExisting(rects[i], rects[:i], settings.Tolerance) {
			v.Touching++
		}
	}

	v.OpenSlots = openSlots(rects, settings)
	return v
}

// bboxGaps returns the per-axis overlap of the axis-aligned bounding boxes.
func bboxGaps(a, b model.Rectangle) (float64, float64) {
	aMin, aMax := a.BoundingBox()
	bMin, bMax := b.BoundingBox()
	gapX := math.Min(aMax.X, bMax.X) - math.Max(aMin.X, bMin.X)
	gapY := math.Min(aMax.Y, bMax.Y) - math.Max(aMin.Y, bMin.Y)
	return gapX, gapY
}

// separation converts per-axis overlaps into a distance between boxes.
// It is negative when the boxes overlap.
func separation(gapX, gapY float64) float64 {
	sx, sy := -gapX, -gapY
	switch {
	case sx > 0 && sy > 0:
		return math.Hypot(sx, sy)
	case sx > 0:
		return sx
	case sy > 0:
		return sy
	default:
		return math.Max(sx, sy)
	}
}

func isAxisAligned(r model.Rectangle) bool {
	return r.Rotation == 0 || r.Rotation == 90
}

// edgePositions returns candidate centers for a rectangle of rotation
// newRotation placed against each side of r, tolerance apart.
func edgePositions(r model.Rectangle, newRotation float64, s model.PackSettings) []model.Position {
	if !isAxisAligned(r) {
		return nil
	}
	newW, newH := s.RectWidth, s.RectHeight
	if newRotation == 90 {
		newW, newH = s.RectHeight, s.RectWidth
	}
	min, max := r.BoundingBox()
	return []model.Position{
		{X: max.X + s.Tolerance + newW/2, Y: r.Position.Y},
		{X: min.X - s.Tolerance - newW/2, Y: r.Position.Y},
		{X: r.Position.X, Y: max.Y + s.Tolerance + newH/2},
		{X: r.Position.X, Y: min.Y - s.Tolerance - newH/2},
	}
}

// touchesExisting reports whether r shares an edge with any placed rectangle.
// Contact is not required once a clearance is configured, so any positive
// tolerance answers true.
func touchesExisting(r model.Rectangle, placed []model.Rectangle, tolerance float64) bool {
	if tolerance > eps {
		return true
	}
	if !isAxisAligned(r) {
		return false
	}
	rMin, rMax := r.BoundingBox()
	for _, p := range placed {
		if !isAxisAligned(p) {
			continue
		}
		pMin, pMax := p.BoundingBox()

		if math.Abs(rMin.X-pMax.X) < touchEps || math.Abs(rMax.X-pMin.X) < touchEps {
			if !(rMax.Y < pMin.Y-touchEps || rMin.Y > pMax.Y+touchEps) {
				return true
			}
		}
		if math.Abs(rMin.Y-pMax.Y) < touchEps || math.Abs(rMax.Y-pMin.Y) < touchEps {
			if !(rMax.X < pMin.X-touchEps || rMin.X > pMax.X+touchEps) {
				return true
			}
		}
	}
	return false
}

// openSlots probes the sides of every placed rectangle in both orientations
// and keeps candidates that fit, collide with nothing and touch the packing.
// Accepted slots are not added to the packing, so slots may overlap each other.
func openSlots(rects []model.Rectangle, s model.PackSettings) []model.Rectangle {
	var slots []model.Rectangle
	type slotKey struct {
		pos model.Position
		rot float64
	}
	seen := make(map[slotKey]bool)
	radius := s.EffectiveRadius()
	for _, r := range rects {
		for _, rot := range [2]float64{0, 90} {
			for _, pos := range edgePositions(r, rot, s) {
				key := slotKey{pos, rot}
				if seen[key] {
					continue
				}
				seen[key] = true
				cand := model.NewRectangle(pos, s.RectWidth, s.RectHeight, rot)
				if !FitsInCircle(cand, radius) || RectangleOverlapsAny(cand, rects, s.Tolerance) {
					continue
				}
				if touchesExisting(cand, rects, s.Tolerance) {
					slots = append(slots, cand)
				}
			}
		}
	}
	return slots
}

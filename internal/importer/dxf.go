package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/CircleCut/internal/model"
)

// outline is a closed polygon read from a drawing.
type outline []model.Position

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start model.Position
	end   model.Position
}

// TemplateResult is the outcome of reading a layout template from DXF.
// Only the fields marked as found carry data from the drawing.
type TemplateResult struct {
	CircleDiameter float64
	SafeZone       float64
	RectWidth      float64
	RectHeight     float64
	HasCircle      bool
	HasRectangle   bool
	Errors         []string
	Warnings       []string
}

// Apply copies the values found in the drawing onto s.
func (t TemplateResult) Apply(s *model.PackSettings) {
	if t.HasCircle {
		s.CircleDiameter = t.CircleDiameter
		s.SafeZone = t.SafeZone
	}
	if t.HasRectangle {
		s.RectWidth = t.RectWidth
		s.RectHeight = t.RectHeight
	}
}

const (
	chainTolerance = 0.01
	rightAngleTol  = 1e-3 // cosine between adjacent sides
)

// ImportDXFTemplate reads a drawing and extracts the blank circle and the
// rectangle to pack. The largest CIRCLE is the blank; a smaller concentric
// circle is read as the safe-zone boundary. The first closed four-sided
// LWPOLYLINE, or chain of LINEs, is the rectangle.
func ImportDXFTemplate(path string) TemplateResult {
	result := TemplateResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var circles []*entity.Circle
	var outlines []outline
	var segments []segment
	skipped := 0

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Circle:
			circles = append(circles, e)

		case *entity.LwPolyline:
			if hasBulge(e) {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with arc segments")
				continue
			}
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Position{X: e.Start[0], Y: e.Start[1]},
				end:   model.Position{X: e.End[0], Y: e.End[1]},
			})

		default:
			skipped++
		}
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Ignored %d unsupported entities", skipped))
	}

	readCircles(&result, circles)

	outlines = append(outlines, chainSegments(segments, chainTolerance)...)
	for _, o := range outlines {
		w, h, rotated, ok := rectangleSides(o)
		if !ok {
			continue
		}
		result.RectWidth, result.RectHeight = w, h
		result.HasRectangle = true
		if rotated {
			result.Warnings = append(result.Warnings, "Rectangle is rotated in the drawing; using its side lengths")
		}
		break
	}

	if !result.HasCircle && !result.HasRectangle {
		result.Errors = append(result.Errors, "No circle or rectangle found in DXF file")
	} else if !result.HasRectangle {
		result.Warnings = append(result.Warnings, "No rectangle found; keeping current rectangle size")
	} else if !result.HasCircle {
		result.Warnings = append(result.Warnings, "No circle found; keeping current diameter")
	}

	return result
}

func readCircles(result *TemplateResult, circles []*entity.Circle) {
	if len(circles) == 0 {
		return
	}
	sort.Slice(circles, func(i, j int) bool {
		return circles[i].Radius > circles[j].Radius
	})
	outer := circles[0]
	if outer.Radius < chainTolerance {
		result.Warnings = append(result.Warnings, "Skipped degenerate circle")
		return
	}
	result.CircleDiameter = 2 * outer.Radius
	result.HasCircle = true

	for _, c := range circles[1:] {
		if c.Radius < outer.Radius && pointsClose(
			model.Position{X: c.Center[0], Y: c.Center[1]},
			model.Position{X: outer.Center[0], Y: outer.Center[1]},
			chainTolerance) {
			result.SafeZone = outer.Radius - c.Radius
			break
		}
	}
}

func hasBulge(lw *entity.LwPolyline) bool {
	for _, b := range lw.Bulges {
		if math.Abs(b) > 1e-9 {
			return true
		}
	}
	return false
}

// lwPolylineToOutline converts a straight-sided LWPOLYLINE to an outline.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	o := make(outline, 0, len(lw.Vertices))
	for _, v := range lw.Vertices {
		if len(v) < 2 {
			continue
		}
		o = append(o, model.Position{X: v[0], Y: v[1]})
	}
	return o
}

// rectangleSides reports whether o is a rectangle and returns its side
// lengths: width along the first edge, height along the second.
func rectangleSides(o outline) (w, h float64, rotated, ok bool) {
	o = dropDuplicates(o)
	if len(o) != 4 {
		return 0, 0, false, false
	}
	var sides [4]model.Position
	for i := range o {
		next := o[(i+1)%4]
		sides[i] = model.Position{X: next.X - o[i].X, Y: next.Y - o[i].Y}
	}
	for i := range sides {
		a, b := sides[i], sides[(i+1)%4]
		la, lb := math.Hypot(a.X, a.Y), math.Hypot(b.X, b.Y)
		if la < chainTolerance || lb < chainTolerance {
			return 0, 0, false, false
		}
		if math.Abs((a.X*b.X+a.Y*b.Y)/(la*lb)) > rightAngleTol {
			return 0, 0, false, false
		}
	}
	w = math.Hypot(sides[0].X, sides[0].Y)
	h = math.Hypot(sides[1].X, sides[1].Y)
	rotated = math.Abs(sides[0].Y) > chainTolerance && math.Abs(sides[0].X) > chainTolerance
	if math.Abs(sides[0].X) < chainTolerance {
		// First edge is vertical: report the horizontal extent as width.
		w, h = h, w
	}
	return w, h, rotated, true
}

// dropDuplicates removes consecutive repeated points and a closing point
// equal to the first.
func dropDuplicates(o outline) outline {
	out := make(outline, 0, len(o))
	for _, p := range o {
		if len(out) > 0 && pointsClose(out[len(out)-1], p, chainTolerance) {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && pointsClose(out[0], out[len(out)-1], chainTolerance) {
		out = out[:len(out)-1]
	}
	return out
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := outline{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Only closed chains describe a shape.
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	// Largest first for consistent ordering
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b model.Position, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o outline) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}

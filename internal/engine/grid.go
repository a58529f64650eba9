package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/CircleCut/internal/model"
)

// offsetSteps is the number of sub-cell offsets tried along each grid axis.
const offsetSteps = 10

// packer holds the derived geometry for a single optimization run.
type packer struct {
	radius     float64
	diameter   float64
	effRadius  float64
	tolerance  float64
	rectWidth  float64
	rectHeight float64
}

func newPacker(s model.PackSettings) *packer {
	return &packer{
		radius:     s.Radius(),
		diameter:   s.CircleDiameter,
		effRadius:  s.EffectiveRadius(),
		tolerance:  s.Tolerance,
		rectWidth:  s.RectWidth,
		rectHeight: s.RectHeight,
	}
}

func (p *packer) rect(x, y, rotation float64) model.Rectangle {
	return model.NewRectangle(model.Position{X: x, Y: y}, p.rectWidth, p.rectHeight, rotation)
}

func (p *packer) fits(r model.Rectangle) bool {
	return FitsInCircle(r, p.effRadius)
}

// accepts reports whether r fits the circle and keeps clear of everything placed.
func (p *packer) accepts(r model.Rectangle, placed []model.Rectangle) bool {
	return p.fits(r) && !RectangleOverlapsAny(r, placed, p.tolerance)
}

// bounds is the extent of the base grid, measured on rectangle edges.
type bounds struct {
	minX, maxX, minY, maxY float64
}

func emptyBounds() bounds {
	return bounds{
		minX: math.Inf(1), maxX: math.Inf(-1),
		minY: math.Inf(1), maxY: math.Inf(-1),
	}
}

// layout is the footprint geometry for one base orientation.
type layout struct {
	rotation, altRotation  float64
	w, h                   float64 // base footprint
	orthoW, orthoH         float64 // alternate footprint
	stepX, stepY           float64
	orthoStepX, orthoStepY float64
}

func (p *packer) layoutFor(rotation float64) layout {
	l := layout{rotation: rotation}
	if rotation == 90 {
		l.w, l.h = p.rectHeight, p.rectWidth
		l.altRotation = 0
	} else {
		l.w, l.h = p.rectWidth, p.rectHeight
		l.altRotation = 90
	}
	l.orthoW, l.orthoH = l.h, l.w
	l.stepX = l.w + p.tolerance
	l.stepY = l.h + p.tolerance
	l.orthoStepX = l.orthoW + p.tolerance
	l.orthoStepY = l.orthoH + p.tolerance
	return l
}

// strictGrid packs a fixed lattice in the given base orientation, trying every
// sub-cell offset and topping each up with edge and center fills. The best
// offset is finished with a systematic gap fill.
func (p *packer) strictGrid(rotation float64) model.PackingResult {
	l := p.layoutFor(rotation)

	var best []model.Rectangle
	maxCount := 0

	for i := 0; i < offsetSteps; i++ {
		for j := 0; j < offsetSteps; j++ {
			offsetX := (l.stepX / offsetSteps) * float64(i)
			offsetY := (l.stepY / offsetSteps) * float64(j)

			placed, b := p.baseGrid(l, offsetX, offsetY)
			if len(placed) == 0 {
				continue
			}

			placed = p.fillRight(l, b, placed)
			placed = p.fillLeft(l, b, placed)
			placed = p.fillTop(l, b, placed)
			placed = p.fillBottom(l, b, placed)
			placed = p.centerFillTop(l, b, placed)
			placed = p.centerFillBottom(l, b, placed)

			if len(placed) > maxCount {
				maxCount = len(placed)
				best = placed
			}
		}
	}

	if len(best) > 0 {
		best = p.systematicGapFill(best)
	}

	return model.PackingResult{
		Rectangles: best,
		Circle:     model.Circle{Radius: p.radius},
		Count:      len(best),
		Strategy:   fmt.Sprintf("Strict Grid (Rot: %g° + Fill)", rotation),
	}
}

// baseGrid lays out the lattice covering the circle plus one rectangle of
// margin on every side, keeping the cells that fit.
func (p *packer) baseGrid(l layout, offsetX, offsetY float64) ([]model.Rectangle, bounds) {
	startX := -p.radius - l.w
	startY := -p.radius - l.h
	cols := int((p.diameter+2*l.w)/l.stepX) + 2
	rows := int((p.diameter+2*l.h)/l.stepY) + 2

	var placed []model.Rectangle
	b := emptyBounds()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := startX + float64(c)*l.stepX + offsetX
			y := startY + float64(r)*l.stepY + offsetY
			cx := x + l.w/2
			cy := y + l.h/2

			rect := p.rect(cx, cy, l.rotation)
			if !p.fits(rect) {
				continue
			}
			placed = append(placed, rect)
			b.minX = math.Min(b.minX, cx-l.w/2)
			b.maxX = math.Max(b.maxX, cx+l.w/2)
			b.minY = math.Min(b.minY, cy-l.h/2)
			b.maxY = math.Max(b.maxY, cy+l.h/2)
		}
	}
	return placed, b
}

package engine

import (
	"math"

	"github.com/piwi3910/CircleCut/internal/model"
)

// scanRange returns the lattice indices [kStart, kEnd) that cover
// [-radius, radius] from start in steps of step, with overscan on both ends.
func (p *packer) scanRange(start, step float64) (int, int) {
	kStart := int((-p.radius-start)/step) - 1
	kEnd := int((p.radius-start)/step) + 2
	return kStart, kEnd
}

// fillColumn tries the alternate orientation at every lattice y along a column at x.
func (p *packer) fillColumn(l layout, b bounds, x float64, placed []model.Rectangle) []model.Rectangle {
	startY := b.minY + l.orthoH/2
	kStart, kEnd := p.scanRange(startY, l.orthoStepY)
	for k := kStart; k < kEnd; k++ {
		y := startY + float64(k)*l.orthoStepY
		rect := p.rect(x, y, l.altRotation)
		if p.accepts(rect, placed) {
			placed = append(placed, rect)
		}
	}
	return placed
}

// fillRow tries the alternate orientation at every lattice x along a row at y.
func (p *packer) fillRow(l layout, b bounds, y float64, placed []model.Rectangle) []model.Rectangle {
	startX := b.minX + l.orthoW/2
	kStart, kEnd := p.scanRange(startX, l.orthoStepX)
	for k := kStart; k < kEnd; k++ {
		x := startX + float64(k)*l.orthoStepX
		rect := p.rect(x, y, l.altRotation)
		if p.accepts(rect, placed) {
			placed = append(placed, rect)
		}
	}
	return placed
}

func (p *packer) fillRight(l layout, b bounds, placed []model.Rectangle) []model.Rectangle {
	for x := b.maxX + p.tolerance + l.orthoW/2; x-l.orthoW/2 < p.radius; x += l.orthoStepX {
		placed = p.fillColumn(l, b, x, placed)
	}
	return placed
}

func (p *packer) fillLeft(l layout, b bounds, placed []model.Rectangle) []model.Rectangle {
	for x := b.minX - p.tolerance - l.orthoW/2; x+l.orthoW/2 > -p.radius; x -= l.orthoStepX {
		placed = p.fillColumn(l, b, x, placed)
	}
	return placed
}

func (p *packer) fillTop(l layout, b bounds, placed []model.Rectangle) []model.Rectangle {
	for y := b.maxY + p.tolerance + l.orthoH/2; y-l.orthoH/2 < p.radius; y += l.orthoStepY {
		placed = p.fillRow(l, b, y, placed)
	}
	return placed
}

func (p *packer) fillBottom(l layout, b bounds, placed []model.Rectangle) []model.Rectangle {
	for y := b.minY - p.tolerance - l.orthoH/2; y+l.orthoH/2 > -p.radius; y -= l.orthoStepY {
		placed = p.fillRow(l, b, y, placed)
	}
	return placed
}

// centerFillTop stacks base-orientation rectangles above the grid at its
// horizontal midpoint, stopping at the first one that does not fit.
func (p *packer) centerFillTop(l layout, b bounds, placed []model.Rectangle) []model.Rectangle {
	cx := (b.minX + b.maxX) / 2
	for y := b.maxY + p.tolerance + l.h/2; y+l.h/2 <= p.radius; y += l.stepY {
		rect := p.rect(cx, y, l.rotation)
		if !p.accepts(rect, placed) {
			break
		}
		placed = append(placed, rect)
	}
	return placed
}

func (p *packer) centerFillBottom(l layout, b bounds, placed []model.Rectangle) []model.Rectangle {
	cx := (b.minX + b.maxX) / 2
	for y := b.minY - p.tolerance - l.h/2; y-l.h/2 >= -p.radius; y -= l.stepY {
		rect := p.rect(cx, y, l.rotation)
		if !p.accepts(rect, placed) {
			break
		}
		placed = append(placed, rect)
	}
	return placed
}

// systematicGapFill sweeps the bounding square of the circle row by row,
// dropping a rectangle wherever one still fits. 0° is tried before 90°.
func (p *packer) systematicGapFill(placed []model.Rectangle) []model.Rectangle {
	filled := make([]model.Rectangle, len(placed), len(placed)+16)
	copy(filled, placed)

	step := math.Min(p.rectWidth, p.rectHeight) / 2.0
	if !(step > 0) {
		return filled
	}
	for y := -p.radius; y <= p.radius; y += step {
		for x := -p.radius; x <= p.radius; x += step {
			for _, rotation := range [2]float64{0, 90} {
				rect := p.rect(x, y, rotation)
				if p.accepts(rect, filled) {
					filled = append(filled, rect)
					break
				}
			}
		}
	}
	return filled
}

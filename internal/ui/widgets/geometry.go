package widgets

import (
	"math"

	"fyne.io/fyne/v2"

	"github.com/piwi3910/CircleCut/internal/model"
)

// Transform maps blank coordinates (mm, y up, origin at the circle center)
// onto widget coordinates (pixels, y down).
type Transform struct {
	Scale  float32
	Center fyne.Position
}

// FitTransform centers a circle of the given radius in size, keeping margin
// pixels free on the shorter side.
func FitTransform(radius float64, size fyne.Size, margin float32) Transform {
	avail := size.Width
	if size.Height < avail {
		avail = size.Height
	}
	avail -= 2 * margin

	scale := float32(1)
	if radius > 0 && avail > 0 {
		scale = avail / float32(2*radius)
	}
	return Transform{
		Scale:  scale,
		Center: fyne.NewPos(size.Width/2, size.Height/2),
	}
}

func (t Transform) ToScreen(p model.Position) fyne.Position {
	return fyne.NewPos(
		t.Center.X+float32(p.X)*t.Scale,
		t.Center.Y-float32(p.Y)*t.Scale,
	)
}

func (t Transform) ToModel(p fyne.Position) model.Position {
	if t.Scale == 0 {
		return model.Position{}
	}
	return model.Position{
		X: float64((p.X - t.Center.X) / t.Scale),
		Y: float64((t.Center.Y - p.Y) / t.Scale),
	}
}

func (t Transform) Length(mm float64) float32 {
	return float32(mm) * t.Scale
}

// RectangleAt returns the index of the first rectangle containing p, or -1.
func RectangleAt(rects []model.Rectangle, p model.Position) int {
	for i, r := range rects {
		if containsPoint(r, p) {
			return i
		}
	}
	return -1
}

// containsPoint rotates p into the rectangle's local frame and checks the
// half extents.
func containsPoint(r model.Rectangle, p model.Position) bool {
	rad := -r.Rotation * math.Pi / 180
	dx := p.X - r.Position.X
	dy := p.Y - r.Position.Y
	lx := dx*math.Cos(rad) - dy*math.Sin(rad)
	ly := dx*math.Sin(rad) + dy*math.Cos(rad)
	return math.Abs(lx) <= r.Width/2 && math.Abs(ly) <= r.Height/2
}

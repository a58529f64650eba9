package widgets

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CircleCut/internal/engine"
	"github.com/piwi3910/CircleCut/internal/model"
)

var (
	colorBlank     = color.NRGBA{R: 250, G: 250, B: 250, A: 255}
	colorBlankEdge = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	colorSafeZone  = color.NRGBA{R: 220, G: 40, B: 40, A: 255}
	colorRect0     = color.NRGBA{R: 173, G: 216, B: 230, A: 255} // lightblue
	colorRect90    = color.NRGBA{R: 200, G: 230, B: 201, A: 255}
	colorRectEdge  = color.NRGBA{R: 0, G: 0, B: 139, A: 255} // darkblue
	colorHover     = color.NRGBA{R: 255, G: 193, B: 7, A: 255}
)

const canvasMargin = 12

// CircleCanvas renders a packed blank and reports which rectangle is under
// the mouse pointer.
type CircleCanvas struct {
	widget.BaseWidget
	result   model.PackingResult
	settings model.PackSettings
	minSize  fyne.Size
	hovered  int

	// OnHover is called with the hovered rectangle index, or -1 when the
	// pointer leaves every rectangle.
	OnHover func(idx int)
}

var _ desktop.Hoverable = (*CircleCanvas)(nil)

func NewCircleCanvas(result model.PackingResult, settings model.PackSettings, minSide float32) *CircleCanvas {
	cc := &CircleCanvas{
		result:   result,
		settings: settings,
		minSize:  fyne.NewSize(minSide, minSide),
		hovered:  -1,
	}
	cc.ExtendBaseWidget(cc)
	return cc
}

// SetResult replaces the drawn packing and clears the hover state.
func (cc *CircleCanvas) SetResult(result model.PackingResult, settings model.PackSettings) {
	cc.result = result
	cc.settings = settings
	cc.hovered = -1
	cc.Refresh()
}

func (cc *CircleCanvas) transform(size fyne.Size) Transform {
	return FitTransform(cc.result.Circle.Radius, size, canvasMargin)
}

func (cc *CircleCanvas) MouseIn(e *desktop.MouseEvent) {
	cc.hoverAt(e.Position)
}

func (cc *CircleCanvas) MouseMoved(e *desktop.MouseEvent) {
	cc.hoverAt(e.Position)
}

func (cc *CircleCanvas) MouseOut() {
	cc.setHovered(-1)
}

func (cc *CircleCanvas) hoverAt(pos fyne.Position) {
	if !(cc.result.Circle.Radius > 0) {
		return
	}
	p := cc.transform(cc.Size()).ToModel(pos)
	cc.setHovered(RectangleAt(cc.result.Rectangles, p))
}

func (cc *CircleCanvas) setHovered(idx int) {
	if idx == cc.hovered {
		return
	}
	cc.hovered = idx
	cc.Refresh()
	if cc.OnHover != nil {
		cc.OnHover(idx)
	}
}

func (cc *CircleCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &circleCanvasRenderer{cc: cc}
	r.rebuild(cc.Size())
	return r
}

type circleCanvasRenderer struct {
	cc      *CircleCanvas
	objects []fyne.CanvasObject
}

func (r *circleCanvasRenderer) rebuild(size fyne.Size) {
	r.objects = nil

	res := r.cc.result
	if !(res.Circle.Radius > 0) {
		msg := canvas.NewText("No layout yet. Enter the dimensions and press Calculate.", color.Gray{Y: 120})
		msg.Move(fyne.NewPos(canvasMargin, canvasMargin))
		r.objects = append(r.objects, msg)
		return
	}

	t := r.cc.transform(size)

	blank := canvas.NewCircle(colorBlank)
	blank.StrokeColor = colorBlankEdge
	blank.StrokeWidth = 2
	placeCircle(blank, t, res.Circle.Radius)
	r.objects = append(r.objects, blank)

	if safe := res.Circle.Radius - r.cc.settings.SafeZone; r.cc.settings.SafeZone > 0 && safe > 0 {
		ring := canvas.NewCircle(color.Transparent)
		ring.StrokeColor = colorSafeZone
		ring.StrokeWidth = 1
		placeCircle(ring, t, safe)
		r.objects = append(r.objects, ring)
	}

	for i, rect := range res.Rectangles {
		fill := colorRect0
		if rect.Rotation != 0 {
			fill = colorRect90
		}
		if i == r.cc.hovered {
			fill = colorHover
		}

		// Rotations are multiples of 90°, so the bounding box is the rectangle.
		min, max := rect.BoundingBox()
		topLeft := t.ToScreen(model.Position{X: min.X, Y: max.Y})
		w := t.Length(max.X - min.X)
		h := t.Length(max.Y - min.Y)

		box := canvas.NewRectangle(fill)
		box.StrokeColor = colorRectEdge
		box.StrokeWidth = 1
		box.Resize(fyne.NewSize(w, h))
		box.Move(topLeft)
		r.objects = append(r.objects, box)

		if w > 18 && h > 14 {
			label := canvas.NewText(fmt.Sprintf("%d", i+1), colorRectEdge)
			label.TextSize = 9
			label.Move(fyne.NewPos(topLeft.X+2, topLeft.Y+1))
			r.objects = append(r.objects, label)
		}
	}
}

func placeCircle(c *canvas.Circle, t Transform, radius float64) {
	center := t.ToScreen(model.Position{})
	side := t.Length(2 * radius)
	c.Resize(fyne.NewSize(side, side))
	c.Move(fyne.NewPos(center.X-side/2, center.Y-side/2))
}

func (r *circleCanvasRenderer) Layout(size fyne.Size)        { r.rebuild(size) }
func (r *circleCanvasRenderer) Refresh()                     { r.rebuild(r.cc.Size()) }
func (r *circleCanvasRenderer) Destroy()                     {}
func (r *circleCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *circleCanvasRenderer) MinSize() fyne.Size           { return r.cc.minSize }

// DescribeRectangle is the one-line hover text for a placed rectangle.
func DescribeRectangle(result model.PackingResult, idx int) string {
	if idx < 0 || idx >= len(result.Rectangles) {
		return ""
	}
	rect := result.Rectangles[idx]
	return fmt.Sprintf("Rectangle %d: center (%.2f, %.2f) mm, %.1f x %.1f mm, %g°",
		idx+1, rect.Position.X, rect.Position.Y, rect.Width, rect.Height, rect.Rotation)
}

// SummaryLines returns the result figures shown under the canvas.
func SummaryLines(result model.PackingResult, settings model.PackSettings) []string {
	lines := []string{
		fmt.Sprintf("Rectangles placed: %d", result.Count),
		fmt.Sprintf("Efficiency: %.2f%% | Waste: %.2f%%", result.Efficiency, result.Waste),
		fmt.Sprintf("Used area: %.1f mm² of %.1f mm²", result.UsedArea, result.TotalArea),
	}
	if result.Strategy != "" {
		lines = append(lines, "Strategy: "+result.Strategy)
	}

	counts := result.RotationCounts()
	if len(counts) > 0 {
		rotations := make([]float64, 0, len(counts))
		for rot := range counts {
			rotations = append(rotations, rot)
		}
		sort.Float64s(rotations)
		parts := make([]string, 0, len(rotations))
		for _, rot := range rotations {
			parts = append(parts, fmt.Sprintf("%g°: %d", rot, counts[rot]))
		}
		lines = append(lines, "Orientation: "+strings.Join(parts, ", "))
	}

	v := engine.Verify(result, settings)
	if v.Passed() {
		lines = append(lines, "Verification: passed")
	} else {
		lines = append(lines, fmt.Sprintf("Verification: FAILED (%d overlaps, %d out of bounds, %d clearance violations)",
			len(v.Overlaps), len(v.OutOfBounds), len(v.ClearanceViolations)))
	}
	return lines
}

// RenderResultSummary builds the label stack shown under the canvas.
func RenderResultSummary(result *model.PackingResult, settings model.PackSettings) fyne.CanvasObject {
	if result == nil {
		return widget.NewLabel("No results yet.")
	}

	var items []fyne.CanvasObject
	for i, line := range SummaryLines(*result, settings) {
		l := widget.NewLabel(line)
		if i == 0 {
			l.TextStyle = fyne.TextStyle{Bold: true}
		}
		if strings.HasPrefix(line, "Verification: FAILED") {
			l.Importance = widget.DangerImportance
		}
		items = append(items, l)
	}
	if result.Count == 0 {
		warning := widget.NewLabel("WARNING: no rectangle fits inside the usable circle.")
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}
	return container.NewVBox(items...)
}

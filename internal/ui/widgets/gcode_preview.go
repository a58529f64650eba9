package widgets

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CircleCut/internal/gcode"
	"github.com/piwi3910/CircleCut/internal/model"
)

// Toolpath colors for different move types.
var (
	colorRapid   = color.NRGBA{R: 255, G: 60, B: 60, A: 200}  // Red for rapid moves
	colorFeed    = color.NRGBA{R: 30, G: 120, B: 255, A: 230} // Blue for cutting moves
	colorPlunge  = color.NRGBA{R: 50, G: 200, B: 50, A: 220}  // Green for plunge
	colorRetract = color.NRGBA{R: 180, G: 180, B: 0, A: 180}  // Yellow for retract
	colorPart    = color.NRGBA{R: 200, G: 220, B: 255, A: 120}
	colorTab     = color.NRGBA{R: 255, G: 165, B: 0, A: 220} // Orange for tab lifts
)

// arcSegments is the polyline resolution used to draw a full G2/G3 circle.
const arcSegments = 96

// GCodePreview renders parsed toolpath moves over the packed blank.
type GCodePreview struct {
	widget.BaseWidget
	moves    []gcode.GCodeMove
	result   model.PackingResult
	settings model.CutSettings
	minSize  fyne.Size
}

func NewGCodePreview(moves []gcode.GCodeMove, result model.PackingResult, settings model.CutSettings, maxW, maxH float32) *GCodePreview {
	gp := &GCodePreview{
		moves:    moves,
		result:   result,
		settings: settings,
		minSize:  fyne.NewSize(maxW, maxH),
	}
	gp.ExtendBaseWidget(gp)
	return gp
}

// CreateRenderer implements fyne.Widget.
func (gp *GCodePreview) CreateRenderer() fyne.WidgetRenderer {
	r := &gcodePreviewRenderer{gp: gp}
	r.rebuild(gp.Size())
	return r
}

type gcodePreviewRenderer struct {
	gp      *GCodePreview
	objects []fyne.CanvasObject
}

func (r *gcodePreviewRenderer) rebuild(size fyne.Size) {
	r.objects = nil

	gp := r.gp
	radius := gp.result.Circle.Radius
	if !(radius > 0) {
		return
	}

	// Leave room for the blank outline cut outside the rim.
	t := FitTransform(radius+gp.settings.ToolDiameter, size, canvasMargin)

	blank := canvas.NewCircle(colorBlank)
	blank.StrokeColor = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	blank.StrokeWidth = 2
	placeCircle(blank, t, radius)
	r.objects = append(r.objects, blank)

	for _, rect := range gp.result.Rectangles {
		min, max := rect.BoundingBox()
		box := canvas.NewRectangle(colorPart)
		box.StrokeColor = color.NRGBA{R: 100, G: 130, B: 180, A: 200}
		box.StrokeWidth = 1
		box.Resize(fyne.NewSize(t.Length(max.X-min.X), t.Length(max.Y-min.Y)))
		box.Move(t.ToScreen(model.Position{X: min.X, Y: max.Y}))
		r.objects = append(r.objects, box)
	}

	for _, m := range gp.moves {
		from := t.ToScreen(model.Position{X: m.FromX, Y: m.FromY})
		to := t.ToScreen(model.Position{X: m.ToX, Y: m.ToY})
		xyDist := math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)

		switch m.Type {
		case gcode.MoveRapid:
			if xyDist < 0.01 {
				continue
			}
			r.addLine(from, to, colorRapid, 1)

		case gcode.MoveFeed:
			if xyDist < 0.01 {
				continue
			}
			r.addLine(from, to, colorFeed, 2)

		case gcode.MoveArc:
			pts := ArcPoints(m, arcSegments)
			for i := 1; i < len(pts); i++ {
				r.addLine(t.ToScreen(pts[i-1]), t.ToScreen(pts[i]), colorFeed, 2)
			}

		case gcode.MovePlunge:
			r.addMarker(from, colorPlunge, 4)

		case gcode.MoveRetract:
			switch {
			case m.ToZ <= 0:
				// Lift inside the material: a holding tab.
				r.addMarker(from, colorTab, 5)
			case xyDist < 0.01:
				r.addMarker(from, colorRetract, 3)
			default:
				r.addLine(from, to, colorRetract, 1)
			}
		}
	}
}

func (r *gcodePreviewRenderer) addLine(from, to fyne.Position, c color.Color, width float32) {
	line := canvas.NewLine(c)
	line.StrokeWidth = width
	line.Position1 = from
	line.Position2 = to
	r.objects = append(r.objects, line)
}

func (r *gcodePreviewRenderer) addMarker(at fyne.Position, c color.Color, size float32) {
	marker := canvas.NewCircle(c)
	marker.Resize(fyne.NewSize(size, size))
	marker.Move(fyne.NewPos(at.X-size/2, at.Y-size/2))
	r.objects = append(r.objects, marker)
}

func (r *gcodePreviewRenderer) Layout(size fyne.Size)        { r.rebuild(size) }
func (r *gcodePreviewRenderer) Refresh()                     { r.rebuild(r.gp.Size()) }
func (r *gcodePreviewRenderer) Destroy()                     {}
func (r *gcodePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *gcodePreviewRenderer) MinSize() fyne.Size           { return r.gp.minSize }

// ArcPoints samples an arc move as a polyline. A full circle uses segments
// chords; partial arcs use proportionally fewer, at least one.
func ArcPoints(m gcode.GCodeMove, segments int) []model.Position {
	radius := math.Hypot(m.FromX-m.CenterX, m.FromY-m.CenterY)
	start := math.Atan2(m.FromY-m.CenterY, m.FromX-m.CenterX)
	sweep := 0.0
	if radius > 0 {
		sweep = m.Length() / radius
	}
	if m.Clockwise {
		sweep = -sweep
	}

	n := int(math.Ceil(float64(segments) * math.Abs(sweep) / (2 * math.Pi)))
	if n < 1 {
		n = 1
	}
	pts := make([]model.Position, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		pts = append(pts, model.Position{
			X: m.CenterX + radius*math.Cos(a),
			Y: m.CenterY + radius*math.Sin(a),
		})
	}
	return pts
}

// RenderGCodePreview builds the preview panel for a generated program: the
// toolpath drawing, a color legend and the program statistics.
func RenderGCodePreview(result model.PackingResult, settings model.CutSettings, code string) fyne.CanvasObject {
	moves := gcode.ParseGCode(code)
	stats := gcode.Summarize(moves)

	preview := NewGCodePreview(moves, result, settings, 600, 600)

	legend := container.NewHBox(
		legendItem("Rapid", colorRapid),
		legendItem("Cut", colorFeed),
		legendItem("Plunge", colorPlunge),
		legendItem("Retract", colorRetract),
		legendItem("Tab", colorTab),
	)

	info := widget.NewLabel(fmt.Sprintf(
		"%d moves, %d plunges | cut %.0f mm, rapid %.0f mm | est. feed time %.1f min",
		stats.Moves, stats.Plunges, stats.CutLength, stats.RapidLength, stats.CutMinutes,
	))

	return container.NewBorder(nil, container.NewVBox(legend, info), nil, nil, preview)
}

func legendItem(label string, c color.Color) fyne.CanvasObject {
	swatch := canvas.NewRectangle(c)
	swatch.SetMinSize(fyne.NewSize(14, 14))
	return container.NewHBox(swatch, widget.NewLabel(label))
}

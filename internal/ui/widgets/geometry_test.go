package widgets

import (
	"math"
	"strings"
	"testing"

	"fyne.io/fyne/v2"

	"github.com/piwi3910/CircleCut/internal/gcode"
	"github.com/piwi3910/CircleCut/internal/model"
)

func TestFitTransform_CentersCircle(t *testing.T) {
	tr := FitTransform(50, fyne.NewSize(300, 200), 10)

	// Shorter side 200, minus 2*10 margin, spans the 100mm diameter.
	if math.Abs(float64(tr.Scale)-1.8) > 1e-6 {
		t.Errorf("expected scale 1.8, got %f", tr.Scale)
	}
	center := tr.ToScreen(model.Position{})
	if center.X != 150 || center.Y != 100 {
		t.Errorf("expected circle center at (150,100), got (%f,%f)", center.X, center.Y)
	}
	top := tr.ToScreen(model.Position{X: 0, Y: 50})
	if math.Abs(float64(top.Y)-10) > 1e-4 {
		t.Errorf("expected top of circle at y=10, got %f", top.Y)
	}
}

func TestTransform_RoundTrip(t *testing.T) {
	tr := FitTransform(75, fyne.NewSize(400, 400), 12)
	p := model.Position{X: -12.5, Y: 33.25}
	back := tr.ToModel(tr.ToScreen(p))
	if math.Abs(back.X-p.X) > 1e-3 || math.Abs(back.Y-p.Y) > 1e-3 {
		t.Errorf("round trip drifted: got (%f,%f), want (%f,%f)", back.X, back.Y, p.X, p.Y)
	}
}

func TestFitTransform_ZeroRadius(t *testing.T) {
	tr := FitTransform(0, fyne.NewSize(100, 100), 10)
	if tr.Scale != 1 {
		t.Errorf("expected fallback scale 1, got %f", tr.Scale)
	}
}

func TestRectangleAt(t *testing.T) {
	rects := []model.Rectangle{
		model.NewRectangle(model.Position{X: 0, Y: 0}, 20, 10, 0),
		model.NewRectangle(model.Position{X: 30, Y: 0}, 20, 10, 90),
	}

	tests := []struct {
		name string
		p    model.Position
		want int
	}{
		{"center of first", model.Position{X: 0, Y: 0}, 0},
		{"inside first wide side", model.Position{X: 9, Y: 4}, 0},
		{"outside first tall side", model.Position{X: 0, Y: 6}, -1},
		{"inside rotated along y", model.Position{X: 30, Y: 9}, 1},
		{"outside rotated along x", model.Position{X: 36, Y: 0}, -1},
		{"empty space", model.Position{X: -40, Y: -40}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectangleAt(rects, tt.p); got != tt.want {
				t.Errorf("RectangleAt(%v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestArcPoints_FullCircle(t *testing.T) {
	m := gcode.GCodeMove{Type: gcode.MoveArc, FromX: 10, FromY: 0, ToX: 10, ToY: 0, Clockwise: true}
	pts := ArcPoints(m, 32)

	if len(pts) != 33 {
		t.Fatalf("expected 33 points, got %d", len(pts))
	}
	for i, p := range pts {
		if r := math.Hypot(p.X, p.Y); math.Abs(r-10) > 1e-9 {
			t.Errorf("point %d off the circle: r=%f", i, r)
		}
	}
	// Clockwise from (10,0) heads into negative y first.
	if pts[1].Y >= 0 {
		t.Errorf("expected clockwise sampling, second point %v", pts[1])
	}
}

func TestDescribeRectangle(t *testing.T) {
	result := model.PackingResult{Rectangles: []model.Rectangle{
		model.NewRectangle(model.Position{X: 1.5, Y: -2}, 15, 10, 90),
	}}
	got := DescribeRectangle(result, 0)
	if !strings.Contains(got, "Rectangle 1") || !strings.Contains(got, "90°") {
		t.Errorf("unexpected description %q", got)
	}
	if DescribeRectangle(result, 1) != "" || DescribeRectangle(result, -1) != "" {
		t.Error("expected empty description for out of range index")
	}
}

func TestSummaryLines(t *testing.T) {
	settings := model.DefaultSettings()
	result := model.PackingResult{
		Circle: model.Circle{Radius: 50},
		Rectangles: []model.Rectangle{
			model.NewRectangle(model.Position{X: 0, Y: 0}, 15, 10, 0),
			model.NewRectangle(model.Position{X: 20, Y: 0}, 15, 10, 90),
		},
		Count:    2,
		Strategy: "Strict Grid 0°",
	}

	lines := SummaryLines(result, settings)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Rectangles placed: 2", "Strategy: Strict Grid 0°", "0°: 1, 90°: 1", "Verification: passed"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in summary:\n%s", want, joined)
		}
	}
}

package importer

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/CircleCut/internal/model"
)

func saveDrawing(t *testing.T, build func(d *drawing.Drawing)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.dxf")
	d := dxf.NewDrawing()
	build(d)
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}
	return path
}

func TestImportDXFTemplate_CircleAndPolyline(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		d.Circle(0, 0, 0, 60)
		d.Circle(0, 0, 0, 55)
		d.Circle(200, 0, 0, 5) // not concentric
		d.LwPolyline(true, []float64{0, 0}, []float64{25, 0}, []float64{25, 12}, []float64{0, 12})
	})

	got := ImportDXFTemplate(path)

	if len(got.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", got.Errors)
	}
	if !got.HasCircle || got.CircleDiameter != 120 {
		t.Errorf("expected diameter 120, got %v (found=%v)", got.CircleDiameter, got.HasCircle)
	}
	if got.SafeZone != 5 {
		t.Errorf("expected safe zone 5 from the concentric circle, got %v", got.SafeZone)
	}
	if !got.HasRectangle || got.RectWidth != 25 || got.RectHeight != 12 {
		t.Errorf("expected 25x12 rectangle, got %vx%v", got.RectWidth, got.RectHeight)
	}
}

func TestImportDXFTemplate_LineChain(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		// Drawn starting with a vertical edge, segments out of order.
		d.Line(0, 0, 0, 0, 8, 0)
		d.Line(30, 8, 0, 30, 0, 0)
		d.Line(0, 8, 0, 30, 8, 0)
		d.Line(30, 0, 0, 0, 0, 0)
	})

	got := ImportDXFTemplate(path)

	if !got.HasRectangle {
		t.Fatalf("expected rectangle from line chain, errors: %v", got.Errors)
	}
	if got.RectWidth != 30 || got.RectHeight != 8 {
		t.Errorf("expected 30x8, got %vx%v", got.RectWidth, got.RectHeight)
	}
	if got.HasCircle {
		t.Error("no circle in drawing")
	}
	found := false
	for _, w := range got.Warnings {
		if strings.Contains(w, "No circle") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing-circle warning, got %v", got.Warnings)
	}
}

func TestImportDXFTemplate_RotatedRectangle(t *testing.T) {
	c, s := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
	pt := func(x, y float64) []float64 { return []float64{x*c - y*s, x*s + y*c} }
	path := saveDrawing(t, func(d *drawing.Drawing) {
		d.LwPolyline(true, pt(0, 0), pt(20, 0), pt(20, 10), pt(0, 10))
	})

	got := ImportDXFTemplate(path)

	if !got.HasRectangle {
		t.Fatalf("expected rectangle, errors: %v", got.Errors)
	}
	if math.Abs(got.RectWidth-20) > 1e-3 || math.Abs(got.RectHeight-10) > 1e-3 {
		t.Errorf("expected 20x10, got %vx%v", got.RectWidth, got.RectHeight)
	}
	if len(got.Warnings) == 0 || !strings.Contains(strings.Join(got.Warnings, ";"), "rotated") {
		t.Errorf("expected rotation warning, got %v", got.Warnings)
	}
}

func TestImportDXFTemplate_NonRectangleIgnored(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		d.LwPolyline(true, []float64{0, 0}, []float64{10, 0}, []float64{5, 8})
		d.Circle(0, 0, 0, 40)
	})

	got := ImportDXFTemplate(path)

	if got.HasRectangle {
		t.Error("a triangle is not a rectangle")
	}
	if !got.HasCircle || got.CircleDiameter != 80 {
		t.Errorf("expected diameter 80, got %v", got.CircleDiameter)
	}
}

func TestImportDXFTemplate_Empty(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {})
	got := ImportDXFTemplate(path)
	if len(got.Errors) == 0 {
		t.Error("expected error for drawing without entities")
	}
}

func TestImportDXFTemplate_FileNotFound(t *testing.T) {
	got := ImportDXFTemplate("/nonexistent/template.dxf")
	if len(got.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestTemplateResult_Apply(t *testing.T) {
	s := model.DefaultSettings()
	TemplateResult{RectWidth: 40, RectHeight: 20, HasRectangle: true}.Apply(&s)

	if s.RectWidth != 40 || s.RectHeight != 20 {
		t.Errorf("rectangle not applied: %+v", s)
	}
	if s.CircleDiameter != 100 {
		t.Errorf("diameter should be untouched, got %v", s.CircleDiameter)
	}
}

func TestChainSegments_OpenChainDropped(t *testing.T) {
	segs := []segment{
		{model.Position{X: 0, Y: 0}, model.Position{X: 10, Y: 0}},
		{model.Position{X: 10, Y: 0}, model.Position{X: 10, Y: 10}},
	}
	if got := chainSegments(segs, chainTolerance); len(got) != 0 {
		t.Errorf("expected no closed outlines, got %d", len(got))
	}
}

func TestOutlineArea(t *testing.T) {
	sq := outline{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}}
	if got := outlineArea(sq); got != 12 {
		t.Errorf("outlineArea = %v, want 12", got)
	}
}

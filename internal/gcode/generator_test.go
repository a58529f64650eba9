package gcode

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/piwi3910/CircleCut/internal/model"
)

// newTestSettings returns CutSettings suitable for testing with predictable output.
func newTestSettings() model.CutSettings {
	s := model.DefaultCutSettings()
	s.ToolDiameter = 3.0
	s.FeedRate = 1000.0
	s.PlungeRate = 300.0
	s.SpindleSpeed = 12000
	s.SafeZ = 5.0
	s.CutDepth = 6.0
	s.PassDepth = 6.0
	s.GCodeProfile = "Generic"
	s.TabsPerSide = 0
	s.CutBlank = false
	return s
}

func newTestResult() model.PackingResult {
	return model.PackingResult{
		Circle: model.Circle{Radius: 50},
		Rectangles: []model.Rectangle{
			model.NewRectangle(model.Position{X: 10, Y: 5}, 20, 10, 0),
			model.NewRectangle(model.Position{X: -20, Y: -10}, 20, 10, 90),
		},
		Count:      2,
		Efficiency: 5.09,
	}
}

func countLines(code, prefix string) int {
	n := 0
	for _, line := range strings.Split(code, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestGenerate_Basic(t *testing.T) {
	code, err := New(newTestSettings()).Generate(newTestResult())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if !strings.Contains(code, "CircleCut GCode") {
		t.Error("expected header comment")
	}
	if !strings.Contains(code, "M3 S12000") {
		t.Error("expected spindle start with configured speed")
	}
	if got := strings.Count(code, "--- Rectangle "); got != 2 {
		t.Errorf("expected 2 rectangle sections, got %d", got)
	}
	if strings.Contains(code, "G2 ") || strings.Contains(code, "G3 ") {
		t.Error("expected no arc commands without blank cut")
	}
	if !strings.HasSuffix(strings.TrimSpace(code), "M5") {
		t.Error("expected program to end with spindle stop")
	}
}

func TestGenerate_NothingToCut(t *testing.T) {
	_, err := New(newTestSettings()).Generate(model.PackingResult{Circle: model.Circle{Radius: 50}})
	if !errors.Is(err, ErrNothingToCut) {
		t.Fatalf("expected ErrNothingToCut, got %v", err)
	}
}

func TestGenerate_BlankOnly(t *testing.T) {
	settings := newTestSettings()
	settings.CutBlank = true
	code, err := New(settings).Generate(model.PackingResult{Circle: model.Circle{Radius: 50}})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	// Tool center runs at R + tool radius.
	if !strings.Contains(code, "G2 X51.500 Y0.000 I-51.500 J0.000") {
		t.Errorf("expected full circle arc around the blank, got:\n%s", code)
	}
}

func TestGenerate_InvalidSettings(t *testing.T) {
	settings := newTestSettings()
	settings.PassDepth = 0
	settings.ToolDiameter = -1

	_, err := New(settings).Generate(newTestResult())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "pass depth") || !strings.Contains(err.Error(), "tool diameter") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}

func TestValidate_TabsNeedSize(t *testing.T) {
	settings := newTestSettings()
	settings.TabsPerSide = 2
	settings.TabWidth = 0
	if err := New(settings).Validate(); err == nil {
		t.Error("expected error for zero tab width")
	}
}

func TestGenerate_MultiplePasses(t *testing.T) {
	settings := newTestSettings()
	settings.CutDepth = 6.0
	settings.PassDepth = 2.5

	code, err := New(settings).Generate(newTestResult())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got := strings.Count(code, "Pass 3/3"); got != 2 {
		t.Errorf("expected a third pass per rectangle, got %d", got)
	}
	if !strings.Contains(code, "depth=6.00mm") {
		t.Error("expected last pass clamped to full cut depth")
	}
	if strings.Contains(code, "Pass 4/") {
		t.Error("expected exactly 3 passes")
	}
}

func TestToolpath_AxisAligned(t *testing.T) {
	rect := model.NewRectangle(model.Position{X: 10, Y: 5}, 20, 10, 0)
	path := Toolpath(rect, 1.5)

	want := []model.Position{
		{X: -1.5, Y: -1.5},
		{X: -1.5, Y: 11.5},
		{X: 21.5, Y: 11.5},
		{X: 21.5, Y: -1.5},
		{X: -1.5, Y: -1.5},
	}
	if len(path) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(path))
	}
	for i := range want {
		if math.Abs(path[i].X-want[i].X) > 1e-9 || math.Abs(path[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("point %d: got (%.3f, %.3f), want (%.3f, %.3f)", i, path[i].X, path[i].Y, want[i].X, want[i].Y)
		}
	}
}

func TestToolpath_Clockwise(t *testing.T) {
	rect := model.NewRectangle(model.Position{X: 3, Y: -4}, 12, 7, 30)
	path := Toolpath(rect, 2)

	// Shoelace: negative signed area means clockwise.
	area := 0.0
	for i := 0; i < len(path)-1; i++ {
		area += path[i].X*path[i+1].Y - path[i+1].X*path[i].Y
	}
	if area >= 0 {
		t.Errorf("expected clockwise toolpath, signed area %.3f", area)
	}
}

func TestToolpath_RotatedOffsetDistance(t *testing.T) {
	rect := model.NewRectangle(model.Position{X: 0, Y: 0}, 20, 10, 45)
	toolR := 1.5
	path := Toolpath(rect, toolR)
	corners := rect.Corners()

	// Every offset vertex sits on the miter diagonal of its corner.
	for _, pt := range path[:4] {
		best := math.Inf(1)
		for _, c := range corners {
			best = math.Min(best, math.Hypot(pt.X-c.X, pt.Y-c.Y))
		}
		if math.Abs(best-toolR*math.Sqrt2) > 1e-9 {
			t.Errorf("vertex (%.3f, %.3f) is %.4f from nearest corner, want %.4f", pt.X, pt.Y, best, toolR*math.Sqrt2)
		}
	}
}

func TestGenerate_Tabs(t *testing.T) {
	settings := newTestSettings()
	settings.TabsPerSide = 1
	settings.TabWidth = 3
	settings.TabHeight = 1

	code, err := New(settings).Generate(newTestResult())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	// One tab per edge, four edges, two rectangles.
	if got := countLines(code, "G1 Z-5.000"); got != 8 {
		t.Errorf("expected 8 tab lifts, got %d", got)
	}
}

func TestGenerate_TabsOnlyOnFinalPass(t *testing.T) {
	settings := newTestSettings()
	settings.PassDepth = 3
	settings.TabsPerSide = 2
	settings.TabWidth = 2
	settings.TabHeight = 1

	result := newTestResult()
	result.Rectangles = result.Rectangles[:1]
	code, err := New(settings).Generate(result)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	first := code[strings.Index(code, "Pass 1/2"):strings.Index(code, "Pass 2/2")]
	if strings.Contains(first, "G1 Z-2.000") {
		t.Error("expected no tabs on the first pass")
	}
	if got := countLines(code, "G1 Z-5.000"); got != 8 {
		t.Errorf("expected 8 tab lifts on the final pass, got %d", got)
	}
}

func TestGenerate_FanucComments(t *testing.T) {
	settings := newTestSettings()
	settings.GCodeProfile = "Fanuc"

	code, err := New(settings).Generate(newTestResult())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.Contains(code, "( CircleCut GCode)") {
		t.Error("expected parenthesised comments for Fanuc profile")
	}
	if !strings.Contains(code, "G01 ") {
		t.Error("expected Fanuc feed word")
	}
	if !strings.Contains(code, "M30") {
		t.Error("expected Fanuc program end")
	}
}

func TestFormat_NoNegativeZero(t *testing.T) {
	g := New(newTestSettings())
	if got := g.format(-0.0001); got != "0.000" {
		t.Errorf("format(-0.0001) = %q, want 0.000", got)
	}
	if got := g.format(-1.25); got != "-1.250" {
		t.Errorf("format(-1.25) = %q, want -1.250", got)
	}
}

func TestGenerate_StatsMatchGeometry(t *testing.T) {
	settings := newTestSettings()
	result := newTestResult()
	result.Rectangles = result.Rectangles[:1]

	code, err := New(settings).Generate(result)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	stats := Summarize(ParseGCode(code))

	perimeter := 2 * ((20 + 3) + (10 + 3))
	want := float64(perimeter) + settings.SafeZ + settings.CutDepth // one plunge from safe Z
	if math.Abs(stats.CutLength-want) > 0.01 {
		t.Errorf("cut length = %.3f, want %.3f", stats.CutLength, want)
	}
	if stats.Plunges != 1 {
		t.Errorf("expected 1 plunge, got %d", stats.Plunges)
	}
}

package engine

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CircleCut/internal/model"
)

func settings(diameter, w, h, tol, safe float64) model.PackSettings {
	return model.PackSettings{
		CircleDiameter: diameter,
		RectWidth:      w,
		RectHeight:     h,
		Tolerance:      tol,
		SafeZone:       safe,
	}
}

// assertInvariants checks containment, rotation and pairwise overlap at zero tolerance.
func assertInvariants(t *testing.T, s model.PackSettings, result model.PackingResult) {
	t.Helper()
	eff := s.EffectiveRadius()
	for i, r := range result.Rectangles {
		assert.Contains(t, []float64{0, 90}, r.Rotation, "rect %d rotation", i)
		for k, c := range r.Corners() {
			assert.LessOrEqual(t, math.Hypot(c.X, c.Y), eff+1e-9, "rect %d corner %d", i, k)
		}
	}
	for i := 0; i < len(result.Rectangles); i++ {
		for j := i + 1; j < len(result.Rectangles); j++ {
			require.False(t, RectanglesOverlap(result.Rectangles[i], result.Rectangles[j], 0),
				"rects %d and %d overlap", i, j)
		}
	}
	assert.Equal(t, len(result.Rectangles), result.Count)
}

func TestOptimize_ScenarioA(t *testing.T) {
	s := settings(100, 15, 10, 0, 0)
	result := New(s).Optimize()

	require.Greater(t, result.Count, 0)
	assertInvariants(t, s, result)
	assert.True(t, strings.Contains(result.Strategy, "0°") || strings.Contains(result.Strategy, "90°"),
		"strategy %q", result.Strategy)
	assert.True(t, New(s).validateNoOverlaps(result.Rectangles))
	assert.Equal(t, 50.0, result.Circle.Radius)
}

func TestOptimize_ScenarioB_TightCircle(t *testing.T) {
	s := settings(20, 15, 10, 0, 0)
	result := New(s).Optimize()

	assert.LessOrEqual(t, result.Count, 1)
	assertInvariants(t, s, result)
}

func TestOptimize_ScenarioC_SafeZoneSwallowsCircle(t *testing.T) {
	for _, safe := range []float64{50, 75} {
		s := settings(100, 15, 10, 0, safe)
		result := New(s).Optimize()

		assert.Equal(t, 0, result.Count)
		assert.Empty(t, result.Rectangles)
		assert.Equal(t, 0.0, result.Efficiency)
		assert.Equal(t, 100.0, result.Waste)
	}
}

func TestOptimize_ScenarioD_LargeToleranceDoesNotHelp(t *testing.T) {
	tight := New(settings(100, 15, 10, 0, 0)).Optimize()
	loose := New(settings(100, 15, 10, 10, 0)).Optimize()

	assert.LessOrEqual(t, loose.Count, tight.Count)
}

func TestOptimize_Determinism(t *testing.T) {
	for _, s := range []model.PackSettings{
		settings(100, 15, 10, 0, 0),
		settings(120, 7, 22, 1.5, 3),
	} {
		first := New(s).Optimize()
		second := New(s).Optimize()
		assert.Equal(t, first, second)
	}
}

func TestOptimize_EfficiencyIdentity(t *testing.T) {
	for _, s := range []model.PackSettings{
		settings(100, 15, 10, 0, 0),
		settings(80, 12, 5, 0.5, 2),
		settings(20, 15, 10, 0, 0),
	} {
		result := New(s).Optimize()
		r := s.CircleDiameter / 2
		want := float64(result.Count) * s.RectWidth * s.RectHeight / (math.Pi * r * r) * 100
		assert.InDelta(t, want, result.Efficiency, 1e-9)
		assert.InDelta(t, 100-result.Efficiency, result.Waste, 1e-9)
		assert.InDelta(t, math.Pi*r*r, result.TotalArea, 1e-9)
	}
}

func TestOptimize_ToleranceKeepsClearance(t *testing.T) {
	s := settings(100, 15, 10, 2, 0)
	result := New(s).Optimize()
	require.Greater(t, result.Count, 0)
	assertInvariants(t, s, result)

	v := Verify(result, s)
	assert.Empty(t, v.ClearanceViolations)
	assert.GreaterOrEqual(t, v.MinClearance, 2-boundsEps)
}

func TestOptimize_SafeZoneShrinksUsableArea(t *testing.T) {
	s := settings(100, 15, 10, 0, 8)
	result := New(s).Optimize()
	assertInvariants(t, s, result)
	assert.LessOrEqual(t, result.Count, New(settings(100, 15, 10, 0, 0)).Optimize().Count)
}

func TestOptimize_DegenerateSettings(t *testing.T) {
	result := New(settings(100, 0, 10, 0, 0)).Optimize()
	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 100.0, result.Waste)

	result = New(settings(0, 10, 10, 0, 0)).Optimize()
	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 0.0, result.Efficiency)
	assert.Equal(t, 100.0, result.Waste)
}

func TestOptimize_LogsStrategies(t *testing.T) {
	var buf bytes.Buffer
	opt := New(settings(60, 10, 8, 0, 0))
	opt.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opt.Optimize()

	out := buf.String()
	assert.Contains(t, out, "Strict Grid (Rot: 0° + Fill)")
	assert.Contains(t, out, "Strict Grid (Rot: 90° + Fill)")
	assert.Contains(t, out, "packing chosen")
}

func TestOptimize_NilLogger(t *testing.T) {
	opt := &Optimizer{Settings: settings(50, 10, 5, 0, 0)}
	assert.NotPanics(t, func() { opt.Optimize() })
}

func TestValidateNoOverlaps(t *testing.T) {
	opt := New(settings(100, 10, 10, 0, 0))
	assert.True(t, opt.validateNoOverlaps([]model.Rectangle{square(0, 0, 10, 0), square(10, 0, 10, 0)}))
	assert.False(t, opt.validateNoOverlaps([]model.Rectangle{square(0, 0, 10, 0), square(5, 0, 10, 0)}))
	assert.True(t, opt.validateNoOverlaps(nil))

	// Pairs exactly one tolerance apart are rejected by the tolerance test.
	opt.Settings.Tolerance = 1
	assert.False(t, opt.validateNoOverlaps([]model.Rectangle{square(0, 0, 10, 0), square(11, 0, 10, 0)}))
}

func TestCalculateEfficiency_ZeroArea(t *testing.T) {
	opt := New(settings(0, 10, 10, 0, 0))
	r := model.PackingResult{}
	opt.calculateEfficiency(&r)
	assert.Equal(t, 0.0, r.Efficiency)
	assert.Equal(t, 100.0, r.Waste)
}

func TestOptimize_ToleranceFallsBackToLargestCandidate(t *testing.T) {
	s := settings(100, 15, 10, 2, 0)
	p := newPacker(s)
	c0, c90 := p.strictGrid(0), p.strictGrid(90)

	opt := New(s)
	// Grid neighbours sit exactly one tolerance apart, so neither passes.
	require.False(t, opt.validateNoOverlaps(c0.Rectangles))
	require.False(t, opt.validateNoOverlaps(c90.Rectangles))
	require.Equal(t, 29, c0.Count)
	require.Equal(t, 29, c90.Count)

	var buf bytes.Buffer
	opt.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	result := opt.Optimize()

	// Equal counts keep the first candidate.
	assert.Equal(t, c0.Strategy, result.Strategy)
	assert.Equal(t, c0.Rectangles, result.Rectangles)
	assert.InDelta(t, 55.38592019597958, result.Efficiency, 1e-9)
	assert.Empty(t, buf.String(), "fallback is routine for a positive tolerance")

	first := []model.Position{{X: -20.1, Y: -35.8}, {X: -3.1, Y: -35.8}, {X: 13.9, Y: -35.8}, {X: -20.1, Y: -23.8}}
	for i, want := range first {
		assert.InDelta(t, want.X, result.Rectangles[i].Position.X, 1e-9, "rect %d x", i)
		assert.InDelta(t, want.Y, result.Rectangles[i].Position.Y, 1e-9, "rect %d y", i)
	}
	last := []model.Position{{X: -20.1, Y: 36.2}, {X: -3.1, Y: 36.2}, {X: 13.9, Y: 36.2}}
	for i, want := range last {
		got := result.Rectangles[len(result.Rectangles)-len(last)+i].Position
		assert.InDelta(t, want.X, got.X, 1e-9)
		assert.InDelta(t, want.Y, got.Y, 1e-9)
	}
}

func TestOptimize_PlacementOrder_ScenarioA(t *testing.T) {
	result := New(settings(100, 15, 10, 0, 0)).Optimize()
	require.Equal(t, 40, result.Count)
	assert.Equal(t, "Strict Grid (Rot: 0° + Fill)", result.Strategy)

	// Rows bottom to top, left to right within a row.
	rows := []struct {
		y  float64
		xs []float64
	}{
		{-40, []float64{-9.5, 5.5}},
		{-30, []float64{-24.5, -9.5, 5.5, 20.5}},
		{-20, []float64{-24.5, -9.5, 5.5, 20.5, 35.5}},
		{-10, []float64{-39.5, -24.5, -9.5, 5.5, 20.5, 35.5}},
		{0, []float64{-39.5, -24.5, -9.5, 5.5, 20.5, 35.5}},
		{10, []float64{-39.5, -24.5, -9.5, 5.5, 20.5, 35.5}},
		{20, []float64{-24.5, -9.5, 5.5, 20.5, 35.5}},
		{30, []float64{-24.5, -9.5, 5.5, 20.5}},
		{40, []float64{-9.5, 5.5}},
	}
	i := 0
	for _, row := range rows {
		for _, x := range row.xs {
			r := result.Rectangles[i]
			assert.InDelta(t, x, r.Position.X, 1e-9, "rect %d x", i)
			assert.InDelta(t, row.y, r.Position.Y, 1e-9, "rect %d y", i)
			assert.Equal(t, 0.0, r.Rotation, "rect %d rotation", i)
			i++
		}
	}
	assert.Equal(t, 40, i)
}

func TestOptimize_PlacementOrder_SideAndCenterFill(t *testing.T) {
	result := New(settings(60, 15, 10, 0, 0)).Optimize()
	assert.Equal(t, "Strict Grid (Rot: 0° + Fill)", result.Strategy)
	assert.InDelta(t, 68.96714200648798, result.Efficiency, 1e-9)

	// Base grid, then right side, then left side, then the centre gap.
	want := []struct{ x, y, rot float64 }{
		{-7.5, -11, 0}, {7.5, -11, 0},
		{-7.5, -1, 0}, {7.5, -1, 0},
		{-7.5, 9, 0}, {7.5, 9, 0},
		{-7.5, 19, 0}, {7.5, 19, 0},
		{20, -8.5, 90}, {20, 6.5, 90},
		{-20, -8.5, 90}, {-20, 6.5, 90},
		{0, -21, 0},
	}
	require.Len(t, result.Rectangles, len(want))
	for i, w := range want {
		r := result.Rectangles[i]
		assert.InDelta(t, w.x, r.Position.X, 1e-9, "rect %d x", i)
		assert.InDelta(t, w.y, r.Position.Y, 1e-9, "rect %d y", i)
		assert.Equal(t, w.rot, r.Rotation, "rect %d rotation", i)
	}
}

package engine

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CircleCut/internal/model"
)

func TestVerify_CleanPacking(t *testing.T) {
	s := settings(100, 15, 10, 0, 0)
	result := New(s).Optimize()

	v := Verify(result, s)
	assert.True(t, v.Passed())
	assert.Equal(t, result.Count, v.Count)
	assert.Empty(t, v.InvalidRotations)
	assert.Empty(t, v.Overlaps)
	assert.Empty(t, v.OutOfBounds)
	assert.LessOrEqual(t, v.MaxCornerDistance, 50.0)
	assert.Greater(t, v.Touching, 0)

	total := 0
	for _, n := range v.RotationCounts {
		total += n
	}
	assert.Equal(t, result.Count, total)
}

func TestVerify_ReportsProblems(t *testing.T) {
	s := settings(40, 10, 10, 0, 0)
	result := model.PackingResult{Rectangles: []model.Rectangle{
		square(0, 0, 10, 0),
		square(5, 0, 10, 0),    // overlaps #0
		square(0, 16, 10, 0),   // corner at (5, 21) is outside r = 20
		square(-12, 0, 10, 45), // invalid rotation
	}}

	v := Verify(result, s)
	assert.False(t, v.Passed())
	assert.Equal(t, []int{3}, v.InvalidRotations)

	require.NotEmpty(t, v.Overlaps)
	o := v.Overlaps[0]
	assert.Equal(t, 0, o.I)
	assert.Equal(t, 1, o.J)
	assert.InDelta(t, 5.0, o.GapX, 1e-9)
	assert.InDelta(t, 10.0, o.GapY, 1e-9)
	assert.InDelta(t, 5.0, o.CenterDistance, 1e-9)

	require.NotEmpty(t, v.OutOfBounds)
	assert.Equal(t, 2, v.OutOfBounds[0].Index)
	assert.Equal(t, 20.0, v.OutOfBounds[0].Limit)
	assert.Less(t, v.MinClearance, 0.0)
}

func TestVerify_ClearanceViolation(t *testing.T) {
	s := settings(100, 10, 10, 2, 0)
	result := model.PackingResult{Rectangles: []model.Rectangle{
		square(0, 0, 10, 0),
		square(11, 0, 10, 0), // 1mm apart, 2mm required
		square(0, 12, 10, 0), // exactly 2mm apart
	}}

	v := Verify(result, s)
	assert.Empty(t, v.Overlaps)
	require.Len(t, v.ClearanceViolations, 1)
	assert.Equal(t, 0, v.ClearanceViolations[0].I)
	assert.Equal(t, 1, v.ClearanceViolations[0].J)
	assert.False(t, v.Passed())
}

func TestVerify_BoundsSlack(t *testing.T) {
	s := settings(20, 12, 16, 0, 0)
	// Corners sit at exactly r = 10; a hair beyond is within the audit slack.
	result := model.PackingResult{Rectangles: []model.Rectangle{
		model.NewRectangle(model.Position{X: 0.0005}, 12, 16, 0),
	}}
	v := Verify(result, s)
	assert.Empty(t, v.OutOfBounds)
}

func TestVerify_Empty(t *testing.T) {
	v := Verify(model.PackingResult{}, settings(100, 10, 10, 0, 0))
	assert.True(t, v.Passed())
	assert.Equal(t, 0, v.Count)
	assert.Empty(t, v.OpenSlots)
	assert.Equal(t, 0.0, v.MinClearance)
}

func TestVerify_LogValue(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	log.Info("audit", "verification", Verify(model.PackingResult{}, settings(100, 10, 10, 0, 0)))
	assert.Contains(t, buf.String(), "verification.passed=true")
}

func TestEdgePositions(t *testing.T) {
	s := settings(100, 15, 10, 1, 0)
	r := model.NewRectangle(model.Position{}, 15, 10, 0)

	pos := edgePositions(r, 90, s)
	require.Len(t, pos, 4)
	assert.InDelta(t, 13.5, pos[0].X, 1e-9) // right: 7.5 + 1 + 10/2
	assert.InDelta(t, -13.5, pos[1].X, 1e-9)
	assert.InDelta(t, 13.5, pos[2].Y, 1e-9) // top: 5 + 1 + 15/2
	assert.InDelta(t, -13.5, pos[3].Y, 1e-9)

	pos = edgePositions(r, 0, s)
	assert.InDelta(t, 16.0, pos[0].X, 1e-9)
	assert.InDelta(t, 11.0, pos[2].Y, 1e-9)

	assert.Nil(t, edgePositions(model.NewRectangle(model.Position{}, 15, 10, 30), 0, s))
}

func TestTouchesExisting(t *testing.T) {
	a := square(0, 0, 10, 0)

	assert.True(t, touchesExisting(square(10, 0, 10, 0), []model.Rectangle{a}, 0))
	assert.True(t, touchesExisting(square(0, -10, 10, 0), []model.Rectangle{a}, 0))
	assert.True(t, touchesExisting(square(10.0005, 3, 10, 0), []model.Rectangle{a}, 0))
	assert.False(t, touchesExisting(square(20, 0, 10, 0), []model.Rectangle{a}, 0))
	assert.False(t, touchesExisting(square(10, 0, 10, 0), nil, 0))
	// Edge lines meet but the spans are apart vertically.
	assert.False(t, touchesExisting(square(10, 30, 10, 0), []model.Rectangle{a}, 0))
	// Any clearance makes contact irrelevant.
	assert.True(t, touchesExisting(square(50, 50, 10, 0), nil, 0.5))
}

func TestOpenSlots_SingleRectangle(t *testing.T) {
	s := settings(100, 15, 10, 0, 0)
	rects := []model.Rectangle{model.NewRectangle(model.Position{}, 15, 10, 0)}

	slots := openSlots(rects, s)
	assert.Len(t, slots, 8)
	for _, slot := range slots {
		assert.False(t, RectangleOverlapsAny(slot, rects, 0))
	}
}

func TestOpenSlots_NoRoom(t *testing.T) {
	s := settings(20, 15, 10, 0, 0)
	rects := []model.Rectangle{model.NewRectangle(model.Position{}, 15, 10, 0)}
	assert.Empty(t, openSlots(rects, s))
}

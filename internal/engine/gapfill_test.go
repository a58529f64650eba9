package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CircleCut/internal/model"
)

// singleCell is a packing holding one base rectangle at the origin.
func singleCell(p *packer, l layout) ([]model.Rectangle, bounds) {
	r := p.rect(0, 0, l.rotation)
	return []model.Rectangle{r}, bounds{
		minX: -l.w / 2, maxX: l.w / 2,
		minY: -l.h / 2, maxY: l.h / 2,
	}
}

func TestCenterFillTop_StacksUntilBoundary(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 0, 0))
	l := p.layoutFor(0)
	placed, b := singleCell(p, l)

	placed = p.centerFillTop(l, b, placed)

	// y = 10, 20, 30, 40 fit; the next step at y = 50 leaves the circle.
	require.Len(t, placed, 5)
	for i, want := range []float64{10, 20, 30, 40} {
		r := placed[i+1]
		assert.Equal(t, 0.0, r.Position.X)
		assert.InDelta(t, want, r.Position.Y, 1e-9)
		assert.Equal(t, 0.0, r.Rotation)
	}
}

func TestCenterFillBottom_MirrorsTop(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 0, 0))
	l := p.layoutFor(0)
	placed, b := singleCell(p, l)

	placed = p.centerFillBottom(l, b, placed)
	require.Len(t, placed, 5)
	assert.InDelta(t, -40.0, placed[4].Position.Y, 1e-9)
}

func TestCenterFill_StopsOnCollision(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 0, 0))
	l := p.layoutFor(0)
	placed, b := singleCell(p, l)
	blocker := p.rect(0, 12, 0)
	placed = append(placed, blocker)

	placed = p.centerFillTop(l, b, placed)
	assert.Len(t, placed, 2, "the first strip candidate collides so nothing is added")
}

func TestEdgeFills_UseAlternateOrientation(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 0, 0))
	l := p.layoutFor(0)
	placed, b := singleCell(p, l)
	start := len(placed)

	placed = p.fillRight(l, b, placed)
	placed = p.fillLeft(l, b, placed)
	placed = p.fillTop(l, b, placed)
	placed = p.fillBottom(l, b, placed)

	require.Greater(t, len(placed), start)
	for _, r := range placed[start:] {
		assert.Equal(t, 90.0, r.Rotation)
		assert.True(t, FitsInCircle(r, 50))
	}
	assert.False(t, anyOverlap(placed, 0))
}

func TestFillRight_StartsBesideGrid(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 0, 0))
	l := p.layoutFor(0)
	placed, b := singleCell(p, l)

	placed = p.fillRight(l, b, placed)
	require.Greater(t, len(placed), 1)

	// First column sits flush against the grid: 7.5 + 0 + 10/2.
	assert.InDelta(t, 12.5, placed[1].Position.X, 1e-9)
	for _, r := range placed[1:] {
		assert.Greater(t, r.Position.X, 7.5)
	}
}

func TestScanRange_CoversCircle(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 0, 0))
	start, step := -12.5, 15.0
	kStart, kEnd := p.scanRange(start, step)

	assert.LessOrEqual(t, start+float64(kStart)*step, -50.0)
	assert.GreaterOrEqual(t, start+float64(kEnd-1)*step, 50.0)
}

func TestSystematicGapFill(t *testing.T) {
	s := settings(60, 10, 6, 0, 0)
	p := newPacker(s)

	filled := p.systematicGapFill(nil)
	require.NotEmpty(t, filled)
	assert.False(t, anyOverlap(filled, 0))
	for _, r := range filled {
		assert.True(t, FitsInCircle(r, 30))
	}

	// Seeded input is preserved as a prefix and never mutated.
	seed := []model.Rectangle{p.rect(0, 0, 90)}
	out := p.systematicGapFill(seed)
	assert.Equal(t, seed[0], out[0])
	assert.Len(t, seed, 1)
}

func TestSystematicGapFill_PrefersZeroDegrees(t *testing.T) {
	// Squares fit equally well either way, so 0° wins the first slot.
	p := newPacker(settings(40, 10, 10, 0, 0))
	filled := p.systematicGapFill(nil)
	require.NotEmpty(t, filled)
	assert.Equal(t, 0.0, filled[0].Rotation)
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CircleCut/internal/model"
)

func TestLayoutFor(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 1, 0))

	l := p.layoutFor(0)
	assert.Equal(t, 15.0, l.w)
	assert.Equal(t, 10.0, l.h)
	assert.Equal(t, 90.0, l.altRotation)
	assert.Equal(t, 16.0, l.stepX)
	assert.Equal(t, 11.0, l.stepY)
	assert.Equal(t, 11.0, l.orthoStepX)
	assert.Equal(t, 16.0, l.orthoStepY)

	l = p.layoutFor(90)
	assert.Equal(t, 10.0, l.w)
	assert.Equal(t, 15.0, l.h)
	assert.Equal(t, 0.0, l.altRotation)
}

func TestBaseGrid_KeepsOnlyFittingCells(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 0, 0))
	l := p.layoutFor(0)

	placed, b := p.baseGrid(l, 0, 0)
	require.NotEmpty(t, placed)
	for _, r := range placed {
		assert.True(t, FitsInCircle(r, 50))
		assert.Equal(t, 0.0, r.Rotation)
		min, max := r.BoundingBox()
		assert.GreaterOrEqual(t, min.X, b.minX-1e-9)
		assert.LessOrEqual(t, max.X, b.maxX+1e-9)
		assert.GreaterOrEqual(t, min.Y, b.minY-1e-9)
		assert.LessOrEqual(t, max.Y, b.maxY+1e-9)
	}
	assert.False(t, anyOverlap(placed, 0))
}

func TestBaseGrid_NothingFits(t *testing.T) {
	p := newPacker(settings(10, 15, 10, 0, 0))
	placed, _ := p.baseGrid(p.layoutFor(0), 0, 0)
	assert.Empty(t, placed)
}

func TestStrictGrid_Label(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 0, 0))
	assert.Equal(t, "Strict Grid (Rot: 0° + Fill)", p.strictGrid(0).Strategy)
	assert.Equal(t, "Strict Grid (Rot: 90° + Fill)", p.strictGrid(90).Strategy)
}

func TestStrictGrid_EmptyWhenNothingFits(t *testing.T) {
	p := newPacker(settings(10, 15, 10, 0, 0))
	result := p.strictGrid(0)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Rectangles)
	assert.Equal(t, 5.0, result.Circle.Radius)
}

func TestStrictGrid_AtLeastBaseGrid(t *testing.T) {
	p := newPacker(settings(100, 15, 10, 0, 0))
	l := p.layoutFor(0)
	base, _ := p.baseGrid(l, 0, 0)

	result := p.strictGrid(0)
	assert.GreaterOrEqual(t, result.Count, len(base))
}

func anyOverlap(rects []model.Rectangle, tol float64) bool {
	for i := range rects {
		if RectangleOverlapsAny(rects[i], rects[i+1:], tol) {
			return true
		}
	}
	return false
}

// Package export writes packing results to CAD, image, document and
// spreadsheet formats. Every exporter only reads the PackingResult.
package export

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/CircleCut/internal/model"
)

// ErrEmptyResult is returned by exporters that have nothing to draw.
var ErrEmptyResult = errors.New("packing result has no circle")

// rgb is a plain 8-bit colour shared by the PDF, SVG and PNG renderers.
type rgb struct {
	R, G, B uint8
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	colorCircle    = rgb{0, 0, 0}
	colorSafeZone  = rgb{255, 0, 0}
	colorRectFill  = rgb{173, 216, 230} // lightblue
	colorRectEdge  = rgb{0, 0, 139}     // darkblue
	colorRectFillR = rgb{200, 230, 201} // 90° rectangles in the PDF report
	colorLabel     = rgb{40, 40, 40}
)

// viewport maps circle coordinates (mm, y up, origin at the center) onto a
// canvas region (units of the target format, y down).
type viewport struct {
	scale  float64
	cx, cy float64
}

// fitViewport centers the circle of the given radius in the box (x, y, w, h),
// leaving margin on every side.
func fitViewport(radius, x, y, w, h, margin float64) viewport {
	avail := math.Min(w, h) - 2*margin
	scale := 1.0
	if radius > 0 && avail > 0 {
		scale = avail / (2 * radius)
	}
	return viewport{
		scale: scale,
		cx:    x + w/2,
		cy:    y + h/2,
	}
}

func (v viewport) point(p model.Position) (float64, float64) {
	return v.cx + p.X*v.scale, v.cy - p.Y*v.scale
}

func (v viewport) length(mm float64) float64 {
	return mm * v.scale
}

// safeZoneRadius returns the radius of the safe-zone ring, or 0 when there is none.
func safeZoneRadius(result model.PackingResult, settings model.PackSettings) float64 {
	if settings.SafeZone <= 0 {
		return 0
	}
	r := result.Circle.Radius - settings.SafeZone
	if r <= 0 {
		return 0
	}
	return r
}

func checkResult(result model.PackingResult) error {
	if !(result.Circle.Radius > 0) {
		return ErrEmptyResult
	}
	return nil
}

func rectLabel(idx int) string {
	return fmt.Sprintf("%d", idx+1)
}

// smallestSide returns the shortest rectangle side in the result, used to
// size labels so they stay inside the rectangles.
func smallestSide(result model.PackingResult) float64 {
	side := 0.0
	for _, r := range result.Rectangles {
		m := math.Min(r.Width, r.Height)
		if side == 0 || m < side {
			side = m
		}
	}
	return side
}

// FileStem turns a job name into a file name stem. Path separators and
// characters that Windows rejects become underscores.
func FileStem(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "layout"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

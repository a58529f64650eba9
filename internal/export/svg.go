package export

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/piwi3910/CircleCut/internal/model"
)

// SVGOptions controls the vector preview. svgo works in integer user
// units, so the drawing is scaled up to keep sub-millimetre detail.
type SVGOptions struct {
	UnitsPerMM float64
	Margin     int
	ShowLabels bool
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{UnitsPerMM: 10, Margin: 20, ShowLabels: true}
}

// WriteSVG writes an SVG document of the layout to w.
func WriteSVG(w io.Writer, result model.PackingResult, settings model.PackSettings, opts SVGOptions) error {
	if err := checkResult(result); err != nil {
		return err
	}
	if !(opts.UnitsPerMM > 0) {
		return fmt.Errorf("svg scale must be > 0, got %g", opts.UnitsPerMM)
	}

	side := int(math.Ceil(2*result.Circle.Radius*opts.UnitsPerMM)) + 2*opts.Margin
	vp := viewport{
		scale: opts.UnitsPerMM,
		cx:    float64(side) / 2,
		cy:    float64(side) / 2,
	}
	round := func(v float64) int { return int(math.Round(v)) }
	stroke := math.Max(1, opts.UnitsPerMM/5)

	canvas := svg.New(w)
	canvas.Start(side, side)
	canvas.Rect(0, 0, side, side, "fill:#ffffff")
	canvas.Circle(round(vp.cx), round(vp.cy), round(vp.length(result.Circle.Radius)),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.1f", colorCircle.hex(), stroke))

	if sr := safeZoneRadius(result, settings); sr > 0 {
		canvas.Circle(round(vp.cx), round(vp.cy), round(vp.length(sr)),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.1f;stroke-dasharray:%d,%d",
				colorSafeZone.hex(), stroke, round(stroke*4), round(stroke*2)))
	}

	rectStyle := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f",
		colorRectFill.hex(), colorRectEdge.hex(), stroke)
	fontSize := round(math.Max(8, math.Min(smallestSide(result), 40)*opts.UnitsPerMM/3))
	for i, r := range result.Rectangles {
		corners := r.Corners()
		xs := make([]int, len(corners))
		ys := make([]int, len(corners))
		for j, p := range corners {
			x, y := vp.point(p)
			xs[j], ys[j] = round(x), round(y)
		}
		canvas.Polygon(xs, ys, rectStyle)
		if opts.ShowLabels {
			x, y := vp.point(r.Position)
			canvas.Text(round(x), round(y)+fontSize/3, rectLabel(i),
				fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx;fill:%s", fontSize, colorLabel.hex()))
		}
	}
	canvas.End()
	return nil
}

// RenderSVG returns the SVG document as bytes.
func RenderSVG(result model.PackingResult, settings model.PackSettings, opts SVGOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, result, settings, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportSVG writes the SVG document to path.
func ExportSVG(path string, result model.PackingResult, settings model.PackSettings, opts SVGOptions) error {
	data, err := RenderSVG(result, settings, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package export

import (
	"fmt"
	"os"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/CircleCut/internal/model"
)

// DXF layer names. Rectangles get one layer each so a CAM tool can pick
// them individually.
const (
	LayerCircle    = "CIRCLE"
	LayerSafeZone  = "SAFE_ZONE"
	layerRectFmt   = "RECTANGLE_%d"
	dxfFileMinSize = 1
)

// RectangleLayer returns the DXF layer name for the rectangle at idx.
func RectangleLayer(idx int) string {
	return fmt.Sprintf(layerRectFmt, idx+1)
}

// ExportDXF writes the circle, the optional safe-zone ring and every
// rectangle as a closed LWPOLYLINE to path.
func ExportDXF(path string, result model.PackingResult, settings model.PackSettings) error {
	if err := checkResult(result); err != nil {
		return err
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerCircle, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add circle layer: %w", err)
	}
	c := result.Circle
	if _, err := d.Circle(c.Position.X, c.Position.Y, 0, c.Radius); err != nil {
		return fmt.Errorf("draw circle: %w", err)
	}

	if sr := safeZoneRadius(result, settings); sr > 0 {
		if _, err := d.AddLayer(LayerSafeZone, color.Red, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add safe zone layer: %w", err)
		}
		if _, err := d.Circle(c.Position.X, c.Position.Y, 0, sr); err != nil {
			return fmt.Errorf("draw safe zone: %w", err)
		}
	}

	for i, r := range result.Rectangles {
		if _, err := d.AddLayer(RectangleLayer(i), dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add layer for rectangle %d: %w", i+1, err)
		}
		corners := r.Corners()
		verts := make([][]float64, 0, len(corners))
		for _, p := range corners {
			verts = append(verts, []float64{p.X, p.Y})
		}
		if _, err := d.LwPolyline(true, verts...); err != nil {
			return fmt.Errorf("draw rectangle %d: %w", i+1, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save DXF: %w", err)
	}

	// An empty file on disk counts as a failed export.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat DXF: %w", err)
	}
	if info.Size() < dxfFileMinSize {
		return fmt.Errorf("DXF export produced an empty file: %s", path)
	}
	return nil
}

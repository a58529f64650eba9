package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/piwi3910/CircleCut/internal/model"
)

// PlacementRow is one rectangle in the placement table. Coordinates are
// the rectangle center relative to the circle center.
type PlacementRow struct {
	Index    int     `csv:"index"`
	X        float64 `csv:"x_mm"`
	Y        float64 `csv:"y_mm"`
	Rotation float64 `csv:"rotation_deg"`
	Width    float64 `csv:"width_mm"`
	Height   float64 `csv:"height_mm"`
	MinX     float64 `csv:"min_x_mm"`
	MinY     float64 `csv:"min_y_mm"`
	MaxX     float64 `csv:"max_x_mm"`
	MaxY     float64 `csv:"max_y_mm"`
}

// PlacementRows converts a result into table rows in placement order.
// Values are rounded to micrometres so the output is stable across runs.
func PlacementRows(result model.PackingResult) []PlacementRow {
	rows := make([]PlacementRow, 0, len(result.Rectangles))
	for i, r := range result.Rectangles {
		lo, hi := r.BoundingBox()
		rows = append(rows, PlacementRow{
			Index:    i + 1,
			X:        round3(r.Position.X),
			Y:        round3(r.Position.Y),
			Rotation: r.Rotation,
			Width:    r.Width,
			Height:   r.Height,
			MinX:     round3(lo.X),
			MinY:     round3(lo.Y),
			MaxX:     round3(hi.X),
			MaxY:     round3(hi.Y),
		})
	}
	return rows
}

func round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// WriteCSV writes the placement table with a header row.
func WriteCSV(w io.Writer, result model.PackingResult) error {
	rows := PlacementRows(result)
	if len(rows) == 0 {
		return fmt.Errorf("no placements to write")
	}
	return gocsv.Marshal(&rows, w)
}

// ExportCSV writes the placement table to path.
func ExportCSV(path string, result model.PackingResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV: %w", err)
	}
	if err := WriteCSV(f, result); err != nil {
		f.Close()
		return fmt.Errorf("write CSV: %w", err)
	}
	return f.Close()
}

// ReadCSV parses a placement table written by WriteCSV.
func ReadCSV(r io.Reader) ([]PlacementRow, error) {
	var rows []PlacementRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CircleCut/internal/model"
)

const (
	SheetPlacements = "Placements"
	SheetSummary    = "Summary"
)

var placementHeader = []interface{}{
	"#", "X (mm)", "Y (mm)", "Rotation (°)", "Width (mm)", "Height (mm)",
	"Min X", "Min Y", "Max X", "Max Y",
}

// ExportXLSX writes a workbook with a placement sheet and a summary sheet.
func ExportXLSX(path string, result model.PackingResult, settings model.PackSettings) error {
	if err := checkResult(result); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetPlacements); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetRow(SheetPlacements, "A1", &placementHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetPlacements, "A1", "J1", bold); err != nil {
		return err
	}
	for i, row := range PlacementRows(result) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Index, row.X, row.Y, row.Rotation, row.Width, row.Height,
			row.MinX, row.MinY, row.MaxX, row.MaxY,
		}
		if err := f.SetSheetRow(SheetPlacements, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	for i, item := range SummaryItems(result, settings) {
		row := i + 1
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), item.Label); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", row), item.Value); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(SummaryItems(result, settings))), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 24); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// SummaryItem is a label/value pair shown in report summaries.
type SummaryItem struct {
	Label string
	Value string
}

// SummaryItems lists the settings and metrics of a result in display order.
// The PDF report and the workbook share it.
func SummaryItems(result model.PackingResult, settings model.PackSettings) []SummaryItem {
	items := []SummaryItem{
		{"Circle Diameter", fmt.Sprintf("%.2f mm", settings.CircleDiameter)},
		{"Rectangle Size", fmt.Sprintf("%.2f x %.2f mm", settings.RectWidth, settings.RectHeight)},
		{"Tolerance", fmt.Sprintf("%.2f mm", settings.Tolerance)},
		{"Safe Zone", fmt.Sprintf("%.2f mm", settings.SafeZone)},
		{"Strategy", result.Strategy},
		{"Rectangles Placed", fmt.Sprintf("%d", result.Count)},
		{"Efficiency", fmt.Sprintf("%.2f%%", result.Efficiency)},
		{"Waste", fmt.Sprintf("%.2f%%", result.Waste)},
		{"Used Area", fmt.Sprintf("%.2f mm²", result.UsedArea)},
		{"Circle Area", fmt.Sprintf("%.2f mm²", result.TotalArea)},
	}

	counts := result.RotationCounts()
	rotations := make([]float64, 0, len(counts))
	for rot := range counts {
		rotations = append(rotations, rot)
	}
	sort.Float64s(rotations)
	for _, rot := range rotations {
		items = append(items, SummaryItem{
			Label: fmt.Sprintf("Rotation %g°", rot),
			Value: fmt.Sprintf("%d", counts[rot]),
		})
	}
	return items
}

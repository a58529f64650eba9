package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/CircleCut/internal/engine"
	"github.com/piwi3910/CircleCut/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a two-page report: the layout diagram and a summary
// page with settings, metrics and the verification verdict.
func ExportPDF(path string, result model.PackingResult, settings model.PackSettings) error {
	if err := checkResult(result); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	renderLayoutPage(pdf, tr, result, settings)

	pdf.AddPage()
	renderSummaryPage(pdf, tr, result, settings)

	return pdf.OutputFileAndClose(path)
}

func setFill(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setDraw(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

// renderLayoutPage draws the circle and every placed rectangle.
func renderLayoutPage(pdf *fpdf.Fpdf, tr func(string) string, result model.PackingResult, settings model.PackSettings) {
	contentW := pageWidth - marginLeft - marginRight

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Circle %.1f mm: %d x (%.1f x %.1f mm)",
		settings.CircleDiameter, result.Count, settings.RectWidth, settings.RectHeight)
	pdf.CellFormat(contentW, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("%s | Efficiency: %.1f%% | Waste: %.1f%% | Tolerance: %.2f mm | Safe zone: %.2f mm",
		result.Strategy, result.Efficiency, result.Waste, settings.Tolerance, settings.SafeZone)
	pdf.CellFormat(contentW, 5, tr(stats), "", 0, "L", false, 0, "")

	drawH := pageHeight - drawAreaTop - marginBottom - statsHeight
	vp := fitViewport(result.Circle.Radius, marginLeft, drawAreaTop, contentW, drawH, 0)

	setFill(pdf, rgb{250, 248, 240})
	setDraw(pdf, colorCircle)
	pdf.SetLineWidth(0.5)
	pdf.Circle(vp.cx, vp.cy, vp.length(result.Circle.Radius), "FD")

	if sr := safeZoneRadius(result, settings); sr > 0 {
		setDraw(pdf, colorSafeZone)
		pdf.SetLineWidth(0.3)
		pdf.SetDashPattern([]float64{2, 1}, 0)
		pdf.Circle(vp.cx, vp.cy, vp.length(sr), "D")
		pdf.SetDashPattern([]float64{}, 0)
	}

	fontSize := labelFontSize(vp.length(smallestSide(result)))
	for i, r := range result.Rectangles {
		corners := r.Corners()
		pts := make([]fpdf.PointType, len(corners))
		for j, p := range corners {
			x, y := vp.point(p)
			pts[j] = fpdf.PointType{X: x, Y: y}
		}

		fill := colorRectFill
		if r.Rotation != 0 {
			fill = colorRectFillR
		}
		setFill(pdf, fill)
		setDraw(pdf, colorRectEdge)
		pdf.SetLineWidth(0.2)
		pdf.Polygon(pts, "FD")

		if fontSize > 0 {
			label := rectLabel(i)
			pdf.SetFont("Helvetica", "", fontSize)
			pdf.SetTextColor(int(colorLabel.R), int(colorLabel.G), int(colorLabel.B))
			lw := pdf.GetStringWidth(label)
			x, y := vp.point(r.Position)
			pdf.SetXY(x-lw/2, y-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
	}
	pdf.SetTextColor(0, 0, 0)

	drawDiameterAnnotation(pdf, vp, result.Circle.Radius)
	drawRotationLegend(pdf, tr, result, drawAreaTop+drawH+5)
}

// drawDiameterAnnotation labels the circle diameter below the drawing.
func drawDiameterAnnotation(pdf *fpdf.Fpdf, vp viewport, radius float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	label := fmt.Sprintf("%.1f mm", 2*radius)
	w := pdf.GetStringWidth(label)
	pdf.SetXY(vp.cx-w/2, vp.cy+vp.length(radius)+1)
	pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawRotationLegend shows the colour used for each orientation with its count.
func drawRotationLegend(pdf *fpdf.Fpdf, tr func(string) string, result model.PackingResult, y float64) {
	counts := result.RotationCounts()
	entries := []struct {
		label string
		color rgb
		count int
	}{
		{"0°", colorRectFill, counts[0]},
		{"90°", colorRectFillR, counts[90]},
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(30, 4, "Orientation:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	x := marginLeft + 32
	for _, e := range entries {
		setFill(pdf, e.color)
		setDraw(pdf, colorRectEdge)
		pdf.Rect(x, y+0.5, 3, 3, "FD")
		text := tr(fmt.Sprintf("%s: %d", e.label, e.count))
		w := pdf.GetStringWidth(text) + 2
		pdf.SetXY(x+4, y)
		pdf.CellFormat(w, 4, text, "", 0, "L", false, 0, "")
		x += w + 10
	}
}

// renderSummaryPage draws settings, metrics and the verification result.
func renderSummaryPage(pdf *fpdf.Fpdf, tr func(string) string, result model.PackingResult, settings model.PackSettings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Settings and Metrics", "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for i, item := range SummaryItems(result, settings) {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, tr(item.Label+":"), "", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, tr(item.Value), "", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	v := engine.Verify(result, settings)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Verification", "", 0, "L", false, 0, "")
	y += 9

	verdict := "PASSED"
	if !v.Passed() {
		verdict = "FAILED"
		pdf.SetTextColor(200, 0, 0)
	} else {
		pdf.SetTextColor(0, 130, 0)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft+5, y)
	pdf.CellFormat(100, 6, verdict, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	y += 8

	checks := []SummaryItem{
		{"Overlaps", fmt.Sprintf("%d", len(v.Overlaps))},
		{"Out of bounds", fmt.Sprintf("%d", len(v.OutOfBounds))},
		{"Clearance violations", fmt.Sprintf("%d", len(v.ClearanceViolations))},
		{"Invalid rotations", fmt.Sprintf("%d", len(v.InvalidRotations))},
		{"Open slots", fmt.Sprintf("%d", len(v.OpenSlots))},
		{"Max corner distance", fmt.Sprintf("%.3f mm", v.MaxCornerDistance)},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range checks {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.Label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.Value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CircleCut - Rectangle Packing in Circles", "", 0, "C", false, 0, "")
}

// labelFontSize picks a font size for a rectangle whose shortest side is
// side mm on the page. Zero means the label does not fit.
func labelFontSize(side float64) float64 {
	switch {
	case side > 12:
		return 8
	case side > 7:
		return 6
	case side > 4:
		return math.Max(4, side*0.8)
	default:
		return 0
	}
}

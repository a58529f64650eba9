// Package importer reads batch job lists from delimited text and Excel
// files, and layout templates from DXF drawings.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CircleCut/internal/model"
)

// ImportResult holds the jobs read from a file plus per-row problems.
// Rows with errors are skipped; the remaining rows still import.
type ImportResult struct {
	Jobs     []model.Job
	Errors   []string
	Warnings []string
}

func (r *ImportResult) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ImportResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ColumnMapping holds the column index of each job field, -1 when absent.
type ColumnMapping struct {
	Name      int
	Diameter  int
	Width     int
	Height    int
	Tolerance int
	SafeZone  int
}

// positionalMapping is used for files without a header row.
var positionalMapping = ColumnMapping{Name: 0, Diameter: 1, Width: 2, Height: 3, Tolerance: 4, SafeZone: 5}

func (m *ColumnMapping) field(key string) *int {
	switch key {
	case "name":
		return &m.Name
	case "diameter":
		return &m.Diameter
	case "width":
		return &m.Width
	case "height":
		return &m.Height
	case "tolerance":
		return &m.Tolerance
	case "safe_zone":
		return &m.SafeZone
	}
	return nil
}

// headerFields maps every accepted lower-case header spelling to a field key.
var headerFields = map[string]string{}

func init() {
	for key, aliases := range map[string][]string{
		"name":      {"name", "job", "job name", "label", "description", "desc"},
		"diameter":  {"diameter", "dia", "d", "circle", "circle diameter", "circle_diameter", "disc", "blank"},
		"width":     {"width", "w", "rect width", "rect_width", "length", "len"},
		"height":    {"height", "h", "rect height", "rect_height"},
		"tolerance": {"tolerance", "tol", "gap", "spacing", "clearance", "kerf"},
		"safe_zone": {"safe zone", "safe_zone", "safezone", "margin", "edge margin", "border"},
	} {
		for _, alias := range aliases {
			headerFields[alias] = key
		}
	}
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// DetectCSVDelimiter picks the separator among comma, semicolon, tab and
// pipe that splits the data into the most consistent multi-column rows.
// Ties go to the delimiter producing more columns.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		records, err := newCSVReader(bytes.NewReader(data), delim).ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		width := len(records[0])
		if width < 2 {
			continue
		}
		consistent := 0
		for _, rec := range records {
			if len(rec) == width {
				consistent++
			}
		}
		if score := consistent*10 + width; score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// DetectColumns maps a header row to field indices. When no cell is a known
// header it reports false and returns the positional layout
// name, diameter, width, height, tolerance, safe zone.
func DetectColumns(row []string) (ColumnMapping, bool) {
	m := ColumnMapping{-1, -1, -1, -1, -1, -1}
	found := false
	for i, cell := range row {
		key, ok := headerFields[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		found = true
		if slot := m.field(key); *slot == -1 {
			*slot = i
		}
	}
	if !found {
		return positionalMapping, false
	}
	return m, true
}

// parseNumber accepts both "12.5" and "12,5".
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	}
	return v, err
}

// rowReader reads fields from one data row and keeps the first problem.
type rowReader struct {
	cells []string
	label string
	err   string
}

func (r *rowReader) text(idx int) string {
	if idx < 0 || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

func (r *rowReader) number(idx int, field string, required bool) float64 {
	if r.err != "" {
		return 0
	}
	s := r.text(idx)
	if s == "" {
		if required {
			r.err = fmt.Sprintf("%s: Missing %s value", r.label, field)
		}
		return 0
	}
	v, err := parseNumber(s)
	if err != nil {
		r.err = fmt.Sprintf("%s: Invalid %s '%s'", r.label, field, s)
	}
	return v
}

// job builds a validated job from the row. The returned warning flags
// settings that are legal but cannot place anything.
func (r *rowReader) job(m ColumnMapping, fallbackName string) (job model.Job, warning string) {
	s := model.PackSettings{
		CircleDiameter: r.number(m.Diameter, "diameter", true),
		RectWidth:      r.number(m.Width, "width", true),
		RectHeight:     r.number(m.Height, "height", true),
		Tolerance:      r.number(m.Tolerance, "tolerance", false),
		SafeZone:       r.number(m.SafeZone, "safe zone", false),
	}
	if r.err != "" {
		return model.Job{}, ""
	}
	if err := s.Validate(); err != nil {
		r.err = r.label + ": " + strings.ReplaceAll(err.Error(), "\n", "; ")
		return model.Job{}, ""
	}

	switch {
	case s.EffectiveRadius() <= 0:
		warning = fmt.Sprintf("%s: Safe zone %.2f mm leaves no usable area", r.label, s.SafeZone)
	case s.RectWidth > s.CircleDiameter && s.RectHeight > s.CircleDiameter:
		warning = r.label + ": Rectangle is larger than the circle"
	}

	name := r.text(m.Name)
	if name == "" {
		name = fallbackName
	}
	return model.NewJob(name, s), warning
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports jobs from a delimited text file, sniffing the
// delimiter and mapping columns by header name.
func ImportCSV(path string) ImportResult {
	var result ImportResult
	data, err := os.ReadFile(path)
	if err != nil {
		result.errorf("Cannot open file: %v", err)
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.errorf("File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if name, ok := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]; ok {
		result.warnf("Detected %s delimiter", name)
	}
	records, err := newCSVReader(bytes.NewReader(data), delimiter).ReadAll()
	if err != nil {
		result.errorf("Cannot read CSV: %v", err)
		return result
	}
	return importRows(records, "Line", result)
}

// ImportCSVFromReader imports jobs from reader using a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	var result ImportResult
	records, err := newCSVReader(reader, delimiter).ReadAll()
	if err != nil {
		result.errorf("Cannot read CSV: %v", err)
		return result
	}
	return importRows(records, "Line", result)
}

// ImportExcel imports jobs from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	var result ImportResult
	f, err := excelize.OpenFile(path)
	if err != nil {
		result.errorf("Cannot open Excel file: %v", err)
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.errorf("Excel file has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.errorf("Cannot read Excel data: %v", err)
		return result
	}
	return importRows(rows, "Row", result)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// importRows turns rows into jobs, appending to result. Row numbers in
// messages are 1-based and prefixed with unit ("Line" or "Row").
func importRows(rows [][]string, unit string, result ImportResult) ImportResult {
	if len(rows) == 0 {
		result.errorf("File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	first := 0
	switch {
	case hasHeader:
		first = 1
		result.warnf("Detected header row, skipping")
		var missing []string
		for _, c := range []struct {
			idx  int
			name string
		}{{mapping.Diameter, "Diameter"}, {mapping.Width, "Width"}, {mapping.Height, "Height"}} {
			if c.idx == -1 {
				missing = append(missing, c.name)
			}
		}
		if len(missing) > 0 {
			result.errorf("Required columns not found in header: %s", strings.Join(missing, ", "))
			return result
		}
	case len(rows[0]) >= 4:
		// A non-numeric diameter cell marks a header we do not recognise.
		if _, err := parseNumber(strings.TrimSpace(rows[0][1])); err != nil {
			first = 1
			result.warnf("Detected header row, skipping")
		}
	}

	for i := first; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		r := rowReader{cells: rows[i], label: fmt.Sprintf("%s %d", unit, i+1)}
		job, warning := r.job(mapping, fmt.Sprintf("Job %d", len(result.Jobs)+1))
		if r.err != "" {
			result.Errors = append(result.Errors, r.err)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Jobs = append(result.Jobs, job)
	}
	return result
}

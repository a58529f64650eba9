package ui

import (
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CircleCut/internal/export"
	"github.com/piwi3910/CircleCut/internal/gcode"
	"github.com/piwi3910/CircleCut/internal/ui/widgets"
)

type exportFormat int

const (
	formatPNG exportFormat = iota
	formatSVG
	formatDXF
	formatPDF
	formatLabels
	formatCSV
	formatXLSX
	formatGCode
)

// exportTargets names the file suffix and dialog title of each format.
var exportTargets = map[exportFormat]struct {
	title  string
	suffix string
}{
	formatPNG:    {"Export PNG", ".png"},
	formatSVG:    {"Export SVG", ".svg"},
	formatDXF:    {"Export DXF", ".dxf"},
	formatPDF:    {"Export PDF Report", ".pdf"},
	formatLabels: {"Export Labels", "_labels.pdf"},
	formatCSV:    {"Export CSV", ".csv"},
	formatXLSX:   {"Export Excel", ".xlsx"},
	formatGCode:  {"Export GCode", ".gcode"},
}

// exportResult asks for a destination and writes the current layout in
// the given format.
func (a *App) exportResult(format exportFormat) {
	if !a.requireResult() {
		return
	}
	target := exportTargets[format]

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := a.writeExport(format, path); err != nil {
			a.log.Error("export failed", "format", target.suffix, "path", path, "error", err)
			dialog.ShowError(err, a.window)
			return
		}
		a.log.Info("exported layout", "path", path)
		dialog.ShowInformation(target.title, "Saved to "+path, a.window)
	}, a.window)
	d.SetFileName(export.FileStem(a.job.Name) + target.suffix)
	if a.config.ExportDir != "" {
		if dir, err := storage.ListerForURI(storage.NewFileURI(a.config.ExportDir)); err == nil {
			d.SetLocation(dir)
		}
	}
	d.Show()
}

func (a *App) writeExport(format exportFormat, path string) error {
	result := *a.result
	switch format {
	case formatPNG:
		return export.ExportPNG(path, result, a.settings, export.DefaultPNGOptions())
	case formatSVG:
		return export.ExportSVG(path, result, a.settings, export.DefaultSVGOptions())
	case formatDXF:
		return export.ExportDXF(path, result, a.settings)
	case formatPDF:
		return export.ExportPDF(path, result, a.settings)
	case formatLabels:
		return export.ExportLabels(path, result, a.job.Name)
	case formatCSV:
		return export.ExportCSV(path, result)
	case formatXLSX:
		return export.ExportXLSX(path, result, a.settings)
	case formatGCode:
		code, err := gcode.New(a.cut).Generate(result)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(code), 0o644)
	}
	return fmt.Errorf("unknown export format %d", format)
}

// showGCodePreview generates the program for the current layout and shows
// its toolpath in a separate window.
func (a *App) showGCodePreview() {
	if !a.requireResult() {
		return
	}
	code, err := gcode.New(a.cut).Generate(*a.result)
	if err != nil {
		if errors.Is(err, gcode.ErrNothingToCut) {
			dialog.ShowInformation("GCode Preview", "Nothing to cut: no rectangles are placed and the blank cut is off.", a.window)
			return
		}
		dialog.ShowError(err, a.window)
		return
	}

	w := a.app.NewWindow("GCode Preview")
	exportBtn := widget.NewButton("Export GCode...", func() { a.exportResult(formatGCode) })
	w.SetContent(container.NewBorder(nil, exportBtn, nil, nil,
		widgets.RenderGCodePreview(*a.result, a.cut, code)))
	w.Resize(fyne.NewSize(720, 780))
	w.Show()
}

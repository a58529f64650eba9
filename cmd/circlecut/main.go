// CircleCut: rectangles-in-circle layout calculator with GCode export
//
// A cross-platform desktop application that packs identical rectangles
// into a circular blank and exports drawings, reports and CNC-ready GCode.
//
// Build:
//   go build -o circlecut ./cmd/circlecut
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o circlecut.exe ./cmd/circlecut
//   GOOS=darwin  GOARCH=amd64 go build -o circlecut-darwin ./cmd/circlecut
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/CircleCut/internal/ui"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	application := app.NewWithID("com.piwi3910.circlecut")
	window := application.NewWindow("CircleCut: Rectangles in a Circle")

	appUI := ui.NewApp(application, window, logger)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}

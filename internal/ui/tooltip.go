// Package ui provides the CircleCut desktop viewer.
//
// This file provides tooltip-enabled button helpers using the fyne-tooltip library.

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newIconButtonWithTooltip creates an icon-only button with a tooltip that appears on hover.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// buildToolbar returns the icon row above the parameter form.
func (a *App) buildToolbar() fyne.CanvasObject {
	return container.NewHBox(
		newIconButtonWithTooltip(theme.DocumentCreateIcon(), "New job", func() { a.newJob() }),
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open job", func() { a.openJob() }),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save job", func() { a.saveJob() }),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo (Ctrl+Z)", func() { a.undo() }),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo (Ctrl+Y)", func() { a.redo() }),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.GridIcon(), "Compare scenarios", func() { a.showCompareDialog() }),
		newIconButtonWithTooltip(theme.VisibilityIcon(), "GCode preview", func() { a.showGCodePreview() }),
		newIconButtonWithTooltip(theme.DownloadIcon(), "Export PNG", func() { a.exportResult(formatPNG) }),
	)
}

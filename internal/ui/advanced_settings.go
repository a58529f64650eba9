package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CircleCut/internal/gcode"
	"github.com/piwi3910/CircleCut/internal/model"
)

// activeProfileSelect is the profile picker of the open machining dialog,
// refreshed when profiles are added or removed.
var activeProfileSelect *widget.Select

// showMachiningSettingsDialog edits the CNC parameters used for GCode export.
// Changes apply to a working copy and are committed as one undo step.
func (a *App) showMachiningSettingsDialog() {
	s := a.cut

	// Helper to create a bound float entry
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(formatMM(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	// --- GCode Profile ---
	profileSelect := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		s.GCodeProfile = selected
	})
	profileSelect.SetSelected(s.GCodeProfile)
	activeProfileSelect = profileSelect

	manageProfileBtn := widget.NewButtonWithIcon("Manage Profiles", theme.SettingsIcon(), func() {
		a.showProfileManager()
	})

	profileSection := widget.NewCard("GCode Profile", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Active Profile"), container.NewBorder(nil, nil, nil, manageProfileBtn, profileSelect),
		))

	toolSection := widget.NewCard("Tool", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Tool Diameter (mm)"), floatEntry(&s.ToolDiameter),
			widget.NewLabel("Feed Rate (mm/min)"), floatEntry(&s.FeedRate),
			widget.NewLabel("Plunge Rate (mm/min)"), floatEntry(&s.PlungeRate),
			widget.NewLabel("Spindle Speed (RPM)"), intEntry(&s.SpindleSpeed),
		))

	depthSection := widget.NewCard("Depths", "Multi-pass cutting through the disc",
		container.NewGridWithColumns(2,
			widget.NewLabel("Safe Z (mm)"), floatEntry(&s.SafeZ),
			widget.NewLabel("Material Thickness (mm)"), floatEntry(&s.CutDepth),
			widget.NewLabel("Depth per Pass (mm)"), floatEntry(&s.PassDepth),
		))

	// --- Part Holding Tabs ---
	tabSection := widget.NewCard("Holding Tabs",
		"Tabs keep rectangles attached to the disc on the final pass",
		container.NewGridWithColumns(2,
			widget.NewLabel("Tabs per Side (0 = off)"), intEntry(&s.TabsPerSide),
			widget.NewLabel("Tab Width (mm)"), floatEntry(&s.TabWidth),
			widget.NewLabel("Tab Height (mm)"), floatEntry(&s.TabHeight),
		))

	cutBlankCheck := widget.NewCheck("Cut the circular blank out after the rectangles", func(b bool) { s.CutBlank = b })
	cutBlankCheck.Checked = s.CutBlank

	content := container.NewVScroll(container.NewVBox(
		profileSection,
		toolSection,
		depthSection,
		tabSection,
		cutBlankCheck,
	))

	d := dialog.NewCustomConfirm("Machining Settings", "Apply", "Cancel", content, func(ok bool) {
		activeProfileSelect = nil
		if !ok {
			return
		}
		if err := gcode.New(s).Validate(); err != nil {
			dialog.ShowError(fmt.Errorf("machining settings: %w", err), a.window)
			return
		}
		if s != a.cut {
			a.history.Push(MakeSnapshot(a.settings, a.cut, "Machining Settings"))
			a.cut = s
		}
	}, a.window)
	d.Resize(fyne.NewSize(560, 620))
	d.Show()
}

// refreshProfileSelector reloads the options of the open machining dialog.
func refreshProfileSelector() {
	if activeProfileSelect == nil {
		return
	}
	selected := activeProfileSelect.Selected
	activeProfileSelect.Options = model.GetProfileNames()
	activeProfileSelect.SetSelected(model.GetProfile(selected).Name)
	activeProfileSelect.Refresh()
}

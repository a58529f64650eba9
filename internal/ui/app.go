package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CircleCut/internal/engine"
	"github.com/piwi3910/CircleCut/internal/export"
	jobimporter "github.com/piwi3910/CircleCut/internal/importer"
	"github.com/piwi3910/CircleCut/internal/model"
	"github.com/piwi3910/CircleCut/internal/project"
	"github.com/piwi3910/CircleCut/internal/ui/widgets"
)

const maxRecentJobs = 8

// App holds all application state and UI references.
type App struct {
	app    fyne.App
	window fyne.Window
	log    *slog.Logger

	config  model.AppConfig
	presets model.PresetStore
	history *History
	theme   *CircleCutTheme

	job      model.Job
	jobPath  string
	settings model.PackSettings
	cut      model.CutSettings
	result   *model.PackingResult

	// UI references for dynamic updates
	jobNameEntry   *widget.Entry
	diameterEntry  *widget.Entry
	widthEntry     *widget.Entry
	heightEntry    *widget.Entry
	toleranceEntry *widget.Entry
	safeZoneEntry  *widget.Entry
	circleCanvas   *widgets.CircleCanvas
	summaryBox     *fyne.Container
	hoverLabel     *widget.Label
}

// NewApp loads the user's preferences, presets and custom GCode profiles
// and prepares an empty job. Missing files are not an error.
func NewApp(application fyne.App, window fyne.Window, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &App{
		app:     application,
		window:  window,
		log:     logger,
		history: NewHistory(),
	}

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logger.Warn("using default preferences", "error", err)
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg

	presets, err := project.LoadPresets(project.DefaultPresetPath())
	if err != nil {
		logger.Warn("could not load presets", "error", err)
		presets = model.NewPresetStore()
	}
	a.presets = presets

	skipped, err := project.RegisterCustomProfiles(project.DefaultProfilesPath())
	if err != nil {
		logger.Warn("could not load custom gcode profiles", "error", err)
	}
	for _, name := range skipped {
		logger.Warn("custom gcode profile shadows a built-in and was skipped", "profile", name)
	}

	a.settings = model.DefaultSettings()
	a.config.ApplyToSettings(&a.settings)
	a.cut = model.DefaultCutSettings()
	a.cut.GCodeProfile = a.config.DefaultGCodeProfile
	a.job = model.NewJob("", a.settings)

	a.theme = NewCircleCutTheme(ThemeVariantFor(a.config.Theme, application.Settings().ThemeVariant()))
	application.Settings().SetTheme(a.theme)

	return a
}

// SetupMenus creates the native menu bar and keyboard shortcuts.
func (a *App) SetupMenus() {
	exportItem := fyne.NewMenuItem("Export", nil)
	exportItem.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("PNG Image...", func() { a.exportResult(formatPNG) }),
		fyne.NewMenuItem("SVG Drawing...", func() { a.exportResult(formatSVG) }),
		fyne.NewMenuItem("DXF (CAD layers)...", func() { a.exportResult(formatDXF) }),
		fyne.NewMenuItem("PDF Report...", func() { a.exportResult(formatPDF) }),
		fyne.NewMenuItem("PDF Labels...", func() { a.exportResult(formatLabels) }),
		fyne.NewMenuItem("CSV Placements...", func() { a.exportResult(formatCSV) }),
		fyne.NewMenuItem("Excel Workbook...", func() { a.exportResult(formatXLSX) }),
		fyne.NewMenuItem("GCode...", func() { a.exportResult(formatGCode) }),
	)

	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = a.recentJobsMenu()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Job", func() { a.newJob() }),
		fyne.NewMenuItem("Open Job...", func() { a.openJob() }),
		recentItem,
		fyne.NewMenuItem("Save Job...", func() { a.saveJob() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Jobs from CSV/Excel...", func() { a.importJobs() }),
		fyne.NewMenuItem("Import DXF Template...", func() { a.importTemplate() }),
		fyne.NewMenuItemSeparator(),
		exportItem,
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { a.undo() }),
		fyne.NewMenuItem("Redo", func() { a.redo() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset to Defaults", func() {
			defaults := model.DefaultSettings()
			a.config.ApplyToSettings(&defaults)
			a.applySettings(defaults, "Reset to Defaults")
		}),
	)

	presetMenu := fyne.NewMenu("Presets",
		fyne.NewMenuItem("Save Current as Preset...", func() { a.showSavePresetDialog() }),
		fyne.NewMenuItem("Load Preset...", func() { a.showLoadPresetDialog() }),
		fyne.NewMenuItem("New Job from Preset...", func() { a.showNewJobFromPresetDialog() }),
		fyne.NewMenuItem("Delete Preset...", func() { a.showDeletePresetDialog() }),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Calculate", func() { a.calculate() }),
		fyne.NewMenuItem("Compare Scenarios...", func() { a.showCompareDialog() }),
		fyne.NewMenuItem("Blank Estimate...", func() { a.showBlankEstimateDialog() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Machining Settings...", func() { a.showMachiningSettingsDialog() }),
		fyne.NewMenuItem("GCode Preview...", func() { a.showGCodePreview() }),
		fyne.NewMenuItem("GCode Profiles...", func() { a.showProfileManager() }),
	)

	settingsMenu := fyne.NewMenu("Settings",
		fyne.NewMenuItem("Preferences...", func() { a.showSettingsDialog() }),
		fyne.NewMenuItem("Backup / Restore...", func() { a.showImportExportDialog() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Light Theme", func() { a.setTheme(ThemeLight) }),
		fyne.NewMenuItem("Dark Theme", func() { a.setTheme(ThemeDark) }),
		fyne.NewMenuItem("System Theme", func() { a.setTheme(ThemeSystem) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() { a.showAboutDialog() }),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(
		fileMenu, editMenu, presetMenu, toolsMenu, settingsMenu, viewMenu, helpMenu,
	))

	c := a.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.calculate() })
}

func (a *App) recentJobsMenu() *fyne.Menu {
	if len(a.config.RecentJobs) == 0 {
		item := fyne.NewMenuItem("(none)", nil)
		item.Disabled = true
		return fyne.NewMenu("", item)
	}
	items := make([]*fyne.MenuItem, 0, len(a.config.RecentJobs))
	for _, path := range a.config.RecentJobs {
		p := path
		items = append(items, fyne.NewMenuItem(p, func() { a.loadJobFrom(p) }))
	}
	return fyne.NewMenu("", items...)
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About CircleCut",
		"CircleCut: rectangles-in-circle layout calculator\n\n"+
			"Packs identical rectangles into a circular blank and exports\n"+
			"drawings, reports and CNC-ready GCode.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.jobNameEntry = widget.NewEntry()
	a.jobNameEntry.SetText(a.job.Name)
	a.jobNameEntry.OnChanged = func(text string) { a.job.Name = text }

	a.diameterEntry = widget.NewEntry()
	a.widthEntry = widget.NewEntry()
	a.heightEntry = widget.NewEntry()
	a.toleranceEntry = widget.NewEntry()
	a.safeZoneEntry = widget.NewEntry()
	a.fillEntries(a.settings)

	for _, e := range []*widget.Entry{a.diameterEntry, a.widthEntry, a.heightEntry, a.toleranceEntry, a.safeZoneEntry} {
		e.OnSubmitted = func(string) { a.calculate() }
	}

	calcBtn := widget.NewButtonWithIcon("Calculate", theme.MediaPlayIcon(), func() { a.calculate() })
	calcBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		widget.NewCard("Job", "", container.NewGridWithColumns(2,
			widget.NewLabel("Name"), a.jobNameEntry,
		)),
		widget.NewCard("Circle", "", container.NewGridWithColumns(2,
			widget.NewLabel("Diameter (mm)"), a.diameterEntry,
		)),
		widget.NewCard("Rectangle", "", container.NewGridWithColumns(2,
			widget.NewLabel("Width (mm)"), a.widthEntry,
			widget.NewLabel("Height (mm)"), a.heightEntry,
		)),
		widget.NewCard("Clearances", "", container.NewGridWithColumns(2,
			widget.NewLabel("Tolerance (mm)"), a.toleranceEntry,
			widget.NewLabel("Safe Zone (mm)"), a.safeZoneEntry,
		)),
		calcBtn,
	)

	left := container.NewBorder(a.buildToolbar(), nil, nil, nil, container.NewVScroll(form))

	a.circleCanvas = widgets.NewCircleCanvas(model.PackingResult{}, a.settings, 420)
	a.hoverLabel = widget.NewLabel("Hover over a rectangle for details.")
	a.circleCanvas.OnHover = func(idx int) {
		if idx < 0 || a.result == nil {
			a.hoverLabel.SetText("Hover over a rectangle for details.")
			return
		}
		a.hoverLabel.SetText(widgets.DescribeRectangle(*a.result, idx))
	}
	a.summaryBox = container.NewVBox(widgets.RenderResultSummary(nil, a.settings))

	right := container.NewBorder(a.hoverLabel, a.summaryBox, nil, nil, a.circleCanvas)

	split := container.NewHSplit(left, right)
	split.SetOffset(0.3)
	return split
}

// ─── Parameters ───────────────────────────────────────────

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *App) fillEntries(s model.PackSettings) {
	if a.diameterEntry == nil {
		return
	}
	a.diameterEntry.SetText(formatMM(s.CircleDiameter))
	a.widthEntry.SetText(formatMM(s.RectWidth))
	a.heightEntry.SetText(formatMM(s.RectHeight))
	a.toleranceEntry.SetText(formatMM(s.Tolerance))
	a.safeZoneEntry.SetText(formatMM(s.SafeZone))
}

// parseSettings reads the five form fields. Every unparsable field is
// reported; range checks are left to PackSettings.Validate.
func parseSettings(diameter, width, height, tolerance, safeZone string) (model.PackSettings, error) {
	var s model.PackSettings
	var errs []error
	fields := []struct {
		label string
		text  string
		dst   *float64
	}{
		{"circle diameter", diameter, &s.CircleDiameter},
		{"rectangle width", width, &s.RectWidth},
		{"rectangle height", height, &s.RectHeight},
		{"tolerance", tolerance, &s.Tolerance},
		{"safe zone", safeZone, &s.SafeZone},
	}
	for _, f := range fields {
		text := strings.ReplaceAll(strings.TrimSpace(f.text), ",", ".")
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", f.label, f.text))
			continue
		}
		*f.dst = v
	}
	if err := errors.Join(errs...); err != nil {
		return s, err
	}
	return s, s.Validate()
}

func (a *App) readSettings() (model.PackSettings, error) {
	return parseSettings(a.diameterEntry.Text, a.widthEntry.Text, a.heightEntry.Text,
		a.toleranceEntry.Text, a.safeZoneEntry.Text)
}

// calculate reads the form, records the previous parameters for undo when
// they changed, and packs the circle.
func (a *App) calculate() {
	s, err := a.readSettings()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if s != a.settings {
		a.history.Push(MakeSnapshot(a.settings, a.cut, "Calculate"))
	}
	a.settings = s
	a.run()
}

// run packs a.settings and refreshes every view of the result.
func (a *App) run() {
	opt := engine.New(a.settings)
	opt.Logger = a.log
	result := opt.Optimize()
	a.result = &result
	a.job.Settings = a.settings
	a.job.Result = a.result

	a.log.Info("layout calculated",
		"diameter", a.settings.CircleDiameter,
		"rect", fmt.Sprintf("%gx%g", a.settings.RectWidth, a.settings.RectHeight),
		"count", result.Count,
		"efficiency", result.Efficiency,
		"strategy", result.Strategy)
	a.refreshResults()
}

// applySettings replaces the parameters as one undoable step and recalculates.
func (a *App) applySettings(s model.PackSettings, label string) {
	a.history.Push(MakeSnapshot(a.settings, a.cut, label))
	a.settings = s
	a.fillEntries(s)
	a.run()
}

func (a *App) refreshResults() {
	if a.circleCanvas == nil {
		return
	}
	if a.result != nil {
		a.circleCanvas.SetResult(*a.result, a.settings)
	}
	a.summaryBox.RemoveAll()
	a.summaryBox.Add(widgets.RenderResultSummary(a.result, a.settings))
	a.summaryBox.Refresh()
}

func (a *App) undo() {
	snap, ok := a.history.Undo(MakeSnapshot(a.settings, a.cut, "Undo"))
	if !ok {
		return
	}
	a.restore(snap)
}

func (a *App) redo() {
	snap, ok := a.history.Redo(MakeSnapshot(a.settings, a.cut, "Redo"))
	if !ok {
		return
	}
	a.restore(snap)
}

func (a *App) restore(snap Snapshot) {
	a.settings = snap.Settings
	a.cut = snap.Cut
	a.fillEntries(a.settings)
	a.run()
}

func (a *App) setTheme(name string) {
	a.config.Theme = name
	a.theme.SetVariant(ThemeVariantFor(name, a.app.Settings().ThemeVariant()))
	a.app.Settings().SetTheme(a.theme)
	if err := a.saveConfig(); err != nil {
		a.log.Warn("could not save theme preference", "error", err)
	}
}

// ─── Jobs ─────────────────────────────────────────────────

func (a *App) newJob() {
	settings := model.DefaultSettings()
	a.config.ApplyToSettings(&settings)

	a.history.Clear()
	a.job = model.NewJob("", settings)
	a.jobPath = ""
	a.settings = settings
	a.result = nil
	a.jobNameEntry.SetText(a.job.Name)
	a.fillEntries(settings)
	a.circleCanvas.SetResult(model.PackingResult{}, settings)
	a.refreshResults()
}

func (a *App) saveJob() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		a.job.Settings = a.settings
		a.job.Result = a.result
		saved, err := project.SaveJob(path, a.job)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.jobPath = saved
		a.rememberJob(saved)
	}, a.window)
	d.SetFileName(export.FileStem(a.job.Name) + project.JobExtension)
	d.Show()
}

func (a *App) openJob() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.loadJobFrom(path)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{project.JobExtension}))
	d.Show()
}

func (a *App) loadJobFrom(path string) {
	job, err := project.LoadJob(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.history.Clear()
	a.job = job
	a.jobPath = path
	a.settings = job.Settings
	a.jobNameEntry.SetText(job.Name)
	a.fillEntries(job.Settings)
	if job.Result != nil {
		a.result = job.Result
		a.refreshResults()
	} else {
		a.run()
	}
	a.rememberJob(path)
}

func (a *App) rememberJob(path string) {
	a.config.AddRecentJob(path, maxRecentJobs)
	if err := a.saveConfig(); err != nil {
		a.log.Warn("could not save recent jobs", "error", err)
	}
	a.SetupMenus()
}

// ─── Import ───────────────────────────────────────────────

func (a *App) importJobs() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.handleImportResult(jobimporter.ImportFile(path))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".tsv", ".txt", ".xlsx", ".xlsm"}))
	d.Show()
}

func (a *App) handleImportResult(result jobimporter.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(errors.New(errorMsg), a.window)
	}
	for _, w := range result.Warnings {
		a.log.Warn("import", "warning", w)
	}
	if len(result.Jobs) == 0 {
		return
	}
	if len(result.Jobs) == 1 {
		a.applyImportedJob(result.Jobs[0])
		return
	}

	names := make([]string, len(result.Jobs))
	for i, j := range result.Jobs {
		names[i] = fmt.Sprintf("%d. %s (%g mm, %gx%g)", i+1, j.Name,
			j.Settings.CircleDiameter, j.Settings.RectWidth, j.Settings.RectHeight)
	}
	pick := widget.NewSelect(names, nil)
	pick.SetSelectedIndex(0)
	dialog.ShowForm(fmt.Sprintf("Imported %d jobs", len(result.Jobs)), "Load", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Job", pick)},
		func(ok bool) {
			if ok && pick.SelectedIndex() >= 0 {
				a.applyImportedJob(result.Jobs[pick.SelectedIndex()])
			}
		}, a.window)
}

func (a *App) applyImportedJob(job model.Job) {
	a.job.Name = job.Name
	a.jobNameEntry.SetText(job.Name)
	a.applySettings(job.Settings, "Import Job")
}

func (a *App) importTemplate() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		tpl := jobimporter.ImportDXFTemplate(path)
		if len(tpl.Errors) > 0 {
			dialog.ShowError(errors.New(strings.Join(tpl.Errors, "\n")), a.window)
			return
		}
		for _, w := range tpl.Warnings {
			a.log.Warn("dxf template", "warning", w)
		}
		s := a.settings
		tpl.Apply(&s)
		a.applySettings(s, "Import DXF Template")
		if len(tpl.Warnings) > 0 {
			dialog.ShowInformation("Template Imported", strings.Join(tpl.Warnings, "\n"), a.window)
		}
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".dxf"}))
	d.Show()
}

// ─── Presets ──────────────────────────────────────────────

func (a *App) showSavePresetDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(a.job.Name)
	descEntry := widget.NewEntry()

	dialog.ShowForm("Save Preset", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(errors.New("preset name cannot be empty"), a.window)
				return
			}
			if old := a.presets.FindByName(name); old != nil {
				a.presets.Remove(old.ID)
			}
			a.presets.Add(model.NewPreset(name, descEntry.Text, a.settings, a.cut))
			a.persistPresets()
		}, a.window)
}

// pickPreset lets the user choose a saved preset and passes it to use.
func (a *App) pickPreset(title, confirm, empty string, use func(p *model.Preset)) {
	names := a.presets.Names()
	if len(names) == 0 {
		dialog.ShowInformation("No Presets", empty, a.window)
		return
	}
	pick := widget.NewSelect(names, nil)
	pick.SetSelectedIndex(0)
	dialog.ShowForm(title, confirm, "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Preset", pick)},
		func(ok bool) {
			if !ok {
				return
			}
			if p := a.presets.FindByName(pick.Selected); p != nil {
				use(p)
			}
		}, a.window)
}

func (a *App) showLoadPresetDialog() {
	a.pickPreset("Load Preset", "Load", "Save a preset first.", func(p *model.Preset) {
		a.history.Push(MakeSnapshot(a.settings, a.cut, "Load Preset"))
		a.settings = p.Settings
		a.cut = p.Cut
		a.fillEntries(a.settings)
		a.run()
	})
}

// showNewJobFromPresetDialog starts an unsaved job from a preset, keeping
// the current job untouched on disk.
func (a *App) showNewJobFromPresetDialog() {
	a.pickPreset("New Job from Preset", "Create", "Save a preset first.", func(p *model.Preset) {
		a.history.Clear()
		a.job = p.ToJob(p.Name)
		a.jobPath = ""
		a.settings = p.Settings
		a.cut = p.Cut
		a.result = nil
		a.jobNameEntry.SetText(a.job.Name)
		a.fillEntries(a.settings)
		a.run()
	})
}

func (a *App) showDeletePresetDialog() {
	a.pickPreset("Delete Preset", "Delete", "There are no presets to delete.", func(p *model.Preset) {
		a.presets.Remove(p.ID)
		a.persistPresets()
	})
}

func (a *App) persistPresets() {
	if err := project.SavePresets(project.DefaultPresetPath(), a.presets); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save presets: %w", err), a.window)
	}
}

// ─── Tools ────────────────────────────────────────────────

func (a *App) showCompareDialog() {
	s, err := a.readSettings()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(s))
	best := engine.BestScenario(results)

	rows := container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Scenario", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Count", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Efficiency", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	var d dialog.Dialog
	for i, r := range results {
		name := r.Scenario.Name
		if i == best {
			name += " ★"
		}
		if !r.Valid {
			name += " (invalid)"
		}
		scenario := r.Scenario
		rows.Add(widget.NewLabel(name))
		rows.Add(widget.NewLabelWithStyle(strconv.Itoa(r.Count), fyne.TextAlignTrailing, fyne.TextStyle{}))
		rows.Add(widget.NewLabelWithStyle(fmt.Sprintf("%.2f%%", r.Efficiency), fyne.TextAlignTrailing, fyne.TextStyle{}))
		rows.Add(widget.NewButton("Use", func() {
			a.applySettings(scenario.Settings, "Use Scenario")
			if d != nil {
				d.Hide()
			}
		}))
	}

	d = dialog.NewCustom("Compare Scenarios", "Close", container.NewVScroll(rows), a.window)
	d.Resize(fyne.NewSize(620, 360))
	d.Show()
}

func (a *App) showBlankEstimateDialog() {
	if !a.requireResult() {
		return
	}
	requiredEntry := widget.NewEntry()
	requiredEntry.SetText("100")
	lossEntry := widget.NewEntry()
	lossEntry.SetText("5")
	priceEntry := widget.NewEntry()
	priceEntry.SetText("0")

	dialog.ShowForm("Blank Estimate", "Estimate", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Rectangles required", requiredEntry),
			widget.NewFormItem("Scrap allowance (%)", lossEntry),
			widget.NewFormItem("Price per blank", priceEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			required, err1 := strconv.Atoi(strings.TrimSpace(requiredEntry.Text))
			loss, err2 := strconv.ParseFloat(strings.TrimSpace(lossEntry.Text), 64)
			price, err3 := strconv.ParseFloat(strings.TrimSpace(priceEntry.Text), 64)
			if err := errors.Join(err1, err2, err3); err != nil || required <= 0 || loss < 0 || price < 0 {
				dialog.ShowError(errors.New("enter a positive quantity and non-negative allowance and price"), a.window)
				return
			}
			est := model.EstimateBlanks(required, a.result.Count, loss, price)
			if est.PerBlank == 0 {
				dialog.ShowInformation("Blank Estimate", "No rectangle fits on this blank.", a.window)
				return
			}
			msg := fmt.Sprintf(
				"%d per blank\n%.2f blanks exactly, %d minimum\n%d blanks with %.0f%% allowance (%d spare rectangles)",
				est.PerBlank, est.BlanksExact, est.BlanksMin, est.BlanksWithLoss, est.LossPercent, est.Surplus)
			if est.PricePerBlank > 0 {
				msg += fmt.Sprintf("\nEstimated cost: %.2f", est.EstimatedCost)
			}
			dialog.ShowInformation("Blank Estimate", msg, a.window)
		}, a.window)
}

func (a *App) requireResult() bool {
	if a.result == nil || !(a.result.Circle.Radius > 0) {
		dialog.ShowInformation("No results", "Calculate a layout first.", a.window)
		return false
	}
	return true
}

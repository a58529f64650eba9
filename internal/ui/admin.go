package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CircleCut/internal/model"
	"github.com/piwi3910/CircleCut/internal/project"
)

// showSettingsDialog displays the application preferences editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	// Helper to create a float entry bound to a pointer
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

	profileSelect := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		cfg.DefaultGCodeProfile = selected
	})
	profileSelect.SetSelected(cfg.DefaultGCodeProfile)

	themeSelect := widget.NewSelect([]string{ThemeSystem, ThemeLight, ThemeDark}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	exportDirEntry := widget.NewEntry()
	exportDirEntry.SetText(cfg.ExportDir)
	exportDirEntry.SetPlaceHolder("(ask every time)")
	exportDirEntry.OnChanged = func(text string) { cfg.ExportDir = text }

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Export Folder", exportDirEntry),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Circle Diameter (mm)", floatEntry(&cfg.DefaultCircleDiameter)),
		widget.NewFormItem("Default Rectangle Width (mm)", floatEntry(&cfg.DefaultRectWidth)),
		widget.NewFormItem("Default Rectangle Height (mm)", floatEntry(&cfg.DefaultRectHeight)),
		widget.NewFormItem("Default Tolerance (mm)", floatEntry(&cfg.DefaultTolerance)),
		widget.NewFormItem("Default Safe Zone (mm)", floatEntry(&cfg.DefaultSafeZone)),
		widget.NewFormItem("Default GCode Profile", profileSelect),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			defaults := model.PackSettings{}
			cfg.ApplyToSettings(&defaults)
			if err := defaults.Validate(); err != nil {
				dialog.ShowError(fmt.Errorf("default dimensions: %w", err), a.window)
				return
			}
			themeChanged := cfg.Theme != a.config.Theme
			a.config = cfg
			if themeChanged {
				a.setTheme(cfg.Theme)
				return
			}
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save preferences: %w", err), a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 500))
	d.Show()
}

// showImportExportDialog displays the backup and restore dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportAllData(path, a.config, a.presets, model.CustomProfiles); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("circlecut-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your preferences, presets and custom GCode profiles.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					path := reader.URI().Path()
					reader.Close()
					backup, err := project.ImportAllData(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					if err := a.restoreBackup(backup); err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export preferences, presets and custom GCode profiles to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Backup / Restore", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// restoreBackup replaces the in-memory data with backup and writes every
// part back to its default location.
func (a *App) restoreBackup(backup project.BackupData) error {
	a.config = backup.Config
	a.presets = backup.Presets

	model.CustomProfiles = nil
	for _, p := range backup.Profiles {
		if err := model.AddCustomProfile(p); err != nil {
			a.log.Warn("skipping profile from backup", "profile", p.Name, "error", err)
		}
	}

	if err := a.saveConfig(); err != nil {
		return fmt.Errorf("failed to save imported preferences: %w", err)
	}
	if err := project.SavePresets(project.DefaultPresetPath(), a.presets); err != nil {
		return fmt.Errorf("failed to save imported presets: %w", err)
	}
	if err := project.SaveCustomProfiles(project.DefaultProfilesPath(), model.CustomProfiles); err != nil {
		return fmt.Errorf("failed to save imported profiles: %w", err)
	}
	a.setTheme(a.config.Theme)
	a.SetupMenus()
	return nil
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}

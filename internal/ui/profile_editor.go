package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CircleCut/internal/model"
	"github.com/piwi3910/CircleCut/internal/project"
)

// profileManager is the GCode profile window: a list of built-in and custom
// dialects on the left and the selected profile's details on the right.
type profileManager struct {
	app      *App
	window   fyne.Window
	profiles []model.GCodeProfile
	selected int

	list   *widget.List
	detail *fyne.Container
}

func (a *App) showProfileManager() {
	m := &profileManager{
		app:      a,
		window:   a.app.NewWindow("GCode Profile Manager"),
		profiles: model.AllProfiles(),
		selected: -1,
		detail:   container.NewVBox(),
	}
	m.window.SetContent(m.build())
	m.window.Resize(fyne.NewSize(720, 520))
	m.clearDetail()
	m.window.Show()
}

func (m *profileManager) build() fyne.CanvasObject {
	m.list = widget.NewList(
		func() int { return len(m.profiles) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Profile Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row := obj.(*fyne.Container)
			p := m.profiles[id]
			row.Objects[1].(*widget.Label).SetText(p.Name)
			tag := "(custom)"
			if p.IsBuiltIn {
				tag = "(built-in)"
			}
			row.Objects[3].(*widget.Label).SetText(tag)
		},
	)
	m.list.OnSelected = func(id widget.ListItemID) {
		m.selected = id
		m.showDetail(m.profiles[id])
	}

	buttons := container.NewHBox(
		widget.NewButtonWithIcon("New", theme.ContentAddIcon(), m.create),
		widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), m.duplicate),
		widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), m.importProfile),
		widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), m.exportProfile),
		widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), m.remove),
	)

	left := container.NewBorder(boldLabel("Profiles"), buttons, nil, nil, m.list)
	right := container.NewBorder(boldLabel("Profile Details"), nil, nil, nil, container.NewVScroll(m.detail))

	split := container.NewHSplit(left, right)
	split.SetOffset(0.35)
	return split
}

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

// reload re-reads the registry after a change, writes custom profiles to
// disk and updates any open profile picker.
func (m *profileManager) reload() {
	if err := project.SaveCustomProfiles(project.DefaultProfilesPath(), model.CustomProfiles); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save profiles: %w", err), m.window)
	}
	m.profiles = model.AllProfiles()
	m.selected = -1
	m.list.UnselectAll()
	m.list.Refresh()
	m.clearDetail()
	refreshProfileSelector()
}

func (m *profileManager) clearDetail() {
	m.detail.RemoveAll()
	m.detail.Add(widget.NewLabel("Select a profile to view details."))
	m.detail.Refresh()
}

// current returns the selected profile, telling the user when there is none.
func (m *profileManager) current(action string) (model.GCodeProfile, bool) {
	if m.selected < 0 || m.selected >= len(m.profiles) {
		dialog.ShowInformation("No Selection", "Select a profile to "+action+".", m.window)
		return model.GCodeProfile{}, false
	}
	return m.profiles[m.selected], true
}

func (m *profileManager) showDetail(p model.GCodeProfile) {
	m.detail.RemoveAll()

	if p.IsBuiltIn {
		m.detail.Add(widget.NewLabel("Built-in profiles are read-only. Duplicate to customize."))
	} else {
		m.detail.Add(widget.NewButtonWithIcon("Edit Profile", theme.DocumentCreateIcon(), func() {
			m.edit(p)
		}))
	}

	rows := [][2]string{
		{"Decimal places", strconv.Itoa(p.DecimalPlaces)},
		{"Rapid move", p.RapidMove},
		{"Feed move", p.FeedMove},
		{"Clockwise arc", p.ArcCW},
		{"Spindle start", p.SpindleStart},
		{"Spindle stop", p.SpindleStop},
		{"Comment prefix", strconv.Quote(p.CommentPrefix)},
		{"Comment suffix", strconv.Quote(p.CommentSuffix)},
	}
	grid := container.NewGridWithColumns(2)
	for _, r := range rows {
		grid.Add(widget.NewLabel(r[0] + ":"))
		grid.Add(widget.NewLabel(r[1]))
	}

	m.detail.Add(boldLabel(p.Name))
	m.detail.Add(widget.NewLabel(p.Description))
	m.detail.Add(widget.NewSeparator())
	m.detail.Add(grid)
	m.detail.Add(widget.NewSeparator())
	m.detail.Add(boldLabel("Start Code"))
	m.detail.Add(widget.NewLabel(strings.Join(p.StartCode, "\n")))
	m.detail.Add(boldLabel("End Code"))
	m.detail.Add(widget.NewLabel(strings.Join(p.EndCode, "\n")))
	m.detail.Refresh()
}

// askName prompts for a profile name and passes the trimmed, non-empty
// result to done.
func (m *profileManager) askName(title, initial string, done func(name string)) {
	entry := widget.NewEntry()
	entry.SetText(initial)
	entry.SetPlaceHolder("My Custom Profile")

	d := dialog.NewForm(title, "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Profile Name", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(entry.Text)
			if name == "" {
				dialog.ShowError(errors.New("profile name cannot be empty"), m.window)
				return
			}
			done(name)
		}, m.window)
	d.Resize(fyne.NewSize(400, 150))
	d.Show()
}

// add registers p and refreshes the window, reporting registry errors.
func (m *profileManager) add(p model.GCodeProfile) bool {
	if err := model.AddCustomProfile(p); err != nil {
		dialog.ShowError(err, m.window)
		return false
	}
	m.reload()
	return true
}

func (m *profileManager) create() {
	m.askName("New Custom Profile", "", func(name string) {
		m.add(model.NewCustomProfile(name))
	})
}

func (m *profileManager) duplicate() {
	source, ok := m.current("duplicate")
	if !ok {
		return
	}
	m.askName("Duplicate Profile", source.Name+" (Copy)", func(name string) {
		dup := source
		dup.Name = name
		dup.Description = "Copy of " + source.Name
		dup.StartCode = append([]string(nil), source.StartCode...)
		dup.EndCode = append([]string(nil), source.EndCode...)
		m.add(dup)
	})
}

func (m *profileManager) remove() {
	p, ok := m.current("delete")
	if !ok {
		return
	}
	if p.IsBuiltIn {
		dialog.ShowInformation("Cannot Delete", "Built-in profiles cannot be deleted.", m.window)
		return
	}
	dialog.ShowConfirm("Delete Profile", fmt.Sprintf("Delete custom profile %q?", p.Name),
		func(ok bool) {
			if !ok {
				return
			}
			if err := model.RemoveCustomProfile(p.Name); err != nil {
				dialog.ShowError(err, m.window)
				return
			}
			m.reload()
		}, m.window)
}

func (m *profileManager) importProfile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		profile, err := project.ImportProfile(path)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import profile: %w", err), m.window)
			return
		}
		if m.add(profile) {
			dialog.ShowInformation("Import Complete",
				fmt.Sprintf("Profile %q imported successfully.", profile.Name), m.window)
		}
	}, m.window)
}

func (m *profileManager) exportProfile() {
	p, ok := m.current("export")
	if !ok {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := project.ExportProfile(path, p); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export profile: %w", err), m.window)
			return
		}
		m.app.log.Info("exported gcode profile", "profile", p.Name, "path", path)
	}, m.window)
	d.SetFileName(strings.ReplaceAll(strings.ToLower(p.Name), " ", "_") + "_profile.json")
	d.Show()
}

// profileForm holds the editor entries for one profile.
type profileForm struct {
	name, description            *widget.Entry
	decimals                     *widget.Entry
	rapid, feed, arc             *widget.Entry
	spindleStart, spindleStop    *widget.Entry
	commentPrefix, commentSuffix *widget.Entry
	startCode, endCode           *widget.Entry
}

func newProfileForm(p model.GCodeProfile) *profileForm {
	entry := func(text string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(text)
		return e
	}
	multi := func(lines []string) *widget.Entry {
		e := widget.NewMultiLineEntry()
		e.SetText(strings.Join(lines, "\n"))
		e.SetMinRowsVisible(4)
		return e
	}
	return &profileForm{
		name:          entry(p.Name),
		description:   entry(p.Description),
		decimals:      entry(strconv.Itoa(p.DecimalPlaces)),
		rapid:         entry(p.RapidMove),
		feed:          entry(p.FeedMove),
		arc:           entry(p.ArcCW),
		spindleStart:  entry(p.SpindleStart),
		spindleStop:   entry(p.SpindleStop),
		commentPrefix: entry(p.CommentPrefix),
		commentSuffix: entry(p.CommentSuffix),
		startCode:     multi(p.StartCode),
		endCode:       multi(p.EndCode),
	}
}

// profile reads the entries back. Decimal places must be 0 to 10.
func (f *profileForm) profile() (model.GCodeProfile, error) {
	name := strings.TrimSpace(f.name.Text)
	if name == "" {
		return model.GCodeProfile{}, errors.New("profile name cannot be empty")
	}
	decimals, err := strconv.Atoi(strings.TrimSpace(f.decimals.Text))
	if err != nil || decimals < 0 || decimals > 10 {
		return model.GCodeProfile{}, errors.New("decimal places must be a number between 0 and 10")
	}
	return model.GCodeProfile{
		Name:          name,
		Description:   f.description.Text,
		StartCode:     splitLines(f.startCode.Text),
		SpindleStart:  strings.TrimSpace(f.spindleStart.Text),
		SpindleStop:   strings.TrimSpace(f.spindleStop.Text),
		RapidMove:     strings.TrimSpace(f.rapid.Text),
		FeedMove:      strings.TrimSpace(f.feed.Text),
		ArcCW:         strings.TrimSpace(f.arc.Text),
		EndCode:       splitLines(f.endCode.Text),
		CommentPrefix: f.commentPrefix.Text,
		CommentSuffix: f.commentSuffix.Text,
		DecimalPlaces: decimals,
	}, nil
}

func grid2(labelsAndWidgets ...fyne.CanvasObject) *fyne.Container {
	return container.NewGridWithColumns(2, labelsAndWidgets...)
}

func (m *profileManager) edit(original model.GCodeProfile) {
	f := newProfileForm(original)
	w := m.app.app.NewWindow("Edit Profile: " + original.Name)

	preview := widget.NewMultiLineEntry()
	preview.SetMinRowsVisible(10)
	preview.Disable()
	updatePreview := func() {
		p, err := f.profile()
		if err != nil {
			preview.SetText(err.Error())
			return
		}
		preview.SetText(profilePreview(p))
	}
	updatePreview()

	tabs := container.NewAppTabs(
		container.NewTabItem("General", grid2(
			widget.NewLabel("Name"), f.name,
			widget.NewLabel("Description"), f.description,
			widget.NewLabel("Decimal Places"), f.decimals,
		)),
		container.NewTabItem("Motion", grid2(
			widget.NewLabel("Rapid Move Command"), f.rapid,
			widget.NewLabel("Feed Move Command"), f.feed,
			widget.NewLabel("Clockwise Arc Command"), f.arc,
		)),
		container.NewTabItem("Spindle", grid2(
			widget.NewLabel("Spindle Start (use %d for RPM)"), f.spindleStart,
			widget.NewLabel("Spindle Stop"), f.spindleStop,
		)),
		container.NewTabItem("Comments", grid2(
			widget.NewLabel("Comment Prefix"), f.commentPrefix,
			widget.NewLabel("Comment Suffix"), f.commentSuffix,
		)),
		container.NewTabItem("Start/End Code", container.NewVBox(
			boldLabel("Start Code (one command per line)"), f.startCode,
			widget.NewSeparator(),
			boldLabel("End Code ([SafeZ] is replaced, one command per line)"), f.endCode,
		)),
		container.NewTabItem("Preview", container.NewVBox(
			widget.NewButtonWithIcon("Refresh Preview", theme.ViewRefreshIcon(), updatePreview),
			preview,
		)),
	)

	save := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		updated, err := f.profile()
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		renamed := updated.Name != original.Name
		if renamed {
			_ = model.RemoveCustomProfile(original.Name)
		}
		if m.add(updated) {
			w.Close()
			return
		}
		if renamed {
			_ = model.AddCustomProfile(original)
		}
	})
	save.Importance = widget.HighImportance

	w.SetContent(container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), save), nil, nil, tabs))
	w.Resize(fyne.NewSize(600, 500))
	w.Show()
}

// profilePreview renders a short sample program in the profile's dialect.
func profilePreview(p model.GCodeProfile) string {
	comment := func(text string) string {
		return p.CommentPrefix + " " + text + p.CommentSuffix + "\n"
	}
	num := func(v float64) string {
		return strconv.FormatFloat(v, 'f', p.DecimalPlaces, 64)
	}

	var b strings.Builder
	b.WriteString(comment("Sample GCode Preview"))
	b.WriteString(comment("Profile: " + p.Name))
	b.WriteString("\n")
	for _, line := range p.StartCode {
		b.WriteString(line + "\n")
	}
	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart, 18000) + "\n")
	}
	b.WriteString(comment("--- Rectangle 1: 20.0 x 10.0 at (0.00, 0.00) ---"))
	b.WriteString(p.RapidMove + " X" + num(-11.5) + " Y" + num(-6.5) + "\n")
	b.WriteString(p.FeedMove + " X" + num(-11.5) + " Y" + num(6.5) + " F" + num(1200) + "\n")
	b.WriteString(comment("--- Blank outline ---"))
	b.WriteString(p.ArcCW + " X" + num(51.5) + " Y" + num(0) + " I" + num(-51.5) + " J" + num(0) + " F" + num(1200) + "\n")
	b.WriteString("\n")
	for _, line := range p.EndCode {
		b.WriteString(strings.ReplaceAll(line, "[SafeZ]", num(5)) + "\n")
	}
	b.WriteString(p.SpindleStop + "\n")
	return b.String()
}

// splitLines splits a multiline string into trimmed, non-empty lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

package gcode

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/CircleCut/internal/model"
)

// ErrNothingToCut is returned when a result has no rectangles and the blank
// outline is not requested either.
var ErrNothingToCut = errors.New("gcode: nothing to cut")

// Generator produces GCode that cuts every packed rectangle out of the blank.
type Generator struct {
	Settings model.CutSettings
	profile  model.GCodeProfile
}

func New(settings model.CutSettings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.GCodeProfile),
	}
}

// Validate checks the machining parameters the toolpath math depends on.
func (g *Generator) Validate() error {
	s := g.Settings
	var errs []error
	if !(s.ToolDiameter > 0) {
		errs = append(errs, fmt.Errorf("tool diameter must be > 0, got %g", s.ToolDiameter))
	}
	if !(s.FeedRate > 0) {
		errs = append(errs, fmt.Errorf("feed rate must be > 0, got %g", s.FeedRate))
	}
	if !(s.PlungeRate > 0) {
		errs = append(errs, fmt.Errorf("plunge rate must be > 0, got %g", s.PlungeRate))
	}
	if !(s.CutDepth > 0) {
		errs = append(errs, fmt.Errorf("cut depth must be > 0, got %g", s.CutDepth))
	}
	if !(s.PassDepth > 0) {
		errs = append(errs, fmt.Errorf("pass depth must be > 0, got %g", s.PassDepth))
	}
	if s.TabsPerSide < 0 {
		errs = append(errs, fmt.Errorf("tabs per side must be >= 0, got %d", s.TabsPerSide))
	}
	if s.TabsPerSide > 0 && (!(s.TabWidth > 0) || !(s.TabHeight > 0)) {
		errs = append(errs, errors.New("tab width and height must be > 0 when tabs are enabled"))
	}
	return errors.Join(errs...)
}

// Generate produces a complete program for one packed blank. Rectangles are
// cut in acceptance order, then the blank outline if CutBlank is set.
func (g *Generator) Generate(result model.PackingResult) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	if len(result.Rectangles) == 0 && !(g.Settings.CutBlank && result.Circle.Radius > 0) {
		return "", ErrNothingToCut
	}

	var b strings.Builder
	g.writeHeader(&b, result)

	for i, rect := range result.Rectangles {
		g.writeRect(&b, rect, i+1)
	}

	if g.Settings.CutBlank && result.Circle.Radius > 0 {
		g.writeBlank(&b, result.Circle)
	}

	g.writeFooter(&b)
	return b.String(), nil
}

func (g *Generator) writeHeader(b *strings.Builder, result model.PackingResult) {
	p := g.profile

	b.WriteString(g.comment("CircleCut GCode"))
	b.WriteString(g.comment(fmt.Sprintf("Blank: diameter %.1f mm", result.Circle.Radius*2)))
	b.WriteString(g.comment(fmt.Sprintf("Rectangles: %d, Efficiency: %.1f%%", len(result.Rectangles), result.Efficiency)))
	b.WriteString(g.comment(fmt.Sprintf("Tool: %.1fmm, Feed: %.0f mm/min, Plunge: %.0f mm/min",
		g.Settings.ToolDiameter, g.Settings.FeedRate, g.Settings.PlungeRate)))
	b.WriteString(g.comment(fmt.Sprintf("Depth: %.1fmm in %.1fmm passes", g.Settings.CutDepth, g.Settings.PassDepth)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart+"\n", g.Settings.SpindleSpeed))
	}

	// Retract before the first XY move; the origin is the blank center.
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(0), g.format(0)))

	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))

	for _, code := range p.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}

	if p.SpindleStop != "" {
		b.WriteString(p.SpindleStop + "\n")
	}
}

// numPasses is the number of step-downs needed to reach CutDepth.
func (g *Generator) numPasses() int {
	n := int(math.Ceil(g.Settings.CutDepth/g.Settings.PassDepth - 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

func (g *Generator) passDepth(pass int) float64 {
	depth := float64(pass) * g.Settings.PassDepth
	if depth > g.Settings.CutDepth {
		depth = g.Settings.CutDepth
	}
	return depth
}

func (g *Generator) writeRect(b *strings.Builder, rect model.Rectangle, num int) {
	toolR := g.Settings.ToolDiameter / 2.0
	path := Toolpath(rect, toolR)

	b.WriteString(g.comment(fmt.Sprintf("--- Rectangle %d: %.1f x %.1f at (%.2f, %.2f)%s ---",
		num, rect.Width, rect.Height, rect.Position.X, rect.Position.Y, rotatedStr(rect.Rotation))))

	passes := g.numPasses()
	for pass := 1; pass <= passes; pass++ {
		depth := g.passDepth(pass)
		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, passes, depth)))

		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove, g.format(path[0].X), g.format(path[0].Y)))
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove, g.format(-depth), g.format(g.Settings.PlungeRate)))

		if pass == passes && g.Settings.TabsPerSide > 0 {
			g.writePerimeterWithTabs(b, path, depth)
		} else {
			g.writePerimeter(b, path)
		}

		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ)))
	}

	b.WriteString("\n")
}

// Toolpath returns the closed tool-center path around rect, offset outward by
// toolR and ordered clockwise for climb milling. The first point is repeated
// at the end.
func Toolpath(rect model.Rectangle, toolR float64) []model.Position {
	corners := rect.Corners()
	offset := offsetOutline(corners[:], toolR)

	// Corners are counter-clockwise; walk them backwards.
	path := make([]model.Position, 0, len(offset)+1)
	path = append(path, offset[0])
	for i := len(offset) - 1; i >= 1; i-- {
		path = append(path, offset[i])
	}
	return append(path, offset[0])
}

// offsetOutline moves every vertex of a counter-clockwise convex outline
// outward by dist using a miter join, so each edge ends up exactly dist away
// from the original edge.
func offsetOutline(outline []model.Position, dist float64) []model.Position {
	n := len(outline)
	if n < 3 || dist == 0 {
		return append([]model.Position(nil), outline...)
	}

	result := make([]model.Position, n)
	for i := 0; i < n; i++ {
		prev := outline[(i-1+n)%n]
		curr := outline[i]
		next := outline[(i+1)%n]

		// Right-hand normals point outward for a counter-clockwise outline.
		n1x, n1y := normalize(curr.Y-prev.Y, -(curr.X - prev.X))
		n2x, n2y := normalize(next.Y-curr.Y, -(next.X - curr.X))

		denom := 1 + n1x*n2x + n1y*n2y
		if denom < 1e-9 {
			result[i] = model.Position{X: curr.X + n1x*dist, Y: curr.Y + n1y*dist}
			continue
		}
		result[i] = model.Position{
			X: curr.X + (n1x+n2x)/denom*dist,
			Y: curr.Y + (n1y+n2y)/denom*dist,
		}
	}
	return result
}

func (g *Generator) writePerimeter(b *strings.Builder, path []model.Position) {
	p := g.profile
	for i, pt := range path[1:] {
		if i == 0 {
			b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", p.FeedMove, g.format(pt.X), g.format(pt.Y), g.format(g.Settings.FeedRate)))
			continue
		}
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.FeedMove, g.format(pt.X), g.format(pt.Y)))
	}
}

// writeBlank cuts the blank outline as a full clockwise circle outside the
// rim, stepping down like the rectangles.
func (g *Generator) writeBlank(b *strings.Builder, c model.Circle) {
	r := c.Radius + g.Settings.ToolDiameter/2.0
	sx := c.Position.X + r
	sy := c.Position.Y

	b.WriteString(g.comment(fmt.Sprintf("--- Blank outline: radius %.2f ---", c.Radius)))

	passes := g.numPasses()
	for pass := 1; pass <= passes; pass++ {
		depth := g.passDepth(pass)
		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, passes, depth)))
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove, g.format(sx), g.format(sy)))
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove, g.format(-depth), g.format(g.Settings.PlungeRate)))
		b.WriteString(fmt.Sprintf("%s X%s Y%s I%s J%s F%s\n", g.arcCW(),
			g.format(sx), g.format(sy), g.format(-r), g.format(0), g.format(g.Settings.FeedRate)))
		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ)))
	}

	b.WriteString("\n")
}

func (g *Generator) arcCW() string {
	if g.profile.ArcCW != "" {
		return g.profile.ArcCW
	}
	return "G2"
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	s := fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
	// Avoid "-0.000" for values that round to zero.
	if strings.TrimLeft(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return s
}

// Tab represents a holding tab position along one edge of the toolpath.
type Tab struct {
	side     int     // edge index within the toolpath
	startPos float64 // distance of the tab center along that edge
}

// calculateTabs spreads TabsPerSide tabs evenly along every edge of path.
func (g *Generator) calculateTabs(path []model.Position) []Tab {
	if g.Settings.TabsPerSide <= 0 {
		return nil
	}

	var tabs []Tab
	for side := 0; side < len(path)-1; side++ {
		length := math.Hypot(path[side+1].X-path[side].X, path[side+1].Y-path[side].Y)
		spacing := length / float64(g.Settings.TabsPerSide+1)
		for t := 1; t <= g.Settings.TabsPerSide; t++ {
			tabs = append(tabs, Tab{side: side, startPos: spacing * float64(t)})
		}
	}
	return tabs
}

func (g *Generator) writePerimeterWithTabs(b *strings.Builder, path []model.Position, depth float64) {
	tabDepth := depth - g.Settings.TabHeight
	if tabDepth < 0 {
		tabDepth = 0
	}
	tabs := g.calculateTabs(path)

	for side := 0; side < len(path)-1; side++ {
		g.writeSideWithTabs(b, path[side], path[side+1], depth, tabDepth, g.Settings.TabWidth, tabsForSide(tabs, side))
	}
}

func tabsForSide(tabs []Tab, side int) []Tab {
	var result []Tab
	for _, t := range tabs {
		if t.side == side {
			result = append(result, t)
		}
	}
	return result
}

func (g *Generator) writeSideWithTabs(b *strings.Builder, from, to model.Position,
	cutDepth, tabDepth, tabWidth float64, tabs []Tab) {

	if len(tabs) == 0 {
		b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove, g.format(to.X), g.format(to.Y), g.format(g.Settings.FeedRate)))
		return
	}

	dx := to.X - from.X
	dy := to.Y - from.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.001 {
		return
	}
	nx := dx / length
	ny := dy / length

	cursor := 0.0
	for _, tab := range tabs {
		tabStart := math.Max(tab.startPos-tabWidth/2, cursor)
		tabEnd := math.Min(tab.startPos+tabWidth/2, length)
		if tabEnd <= tabStart {
			continue
		}

		if tabStart > cursor {
			b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove,
				g.format(from.X+nx*tabStart), g.format(from.Y+ny*tabStart), g.format(g.Settings.FeedRate)))
		}

		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.FeedMove, g.format(-tabDepth)))
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.FeedMove,
			g.format(from.X+nx*tabEnd), g.format(from.Y+ny*tabEnd)))
		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.FeedMove, g.format(-cutDepth)))

		cursor = tabEnd
	}

	b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove, g.format(to.X), g.format(to.Y), g.format(g.Settings.FeedRate)))
}

func rotatedStr(rotation float64) string {
	if rotation != 0 {
		return fmt.Sprintf(" [%g°]", rotation)
	}
	return ""
}

// normalize returns a unit vector in the given direction.
func normalize(x, y float64) (float64, float64) {
	length := math.Sqrt(x*x + y*y)
	if length < 1e-9 {
		return 0, 0
	}
	return x / length, y / length
}

package model

import "fmt"

// CutSettings holds the CNC parameters used when a packed layout is exported as GCode.
type CutSettings struct {
	ToolDiameter float64 `json:"tool_diameter" yaml:"tool_diameter"` // End mill diameter in mm
	FeedRate     float64 `json:"feed_rate" yaml:"feed_rate"`         // Cutting feed rate mm/min
	PlungeRate   float64 `json:"plunge_rate" yaml:"plunge_rate"`     // Plunge feed rate mm/min
	SpindleSpeed int     `json:"spindle_speed" yaml:"spindle_speed"` // RPM
	SafeZ        float64 `json:"safe_z" yaml:"safe_z"`               // Safe retract height mm
	CutDepth     float64 `json:"cut_depth" yaml:"cut_depth"`         // Total material thickness mm
	PassDepth    float64 `json:"pass_depth" yaml:"pass_depth"`       // Depth per pass mm

	// Holding tabs keep each rectangle attached to the disc on the final pass
	TabWidth    float64 `json:"tab_width" yaml:"tab_width"`
	TabHeight   float64 `json:"tab_height" yaml:"tab_height"`
	TabsPerSide int     `json:"tabs_per_side" yaml:"tabs_per_side"`

	// CutBlank adds a final pass around the circular blank itself.
	CutBlank bool `json:"cut_blank" yaml:"cut_blank"`

	GCodeProfile string `json:"gcode_profile" yaml:"gcode_profile"`
}

func DefaultCutSettings() CutSettings {
	return CutSettings{
		ToolDiameter: 3.0,
		FeedRate:     1200.0,
		PlungeRate:   400.0,
		SpindleSpeed: 18000,
		SafeZ:        5.0,
		CutDepth:     6.0,
		PassDepth:    2.0,
		TabWidth:     3.0,
		TabHeight:    1.0,
		TabsPerSide:  0,
		CutBlank:     false,
		GCodeProfile: "Generic",
	}
}

// GCodeProfile defines a post-processor dialect for a CNC controller.
type GCodeProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	StartCode    []string `json:"start_code"`
	SpindleStart string   `json:"spindle_start"` // e.g. "M3 S%d"
	SpindleStop  string   `json:"spindle_stop"`
	RapidMove    string   `json:"rapid_move"`
	FeedMove     string   `json:"feed_move"`
	ArcCW        string   `json:"arc_cw"`
	EndCode      []string `json:"end_code"` // "[SafeZ]" is substituted

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`
	DecimalPlaces int    `json:"decimal_places"`

	IsBuiltIn bool `json:"is_built_in"`
}

// Built-in GCode profiles. Generic must stay last, GetProfile falls back to it.
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Grbl 1.1 (hobby routers, laser/CNC shields)",
		StartCode:     []string{"G90", "G21", "G17"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		ArcCW:         "G2",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
		IsBuiltIn:     true,
	},
	{
		Name:          "Fanuc",
		Description:   "Fanuc-style controllers with parenthesised comments",
		StartCode:     []string{"G90", "G21", "G17", "G40", "G49"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G00",
		FeedMove:      "G01",
		ArcCW:         "G02",
		EndCode:       []string{"G00 Z[SafeZ]", "G28 G91 Z0", "M30"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
		IsBuiltIn:     true,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC / Mach3",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		ArcCW:         "G2",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M30"},
		CommentPrefix: ";",
		DecimalPlaces: 4,
		IsBuiltIn:     true,
	},
	{
		Name:          "Generic",
		Description:   "Generic RS-274 GCode",
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		ArcCW:         "G2",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
		IsBuiltIn:     true,
	},
}

// CustomProfiles holds user-defined profiles loaded from disk.
var CustomProfiles []GCodeProfile

// AllProfiles returns built-in profiles followed by custom ones.
func AllProfiles() []GCodeProfile {
	all := make([]GCodeProfile, 0, len(GCodeProfiles)+len(CustomProfiles))
	all = append(all, GCodeProfiles...)
	return append(all, CustomProfiles...)
}

// GetProfile returns a GCode profile by name, or the Generic profile if not found.
func GetProfile(name string) GCodeProfile {
	for _, p := range AllProfiles() {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

func GetProfileNames() []string {
	all := AllProfiles()
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
	}
	return names
}

func isBuiltInProfile(name string) bool {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// AddCustomProfile inserts a custom profile, replacing one with the same name.
func AddCustomProfile(p GCodeProfile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if isBuiltInProfile(p.Name) {
		return fmt.Errorf("cannot overwrite built-in profile %q", p.Name)
	}
	p.IsBuiltIn = false
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == p.Name {
			CustomProfiles[i] = p
			return nil
		}
	}
	CustomProfiles = append(CustomProfiles, p)
	return nil
}

func RemoveCustomProfile(name string) error {
	if isBuiltInProfile(name) {
		return fmt.Errorf("cannot remove built-in profile %q", name)
	}
	for i, p := range CustomProfiles {
		if p.Name == name {
			CustomProfiles = append(CustomProfiles[:i], CustomProfiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile %q not found", name)
}

// NewCustomProfile starts a custom profile from the Generic dialect.
func NewCustomProfile(name string) GCodeProfile {
	p := GCodeProfiles[len(GCodeProfiles)-1]
	p.Name = name
	p.Description = "Custom profile"
	p.StartCode = append([]string(nil), p.StartCode...)
	p.EndCode = append([]string(nil), p.EndCode...)
	p.IsBuiltIn = false
	return p
}

package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default packing settings applied to new jobs
	DefaultCircleDiameter float64 `json:"default_circle_diameter"`
	DefaultRectWidth      float64 `json:"default_rect_width"`
	DefaultRectHeight     float64 `json:"default_rect_height"`
	DefaultTolerance      float64 `json:"default_tolerance"`
	DefaultSafeZone       float64 `json:"default_safe_zone"`

	// Default machining profile used for GCode export
	DefaultGCodeProfile string `json:"default_gcode_profile"`

	// Application preferences
	ExportDir  string   `json:"export_dir"`
	RecentJobs []string `json:"recent_jobs"`
	Theme      string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with defaults
// matching DefaultSettings() and DefaultCutSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultCircleDiameter: defaults.CircleDiameter,
		DefaultRectWidth:      defaults.RectWidth,
		DefaultRectHeight:     defaults.RectHeight,
		DefaultTolerance:      defaults.Tolerance,
		DefaultSafeZone:       defaults.SafeZone,
		DefaultGCodeProfile:   DefaultCutSettings().GCodeProfile,
		ExportDir:             "",
		RecentJobs:            []string{},
		Theme:                 "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
// This is used when creating a new job so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.CircleDiameter = c.DefaultCircleDiameter
	s.RectWidth = c.DefaultRectWidth
	s.RectHeight = c.DefaultRectHeight
	s.Tolerance = c.DefaultTolerance
	s.SafeZone = c.DefaultSafeZone
}

// AddRecentJob moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentJob(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentJobs {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentJobs = recent
}

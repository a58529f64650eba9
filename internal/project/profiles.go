package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/CircleCut/internal/model"
)

// DefaultProfilesPath is ~/.circlecut/profiles.json.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles writes the user-defined dialects.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	return writeJSON(path, profiles)
}

// LoadCustomProfiles reads user-defined dialects; a missing file yields
// none. Entries are always marked custom, whatever the file says.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	profiles, err := readJSON(path, func() []model.GCodeProfile { return []model.GCodeProfile{} })
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].IsBuiltIn = false
	}
	return profiles, nil
}

// RegisterCustomProfiles adds the dialects stored at path to the model
// registry and returns the names it had to skip because they clash with a
// built-in.
func RegisterCustomProfiles(path string) (skipped []string, err error) {
	profiles, err := LoadCustomProfiles(path)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if model.AddCustomProfile(p) != nil {
			skipped = append(skipped, p.Name)
		}
	}
	return skipped, nil
}

// ExportProfile writes one dialect to its own file for sharing.
func ExportProfile(path string, profile model.GCodeProfile) error {
	profile.IsBuiltIn = false
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile reads a file written by ExportProfile.
func ImportProfile(path string) (model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GCodeProfile{}, err
	}
	var p model.GCodeProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return model.GCodeProfile{}, err
	}
	if p.Name == "" {
		return model.GCodeProfile{}, errors.New("imported profile has no name")
	}
	p.IsBuiltIn = false
	return p, nil
}

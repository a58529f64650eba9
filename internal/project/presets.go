package project

import (
	"path/filepath"

	"github.com/piwi3910/CircleCut/internal/model"
)

// DefaultPresetPath is ~/.circlecut/presets.json.
func DefaultPresetPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	return writeJSON(path, store)
}

// LoadPresets reads a preset store. A missing file yields an empty store.
func LoadPresets(path string) (model.PresetStore, error) {
	store, err := readJSON(path, model.NewPresetStore)
	if err != nil {
		return model.PresetStore{}, err
	}
	if store.Presets == nil {
		store.Presets = []model.Preset{}
	}
	return store, nil
}

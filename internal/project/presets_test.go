package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CircleCut/internal/model"
)

func TestSaveAndLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	store := model.NewPresetStore()
	settings := model.DefaultSettings()
	settings.CircleDiameter = 300
	store.Add(model.NewPreset("300 mm disc", "Aluminium blanks", settings, model.DefaultCutSettings()))
	store.Add(model.NewPreset("Small", "", model.DefaultSettings(), model.DefaultCutSettings()))

	if err := SavePresets(path, store); err != nil {
		t.Fatalf("SavePresets error: %v", err)
	}

	loaded, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets error: %v", err)
	}
	if len(loaded.Presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(loaded.Presets))
	}
	p := loaded.FindByName("300 mm disc")
	if p == nil {
		t.Fatal("preset not found by name")
	}
	if p.Settings.CircleDiameter != 300 {
		t.Errorf("expected diameter 300, got %v", p.Settings.CircleDiameter)
	}
	if p.Cut.ToolDiameter != model.DefaultCutSettings().ToolDiameter {
		t.Errorf("cut settings not preserved: %+v", p.Cut)
	}
}

func TestLoadPresets_NotFound(t *testing.T) {
	store, err := LoadPresets(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if store.Presets == nil || len(store.Presets) != 0 {
		t.Errorf("expected empty non-nil store, got %#v", store.Presets)
	}
}

func TestLoadPresets_NullList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte(`{"presets":null}`), 0644); err != nil {
		t.Fatal(err)
	}
	store, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets error: %v", err)
	}
	if store.Presets == nil {
		t.Error("Presets should not be nil after loading")
	}
}

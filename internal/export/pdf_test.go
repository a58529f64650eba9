package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CircleCut/internal/engine"
	"github.com/piwi3910/CircleCut/internal/model"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.pdf")

	result, settings := sampleResult()
	if err := ExportPDF(path, result, settings); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportPDF(path, model.PackingResult{}, model.DefaultSettings()); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportPDF_OptimizedLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimized.pdf")

	settings := model.DefaultSettings()
	settings.SafeZone = 3
	result := engine.New(settings).Optimize()
	if result.Count == 0 {
		t.Fatal("expected a non-empty layout")
	}

	if err := ExportPDF(path, result, settings); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("PDF file missing or empty: %v", err)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		side float64
		want float64
	}{
		{20, 8},
		{10, 6},
		{5, 4},
		{2, 0},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.side)
		if got != tt.want {
			t.Errorf("labelFontSize(%v) = %v, want %v", tt.side, got, tt.want)
		}
	}
}

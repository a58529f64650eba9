package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CircleCut/internal/model"
)

func TestRenderImage_Pixels(t *testing.T) {
	result, settings := sampleResult()
	opts := DefaultPNGOptions()
	opts.Size = 200
	opts.Padding = 10
	opts.ShowLabels = false

	img, err := RenderImage(result, settings, opts)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	// Corner is outside the circle: background.
	r, g, b, _ := img.At(2, 2).RGBA()
	assert.GreaterOrEqual(t, r>>8, uint32(250))
	assert.GreaterOrEqual(t, g>>8, uint32(250))
	assert.GreaterOrEqual(t, b>>8, uint32(250))

	// Image center sits inside the first rectangle: light blue fill.
	r, g, b, _ = img.At(100, 100).RGBA()
	assert.Greater(t, b>>8, r>>8, "fill should be blue-ish")
	assert.Greater(t, g>>8, uint32(150))
}

func TestExportPNG(t *testing.T) {
	result, settings := sampleResult()
	path := filepath.Join(t.TempDir(), "layout.png")
	opts := DefaultPNGOptions()
	opts.Size = 300

	require.NoError(t, ExportPNG(path, result, settings, opts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestRenderImage_Errors(t *testing.T) {
	_, err := RenderImage(model.PackingResult{}, model.DefaultSettings(), DefaultPNGOptions())
	assert.ErrorIs(t, err, ErrEmptyResult)

	result, settings := sampleResult()
	opts := DefaultPNGOptions()
	opts.Size = 0
	_, err = RenderImage(result, settings, opts)
	assert.Error(t, err)
}

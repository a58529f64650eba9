package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CircleCut/internal/model"
)

func TestPlacementRows(t *testing.T) {
	result, _ := sampleResult()
	rows := PlacementRows(result)

	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, -7.5, rows[0].MinX)
	assert.Equal(t, 5.0, rows[0].MaxY)

	// 90° rectangle swaps its footprint.
	assert.Equal(t, 90.0, rows[1].Rotation)
	assert.Equal(t, 15.0, rows[1].MinX)
	assert.Equal(t, 25.0, rows[1].MaxX)
	assert.Equal(t, -7.5, rows[1].MinY)
}

func TestWriteCSV_ReadBack(t *testing.T) {
	result, _ := sampleResult()
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, result))
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "index,x_mm,y_mm,rotation_deg,width_mm,height_mm,min_x_mm,min_y_mm,max_x_mm,max_y_mm", header)

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, PlacementRows(result), rows)
}

func TestExportCSV(t *testing.T) {
	result, _ := sampleResult()
	path := filepath.Join(t.TempDir(), "placements.csv")

	require.NoError(t, ExportCSV(path, result))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"))

	assert.Error(t, ExportCSV(filepath.Join(t.TempDir(), "empty.csv"), model.PackingResult{}))
}

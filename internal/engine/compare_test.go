package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	base := settings(100, 15, 10, 1, 2)
	scenarios := BuildDefaultScenarios(base)

	names := make([]string, len(scenarios))
	for i, sc := range scenarios {
		names[i] = sc.Name
	}
	assert.Equal(t, []string{
		"Current Settings",
		"Tolerance 0.50mm (half)",
		"Zero Tolerance",
		"No Safe Zone",
		"Swapped 10.0 x 15.0",
	}, names)
	assert.Equal(t, base, scenarios[0].Settings)
	assert.Equal(t, 0.0, scenarios[2].Settings.Tolerance)
	assert.Equal(t, 0.0, scenarios[3].Settings.SafeZone)
	assert.Equal(t, 10.0, scenarios[4].Settings.RectWidth)
}

func TestBuildDefaultScenarios_Minimal(t *testing.T) {
	scenarios := BuildDefaultScenarios(settings(100, 10, 10, 0, 0))
	require.Len(t, scenarios, 1)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
}

func TestCompareScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(settings(80, 12, 8, 0.5, 0))
	results := CompareScenarios(scenarios)

	require.Len(t, results, len(scenarios))
	for i, r := range results {
		assert.Equal(t, scenarios[i].Name, r.Scenario.Name)
		assert.Equal(t, r.Result.Count, r.Count)
		assert.True(t, r.Valid, "scenario %s", r.Scenario.Name)
	}

	best := BestScenario(results)
	require.GreaterOrEqual(t, best, 0)
	for _, r := range results {
		assert.LessOrEqual(t, r.Count, results[best].Count)
	}
}

func TestBestScenario_Empty(t *testing.T) {
	assert.Equal(t, -1, BestScenario(nil))
}

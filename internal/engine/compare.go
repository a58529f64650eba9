package engine

import (
	"fmt"

	"github.com/piwi3910/CircleCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the packing and its audit for a single scenario.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Result     model.PackingResult
	Count      int
	Efficiency float64
	Valid      bool
}

// CompareScenarios packs every scenario in order so alternatives can be
// shown side by side.
func CompareScenarios(scenarios []ComparisonScenario) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result := New(scenario.Settings).Optimize()
		results = append(results, ComparisonResult{
			Scenario:   scenario,
			Result:     result,
			Count:      result.Count,
			Efficiency: result.Efficiency,
			Valid:      Verify(result, scenario.Settings).Passed(),
		})
	}

	return results
}

// BestScenario returns the index of the result with the most rectangles.
// Earlier scenarios win ties. It returns -1 for an empty slice.
func BestScenario(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 || r.Count > results[best].Count {
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios derives what-if variants from the current settings.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	if base.Tolerance > 0 {
		half := base
		half.Tolerance = base.Tolerance * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Tolerance %.2fmm (half)", half.Tolerance),
			Settings: half,
		})

		zero := base
		zero.Tolerance = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Zero Tolerance",
			Settings: zero,
		})
	}

	if base.SafeZone > 0 {
		noSafe := base
		noSafe.SafeZone = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Safe Zone",
			Settings: noSafe,
		})
	}

	// Packing is symmetric in width/height except for the systematic fill,
	// which always tries 0° first.
	if base.RectWidth != base.RectHeight {
		swapped := base
		swapped.RectWidth, swapped.RectHeight = base.RectHeight, base.RectWidth
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Swapped %.1f x %.1f", swapped.RectWidth, swapped.RectHeight),
			Settings: swapped,
		})
	}

	return scenarios
}

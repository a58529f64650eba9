package engine

import (
	"log/slog"
	"math"

	"github.com/piwi3910/CircleCut/internal/model"
)

// Optimizer packs identical rectangles into a circle.
type Optimizer struct {
	Settings model.PackSettings
	Logger   *slog.Logger
}

// New returns an Optimizer that logs nothing. Set Logger to trace strategies.
func New(settings model.PackSettings) *Optimizer {
	return &Optimizer{
		Settings: settings,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

func (o *Optimizer) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Optimize runs the 0° and 90° grid strategies, keeps the valid candidate with
// the most rectangles and fills in its efficiency metrics. Inputs are not
// validated; see model.PackSettings.Validate.
func (o *Optimizer) Optimize() model.PackingResult {
	log := o.logger()
	s := o.Settings

	if !(s.RectWidth > 0 && s.RectHeight > 0 && s.CircleDiameter > 0) {
		log.Debug("degenerate settings, nothing to place",
			"diameter", s.CircleDiameter, "width", s.RectWidth, "height", s.RectHeight)
		result := model.PackingResult{Circle: model.Circle{Radius: s.Radius()}}
		o.calculateEfficiency(&result)
		return result
	}

	p := newPacker(s)
	candidates := []model.PackingResult{
		p.strictGrid(0),
		p.strictGrid(90),
	}

	var valid []model.PackingResult
	for _, c := range candidates {
		ok := o.validateNoOverlaps(c.Rectangles)
		log.Debug("strategy evaluated", "strategy", c.Strategy, "count", c.Count, "valid", ok)
		if ok {
			valid = append(valid, c)
		}
	}

	// With tolerance > 0 neighbouring grid cells sit exactly one tolerance
	// apart, which the strict clearance test rejects, so every candidate
	// fails and the larger unfiltered one is used. This is the normal path
	// for a positive tolerance.
	pool := valid
	if len(pool) == 0 {
		log.Debug("no candidate passed overlap validation, using unfiltered best",
			"tolerance", s.Tolerance)
		pool = candidates
	}

	best := pool[0]
	for _, c := range pool[1:] {
		if c.Count > best.Count {
			best = c
		}
	}

	o.calculateEfficiency(&best)
	log.Debug("packing chosen", "strategy", best.Strategy, "count", best.Count,
		"efficiency", best.Efficiency)
	return best
}

// validateNoOverlaps checks every pair under the configured tolerance.
func (o *Optimizer) validateNoOverlaps(rects []model.Rectangle) bool {
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if RectanglesOverlap(rects[i], rects[j], o.Settings.Tolerance) {
				return false
			}
		}
	}
	return true
}

func (o *Optimizer) calculateEfficiency(r *model.PackingResult) {
	r.TotalArea = math.Pi * (r.Circle.Radius * r.Circle.Radius)

	r.UsedArea = 0
	for range r.Rectangles {
		r.UsedArea += o.Settings.RectWidth * o.Settings.RectHeight
	}

	if r.TotalArea > 0 {
		r.Efficiency = (r.UsedArea / r.TotalArea) * 100.0
		r.Waste = 100.0 - r.Efficiency
	} else {
		r.Efficiency = 0
		r.Waste = 100.0
	}
}

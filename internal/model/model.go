package model

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// degToRad converts the stored degree rotation to radians.
const degToRad = float64(math.Pi) / 180

// Position is a 2D point in mm.
type Position struct {
	X float64 `json:"x" yaml:"x" csv:"x"`
	Y float64 `json:"y" yaml:"y" csv:"y"`
}

// Circle is the circular boundary. Its center is the origin of the working frame.
type Circle struct {
	Radius   float64  `json:"radius"`
	Position Position `json:"position"`
}

// Rectangle is a placed rectangle: center position, nominal size and rotation in degrees.
type Rectangle struct {
	Position Position `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Rotation float64  `json:"rotation"` // degrees
}

// NewRectangle returns a w x h rectangle centred on pos, rotated by rotation degrees.
func NewRectangle(pos Position, w, h, rotation float64) Rectangle {
	return Rectangle{Position: pos, Width: w, Height: h, Rotation: rotation}
}

// Corners returns the four corners rotated about the rectangle center.
// Order in the local frame before rotation: bottom-left, bottom-right, top-right, top-left.
func (r Rectangle) Corners() [4]Position {
	rad := r.Rotation * degToRad
	cosR := math.Cos(rad)
	sinR := math.Sin(rad)

	hw := r.Width / 2.0
	hh := r.Height / 2.0

	local := [4][2]float64{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}

	var corners [4]Position
	for i, l := range local {
		rx := l[0]*cosR - l[1]*sinR
		ry := l[0]*sinR + l[1]*cosR
		corners[i] = Position{X: r.Position.X + rx, Y: r.Position.Y + ry}
	}
	return corners
}

// BoundingBox returns the min and max corners of the rotated rectangle.
func (r Rectangle) BoundingBox() (min, max Position) {
	c := r.Corners()
	min, max = c[0], c[0]
	for _, p := range c[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// PackSettings is the core-facing configuration. All values are in mm.
type PackSettings struct {
	CircleDiameter float64 `json:"circle_diameter" yaml:"circle_diameter"`
	RectWidth      float64 `json:"rect_width" yaml:"rect_width"`
	RectHeight     float64 `json:"rect_height" yaml:"rect_height"`
	Tolerance      float64 `json:"tolerance" yaml:"tolerance"` // Minimum clearance between rectangles
	SafeZone       float64 `json:"safe_zone" yaml:"safe_zone"` // Minimum clearance from the circle boundary
}

// DefaultSettings returns a 100 mm blank with 15 x 10 parts and no clearances.
func DefaultSettings() PackSettings {
	return PackSettings{
		CircleDiameter: 100.0,
		RectWidth:      15.0,
		RectHeight:     10.0,
		Tolerance:      0.0,
		SafeZone:       0.0,
	}
}

// Radius returns half the circle diameter.
func (s PackSettings) Radius() float64 {
	return s.CircleDiameter / 2.0
}

// EffectiveRadius is the radius minus the safe zone. It may be zero or negative.
func (s PackSettings) EffectiveRadius() float64 {
	return s.Radius() - s.SafeZone
}

// Validate checks the input constraints. The optimizer itself never validates;
// callers (CLI, GUI, importers) are expected to call this before running it.
func (s PackSettings) Validate() error {
	var errs []error
	if !(s.CircleDiameter > 0) {
		errs = append(errs, fmt.Errorf("circle diameter must be > 0, got %g", s.CircleDiameter))
	}
	if !(s.RectWidth > 0) {
		errs = append(errs, fmt.Errorf("rectangle width must be > 0, got %g", s.RectWidth))
	}
	if !(s.RectHeight > 0) {
		errs = append(errs, fmt.Errorf("rectangle height must be > 0, got %g", s.RectHeight))
	}
	if !(s.Tolerance >= 0) {
		errs = append(errs, fmt.Errorf("tolerance must be >= 0, got %g", s.Tolerance))
	}
	if !(s.SafeZone >= 0) {
		errs = append(errs, fmt.Errorf("safe zone must be >= 0, got %g", s.SafeZone))
	}
	return errors.Join(errs...)
}

// PackingResult holds a placement and its efficiency metrics.
// Rectangles are in acceptance order; consumers index them positionally.
type PackingResult struct {
	Rectangles []Rectangle `json:"rectangles"`
	Circle     Circle      `json:"circle"`
	Count      int         `json:"count"`
	Strategy   string      `json:"strategy"`

	Efficiency float64 `json:"efficiency"` // % of circle area used
	Waste      float64 `json:"waste"`      // % of circle area wasted
	UsedArea   float64 `json:"used_area"`  // Nominal area of all rectangles
	TotalArea  float64 `json:"total_area"` // Circle area
}

// RotationCounts returns how many rectangles were placed at each rotation.
func (r PackingResult) RotationCounts() map[float64]int {
	counts := make(map[float64]int)
	for _, rect := range r.Rectangles {
		counts[rect.Rotation]++
	}
	return counts
}

// Job ties a named set of settings to its (optional) result for save/load.
type Job struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	CreatedAt string         `json:"created_at"`
	Settings  PackSettings   `json:"settings"`
	Result    *PackingResult `json:"result,omitempty"`
}

func NewJob(name string, settings PackSettings) Job {
	if name == "" {
		name = "Untitled"
	}
	return Job{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Settings:  settings,
	}
}

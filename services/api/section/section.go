// Package section computes the sweep geometry: section centers, clipping
// bands and along-section projection.
package section

import (
	"errors"
	"fmt"
	"math"
)

// MaxSections bounds a single sweep.
const MaxSections = 100

// ErrInvalidParams is returned when a sweep cannot be generated from Params.
var ErrInvalidParams = errors.New("invalid section parameters")

// Point is a plan-view position in dataset units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Params holds the user-supplied sweep parameters.
type Params struct {
	OriginX   float64 `json:"origin_x"`
	OriginY   float64 `json:"origin_y"`
	Azimuth   float64 `json:"azimuth"`
	Spacing   float64 `json:"spacing"`
	Count     int     `json:"num_sections"`
	ClipWidth float64 `json:"clip_width"`
}

// DefaultParams returns the defaults offered by the upload form.
func DefaultParams() Params {
	return Params{
		OriginX:   394500,
		OriginY:   8553300,
		Azimuth:   218,
		Spacing:   300,
		Count:     8,
		ClipWidth: 5,
	}
}

// Origin returns the first section center.
func (p Params) Origin() Point {
	return Point{X: p.OriginX, Y: p.OriginY}
}

// Validate checks the section count and that every value is finite. A clip
// width <= 0 is accepted and yields empty sections.
func (p Params) Validate() error {
	if p.Count < 1 || p.Count > MaxSections {
		return fmt.Errorf("%w: num_sections must be between 1 and %d, got %d", ErrInvalidParams, MaxSections, p.Count)
	}
	values := []struct {
		name string
		v    float64
	}{
		{"origin_x", p.OriginX},
		{"origin_y", p.OriginY},
		{"azimuth", p.Azimuth},
		{"spacing", p.Spacing},
		{"clip_width", p.ClipWidth},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidParams, f.name)
		}
	}
	return nil
}

// Section is one clipping band of a sweep.
type Section struct {
	Index     int     `json:"index"` // 1-based
	Center    Point   `json:"center"`
	Azimuth   float64 `json:"azimuth"`
	HalfWidth float64 `json:"clip_width"`
	Clip      Point   `json:"clip_direction"`
	Proj      Point   `json:"projection_direction"`
}

// New builds the section at center. The clip normal is taken at azimuth+90
// without normalisation; the projection axis is taken at (azimuth+180) mod 360.
func New(index int, center Point, azimuth, halfWidth float64) Section {
	clip := radians(azimuth + 90)
	proj := radians(floorMod(azimuth+180, 360))
	return Section{
		Index:     index,
		Center:    center,
		Azimuth:   azimuth,
		HalfWidth: halfWidth,
		Clip:      Point{X: math.Sin(clip), Y: math.Cos(clip)},
		Proj:      Point{X: math.Sin(proj), Y: math.Cos(proj)},
	}
}

// Offset is the signed distance of p from the section line, along the clip
// normal.
func (s Section) Offset(p Point) float64 {
	return (p.X-s.Center.X)*s.Clip.X + (p.Y-s.Center.Y)*s.Clip.Y
}

// Contains reports whether p falls within the clipping band. NaN positions
// are never contained.
func (s Section) Contains(p Point) bool {
	return math.Abs(s.Offset(p)) <= s.HalfWidth
}

// Project returns the signed along-section coordinate of p.
func (s Section) Project(p Point) float64 {
	return (p.X-s.Center.X)*s.Proj.X + (p.Y-s.Center.Y)*s.Proj.Y
}

// Trace returns the endpoints of the section line extended halfLength in
// both directions along the projection axis.
func (s Section) Trace(halfLength float64) (Point, Point) {
	from := Point{X: s.Center.X - halfLength*s.Proj.X, Y: s.Center.Y - halfLength*s.Proj.Y}
	to := Point{X: s.Center.X + halfLength*s.Proj.X, Y: s.Center.Y + halfLength*s.Proj.Y}
	return from, to
}

// Centers returns count centers spaced along the perpendicular to azimuth,
// starting at origin. Angles are compass bearings: x uses sine, y cosine.
func Centers(origin Point, azimuth, spacing float64, count int) []Point {
	perp := radians(floorMod(azimuth+90, 360))
	dx, dy := math.Sin(perp), math.Cos(perp)

	centers := make([]Point, 0, max(count, 0))
	for i := 0; i < count; i++ {
		step := float64(i) * spacing
		centers = append(centers, Point{X: origin.X + step*dx, Y: origin.Y + step*dy})
	}
	return centers
}

// Sweep validates p and returns its sections in index order.
func Sweep(p Params) ([]Section, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	centers := Centers(p.Origin(), p.Azimuth, p.Spacing, p.Count)
	sections := make([]Section, 0, len(centers))
	for i, c := range centers {
		sections = append(sections, New(i+1, c, p.Azimuth, p.ClipWidth))
	}
	return sections, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// floorMod returns a mod m with the sign of m.
func floorMod(a, m float64) float64 {
	r := math.Mod(a, m)
	if r < 0 {
		r += m
	}
	return r
}

// Package style maps categorical and grade fields to presentation
// attributes for the section renderer.
package style

import "image/color"

// Glyph names a marker shape.
type Glyph int

const (
	GlyphCircle Glyph = iota
	GlyphSquare
	GlyphTriangleUp
	GlyphTriangleDown
)

var (
	LightGray = color.RGBA{R: 0xD3, G: 0xD3, B: 0xD3, A: 0xFF}
	Red       = color.RGBA{R: 0xFF, A: 0xFF}
	Black     = color.RGBA{A: 0xFF}
	Blue      = color.RGBA{B: 0xFF, A: 0xFF}
	White     = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Tope describes how a TOPE domain code is drawn.
type Tope struct {
	Code  int
	Label string
	Color color.RGBA
	Glyph Glyph
}

var topes = []Tope{
	{Code: 2, Label: "Ganancia", Color: color.RGBA{R: 0xFF, G: 0xA5, A: 0xFF}, Glyph: GlyphSquare},
	{Code: 3, Label: "Conversión", Color: color.RGBA{G: 0x80, A: 0xFF}, Glyph: GlyphTriangleUp},
	{Code: 5, Label: "Económico", Color: color.RGBA{R: 0x87, G: 0xCE, B: 0xEB, A: 0xFF}, Glyph: GlyphCircle},
	{Code: 7, Label: "UpNSR", Color: color.RGBA{R: 0xFF, G: 0xC0, B: 0xCB, A: 0xFF}, Glyph: GlyphTriangleDown},
}

// Topes returns the known TOPE styles in drawing order.
func Topes() []Tope {
	out := make([]Tope, len(topes))
	copy(out, topes)
	return out
}

// TopeFor looks up the style for code.
func TopeFor(code int) (Tope, bool) {
	for _, t := range topes {
		if t.Code == code {
			return t, true
		}
	}
	return Tope{}, false
}

// IsKnownTope reports whether code is one of the drawn TOPE codes.
func IsKnownTope(code int) bool {
	_, ok := TopeFor(code)
	return ok
}

type gradeStep struct {
	min   float64
	color color.RGBA
}

// Highest threshold first; the first match wins.
var gradeLadder = []gradeStep{
	{min: 90, color: color.RGBA{R: 0x80, B: 0x80, A: 0xFF}},
	{min: 60, color: color.RGBA{R: 0xFF, A: 0xFF}},
	{min: 42, color: color.RGBA{R: 0xFF, G: 0x8C, A: 0xFF}},
	{min: 30, color: color.RGBA{R: 0xFF, G: 0xD7, A: 0xFF}},
	{min: 15, color: color.RGBA{R: 0xFF, G: 0xFF, A: 0xFF}},
}

var gradeFloor = color.RGBA{R: 0xA9, G: 0xA9, B: 0xA9, A: 0xFF}

// GradeBuckets is the number of grade colors.
const GradeBuckets = 6

// GradeBucket returns the bucket ordinal for an NSR value, 0 for the lowest
// bucket up to GradeBuckets-1 for >= 90. NaN falls in bucket 0.
func GradeBucket(nsr float64) int {
	for i, step := range gradeLadder {
		if nsr >= step.min {
			return GradeBuckets - 1 - i
		}
	}
	return 0
}

// GradeColor returns the fill color for an NSR value.
func GradeColor(nsr float64) color.RGBA {
	for _, step := range gradeLadder {
		if nsr >= step.min {
			return step.color
		}
	}
	return gradeFloor
}

// GradeColors returns the bucket colors indexed by GradeBucket.
func GradeColors() []color.RGBA {
	out := make([]color.RGBA, 0, GradeBuckets)
	out = append(out, gradeFloor)
	for i := len(gradeLadder) - 1; i >= 0; i-- {
		out = append(out, gradeLadder[i].color)
	}
	return out
}

// DrillHole describes how a drill-hole COD category is drawn.
type DrillHole struct {
	Code  int
	Label string
	Color color.RGBA
}

var drillHoles = []DrillHole{
	{Code: 1, Label: "Sondajes COD=1", Color: Black},
	{Code: 2, Label: "Sondajes COD=2", Color: Blue},
}

// DrillHoles returns the drawn COD categories in order.
func DrillHoles() []DrillHole {
	out := make([]DrillHole, len(drillHoles))
	copy(out, drillHoles)
	return out
}

// DrillHoleFor looks up the style for a COD value. Codes outside the table
// are not drawn.
func DrillHoleFor(code int) (DrillHole, bool) {
	for _, d := range drillHoles {
		if d.Code == code {
			return d, true
		}
	}
	return DrillHole{}, false
}

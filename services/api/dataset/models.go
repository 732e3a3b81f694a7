// Package dataset reads the block model and drill-hole CSV tables.
package dataset

import "github.com/02loveslollipop/section-viewer/services/api/section"

// Sample is a row of the primary sample dataset.
type Sample struct {
	X       float64 `json:"xc"`
	Y       float64 `json:"yc"`
	Z       float64 `json:"zc"`
	Orebody string  `json:"orebody"`
	Tope    int     `json:"tope"`
	NSR     float64 `json:"nsr24res"`
}

// Location implements section.Locatable.
func (s Sample) Location() section.Point { return section.Point{X: s.X, Y: s.Y} }

// SecondarySample is a row of the secondary sample dataset.
type SecondarySample struct {
	X      float64 `json:"xc"`
	Y      float64 `json:"yc"`
	Z      float64 `json:"zc"`
	CGeoCD int     `json:"cgeocd"`
}

// Location implements section.Locatable.
func (s SecondarySample) Location() section.Point { return section.Point{X: s.X, Y: s.Y} }

// DrillSample is one survey point of a drill hole.
type DrillSample struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	BHID string  `json:"bhid"`
	COD  int     `json:"cod"`
}

// Location implements section.Locatable.
func (d DrillSample) Location() section.Point { return section.Point{X: d.X, Y: d.Y} }

// Bundle holds the three filtered tables of one run. Tables are read-only
// once loaded.
type Bundle struct {
	Samples    []Sample
	Secondary  []SecondarySample
	DrillHoles []DrillSample
}

package render

import (
	"math"
	"sort"

	"gonum.org/v1/plot/plotter"

	"github.com/02loveslollipop/section-viewer/services/api/dataset"
	"github.com/02loveslollipop/section-viewer/services/api/section"
	"github.com/02loveslollipop/section-viewer/services/api/style"
)

// Anchor places an orebody label in data coordinates.
type Anchor struct {
	Label string
	X, Y  float64
}

// PlanAnchors places one label per distinct orebody at the median plan
// position of its section points.
func PlanAnchors(samples []section.Projected[dataset.Sample]) []Anchor {
	return anchors(samples, func(s section.Projected[dataset.Sample]) (float64, float64) {
		return s.Record.X, s.Record.Y
	}, 0)
}

// SectionAnchors places one label per distinct orebody at the median
// (Y_proj, Z) of its section points, moved left by offset.
func SectionAnchors(samples []section.Projected[dataset.Sample], offset float64) []Anchor {
	return anchors(samples, func(s section.Projected[dataset.Sample]) (float64, float64) {
		return s.YProj, s.Record.Z
	}, offset)
}

// anchors groups by exact orebody name in first-appearance order. Empty
// names are not labelled.
func anchors(samples []section.Projected[dataset.Sample], at func(section.Projected[dataset.Sample]) (float64, float64), offset float64) []Anchor {
	order := make([]string, 0)
	xs := make(map[string][]float64)
	ys := make(map[string][]float64)
	for _, s := range samples {
		name := s.Record.Orebody
		if name == "" {
			continue
		}
		if _, ok := xs[name]; !ok {
			order = append(order, name)
			xs[name] = nil
		}
		x, y := at(s)
		xs[name] = append(xs[name], x)
		ys[name] = append(ys[name], y)
	}

	out := make([]Anchor, 0, len(order))
	for _, name := range order {
		mx, my := Median(xs[name]), Median(ys[name])
		if math.IsNaN(mx) || math.IsNaN(my) {
			continue
		}
		out = append(out, Anchor{Label: name, X: mx - offset, Y: my})
	}
	return out
}

// Median of the non-NaN values, averaging the middle pair for even counts.
// It returns NaN when there are none.
func Median(values []float64) float64 {
	vals := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	n := len(vals)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// Trajectory is one drill hole drawn in the section view.
type Trajectory struct {
	BHID string
	COD  int
	// Points are (Y_proj, Z) by ascending Z.
	Points plotter.XYs
	// Legend is set on the first trajectory of each COD.
	Legend bool
}

// Trajectories groups drill-hole points by COD, in style order, then by
// BHID in first-appearance order. Rows with an empty BHID, an undrawn COD
// or non-finite coordinates are skipped.
func Trajectories(holes []section.Projected[dataset.DrillSample]) []Trajectory {
	out := make([]Trajectory, 0)
	seen := make(map[int]bool)
	for _, cat := range style.DrillHoles() {
		order := make([]string, 0)
		groups := make(map[string][]section.Projected[dataset.DrillSample])
		for _, h := range holes {
			if h.Record.COD != cat.Code || h.Record.BHID == "" {
				continue
			}
			if _, ok := groups[h.Record.BHID]; !ok {
				order = append(order, h.Record.BHID)
			}
			groups[h.Record.BHID] = append(groups[h.Record.BHID], h)
		}

		for _, id := range order {
			pts := groups[id]
			xys := make(plotter.XYs, 0, len(pts))
			for _, p := range pts {
				xys = appendFinite(xys, p.YProj, p.Record.Z)
			}
			if len(xys) == 0 {
				continue
			}
			sort.SliceStable(xys, func(i, j int) bool { return xys[i].Y < xys[j].Y })
			out = append(out, Trajectory{BHID: id, COD: cat.Code, Points: xys, Legend: !seen[cat.Code]})
			seen[cat.Code] = true
		}
	}
	return out
}

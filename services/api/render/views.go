package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/02loveslollipop/section-viewer/services/api/style"
)

func (r *Renderer) planView(f Frame) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Vista en planta - Sección %d", f.Section.Index)
	p.X.Label.Text = "Este (m)"
	p.Y.Label.Text = "Norte (m)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	background := make(plotter.XYs, 0, len(f.All))
	for _, s := range f.All {
		background = appendFinite(background, s.X, s.Y)
	}
	if len(background) > 0 {
		sc, err := plotter.NewScatter(background)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: faded(style.LightGray, 0.5), Radius: vg.Points(0.7), Shape: draw.CircleGlyph{}}
		p.Add(sc)
	}

	from, to := f.Section.Trace(r.opts.TraceHalfLength)
	trace, err := plotter.NewLine(plotter.XYs{{X: from.X, Y: from.Y}, {X: to.X, Y: to.Y}})
	if err != nil {
		return nil, err
	}
	trace.LineStyle.Color = style.Red
	trace.LineStyle.Width = vg.Points(2)
	p.Add(trace)
	p.Legend.Add("Ubicación sección", trace)

	if anchors := PlanAnchors(f.Samples); len(anchors) > 0 {
		p.Add(newTagLabels(anchors, vg.Points(8), text.XCenter))
	}
	return p, nil
}

func (r *Renderer) sectionView(f Frame) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Vista en sección - Sección %d (Azimuth %s°)", f.Section.Index, strconv.FormatFloat(f.Section.Azimuth, 'f', -1, 64))
	p.X.Label.Text = "Distancia sobre sección (m)"
	p.Y.Label.Text = "Elevación (m)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	secondary := make(plotter.XYs, 0, len(f.Secondary))
	for _, s := range f.Secondary {
		secondary = appendFinite(secondary, s.YProj, s.Record.Z)
	}
	if len(secondary) > 0 {
		sc, err := plotter.NewScatter(secondary)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: faded(style.LightGray, 0.5), Radius: vg.Points(0.9), Shape: draw.CircleGlyph{}}
		p.Add(sc)
	}

	for _, tope := range style.Topes() {
		sc, err := topeScatter(tope, f)
		if err != nil {
			return nil, err
		}
		if sc.XYs.Len() > 0 {
			p.Add(sc)
		}
		p.Legend.Add(tope.Label, sc)
	}

	for _, tr := range Trajectories(f.DrillHoles) {
		cat, _ := style.DrillHoleFor(tr.COD)
		line, err := plotter.NewLine(tr.Points)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = faded(cat.Color, 0.5)
		line.LineStyle.Width = vg.Points(0.9)

		pts, err := plotter.NewScatter(tr.Points)
		if err != nil {
			return nil, err
		}
		pts.GlyphStyle = draw.GlyphStyle{Color: faded(cat.Color, 0.3), Radius: vg.Points(0.5), Shape: draw.CircleGlyph{}}

		p.Add(line, pts)
		if tr.Legend {
			p.Legend.Add(cat.Label, line)
		}
	}

	if anchors := SectionAnchors(f.Samples, r.opts.LabelOffset); len(anchors) > 0 {
		p.Add(newTagLabels(anchors, vg.Points(10), text.XRight))
	}

	if p.X.Min > p.X.Max {
		p.X.Min, p.X.Max = -r.opts.TraceHalfLength, r.opts.TraceHalfLength
	}
	if p.Y.Min > p.Y.Max {
		p.Y.Min, p.Y.Max = 0, 1
	}
	return p, nil
}

// topeScatter builds the grade-colored scatter of one TOPE group. The
// glyph style carries the domain color for the legend; points are filled
// by grade.
func topeScatter(tope style.Tope, f Frame) (*plotter.Scatter, error) {
	xys := make(plotter.XYs, 0)
	fills := make([]color.Color, 0)
	for _, s := range f.Samples {
		if s.Record.Tope != tope.Code {
			continue
		}
		before := len(xys)
		xys = appendFinite(xys, s.YProj, s.Record.Z)
		if len(xys) > before {
			fills = append(fills, style.GradeColor(s.Record.NSR))
		}
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle = draw.GlyphStyle{
		Color:  tope.Color,
		Radius: vg.Points(1.8),
		Shape:  marker{shape: tope.Glyph, edge: style.Black, edgeWidth: vg.Points(0.2)},
	}
	base := sc.GlyphStyle
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		gs := base
		gs.Color = fills[i]
		return gs
	}
	return sc, nil
}

func appendFinite(xys plotter.XYs, x, y float64) plotter.XYs {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return xys
	}
	return append(xys, plotter.XY{X: x, Y: y})
}

func faded(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * 255))}
}

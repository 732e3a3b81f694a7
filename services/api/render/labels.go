package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/02loveslollipop/section-viewer/services/api/style"
)

// tagLabels draws text on a translucent white box at data coordinates.
type tagLabels struct {
	anchors []Anchor
	style   text.Style
	fill    color.Color
	pad     vg.Length
}

func newTagLabels(anchors []Anchor, size vg.Length, align text.XAlignment) tagLabels {
	return tagLabels{
		anchors: anchors,
		style: text.Style{
			Color:   style.Black,
			Font:    font.From(plot.DefaultFont, size),
			XAlign:  align,
			YAlign:  text.YCenter,
			Handler: plot.DefaultTextHandler,
		},
		fill: faded(style.White, 0.6),
		pad:  vg.Points(2),
	}
}

// Plot implements plot.Plotter.
func (t tagLabels) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, a := range t.anchors {
		pt := vg.Point{X: trX(a.X), Y: trY(a.Y)}
		if !c.Contains(pt) {
			continue
		}
		w := t.style.Width(a.Label)
		h := t.style.Height(a.Label)
		minX := pt.X + vg.Length(t.style.XAlign)*w - t.pad
		minY := pt.Y + vg.Length(t.style.YAlign)*h - t.pad
		maxX := minX + w + 2*t.pad
		maxY := minY + h + 2*t.pad
		c.FillPolygon(t.fill, []vg.Point{
			{X: minX, Y: minY},
			{X: maxX, Y: minY},
			{X: maxX, Y: maxY},
			{X: minX, Y: maxY},
		})
		c.FillText(t.style, pt, a.Label)
	}
}

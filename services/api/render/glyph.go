package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/02loveslollipop/section-viewer/services/api/style"
)

// marker is a filled glyph with an optional outline.
type marker struct {
	shape     style.Glyph
	edge      color.Color
	edgeWidth vg.Length
}

// DrawGlyph implements draw.GlyphDrawer.
func (m marker) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	path := m.path(sty.Radius, pt)
	c.SetColor(sty.Color)
	c.Fill(path)
	if m.edge != nil && m.edgeWidth > 0 {
		c.SetLineStyle(draw.LineStyle{Color: m.edge, Width: m.edgeWidth})
		c.Stroke(path)
	}
}

func (m marker) path(r vg.Length, pt vg.Point) vg.Path {
	var p vg.Path
	switch m.shape {
	case style.GlyphSquare:
		p.Move(vg.Point{X: pt.X - r, Y: pt.Y - r})
		p.Line(vg.Point{X: pt.X + r, Y: pt.Y - r})
		p.Line(vg.Point{X: pt.X + r, Y: pt.Y + r})
		p.Line(vg.Point{X: pt.X - r, Y: pt.Y + r})
	case style.GlyphTriangleUp, style.GlyphTriangleDown:
		dir := vg.Length(1)
		if m.shape == style.GlyphTriangleDown {
			dir = -1
		}
		half := r * vg.Length(math.Sqrt(3)/2)
		p.Move(vg.Point{X: pt.X, Y: pt.Y + dir*r})
		p.Line(vg.Point{X: pt.X + half, Y: pt.Y - dir*r/2})
		p.Line(vg.Point{X: pt.X - half, Y: pt.Y - dir*r/2})
	default:
		p.Move(vg.Point{X: pt.X + r, Y: pt.Y})
		p.Arc(pt, r, 0, 2*math.Pi)
	}
	p.Close()
	return p
}

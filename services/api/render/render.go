// Package render draws the two-panel section figure: a plan view of the
// sweep above the projected section view.
package render

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/02loveslollipop/section-viewer/services/api/dataset"
	"github.com/02loveslollipop/section-viewer/services/api/section"
)

// Panel height weights, plan above section.
const (
	planWeight    = 0.8
	sectionWeight = 1.5
)

// Options controls figure geometry.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
	// TraceHalfLength is how far the plan-view trace extends each way from
	// the section center, in dataset units.
	TraceHalfLength float64
	// LabelOffset shifts section-view orebody labels left of their median.
	LabelOffset float64
}

// DefaultOptions returns a 12x9 inch figure at 150 dpi.
func DefaultOptions() Options {
	return Options{
		Width:           12 * vg.Inch,
		Height:          9 * vg.Inch,
		DPI:             150,
		TraceHalfLength: 1500,
		LabelOffset:     20,
	}
}

// Frame is everything drawn for one section.
type Frame struct {
	Section section.Section
	// All is the full filtered primary table, drawn as plan context.
	All        []dataset.Sample
	Samples    []section.Projected[dataset.Sample]
	Secondary  []section.Projected[dataset.SecondarySample]
	DrillHoles []section.Projected[dataset.DrillSample]
}

// Renderer rasterises frames to JPEG.
type Renderer struct {
	opts Options
}

// New returns a Renderer. Zero option fields take their defaults.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.DPI <= 0 {
		opts.DPI = def.DPI
	}
	if opts.TraceHalfLength <= 0 {
		opts.TraceHalfLength = def.TraceHalfLength
	}
	if opts.LabelOffset == 0 {
		opts.LabelOffset = def.LabelOffset
	}
	return &Renderer{opts: opts}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render draws f and writes it to w as JPEG. Nothing is retained between
// calls.
func (r *Renderer) Render(w io.Writer, f Frame) error {
	plan, err := r.planView(f)
	if err != nil {
		return fmt.Errorf("section %d plan view: %w", f.Section.Index, err)
	}
	view, err := r.sectionView(f)
	if err != nil {
		return fmt.Errorf("section %d section view: %w", f.Section.Index, err)
	}

	img := vgimg.NewWith(vgimg.UseWH(r.opts.Width, r.opts.Height), vgimg.UseDPI(r.opts.DPI))
	dc := draw.New(img)

	total := dc.Max.Y - dc.Min.Y
	lower := total * vg.Length(sectionWeight/(planWeight+sectionWeight))
	plan.Draw(draw.Crop(dc, 0, 0, lower, 0))
	view.Draw(draw.Crop(dc, 0, 0, 0, -(total - lower)))

	jpg := vgimg.JpegCanvas{Canvas: img}
	if _, err := jpg.WriteTo(w); err != nil {
		return fmt.Errorf("section %d encode: %w", f.Section.Index, err)
	}
	return nil
}

// RenderFile renders f into a new file at path.
func (r *Renderer) RenderFile(path string, f Frame) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return r.Render(out, f)
}

// FileName is the image name for a 1-based section index.
func FileName(index int) string {
	return fmt.Sprintf("seccion_%02d.jpg", index)
}

// Package pipeline runs a full section sweep: slice every table per
// section, render each figure and collect the images in index order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/02loveslollipop/section-viewer/services/api/dataset"
	"github.com/02loveslollipop/section-viewer/services/api/render"
	"github.com/02loveslollipop/section-viewer/services/api/section"
)

// ErrSectionOutOfRange is returned for an index outside [1, sections].
var ErrSectionOutOfRange = errors.New("section index out of range")

// Image is one rendered section.
type Image struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Path  string `json:"-"`
}

// Counts are table sizes, either for the whole run or one section.
type Counts struct {
	Samples    int `json:"samples"`
	Secondary  int `json:"secondary"`
	DrillHoles int `json:"drillholes"`
}

// SectionSummary describes one rendered section.
type SectionSummary struct {
	section.Section
	Counts Counts `json:"counts"`
}

// Result is a completed run. Its images live in Dir until Cleanup.
type Result struct {
	ID        string           `json:"id"`
	Dir       string           `json:"-"`
	Params    section.Params   `json:"params"`
	Totals    Counts           `json:"totals"`
	Sections  []SectionSummary `json:"sections"`
	Images    []Image          `json:"images"`
	CreatedAt time.Time        `json:"created_at"`
	Elapsed   time.Duration    `json:"elapsed_ns"`
}

// Paths returns image paths in section order.
func (r *Result) Paths() []string {
	out := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		out = append(out, img.Path)
	}
	return out
}

// Image returns the image for a 1-based index.
func (r *Result) Image(index int) (Image, error) {
	if index < 1 || index > len(r.Images) {
		return Image{}, fmt.Errorf("%w: %d not in [1, %d]", ErrSectionOutOfRange, index, len(r.Images))
	}
	return r.Images[index-1], nil
}

// Cleanup removes the run workspace.
func (r *Result) Cleanup() error {
	if r.Dir == "" {
		return nil
	}
	return os.RemoveAll(r.Dir)
}

// Runner executes sweeps into per-run workspaces under Root.
type Runner struct {
	renderer *render.Renderer
	root     string
	logger   *zap.Logger
}

// NewRunner returns a Runner. An empty root uses the OS temp dir.
func NewRunner(renderer *render.Renderer, root string, logger *zap.Logger) *Runner {
	if root == "" {
		root = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{renderer: renderer, root: root, logger: logger}
}

// Run renders every section of params over bundle. It is all-or-nothing:
// on any error the workspace is removed and no result is returned.
func (r *Runner) Run(ctx context.Context, params section.Params, bundle dataset.Bundle) (*Result, error) {
	sections, err := section.Sweep(params)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	dir, err := os.MkdirTemp(r.root, "secciones-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	started := time.Now()
	res := &Result{
		ID:     uuid.NewString(),
		Dir:    dir,
		Params: params,
		Totals: Counts{
			Samples:    len(bundle.Samples),
			Secondary:  len(bundle.Secondary),
			DrillHoles: len(bundle.DrillHoles),
		},
		Sections:  make([]SectionSummary, 0, len(sections)),
		Images:    make([]Image, 0, len(sections)),
		CreatedAt: started.UTC(),
	}
	log := r.logger.With(zap.String("run_id", res.ID))
	log.Info("sweep started",
		zap.Int("sections", len(sections)),
		zap.Float64("azimuth", params.Azimuth),
		zap.Int("samples", res.Totals.Samples),
		zap.Int("secondary", res.Totals.Secondary),
		zap.Int("drillholes", res.Totals.DrillHoles),
	)

	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			res.Cleanup()
			return nil, err
		}

		frame := Slice(s, bundle)
		name := render.FileName(s.Index)
		path := filepath.Join(dir, name)
		if err := r.renderer.RenderFile(path, frame); err != nil {
			res.Cleanup()
			return nil, fmt.Errorf("render section %d: %w", s.Index, err)
		}

		counts := Counts{Samples: len(frame.Samples), Secondary: len(frame.Secondary), DrillHoles: len(frame.DrillHoles)}
		res.Sections = append(res.Sections, SectionSummary{Section: s, Counts: counts})
		res.Images = append(res.Images, Image{Index: s.Index, Name: name, Path: path})
		log.Debug("section rendered",
			zap.Int("index", s.Index),
			zap.Int("samples", counts.Samples),
			zap.Int("secondary", counts.Secondary),
			zap.Int("drillholes", counts.DrillHoles),
		)
	}

	res.Elapsed = time.Since(started)
	log.Info("sweep finished", zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// Slice builds the render frame of one section. Each table is clipped
// independently into fresh copies.
func Slice(s section.Section, bundle dataset.Bundle) render.Frame {
	return render.Frame{
		Section:    s,
		All:        bundle.Samples,
		Samples:    section.Slice(bundle.Samples, s),
		Secondary:  section.Slice(bundle.Secondary, s),
		DrillHoles: section.Slice(bundle.DrillHoles, s),
	}
}

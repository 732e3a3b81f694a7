package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/02loveslollipop/section-viewer/services/api/archive"
	"github.com/02loveslollipop/section-viewer/services/api/config"
	"github.com/02loveslollipop/section-viewer/services/api/dataset"
	"github.com/02loveslollipop/section-viewer/services/api/pipeline"
	"github.com/02loveslollipop/section-viewer/services/api/render"
	"github.com/02loveslollipop/section-viewer/services/api/section"
)

// renderOptions holds flags for the render command.
type renderOptions struct {
	Main       string
	Secondary  string
	DrillHoles string
	Params     section.Params
	Out        string
	KeepImages string
	DPI        int
	Workspace  string
	Timeout    time.Duration
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{Params: section.DefaultParams()}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render every section and write them to a zip archive",
		Example: `  # Default sweep from local files
  section-batch render --main bloques.csv --secondary sec.csv --drillholes dh.csv

  # Ten sections at azimuth 90, keeping the JPEGs
  section-batch render --main bloques.csv --secondary sec.csv --drillholes dh.csv \
    --azimuth 90 --num-sections 10 --keep-images ./secciones`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			logger, err := config.NewLogger(level)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return runRender(cmd.Context(), cmd.OutOrStdout(), opts, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Main, "main", "", "Main block model CSV (path or URL)")
	f.StringVar(&opts.Secondary, "secondary", "", "Secondary block model CSV (path or URL)")
	f.StringVar(&opts.DrillHoles, "drillholes", "", "Drill hole CSV, Latin-1 (path or URL)")
	f.Float64Var(&opts.Params.OriginX, "origin-x", opts.Params.OriginX, "Sweep origin X")
	f.Float64Var(&opts.Params.OriginY, "origin-y", opts.Params.OriginY, "Sweep origin Y")
	f.Float64Var(&opts.Params.Azimuth, "azimuth", opts.Params.Azimuth, "Sweep azimuth in degrees")
	f.Float64Var(&opts.Params.Spacing, "spacing", opts.Params.Spacing, "Spacing between sections")
	f.IntVar(&opts.Params.Count, "num-sections", opts.Params.Count, "Number of sections (1-100)")
	f.Float64Var(&opts.Params.ClipWidth, "clip-width", opts.Params.ClipWidth, "Half-width of the clip band")
	f.StringVar(&opts.Out, "out", archive.FileName, "Output zip path")
	f.StringVar(&opts.KeepImages, "keep-images", "", "Also copy the section JPEGs into this directory")
	f.IntVar(&opts.DPI, "dpi", render.DefaultOptions().DPI, "Image resolution")
	f.StringVar(&opts.Workspace, "workspace", "", "Scratch directory (default: OS temp dir)")
	f.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "Timeout for fetching URL inputs")

	for _, name := range []string{"main", "secondary", "drillholes"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runRender(ctx context.Context, out io.Writer, opts *renderOptions, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := opts.Params.Validate(); err != nil {
		return err
	}

	client := &http.Client{Timeout: opts.Timeout}
	locations := []string{opts.Main, opts.Secondary, opts.DrillHoles}
	readers := make([]io.ReadCloser, 0, len(locations))
	defer func() {
		for _, rc := range readers {
			rc.Close()
		}
	}()
	for _, loc := range locations {
		rc, err := dataset.Open(ctx, client, loc)
		if err != nil {
			return err
		}
		readers = append(readers, rc)
	}

	bundle, err := dataset.Load(dataset.Sources{
		Main:       dataset.Source{Name: filepath.Base(opts.Main), Reader: readers[0]},
		Secondary:  dataset.Source{Name: filepath.Base(opts.Secondary), Reader: readers[1]},
		DrillHoles: dataset.Source{Name: filepath.Base(opts.DrillHoles), Reader: readers[2]},
	})
	if err != nil {
		return err
	}

	ropts := render.DefaultOptions()
	if opts.DPI > 0 {
		ropts.DPI = opts.DPI
	}
	runner := pipeline.NewRunner(render.New(ropts), opts.Workspace, logger)

	res, err := runner.Run(ctx, opts.Params, bundle)
	if err != nil {
		return err
	}
	defer res.Cleanup()

	if err := archive.WriteFile(opts.Out, res.Paths()); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	if opts.KeepImages != "" {
		if err := copyImages(opts.KeepImages, res.Images); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "%d secciones escritas en %s\n", len(res.Images), opts.Out)
	return nil
}

func copyImages(dir string, images []pipeline.Image) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	for _, img := range images {
		if err := copyFile(filepath.Join(dir, img.Name), img.Path); err != nil {
			return fmt.Errorf("copy %s: %w", img.Name, err)
		}
	}
	return nil
}

func copyFile(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

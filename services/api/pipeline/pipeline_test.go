package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/02loveslollipop/section-viewer/services/api/dataset"
	"github.com/02loveslollipop/section-viewer/services/api/render"
	"github.com/02loveslollipop/section-viewer/services/api/section"
)

func testBundle(t *testing.T) dataset.Bundle {
	t.Helper()
	bundle, err := dataset.Load(dataset.Sources{
		Main: dataset.Source{Reader: strings.NewReader(
			"OREBODY,TOPE,XC,YC,ZC,NSR24RES\n" +
				"Norte,2,0,10,4000,95\n" +
				" dique ,2,0,12,4000,95\n" +
				"Norte,5,100,-20,3900,20\n" +
				"Sur,7,200,5,3950,61\n"),
		},
		Secondary: dataset.Source{Reader: strings.NewReader(
			"XC,YC,ZC,CGEOCD\n0,0,4000,1\n100,0,4000,3\n"),
		},
		DrillHoles: dataset.Source{Reader: strings.NewReader(
			"BHID,X,Y,Z,COD\nDH-1,0,0,10,1\nDH-1,0,1,5,1\n"),
		},
	})
	require.NoError(t, err)
	return bundle
}

func testRunner(t *testing.T) *Runner {
	opts := render.DefaultOptions()
	opts.DPI = 30
	return NewRunner(render.New(opts), t.TempDir(), zap.NewNop())
}

func TestRunRendersEverySection(t *testing.T) {
	params := section.Params{Azimuth: 0, Spacing: 100, Count: 3, ClipWidth: 30}
	res, err := testRunner(t).Run(context.Background(), params, testBundle(t))
	require.NoError(t, err)
	defer res.Cleanup()

	require.Len(t, res.Images, 3)
	for i, img := range res.Images {
		assert.Equal(t, i+1, img.Index)
		assert.Equal(t, render.FileName(i+1), img.Name)
		assert.Equal(t, res.Dir, filepath.Dir(img.Path))
		info, err := os.Stat(img.Path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, Counts{Samples: 3, Secondary: 1, DrillHoles: 2}, res.Totals)

	require.Len(t, res.Sections, 3)
	assert.Equal(t, Counts{Samples: 1, Secondary: 1, DrillHoles: 2}, res.Sections[0].Counts)
	assert.Equal(t, Counts{Samples: 1}, res.Sections[1].Counts)
	assert.Equal(t, Counts{Samples: 1}, res.Sections[2].Counts)

	assert.Equal(t, res.Paths()[1], res.Images[1].Path)
}

func TestResultImageBounds(t *testing.T) {
	res := &Result{Images: []Image{{Index: 1}, {Index: 2}}}
	img, err := res.Image(2)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Index)

	_, err = res.Image(0)
	assert.ErrorIs(t, err, ErrSectionOutOfRange)
	_, err = res.Image(3)
	assert.ErrorIs(t, err, ErrSectionOutOfRange)
}

func TestRunInvalidParams(t *testing.T) {
	_, err := testRunner(t).Run(context.Background(), section.Params{Count: 0}, dataset.Bundle{})
	assert.ErrorIs(t, err, section.ErrInvalidParams)
}

func TestRunCancelledRemovesWorkspace(t *testing.T) {
	root := t.TempDir()
	opts := render.DefaultOptions()
	opts.DPI = 30
	runner := NewRunner(render.New(opts), root, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runner.Run(ctx, section.DefaultParams(), dataset.Bundle{})
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSliceDoesNotAliasSource(t *testing.T) {
	bundle := testBundle(t)
	s := section.New(1, section.Point{}, 0, 30)
	frame := Slice(s, bundle)
	require.NotEmpty(t, frame.Samples)
	frame.Samples[0].Record.Orebody = "changed"
	assert.Equal(t, "Norte", bundle.Samples[0].Orebody)
}

func TestCleanup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	res := &Result{Dir: dir}
	require.NoError(t, res.Cleanup())
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, (&Result{}).Cleanup())
}

package section

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestCentersSpacing(t *testing.T) {
	for _, az := range []float64{0, 37.5, 90, 218, 359.9, -45, 725} {
		centers := Centers(Point{X: 394500, Y: 8553300}, az, 300, 6)
		require.Len(t, centers, 6)
		perp := New(1, centers[0], az, 5).Clip
		for i, c := range centers {
			dx, dy := c.X-centers[0].X, c.Y-centers[0].Y
			assert.InDelta(t, float64(i)*300, math.Hypot(dx, dy), 1e-6, "azimuth %v index %d", az, i)
			assert.InDelta(t, float64(i)*300, dx*perp.X+dy*perp.Y, 1e-6, "azimuth %v index %d", az, i)
		}
	}
}

func TestCentersNorthAzimuth(t *testing.T) {
	centers := Centers(Point{}, 0, 100, 3)
	require.Len(t, centers, 3)
	want := []Point{{0, 0}, {100, 0}, {200, 0}}
	for i := range want {
		assert.InDelta(t, want[i].X, centers[i].X, eps)
		assert.InDelta(t, want[i].Y, centers[i].Y, eps)
	}
}

func TestDirectionsAreOrthogonalUnitVectors(t *testing.T) {
	for az := -360.0; az <= 720; az += 17.25 {
		s := New(1, Point{}, az, 1)
		assert.InDelta(t, 1, math.Hypot(s.Clip.X, s.Clip.Y), eps)
		assert.InDelta(t, 1, math.Hypot(s.Proj.X, s.Proj.Y), eps)
		assert.InDelta(t, 0, s.Clip.X*s.Proj.X+s.Clip.Y*s.Proj.Y, 1e-9, "azimuth %v", az)
	}
}

func TestContainsIsSymmetric(t *testing.T) {
	s := New(1, Point{X: 1000, Y: 2000}, 218, 10)
	for _, d := range []float64{0, 2.5, 9.999, 10, 10.001, 50} {
		plus := Point{X: s.Center.X + d*s.Clip.X, Y: s.Center.Y + d*s.Clip.Y}
		minus := Point{X: s.Center.X - d*s.Clip.X, Y: s.Center.Y - d*s.Clip.Y}
		assert.Equal(t, s.Contains(plus), s.Contains(minus), "offset %v", d)
	}
	assert.True(t, s.Contains(s.Center))
	assert.False(t, s.Contains(Point{X: math.NaN(), Y: 0}))
}

func TestProjectIsTranslationInvariant(t *testing.T) {
	points := []Point{{10, 20}, {-300, 45.5}, {1e5, -7}}
	shift := Point{X: 394500, Y: -8553300}
	s := New(1, Point{X: 3, Y: 4}, 218, 5)
	moved := New(1, Point{X: 3 + shift.X, Y: 4 + shift.Y}, 218, 5)
	for _, p := range points {
		q := Point{X: p.X + shift.X, Y: p.Y + shift.Y}
		assert.InDelta(t, s.Project(p), moved.Project(q), 1e-6)
		assert.Equal(t, s.Contains(p), moved.Contains(q))
	}
}

func TestClipBandAtNorthAzimuth(t *testing.T) {
	sections, err := Sweep(Params{Azimuth: 0, Spacing: 100, Count: 3, ClipWidth: 10})
	require.NoError(t, err)
	require.Len(t, sections, 3)

	// The clip normal at azimuth 0 is +x, so (50,0) sits 50 units off
	// the first section line and outside a 10 unit band.
	p := Point{X: 50, Y: 0}
	for _, s := range sections {
		assert.False(t, s.Contains(p), "section %d", s.Index)
	}

	onLine := Point{X: 0, Y: 50}
	assert.True(t, sections[0].Contains(onLine))
	assert.InDelta(t, -50, sections[0].Project(onLine), eps)
	assert.False(t, sections[2].Contains(onLine))

	wide, err := Sweep(Params{Azimuth: 0, Spacing: 100, Count: 3, ClipWidth: 50})
	require.NoError(t, err)
	assert.True(t, wide[0].Contains(p))
	assert.True(t, wide[1].Contains(p))
	assert.False(t, wide[2].Contains(p))
}

func TestTraceLength(t *testing.T) {
	s := New(1, Point{X: 10, Y: 10}, 218, 5)
	from, to := s.Trace(1500)
	assert.InDelta(t, 3000, math.Hypot(to.X-from.X, to.Y-from.Y), 1e-6)
	assert.InDelta(t, 0, s.Offset(from), 1e-6)
	assert.InDelta(t, 0, s.Offset(to), 1e-6)
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Params) {}},
		{name: "zero clip width is accepted", mutate: func(p *Params) { p.ClipWidth = 0 }},
		{name: "negative origin", mutate: func(p *Params) { p.OriginX = -12 }},
		{name: "zero sections", mutate: func(p *Params) { p.Count = 0 }, wantErr: true},
		{name: "too many sections", mutate: func(p *Params) { p.Count = MaxSections + 1 }, wantErr: true},
		{name: "nan azimuth", mutate: func(p *Params) { p.Azimuth = math.NaN() }, wantErr: true},
		{name: "infinite spacing", mutate: func(p *Params) { p.Spacing = math.Inf(1) }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSweepIndexesFromOne(t *testing.T) {
	sections, err := Sweep(DefaultParams())
	require.NoError(t, err)
	require.Len(t, sections, 8)
	for i, s := range sections {
		assert.Equal(t, i+1, s.Index)
		assert.Equal(t, 218.0, s.Azimuth)
	}
}

type marker struct {
	name string
	at   Point
}

func (m marker) Location() Point { return m.at }

func TestSliceCopiesRecords(t *testing.T) {
	records := []marker{
		{name: "a", at: Point{X: 0, Y: 10}},
		{name: "b", at: Point{X: 30, Y: 0}},
		{name: "c", at: Point{X: -2, Y: -10}},
	}
	s := New(1, Point{}, 0, 5)

	got := Slice(records, s)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Record.name)
	assert.InDelta(t, -10, got[0].YProj, eps)
	assert.Equal(t, "c", got[1].Record.name)
	assert.InDelta(t, 10, got[1].YProj, eps)

	got[0].Record.name = "changed"
	assert.Equal(t, "a", records[0].name)

	assert.Empty(t, Slice(records, New(1, Point{}, 0, -1)))
	assert.Empty(t, Slice([]marker(nil), s))
}

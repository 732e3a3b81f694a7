package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/02loveslollipop/section-viewer/services/api/style"
)

// NoCode marks an integer code cell that is empty or not a whole number.
const NoCode = -1

// ErrMissingInput is returned by Load when a dataset was not supplied.
var ErrMissingInput = errors.New("missing input dataset")

// Source is one named input stream.
type Source struct {
	Name   string
	Reader io.Reader
}

// Sources are the three inputs of a run.
type Sources struct {
	Main       Source
	Secondary  Source
	DrillHoles Source
}

// Load parses and filters all three tables. Any failure aborts the load.
func Load(src Sources) (Bundle, error) {
	inputs := []struct {
		label string
		src   Source
	}{
		{"main", src.Main},
		{"secondary", src.Secondary},
		{"drillholes", src.DrillHoles},
	}
	for _, in := range inputs {
		if in.src.Reader == nil {
			return Bundle{}, fmt.Errorf("%w: %s", ErrMissingInput, in.label)
		}
	}

	samples, err := ReadSamples(src.Main.Reader, nameOr(src.Main.Name, "main"))
	if err != nil {
		return Bundle{}, err
	}
	secondary, err := ReadSecondary(src.Secondary.Reader, nameOr(src.Secondary.Name, "secondary"))
	if err != nil {
		return Bundle{}, err
	}
	holes, err := ReadDrillHoles(src.DrillHoles.Reader, nameOr(src.DrillHoles.Name, "drillholes"))
	if err != nil {
		return Bundle{}, err
	}

	return Bundle{
		Samples:    FilterSamples(samples),
		Secondary:  FilterSecondary(secondary),
		DrillHoles: holes,
	}, nil
}

// ReadSamples parses the primary dataset without filtering.
func ReadSamples(r io.Reader, name string) ([]Sample, error) {
	t, err := openTable(r, name, UTF8)
	if err != nil {
		return nil, err
	}
	names := []string{"XC", "YC", "ZC", "OREBODY", "TOPE", "NSR24RES"}
	cols, err := t.columns(names...)
	if err != nil {
		return nil, err
	}

	out := make([]Sample, 0)
	err = t.each(func(row []string, line int) error {
		var nums [6]float64
		for _, i := range []int{0, 1, 2, 4, 5} {
			v, err := t.float(row, cols[i], line, names[i])
			if err != nil {
				return err
			}
			nums[i] = v
		}
		out = append(out, Sample{
			X:       nums[0],
			Y:       nums[1],
			Z:       nums[2],
			Orebody: row[cols[3]],
			Tope:    codeOf(nums[4]),
			NSR:     nums[5],
		})
		return nil
	})
	return out, err
}

// ReadSecondary parses the secondary dataset without filtering.
func ReadSecondary(r io.Reader, name string) ([]SecondarySample, error) {
	t, err := openTable(r, name, UTF8)
	if err != nil {
		return nil, err
	}
	names := []string{"XC", "YC", "ZC", "CGEOCD"}
	cols, err := t.columns(names...)
	if err != nil {
		return nil, err
	}

	out := make([]SecondarySample, 0)
	err = t.each(func(row []string, line int) error {
		var nums [4]float64
		for i := range names {
			v, err := t.float(row, cols[i], line, names[i])
			if err != nil {
				return err
			}
			nums[i] = v
		}
		out = append(out, SecondarySample{X: nums[0], Y: nums[1], Z: nums[2], CGeoCD: codeOf(nums[3])})
		return nil
	})
	return out, err
}

// ReadDrillHoles parses the drill-hole dataset, decoded as ISO-8859-1.
func ReadDrillHoles(r io.Reader, name string) ([]DrillSample, error) {
	t, err := openTable(r, name, Latin1)
	if err != nil {
		return nil, err
	}
	names := []string{"X", "Y", "Z", "BHID", "COD"}
	cols, err := t.columns(names...)
	if err != nil {
		return nil, err
	}

	out := make([]DrillSample, 0)
	err = t.each(func(row []string, line int) error {
		var nums [5]float64
		for _, i := range []int{0, 1, 2, 4} {
			v, err := t.float(row, cols[i], line, names[i])
			if err != nil {
				return err
			}
			nums[i] = v
		}
		out = append(out, DrillSample{
			X:    nums[0],
			Y:    nums[1],
			Z:    nums[2],
			BHID: row[cols[3]],
			COD:  codeOf(nums[4]),
		})
		return nil
	})
	return out, err
}

// IsDike reports whether an OREBODY value names a dike, ignoring case and
// surrounding whitespace.
func IsDike(orebody string) bool {
	return strings.EqualFold(strings.TrimSpace(orebody), "dique")
}

// FilterSamples drops dikes and rows whose TOPE is not a drawn domain.
func FilterSamples(in []Sample) []Sample {
	out := make([]Sample, 0, len(in))
	for _, s := range in {
		if IsDike(s.Orebody) || !style.IsKnownTope(s.Tope) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// FilterSecondary drops rows with CGEOCD 3.
func FilterSecondary(in []SecondarySample) []SecondarySample {
	out := make([]SecondarySample, 0, len(in))
	for _, s := range in {
		if s.CGeoCD == 3 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func codeOf(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return NoCode
	}
	return int(v)
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

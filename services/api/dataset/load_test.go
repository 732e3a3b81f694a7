package dataset

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const mainCSV = `OREBODY,TOPE,XC,YC,ZC,NSR24RES
Esperanza,2,100,200,4000,95
 Dique ,3,110,210,4010,50
DIQUE,5,120,220,4020,10
Lucia,4,130,230,4030,70
Lucia,7.0,140,240,4040,
,5,150,250,4050,20
`

func TestReadSamplesAndFilter(t *testing.T) {
	raw, err := ReadSamples(strings.NewReader(mainCSV), "main.csv")
	require.NoError(t, err)
	require.Len(t, raw, 6)
	assert.Equal(t, 7, raw[4].Tope)
	assert.True(t, math.IsNaN(raw[4].NSR))

	got := FilterSamples(raw)
	require.Len(t, got, 3)
	assert.Equal(t, "Esperanza", got[0].Orebody)
	assert.Equal(t, Sample{X: 100, Y: 200, Z: 4000, Orebody: "Esperanza", Tope: 2, NSR: 95}, got[0])
	assert.Equal(t, "Lucia", got[1].Orebody)
	assert.Equal(t, "", got[2].Orebody)

	assert.Len(t, raw, 6, "filtering must not touch the source table")
}

func TestIsDike(t *testing.T) {
	for _, v := range []string{"dique", " Dique ", "DIQUE", "\tdiQue\n"} {
		assert.True(t, IsDike(v), v)
	}
	for _, v := range []string{"", "diques", "di que", "Esperanza"} {
		assert.False(t, IsDike(v), v)
	}
}

func TestColumnsAddressedByName(t *testing.T) {
	csv := "NSR24RES,ZC,YC,XC,TOPE,OREBODY,EXTRA\n12,3,2,1,5,Norte,x\n"
	got, err := ReadSamples(strings.NewReader(csv), "main.csv")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Sample{X: 1, Y: 2, Z: 3, Orebody: "Norte", Tope: 5, NSR: 12}, got[0])
}

func TestMissingColumnIsFatal(t *testing.T) {
	_, err := ReadSamples(strings.NewReader("OREBODY,TOPE,XC,YC,ZC\nA,2,1,2,3\n"), "main.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "NSR24RES")

	_, err = ReadDrillHoles(strings.NewReader("X,Y,Z,COD\n1,2,3,1\n"), "dh.csv")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestMalformedCellIsFatal(t *testing.T) {
	_, err := ReadSecondary(strings.NewReader("XC,YC,ZC,CGEOCD\n1,2,3,1\n1,abc,3,1\n"), "sec.csv")
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "sec.csv", pe.File)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, "YC", pe.Column)
}

func TestRaggedRowIsFatal(t *testing.T) {
	_, err := ReadSecondary(strings.NewReader("XC,YC,ZC,CGEOCD\n1,2,3\n"), "sec.csv")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
}

func TestEmptyFile(t *testing.T) {
	_, err := ReadSecondary(strings.NewReader(""), "sec.csv")
	assert.Error(t, err)
}

func TestFilterSecondary(t *testing.T) {
	raw, err := ReadSecondary(strings.NewReader("XC,YC,ZC,CGEOCD\n1,1,1,3\n2,2,2,1\n3,3,3,\n4,4,4,3.0\n"), "sec.csv")
	require.NoError(t, err)
	got := FilterSecondary(raw)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].CGeoCD)
	assert.Equal(t, NoCode, got[1].CGeoCD)
}

func TestReadDrillHolesLatin1(t *testing.T) {
	text := "BHID,X,Y,Z,COD\nSÑ-001,1,2,10,1\nSÑ-001,1,2,5,1\n,1,2,3,2\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(text)
	require.NoError(t, err)

	got, err := ReadDrillHoles(bytes.NewBufferString(encoded), "dh.csv")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "SÑ-001", got[0].BHID)
	assert.Equal(t, 10.0, got[0].Z)
	assert.Equal(t, 1, got[0].COD)
	assert.Equal(t, "", got[2].BHID)
}

func TestUTF8BOMIsStripped(t *testing.T) {
	csv := "\xEF\xBB\xBFXC,YC,ZC,CGEOCD\n1,2,3,4\n"
	got, err := ReadSecondary(strings.NewReader(csv), "sec.csv")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].CGeoCD)
}

func TestLoad(t *testing.T) {
	bundle, err := Load(Sources{
		Main:       Source{Name: "main.csv", Reader: strings.NewReader(mainCSV)},
		Secondary:  Source{Reader: strings.NewReader("XC,YC,ZC,CGEOCD\n1,1,1,3\n2,2,2,1\n")},
		DrillHoles: Source{Reader: strings.NewReader("BHID,X,Y,Z,COD\nA,1,2,3,1\n")},
	})
	require.NoError(t, err)
	assert.Len(t, bundle.Samples, 3)
	assert.Len(t, bundle.Secondary, 1)
	assert.Len(t, bundle.DrillHoles, 1)
}

func TestLoadMissingInput(t *testing.T) {
	_, err := Load(Sources{
		Main:      Source{Reader: strings.NewReader(mainCSV)},
		Secondary: Source{Reader: strings.NewReader("XC,YC,ZC,CGEOCD\n")},
	})
	require.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "drillholes")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, 2, codeOf(2))
	assert.Equal(t, 7, codeOf(7.0))
	assert.Equal(t, NoCode, codeOf(2.5))
	assert.Equal(t, NoCode, codeOf(math.NaN()))
	assert.Equal(t, NoCode, codeOf(math.Inf(1)))
}

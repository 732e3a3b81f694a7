package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

// ParseError locates a malformed cell.
type ParseError struct {
	File   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: line %d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: line %d: column %s: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Encoding selects how a table's bytes are decoded.
type Encoding int

const (
	UTF8 Encoding = iota
	Latin1
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// table is a header-addressed CSV.
type table struct {
	name   string
	reader *csv.Reader
	index  map[string]int
}

func openTable(r io.Reader, name string, enc Encoding) (*table, error) {
	br := bufio.NewReader(r)
	if enc == Latin1 {
		br = bufio.NewReader(charmap.ISO8859_1.NewDecoder().Reader(br))
	} else if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", name)
		}
		return nil, &ParseError{File: name, Line: 1, Err: err}
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.TrimSpace(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return &table{name: name, reader: cr, index: index}, nil
}

// columns resolves names to indexes, failing on the first missing one.
func (t *table) columns(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		idx, ok := t.index[n]
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", t.name, ErrMissingColumn, n)
		}
		out[i] = idx
	}
	return out, nil
}

// each calls fn for every data row with its 1-based file line.
func (t *table) each(fn func(row []string, line int) error) error {
	for {
		row, err := t.reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			line := 0
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				line, err = csvErr.Line, csvErr.Err
			}
			return &ParseError{File: t.name, Line: line, Err: err}
		}
		line, _ := t.reader.FieldPos(0)
		if err := fn(row, line); err != nil {
			return err
		}
	}
}

// float parses a numeric cell. Empty cells read as NaN.
func (t *table) float(row []string, idx, line int, column string) (float64, error) {
	raw := strings.TrimSpace(row[idx])
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{File: t.name, Line: line, Column: column, Err: err}
	}
	return v, nil
}

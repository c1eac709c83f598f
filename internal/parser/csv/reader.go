// Package csv reads header-addressed CSV input.
//
// Reader consumes the header row up front, normalizes its cells into lookup
// keys and then hands out data rows one at a time, so callers address fields
// by column name instead of position. Nothing beyond the current row is
// buffered.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// ErrMissingColumn is returned by NewReader when a required column is absent
// from the header.
var ErrMissingColumn = errors.New("missing required column")

// Options configures a Reader. The zero value reads input without required
// columns.
type Options struct {
	// Required lists header names that must be present. Names are compared
	// after normalization (see Key), so "Country Name" also matches
	// " country name " and a BOM-prefixed first cell.
	Required []string
}

// Reader yields data rows of a CSV stream whose first row is a header.
// It is not safe for concurrent use.
type Reader struct {
	cr      *csv.Reader
	headers []string
	index   map[string]int
}

// NewReader reads the header from r and checks that every required column is
// present. An input without any rows is not an error: the returned Reader
// has no headers and its first Read returns io.EOF.
//
// Data rows may be shorter or wider than the header; use Field to address
// them. Quoting stays strict, so a bare or unterminated quote is still a
// *csv.ParseError.
func NewReader(r io.Reader, opt Options) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	// Width is checked by the caller per field.
	cr.FieldsPerRecord = -1

	rd := &Reader{cr: cr, index: map[string]int{}}

	h, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return rd, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	rd.headers = normalizeHeaders(h)
	for i, k := range rd.headers {
		if _, dup := rd.index[k]; !dup {
			rd.index[k] = i
		}
	}

	var missing []string
	for _, name := range opt.Required {
		if _, ok := rd.index[Key(name)]; !ok {
			missing = append(missing, fmt.Sprintf("%q", name))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return rd, nil
}

// Index returns the column position of name, or -1 when the header does not
// contain it. When a header repeats, the first occurrence wins.
func (r *Reader) Index(name string) int {
	if i, ok := r.index[Key(name)]; ok {
		return i
	}
	return -1
}

// Read returns the next data row. The returned slice is reused by the next
// call. At end of input it returns io.EOF; syntax errors are returned as
// *csv.ParseError so callers can report the line and column.
func (r *Reader) Read() ([]string, error) {
	if r.headers == nil {
		return nil, io.EOF
	}
	return r.cr.Read()
}

// Field returns column i of rec, or "" when i is negative or the row is too
// short to have it.
func Field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// Line returns the input line on which the most recently read row starts.
// It must only be called after a successful Read.
func (r *Reader) Line() int {
	line, _ := r.cr.FieldPos(0)
	return line
}

// Key returns the lookup key for a header cell: NFC-normalized, trimmed,
// lowercased and with inner spaces replaced by underscores.
func Key(name string) string {
	c := strings.TrimSpace(norm.NFC.String(name))
	return strings.ReplaceAll(strings.ToLower(c), " ", "_")
}

// normalizeHeaders produces lookup keys for every header cell, stripping a
// UTF-8 BOM from the first one.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		res[i] = Key(col)
	}
	return res
}

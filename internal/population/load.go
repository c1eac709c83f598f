package population

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	pcsv "popreport/internal/parser/csv"
)

// Stats counts the rows seen by Load.
type Stats struct {
	Read    int
	Kept    int
	Skipped int
}

// Load reads a header-addressed CSV stream and returns the kept records in
// input order.
//
// A row is kept when its country is exactly Country and its year lies in
// [FirstYear, LastYear]. The year is parsed only for rows of the right
// country; the population only for kept rows, first as a float and then
// truncated toward zero. Rows that fail the predicate are skipped silently,
// whatever their width. A field missing from a short row reads as empty, so a
// short row for Country fails to parse instead.
//
// CSV syntax errors and missing columns are returned wrapped (see
// csv.ParseError and pcsv.ErrMissingColumn); unparseable numbers are returned
// as *MalformedRowError. On error the records read so far are discarded.
func Load(ctx context.Context, r io.Reader) ([]Record, Stats, error) {
	var st Stats

	rd, err := pcsv.NewReader(r, pcsv.Options{Required: Columns})
	if err != nil {
		return nil, st, err
	}
	ci, yi, pi := rd.Index(ColCountry), rd.Index(ColYear), rd.Index(ColPopulation)

	var out []Record
	for {
		select {
		case <-ctx.Done():
			return nil, st, ctx.Err()
		default:
		}

		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, st, fmt.Errorf("parse: %w", err)
		}
		st.Read++

		raw := RawRow{
			Line:       rd.Line(),
			Country:    pcsv.Field(rec, ci),
			Year:       pcsv.Field(rec, yi),
			Population: pcsv.Field(rec, pi),
		}
		kept, ok, err := parseRow(raw)
		if err != nil {
			return nil, st, err
		}
		if !ok {
			st.Skipped++
			continue
		}
		out = append(out, kept)
	}

	st.Kept = len(out)
	return out, st, nil
}

// parseRow applies the filter to raw and converts the kept row into a Record.
func parseRow(raw RawRow) (Record, bool, error) {
	if norm.NFC.String(raw.Country) != Country {
		return Record{}, false, nil
	}

	year, err := strconv.Atoi(strings.TrimSpace(raw.Year))
	if err != nil {
		return Record{}, false, &MalformedRowError{Line: raw.Line, Field: ColYear, Value: raw.Year, Err: err}
	}
	if year < FirstYear || year > LastYear {
		return Record{}, false, nil
	}

	pop, err := parsePopulation(raw.Population)
	if err != nil {
		return Record{}, false, &MalformedRowError{Line: raw.Line, Field: ColPopulation, Value: raw.Population, Err: err}
	}
	return Record{Year: year, Population: pop}, true, nil
}

var errNotFinite = errors.New("value is not a finite number")

// parsePopulation accepts integral and fractional input ("52000000",
// "5.2e7", "51999999.9") and truncates toward zero.
func parsePopulation(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, errNotFinite
	}
	return int64(f), nil
}

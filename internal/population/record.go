// Package population loads country/year population rows, keeps the ones for
// Ukraine between 1991 and 2019, and reduces them to a min/max Summary.
package population

import (
	"errors"
	"fmt"
)

// Filter constants. The tool analyses one country over one fixed period.
const (
	Country   = "Ukraine"
	FirstYear = 1991
	LastYear  = 2019
)

// Input column names.
const (
	ColCountry    = "Country Name"
	ColYear       = "Year"
	ColPopulation = "Population"
)

// Columns lists the input columns in the order the dataset writes them.
var Columns = []string{ColCountry, ColYear, ColPopulation}

// Record is one kept observation.
type Record struct {
	Year       int
	Population int64
}

// RawRow holds the three fields of one input line before parsing.
type RawRow struct {
	Line       int
	Country    string
	Year       string
	Population string
}

// ErrNoRecords is returned by Summarize when no row survived the filter.
var ErrNoRecords = errors.New("no records for " + Country + " between 1991 and 2019")

// MalformedRowError reports a field that could not be parsed as a number.
type MalformedRowError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("line %d: malformed %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

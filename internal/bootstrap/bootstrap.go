// Package bootstrap generates a synthetic population dataset when the
// expected input file is missing, so a first run on a clean machine still
// produces a report.
package bootstrap

import (
	"context"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"

	"popreport/internal/datasource"
	"popreport/internal/population"
)

// Synthetic series parameters.
const (
	StartPopulation int64 = 52_000_000
	YearlyDecrement int64 = 100_000
)

// Target is a file that may or may not exist yet.
type Target interface {
	datasource.Sink
	Exists() (bool, error)
}

// Rows returns the synthetic dataset, header first: one row per year from
// population.FirstYear to population.LastYear for population.Country. The
// population starts at StartPopulation and drops by YearlyDecrement every
// year.
func Rows() [][]string {
	rows := make([][]string, 0, population.LastYear-population.FirstYear+2)
	rows = append(rows, slices.Clone(population.Columns))

	pop := StartPopulation
	for year := population.FirstYear; year <= population.LastYear; year++ {
		rows = append(rows, []string{
			population.Country,
			strconv.Itoa(year),
			strconv.FormatInt(pop, 10),
		})
		pop -= YearlyDecrement
	}
	return rows
}

// Ensure writes the synthetic dataset to t unless it already exists. It
// reports whether a file was created. An existing file is never modified.
func Ensure(ctx context.Context, t Target) (created bool, err error) {
	ok, err := t.Exists()
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}

	w, err := t.Create(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
			created = false
		}
	}()

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows()); err != nil {
		return false, fmt.Errorf("write synthetic dataset: %w", err)
	}
	return true, nil
}

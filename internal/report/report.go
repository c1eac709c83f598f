// Package report renders the population analysis: the console listing, the
// closing summary lines and the summary CSV file.
//
// Every user-visible string, including the labels written into the summary
// file, comes from the message catalog in messages.go, so the same run can
// be rendered in English or Ukrainian.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/message"

	"popreport/internal/datasource"
	"popreport/internal/population"
)

// rule separates the table header from its rows.
const rule = "------------------------------"

// Reporter writes human-readable output in one language.
type Reporter struct {
	w io.Writer
	p *message.Printer
}

// New returns a Reporter writing to w using the catalog for lang ("en",
// "uk"). Unknown languages fall back to English.
func New(w io.Writer, lang string) *Reporter {
	return &Reporter{w: w, p: newPrinter(lang)}
}

func (r *Reporter) println(m Message, a ...any) {
	fmt.Fprintln(r.w, r.p.Sprintf(string(m), a...))
}

// Created announces a generated input file.
func (r *Reporter) Created(path string) {
	r.println(msgCreated, path)
}

// Table prints the kept records, one per line, with grouped population
// figures.
func (r *Reporter) Table(records []population.Record) {
	fmt.Fprintln(r.w)
	r.println(msgBanner)
	r.println(msgColumns)
	fmt.Fprintln(r.w, rule)
	for _, rec := range records {
		r.println(msgRow, strconv.Itoa(rec.Year), rec.Population)
	}
}

// Written reports where the summary went and repeats the extremes.
func (r *Reporter) Written(path string, s population.Summary) {
	fmt.Fprintln(r.w)
	r.println(msgWritten, path)
	fmt.Fprintln(r.w)
	r.println(msgMin, s.Min.Population, strconv.Itoa(s.Min.Year))
	r.println(msgMax, s.Max.Population, strconv.Itoa(s.Max.Year))
}

// Diagnose prints a one-line error message.
func (r *Reporter) Diagnose(m Message, detail string) {
	r.println(m, detail)
}

// SummaryRows returns the rows of the summary file: a header, the minimum
// and the maximum. Numbers are written without grouping.
func (r *Reporter) SummaryRows(s population.Summary) [][]string {
	row := func(label Message, rec population.Record) []string {
		return []string{
			r.p.Sprintf(string(label)),
			strconv.Itoa(rec.Year),
			strconv.FormatInt(rec.Population, 10),
		}
	}
	return [][]string{
		{r.p.Sprintf(string(msgColType)), r.p.Sprintf(string(msgColYear)), r.p.Sprintf(string(msgColPopulation))},
		row(msgMinLabel, s.Min),
		row(msgMaxLabel, s.Max),
	}
}

// WriteSummary replaces the contents of dst with the summary file.
func (r *Reporter) WriteSummary(ctx context.Context, dst datasource.Sink, s population.Summary) (err error) {
	w, err := dst.Create(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close summary: %w", cerr)
		}
	}()

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(r.SummaryRows(s)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// Package pipeline runs one popreport analysis: bootstrap the input when it
// is missing, load and filter it, print the table, and write the min/max
// summary.
//
// Every failure is returned as a *Error whose Kind belongs to a closed set,
// so the caller can print exactly one diagnostic line (see Diagnose) and
// carry on. Nothing is retried.
package pipeline

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"time"

	"github.com/zeebo/xxh3"

	"popreport/internal/bootstrap"
	"popreport/internal/config"
	"popreport/internal/datasource"
	"popreport/internal/datasource/file"
	"popreport/internal/metrics"
	"popreport/internal/population"
	"popreport/internal/report"
)

// Result describes a successful run.
type Result struct {
	// Created is set when the input was generated by bootstrap.
	Created bool

	Stats   population.Stats
	Summary population.Summary

	// Digest is the xxh3 hash of the input bytes, logged so runs over the
	// same dataset can be recognised.
	Digest uint64
}

// Run executes the pipeline described by cfg, writing console output
// through rep. Files are opened one at a time and closed before the next
// step starts.
func Run(ctx context.Context, cfg config.Run, rep *report.Reporter) (Result, error) {
	var res Result
	in := file.NewLocal(cfg.Input)

	start := time.Now()
	created, err := bootstrap.Ensure(ctx, in)
	metrics.RecordStep(cfg.Job, metrics.StepBootstrap, err, time.Since(start))
	if err != nil {
		kind := KindUnexpected
		if errors.Is(err, fs.ErrPermission) {
			kind = KindPermissionDenied
		}
		return res, &Error{Kind: kind, Step: metrics.StepBootstrap, Path: cfg.Input, Err: err}
	}
	if created {
		res.Created = true
		rep.Created(cfg.Input)
	}

	start = time.Now()
	records, st, digest, err := load(ctx, in, cfg.Input)
	metrics.RecordStep(cfg.Job, metrics.StepLoad, err, time.Since(start))
	metrics.RecordRows(cfg.Job, metrics.KindRead, st.Read)
	metrics.RecordRows(cfg.Job, metrics.KindKept, st.Kept)
	metrics.RecordRows(cfg.Job, metrics.KindSkipped, st.Skipped)
	res.Stats = st
	if err != nil {
		return res, err
	}
	res.Digest = digest
	if cfg.Verbose {
		log.Printf("load: path=%s read=%d kept=%d skipped=%d xxh3=%016x in %s",
			cfg.Input, st.Read, st.Kept, st.Skipped, digest, time.Since(start).Truncate(time.Microsecond))
	}

	start = time.Now()
	population.SortByYear(records)
	rep.Table(records)
	sum, err := population.Summarize(records)
	metrics.RecordStep(cfg.Job, metrics.StepReport, err, time.Since(start))
	if err != nil {
		return res, &Error{Kind: KindNoRecords, Step: metrics.StepReport, Err: err}
	}
	res.Summary = sum

	start = time.Now()
	err = rep.WriteSummary(ctx, file.NewLocal(cfg.Output), sum)
	metrics.RecordStep(cfg.Job, metrics.StepWrite, err, time.Since(start))
	if err != nil {
		return res, &Error{Kind: KindWriteFailed, Step: metrics.StepWrite, Path: cfg.Output, Err: err}
	}
	rep.Written(cfg.Output, sum)

	return res, nil
}

// load opens src and returns its kept records in input order along with the
// xxh3 digest of the bytes read. path names src in errors.
func load(ctx context.Context, src datasource.Source, path string) ([]population.Record, population.Stats, uint64, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, population.Stats{}, 0, &Error{Kind: classifyOpen(err), Step: metrics.StepLoad, Path: path, Err: err}
	}
	defer rc.Close()

	h := xxh3.New()
	records, st, err := population.Load(ctx, io.TeeReader(rc, h))
	if err != nil {
		return nil, st, 0, &Error{Kind: classifyLoad(err), Step: metrics.StepLoad, Path: path, Err: err}
	}
	return records, st, h.Sum64(), nil
}

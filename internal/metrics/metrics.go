// Package metrics records operational metrics for popreport runs.
//
// It exposes a narrow Backend interface (counters and timings) behind a
// global, pluggable backend that defaults to a no-op, so instrumentation is
// always safe to call even when no metrics system is configured. Concrete
// systems live in subpackages (prompush, datadog) and are selected by
// cmd/popreport.
package metrics

import "time"

// Metric names emitted by the helpers below.
const (
	StepTotal    = "popreport_step_total"
	StepDuration = "popreport_step_duration_seconds"
	RecordsTotal = "popreport_records_total"
)

// Pipeline steps.
const (
	StepBootstrap = "bootstrap"
	StepLoad      = "load"
	StepReport    = "report"
	StepWrite     = "write"
)

// Record kinds.
const (
	KindRead    = "read"
	KindKept    = "kept"
	KindSkipped = "skipped"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of step and records its duration, labelled
// with success or failure.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows increments the record counter for kind (see the Kind
// constants). Non-positive deltas are ignored.
func RecordRows(job, kind string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A popreport run is a short-lived batch job, so instead of exposing a scrape
// endpoint the collected metrics are pushed once, at exit, to a Pushgateway.
// Each run pushes under its own run_id grouping key so consecutive runs do
// not overwrite one another.
package prompush

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"popreport/internal/metrics"
)

// Config configures a Backend.
type Config struct {
	// GatewayURL is the Pushgateway base URL, e.g. http://pushgateway:9091.
	GatewayURL string

	// Job is the Pushgateway "job" grouping key. Defaults to "popreport".
	Job string

	// RunID, when set, is added as the "run_id" grouping key.
	RunID string

	// MaxElapsed bounds how long Flush keeps retrying a failed push.
	// Zero means 10s.
	MaxElapsed time.Duration
}

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	runID      string
	maxElapsed time.Duration
	initial    time.Duration
	reg        *prometheus.Registry

	stepCounter   *prometheus.CounterVec // popreport_step_total
	stepDuration  *prometheus.SummaryVec // popreport_step_duration_seconds
	recordCounter *prometheus.CounterVec // popreport_records_total
}

// NewBackend constructs a Pushgateway backend with its own registry.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if cfg.Job == "" {
		cfg.Job = "popreport"
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = 10 * time.Second
	}

	reg := prometheus.NewRegistry()

	// job travels as the Pushgateway grouping key, not as a label.
	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Number of popreport step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Duration of popreport steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Input rows per kind (read, kept, skipped).",
		},
		[]string{"kind"},
	)

	for _, c := range []prometheus.Collector{stepCounter, stepDuration, recordCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    cfg.GatewayURL,
		jobName:       cfg.Job,
		runID:         cfg.RunID,
		maxElapsed:    cfg.MaxElapsed,
		initial:       backoff.DefaultInitialInterval,
		reg:           reg,
		stepCounter:   stepCounter,
		stepDuration:  stepDuration,
		recordCounter: recordCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case metrics.RecordsTotal:
		if b.recordCounter == nil {
			return
		}
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDuration || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the registry to the Pushgateway, retrying with exponential
// backoff until the push succeeds or MaxElapsed has passed.
func (b *Backend) Flush() error {
	p := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg)
	if b.runID != "" {
		p = p.Grouping("run_id", b.runID)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = b.initial
	eb.MaxElapsedTime = b.maxElapsed

	if err := backoff.Retry(p.Push, eb); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}

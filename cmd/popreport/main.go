// Command popreport reports the minimum and maximum population of Ukraine
// between 1991 and 2019 from a country/year CSV dataset and writes the two
// extremes to a summary CSV.
//
// With no flags it reads population_data.csv, generating a synthetic dataset
// first when that file is missing, and writes ukraine_population_analysis.csv
// in the working directory.
//
// Example:
//
//	popreport -input=data/population.csv -lang=uk -v
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"popreport/internal/config"
	"popreport/internal/metrics"
	"popreport/internal/metrics/datadog"
	"popreport/internal/metrics/prompush"
	"popreport/internal/pipeline"
	"popreport/internal/report"
)

// options holds raw flag values before they are merged into a config.Run.
type options struct {
	configPath string
	input      string
	output     string
	lang       string
	backend    string
	gatewayURL string
	statsdAddr string
	validate   bool
	verbose    bool
}

func newFlagSet(o *options) *flag.FlagSet {
	d := config.Default()
	fs := flag.NewFlagSet("popreport", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "optional run config file (yaml, json)")
	fs.StringVar(&o.input, "input", d.Input, "population dataset; generated when missing")
	fs.StringVar(&o.output, "output", d.Output, "summary CSV to write (replaced if present)")
	fs.StringVar(&o.lang, "lang", d.Lang, "message language (en, uk)")
	fs.StringVar(&o.backend, "metrics-backend", d.Metrics.Backend, "metrics backend (none, pushgateway, datadog)")
	fs.StringVar(&o.gatewayURL, "pushgateway-url", d.Metrics.PushgatewayURL, "Pushgateway base URL")
	fs.StringVar(&o.statsdAddr, "statsd-addr", d.Metrics.StatsdAddr, "DogStatsD address")
	fs.BoolVar(&o.validate, "validate", false, "validate the configuration and exit")
	fs.BoolVar(&o.verbose, "v", false, "enable verbose logs")
	return fs
}

// resolve builds the run config: defaults, then the config file, then the
// flags that were set explicitly on the command line.
func resolve(o options, set map[string]bool) (config.Run, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath, cfg); err != nil {
			return cfg, err
		}
	}

	if set["input"] {
		cfg.Input = o.input
	}
	if set["output"] {
		cfg.Output = o.output
	}
	if set["lang"] {
		cfg.Lang = o.lang
	}
	if set["metrics-backend"] {
		cfg.Metrics.Backend = o.backend
	}
	if set["pushgateway-url"] {
		cfg.Metrics.PushgatewayURL = o.gatewayURL
	}
	if set["statsd-addr"] {
		cfg.Metrics.StatsdAddr = o.statsdAddr
	}
	if set["v"] {
		cfg.Verbose = o.verbose
	}
	return cfg, nil
}

// setupMetrics installs the configured backend and returns the function that
// flushes it at exit. A backend that fails to initialize leaves metrics
// disabled; it never stops the run.
func setupMetrics(cfg config.Run, runID string) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch cfg.Metrics.Backend {
	case config.BackendPushgateway:
		b, err = prompush.NewBackend(prompush.Config{
			GatewayURL: cfg.Metrics.PushgatewayURL,
			Job:        cfg.Job,
			RunID:      runID,
		})
	case config.BackendDatadog:
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       cfg.Metrics.StatsdAddr,
			Namespace:  cfg.Metrics.Namespace,
			GlobalTags: []string{"job:" + cfg.Job, "run_id:" + runID},
		})
	default:
		if cfg.Verbose {
			log.Printf("metrics: disabled (backend=%q)", cfg.Metrics.Backend)
		}
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", cfg.Metrics.Backend, err)
		return func() {}
	}

	metrics.SetBackend(b)
	if cfg.Verbose {
		log.Printf("metrics: backend=%s job=%s run_id=%s", cfg.Metrics.Backend, cfg.Job, runID)
	}
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func main() {
	log.SetOutput(os.Stderr)

	var o options
	fs := newFlagSet(&o)
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := resolve(o, set)
	if err != nil {
		fatalf("load config: %v", err)
	}

	issues := config.ValidateRun(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid")
	}
	if o.validate {
		log.Printf("configuration is valid")
		return
	}

	runID := uuid.NewString()
	flush := setupMetrics(cfg, runID)
	defer flush()

	if cfg.Verbose {
		log.Printf("run %s: input=%s output=%s lang=%s", runID, cfg.Input, cfg.Output, cfg.Lang)
	}

	start := time.Now()
	rep := report.New(os.Stdout, cfg.Lang)
	if _, err := pipeline.Run(context.Background(), cfg, rep); err != nil {
		// Failures are reported, not signalled through the exit status.
		pipeline.Diagnose(rep, err)
		if cfg.Verbose {
			log.Printf("run %s failed after %s: %v", runID, time.Since(start).Truncate(time.Millisecond), err)
		}
		return
	}

	if cfg.Verbose {
		log.Printf("run %s completed in %s", runID, time.Since(start).Truncate(time.Millisecond))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

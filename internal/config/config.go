// Package config defines the run configuration for popreport.
//
// A Run starts from Default, which reproduces the fixed file names the tool
// has always used, and may be overlaid from a YAML or JSON file (Load) and
// then by command-line flags. Field names mirror the keys accepted in the
// config file:
//
//	input: population_data.csv
//	output: ukraine_population_analysis.csv
//	lang: en
//	metrics:
//	  backend: pushgateway
//	  pushgateway_url: http://localhost:9091
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default file names and identifiers.
const (
	DefaultJob    = "popreport"
	DefaultInput  = "population_data.csv"
	DefaultOutput = "ukraine_population_analysis.csv"
	DefaultLang   = "en"
)

// Languages lists the message catalogs the report package ships.
var Languages = []string{"en", "uk"}

// Metrics backend names.
const (
	BackendNone        = "none"
	BackendPushgateway = "pushgateway"
	BackendDatadog     = "datadog"
)

// Run is the full configuration of a single invocation.
type Run struct {
	// Job labels metrics and identifies the run in logs.
	Job string `json:"job" mapstructure:"job"`

	// Input is the population dataset. It is generated when missing.
	Input string `json:"input" mapstructure:"input"`

	// Output receives the min/max summary. Any existing file is replaced.
	Output string `json:"output" mapstructure:"output"`

	// Lang selects the message catalog used for console text and the
	// summary file labels.
	Lang string `json:"lang" mapstructure:"lang"`

	Verbose bool    `json:"verbose" mapstructure:"verbose"`
	Metrics Metrics `json:"metrics" mapstructure:"metrics"`
}

// Metrics selects and configures the optional metrics backend.
type Metrics struct {
	// Backend is one of "none", "pushgateway" or "datadog".
	Backend string `json:"backend" mapstructure:"backend"`

	PushgatewayURL string `json:"pushgateway_url" mapstructure:"pushgateway_url"`

	// StatsdAddr is the DogStatsD address, e.g. "127.0.0.1:8125".
	StatsdAddr string `json:"statsd_addr" mapstructure:"statsd_addr"`

	// Namespace prefixes every Datadog metric name.
	Namespace string `json:"namespace" mapstructure:"namespace"`
}

// Default returns the configuration used when no file or flags are given.
func Default() Run {
	return Run{
		Job:    DefaultJob,
		Input:  DefaultInput,
		Output: DefaultOutput,
		Lang:   DefaultLang,
		Metrics: Metrics{
			Backend:        BackendNone,
			PushgatewayURL: "http://localhost:9091",
			StatsdAddr:     "127.0.0.1:8125",
			Namespace:      "popreport.",
		},
	}
}

// Load reads the config file at path and overlays the keys it sets on base.
// Keys absent from the file keep their value from base. The file format is
// inferred from the extension (yaml, yml, json, toml).
func Load(path string, base Run) (Run, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}

	out := base
	if err := v.Unmarshal(&out); err != nil {
		return base, fmt.Errorf("decode config %s: %w", path, err)
	}
	return out, nil
}

package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is printed but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Run.
//
// Path is the config key the finding applies to (e.g. "metrics.backend").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateRun performs static checks over r. It does not touch the
// filesystem; a missing input is a normal condition handled at run time.
func ValidateRun(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling",
		})
	}
	issues = append(issues, validateFiles(r)...)

	if !slices.Contains(Languages, r.Lang) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "lang",
			Message:  fmt.Sprintf("unsupported language %q (want one of %s)", r.Lang, strings.Join(Languages, ", ")),
		})
	}
	issues = append(issues, validateMetrics(r.Metrics)...)

	return issues
}

func validateFiles(r Run) []Issue {
	var issues []Issue

	in := strings.TrimSpace(r.Input)
	out := strings.TrimSpace(r.Output)
	if in == "" {
		issues = append(issues, Issue{SeverityError, "input", "input path must not be empty"})
	}
	if out == "" {
		issues = append(issues, Issue{SeverityError, "output", "output path must not be empty"})
	}
	if in != "" && out != "" && filepath.Clean(in) == filepath.Clean(out) {
		issues = append(issues, Issue{SeverityError, "output", "output must differ from input; the summary would overwrite the dataset"})
	}
	if out != "" && !strings.EqualFold(filepath.Ext(out), ".csv") {
		issues = append(issues, Issue{SeverityWarning, "output", "output is written as CSV but does not have a .csv extension"})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", BackendNone:
	case BackendPushgateway:
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{SeverityError, "metrics.pushgateway_url", "pushgateway backend requires a gateway URL"})
		}
	case BackendDatadog:
		if strings.TrimSpace(m.StatsdAddr) == "" {
			issues = append(issues, Issue{SeverityError, "metrics.statsd_addr", "datadog backend requires a DogStatsD address"})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q", m.Backend),
		})
	}
	return issues
}

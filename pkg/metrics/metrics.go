// Package metrics provides Prometheus metrics for plugcheck.
package metrics

import "time"

// ResultCompatible is the RecordValidation result label for a passing check.
const ResultCompatible = "compatible"

// Recorder defines the interface for recording plugcheck metrics.
type Recorder interface {
	// RecordValidation records one requirement check. result is ResultCompatible
	// or the violation kind that failed the check.
	RecordValidation(result string, duration time.Duration)

	// RecordInventoryLoad records a known-plugin snapshot load from a source.
	RecordInventoryLoad(source string, err error, duration time.Duration)

	// RecordSolverRun records a host version solver invocation.
	RecordSolverRun(solverType string, err error, duration time.Duration)
}

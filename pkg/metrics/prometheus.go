package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "plugcheck"

// PrometheusRecorder records metrics into a Prometheus registry.
type PrometheusRecorder struct {
	validations        *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec

	inventoryLoads    *prometheus.CounterVec
	inventoryErrors   *prometheus.CounterVec
	inventoryDuration *prometheus.HistogramVec

	solverRuns     *prometheus.CounterVec
	solverErrors   *prometheus.CounterVec
	solverDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder and registers its collectors with reg.
// It panics if registration fails, which only happens on duplicate registration.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of plugin requirement checks by result.",
		}, []string{"result"}),
		validationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Duration of plugin requirement checks.",
			Buckets:   []float64{.00001, .0001, .001, .01, .1},
		}, []string{"result"}),
		inventoryLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_loads_total",
			Help:      "Total number of known-plugin inventory loads.",
		}, []string{"source"}),
		inventoryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_errors_total",
			Help:      "Total number of failed known-plugin inventory loads.",
		}, []string{"source"}),
		inventoryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inventory_load_duration_seconds",
			Help:      "Duration of known-plugin inventory loads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		solverRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_runs_total",
			Help:      "Total number of host version solver runs.",
		}, []string{"type"}),
		solverErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_errors_total",
			Help:      "Total number of host version solver runs without a solution.",
		}, []string{"type"}),
		solverDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solver_duration_seconds",
			Help:      "Duration of host version solver runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}

	reg.MustRegister(
		r.validations,
		r.validationDuration,
		r.inventoryLoads,
		r.inventoryErrors,
		r.inventoryDuration,
		r.solverRuns,
		r.solverErrors,
		r.solverDuration,
	)

	return r
}

// RecordValidation implements Recorder.
func (r *PrometheusRecorder) RecordValidation(result string, duration time.Duration) {
	r.validations.WithLabelValues(result).Inc()
	r.validationDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordInventoryLoad implements Recorder.
func (r *PrometheusRecorder) RecordInventoryLoad(source string, err error, duration time.Duration) {
	r.inventoryLoads.WithLabelValues(source).Inc()
	r.inventoryDuration.WithLabelValues(source).Observe(duration.Seconds())

	if err != nil {
		r.inventoryErrors.WithLabelValues(source).Inc()
	}
}

// RecordSolverRun implements Recorder.
func (r *PrometheusRecorder) RecordSolverRun(solverType string, err error, duration time.Duration) {
	r.solverRuns.WithLabelValues(solverType).Inc()
	r.solverDuration.WithLabelValues(solverType).Observe(duration.Seconds())

	if err != nil {
		r.solverErrors.WithLabelValues(solverType).Inc()
	}
}

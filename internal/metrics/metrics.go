// Package metrics records run statistics in a Prometheus registry and writes
// them in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ntr/internal/domain"
	"ntr/internal/results"
)

const (
	MetricsNamespace = "ntr"
)

// Outcome labels of ntr_tests_total
const (
	OutcomePassed      = "passed"
	OutcomeFailed      = "failed"
	OutcomeRunnerError = "runner_error"
)

// Recorder is a runner observer that turns finished tests into metrics
type Recorder struct {
	registry *prometheus.Registry

	testsTotal   *prometheus.CounterVec
	testDuration prometheus.Histogram
	importError  prometheus.Gauge
	runDuration  prometheus.Gauge
	lastRun      prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		testsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "tests_total",
			Help:      "Count of finished tests by outcome",
		}, []string{
			"outcome",
		}),
		testDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "test_duration_seconds",
			Help:      "Duration of test bodies",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		importError: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "import_error",
			Help:      "1 when the last run failed to discover or load its test files",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Start time of the last run",
		}),
	}
}

// TestFinished implements runner.Observer
func (r *Recorder) TestFinished(result domain.TestResult) {
	r.testsTotal.WithLabelValues(Outcome(result)).Inc()
	r.testDuration.Observe(result.DurationSeconds())
}

// RunFinished implements runner.Observer
func (r *Recorder) RunFinished(snap *results.Aggregator) {
	if snap.ImportError() != nil {
		r.importError.Set(1)
	} else {
		r.importError.Set(0)
	}

	meta := snap.Meta()
	r.runDuration.Set(meta.Duration.Seconds())
	if !meta.StartedAt.IsZero() {
		r.lastRun.Set(float64(meta.StartedAt.Unix()))
	}
}

// WriteTextfile writes the current metrics to path
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

// Outcome returns the ntr_tests_total label for a record
func Outcome(result domain.TestResult) string {
	switch {
	case result.Passed():
		return OutcomePassed
	case result.Kind.IsRunnerKind():
		return OutcomeRunnerError
	default:
		return OutcomeFailed
	}
}

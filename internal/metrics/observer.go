package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mikey/inbox-radio/internal/core"
)

const namespace = "inbox_radio"

// Observer records digest runs as Prometheus metrics
type Observer struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	runs          *prometheus.CounterVec
	warnings      *prometheus.CounterVec
}

// NewObserver registers the digest metrics on reg
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Time spent in each pipeline stage.",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"stage"},
		),
		stageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_errors_total",
				Help:      "Pipeline stages that ended a run with an error.",
			},
			[]string{"stage"},
		),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Digest runs by outcome.",
			},
			[]string{"status"},
		),
		warnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "normalization_warnings_total",
				Help:      "Input items skipped because they could not be normalized.",
			},
			[]string{"stage"},
		),
	}
}

// ObserveStage records the duration of one stage
func (o *Observer) ObserveStage(stage core.Stage, elapsed time.Duration, err error) {
	o.stageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
	if err != nil {
		o.stageErrors.WithLabelValues(string(stage)).Inc()
	}
}

// ObserveRun counts a finished run
func (o *Observer) ObserveRun(status string) {
	o.runs.WithLabelValues(status).Inc()
}

// ObserveWarning counts a skipped input item
func (o *Observer) ObserveWarning(stage core.Stage) {
	o.warnings.WithLabelValues(string(stage)).Inc()
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

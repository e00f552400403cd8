// Package metrics provides Prometheus metrics collection for the
// survival pipeline: imputation counts, model fits, prediction volume
// and cross-validation accuracy. The pipeline is a one-shot batch run
// with no network surface, so nothing is served; the registry is
// gathered and logged at the end of a run and is inspectable in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Metrics holds all Prometheus metrics for the pipeline. It satisfies
// the narrow metrics interfaces consumed by the imputer and the
// evaluator.
type Metrics struct {
	registry prometheus.Gatherer

	Imputations  prometheus.Counter   // Imputer invocations
	ImputedAges  prometheus.Counter   // Total age values filled by the imputer
	ModelFits    prometheus.Counter   // Individual model Fit calls
	Predictions  prometheus.Counter   // Rows predicted by the ensemble
	FoldAccuracy prometheus.Histogram // Per-fold accuracy distribution
	CVAccuracy   prometheus.Gauge     // Aggregate cross-validation accuracy
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	m := NewWithRegistry(prometheus.DefaultRegisterer)
	m.registry = prometheus.DefaultGatherer
	return m
}

// NewWithRegistry creates metrics with a custom registry (useful for
// testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	m := &Metrics{
		Imputations: factory.NewCounter(prometheus.CounterOpts{
			Name: "imputations_total",
			Help: "Total number of age imputation passes",
		}),
		ImputedAges: factory.NewCounter(prometheus.CounterOpts{
			Name: "imputed_ages_total",
			Help: "Total number of age values filled by the imputer",
		}),
		ModelFits: factory.NewCounter(prometheus.CounterOpts{
			Name: "model_fits_total",
			Help: "Total number of model fit calls",
		}),
		Predictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of rows predicted by the ensemble",
		}),
		FoldAccuracy: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fold_accuracy",
			Help:    "Per-fold cross-validation accuracy",
			Buckets: []float64{0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1.0},
		}),
		CVAccuracy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cv_accuracy",
			Help: "Aggregate cross-validation accuracy of the last run",
		}),
	}
	if g, ok := registerer.(prometheus.Gatherer); ok {
		m.registry = g
	}
	return m
}

// ImputationsInc implements features.MetricsInterface.
func (m *Metrics) ImputationsInc() { m.Imputations.Inc() }

// ImputedAgesAdd implements features.MetricsInterface.
func (m *Metrics) ImputedAgesAdd(n float64) { m.ImputedAges.Add(n) }

// ModelFitsInc implements crossval.MetricsInterface.
func (m *Metrics) ModelFitsInc() { m.ModelFits.Inc() }

// PredictionsAdd implements crossval.MetricsInterface.
func (m *Metrics) PredictionsAdd(n float64) { m.Predictions.Add(n) }

// FoldAccuracyObserve implements crossval.MetricsInterface.
func (m *Metrics) FoldAccuracyObserve(v float64) { m.FoldAccuracy.Observe(v) }

// CVAccuracySet implements crossval.MetricsInterface.
func (m *Metrics) CVAccuracySet(v float64) { m.CVAccuracy.Set(v) }

// LogSummary gathers the registry and logs every metric family with its
// current value. Called once at the end of a batch run.
func (m *Metrics) LogSummary() {
	if m.registry == nil {
		return
	}
	families, err := m.registry.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to gather metrics")
		return
	}
	for _, mf := range families {
		for _, metric := range mf.Metric {
			ev := log.Info().Str("metric", mf.GetName())
			switch {
			case metric.Counter != nil:
				ev = ev.Float64("value", metric.Counter.GetValue())
			case metric.Gauge != nil:
				ev = ev.Float64("value", metric.Gauge.GetValue())
			case metric.Histogram != nil:
				ev = ev.
					Uint64("count", metric.Histogram.GetSampleCount()).
					Float64("sum", metric.Histogram.GetSampleSum())
			default:
				continue
			}
			ev.Msg("Run metric")
		}
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for eligibility evaluation.
type Metrics struct {
	Verdicts           *prometheus.CounterVec
	CatalogEvaluations prometheus.Counter
	CatalogDuration    prometheus.Histogram
	BenefitsSkipped    *prometheus.CounterVec
	OutOfScope         prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheErrors        *prometheus.CounterVec
}

// New registers and returns eligibility collectors on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "beneficios_eligibility_verdicts_total",
			Help: "Benefit verdicts produced, labeled by status",
		}, []string{"status"}),
		CatalogEvaluations: factory.NewCounter(prometheus.CounterOpts{
			Name: "beneficios_catalog_evaluations_total",
			Help: "Whole-catalog evaluations computed (cache hits excluded)",
		}),
		CatalogDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "beneficios_catalog_evaluation_duration_seconds",
			Help:    "Time spent evaluating the whole catalog for one profile",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		BenefitsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "beneficios_eligibility_benefits_skipped_total",
			Help: "Benefits left out of a summary because of configuration errors, labeled by benefit id",
		}, []string{"benefit"}),
		OutOfScope: factory.NewCounter(prometheus.CounterOpts{
			Name: "beneficios_eligibility_out_of_scope_total",
			Help: "Benefits filtered out before evaluation for location or inactivity",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "beneficios_summary_cache_hits_total",
			Help: "Summary cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "beneficios_summary_cache_misses_total",
			Help: "Summary cache misses",
		}),
		CacheErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "beneficios_summary_cache_errors_total",
			Help: "Summary cache failures, labeled by operation",
		}, []string{"op"}),
	}
}

// ObserveVerdict counts one benefit verdict.
func (m *Metrics) ObserveVerdict(status string) {
	m.Verdicts.WithLabelValues(status).Inc()
}

// ObserveCatalogEvaluation records a whole-catalog evaluation.
func (m *Metrics) ObserveCatalogEvaluation(durationSeconds float64, outOfScope int) {
	m.CatalogEvaluations.Inc()
	m.CatalogDuration.Observe(durationSeconds)
	m.OutOfScope.Add(float64(outOfScope))
}

func (m *Metrics) IncrementSkipped(benefitID string) {
	m.BenefitsSkipped.WithLabelValues(benefitID).Inc()
}

func (m *Metrics) IncrementCacheHit() {
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementCacheMiss() {
	m.CacheMisses.Inc()
}

func (m *Metrics) IncrementCacheError(op string) {
	m.CacheErrors.WithLabelValues(op).Inc()
}

// Package metrics exposes pricing engine instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records pricing engine activity. A nil *EngineMetrics is a no-op.
type EngineMetrics struct {
	recomputes    prometheus.Counter
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	invalid       *prometheus.CounterVec
	updates       *prometheus.CounterVec
	computeTime   prometheus.Histogram
	finalPrice    prometheus.Histogram
	sessionsTotal prometheus.Counter
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return nil
	}
	m := &EngineMetrics{
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricing_context_recomputes_total",
			Help: "Pricing contexts computed from contributions.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricing_context_cache_hits_total",
			Help: "Pricing contexts served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricing_context_cache_misses_total",
			Help: "Pricing context cache misses.",
		}),
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricing_invalid_contributions_total",
			Help: "Module contributions received with isValid=false.",
		}, []string{"module"}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricing_contribution_updates_total",
			Help: "Module contribution updates.",
		}, []string{"module"}),
		computeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pricing_context_compute_seconds",
			Help:    "Time spent computing a pricing context.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		finalPrice: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pricing_final_price_dollars",
			Help:    "Final prices of complete configurations.",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "configurator_sessions_total",
			Help: "Configuration sessions started.",
		}),
	}
	reg.MustRegister(m.recomputes, m.cacheHits, m.cacheMisses, m.invalid, m.updates, m.computeTime, m.finalPrice, m.sessionsTotal)
	return m
}

// ObserveCompute records a fresh computation.
func (m *EngineMetrics) ObserveCompute(d time.Duration) {
	if m == nil {
		return
	}
	m.recomputes.Inc()
	m.computeTime.Observe(d.Seconds())
}

// IncCacheHit counts a cache hit.
func (m *EngineMetrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// IncCacheMiss counts a cache miss.
func (m *EngineMetrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// IncUpdate counts a contribution update, and an invalid one separately.
func (m *EngineMetrics) IncUpdate(module string, valid bool) {
	if m == nil {
		return
	}
	label := normalizeLabel(module)
	m.updates.WithLabelValues(label).Inc()
	if !valid {
		m.invalid.WithLabelValues(label).Inc()
	}
}

// ObserveFinalPrice records the final price of a complete configuration.
func (m *EngineMetrics) ObserveFinalPrice(price float64) {
	if m == nil {
		return
	}
	m.finalPrice.Observe(price)
}

// IncSession counts a new configuration session.
func (m *EngineMetrics) IncSession() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
}

func normalizeLabel(module string) string {
	if module == "" {
		return "unknown"
	}
	return module
}

// Package observability provides a prometheus-backed implementation of
// the adapter's lifecycle hooks.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wirekit/wire/pkg/domain"
)

// Metrics counts binding activity per property. Wire it into a binder
// with wire.WithHooks(metrics.Hooks()).
type Metrics struct {
	invocations *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	staleDrops  *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
}

// NewMetrics creates and registers the binding metrics. Pass
// prometheus.DefaultRegisterer for the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wire_invocations_total",
			Help: "Model invocations issued, per bound property.",
		}, []string{"property"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wire_resolutions_total",
			Help: "Invocations that resolved successfully, per bound property.",
		}, []string{"property"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wire_rejections_total",
			Help: "Invocations that rejected, per bound property.",
		}, []string{"property"}),
		staleDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wire_stale_drops_total",
			Help: "Settlements discarded because a newer invocation superseded them.",
		}, []string{"property"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wire_cache_hits_total",
			Help: "Cached values rendered while a fresh invocation was in flight.",
		}, []string{"property"}),
	}

	reg.MustRegister(m.invocations, m.resolutions, m.rejections, m.staleDrops, m.cacheHits)
	return m
}

// Hooks returns lifecycle hooks that increment the counters.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnInvoke: func(property, key string) {
			m.invocations.WithLabelValues(property).Inc()
		},
		OnResolve: func(property, key string) {
			m.resolutions.WithLabelValues(property).Inc()
		},
		OnReject: func(property, key string, err error) {
			m.rejections.WithLabelValues(property).Inc()
		},
		OnStaleDrop: func(property, key string) {
			m.staleDrops.WithLabelValues(property).Inc()
		},
		OnCacheHit: func(property, key string) {
			m.cacheHits.WithLabelValues(property).Inc()
		},
	}
}

// Package metrics registers the Prometheus instruments shared across the
// daemon. All collectors are registered on the default registry and exposed
// by the gateway's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts handled operator turns by dispatch outcome
	// (executed, proposed, reply, failed).
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursepilot",
		Name:      "turns_total",
		Help:      "Operator turns handled, by dispatch outcome.",
	}, []string{"outcome"})

	// ActionsTotal counts executor invocations by action name and status.
	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursepilot",
		Name:      "actions_total",
		Help:      "Canvas actions invoked, by action and status.",
	}, []string{"action", "status"})

	// ProviderLatency observes completion round-trip time per provider.
	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coursepilot",
		Name:      "provider_latency_seconds",
		Help:      "Completion provider round-trip latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})

	// CacheHits and CacheMisses track the read-through cache in front of
	// Canvas list/get calls.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coursepilot",
		Name:      "cache_hits_total",
		Help:      "Canvas response cache hits.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coursepilot",
		Name:      "cache_misses_total",
		Help:      "Canvas response cache misses.",
	})
)

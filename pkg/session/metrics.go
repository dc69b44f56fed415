package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filterChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskfacets_filter_changes_total",
		Help: "The total number of applied filter changes",
	}, []string{"kind"})
	evaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_evaluations_total",
		Help: "The total number of filtered results computed",
	})
	evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slaskfacets_evaluation_seconds",
		Help:    "Time spent filtering and sorting a product snapshot",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_fetch_failures_total",
		Help: "The total number of failed product collection fetches",
	})
	liveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskfacets_sessions",
		Help: "The number of live filter sessions",
	})
)

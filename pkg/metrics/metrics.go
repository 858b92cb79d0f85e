package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Resource state metrics
	PoolsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quarry_pools_total",
			Help: "Number of cached pool states by status",
		},
		[]string{"status"},
	)

	ReplicasTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quarry_replicas_total",
			Help: "Number of cached replica states by status",
		},
		[]string{"status"},
	)

	NexusesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quarry_nexuses_total",
			Help: "Number of cached nexus states by status",
		},
		[]string{"status"},
	)

	PoolFreeBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quarry_pool_free_bytes",
			Help: "Free capacity per pool in bytes",
		},
		[]string{"pool", "node"},
	)

	// State refresh metrics
	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_state_refresh_total",
			Help: "Total number of state cache refreshes by resource class",
		},
		[]string{"class"},
	)

	RefreshErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_state_refresh_errors_total",
			Help: "Total number of failed node reports by node",
		},
		[]string{"node"},
	)

	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quarry_state_refresh_duration_seconds",
			Help:    "Time taken to refresh the state cache in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Scheduler metrics
	SelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_selections_total",
			Help: "Total number of scheduling selections by decision point",
		},
		[]string{"decision"},
	)

	SelectionsEmpty = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_selections_empty_total",
			Help: "Selections that yielded no eligible candidate by decision point",
		},
		[]string{"decision"},
	)

	SelectionCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quarry_selection_candidates",
			Help:    "Number of input candidates per selection",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"decision"},
	)
)

func init() {
	prometheus.MustRegister(PoolsTotal)
	prometheus.MustRegister(ReplicasTotal)
	prometheus.MustRegister(NexusesTotal)
	prometheus.MustRegister(PoolFreeBytes)
	prometheus.MustRegister(RefreshTotal)
	prometheus.MustRegister(RefreshErrors)
	prometheus.MustRegister(RefreshDuration)
	prometheus.MustRegister(SelectionsTotal)
	prometheus.MustRegister(SelectionsEmpty)
	prometheus.MustRegister(SelectionCandidates)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

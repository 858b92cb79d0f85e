/*
Package metrics exposes Prometheus metrics and health checks for the
control plane.

Metrics are global collectors registered at init and updated directly by
the components that own them:

  - Resource state: cached pool/replica/nexus counts by status and free
    bytes per pool, set by the state watcher after each refresh.
  - State refresh: refresh counters per resource class, per-node report
    failures, and refresh duration.
  - Scheduler: selection counters per decision point (pool, nexus_child,
    add_replica, remove_replica, remove_child), empty-result counters and
    a candidate-count histogram.

Serving:

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/healthz", metrics.HealthHandler())

Health is component based: long-running components report their state via
UpdateComponent and /healthz turns 503 as soon as any component is
unhealthy.
*/
package metrics

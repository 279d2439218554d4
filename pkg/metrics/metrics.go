// Package metrics provides the centralized Prometheus registry reference for
// the backfill tool. All metrics are defined in their respective packages
// (omeda, cache, backfill) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the backfill tool.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// API Client Metrics (pkg/omeda):
//   - omeda_requests_total{status} (Counter): Requests by HTTP status (or "network_error")
//   - omeda_request_duration_seconds (Histogram): Request round-trip duration
//   - omeda_errors_total{kind} (Counter): Errors by kind (remote, malformed, network)
//   - omeda_matches_fetched_total (Counter): Match records returned by the API
//
// Page Cache Metrics (pkg/cache):
//   - omeda_cache_hits_total (Counter): Page cache hits
//   - omeda_cache_misses_total (Counter): Page cache misses
//   - omeda_cache_errors_total{operation} (Counter): Cache operation errors
//
// Engine Metrics (pkg/backfill):
//   - backfill_windows_total{state} (Counter): Windows by terminal state
//     (exhausted, cancelled, failed)
//   - backfill_batches_saved_total (Counter): Batches persisted to the sink
//   - backfill_records_persisted_total (Counter): Match records persisted
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   rate(omeda_cache_hits_total[5m]) /
//   (rate(omeda_cache_hits_total[5m]) + rate(omeda_cache_misses_total[5m]))
//
//   # Request Error Rate
//   rate(omeda_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(omeda_request_duration_seconds_bucket[5m]))
//
//   # Failed Window Share
//   backfill_windows_total{state="failed"} / ignoring(state) sum(backfill_windows_total)

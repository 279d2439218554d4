package backfill

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion engine.
var (
	windowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backfill_windows_total",
		Help: "Windows finished by terminal state",
	}, []string{"state"})

	batchesSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backfill_batches_saved_total",
		Help: "Batches persisted to the sink",
	})

	recordsPersistedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backfill_records_persisted_total",
		Help: "Match records persisted to the sink",
	})
)

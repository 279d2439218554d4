// Package backfill implements the windowed, cursor-paginated ingestion
// engine: window pagination loops, the bounded worker pool that runs them,
// and cooperative cancellation.
package backfill

import (
	"context"
	"fmt"

	"github.com/omeda-tools/match-backfill/pkg/omeda"
)

// Fetcher fetches one API page of matches that ended after the given epoch.
// An empty result is the API's only exhaustion signal. Implemented by
// omeda.Client.
type Fetcher interface {
	MatchesSince(ctx context.Context, epoch uint64) ([]omeda.Match, error)
}

// BatchKey identifies one persisted batch by the end epochs of its first and
// last records. Keys from non-overlapping source windows are disjoint in the
// common case, so concurrent workers never write the same key.
type BatchKey struct {
	First uint64
	Last  uint64
}

// String returns the canonical "<first>-<last>" form used for file naming.
func (k BatchKey) String() string {
	return fmt.Sprintf("%d-%d", k.First, k.Last)
}

// Sink persists one batch of matches to durable storage. A Sink must
// tolerate concurrent Save calls for distinct keys and must propagate
// failures rather than dropping data silently. A Save error is fatal to the
// whole run.
type Sink interface {
	Save(ctx context.Context, key BatchKey, matches []omeda.Match) error
}

// Archiver consolidates all persisted batches into a single archive. Invoked
// once, after the worker pool has fully drained.
type Archiver interface {
	Archive(ctx context.Context) error
}

// WindowState is the terminal state of one window's pagination loop.
type WindowState string

const (
	// StateExhausted means the API returned an empty page: no more data.
	StateExhausted WindowState = "exhausted"

	// StateCancelled means the window stopped (or was never started)
	// because cancellation was observed.
	StateCancelled WindowState = "cancelled"

	// StateFailed means a fetch, parse, or persistence error abandoned the
	// window at whatever cursor it had reached.
	StateFailed WindowState = "failed"
)

// batchKey derives the persistence key for a non-empty batch from its first
// and last records' end times.
func batchKey(matches []omeda.Match) (BatchKey, error) {
	first, err := matches[0].EndEpoch()
	if err != nil {
		return BatchKey{}, err
	}
	last, err := matches[len(matches)-1].EndEpoch()
	if err != nil {
		return BatchKey{}, err
	}
	return BatchKey{First: first, Last: last}, nil
}

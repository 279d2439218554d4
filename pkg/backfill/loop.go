package backfill

import (
	"context"

	"github.com/omeda-tools/match-backfill/pkg/window"
)

// runWindow drives one window's pagination loop to a terminal state.
//
// The cursor starts at the window's start epoch and advances to the end
// epoch of the last record in each non-empty batch. Exhaustion is inferred
// purely from an empty page; the cursor is a function of observed data only,
// so a window's pagination may legitimately run past its nominal end epoch.
// Windows are a dispatch unit, not a data-range filter.
//
// Each iteration: cancellation check, fetch, then persist-and-advance. The
// next fetch never starts before the previous batch is persisted, so the
// persisted output is always a prefix of the window's record stream.
func (r *Runner) runWindow(ctx context.Context, w window.Window) WindowState {
	cursor := w.StartEpoch

	logger := r.logger.With().
		Uint64("window_start", w.StartEpoch).
		Uint64("window_end", w.EndEpoch).
		Logger()

	logger.Info().Msg("Processing work window")

	for {
		if r.flag.IsSet() || r.stopped.Load() {
			logger.Info().Uint64("cursor", cursor).Msg("Window cancelled")
			return StateCancelled
		}

		matches, err := r.fetcher.MatchesSince(ctx, cursor)
		if err != nil {
			logger.Warn().Err(err).Uint64("cursor", cursor).Msg("Fetch failed, abandoning window")
			return StateFailed
		}

		if len(matches) == 0 {
			logger.Debug().Uint64("cursor", cursor).Msg("No new matches, window exhausted")
			return StateExhausted
		}

		key, err := batchKey(matches)
		if err != nil {
			// Cannot advance the cursor without a parseable end time.
			logger.Warn().Err(err).Uint64("cursor", cursor).Msg("Unparseable record time, abandoning window")
			return StateFailed
		}

		if err := r.sink.Save(ctx, key, matches); err != nil {
			// Losing the sink makes further fetching pointless; stop the run.
			logger.Error().Err(err).Str("batch", key.String()).Msg("Persistence failed, aborting run")
			r.abort(err)
			return StateFailed
		}

		batchesSavedTotal.Inc()
		recordsPersistedTotal.Add(float64(len(matches)))

		logger.Info().
			Int("matches", len(matches)).
			Str("batch", key.String()).
			Msg("Saved batch")

		cursor = key.Last
	}
}

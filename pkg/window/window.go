// Package window generates the fixed-size time windows that partition a
// backfill run. Windows are the unit of dispatch for the worker pool.
package window

// Window is a fixed-duration epoch range, half-open in practice:
// EndEpoch = StartEpoch + window size. Immutable once generated.
type Window struct {
	StartEpoch uint64
	EndEpoch   uint64
}

// Generate produces the ordered, contiguous, non-overlapping set of windows
// covering [startEpoch, now). Emission stops before the first window whose
// end would reach or exceed now, so a later run with a larger now simply
// appends trailing windows to an otherwise identical sequence.
//
// Returns an empty slice when startEpoch+windowSize >= now.
func Generate(startEpoch, windowSize, now uint64) []Window {
	var windows []Window

	cursor := startEpoch
	for cursor+windowSize < now {
		windows = append(windows, Window{
			StartEpoch: cursor,
			EndEpoch:   cursor + windowSize,
		})
		cursor += windowSize
	}

	return windows
}

package backfill

import "sync/atomic"

// Flag is the cooperative cancellation signal for a single run. The signal
// watcher holds the sole writer; every worker reads it before taking a new
// window and at the top of each pagination iteration. It is write-once to
// true and never resets.
type Flag struct {
	set atomic.Bool
}

// NewFlag creates an unset cancellation flag.
func NewFlag() *Flag {
	return &Flag{}
}

// Set marks the run as cancelled. Safe to call more than once.
func (f *Flag) Set() {
	f.set.Store(true)
}

// IsSet reports whether cancellation has been requested.
func (f *Flag) IsSet() bool {
	return f.set.Load()
}

package backfill

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeda-tools/match-backfill/pkg/window"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the engine configuration.
type Config struct {
	// FirstEpoch is the start of the backfill range.
	FirstEpoch uint64

	// WindowSize is the window length in seconds.
	WindowSize uint64

	// PoolSize is the number of concurrent pagination workers.
	PoolSize int
}

// DefaultConfig returns the configuration matching the public Omeda history:
// hourly windows from the first recorded match, ten workers.
func DefaultConfig() Config {
	return Config{
		FirstEpoch: 1669882894, // December 1, 2022 08:21:34 GMT
		WindowSize: 3600,
		PoolSize:   10,
	}
}

// Summary describes how a run ended.
type Summary struct {
	Windows   int
	Exhausted int
	Cancelled int
	Failed    int
	Archived  bool
}

// Runner schedules one pagination loop per window across a bounded worker
// pool, then invokes the archive step once the pool drains.
type Runner struct {
	fetcher  Fetcher
	sink     Sink
	archiver Archiver
	flag     *Flag
	config   Config
	logger   zerolog.Logger
	now      func() time.Time

	// stopped is the internal fatal-abort signal; unlike the external
	// cancellation flag it is owned and written by the engine itself.
	stopped  atomic.Bool
	fatalMu  sync.Mutex
	fatalErr error
}

// NewRunner creates a runner. The archiver may be nil to skip the archive
// step; everything else is required.
func NewRunner(cfg Config, fetcher Fetcher, sink Sink, archiver Archiver, flag *Flag) (*Runner, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if flag == nil {
		return nil, fmt.Errorf("cancellation flag is required")
	}
	if cfg.WindowSize == 0 {
		return nil, fmt.Errorf("window size must be > 0")
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultConfig().PoolSize
	}

	return &Runner{
		fetcher:  fetcher,
		sink:     sink,
		archiver: archiver,
		flag:     flag,
		config:   cfg,
		logger:   log.With().Str("component", "backfill").Logger(),
		now:      time.Now,
	}, nil
}

// SetNow sets the clock used for window generation (for testing).
func (r *Runner) SetNow(now func() time.Time) {
	r.now = now
}

// Run executes the full backfill: generate windows, drain them through the
// worker pool, then archive. It blocks until every dispatched loop reaches a
// terminal state.
//
// Individual window failures do not abort the run; a persistence failure
// does, and the archive step is skipped in that case.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	nowEpoch := uint64(r.now().Unix())
	windows := window.Generate(r.config.FirstEpoch, r.config.WindowSize, nowEpoch)

	r.logger.Info().
		Int("windows", len(windows)).
		Uint64("first_epoch", r.config.FirstEpoch).
		Uint64("window_size", r.config.WindowSize).
		Msg("Generated work windows")

	summary := Summary{Windows: len(windows)}

	// Cancellation before dispatch: start no workers at all.
	if r.flag.IsSet() {
		summary.Cancelled = len(windows)
		r.logger.Info().Msg("Cancellation requested before dispatch, skipping all windows")
	} else if len(windows) > 0 {
		queue := make(chan window.Window, len(windows))
		for _, w := range windows {
			queue <- w
		}
		close(queue)

		results := make(chan WindowState, len(windows))

		var wg sync.WaitGroup
		for i := 0; i < r.config.PoolSize; i++ {
			wg.Add(1)
			go r.worker(ctx, queue, results, &wg)
		}

		wg.Wait()
		close(results)

		for state := range results {
			windowsTotal.WithLabelValues(string(state)).Inc()
			switch state {
			case StateExhausted:
				summary.Exhausted++
			case StateCancelled:
				summary.Cancelled++
			case StateFailed:
				summary.Failed++
			}
		}
	}

	r.logger.Info().
		Int("exhausted", summary.Exhausted).
		Int("cancelled", summary.Cancelled).
		Int("failed", summary.Failed).
		Msg("Worker pool drained")

	if err := r.fatal(); err != nil {
		return summary, fmt.Errorf("run aborted: %w", err)
	}

	if r.archiver != nil {
		if err := r.archiver.Archive(ctx); err != nil {
			return summary, fmt.Errorf("archive: %w", err)
		}
		summary.Archived = true
	}

	return summary, nil
}

// worker takes windows off the queue until it closes, re-checking
// cancellation before each dispatch so a cancelled run never starts a loop
// just to have it immediately stop.
func (r *Runner) worker(ctx context.Context, queue <-chan window.Window, results chan<- WindowState, wg *sync.WaitGroup) {
	defer wg.Done()

	for w := range queue {
		if r.flag.IsSet() || r.stopped.Load() {
			results <- StateCancelled
			continue
		}
		results <- r.runWindow(ctx, w)
	}
}

// abort records the first fatal error and stops all remaining scheduling.
func (r *Runner) abort(err error) {
	r.fatalMu.Lock()
	if r.fatalErr == nil {
		r.fatalErr = err
	}
	r.fatalMu.Unlock()
	r.stopped.Store(true)
}

func (r *Runner) fatal() error {
	r.fatalMu.Lock()
	defer r.fatalMu.Unlock()
	return r.fatalErr
}

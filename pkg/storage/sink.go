// Package storage provides the on-disk persistence sink and the zip archive
// step consumed by the backfill engine.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/omeda-tools/match-backfill/pkg/backfill"
	"github.com/omeda-tools/match-backfill/pkg/omeda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DirSink writes each batch as one JSON file named "<first>-<last>.json"
// under a single directory. Concurrent saves are safe as long as their keys
// differ, which the engine guarantees for non-overlapping windows.
type DirSink struct {
	dir    string
	logger zerolog.Logger
}

// NewDirSink creates a sink rooted at dir. The directory is not created
// until Reset is called.
func NewDirSink(dir string) *DirSink {
	return &DirSink{
		dir:    dir,
		logger: log.With().Str("component", "sink").Logger(),
	}
}

// Dir returns the sink's root directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// Reset removes any output from a previous run and recreates the directory.
// A run always rebuilds the full history, so stale files must not survive.
func (s *DirSink) Reset() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("remove %s: %w", s.dir, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	return nil
}

// Save writes one batch to "<dir>/<key>.json".
func (s *DirSink) Save(_ context.Context, key backfill.BatchKey, matches []omeda.Match) error {
	path := filepath.Join(s.dir, key.String()+".json")

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := json.NewEncoder(file).Encode(matches); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	s.logger.Info().
		Int("matches", len(matches)).
		Uint64("first", key.First).
		Uint64("last", key.Last).
		Str("file", path).
		Msg("Saved matches")

	return nil
}

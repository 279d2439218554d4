package storage

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ZipArchiver consolidates every file under a directory into one zip
// archive. It runs once, after the worker pool has drained.
type ZipArchiver struct {
	dir    string
	out    string
	logger zerolog.Logger
}

// NewZipArchiver creates an archiver that zips the contents of dir into the
// file at out.
func NewZipArchiver(dir, out string) *ZipArchiver {
	return &ZipArchiver{
		dir:    dir,
		out:    out,
		logger: log.With().Str("component", "archiver").Logger(),
	}
}

// Archive writes the zip file. Entry names are relative to the source
// directory.
func (a *ZipArchiver) Archive(_ context.Context) error {
	count, err := a.countFiles()
	if err != nil {
		return fmt.Errorf("count files: %w", err)
	}

	a.logger.Info().Int("files", count).Str("out", a.out).Msg("Zipping matches")

	outFile, err := os.Create(a.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", a.out, err)
	}
	defer outFile.Close()

	zw := zip.NewWriter(outFile)

	err = filepath.WalkDir(a.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name, err := filepath.Rel(a.dir, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		a.logger.Debug().Str("file", name).Msg("Adding file")

		w, err := zw.Create(filepath.ToSlash(name))
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", name, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("copy %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		zw.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}

	a.logger.Info().Str("out", a.out).Msg("Finished zipping matches")
	return nil
}

func (a *ZipArchiver) countFiles() (int, error) {
	count := 0
	err := filepath.WalkDir(a.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	return count, err
}

// Package fetch downloads ERA5 files to local disk, skipping files that are
// already present.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kacper-wojtaszczyk/era5-fetch/internal/model"
)

// Retriever submits a request to the data service and writes the result to
// dest.
type Retriever interface {
	Retrieve(ctx context.Context, req model.Request, dest string) error
}

// Verifier checks a freshly downloaded file.
type Verifier interface {
	Verify(path string) error
}

// Status reports what a fetch did.
type Status int

const (
	// StatusUnknown accompanies a non-nil error.
	StatusUnknown Status = iota
	StatusDownloaded
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusDownloaded:
		return "downloaded"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Fetcher downloads single-level and pressure-level ERA5 data.
//
// A destination that already exists is never overwritten or inspected:
// a truncated file left by some other tool is treated as complete.
type Fetcher struct {
	retriever Retriever
	verifier  Verifier
	config    model.RequestConfig
}

// New creates a Fetcher. verifier may be nil to accept downloads unchecked.
func New(retriever Retriever, config model.RequestConfig, verifier Verifier) *Fetcher {
	return &Fetcher{retriever: retriever, verifier: verifier, config: config}
}

// FetchSingleLevel downloads variable for year into dest unless dest exists.
func (f *Fetcher) FetchSingleLevel(ctx context.Context, year int, dest, variable string) (Status, error) {
	return f.fetch(ctx, f.config.SingleLevel(year, variable), dest)
}

// FetchPressureLevel downloads variable at level hPa for year into dest
// unless dest exists.
func (f *Fetcher) FetchPressureLevel(ctx context.Context, year int, dest, variable string, level int) (Status, error) {
	return f.fetch(ctx, f.config.PressureLevel(year, variable, level), dest)
}

func (f *Fetcher) fetch(ctx context.Context, req model.Request, dest string) (Status, error) {
	exists, err := fileExists(dest)
	if err != nil {
		return StatusUnknown, fmt.Errorf("check %s: %w", dest, err)
	}
	if exists {
		slog.InfoContext(ctx, "file already exists, skipping", "path", dest)
		return StatusSkipped, nil
	}

	if err := f.retriever.Retrieve(ctx, req, dest); err != nil {
		return StatusUnknown, fmt.Errorf("retrieve %s %s %d: %w", req.Dataset, req.Variable, req.Year, err)
	}

	if f.verifier != nil {
		if err := f.verifier.Verify(dest); err != nil {
			if rmErr := os.Remove(dest); rmErr != nil {
				slog.WarnContext(ctx, "failed to remove rejected download", "path", dest, "error", rmErr)
			}
			return StatusUnknown, fmt.Errorf("verify %s: %w", dest, err)
		}
	}

	slog.InfoContext(ctx, "file downloaded", "path", dest, "dataset", req.Dataset, "variable", req.Variable, "year", req.Year)
	return StatusDownloaded, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// SingleLevelPath returns <dir>/<variable>_<year>.nc.
func SingleLevelPath(dir, variable string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d.nc", variable, year))
}

// PressureLevelPath returns <dir>/<level>hPa_<variable>_<year>.nc.
func PressureLevelPath(dir, variable string, level, year int) string {
	return filepath.Join(dir, fmt.Sprintf("%dhPa_%s_%d.nc", level, variable, year))
}

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kacper-wojtaszczyk/era5-fetch/internal/fetch"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/model"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/storage"
)

var (
	// ErrStore marks failures to archive a downloaded file.
	ErrStore = errors.New("archive failed")

	// ErrInvalidPlan marks a Plan that cannot be run.
	ErrInvalidPlan = errors.New("invalid plan")
)

// Fetcher retrieves ERA5 files for a given year.
type Fetcher interface {
	FetchSingleLevel(ctx context.Context, year int, dest, variable string) (fetch.Status, error)
	FetchPressureLevel(ctx context.Context, year int, dest, variable string, level int) (fetch.Status, error)
}

// ObjectStorage writes data streams to object storage.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data io.Reader, size int64) error
}

// Plan describes which files to fetch.
type Plan struct {
	Dir                   string
	StartYear             int
	EndYear               int
	SingleLevelVariable   string
	PressureLevelVariable string
	PressureLevel         int // hPa
}

// DefaultPlan fetches 2m temperature and 500 hPa geopotential for 2020-2021.
func DefaultPlan(dir string) Plan {
	return Plan{
		Dir:                   dir,
		StartYear:             2020,
		EndYear:               2021,
		SingleLevelVariable:   "2m_temperature",
		PressureLevelVariable: "geopotential",
		PressureLevel:         500,
	}
}

// Validate reports a Plan with a missing directory, variable or level, or a
// reversed year range.
func (p Plan) Validate() error {
	if p.Dir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidPlan)
	}
	if p.StartYear > p.EndYear {
		return fmt.Errorf("%w: start year %d is after end year %d", ErrInvalidPlan, p.StartYear, p.EndYear)
	}
	if p.SingleLevelVariable == "" || p.PressureLevelVariable == "" {
		return fmt.Errorf("%w: variables are required", ErrInvalidPlan)
	}
	if p.PressureLevel <= 0 {
		return fmt.Errorf("%w: pressure level must be positive, got %d", ErrInvalidPlan, p.PressureLevel)
	}
	return nil
}

// Summary counts fetch outcomes of a run.
type Summary struct {
	Downloaded int
	Skipped    int
}

func (s *Summary) add(status fetch.Status) {
	switch status {
	case fetch.StatusDownloaded:
		s.Downloaded++
	case fetch.StatusSkipped:
		s.Skipped++
	}
}

// Service orchestrates a run: fetch every file of the plan, then archive
// new downloads when object storage is configured.
type Service struct {
	fetcher       Fetcher
	objectStorage ObjectStorage
}

// NewService creates a Service. objectStorage may be nil to disable archiving.
func NewService(fetcher Fetcher, objectStorage ObjectStorage) *Service {
	return &Service{fetcher: fetcher, objectStorage: objectStorage}
}

// Run fetches the plan year by year, single level first. The first error
// aborts the run.
func (s *Service) Run(ctx context.Context, plan Plan, runID model.RunID) (Summary, error) {
	var summary Summary
	if err := runID.Validate(); err != nil {
		return summary, err
	}
	if err := plan.Validate(); err != nil {
		return summary, err
	}

	slog.InfoContext(ctx, "run started", "run_id", runID, "dir", plan.Dir, "start_year", plan.StartYear, "end_year", plan.EndYear)

	for year := plan.StartYear; year <= plan.EndYear; year++ {
		dest := fetch.SingleLevelPath(plan.Dir, plan.SingleLevelVariable, year)
		status, err := s.fetcher.FetchSingleLevel(ctx, year, dest, plan.SingleLevelVariable)
		if err != nil {
			return summary, fmt.Errorf("fetch %s %d: %w", plan.SingleLevelVariable, year, err)
		}
		if err := s.archive(ctx, status, model.SingleLevels, year, dest, runID); err != nil {
			return summary, err
		}
		summary.add(status)

		dest = fetch.PressureLevelPath(plan.Dir, plan.PressureLevelVariable, plan.PressureLevel, year)
		status, err = s.fetcher.FetchPressureLevel(ctx, year, dest, plan.PressureLevelVariable, plan.PressureLevel)
		if err != nil {
			return summary, fmt.Errorf("fetch %dhPa %s %d: %w", plan.PressureLevel, plan.PressureLevelVariable, year, err)
		}
		if err := s.archive(ctx, status, model.PressureLevels, year, dest, runID); err != nil {
			return summary, err
		}
		summary.add(status)
	}

	slog.InfoContext(ctx, "run complete", "run_id", runID, "downloaded", summary.Downloaded, "skipped", summary.Skipped)
	return summary, nil
}

// archive uploads a fresh download. On failure the local file is removed so
// the next run fetches and archives it again instead of skipping it.
func (s *Service) archive(ctx context.Context, status fetch.Status, dataset model.Dataset, year int, path string, runID model.RunID) error {
	err := s.put(ctx, status, dataset, year, path, runID)
	if err == nil {
		return nil
	}
	if rmErr := os.Remove(path); rmErr != nil {
		slog.WarnContext(ctx, "failed to remove unarchived download", "path", path, "error", rmErr)
	}
	return err
}

func (s *Service) put(ctx context.Context, status fetch.Status, dataset model.Dataset, year int, path string, runID model.RunID) error {
	if s.objectStorage == nil || status != fetch.StatusDownloaded {
		return nil
	}

	key := storage.ObjectKey{
		Source:   "cds",
		Dataset:  dataset,
		Year:     year,
		RunID:    runID,
		Filename: filepath.Base(path),
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("store %s: %w: %w", key.Key(), ErrStore, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("store %s: %w: %w", key.Key(), ErrStore, err)
	}

	if err := s.objectStorage.Put(ctx, key.Key(), f, info.Size()); err != nil {
		return fmt.Errorf("store %s: %w: %w", key.Key(), ErrStore, err)
	}

	slog.InfoContext(ctx, "file archived", "key", key.Key(), "run_id", runID)
	return nil
}

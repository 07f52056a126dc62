package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/adapters/cds"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/config"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/exitcode"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/fetch"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/ingestion"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/model"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/storage"
	"github.com/kacper-wojtaszczyk/era5-fetch/internal/verify"
)

func main() {
	// Configure the global logger
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Ensure environment variables are loaded
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(exitCodeFor(err))
	}

	runID, err := model.NewRunID()
	if err != nil {
		slog.Error("failed to create run-id", "error", err)
		os.Exit(exitcode.ApplicationError)
	}

	dir := cfg.DataDir
	if dir == "" {
		dir, err = defaultDataDir()
		if err != nil {
			slog.Error("failed to resolve data directory", "error", err)
			os.Exit(exitcode.ConfigError)
		}
	}

	// Create a cancellable context (for graceful shutdown)
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var objectStorage ingestion.ObjectStorage
	if cfg.ArchiveEnabled() {
		minioClient, err := storage.NewMinIOClient(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			slog.Error("failed to initialize minio client", "error", err)
			os.Exit(exitcode.StorageError)
		}
		objectStorage = minioClient
	}

	plan := ingestion.DefaultPlan(dir)
	plan.StartYear = cfg.StartYear
	plan.EndYear = cfg.EndYear

	client := cds.NewClient(cfg.CDSURL, cfg.CDSAPIKey)

	summary, err := run(ctx, client, objectStorage, cfg.VerifyNetCDF, plan, runID)
	if err != nil {
		slog.Error("application error", "error", err, "run_id", runID)
		os.Exit(exitCodeFor(err))
	}

	slog.Info("shutdown complete", "run_id", runID, "downloaded", summary.Downloaded, "skipped", summary.Skipped)
}

func run(ctx context.Context, retriever fetch.Retriever, objectStorage ingestion.ObjectStorage, verifyNetCDF bool, plan ingestion.Plan, runID model.RunID) (ingestion.Summary, error) {
	var verifier fetch.Verifier
	if verifyNetCDF {
		verifier = verify.NetCDF{}
	}

	fetcher := fetch.New(retriever, model.DefaultRequestConfig(), verifier)
	return ingestion.NewService(fetcher, objectStorage).Run(ctx, plan, runID)
}

// defaultDataDir is data/raw next to the executable.
func defaultDataDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), "data", "raw"), nil
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return exitcode.ApplicationError
	case errors.Is(err, config.ErrMissingCredentials), errors.Is(err, cds.ErrAuth):
		return exitcode.AuthError
	case errors.Is(err, cds.ErrQuota):
		return exitcode.QuotaError
	case errors.Is(err, cds.ErrNetwork):
		return exitcode.NetworkError
	case errors.Is(err, cds.ErrServer):
		return exitcode.APIError
	case errors.Is(err, ingestion.ErrStore):
		return exitcode.StorageError
	case errors.Is(err, verify.ErrInvalidNetCDF):
		return exitcode.DataError
	}

	var missing *config.ErrMissingRequiredEnvVar
	var invalid *config.ErrInvalidEnvVar
	if errors.As(err, &missing) || errors.As(err, &invalid) || errors.Is(err, ingestion.ErrInvalidPlan) {
		return exitcode.ConfigError
	}
	return exitcode.ApplicationError
}

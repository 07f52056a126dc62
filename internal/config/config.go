package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const defaultCDSURL = "https://cds.climate.copernicus.eu/api"

// ErrMissingCredentials is returned when no CDS API key can be found in the
// environment or in the credentials file.
var ErrMissingCredentials = errors.New("cds credentials not found")

// Config holds application configuration.
type Config struct {
	CDSURL    string
	CDSAPIKey string

	// DataDir is where files are written. Empty means data/raw next to the
	// executable.
	DataDir      string
	StartYear    int
	EndYear      int
	VerifyNetCDF bool

	// MinIO archiving is enabled when MinIOEndpoint is set.
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

// ArchiveEnabled reports whether downloads are mirrored to MinIO.
func (c *Config) ArchiveEnabled() bool {
	return c.MinIOEndpoint != ""
}

type ErrMissingRequiredEnvVar struct {
	Name string
}

func (e *ErrMissingRequiredEnvVar) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

type ErrInvalidEnvVar struct {
	Name  string
	Value string
	Err   error
}

func (e *ErrInvalidEnvVar) Error() string {
	return fmt.Sprintf("environment variable %q has invalid value %q: %v", e.Name, e.Value, e.Err)
}

func (e *ErrInvalidEnvVar) Unwrap() error {
	return e.Err
}

// rcFile is the cdsapi credentials file, usually ~/.cdsapirc.
type rcFile struct {
	URL string `yaml:"url"`
	Key string `yaml:"key"`
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ErrInvalidEnvVar{Name: key, Value: v, Err: err}
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &ErrInvalidEnvVar{Name: key, Value: v, Err: err}
	}
	return b, nil
}

// Load reads configuration from environment variables.
// CDS credentials come from CDSAPI_URL and CDSAPI_KEY, falling back to the
// file named by CDSAPI_RC or ~/.cdsapirc.
func Load() (*Config, error) {
	config := Config{}

	var err error
	config.CDSURL, config.CDSAPIKey, err = loadCredentials()
	if err != nil {
		return nil, err
	}

	config.DataDir = os.Getenv("ERA5_DATA_DIR")
	if config.StartYear, err = getEnvInt("ERA5_START_YEAR", 2020); err != nil {
		return nil, err
	}
	if config.EndYear, err = getEnvInt("ERA5_END_YEAR", 2021); err != nil {
		return nil, err
	}
	if config.VerifyNetCDF, err = getEnvBool("ERA5_VERIFY_NETCDF", true); err != nil {
		return nil, err
	}

	config.MinIOEndpoint = os.Getenv("MINIO_ENDPOINT")
	if !config.ArchiveEnabled() {
		return &config, nil
	}
	config.MinIOAccessKey = os.Getenv("MINIO_ACCESS_KEY")
	if config.MinIOAccessKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ACCESS_KEY"}
	}
	config.MinIOSecretKey = os.Getenv("MINIO_SECRET_KEY")
	if config.MinIOSecretKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_SECRET_KEY"}
	}
	config.MinIOBucket = os.Getenv("MINIO_BUCKET")
	if config.MinIOBucket == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_BUCKET"}
	}
	if config.MinIOUseSSL, err = getEnvBool("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}

	return &config, nil
}

func loadCredentials() (string, string, error) {
	url := getEnv("CDSAPI_URL", defaultCDSURL)
	if key := os.Getenv("CDSAPI_KEY"); key != "" {
		return url, key, nil
	}

	path := os.Getenv("CDSAPI_RC")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrMissingCredentials, err)
		}
		path = filepath.Join(home, ".cdsapirc")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: set CDSAPI_KEY or create %s: %v", ErrMissingCredentials, path, err)
	}

	var rc rcFile
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return "", "", fmt.Errorf("%w: parse %s: %v", ErrMissingCredentials, path, err)
	}
	if rc.Key == "" {
		return "", "", fmt.Errorf("%w: %s has no key", ErrMissingCredentials, path)
	}
	if rc.URL != "" && os.Getenv("CDSAPI_URL") == "" {
		url = rc.URL
	}

	return url, rc.Key, nil
}

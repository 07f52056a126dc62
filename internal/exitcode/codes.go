package exitcode

// Exit codes for the era5fetch CLI.
// Schedulers can use these to decide retry strategy.
const (
	// Success - every file downloaded or already present
	Success = 0

	// ConfigError - missing or invalid configuration
	// Don't retry: fix the config first
	ConfigError = 1

	// NetworkError - transient network failure (API timeout, DNS, etc.)
	// Retry with backoff
	NetworkError = 2

	// APIError - remote API failed the job or rejected the request as malformed
	// Check logs, may need manual intervention
	APIError = 3

	// StorageError - failed to archive to MinIO/S3
	// Retry with backoff
	StorageError = 4

	// DataError - downloaded file is not valid NetCDF
	// Don't retry: investigate the data
	DataError = 5

	// AuthError - missing or invalid CDS credentials, or licence not accepted
	// Don't retry: fix ~/.cdsapirc or CDSAPI_KEY first
	AuthError = 6

	// QuotaError - rate limited or request exceeds CDS cost limits
	// Retry later or split the request
	QuotaError = 7

	// ApplicationError - any other failure (local filesystem, cancellation)
	ApplicationError = 8
)

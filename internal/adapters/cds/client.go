package cds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kacper-wojtaszczyk/era5-fetch/internal/model"
)

const apiPrefix = "/retrieve/v1"

// Client interacts with the CDS API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// Asset downloads are large and bounded only by the caller's context.
	downloadClient *http.Client

	// Polling configuration (internal)
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewClient creates a new CDS API client. baseURL is the API root as found
// in a .cdsapirc file, e.g. https://cds.climate.copernicus.eu/api.
func NewClient(baseURL, apiKey string) *Client {
	c := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		apiKey:         apiKey,
		pollInterval:   10 * time.Second,
		pollTimeout:    2 * time.Hour, // yearly ERA5 requests sit in the queue for a while
		downloadClient: &http.Client{},
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	return c
}

// Retrieve submits req, waits for the job to complete and writes the
// resulting file to dest. The file is written to a temporary name in the
// same directory and renamed into place, so dest only ever holds a complete
// download.
func (c *Client) Retrieve(ctx context.Context, req model.Request, dest string) error {
	if err := req.Dataset.Validate(); err != nil {
		return &ClientError{Kind: ErrServer, Message: "invalid request", Err: err}
	}

	slog.InfoContext(ctx, "submitting execute request", "dataset", req.Dataset, "variable", req.Variable, "year", req.Year)
	job, err := c.apiPostExecute(ctx, req)
	if err != nil {
		return c.toClientError(err, "failed to submit execute request")
	}

	slog.InfoContext(ctx, "execute request submitted", "job_id", job.JobID, "status", job.Status)

	completedJob, err := c.waitForCompletion(ctx, job.JobID)
	if err != nil {
		return c.toClientError(err, "failed to wait for job completion")
	}

	slog.InfoContext(ctx, "job completed", "job_id", completedJob.JobID, "status", completedJob.Status)

	resultResp, err := c.apiGetResults(ctx, completedJob.JobID)
	if err != nil {
		return c.toClientError(err, "failed to get job results")
	}

	slog.InfoContext(ctx, "downloading result asset", "asset_url", resultResp.Asset.Value.Href, "asset_type", resultResp.Asset.Value.Type, "path", dest)

	assetBody, err := c.apiDownloadAsset(ctx, resultResp.Asset.Value.Href)
	if err != nil {
		return c.toClientError(err, "failed to download asset")
	}
	defer assetBody.Close()

	n, err := writeFile(dest, assetBody)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		return c.toClientError(err, "failed to read asset")
	}

	slog.InfoContext(ctx, "asset written", "path", dest, "bytes", n)
	return nil
}

func writeFile(dest string, r io.Reader) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+"-*.part")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}

	return n, os.Rename(tmp.Name(), dest)
}

func (c *Client) doRequest(ctx context.Context, method string, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("PRIVATE-TOKEN", c.apiKey)

	// Set optional headers
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.httpClient.Do(req)
}

func (c *Client) apiPostExecute(ctx context.Context, req model.Request) (*jobResponse, error) {
	body, err := json.Marshal(payload(req))
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "execute payload", "dataset", req.Dataset, "payload", string(body))
	response, err := c.doRequest(
		ctx,
		http.MethodPost,
		fmt.Sprintf("/processes/%s/execution", req.Dataset),
		bytes.NewBuffer(body),
		map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusCreated {
		return nil, &apiError{StatusCode: response.StatusCode, Message: "execute request failed"}
	}

	var job jobResponse
	err = json.NewDecoder(response.Body).Decode(&job)
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (c *Client) apiGetJob(ctx context.Context, jobID string) (*jobResponse, error) {
	response, err := c.doRequest(
		ctx,
		http.MethodGet,
		fmt.Sprintf("/jobs/%s", jobID),
		nil,
		map[string]string{
			"Accept": "application/json",
		},
	)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &apiError{StatusCode: response.StatusCode, Message: "failed to get job status"}
	}

	var job jobResponse
	err = json.NewDecoder(response.Body).Decode(&job)
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (c *Client) apiGetResults(ctx context.Context, jobID string) (*resultResponse, error) {
	response, err := c.doRequest(
		ctx,
		http.MethodGet,
		fmt.Sprintf("/jobs/%s/results", jobID),
		nil,
		map[string]string{
			"Accept": "application/json",
		},
	)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &apiError{StatusCode: response.StatusCode, Message: "failed to get job results"}
	}

	var resultResp resultResponse
	err = json.NewDecoder(response.Body).Decode(&resultResp)
	if err != nil {
		return nil, err
	}
	if resultResp.Asset.Value.Href == "" {
		return nil, &apiError{StatusCode: response.StatusCode, Message: "job results contain no asset"}
	}

	return &resultResp, nil
}

func (c *Client) apiDownloadAsset(ctx context.Context, assetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close() // Cleanup on error
		return nil, &apiError{StatusCode: resp.StatusCode, Message: "failed to download asset"}
	}

	// Caller must close this body
	return resp.Body, nil
}

// waitForCompletion polls until the job completes or fails.
func (c *Client) waitForCompletion(ctx context.Context, jobID string) (*jobResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			// continue polling
		}

		job, err := c.apiGetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case jobStateSuccessful:
			return job, nil
		case jobStateFailed, jobStateRejected, jobStateDismissed:
			return nil, &jobError{JobID: jobID, Status: job.Status}
		default:
			slog.InfoContext(ctx, "job not completed yet", "job_id", job.JobID, "status", job.Status)
		}
	}
}

// toClientError wraps an internal error into a ClientError carrying its kind.
// Cancellation by the caller is not a client failure and is returned as a
// plain wrapped error.
func (c *Client) toClientError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("cds client: %s: %w", msg, err)
	}
	return &ClientError{
		Kind:    classify(err),
		Message: msg,
		Err:     err,
	}
}

func classify(err error) error {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrAuth
		case http.StatusTooManyRequests:
			return ErrQuota
		default:
			return ErrServer
		}
	}

	var jobErr *jobError
	if errors.As(err, &jobErr) {
		if jobErr.Status == jobStateRejected {
			return ErrQuota
		}
		return ErrServer
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ErrServer
	}

	return ErrNetwork
}

package cds

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the client. Match with errors.Is.
var (
	ErrNetwork = errors.New("network error")
	ErrAuth    = errors.New("authentication error")
	ErrServer  = errors.New("server error")
	ErrQuota   = errors.New("quota exceeded")
)

// apiError represents an error from the CDS API.
type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("cds: %s (status %d)", e.Message, e.StatusCode)
}

// jobError is a job that reached a terminal state other than successful.
type jobError struct {
	JobID  string
	Status jobState
}

func (e *jobError) Error() string {
	return fmt.Sprintf("job %s failed with status: %s", e.JobID, e.Status)
}

// ClientError is returned by every failing client call.
type ClientError struct {
	Kind    error
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("cds client: %s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *ClientError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

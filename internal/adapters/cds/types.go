package cds

import (
	"strconv"

	"github.com/kacper-wojtaszczyk/era5-fetch/internal/model"
)

// jobState represents the state of a CDS job (internal).
type jobState string

const (
	jobStateAccepted   jobState = "accepted"
	jobStateRunning    jobState = "running"
	jobStateSuccessful jobState = "successful"
	jobStateFailed     jobState = "failed"
	jobStateRejected   jobState = "rejected"
	jobStateDismissed  jobState = "dismissed"
)

// jobResponse is the raw API response for job submission and status.
type jobResponse struct {
	JobID  string   `json:"jobID"`
	Status jobState `json:"status"`
}

// resultResponse is the raw API response for job results.
type resultResponse struct {
	Asset asset `json:"asset"`
}

type asset struct {
	Value value `json:"value"`
}

type value struct {
	Type string `json:"type"`
	Href string `json:"href"`
}

type era5Inputs struct {
	ProductType    []string  `json:"product_type"`
	Variable       []string  `json:"variable"`
	Year           []string  `json:"year"`
	Month          []string  `json:"month"`
	Day            []string  `json:"day"`
	Time           []string  `json:"time"`
	PressureLevel  []string  `json:"pressure_level,omitempty"`
	Area           []float64 `json:"area"`
	Grid           []string  `json:"grid"`
	DataFormat     string    `json:"data_format"`
	DownloadFormat string    `json:"download_format"`
}

type executeRequest struct {
	Inputs era5Inputs `json:"inputs"`
}

// payload converts a request into the CDS execute body.
func payload(req model.Request) executeRequest {
	inputs := era5Inputs{
		ProductType:    []string{req.ProductType},
		Variable:       []string{req.Variable},
		Year:           []string{strconv.Itoa(req.Year)},
		Month:          req.Months,
		Day:            req.Days,
		Time:           req.Hours,
		Area:           req.Area.Values(),
		Grid:           req.Grid[:],
		DataFormat:     req.Format,
		DownloadFormat: "unarchived",
	}
	if req.PressureLevel != nil {
		inputs.PressureLevel = []string{strconv.Itoa(*req.PressureLevel)}
	}
	return executeRequest{Inputs: inputs}
}

package model

import "fmt"

// Area is a bounding box in degrees.
type Area struct {
	North float64
	West  float64
	South float64
	East  float64
}

// Values returns the box in CDS order: north, west, south, east.
func (a Area) Values() []float64 {
	return []float64{a.North, a.West, a.South, a.East}
}

// Grid is the output resolution in degrees (latitude, longitude).
type Grid [2]string

// RequestConfig holds the fixed parts of every ERA5 request.
type RequestConfig struct {
	ProductType string
	Format      string
	Area        Area
	Grid        Grid
	Months      []string
	Days        []string
	Hours       []string
}

// DefaultRequestConfig covers the contiguous United States at 1 degree,
// every hour of every day of the year.
func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		ProductType: "reanalysis",
		Format:      "netcdf",
		Area:        Area{North: 50, West: -130, South: 24, East: -65},
		Grid:        Grid{"1.0", "1.0"},
		Months:      sequence(1, 12, "%02d"),
		Days:        sequence(1, 31, "%02d"),
		Hours:       sequence(0, 23, "%02d:00"),
	}
}

// Request is a single ERA5 retrieval. It is built per call and discarded
// once the retrieval client has consumed it.
type Request struct {
	Dataset     Dataset
	ProductType string
	Format      string
	Variable    string
	Year        int
	Months      []string
	Days        []string
	Hours       []string
	Area        Area
	Grid        Grid

	// PressureLevel is in hPa and set only for PressureLevels requests.
	PressureLevel *int
}

// SingleLevel builds a request for a variable without vertical extent.
func (c RequestConfig) SingleLevel(year int, variable string) Request {
	return c.request(SingleLevels, year, variable)
}

// PressureLevel builds a request for a variable at the given level in hPa.
func (c RequestConfig) PressureLevel(year int, variable string, level int) Request {
	req := c.request(PressureLevels, year, variable)
	req.PressureLevel = &level
	return req
}

func (c RequestConfig) request(dataset Dataset, year int, variable string) Request {
	return Request{
		Dataset:     dataset,
		ProductType: c.ProductType,
		Format:      c.Format,
		Variable:    variable,
		Year:        year,
		Months:      append([]string(nil), c.Months...),
		Days:        append([]string(nil), c.Days...),
		Hours:       append([]string(nil), c.Hours...),
		Area:        c.Area,
		Grid:        c.Grid,
	}
}

func sequence(from, to int, format string) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf(format, i))
	}
	return out
}

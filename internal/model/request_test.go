package model

import (
	"slices"
	"testing"
)

func TestDefaultRequestConfig(t *testing.T) {
	cfg := DefaultRequestConfig()

	if got, want := cfg.Area.Values(), []float64{50, -130, 24, -65}; !slices.Equal(got, want) {
		t.Errorf("area = %v, want %v", got, want)
	}
	if cfg.Grid != (Grid{"1.0", "1.0"}) {
		t.Errorf("grid = %v", cfg.Grid)
	}

	tests := []struct {
		name        string
		got         []string
		count       int
		first, last string
	}{
		{"months", cfg.Months, 12, "01", "12"},
		{"days", cfg.Days, 31, "01", "31"},
		{"hours", cfg.Hours, 24, "00:00", "23:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != tt.count {
				t.Fatalf("expected %d values, got %d", tt.count, len(tt.got))
			}
			if tt.got[0] != tt.first || tt.got[len(tt.got)-1] != tt.last {
				t.Errorf("expected %s..%s, got %s..%s", tt.first, tt.last, tt.got[0], tt.got[len(tt.got)-1])
			}
		})
	}
}

func TestRequestConfig_SingleLevel(t *testing.T) {
	req := DefaultRequestConfig().SingleLevel(2020, "2m_temperature")

	if req.Dataset != SingleLevels {
		t.Errorf("dataset = %s, want %s", req.Dataset, SingleLevels)
	}
	if req.PressureLevel != nil {
		t.Errorf("expected no pressure level, got %d", *req.PressureLevel)
	}
	if req.Year != 2020 || req.Variable != "2m_temperature" {
		t.Errorf("unexpected year/variable: %d/%s", req.Year, req.Variable)
	}
	if req.ProductType != "reanalysis" || req.Format != "netcdf" {
		t.Errorf("unexpected product type/format: %s/%s", req.ProductType, req.Format)
	}
}

func TestRequestConfig_PressureLevel(t *testing.T) {
	req := DefaultRequestConfig().PressureLevel(2020, "geopotential", 500)

	if req.Dataset != PressureLevels {
		t.Errorf("dataset = %s, want %s", req.Dataset, PressureLevels)
	}
	if req.PressureLevel == nil || *req.PressureLevel != 500 {
		t.Fatalf("expected pressure level 500, got %v", req.PressureLevel)
	}
}

func TestRequestConfig_RequestsDoNotShareSlices(t *testing.T) {
	cfg := DefaultRequestConfig()
	req := cfg.SingleLevel(2020, "2m_temperature")
	req.Months[0] = "xx"

	if cfg.Months[0] != "01" {
		t.Fatalf("mutating a request changed the config: %v", cfg.Months[0])
	}
}

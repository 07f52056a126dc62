package storage

import (
	"fmt"

	"github.com/kacper-wojtaszczyk/era5-fetch/internal/model"
)

type ObjectKey struct {
	Source   string
	Dataset  model.Dataset
	Year     int
	RunID    model.RunID
	Filename string // base name of the local file
}

func (k ObjectKey) Key() string {
	return fmt.Sprintf("%s/%s/%d/%s/%s", k.Source, k.Dataset, k.Year, k.RunID, k.Filename)
}

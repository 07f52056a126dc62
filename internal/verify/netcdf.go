// Package verify checks freshly downloaded files before they are accepted.
package verify

import (
	"errors"
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
)

// ErrInvalidNetCDF is returned when a file cannot be read as NetCDF.
var ErrInvalidNetCDF = errors.New("invalid netcdf file")

// NetCDF opens the file at path and requires at least one variable.
type NetCDF struct{}

// Verify implements fetch.Verifier.
func (NetCDF) Verify(path string) error {
	nc, err := netcdf.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidNetCDF, path, err)
	}
	defer nc.Close()

	if len(nc.ListVariables()) == 0 {
		return fmt.Errorf("%w: %s: no variables", ErrInvalidNetCDF, path)
	}
	return nil
}

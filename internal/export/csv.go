// Package export writes payoff curves to files.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"optionlab/internal/models"
)

// WriteCSV writes curve as "price,payoff" rows with a header line.
func WriteCSV(w io.Writer, curve []models.PayoffPoint) error {
	if curve == nil {
		curve = []models.PayoffPoint{}
	}
	if err := gocsv.Marshal(&curve, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteCSVFile creates path and writes curve into it.
func WriteCSVFile(path string, curve []models.PayoffPoint) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	return WriteCSV(file, curve)
}

package restaurants

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"name", "cuisine", "visited", "rating", "notes", "gps", "originalUrl", "marker"}

func exportRow(r Restaurant) []string {
	return []string{r.Name, r.Cuisine, r.Visited, r.Rating, r.Notes, r.GPS, r.OriginalURL, MarkerClass(r)}
}

// WriteXLSX writes items to an Excel workbook at path.
func WriteXLSX(path string, items []Restaurant) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(exportHeader)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(exportRow(r))); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes items as CSV with the same columns LoadCSV reads.
func WriteCSV(w io.Writer, items []Restaurant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range items {
		if err := cw.Write(exportRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

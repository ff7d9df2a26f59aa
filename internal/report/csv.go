// Package report writes the filtered event table to disk.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sawpanic/newswatch/internal/calendar"
)

var header = []string{"source", "dt", "currency", "impact", "title"}

// WriteCSV writes events as CSV: one chronologically ordered row per
// event, dt in RFC 3339 with its UTC offset. The file is written to a
// temp sibling first and renamed into place so a crash never leaves a
// half-written table.
func WriteCSV(path string, events []calendar.NewsEvent) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, ev := range events {
		row := []string{
			ev.Source,
			ev.DT.Format(time.RFC3339),
			ev.Currency,
			string(ev.Impact),
			ev.Title,
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move CSV into place: %w", err)
	}
	return nil
}

package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Writer emits datasets as delimiter-separated files.
type Writer struct {
	comma rune
}

// NewWriter creates a Writer using the given field separator.
func NewWriter(comma rune) *Writer {
	return &Writer{comma: comma}
}

// WriteFile writes the header row followed by the data rows to path,
// creating parent directories as needed. The header is emitted exactly as it
// was read.
func (w *Writer) WriteFile(path string, ds *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dataset.WriteFile: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset.WriteFile: %w", err)
	}

	cw := csv.NewWriter(f)
	cw.Comma = w.comma
	if len(ds.Header) > 0 {
		if err := cw.Write(ds.Header); err != nil {
			_ = f.Close()
			return fmt.Errorf("dataset.WriteFile: %w", err)
		}
	}
	for _, row := range ds.Rows {
		if err := cw.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("dataset.WriteFile: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("dataset.WriteFile: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("dataset.WriteFile: %w", err)
	}
	return nil
}

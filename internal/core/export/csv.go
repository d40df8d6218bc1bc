package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

type csvWriter struct{}

func (csvWriter) Write(t *Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func (csvWriter) ContentType() string {
	return "text/csv; charset=utf-8"
}

func (csvWriter) Extension() string {
	return ".csv"
}

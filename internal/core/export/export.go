package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Format is an export file format
type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
	FormatCSV   Format = "csv"
)

// ParseFormat accepts "xlsx", "excel", "pdf" or "csv". Empty means xlsx.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "xlsx", "excel":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", raw)
}

// Table is a titled grid of cells
type Table struct {
	Title     string
	CreatedAt time.Time
	Headers   []string
	Rows      [][]string
}

// Writer renders a table in one format
type Writer interface {
	Write(t *Table, w io.Writer) error
	ContentType() string
	Extension() string
}

// For returns the writer of a format
func For(format Format) (Writer, error) {
	switch format {
	case FormatExcel:
		return excelWriter{}, nil
	case FormatPDF:
		return pdfWriter{}, nil
	case FormatCSV:
		return csvWriter{}, nil
	}
	return nil, fmt.Errorf("unsupported export format: %s", format)
}

// Filename builds "<base>-<yyyymmdd>.<ext>" with a filesystem-safe base
func Filename(base string, at time.Time, w Writer) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, strings.TrimSpace(base))
	if safe == "" {
		safe = "export"
	}
	return fmt.Sprintf("%s-%s%s", safe, at.Format("20060102"), w.Extension())
}

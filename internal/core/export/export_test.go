package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() *Table {
	return &Table{
		Title:     "Acme Repair quotes",
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Headers:   []string{"Date", "Name", "Travel fee"},
		Rows: [][]string{
			{"2026-03-13", "Ana", "$50"},
			{"2026-03-12", "Benoît, Jr.", "$100"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatExcel, "Excel": FormatExcel, "PDF": FormatPDF, " csv ": FormatCSV} {
		got, err := ParseFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("docx")
	assert.Error(t, err)
}

func TestCSV(t *testing.T) {
	w, err := For(FormatCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(sampleTable(), &buf))
	assert.Equal(t, "Date,Name,Travel fee\n2026-03-13,Ana,$50\n2026-03-12,\"Benoît, Jr.\",$100\n", buf.String())
}

func TestExcel(t *testing.T) {
	w, err := For(FormatExcel)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(sampleTable(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Repair quotes", title)

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Name", "Travel fee"}, rows[2])
	assert.Equal(t, []string{"2026-03-12", "Benoît, Jr.", "$100"}, rows[4])
}

func TestPDF(t *testing.T) {
	w, err := For(FormatPDF)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(sampleTable(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	assert.Error(t, w.Write(&Table{}, &bytes.Buffer{}))
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "acme-com-quotes-20260314.csv", Filename("acme.com quotes", at, csvWriter{}))
	assert.Equal(t, "export-20260314.pdf", Filename("", at, pdfWriter{}))
}

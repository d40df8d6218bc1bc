package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFont     = "Arial"
	pdfFontSize = 9
	pdfRowH     = 6
	pdfBottom   = 190 // landscape A4 height minus margin, in mm
)

type pdfWriter struct{}

func (pdfWriter) Write(t *Table, w io.Writer) error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("no headers provided")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252, covers French accents
	pdf.AddPage()

	if t.Title != "" {
		pdf.SetFont(pdfFont, "B", 16)
		pdf.Cell(0, 10, tr(t.Title))
		pdf.Ln(12)
	}
	if !t.CreatedAt.IsZero() {
		pdf.SetFont(pdfFont, "I", 8)
		pdf.Cell(0, 5, "Generated: "+t.CreatedAt.Format("2006-01-02 15:04"))
		pdf.Ln(8)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(t.Headers))

	header := func() {
		pdf.SetFont(pdfFont, "B", pdfFontSize)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range t.Headers {
			pdf.CellFormat(colWidth, pdfRowH+1, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(pdfFont, "", pdfFontSize)
	}
	header()

	for i, values := range t.Rows {
		if pdf.GetY() > pdfBottom {
			pdf.AddPage()
			header()
		}
		if i%2 == 1 {
			pdf.SetFillColor(242, 242, 242)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for _, v := range values {
			pdf.CellFormat(colWidth, pdfRowH, tr(truncate(pdf, v, colWidth-2)), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (pdfWriter) ContentType() string {
	return "application/pdf"
}

func (pdfWriter) Extension() string {
	return ".pdf"
}

// truncate shortens s with "..." so it fits in width mm
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

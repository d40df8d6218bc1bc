package services

import (
	"bytes"
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/google/uuid"
)

const exportQuoteLimit = 5000

var quoteExportHeaders = []string{"Date", "Name", "Email", "Phone", "Address", "Travel fee", "Payment link"}

// QuoteExport is a rendered quotes file
type QuoteExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportQuotes renders the company's latest quotes as xlsx, pdf or csv.
func (s *CompanyService) ExportQuotes(ctx context.Context, id uuid.UUID, rawFormat string) (*QuoteExport, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	writer, err := export.For(format)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	company, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quotes.ListByCompany(ctx, id, exportQuoteLimit)
	if err != nil {
		return nil, apperr.Internal("failed to list quotes", err)
	}

	now := time.Now()
	table := &export.Table{
		Title:     company.Name + " quotes",
		CreatedAt: now,
		Headers:   quoteExportHeaders,
		Rows:      make([][]string, 0, len(quotes)),
	}
	for _, q := range quotes {
		table.Rows = append(table.Rows, []string{
			q.CreatedAt.Format("2006-01-02 15:04"),
			q.Name,
			q.Email,
			q.Phone,
			q.Address,
			q.TravelFee,
			q.PaymentLink,
		})
	}

	var buf bytes.Buffer
	if err := writer.Write(table, &buf); err != nil {
		return nil, apperr.Internal("failed to render export", err)
	}

	return &QuoteExport{
		Filename:    export.Filename(company.Domain+"-quotes", now, writer),
		ContentType: writer.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportQuotes_CSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.seedCompany(t, "acme.com", acmePricing, "")

	require.NoError(t, env.quotes.Create(ctx, &models.Quote{
		CompanyID: company.ID,
		Name:      "Ana",
		Email:     "ana@test",
		Address:   "1 Rue Ste-Catherine, Montreal",
		TravelFee: "50",
	}))

	file, err := env.company.ExportQuotes(ctx, company.ID, "csv")
	require.NoError(t, err)

	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "acme-com-quotes-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Name,Email,Phone,Address,Travel fee,Payment link", lines[0])
	assert.Contains(t, lines[1], `Ana,ana@test,,"1 Rue Ste-Catherine, Montreal",50,`)
}

func TestExportQuotes_Errors(t *testing.T) {
	env := newTestEnv(t)
	company := env.seedCompany(t, "acme.com", acmePricing, "")

	_, err := env.company.ExportQuotes(context.Background(), company.ID, "docx")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.company.ExportQuotes(context.Background(), uuid.New(), "xlsx")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	company, err := env.company.Register(context.Background(), &RegisterCompanyRequest{
		Name:   " Acme ",
		Email:  "ops@acme.com",
		Domain: "https://www.Acme.com/",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", company.Name)
	assert.Equal(t, "acme.com", company.Domain)
	assert.Len(t, company.APIKey, 2*apiKeyBytes)
	assert.NotEqual(t, uuid.Nil, company.ID)
}

func TestRegister_DuplicateDomainAnyCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.company.Register(ctx, &RegisterCompanyRequest{Name: "Acme", Email: "a@acme.com", Domain: "acme.com"})
	require.NoError(t, err)

	for _, domain := range []string{"acme.com", "ACME.COM", "Acme.Com", "www.acme.com"} {
		_, err := env.company.Register(ctx, &RegisterCompanyRequest{Name: "Copy", Email: "b@acme.com", Domain: domain})
		assert.True(t, apperr.Is(err, apperr.KindConflict), domain)
	}
	assert.Equal(t, int64(1), env.countRows(t, &models.Company{}))
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.company.Register(context.Background(), &RegisterCompanyRequest{Name: "Acme", Domain: "acme.com"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreate_ValidatesPricingAndTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.company.Create(ctx, &CompanyInput{
		Name: ptr("Acme"), Email: ptr("a@acme.com"), Domain: ptr("acme.com"),
		PricingInfo: json.RawMessage(`{"serviceRules":{"laptop":"teleport"}}`),
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.company.Create(ctx, &CompanyInput{
		Name: ptr("Acme"), Email: ptr("a@acme.com"), Domain: ptr("acme.com"),
		QuoteTemplate: ptr("{{#if travelFee}}unclosed"),
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	company, err := env.company.Create(ctx, &CompanyInput{
		Name: ptr("Acme"), Email: ptr("a@acme.com"), Domain: ptr("acme.com"),
		PricingInfo:   json.RawMessage(acmePricing),
		QuoteTemplate: ptr("Fee {{travelFee}}"),
		AIPrompt:      ptr("You work for Acme."),
	})
	require.NoError(t, err)
	assert.Equal(t, "You work for Acme.", company.AIPrompt)
	assert.JSONEq(t, acmePricing, string(company.PricingInfo))
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.seedCompany(t, "acme.com", "{}", "")
	env.seedCompany(t, "taken.com", "{}", "")

	updated, err := env.company.Update(ctx, company.ID, &CompanyInput{
		Name:        ptr("Acme Renamed"),
		PricingInfo: json.RawMessage(`"{\"travelFee\":{\"montreal\":10}}"`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Renamed", updated.Name)
	assert.Equal(t, "acme.com", updated.Domain)
	assert.JSONEq(t, `{"travelFee":{"montreal":10}}`, string(updated.PricingInfo))

	_, err = env.company.Update(ctx, company.ID, &CompanyInput{Domain: ptr("TAKEN.com")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = env.company.Update(ctx, company.ID, &CompanyInput{QuoteTemplate: ptr("{{/if}}")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.company.Update(ctx, uuid.New(), &CompanyInput{Name: ptr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	updated, err = env.company.Update(ctx, company.ID, &CompanyInput{Domain: ptr("new-acme.com")})
	require.NoError(t, err)
	assert.Equal(t, "new-acme.com", updated.Domain)
}

func TestDetailAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.seedCompany(t, "acme.com", acmePricing, "")
	conversationID := diagnose(t, env, "acme.com")
	_, err := env.quote.RequestQuote(ctx, &QuoteRequest{Domain: "acme.com", ConversationID: conversationID})
	require.NoError(t, err)

	detail, err := env.company.Detail(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, company.ID, detail.Company.ID)
	assert.Len(t, detail.Quotes, 1)
	assert.Len(t, detail.Issues, 1)

	list, err := env.company.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].QuoteCount)

	require.NoError(t, env.company.Delete(ctx, company.ID))
	assert.Zero(t, env.countRows(t, &models.Company{}))
	assert.Zero(t, env.countRows(t, &models.Conversation{}))
	assert.Zero(t, env.countRows(t, &models.ConversationSummary{}))
	assert.Zero(t, env.countRows(t, &models.Quote{}))
	assert.Zero(t, env.countRows(t, &models.DeviceIssueStat{}))

	err = env.company.Delete(ctx, company.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = env.company.Detail(ctx, company.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

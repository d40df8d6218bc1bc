package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/pipeline"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/repositories"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	apiKeyBytes = 24

	detailQuoteLimit = 50
	detailIssueLimit = 100
)

type CompanyService struct {
	companies  repositories.CompanyRepo
	quotes     repositories.QuoteRepo
	issueStats repositories.IssueStatRepo
	resolver   *CompanyResolver
}

func NewCompanyService(
	companies repositories.CompanyRepo,
	quotes repositories.QuoteRepo,
	issueStats repositories.IssueStatRepo,
	resolver *CompanyResolver,
) *CompanyService {
	return &CompanyService{
		companies:  companies,
		quotes:     quotes,
		issueStats: issueStats,
		resolver:   resolver,
	}
}

type RegisterCompanyRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Domain string `json:"domain"`
}

// CompanyInput is the admin create/update payload. Nil fields are left
// unchanged on update.
type CompanyInput struct {
	Name          *string         `json:"name"`
	Email         *string         `json:"email"`
	Domain        *string         `json:"domain"`
	PricingInfo   json.RawMessage `json:"pricingInfo" swaggertype:"object"`
	AIPrompt      *string         `json:"aiPrompt"`
	QuoteTemplate *string         `json:"quoteTemplate"`
}

type CompanyDetail struct {
	Company models.Company           `json:"company"`
	Quotes  []models.Quote           `json:"quotes"`
	Issues  []models.DeviceIssueStat `json:"issues"`
}

// Register creates a company from the public signup form.
func (s *CompanyService) Register(ctx context.Context, req *RegisterCompanyRequest) (*models.Company, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	domain := tenant.NormalizeDomain(req.Domain)
	if name == "" || email == "" || domain == "" {
		return nil, apperr.Validation("name, email and domain are required")
	}

	return s.create(ctx, &models.Company{Name: name, Email: email, Domain: domain})
}

// Create creates a company from the admin panel, including its pricing,
// prompt and template.
func (s *CompanyService) Create(ctx context.Context, in *CompanyInput) (*models.Company, error) {
	company := &models.Company{
		Name:   strings.TrimSpace(deref(in.Name)),
		Email:  strings.TrimSpace(deref(in.Email)),
		Domain: tenant.NormalizeDomain(deref(in.Domain)),
	}
	if company.Name == "" || company.Email == "" || company.Domain == "" {
		return nil, apperr.Validation("name, email and domain are required")
	}

	pricing, err := validatePricing(in.PricingInfo)
	if err != nil {
		return nil, err
	}
	company.PricingInfo = pricing

	if in.QuoteTemplate != nil {
		if err := pipeline.ValidateTemplate(*in.QuoteTemplate); err != nil {
			return nil, apperr.Validation(err.Error())
		}
		company.QuoteTemplate = *in.QuoteTemplate
	}
	company.AIPrompt = strings.TrimSpace(deref(in.AIPrompt))

	return s.create(ctx, company)
}

func (s *CompanyService) create(ctx context.Context, company *models.Company) (*models.Company, error) {
	taken, err := s.companies.DomainTaken(ctx, company.Domain, uuid.Nil)
	if err != nil {
		return nil, apperr.Internal("failed to check domain", err)
	}
	if taken {
		return nil, apperr.Conflict("domain already registered")
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, apperr.Internal("failed to generate api key", err)
	}
	company.APIKey = apiKey

	if err := s.companies.Create(ctx, company); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("domain already registered")
		}
		return nil, apperr.Internal("failed to create company", err)
	}

	log.Info().Str("company", company.Name).Str("domain", company.Domain).Msg("🏢 Company registered")
	return company, nil
}

func (s *CompanyService) List(ctx context.Context) ([]models.CompanyWithQuoteCount, error) {
	companies, err := s.companies.ListWithQuoteCounts(ctx, 0)
	if err != nil {
		return nil, apperr.Internal("failed to list companies", err)
	}
	return companies, nil
}

// Detail returns a company with its latest quotes and issue stats.
func (s *CompanyService) Detail(ctx context.Context, id uuid.UUID) (*CompanyDetail, error) {
	company, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quotes.ListByCompany(ctx, id, detailQuoteLimit)
	if err != nil {
		return nil, apperr.Internal("failed to list quotes", err)
	}
	issues, err := s.issueStats.ListByCompany(ctx, id, detailIssueLimit)
	if err != nil {
		return nil, apperr.Internal("failed to list issue stats", err)
	}

	return &CompanyDetail{Company: *company, Quotes: quotes, Issues: issues}, nil
}

// Update applies a partial update. Pricing and template are validated
// before anything is written.
func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, in *CompanyInput) (*models.Company, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, apperr.Validation("email cannot be empty")
		}
		updates["email"] = email
	}
	if in.Domain != nil {
		domain := tenant.NormalizeDomain(*in.Domain)
		if domain == "" {
			return nil, apperr.Validation("domain cannot be empty")
		}
		if domain != current.Domain {
			taken, err := s.companies.DomainTaken(ctx, domain, id)
			if err != nil {
				return nil, apperr.Internal("failed to check domain", err)
			}
			if taken {
				return nil, apperr.Conflict("domain already registered")
			}
		}
		updates["domain"] = domain
	}
	if len(in.PricingInfo) > 0 {
		pricing, err := validatePricing(in.PricingInfo)
		if err != nil {
			return nil, err
		}
		updates["pricing_info"] = pricing
	}
	if in.AIPrompt != nil {
		updates["ai_prompt"] = strings.TrimSpace(*in.AIPrompt)
	}
	if in.QuoteTemplate != nil {
		if err := pipeline.ValidateTemplate(*in.QuoteTemplate); err != nil {
			return nil, apperr.Validation(err.Error())
		}
		updates["quote_template"] = *in.QuoteTemplate
	}

	if len(updates) == 0 {
		return current, nil
	}

	if err := s.companies.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("company not found")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("domain already registered")
		}
		return nil, apperr.Internal("failed to update company", err)
	}

	updated, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolver.Forget(ctx, current.Domain, updated.Domain)

	log.Info().Str("company", updated.Name).Msg("✏️ Company updated")
	return updated, nil
}

// Delete removes a company and everything recorded for it.
func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	company, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.companies.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("failed to delete company", err)
	}
	if !deleted {
		return apperr.NotFound("company not found")
	}
	s.resolver.Forget(ctx, company.Domain)

	log.Info().Str("company", company.Name).Msg("🗑️ Company deleted")
	return nil
}

func (s *CompanyService) get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("company not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load company", err)
	}
	return company, nil
}

// validatePricing checks a pricing document against the schema. A JSON
// string holding the document is unwrapped first. An absent document is
// stored as an empty object.
func validatePricing(raw json.RawMessage) (datatypes.JSON, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return datatypes.JSON("{}"), nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, apperr.Validation("pricingInfo must be an object")
		}
		raw = bytes.TrimSpace([]byte(text))
		if len(raw) == 0 {
			return datatypes.JSON("{}"), nil
		}
	}

	if err := pipeline.ValidatePricing(raw); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	return datatypes.JSON(raw), nil
}

func generateAPIKey() (string, error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

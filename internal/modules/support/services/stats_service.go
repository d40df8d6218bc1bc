package services

import (
	"context"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/repositories"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/rs/zerolog/log"
)

const recentCompanyLimit = 5

type StatsService struct {
	companies     repositories.CompanyRepo
	conversations repositories.ConversationRepo
	quotes        repositories.QuoteRepo
	aggregator    *analytics.Aggregator
}

func NewStatsService(
	companies repositories.CompanyRepo,
	conversations repositories.ConversationRepo,
	quotes repositories.QuoteRepo,
	aggregator *analytics.Aggregator,
) *StatsService {
	return &StatsService{
		companies:     companies,
		conversations: conversations,
		quotes:        quotes,
		aggregator:    aggregator,
	}
}

type Stats struct {
	TotalCompanies      int64                          `json:"totalCompanies"`
	TotalConversations  int64                          `json:"totalConversations"`
	TotalQuotes         int64                          `json:"totalQuotes"`
	RecentCompanies     []models.CompanyWithQuoteCount `json:"recentCompanies"`
	IssuesByServiceType []analytics.Bucket             `json:"issuesByServiceType"`
	IssuesByDeviceType  []analytics.Bucket             `json:"issuesByDeviceType"`
}

// Overview collects the admin dashboard figures. Totals are required; the
// issue breakdowns degrade to empty lists.
func (s *StatsService) Overview(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		err   error
	)

	if stats.TotalCompanies, err = s.companies.Count(ctx); err != nil {
		return nil, apperr.Internal("failed to count companies", err)
	}
	if stats.TotalConversations, err = s.conversations.Count(ctx); err != nil {
		return nil, apperr.Internal("failed to count conversations", err)
	}
	if stats.TotalQuotes, err = s.quotes.Count(ctx); err != nil {
		return nil, apperr.Internal("failed to count quotes", err)
	}
	if stats.RecentCompanies, err = s.companies.ListWithQuoteCounts(ctx, recentCompanyLimit); err != nil {
		return nil, apperr.Internal("failed to list recent companies", err)
	}

	stats.IssuesByServiceType = s.breakdown(ctx, "service_type")
	stats.IssuesByDeviceType = s.breakdown(ctx, "device_type")

	return &stats, nil
}

func (s *StatsService) breakdown(ctx context.Context, column string) []analytics.Bucket {
	buckets, err := s.aggregator.Breakdown(ctx, analytics.CountQuery{
		Table:   models.DeviceIssueStat{}.TableName(),
		GroupBy: column,
	})
	if err != nil {
		log.Error().Err(err).Str("column", column).Msg("❌ Failed to build issue breakdown")
		return []analytics.Bucket{}
	}
	return buckets
}

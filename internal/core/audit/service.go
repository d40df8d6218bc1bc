package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Service provides audit logging functionality
type Service struct {
	db *gorm.DB
}

// NewService creates a new audit service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record stores an entry. Failures are logged and never returned; an audit
// hiccup must not undo an admin action that already happened.
func (s *Service) Record(ctx context.Context, entry *AuditLog) {
	if s == nil {
		return
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Error().Err(err).Str("action", entry.Action).Str("entity", entry.Entity).Msg("❌ Failed to write audit log")
	}
}

// RecordChange stores an entry together with the submitted payload.
func (s *Service) RecordChange(ctx context.Context, actor, ip, action, entity, entityID string, payload interface{}) {
	changes, err := toJSON(payload)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to serialize audit payload")
	}

	s.Record(ctx, &AuditLog{
		Actor:     actor,
		IPAddress: ip,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Changes:   changes,
	})
}

// List returns audit logs newest first
func (s *Service) List(ctx context.Context, filter Filter) (*Page, error) {
	query := s.db.WithContext(ctx).Model(&AuditLog{})

	if filter.Actor != "" {
		query = query.Where("actor = ?", filter.Actor)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit logs: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	logs := []AuditLog{}
	if err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	totalPages := int(totalCount) / filter.PageSize
	if int(totalCount)%filter.PageSize > 0 {
		totalPages++
	}

	return &Page{
		Logs:       logs,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

func toJSON(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

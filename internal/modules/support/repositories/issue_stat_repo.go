package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IssueStatRepo interface {
	Create(ctx context.Context, stat *models.DeviceIssueStat) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]models.DeviceIssueStat, error)
}

type issueStatRepo struct {
	db *gorm.DB
}

func NewIssueStatRepo(db *gorm.DB) IssueStatRepo {
	return &issueStatRepo{db: db}
}

func (r *issueStatRepo) Create(ctx context.Context, stat *models.DeviceIssueStat) error {
	return r.db.WithContext(ctx).Create(stat).Error
}

func (r *issueStatRepo) ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]models.DeviceIssueStat, error) {
	var stats []models.DeviceIssueStat
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&stats).Error
	return stats, err
}

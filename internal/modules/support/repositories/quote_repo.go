package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteRepo interface {
	Create(ctx context.Context, quote *models.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	UpdateMessage(ctx context.Context, id uuid.UUID, message string) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]models.Quote, error)
	Count(ctx context.Context) (int64, error)
}

type quoteRepo struct {
	db *gorm.DB
}

func NewQuoteRepo(db *gorm.DB) QuoteRepo {
	return &quoteRepo{db: db}
}

func (r *quoteRepo) Create(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *quoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&quote).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepo) UpdateMessage(ctx context.Context, id uuid.UUID, message string) error {
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Update("quote_message", message).Error
}

func (r *quoteRepo) ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Quote{}).Count(&count).Error
	return count, err
}

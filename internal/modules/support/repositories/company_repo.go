package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepo interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByDomain(ctx context.Context, domain string) (*models.Company, error)
	DomainTaken(ctx context.Context, domain string, exclude uuid.UUID) (bool, error)
	ListWithQuoteCounts(ctx context.Context, limit int) ([]models.CompanyWithQuoteCount, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepo {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// GetByID returns gorm.ErrRecordNotFound when no company matches.
func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// GetByDomain expects an already normalized domain.
func (r *companyRepo) GetByDomain(ctx context.Context, domain string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) DomainTaken(ctx context.Context, domain string, exclude uuid.UUID) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&models.Company{}).Where("domain = ?", domain)
	if exclude != uuid.Nil {
		db = db.Where("id <> ?", exclude)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListWithQuoteCounts returns companies newest first. A limit of 0 returns all.
func (r *companyRepo) ListWithQuoteCounts(ctx context.Context, limit int) ([]models.CompanyWithQuoteCount, error) {
	var rows []models.CompanyWithQuoteCount
	db := r.db.WithContext(ctx).
		Table("companies").
		Select("companies.*, (SELECT COUNT(*) FROM quotes WHERE quotes.company_id = companies.id) AS quote_count").
		Order("companies.created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *companyRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the company together with its conversations, summaries,
// issue stats and quotes.
func (r *companyRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		convIDs := tx.Model(&models.Conversation{}).Select("id").Where("company_id = ?", id)
		if err := tx.Where("conversation_id IN (?)", convIDs).Delete(&models.ConversationSummary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.Quote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.DeviceIssueStat{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Company{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *companyRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).Count(&count).Error
	return count, err
}

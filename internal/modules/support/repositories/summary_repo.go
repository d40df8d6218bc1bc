package repositories

import (
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SummaryRepo interface {
	Upsert(ctx context.Context, conversationID uuid.UUID, summary []byte, revision int64) error
	GetByConversationID(ctx context.Context, conversationID uuid.UUID) (*models.ConversationSummary, error)
}

type summaryRepo struct {
	db *gorm.DB
}

func NewSummaryRepo(db *gorm.DB) SummaryRepo {
	return &summaryRepo{db: db}
}

// Upsert writes the summary for a conversation. When two writers race, the
// row with the higher revision wins; an older revision never overwrites a
// newer one.
func (r *summaryRepo) Upsert(ctx context.Context, conversationID uuid.UUID, summary []byte, revision int64) error {
	row := models.ConversationSummary{
		ConversationID: conversationID,
		Summary:        datatypes.JSON(summary),
		Revision:       revision,
		UpdatedAt:      time.Now(),
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"summary", "revision", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "conversation_summaries.revision <= excluded.revision"},
		}},
	}).Create(&row).Error
}

func (r *summaryRepo) GetByConversationID(ctx context.Context, conversationID uuid.UUID) (*models.ConversationSummary, error) {
	var summary models.ConversationSummary
	if err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID).First(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

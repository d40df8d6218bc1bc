package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationRepo interface {
	Create(ctx context.Context, conversation *models.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	UpdateMessages(ctx context.Context, id uuid.UUID, turns []models.Turn) error
	AdvanceStatus(ctx context.Context, id uuid.UUID, status models.ConversationStatus) error
	Count(ctx context.Context) (int64, error)
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Create(ctx context.Context, conversation *models.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *conversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepo) UpdateMessages(ctx context.Context, id uuid.UUID, turns []models.Turn) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("messages", datatypes.JSONSlice[models.Turn](turns)).Error
}

// AdvanceStatus only moves the status forward; a conversation already at or
// past the target status is left untouched.
func (r *conversationRepo) AdvanceStatus(ctx context.Context, id uuid.UUID, status models.ConversationStatus) error {
	earlier := earlierStatuses(status)
	if len(earlier) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ? AND status IN ?", id, earlier).
		Update("status", status).Error
}

func (r *conversationRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Conversation{}).Count(&count).Error
	return count, err
}

func earlierStatuses(target models.ConversationStatus) []models.ConversationStatus {
	var earlier []models.ConversationStatus
	for _, s := range []models.ConversationStatus{models.StatusOpen, models.StatusDiagnosed, models.StatusQuoted} {
		if s.Advance(target) == target && s != target {
			earlier = append(earlier, s)
		}
	}
	return earlier
}

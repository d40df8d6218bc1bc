package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConversationSummary holds the latest diagnostic of a conversation and,
// once quoted, the rendered quote message. One row per conversation.
type ConversationSummary struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ConversationID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"conversation_id"`
	Summary        datatypes.JSON `gorm:"type:jsonb;not null" json:"summary" swaggertype:"object"`
	Revision       int64          `gorm:"not null;default:0" json:"revision"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Relationship
	Conversation Conversation `gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (ConversationSummary) TableName() string {
	return "conversation_summaries"
}

// BeforeCreate sets UUID before creating
func (s *ConversationSummary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

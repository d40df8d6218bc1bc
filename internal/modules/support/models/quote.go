package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quote is created once per quote request. Only QuoteMessage changes afterwards.
type Quote struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	ConversationID *uuid.UUID `gorm:"type:uuid;index" json:"conversation_id,omitempty"`
	Name           string     `gorm:"type:text" json:"name"`
	Email          string     `gorm:"type:text" json:"email"`
	Phone          string     `gorm:"type:text" json:"phone"`
	Address        string     `gorm:"type:text" json:"address"`
	PaymentLink    string     `gorm:"type:text" json:"payment_link"`
	TravelFee      string     `gorm:"type:text" json:"travel_fee"`
	QuoteMessage   string     `gorm:"type:text" json:"quote_message"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationship
	Company Company `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (Quote) TableName() string {
	return "quotes"
}

// BeforeCreate sets UUID before creating
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// All lists every model for AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&Company{},
		&Conversation{},
		&ConversationSummary{},
		&DeviceIssueStat{},
		&Quote{},
	}
}

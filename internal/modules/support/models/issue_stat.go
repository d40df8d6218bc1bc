package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceIssueStat is an append-only log row written for every parsed diagnostic.
type DeviceIssueStat struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID          uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	ConversationID     uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	ServiceType        *string   `gorm:"type:text" json:"service_type"`
	DeviceType         *string   `gorm:"type:text" json:"device_type"`
	DeviceBrand        *string   `gorm:"type:text" json:"device_brand"`
	DeviceModel        *string   `gorm:"type:text" json:"device_model"`
	ProblemDescription *string   `gorm:"type:text" json:"problem_description"`
	CreatedAt          time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationship
	Company Company `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (DeviceIssueStat) TableName() string {
	return "device_issue_stats"
}

// BeforeCreate sets UUID before creating
func (s *DeviceIssueStat) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

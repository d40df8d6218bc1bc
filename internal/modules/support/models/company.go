package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Company is a tenant of the widget, looked up by its domain.
type Company struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"type:text;not null" json:"name"`
	Email         string         `gorm:"type:text;not null" json:"email"`
	Domain        string         `gorm:"type:text;not null;uniqueIndex" json:"domain"` // stored normalized, lower-case
	APIKey        string         `gorm:"type:text;uniqueIndex" json:"api_key"`
	PricingInfo   datatypes.JSON `gorm:"type:jsonb" json:"pricing_info" swaggertype:"object"`
	AIPrompt      string         `gorm:"type:text" json:"ai_prompt"`
	QuoteTemplate string         `gorm:"type:text" json:"quote_template"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Company) TableName() string {
	return "companies"
}

// BeforeCreate sets UUID before creating
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CompanyWithQuoteCount is a company row enriched with its quote total.
type CompanyWithQuoteCount struct {
	Company
	QuoteCount int64 `json:"quote_count"`
}

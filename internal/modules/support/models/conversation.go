package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConversationStatus tracks how far a conversation got in the quote pipeline.
type ConversationStatus string

const (
	StatusOpen      ConversationStatus = "OPEN"
	StatusDiagnosed ConversationStatus = "DIAGNOSED"
	StatusQuoted    ConversationStatus = "QUOTED"
)

var statusRank = map[ConversationStatus]int{
	StatusOpen:      0,
	StatusDiagnosed: 1,
	StatusQuoted:    2,
}

// Advance returns the later of the two statuses. Transitions never go back.
func (s ConversationStatus) Advance(next ConversationStatus) ConversationStatus {
	if statusRank[next] > statusRank[s] {
		return next
	}
	return s
}

// Turn is a single chat message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation represents a widget chat between a customer and the assistant
type Conversation struct {
	ID        uuid.UUID                 `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID uuid.UUID                 `gorm:"type:uuid;not null;index" json:"company_id"`
	Messages  datatypes.JSONSlice[Turn] `gorm:"type:jsonb;not null" json:"messages" swaggertype:"array,object"`
	Status    ConversationStatus        `gorm:"type:text;not null;default:'OPEN'" json:"status"`
	CreatedAt time.Time                 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                 `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationship
	Company Company `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (Conversation) TableName() string {
	return "conversations"
}

// BeforeCreate sets UUID before creating
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = StatusOpen
	}
	return nil
}

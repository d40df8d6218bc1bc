package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actions recorded by the admin API
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
)

// AuditLog is one administrative action.
type AuditLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// Who
	Actor     string `json:"actor" gorm:"type:text;not null;index"` // operator email
	IPAddress string `json:"ip_address,omitempty" gorm:"type:text"`

	// What
	Action   string `json:"action" gorm:"type:text;not null;index"`
	Entity   string `json:"entity" gorm:"type:text;not null;index"` // company, session
	EntityID string `json:"entity_id" gorm:"type:text;index"`

	// Submitted payload, secrets removed
	Changes datatypes.JSON `json:"changes,omitempty" gorm:"type:jsonb" swaggertype:"object"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate sets UUID before creating
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Filter narrows an audit log listing
type Filter struct {
	Actor    string
	Action   string
	Entity   string
	EntityID string
	Page     int
	PageSize int
}

// Page is a paginated audit log listing
type Page struct {
	Logs       []AuditLog `json:"logs"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

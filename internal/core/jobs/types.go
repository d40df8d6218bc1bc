package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status represents the status of a job
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusRetrying   Status = "retrying"
	StatusFailed     Status = "failed"
)

// DefaultQueue is used when no queue name is given
const DefaultQueue = "default"

// Job represents a background job in the database
type Job struct {
	ID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Queue   string         `gorm:"type:varchar(100);not null;index" json:"queue"`
	Type    string         `gorm:"type:varchar(100);not null" json:"type"`
	Payload datatypes.JSON `gorm:"type:jsonb" json:"payload" swaggertype:"object"`

	Status     Status `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Attempts   int    `gorm:"not null;default:0" json:"attempts"`
	MaxRetries int    `gorm:"not null;default:3" json:"max_retries"`

	ScheduledAt *time.Time `gorm:"index" json:"scheduled_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`

	Error string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Job model
func (Job) TableName() string {
	return "jobs"
}

// BeforeCreate sets UUID before creating
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// Handler executes jobs of one type
type Handler interface {
	Handle(ctx context.Context, job *Job) error
	Type() string
}

// EnqueueOptions contains options for enqueueing a job
type EnqueueOptions struct {
	Queue      string
	MaxRetries int
	ScheduleAt *time.Time
}

// WorkerConfig contains configuration for job workers
type WorkerConfig struct {
	Queue        string
	Concurrency  int           // number of polling goroutines
	PollInterval time.Duration // how often to poll for new jobs
	Timeout      time.Duration // maximum time for one job
}

// DefaultWorkerConfig returns default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Queue:        DefaultQueue,
		Concurrency:  2,
		PollInterval: 2 * time.Second,
		Timeout:      time.Minute,
	}
}

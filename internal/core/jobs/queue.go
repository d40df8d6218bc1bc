package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxBackoff = time.Hour

// Queue is a job queue stored in the main database
type Queue struct {
	db *gorm.DB
}

// NewQueue creates a new job queue
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{db: db}
}

// Enqueue adds a new job to the queue
func (q *Queue) Enqueue(ctx context.Context, jobType string, payload interface{}, opts EnqueueOptions) (*Job, error) {
	if opts.Queue == "" {
		opts.Queue = DefaultQueue
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}

	job := &Job{
		Queue:       opts.Queue,
		Type:        jobType,
		Payload:     payloadJSON,
		Status:      StatusPending,
		MaxRetries:  opts.MaxRetries,
		ScheduledAt: opts.ScheduleAt,
	}

	if err := q.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return job, nil
}

// Dequeue claims the oldest runnable job of a queue. It returns nil, nil
// when nothing is due.
func (q *Queue) Dequeue(ctx context.Context, queueName string) (*Job, error) {
	var job Job

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("queue = ? AND status IN ?", queueName, []Status{StatusPending, StatusRetrying}).
			Where("scheduled_at IS NULL OR scheduled_at <= ?", time.Now()).
			Order("created_at ASC")

		// SKIP LOCKED keeps concurrent workers off the same row
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}

		if err := query.First(&job).Error; err != nil {
			return err
		}

		now := time.Now()
		job.Status = StatusProcessing
		job.StartedAt = &now
		job.Attempts++

		return tx.Save(&job).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	return &job, nil
}

// MarkCompleted marks a job as completed
func (q *Queue) MarkCompleted(ctx context.Context, job *Job) error {
	now := time.Now()
	return q.db.WithContext(ctx).Model(&Job{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"status":       StatusCompleted,
		"completed_at": now,
		"error":        "",
	}).Error
}

// MarkFailed schedules a retry with exponential backoff, or marks the job
// failed once its retries are spent.
func (q *Queue) MarkFailed(ctx context.Context, job *Job, cause error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"error":     cause.Error(),
		"failed_at": now,
	}

	if job.Attempts < job.MaxRetries {
		updates["status"] = StatusRetrying
		updates["scheduled_at"] = now.Add(Backoff(job.Attempts))
	} else {
		updates["status"] = StatusFailed
	}

	return q.db.WithContext(ctx).Model(&Job{}).Where("id = ?", job.ID).Updates(updates).Error
}

// Counts returns the number of jobs per status
func (q *Queue) Counts(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Total  int64
	}

	if err := q.db.WithContext(ctx).Model(&Job{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	counts := make(map[Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// DeleteOld deletes completed and failed jobs older than the given age
func (q *Queue) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	result := q.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", []Status{StatusCompleted, StatusFailed}, cutoff).
		Delete(&Job{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old jobs: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Backoff is 2^attempt seconds, capped at one hour
func Backoff(attempt int) time.Duration {
	if attempt > 12 {
		return maxBackoff
	}
	d := time.Duration(1<<attempt) * time.Second
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

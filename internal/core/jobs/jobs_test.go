package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestQueue(t *testing.T) (*Queue, *gorm.DB) {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.GORM.AutoMigrate(&Job{}))

	return NewQueue(db.GORM), db.GORM
}

type funcHandler struct {
	jobType string
	fn      func(ctx context.Context, job *Job) error
	calls   int
}

func (h *funcHandler) Type() string { return h.jobType }

func (h *funcHandler) Handle(ctx context.Context, job *Job) error {
	h.calls++
	return h.fn(ctx, job)
}

func reload(t *testing.T, db *gorm.DB, job *Job) *Job {
	t.Helper()
	var got Job
	require.NoError(t, db.First(&got, "id = ?", job.ID).Error)
	return &got
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, Backoff(1))
	assert.Equal(t, 8*time.Second, Backoff(3))
	assert.Equal(t, time.Hour, Backoff(12))
	assert.Equal(t, time.Hour, Backoff(40))
}

func TestDequeue_SkipsFutureAndOtherQueues(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	later := time.Now().Add(time.Hour)
	_, err := q.Enqueue(ctx, "email.send", map[string]string{"to": "a@test"}, EnqueueOptions{ScheduleAt: &later})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, "email.send", nil, EnqueueOptions{Queue: "other"})
	require.NoError(t, err)

	job, err := q.Dequeue(ctx, DefaultQueue)
	require.NoError(t, err)
	assert.Nil(t, job)

	due, err := q.Enqueue(ctx, "email.send", map[string]string{"to": "b@test"}, EnqueueOptions{})
	require.NoError(t, err)

	job, err = q.Dequeue(ctx, DefaultQueue)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, due.ID, job.ID)
	assert.Equal(t, StatusProcessing, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.JSONEq(t, `{"to":"b@test"}`, string(job.Payload))
}

func TestWorker_RetriesThenFails(t *testing.T) {
	q, db := newTestQueue(t)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, "email.send", nil, EnqueueOptions{MaxRetries: 2})
	require.NoError(t, err)

	handler := &funcHandler{jobType: "email.send", fn: func(context.Context, *Job) error { return errors.New("relay down") }}
	w := NewWorker(q, WorkerConfig{})
	w.RegisterHandler(handler)

	processed, err := w.ProcessNext(ctx)
	require.NoError(t, err)
	assert.True(t, processed)

	got := reload(t, db, job)
	assert.Equal(t, StatusRetrying, got.Status)
	assert.Equal(t, "relay down", got.Error)
	require.NotNil(t, got.ScheduledAt)
	assert.True(t, got.ScheduledAt.After(time.Now()))

	// not due yet
	processed, err = w.ProcessNext(ctx)
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, db.Model(&Job{}).Where("id = ?", job.ID).Update("scheduled_at", time.Now().Add(-time.Second)).Error)

	processed, err = w.ProcessNext(ctx)
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, StatusFailed, reload(t, db, job).Status)
	assert.Equal(t, 2, handler.calls)
}

func TestWorker_CompletesAndCounts(t *testing.T) {
	q, db := newTestQueue(t)
	ctx := context.Background()

	ok, err := q.Enqueue(ctx, "email.send", nil, EnqueueOptions{})
	require.NoError(t, err)
	orphan, err := q.Enqueue(ctx, "unknown.type", nil, EnqueueOptions{})
	require.NoError(t, err)

	w := NewWorker(q, WorkerConfig{})
	w.RegisterHandler(&funcHandler{jobType: "email.send", fn: func(context.Context, *Job) error { return nil }})

	for i := 0; i < 2; i++ {
		processed, err := w.ProcessNext(ctx)
		require.NoError(t, err)
		assert.True(t, processed)
	}

	assert.Equal(t, StatusCompleted, reload(t, db, ok).Status)
	assert.Equal(t, StatusFailed, reload(t, db, orphan).Status)

	counts, err := q.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[StatusCompleted])
	assert.Equal(t, int64(1), counts[StatusFailed])

	deleted, err := q.DeleteOld(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestWorker_StartStopsWithContext(t *testing.T) {
	q, db := newTestQueue(t)

	w := NewWorker(q, WorkerConfig{PollInterval: 10 * time.Millisecond})
	w.RegisterHandler(&funcHandler{jobType: "email.send", fn: func(context.Context, *Job) error { return nil }})

	job, err := q.Enqueue(context.Background(), "email.send", nil, EnqueueOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	assert.Eventually(t, func() bool {
		return reload(t, db, job).Status == StatusCompleted
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	w.Wait()
}

func TestScheduler_AddReplacesByName(t *testing.T) {
	s := NewScheduler()

	require.NoError(t, s.Add("cleanup", "@daily", func(context.Context) {}))
	require.NoError(t, s.Add("cleanup", "0 3 * * *", func(context.Context) {}))
	assert.Equal(t, []string{"cleanup"}, s.Names())

	assert.Error(t, s.Add("broken", "every tuesday", func(context.Context) {}))

	s.Start()
	s.Stop(context.Background())
}

func TestCleanupTask(t *testing.T) {
	q, db := newTestQueue(t)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, "email.send", nil, EnqueueOptions{})
	require.NoError(t, err)
	require.NoError(t, q.MarkCompleted(ctx, job))
	require.NoError(t, db.Model(&Job{}).Where("id = ?", job.ID).UpdateColumn("updated_at", time.Now().Add(-48*time.Hour)).Error)

	CleanupTask(q, 24*time.Hour)(ctx)

	var n int64
	require.NoError(t, db.Model(&Job{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Worker polls one queue and runs registered handlers
type Worker struct {
	queue    *Queue
	config   WorkerConfig
	handlers map[string]Handler
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewWorker creates a new job worker
func NewWorker(queue *Queue, config WorkerConfig) *Worker {
	if config.Queue == "" {
		config.Queue = DefaultQueue
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultWorkerConfig().PollInterval
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultWorkerConfig().Timeout
	}

	return &Worker{
		queue:    queue,
		config:   config,
		handlers: make(map[string]Handler),
	}
}

// RegisterHandler registers a handler for its job type
func (w *Worker) RegisterHandler(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[handler.Type()] = handler
	log.Info().Str("type", handler.Type()).Msg("✅ Registered job handler")
}

// Start launches the polling goroutines. They exit when ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	log.Info().Str("queue", w.config.Queue).Int("concurrency", w.config.Concurrency).Msg("🚀 Starting job worker")

	for i := 0; i < w.config.Concurrency; i++ {
		w.wg.Add(1)
		go w.run(ctx, i+1)
	}
}

// Wait blocks until every polling goroutine has returned
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Int("worker", workerID).Msg("Job worker stopped")
			return
		case <-ticker.C:
			// drain everything that is due before sleeping again
			for {
				processed, err := w.ProcessNext(ctx)
				if err != nil {
					log.Warn().Err(err).Int("worker", workerID).Msg("⚠️ Job worker error")
				}
				if !processed || ctx.Err() != nil {
					break
				}
			}
		}
	}
}

// ProcessNext runs at most one due job and reports whether it found one
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	job, err := w.queue.Dequeue(ctx, w.config.Queue)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	w.mu.RLock()
	handler, ok := w.handlers[job.Type]
	w.mu.RUnlock()

	if !ok {
		// retrying would not help
		job.Attempts = job.MaxRetries
		return true, w.queue.MarkFailed(ctx, job, fmt.Errorf("no handler registered for job type: %s", job.Type))
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := handler.Handle(jobCtx, job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID.String()).Str("type", job.Type).Int("attempt", job.Attempts).Msg("❌ Job failed")
		if markErr := w.queue.MarkFailed(ctx, job, err); markErr != nil {
			return true, fmt.Errorf("failed to mark job as failed: %w", markErr)
		}
		return true, nil
	}

	log.Info().Str("job_id", job.ID.String()).Str("type", job.Type).Dur("took", time.Since(start)).Msg("✅ Job completed")
	if err := w.queue.MarkCompleted(ctx, job); err != nil {
		return true, fmt.Errorf("failed to mark job as completed: %w", err)
	}

	return true, nil
}

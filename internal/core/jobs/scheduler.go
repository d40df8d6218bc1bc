package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs named housekeeping tasks on cron schedules
type Scheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID
	mu      sync.Mutex
}

// NewScheduler creates a new scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		entries: make(map[string]cron.EntryID),
	}
}

// Add schedules fn under name, replacing a previous task of the same name.
// spec is a standard five-field cron expression or a descriptor like "@daily".
func (s *Scheduler) Add(name, spec string, fn func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
	}

	id, err := s.cron.AddFunc(spec, func() { fn(context.Background()) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.entries[name] = id

	log.Info().Str("task", name).Str("schedule", spec).Msg("⏰ Scheduled task")
	return nil
}

// Names lists the scheduled task names
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running tasks, up to the context deadline
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn().Msg("⚠️ Scheduler stop timed out")
	}
}

// CleanupTask deletes finished jobs older than retention
func CleanupTask(q *Queue, retention time.Duration) func(ctx context.Context) {
	return func(ctx context.Context) {
		n, err := q.DeleteOld(ctx, retention)
		if err != nil {
			log.Error().Err(err).Msg("❌ Job cleanup failed")
			return
		}
		log.Info().Int64("deleted", n).Msg("🧹 Old jobs deleted")
	}
}

package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/jobs"
	"github.com/rs/zerolog/log"
)

// JobSendEmail is the job type of a queued quote email
const JobSendEmail = "notification.email.send"

// EmailPayload is one queued email
type EmailPayload struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Recipient string `json:"recipient"`
}

func (s *Service) scheduleRetry(ctx context.Context, p EmailPayload) {
	if s.retries == nil {
		return
	}
	// the request may be over by the time the queue write happens
	ctx = context.WithoutCancel(ctx)
	if _, err := s.retries.Enqueue(ctx, JobSendEmail, p, jobs.EnqueueOptions{MaxRetries: 5}); err != nil {
		log.Error().Err(err).Str("to", p.To).Msg("❌ Failed to queue quote email retry")
		return
	}
	log.Info().Str("recipient", p.Recipient).Str("to", p.To).Msg("🔁 Quote email queued for retry")
}

// EmailJobHandler resends queued emails
type EmailJobHandler struct {
	mailer Mailer
}

func NewEmailJobHandler(mailer Mailer) *EmailJobHandler {
	return &EmailJobHandler{mailer: mailer}
}

func (h *EmailJobHandler) Type() string {
	return JobSendEmail
}

func (h *EmailJobHandler) Handle(ctx context.Context, job *jobs.Job) error {
	var p EmailPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return fmt.Errorf("invalid email payload: %w", err)
	}
	if p.To == "" {
		return fmt.Errorf("email payload has no recipient")
	}
	return h.mailer.SendEmail(ctx, p.To, p.Subject, p.Body)
}

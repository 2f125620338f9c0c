package worker

// email_worker.go
// Processes email jobs from QueueEmail: cart submissions, contact messages,
// and order notifications (the latter with a PDF summary attached).
// Sends go through the SMTP circuit breaker; failures land in the DLQ.

import (
	"context"
	"encoding/json"

	"wolftactical/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To         string `json:"to"`
	ReplyTo    string `json:"reply_to"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	AttachPath string `json:"attach_path,omitempty"`
	Attempts   int    `json:"attempts"`
}

// EmailWorker delivers queued mails via SMTP behind the circuit breaker.
type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process sends one queued email. On failure the payload goes to the DLQ with
// an incremented attempt count; the retry cron re-enqueues it later.
func (w *EmailWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.To == "" {
		log.Warn().Msg("email_worker: empty recipient, skipping")
		return
	}

	err := w.cb.Execute(func() error {
		return w.mailer.Send(payload.To, payload.ReplyTo, payload.Subject, payload.Body, payload.AttachPath)
	})
	if err != nil {
		payload.Attempts++
		failed, merr := json.Marshal(payload)
		if merr != nil {
			log.Error().Err(merr).Msg("email_worker: cannot marshal failed payload")
			return
		}
		SendToDLQ(ctx, rdb, QueueEmail, "email", failed, err.Error(), payload.Attempts)
		return
	}
	log.Info().Str("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: mail sent")
}

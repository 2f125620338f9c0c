package worker

// retry_cron.go
// Background goroutine that periodically drains the email DLQ and re-enqueues
// entries still under the attempt cap. Entries past the cap move to the
// permanent dead list. Skips the whole tick while the SMTP circuit breaker is
// open — no point re-enqueueing into a known-down relay.

import (
	"context"
	"encoding/json"
	"time"

	"wolftactical/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = time.Minute
	retryBatchSize    = 10
	// MaxEmailAttempts caps delivery attempts per mail before it is parked
	// permanently.
	MaxEmailAttempts = 5
)

// StartRetryCron launches the DLQ retry goroutine. It respects the context
// for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, rdb, cb)
			}
		}
	}()
}

func processRetries(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	if cb.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueEmail
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty queue or redis error — either way, wait for next tick
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: invalid DLQ entry, dropping")
			continue
		}

		if entry.Attempts >= MaxEmailAttempts {
			if err := rdb.LPush(ctx, dlqKey+DeadSuffix, raw).Err(); err != nil {
				log.Error().Err(err).Msg("retry_cron: failed to park dead entry")
			}
			log.Error().
				Int("attempts", entry.Attempts).
				Str("reason", entry.Reason).
				Msg("retry_cron: max attempts exceeded, parked permanently")
			continue
		}

		job, err := json.Marshal(Job{Type: entry.JobType, Payload: entry.Payload})
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: cannot re-marshal job")
			continue
		}
		if err := rdb.LPush(ctx, entry.OriginalQueue, job).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-enqueue")
			continue
		}

		log.Info().
			Int("attempts", entry.Attempts).
			Str("queue", entry.OriginalQueue).
			Msg("retry_cron: job re-enqueued")
	}
}

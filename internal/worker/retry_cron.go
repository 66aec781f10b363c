package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues work whose previous
// attempt failed or whose enqueue was lost:
//   - acreditaciones still pendiente whose backoff elapsed
//   - deferred e-mails whose delay elapsed (skipped while the SMTP breaker is open)

import (
	"context"
	"time"

	"tesoreria/internal/infra"
	"tesoreria/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
	// graciaEncolado is how long a never-attempted credit may wait for its
	// first worker pass before the cron assumes the enqueue was lost.
	graciaEncolado = time.Minute
)

// AcreditacionesPendientes lists credits due for another attempt.
// It is implemented by repository.AcreditacionRepository.
type AcreditacionesPendientes interface {
	ListDue(ctx context.Context, ahora time.Time, gracia time.Duration, limit int) ([]model.AcreditacionCaja, error)
}

// encoladorAcreditaciones is the slice of Dispatcher the cron needs.
type encoladorAcreditaciones interface {
	EncolarAcreditacion(ctx context.Context, acreditacionID uuid.UUID) error
}

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	Acreditaciones AcreditacionesPendientes
	Dispatcher     encoladorAcreditaciones
	MailerCB       *infra.CircuitBreaker
	RDB            *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
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
				now := time.Now()
				requeueAcreditaciones(ctx, cfg, now)
				promoteEmails(ctx, cfg, now)
				reportDLQ(ctx, cfg.RDB)
			}
		}
	}()
}

// requeueAcreditaciones returns how many credits were put back in the queue.
func requeueAcreditaciones(ctx context.Context, cfg RetryCronConfig, now time.Time) int {
	due, err := cfg.Acreditaciones.ListDue(ctx, now, graciaEncolado, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending acreditaciones")
		return 0
	}
	if len(due) == 0 {
		return 0
	}

	log.Info().Int("count", len(due)).Msg("retry_cron: re-enqueuing acreditaciones")
	n := 0
	for i := range due {
		a := &due[i]
		if err := cfg.Dispatcher.EncolarAcreditacion(ctx, a.ID); err != nil {
			log.Error().Err(err).Str("acreditacion_id", a.ID.String()).Msg("retry_cron: enqueue failed")
			return n
		}
		n++
	}
	return n
}

func promoteEmails(ctx context.Context, cfg RetryCronConfig, now time.Time) {
	// If CB is open, skip entirely — don't hammer a downed relay
	if cfg.MailerCB != nil && cfg.MailerCB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: smtp circuit breaker is open, skipping e-mails")
		return
	}
	moved, err := promoteDue(ctx, cfg.RDB, QueueEmail, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to promote deferred e-mails")
		return
	}
	if moved > 0 {
		log.Info().Int("count", moved).Msg("retry_cron: deferred e-mails re-enqueued")
	}
}

func reportDLQ(ctx context.Context, rdb *redis.Client) {
	for _, q := range []string{QueueAcreditaciones, QueueEmail} {
		n, err := DLQLength(ctx, rdb, q)
		if err == nil && n > 0 {
			log.Warn().Str("queue", q).Int64("entries", n).Msg("retry_cron: dead letter queue not empty")
		}
	}
}

// computeRetryBackoff returns 10s, 20s, 40s, ... capped at 10 minutes.
func computeRetryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := 10 * time.Second
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= 10*time.Minute {
			return 10 * time.Minute
		}
	}
	return d
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tesoreria/internal/dto"
	"tesoreria/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAcreditaciones = "jobs:acreditaciones"
	QueueEmail          = "jobs:email"

	JobAcreditacion = "acreditacion"
	JobReciboEmail  = "recibo_email"
)

// MaxEmailAttempts bounds deliveries of one receipt before it goes to the DLQ.
const MaxEmailAttempts = 5

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP. It implements service.Encolador.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarAcreditacion pushes a caja credit to Redis.
func (d *Dispatcher) EncolarAcreditacion(ctx context.Context, acreditacionID uuid.UUID) error {
	return d.enqueue(ctx, QueueAcreditaciones, JobAcreditacion, dto.AcreditacionJob{AcreditacionID: acreditacionID.String()})
}

// EncolarRecibo pushes a receipt e-mail to Redis.
func (d *Dispatcher) EncolarRecibo(ctx context.Context, job dto.ReciboEmailJob) error {
	return d.enqueue(ctx, QueueEmail, JobReciboEmail, job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// JobProcessor handles one decoded payload.
type JobProcessor interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// WorkerHandlers maps job types to their processors.
type WorkerHandlers struct {
	Acreditacion JobProcessor
	Email        JobProcessor
}

// resultado is what the pool does with a job after processing it.
type resultado int

const (
	hecho      resultado = iota // done, or left to the retry cron
	reencolar                   // retry later through the deferred set
	descartar                   // dead letter
)

// handle routes a job and decides its fate.
//
// Acreditaciones keep their retry state in the database: a failed attempt is
// picked up again by the retry cron, and only exhausted ones are dead-lettered.
// E-mails carry their attempts in the envelope.
func (h *WorkerHandlers) handle(ctx context.Context, job Job) (resultado, error) {
	switch job.Type {
	case JobAcreditacion:
		err := h.Acreditacion.Process(ctx, job.Payload)
		switch {
		case err == nil:
			return hecho, nil
		case errors.Is(err, model.ErrAcreditacionAgotada), errors.Is(err, model.ErrAcreditacionNoEncontrada),
			errors.Is(err, errPayloadInvalido):
			return descartar, err
		default:
			return hecho, err
		}
	case JobReciboEmail:
		err := h.Email.Process(ctx, job.Payload)
		switch {
		case err == nil:
			return hecho, nil
		case errors.Is(err, errPayloadInvalido), job.Attempts+1 >= MaxEmailAttempts:
			return descartar, err
		default:
			return reencolar, err
		}
	default:
		return descartar, errors.New("tipo de job desconocido")
	}
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueAcreditaciones, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !esperaVacia(ctx, err) {
					log.Error().Err(err).Int("worker", id).Msg("worker: BRPOP failed, backing off")
					pausar(ctx, brpopBackoff)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// brpopBackoff is the pause after a Redis error, so a downed server is not
// hammered by every worker at once.
const brpopBackoff = 2 * time.Second

// esperaVacia reports whether a BRPOP error is just an empty wait or shutdown.
func esperaVacia(ctx context.Context, err error) bool {
	return errors.Is(err, redis.Nil) || ctx.Err() != nil
}

func pausar(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, "", json.RawMessage(raw), "envelope invalido: "+err.Error(), 0)
		return
	}

	res, err := handlers.handle(ctx, job)
	switch res {
	case hecho:
		if err != nil {
			log.Warn().Err(err).Str("type", job.Type).Msg("job failed, left to retry cron")
		}
	case reencolar:
		job.Attempts++
		delay := computeRetryBackoff(job.Attempts)
		log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).
			Dur("delay", delay).Msg("job failed, deferred")
		if derr := deferJob(ctx, rdb, queue, job, time.Now().Add(delay)); derr != nil {
			log.Error().Err(derr).Str("queue", queue).Msg("could not defer job")
		}
	case descartar:
		reason := "descartado"
		if err != nil {
			reason = err.Error()
		}
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, reason, job.Attempts+1)
	}
}

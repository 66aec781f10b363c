package worker

// acreditacion_worker.go
// Applies queued cash credits: a client payment in efectivo routed to a caja
// becomes an ingreso on that caja, exactly once.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tesoreria/internal/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var errPayloadInvalido = errors.New("payload invalido")

// Acreditador applies one credit. It is implemented by service.CajaService.
type Acreditador interface {
	AplicarAcreditacion(ctx context.Context, acreditacionID uuid.UUID) error
}

type AcreditacionWorker struct {
	svc Acreditador
}

func NewAcreditacionWorker(svc Acreditador) *AcreditacionWorker {
	return &AcreditacionWorker{svc: svc}
}

// Process applies the credit named in the payload. Applying an already
// applied credit is a no-op.
func (w *AcreditacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload dto.AcreditacionJob
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", errPayloadInvalido, err)
	}
	id, err := uuid.Parse(payload.AcreditacionID)
	if err != nil {
		return fmt.Errorf("%w: acreditacion_id %q", errPayloadInvalido, payload.AcreditacionID)
	}

	if err := w.svc.AplicarAcreditacion(ctx, id); err != nil {
		log.Warn().Err(err).Str("acreditacion_id", id.String()).Msg("acreditacion_worker: failed")
		return err
	}
	return nil
}

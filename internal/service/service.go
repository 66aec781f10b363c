package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tesoreria/internal/dto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Encolador hands background work to the worker pool. It is implemented by
// worker.Dispatcher; a nil Encolador disables background work (unit tests).
type Encolador interface {
	EncolarAcreditacion(ctx context.Context, acreditacionID uuid.UUID) error
	EncolarRecibo(ctx context.Context, job dto.ReciboEmailJob) error
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// noEncontrado maps gorm.ErrRecordNotFound to the domain error of the entity.
func noEncontrado(err, dominio error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dominio
	}
	return err
}

// Input errors detected while translating request DTOs.
var (
	ErrFechaInvalida = errors.New("Fecha inválida, use AAAA-MM-DD o RFC 3339")
	ErrIDInvalido    = errors.New("Identificador inválido")
)

// parseFecha accepts "2006-01-02" or RFC 3339. An empty string is the zero time.
func parseFecha(campo, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", campo, ErrFechaInvalida)
	}
	return t, nil
}

// parseRango turns ?desde=&hasta= into optional bounds. A date-only hasta
// covers the whole day.
func parseRango(r dto.RangoFechas) (desde, hasta *time.Time, err error) {
	if r.Desde != "" {
		d, err := parseFecha("desde", r.Desde)
		if err != nil {
			return nil, nil, err
		}
		desde = &d
	}
	if r.Hasta != "" {
		h, err := parseFecha("hasta", r.Hasta)
		if err != nil {
			return nil, nil, err
		}
		if len(r.Hasta) == len("2006-01-02") {
			h = h.Add(24*time.Hour - time.Nanosecond)
		}
		hasta = &h
	}
	return desde, hasta, nil
}

// parseID parses an optional uuid coming from a request body.
func parseID(campo string, s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", campo, ErrIDInvalido)
	}
	return &id, nil
}

// paginarSlice returns one page of an in-memory list.
func paginarSlice[T any](items []T, p dto.Paginacion) dto.ListResponse[T] {
	total := len(items)
	desde := p.Offset()
	if desde < 0 {
		desde = 0
	}
	if desde > total {
		desde = total
	}
	hasta := desde + p.Limit
	if p.Limit <= 0 || hasta > total {
		hasta = total
	}
	return dto.ListResponse[T]{
		Data:  items[desde:hasta],
		Total: int64(total),
		Page:  p.Page,
		Limit: p.Limit,
	}
}

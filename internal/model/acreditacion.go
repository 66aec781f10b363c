package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de AcreditacionCaja.
const (
	AcreditacionPendiente = "pendiente"
	AcreditacionAplicada  = "aplicada"
	AcreditacionFallida   = "fallida"
)

const (
	MaxReintentosAcreditacionDefault = 5
	backoffBaseAcreditacion          = 2 * time.Second
)

// AcreditacionCaja is the outbox row that carries a client cash payment into a
// caja. It is written in the same transaction as the payment and applied later
// by the worker, so the payment never depends on the caja being writable.
type AcreditacionCaja struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	CajaID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"caja_id"`
	ClienteID   uuid.UUID       `gorm:"type:uuid;not null" json:"cliente_id"`
	PagoID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"pago_id"`
	Monto       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monto"`
	Descripcion string          `gorm:"not null" json:"descripcion"`
	Referencia  string          `gorm:"type:varchar(40)" json:"referencia"`
	Estado      string          `gorm:"type:varchar(20);not null;default:'pendiente';index" json:"estado"`
	// MovimientoID is the caja movement created once the credit is applied.
	MovimientoID *uuid.UUID `gorm:"type:uuid" json:"movimiento_id,omitempty"`
	// Retry fields, driven by the retry cron
	RetryCount  int        `gorm:"not null;default:0" json:"retry_count"`
	MaxRetries  int        `gorm:"not null;default:5" json:"max_retries"`
	NextRetryAt *time.Time `gorm:"index" json:"next_retry_at,omitempty"`
	LastError   *string    `json:"last_error,omitempty"`
	AplicadaAt  *time.Time `json:"aplicada_at,omitempty"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName overrides GORM's default pluralization.
func (AcreditacionCaja) TableName() string { return "acreditaciones_caja" }

// NuevaAcreditacion queues the credit of a cash payment into cajaID.
func NuevaAcreditacion(companyID, cajaID, clienteID, pagoID uuid.UUID, monto decimal.Decimal, descripcion, referencia string, maxRetries int, actorID uuid.UUID) *AcreditacionCaja {
	if maxRetries <= 0 {
		maxRetries = MaxReintentosAcreditacionDefault
	}
	ahora := time.Now()
	return &AcreditacionCaja{
		ID:          uuid.New(),
		CompanyID:   companyID,
		CajaID:      cajaID,
		ClienteID:   clienteID,
		PagoID:      pagoID,
		Monto:       monto,
		Descripcion: descripcion,
		Referencia:  referencia,
		Estado:      AcreditacionPendiente,
		MaxRetries:  maxRetries,
		CreatedBy:   actorID,
		CreatedAt:   ahora,
		UpdatedAt:   ahora,
	}
}

// Pendiente reports whether the credit still has to be applied.
func (a *AcreditacionCaja) Pendiente() bool { return a.Estado == AcreditacionPendiente }

// MarcarAplicada records the caja movement that settled the credit.
func (a *AcreditacionCaja) MarcarAplicada(movimientoID uuid.UUID) {
	ahora := time.Now()
	a.Estado = AcreditacionAplicada
	a.MovimientoID = &movimientoID
	a.AplicadaAt = &ahora
	a.NextRetryAt = nil
	a.LastError = nil
	a.UpdatedAt = ahora
}

// MarcarFallo counts a failed attempt and schedules the next one with
// exponential backoff (2s, 4s, 8s, ...). Once MaxRetries is reached the row
// becomes fallida and MarcarFallo returns false.
func (a *AcreditacionCaja) MarcarFallo(causa string) bool {
	ahora := time.Now()
	a.RetryCount++
	a.LastError = &causa
	a.UpdatedAt = ahora
	if a.RetryCount >= a.MaxRetries {
		a.Estado = AcreditacionFallida
		a.NextRetryAt = nil
		return false
	}
	siguiente := ahora.Add(backoffBaseAcreditacion * time.Duration(1<<uint(a.RetryCount-1)))
	a.NextRetryAt = &siguiente
	return true
}

// Reintentar puts a fallida credit back in the queue with a fresh budget.
func (a *AcreditacionCaja) Reintentar() bool {
	if a.Estado != AcreditacionFallida {
		return false
	}
	a.Estado = AcreditacionPendiente
	a.RetryCount = 0
	a.NextRetryAt = nil
	a.LastError = nil
	a.UpdatedAt = time.Now()
	return true
}

package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document types that own a sequence.
const (
	DocumentoFactura     = "factura"
	DocumentoRecibo      = "recibo"
	DocumentoPresupuesto = "presupuesto"
	DocumentoNotaCredito = "nota_credito"
	DocumentoNotaDebito  = "nota_debito"
	DocumentoOrdenPago   = "orden_pago"
)

var tiposDocumento = map[string]bool{
	DocumentoFactura:     true,
	DocumentoRecibo:      true,
	DocumentoPresupuesto: true,
	DocumentoNotaCredito: true,
	DocumentoNotaDebito:  true,
	DocumentoOrdenPago:   true,
}

// TipoDocumentoValido reports whether tipo has a sequence.
func TipoDocumentoValido(tipo string) bool { return tiposDocumento[tipo] }

// Contador is the per-company, per-document-type sequence.
// Secuencia only grows through the atomic increment in the repository; the
// administrative reset is the single exception.
type Contador struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contador_company_tipo" json:"company_id"`
	TipoDocumento string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_contador_company_tipo" json:"tipo_documento"`
	Secuencia     int64     `gorm:"not null;default:0" json:"secuencia"`
	Prefijo       string    `gorm:"type:varchar(10);not null;default:''" json:"prefijo"`
	Sufijo        string    `gorm:"type:varchar(10);not null;default:''" json:"sufijo"`
	// Formato is the zero-padding width of the sequence part.
	Formato    int       `gorm:"not null;default:8" json:"formato"`
	PuntoVenta string    `gorm:"type:varchar(10);not null;default:'0001'" json:"punto_venta"`
	Activo     bool      `gorm:"not null;default:true" json:"activo"`
	UpdatedBy  uuid.UUID `gorm:"type:uuid" json:"updated_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName keeps the Spanish plural (GORM would produce "contadors").
func (Contador) TableName() string { return "contadores" }

// Formatear composes {prefijo}{puntoVenta}-{secuencia con ceros}{sufijo}.
func (c *Contador) Formatear(secuencia int64) string {
	numero := fmt.Sprintf("%d", secuencia)
	if c.Formato > 0 {
		numero = fmt.Sprintf("%0*d", c.Formato, secuencia)
	}
	return fmt.Sprintf("%s%s-%s%s", c.Prefijo, c.PuntoVenta, numero, c.Sufijo)
}

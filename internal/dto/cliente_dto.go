package dto

import (
	"tesoreria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=2,max=150"`
	CUIT          *string         `json:"cuit"           validate:"omitempty,max=20"`
	Email         *string         `json:"email"          validate:"omitempty,email"`
	Telefono      *string         `json:"telefono"       validate:"omitempty,max=50"`
	Direccion     *string         `json:"direccion"`
	LimiteCredito decimal.Decimal `json:"limite_credito" validate:"min=0"`
}

// ClienteFilter is bound from the query string of GET /v1/clientes.
type ClienteFilter struct {
	Paginacion
	Buscar string `form:"q"`
}

type FacturaRequest struct {
	Fecha            string          `json:"fecha"`
	FechaVencimiento string          `json:"fecha_vencimiento"`
	Concepto         string          `json:"concepto" validate:"max=255"`
	Total            decimal.Decimal `json:"total"    validate:"required,gt=0"`
}

type PresupuestoRequest struct {
	Fecha       string          `json:"fecha"`
	ValidoHasta string          `json:"valido_hasta"`
	Concepto    string          `json:"concepto" validate:"max=255"`
	Total       decimal.Decimal `json:"total"    validate:"required,gt=0"`
}

type PagoEfectivoRequest struct {
	Monto    decimal.Decimal `json:"monto"    validate:"required,gt=0"`
	Fecha    string          `json:"fecha"`
	Concepto string          `json:"concepto" validate:"max=255"`
	// CajaID credits the payment into that caja once the payment is committed.
	CajaID *string `json:"caja_id" validate:"omitempty,uuid"`
}

type PagoBancarioRequest struct {
	Monto           decimal.Decimal `json:"monto"            validate:"required,gt=0"`
	Fecha           string          `json:"fecha"`
	Concepto        string          `json:"concepto"         validate:"max=255"`
	Banco           string          `json:"banco"            validate:"max=100"`
	NumeroOperacion string          `json:"numero_operacion" validate:"max=50"`
	TipoOperacion   string          `json:"tipo_operacion"   validate:"omitempty,oneof=transferencia deposito"`
}

type PagoChequeRequest struct {
	Monto            decimal.Decimal     `json:"monto"             validate:"required,gt=0"`
	Fecha            string              `json:"fecha"`
	Concepto         string              `json:"concepto"          validate:"max=255"`
	NumeroCheque     string              `json:"numero_cheque"     validate:"required,max=30"`
	Emisor           EmisorChequeRequest `json:"emisor"            validate:"required"`
	FechaEmision     string              `json:"fecha_emision"     validate:"required"`
	FechaVencimiento string              `json:"fecha_vencimiento" validate:"required"`
	// ChequeraID takes the cheque into custody in that terceros chequera.
	ChequeraID *string `json:"chequera_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// FacturaResponse carries the invoice, its entry and the earlier credit used to pay it.
type FacturaResponse struct {
	Factura      model.Factura                   `json:"factura"`
	Movimiento   model.MovimientoCuentaCorriente `json:"movimiento"`
	Aplicaciones []model.AplicacionPago          `json:"aplicaciones"`
	SaldoActual  decimal.Decimal                 `json:"saldo_actual"`
}

// PagoResponse is shared by the three payment methods; Pago holds the
// method-specific record.
type PagoResponse struct {
	Pago         any                             `json:"pago"`
	NumeroRecibo string                          `json:"numero_recibo"`
	Movimiento   model.MovimientoCuentaCorriente `json:"movimiento"`
	Aplicaciones []model.AplicacionPago          `json:"aplicaciones"`
	SaldoActual  decimal.Decimal                 `json:"saldo_actual"`
	// AcreditacionID is set when a caja credit was queued.
	AcreditacionID *uuid.UUID `json:"acreditacion_id,omitempty"`
	// Cheque is set when the cheque was taken into a chequera.
	Cheque *model.Cheque `json:"cheque,omitempty"`
}

// AcreditacionFilter is bound from the query string of GET /v1/acreditaciones.
type AcreditacionFilter struct {
	Paginacion
	Estado string `form:"estado" validate:"omitempty,oneof=pendiente aplicada fallida"`
}

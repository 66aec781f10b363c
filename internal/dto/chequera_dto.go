package dto

import (
	"tesoreria/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearChequeraRequest struct {
	Nombre        string  `json:"nombre"        validate:"required,min=2,max=100"`
	Tipo          string  `json:"tipo"          validate:"required,oneof=propia terceros"`
	Banco         string  `json:"banco"         validate:"required_if=Tipo propia,max=100"`
	Sucursal      string  `json:"sucursal"      validate:"max=100"`
	NumeroCuenta  string  `json:"numero_cuenta" validate:"required_if=Tipo propia,max=50"`
	RangoDesde    int64   `json:"rango_desde"   validate:"required_if=Tipo propia,min=0"`
	RangoHasta    int64   `json:"rango_hasta"   validate:"required_if=Tipo propia,min=0"`
	Observaciones *string `json:"observaciones"`
}

type ParteChequeRequest struct {
	Nombre string `json:"nombre" validate:"max=150"`
	CUIT   string `json:"cuit"   validate:"max=20"`
}

type EmisorChequeRequest struct {
	Nombre       string `json:"nombre"        validate:"required,max=150"`
	CUIT         string `json:"cuit"          validate:"required,max=20"`
	Banco        string `json:"banco"         validate:"max=100"`
	Sucursal     string `json:"sucursal"      validate:"max=100"`
	NumeroCuenta string `json:"numero_cuenta" validate:"max=50"`
}

// EmitirChequeRequest issues a propio cheque; the number comes from the chequera range.
type EmitirChequeRequest struct {
	Monto            decimal.Decimal    `json:"monto"             validate:"required,gt=0"`
	FechaEmision     string             `json:"fecha_emision"`
	FechaVencimiento string             `json:"fecha_vencimiento" validate:"required"`
	Cliente          ParteChequeRequest `json:"cliente"`
	Concepto         *string            `json:"concepto"`
	Observaciones    *string            `json:"observaciones"`
}

type ChequeTercerosRequest struct {
	Numero           string              `json:"numero"            validate:"required,max=30"`
	Monto            decimal.Decimal     `json:"monto"             validate:"required,gt=0"`
	FechaEmision     string              `json:"fecha_emision"     validate:"required"`
	FechaVencimiento string              `json:"fecha_vencimiento" validate:"required"`
	Estado           string              `json:"estado"            validate:"omitempty,oneof=disponible emitido cobrado rechazado vencido anulado depositado endosado"`
	Cliente          ParteChequeRequest  `json:"cliente"`
	Emisor           EmisorChequeRequest `json:"emisor"            validate:"required"`
	Concepto         *string             `json:"concepto"`
	Observaciones    *string             `json:"observaciones"`
}

type CambiarEstadoChequeRequest struct {
	Estado string `json:"estado" validate:"required,oneof=disponible emitido cobrado rechazado vencido anulado depositado endosado"`
	Motivo string `json:"motivo" validate:"max=255"`
}

type ChequeraFilter struct {
	Paginacion
	Tipo string `form:"tipo" validate:"omitempty,oneof=propia terceros"`
}

// ChequeFilter is bound from the query string of GET /v1/chequeras/:id/cheques.
type ChequeFilter struct {
	Paginacion
	RangoFechas
	Estado      string `form:"estado"       validate:"omitempty,oneof=disponible emitido cobrado rechazado vencido anulado depositado endosado"`
	Tipo        string `form:"tipo"         validate:"omitempty,oneof=propio tercero"`
	EmisorCUIT  string `form:"emisor_cuit"`
	ClienteCUIT string `form:"cliente_cuit"`
}

type MovimientoChequeFilter struct {
	Tipo string `form:"tipo" validate:"omitempty,oneof=ingreso egreso"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ChequeOperacionResponse answers both emission and intake.
type ChequeOperacionResponse struct {
	Cheque     model.Cheque           `json:"cheque"`
	Movimiento model.MovimientoCheque `json:"movimiento"`
	// ProximoCheque is only set for propia chequeras.
	ProximoCheque *int64                `json:"proximo_cheque,omitempty"`
	Resumen       model.ResumenChequera `json:"resumen"`
}

type CambioEstadoChequeResponse struct {
	Cheque  model.Cheque          `json:"cheque"`
	Resumen model.ResumenChequera `json:"resumen"`
}

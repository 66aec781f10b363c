package dto

import (
	"tesoreria/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCajaRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=100"`
	Descripcion  *string         `json:"descripcion"`
	Moneda       string          `json:"moneda"        validate:"omitempty,len=3"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
}

// ActualizarCajaRequest never touches balances: those only move through movements.
type ActualizarCajaRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,min=2,max=100"`
	Descripcion *string `json:"descripcion"`
}

type MovimientoCajaRequest struct {
	Tipo              string          `json:"tipo"                validate:"required,oneof=ingreso egreso transferencia"`
	Monto             decimal.Decimal `json:"monto"               validate:"required,gt=0"`
	Descripcion       string          `json:"descripcion"         validate:"required,min=1,max=255"`
	Referencia        *string         `json:"referencia"          validate:"omitempty,max=100"`
	Categoria         *string         `json:"categoria"           validate:"omitempty,max=50"`
	MetodoPago        *string         `json:"metodo_pago"         validate:"omitempty,max=20"`
	CajaRelacionadaID *string         `json:"caja_relacionada_id" validate:"required_if=Tipo transferencia,omitempty,uuid"`
}

// MovimientoCajaFilter is bound from the query string of GET /v1/cajas/:id/movimientos.
type MovimientoCajaFilter struct {
	Paginacion
	RangoFechas
	Tipo      string `form:"tipo" validate:"omitempty,oneof=ingreso egreso transferencia"`
	Categoria string `form:"categoria"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoCajaResponse struct {
	Movimiento    model.MovimientoCaja `json:"movimiento"`
	SaldoActual   decimal.Decimal      `json:"saldo_actual"`
	SaldoAnterior decimal.Decimal      `json:"saldo_anterior"`
	// MovimientoDestino is the ingreso created on the other caja of a transferencia.
	MovimientoDestino *model.MovimientoCaja `json:"movimiento_destino,omitempty"`
}

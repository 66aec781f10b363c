package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de MovimientoCaja.
const (
	MovimientoIngreso       = "ingreso"
	MovimientoEgreso        = "egreso"
	MovimientoTransferencia = "transferencia"
)

// Caja is a named money pool owned by a company.
// SaldoActual never goes negative and only changes through RegistrarMovimiento.
// A caja is never deleted: Activa=false, and only with a zero balance.
type Caja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Nombre        string          `gorm:"type:varchar(100);not null" json:"nombre"`
	Descripcion   *string         `json:"descripcion,omitempty"`
	Moneda        string          `gorm:"type:varchar(3);not null;default:'ARS'" json:"moneda"`
	SaldoInicial  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"saldo_inicial"`
	SaldoActual   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"saldo_actual"`
	SaldoAnterior decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"saldo_anterior"`
	Activa        bool            `gorm:"not null;default:true" json:"activa"`
	// UltimoNumeroMovimiento is the last NumeroMovimiento handed out.
	UltimoNumeroMovimiento int64     `gorm:"not null;default:0" json:"ultimo_numero_movimiento"`
	Version                int       `gorm:"not null;default:1" json:"version"`
	CreatedBy              uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	Movimientos []MovimientoCaja `gorm:"foreignKey:CajaID" json:"movimientos,omitempty"`
}

// MovimientoCaja is an immutable entry in a caja ledger.
// SaldoPosterior is the caja balance right after applying this movement.
type MovimientoCaja struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CajaID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_movimiento_caja_numero" json:"caja_id"`
	NumeroMovimiento int64           `gorm:"not null;uniqueIndex:idx_movimiento_caja_numero" json:"numero_movimiento"`
	Tipo             string          `gorm:"type:varchar(20);not null" json:"tipo"`
	Monto            decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monto"`
	Descripcion      string          `gorm:"not null" json:"descripcion"`
	Referencia       *string         `json:"referencia,omitempty"`
	Categoria        *string         `gorm:"type:varchar(50);index" json:"categoria,omitempty"`
	MetodoPago       *string         `gorm:"type:varchar(20)" json:"metodo_pago,omitempty"`
	// CajaRelacionadaID is the other side of a transferencia.
	CajaRelacionadaID       *uuid.UUID      `gorm:"type:uuid" json:"caja_relacionada_id,omitempty"`
	MovimientoRelacionadoID *uuid.UUID      `gorm:"type:uuid" json:"movimiento_relacionado_id,omitempty"`
	SaldoPosterior          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"saldo_posterior"`
	CreatedBy               uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt               time.Time       `gorm:"index" json:"created_at"`
}

// TableName overrides GORM's default pluralization (movimiento_cajas → movimientos_caja).
func (MovimientoCaja) TableName() string { return "movimientos_caja" }

// NuevoMovimientoCaja carries the caller-supplied fields of a movement.
type NuevoMovimientoCaja struct {
	Tipo                    string
	Monto                   decimal.Decimal
	Descripcion             string
	Referencia              *string
	Categoria               *string
	MetodoPago              *string
	CajaRelacionadaID       *uuid.UUID
	MovimientoRelacionadoID *uuid.UUID
}

// NuevaCaja builds an active caja whose current balance equals the initial one.
func NuevaCaja(companyID uuid.UUID, nombre, moneda string, saldoInicial decimal.Decimal, actorID uuid.UUID) (*Caja, error) {
	if saldoInicial.IsNegative() {
		return nil, ErrSaldoInicialInvalido
	}
	if moneda == "" {
		moneda = "ARS"
	}
	return &Caja{
		ID:            uuid.New(),
		CompanyID:     companyID,
		Nombre:        nombre,
		Moneda:        moneda,
		SaldoInicial:  saldoInicial,
		SaldoActual:   saldoInicial,
		SaldoAnterior: saldoInicial,
		Activa:        true,
		Version:       1,
		CreatedBy:     actorID,
	}, nil
}

// RegistrarMovimiento applies one movement to the caja.
// Every check runs before any field is touched, so a rejected movement leaves
// balances, numbering and history exactly as they were.
func (c *Caja) RegistrarMovimiento(in NuevoMovimientoCaja, actorID uuid.UUID) (*MovimientoCaja, error) {
	if !c.Activa {
		return nil, ErrCajaInactiva
	}
	if !in.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	var siguiente decimal.Decimal
	switch in.Tipo {
	case MovimientoIngreso:
		siguiente = c.SaldoActual.Add(in.Monto)
	case MovimientoEgreso:
		siguiente = c.SaldoActual.Sub(in.Monto)
	case MovimientoTransferencia:
		if in.CajaRelacionadaID == nil {
			return nil, ErrCajaRelacionadaRequerida
		}
		if *in.CajaRelacionadaID == c.ID {
			return nil, ErrCajaRelacionadaInvalida
		}
		// the source side of a transfer is an outflow
		siguiente = c.SaldoActual.Sub(in.Monto)
	default:
		return nil, ErrTipoMovimientoInvalido
	}
	if siguiente.IsNegative() {
		return nil, ErrFondosInsuficientes
	}

	c.UltimoNumeroMovimiento++
	mov := MovimientoCaja{
		ID:                      uuid.New(),
		CajaID:                  c.ID,
		NumeroMovimiento:        c.UltimoNumeroMovimiento,
		Tipo:                    in.Tipo,
		Monto:                   in.Monto,
		Descripcion:             in.Descripcion,
		Referencia:              in.Referencia,
		Categoria:               in.Categoria,
		MetodoPago:              in.MetodoPago,
		CajaRelacionadaID:       in.CajaRelacionadaID,
		MovimientoRelacionadoID: in.MovimientoRelacionadoID,
		SaldoPosterior:          siguiente,
		CreatedBy:               actorID,
		CreatedAt:               time.Now(),
	}
	c.SaldoAnterior = c.SaldoActual
	c.SaldoActual = siguiente
	c.Movimientos = append(c.Movimientos, mov)
	return &mov, nil
}

// Desactivar soft-deletes the caja. Only an empty caja can be retired.
func (c *Caja) Desactivar() error {
	if !c.SaldoActual.IsZero() {
		return ErrSaldoDistintoDeCero
	}
	c.Activa = false
	return nil
}

// ResumenCaja aggregates the movements of a date window.
type ResumenCaja struct {
	TotalIngresos             decimal.Decimal `json:"total_ingresos"`
	TotalEgresos              decimal.Decimal `json:"total_egresos"`
	TotalTransferenciasSalida decimal.Decimal `json:"total_transferencias_salida"`
	// MovimientoNeto = ingresos - egresos; transfers are left out.
	MovimientoNeto      decimal.Decimal `json:"movimiento_neto"`
	SaldoActual         decimal.Decimal `json:"saldo_actual"`
	SaldoAnterior       decimal.Decimal `json:"saldo_anterior"`
	CantidadMovimientos int             `json:"cantidad_movimientos"`
}

// Resumen aggregates the loaded movements created within [desde, hasta].
// A nil bound leaves that side open.
func (c *Caja) Resumen(desde, hasta *time.Time) ResumenCaja {
	r := ResumenCaja{
		TotalIngresos:             decimal.Zero,
		TotalEgresos:              decimal.Zero,
		TotalTransferenciasSalida: decimal.Zero,
		SaldoActual:               c.SaldoActual,
		SaldoAnterior:             c.SaldoAnterior,
	}
	for _, m := range c.Movimientos {
		if desde != nil && m.CreatedAt.Before(*desde) {
			continue
		}
		if hasta != nil && m.CreatedAt.After(*hasta) {
			continue
		}
		r.CantidadMovimientos++
		switch m.Tipo {
		case MovimientoIngreso:
			r.TotalIngresos = r.TotalIngresos.Add(m.Monto)
		case MovimientoEgreso:
			r.TotalEgresos = r.TotalEgresos.Add(m.Monto)
		case MovimientoTransferencia:
			r.TotalTransferenciasSalida = r.TotalTransferenciasSalida.Add(m.Monto)
		}
	}
	r.MovimientoNeto = r.TotalIngresos.Sub(r.TotalEgresos)
	return r
}

// Conciliar replays the loaded history from SaldoInicial and reports the number
// of the first movement whose SaldoPosterior does not match, or 0 if all do.
// The full history must be loaded in NumeroMovimiento order.
func (c *Caja) Conciliar() int64 {
	saldo := c.SaldoInicial
	for _, m := range c.Movimientos {
		if m.Tipo == MovimientoIngreso {
			saldo = saldo.Add(m.Monto)
		} else {
			saldo = saldo.Sub(m.Monto)
		}
		if !saldo.Equal(m.SaldoPosterior) {
			return m.NumeroMovimiento
		}
	}
	return 0
}

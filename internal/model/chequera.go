package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de Chequera y del Cheque que contienen.
const (
	ChequeraPropia   = "propia"
	ChequeraTerceros = "terceros"

	ChequePropio  = "propio"
	ChequeTercero = "tercero"
)

// Estados de Cheque.
const (
	EstadoDisponible = "disponible"
	EstadoEmitido    = "emitido"
	EstadoCobrado    = "cobrado"
	EstadoRechazado  = "rechazado"
	EstadoVencido    = "vencido"
	EstadoAnulado    = "anulado"
	EstadoDepositado = "depositado"
	EstadoEndosado   = "endosado"
)

// EstadosCheque lists every cheque state in display order.
var EstadosCheque = []string{
	EstadoDisponible, EstadoEmitido, EstadoCobrado, EstadoRechazado,
	EstadoVencido, EstadoAnulado, EstadoDepositado, EstadoEndosado,
}

// EstadoChequeValido reports whether estado is one of EstadosCheque.
func EstadoChequeValido(estado string) bool {
	for _, e := range EstadosCheque {
		if e == estado {
			return true
		}
	}
	return false
}

const motivoCambioEstadoDefault = "Cambio de estado"

// Chequera groups cheques of one kind for a company.
//   - propia:   self-issued cheques numbered from the reserved range
//     [RangoDesde, RangoHasta]; ProximoCheque is the next number to hand out
//     and never exceeds RangoHasta+1.
//   - terceros: custody of cheques received from other parties.
type Chequera struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Nombre        string    `gorm:"type:varchar(100);not null" json:"nombre"`
	Tipo          string    `gorm:"type:varchar(10);not null" json:"tipo"`
	Banco         string    `gorm:"type:varchar(100)" json:"banco"`
	Sucursal      string    `gorm:"type:varchar(100)" json:"sucursal"`
	NumeroCuenta  string    `gorm:"type:varchar(50)" json:"numero_cuenta"`
	RangoDesde    int64     `gorm:"not null;default:0" json:"rango_desde,omitempty"`
	RangoHasta    int64     `gorm:"not null;default:0" json:"rango_hasta,omitempty"`
	ProximoCheque int64     `gorm:"not null;default:0" json:"proximo_cheque,omitempty"`
	Activa        bool      `gorm:"not null;default:true" json:"activa"`
	Observaciones *string   `json:"observaciones,omitempty"`
	Version       int       `gorm:"not null;default:1" json:"version"`
	CreatedBy     uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Cheques holds cheques in every lifecycle state, not only unissued ones.
	Cheques     []Cheque           `gorm:"foreignKey:ChequeraID" json:"cheques,omitempty"`
	Movimientos []MovimientoCheque `gorm:"foreignKey:ChequeraID" json:"movimientos,omitempty"`
}

// ParteCheque identifies the beneficiary of a cheque.
type ParteCheque struct {
	Nombre string `gorm:"type:varchar(150)" json:"nombre"`
	CUIT   string `gorm:"type:varchar(20)" json:"cuit"`
}

// EmisorCheque is the drawer of a third-party cheque.
type EmisorCheque struct {
	Nombre       string `gorm:"type:varchar(150)" json:"nombre"`
	CUIT         string `gorm:"type:varchar(20);index" json:"cuit"`
	Banco        string `gorm:"type:varchar(100)" json:"banco"`
	Sucursal     string `gorm:"type:varchar(100)" json:"sucursal"`
	NumeroCuenta string `gorm:"type:varchar(50)" json:"numero_cuenta"`
}

// DatosBancarios is the bank snapshot printed on the cheque.
type DatosBancarios struct {
	Banco        string `gorm:"type:varchar(100)" json:"banco"`
	Sucursal     string `gorm:"type:varchar(100)" json:"sucursal"`
	NumeroCuenta string `gorm:"type:varchar(50)" json:"numero_cuenta"`
}

// Cheque is one instrument tracked through its lifecycle.
// Estado may move freely between states; every change lands in Historial.
type Cheque struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ChequeraID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"chequera_id"`
	Numero           string          `gorm:"type:varchar(30);not null" json:"numero"`
	Tipo             string          `gorm:"type:varchar(10);not null" json:"tipo"`
	Monto            decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monto"`
	FechaEmision     time.Time       `gorm:"not null" json:"fecha_emision"`
	FechaVencimiento time.Time       `gorm:"not null" json:"fecha_vencimiento"`
	Estado           string          `gorm:"type:varchar(20);not null;index" json:"estado"`
	Cliente          ParteCheque     `gorm:"embedded;embeddedPrefix:cliente_" json:"cliente"`
	Emisor           EmisorCheque    `gorm:"embedded;embeddedPrefix:emisor_" json:"emisor"`
	DatosBancarios   DatosBancarios  `gorm:"embedded;embeddedPrefix:datos_" json:"datos_bancarios"`
	Concepto         *string         `json:"concepto,omitempty"`
	Observaciones    *string         `json:"observaciones,omitempty"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Historial []HistorialEstadoCheque `gorm:"foreignKey:ChequeID" json:"historial_estados,omitempty"`
}

// HistorialEstadoCheque records one estado change. EstadoAnterior is nil for
// the intake of a third-party cheque.
type HistorialEstadoCheque struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChequeID       uuid.UUID `gorm:"type:uuid;not null;index" json:"cheque_id"`
	EstadoAnterior *string   `gorm:"type:varchar(20)" json:"estado_anterior"`
	EstadoNuevo    string    `gorm:"type:varchar(20);not null" json:"estado_nuevo"`
	Fecha          time.Time `gorm:"not null" json:"fecha"`
	Motivo         string    `json:"motivo"`
	ActorID        uuid.UUID `gorm:"type:uuid" json:"actor_id"`
}

// TableName overrides GORM's default pluralization.
func (HistorialEstadoCheque) TableName() string { return "historial_estados_cheque" }

// MovimientoCheque summarizes the cash effect of a cheque on its chequera:
// egreso when a propio cheque is issued, ingreso when a tercero cheque is received.
type MovimientoCheque struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ChequeraID uuid.UUID       `gorm:"type:uuid;not null;index" json:"chequera_id"`
	ChequeID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"cheque_id"`
	Tipo       string          `gorm:"type:varchar(10);not null" json:"tipo"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monto"`
	Fecha      time.Time       `gorm:"not null;index" json:"fecha"`
	Concepto   string          `json:"concepto"`
	CreatedBy  uuid.UUID       `gorm:"type:uuid" json:"created_by"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoCheque) TableName() string { return "movimientos_cheque" }

// NuevaChequera validates the range of a propia chequera and seeds its cursor.
func NuevaChequera(companyID uuid.UUID, nombre, tipo string, banco DatosBancarios, rangoDesde, rangoHasta int64, actorID uuid.UUID) (*Chequera, error) {
	ch := &Chequera{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Nombre:       nombre,
		Tipo:         tipo,
		Banco:        banco.Banco,
		Sucursal:     banco.Sucursal,
		NumeroCuenta: banco.NumeroCuenta,
		Activa:       true,
		Version:      1,
		CreatedBy:    actorID,
	}
	switch tipo {
	case ChequeraPropia:
		if rangoDesde <= 0 || rangoHasta < rangoDesde {
			return nil, ErrRangoInvalido
		}
		ch.RangoDesde = rangoDesde
		ch.RangoHasta = rangoHasta
		ch.ProximoCheque = rangoDesde
	case ChequeraTerceros:
	default:
		return nil, ErrTipoChequeraIncorrecto
	}
	return ch, nil
}

// SiguienteNumeroCheque hands out the cursor and advances it.
// Exhausting the range is a hard stop.
func (c *Chequera) SiguienteNumeroCheque() (int64, error) {
	if c.Tipo != ChequeraPropia {
		return 0, ErrTipoChequeraIncorrecto
	}
	if c.ProximoCheque > c.RangoHasta {
		return 0, ErrRangoAgotado
	}
	n := c.ProximoCheque
	c.ProximoCheque++
	return n, nil
}

// DatosChequePropio is the input of EmitirChequePropio. Monto > 0 is a
// precondition checked by the caller.
type DatosChequePropio struct {
	Monto            decimal.Decimal
	FechaEmision     time.Time
	FechaVencimiento time.Time
	Cliente          ParteCheque
	Concepto         *string
	Observaciones    *string
}

// EmitirChequePropio draws the next number and records the cheque already
// emitido, with the chequera's own bank details, plus its egreso movement.
func (c *Chequera) EmitirChequePropio(in DatosChequePropio, actorID uuid.UUID) (*Cheque, *MovimientoCheque, error) {
	if c.Tipo != ChequeraPropia {
		return nil, nil, ErrTipoChequeraIncorrecto
	}
	if !c.Activa {
		return nil, nil, ErrChequeraInactiva
	}
	numero, err := c.SiguienteNumeroCheque()
	if err != nil {
		return nil, nil, err
	}

	ahora := time.Now()
	fechaEmision := in.FechaEmision
	if fechaEmision.IsZero() {
		fechaEmision = ahora
	}
	disponible := EstadoDisponible
	cheque := Cheque{
		ID:               uuid.New(),
		ChequeraID:       c.ID,
		Numero:           strconv.FormatInt(numero, 10),
		Tipo:             ChequePropio,
		Monto:            in.Monto,
		FechaEmision:     fechaEmision,
		FechaVencimiento: in.FechaVencimiento,
		Estado:           EstadoEmitido,
		Cliente:          in.Cliente,
		DatosBancarios: DatosBancarios{
			Banco:        c.Banco,
			Sucursal:     c.Sucursal,
			NumeroCuenta: c.NumeroCuenta,
		},
		Concepto:      in.Concepto,
		Observaciones: in.Observaciones,
		CreatedBy:     actorID,
		CreatedAt:     ahora,
		UpdatedAt:     ahora,
	}
	cheque.Historial = []HistorialEstadoCheque{{
		ID:             uuid.New(),
		ChequeID:       cheque.ID,
		EstadoAnterior: &disponible,
		EstadoNuevo:    EstadoEmitido,
		Fecha:          ahora,
		Motivo:         "Emisión de cheque propio",
		ActorID:        actorID,
	}}

	concepto := fmt.Sprintf("Emisión cheque N° %s", cheque.Numero)
	if in.Concepto != nil && *in.Concepto != "" {
		concepto = *in.Concepto
	}
	mov := MovimientoCheque{
		ID:         uuid.New(),
		ChequeraID: c.ID,
		ChequeID:   cheque.ID,
		Tipo:       MovimientoEgreso,
		Monto:      in.Monto,
		Fecha:      ahora,
		Concepto:   concepto,
		CreatedBy:  actorID,
	}

	c.Cheques = append(c.Cheques, cheque)
	c.Movimientos = append(c.Movimientos, mov)
	return &cheque, &mov, nil
}

// DatosChequeTerceros is the input of AgregarChequeTerceros.
type DatosChequeTerceros struct {
	Numero           string
	Monto            decimal.Decimal
	FechaEmision     time.Time
	FechaVencimiento time.Time
	// Estado defaults to disponible.
	Estado        string
	Cliente       ParteCheque
	Emisor        EmisorCheque
	Concepto      *string
	Observaciones *string
}

// AgregarChequeTerceros takes custody of a received cheque and records its
// ingreso movement. (Numero, Emisor.CUIT) is unique within the chequera.
func (c *Chequera) AgregarChequeTerceros(in DatosChequeTerceros, actorID uuid.UUID) (*Cheque, *MovimientoCheque, error) {
	if c.Tipo != ChequeraTerceros {
		return nil, nil, ErrTipoChequeraIncorrecto
	}
	if !c.Activa {
		return nil, nil, ErrChequeraInactiva
	}
	for _, ch := range c.Cheques {
		if ch.Numero == in.Numero && ch.Emisor.CUIT == in.Emisor.CUIT {
			return nil, nil, ErrChequeDuplicado
		}
	}
	estado := in.Estado
	if estado == "" {
		estado = EstadoDisponible
	}
	if !EstadoChequeValido(estado) {
		return nil, nil, ErrEstadoChequeInvalido
	}

	ahora := time.Now()
	cheque := Cheque{
		ID:               uuid.New(),
		ChequeraID:       c.ID,
		Numero:           in.Numero,
		Tipo:             ChequeTercero,
		Monto:            in.Monto,
		FechaEmision:     in.FechaEmision,
		FechaVencimiento: in.FechaVencimiento,
		Estado:           estado,
		Cliente:          in.Cliente,
		Emisor:           in.Emisor,
		// the chequera only custodies the paper: bank data comes from the drawer
		DatosBancarios: DatosBancarios{
			Banco:        in.Emisor.Banco,
			Sucursal:     in.Emisor.Sucursal,
			NumeroCuenta: in.Emisor.NumeroCuenta,
		},
		Concepto:      in.Concepto,
		Observaciones: in.Observaciones,
		CreatedBy:     actorID,
		CreatedAt:     ahora,
		UpdatedAt:     ahora,
	}
	cheque.Historial = []HistorialEstadoCheque{{
		ID:          uuid.New(),
		ChequeID:    cheque.ID,
		EstadoNuevo: estado,
		Fecha:       ahora,
		Motivo:      "Ingreso de cheque de terceros",
		ActorID:     actorID,
	}}

	concepto := fmt.Sprintf("Ingreso cheque N° %s", cheque.Numero)
	if in.Concepto != nil && *in.Concepto != "" {
		concepto = *in.Concepto
	}
	mov := MovimientoCheque{
		ID:         uuid.New(),
		ChequeraID: c.ID,
		ChequeID:   cheque.ID,
		Tipo:       MovimientoIngreso,
		Monto:      in.Monto,
		Fecha:      ahora,
		Concepto:   concepto,
		CreatedBy:  actorID,
	}

	c.Cheques = append(c.Cheques, cheque)
	c.Movimientos = append(c.Movimientos, mov)
	return &cheque, &mov, nil
}

// CambiarEstadoCheque overwrites the estado of a cheque and appends exactly one
// history entry. No transition graph is enforced: any state may follow any other.
func (c *Chequera) CambiarEstadoCheque(chequeID uuid.UUID, nuevoEstado, motivo string, actorID uuid.UUID) (*Cheque, *HistorialEstadoCheque, error) {
	if !EstadoChequeValido(nuevoEstado) {
		return nil, nil, ErrEstadoChequeInvalido
	}
	idx := -1
	for i := range c.Cheques {
		if c.Cheques[i].ID == chequeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, ErrChequeNoEncontrado
	}
	if motivo == "" {
		motivo = motivoCambioEstadoDefault
	}

	ch := &c.Cheques[idx]
	anterior := ch.Estado
	ahora := time.Now()
	h := HistorialEstadoCheque{
		ID:             uuid.New(),
		ChequeID:       ch.ID,
		EstadoAnterior: &anterior,
		EstadoNuevo:    nuevoEstado,
		Fecha:          ahora,
		Motivo:         motivo,
		ActorID:        actorID,
	}
	ch.Estado = nuevoEstado
	ch.UpdatedAt = ahora
	ch.Historial = append(ch.Historial, h)

	actualizado := *ch
	return &actualizado, &h, nil
}

// BuscarCheque returns a copy of the cheque with the given id.
func (c *Chequera) BuscarCheque(chequeID uuid.UUID) (*Cheque, error) {
	for _, ch := range c.Cheques {
		if ch.ID == chequeID {
			return &ch, nil
		}
	}
	return nil, ErrChequeNoEncontrado
}

// ResumenChequera is the read-side snapshot of a chequera.
type ResumenChequera struct {
	TotalCheques  int             `json:"total_cheques"`
	PorEstado     map[string]int  `json:"por_estado"`
	PorTipo       map[string]int  `json:"por_tipo"`
	TotalIngresos decimal.Decimal `json:"total_ingresos"`
	TotalEgresos  decimal.Decimal `json:"total_egresos"`
	Saldo         decimal.Decimal `json:"saldo"`
	// ChequesRestantes is only reported for propia chequeras.
	ChequesRestantes *int64 `json:"cheques_restantes,omitempty"`
}

// Resumen counts cheques per estado (all states, zeros included) and per tipo,
// and totals the movements.
func (c *Chequera) Resumen() ResumenChequera {
	r := ResumenChequera{
		TotalCheques:  len(c.Cheques),
		PorEstado:     make(map[string]int, len(EstadosCheque)),
		PorTipo:       map[string]int{ChequePropio: 0, ChequeTercero: 0},
		TotalIngresos: decimal.Zero,
		TotalEgresos:  decimal.Zero,
	}
	for _, e := range EstadosCheque {
		r.PorEstado[e] = 0
	}
	for _, ch := range c.Cheques {
		r.PorEstado[ch.Estado]++
		r.PorTipo[ch.Tipo]++
	}
	for _, m := range c.Movimientos {
		switch m.Tipo {
		case MovimientoIngreso:
			r.TotalIngresos = r.TotalIngresos.Add(m.Monto)
		case MovimientoEgreso:
			r.TotalEgresos = r.TotalEgresos.Add(m.Monto)
		}
	}
	r.Saldo = r.TotalIngresos.Sub(r.TotalEgresos)
	if c.Tipo == ChequeraPropia {
		restantes := c.RangoHasta - c.ProximoCheque + 1
		r.ChequesRestantes = &restantes
	}
	return r
}

// FiltroCheques narrows ListarCheques. Empty fields do not filter.
type FiltroCheques struct {
	Estado      string
	Tipo        string
	EmisorCUIT  string
	ClienteCUIT string
	Desde       *time.Time
	Hasta       *time.Time
}

// FiltrarCheques returns the cheques matching every set field, by FechaEmision.
func (c *Chequera) FiltrarCheques(f FiltroCheques) []Cheque {
	out := make([]Cheque, 0)
	for _, ch := range c.Cheques {
		if f.Estado != "" && ch.Estado != f.Estado {
			continue
		}
		if f.Tipo != "" && ch.Tipo != f.Tipo {
			continue
		}
		if f.EmisorCUIT != "" && ch.Emisor.CUIT != f.EmisorCUIT {
			continue
		}
		if f.ClienteCUIT != "" && ch.Cliente.CUIT != f.ClienteCUIT {
			continue
		}
		if f.Desde != nil && ch.FechaEmision.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && ch.FechaEmision.After(*f.Hasta) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// ChequesPorEstado returns the cheques currently in estado.
func (c *Chequera) ChequesPorEstado(estado string) []Cheque {
	return c.FiltrarCheques(FiltroCheques{Estado: estado})
}

// ChequesPorTipo returns the propio or tercero cheques.
func (c *Chequera) ChequesPorTipo(tipo string) []Cheque {
	return c.FiltrarCheques(FiltroCheques{Tipo: tipo})
}

// ChequesPorEmisor returns the cheques drawn by the given CUIT.
func (c *Chequera) ChequesPorEmisor(cuit string) []Cheque {
	return c.FiltrarCheques(FiltroCheques{EmisorCUIT: cuit})
}

// MovimientosPorTipo returns the ingreso or egreso movements; empty tipo returns all.
func (c *Chequera) MovimientosPorTipo(tipo string) []MovimientoCheque {
	out := make([]MovimientoCheque, 0)
	for _, m := range c.Movimientos {
		if tipo == "" || m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

// Desactivar soft-deletes the chequera.
func (c *Chequera) Desactivar() {
	c.Activa = false
}

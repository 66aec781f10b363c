package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de Factura.
const (
	FacturaPendiente = "pendiente"
	FacturaParcial   = "parcial"
	FacturaPagada    = "pagada"
)

// Sides of a MovimientoCuentaCorriente.
const (
	CuentaDebe  = "debe"
	CuentaHaber = "haber"
)

// Payment methods, also used as the AplicacionPago discriminator.
const (
	PagoEfectivoMetodo = "efectivo"
	PagoBancarioMetodo = "bancario"
	PagoChequeMetodo   = "cheque"
)

// Cliente is the accounts-receivable aggregate.
// SaldoActual is signed: positive means the client owes money.
type Cliente struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Nombre        string          `gorm:"type:varchar(150);not null" json:"nombre"`
	CUIT          *string         `gorm:"type:varchar(20);index" json:"cuit,omitempty"`
	Email         *string         `gorm:"type:varchar(150)" json:"email,omitempty"`
	Telefono      *string         `gorm:"type:varchar(50)" json:"telefono,omitempty"`
	Direccion     *string         `json:"direccion,omitempty"`
	LimiteCredito decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"limite_credito"`
	SaldoActual   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"saldo_actual"`
	Activo        bool            `gorm:"not null;default:true" json:"activo"`
	Version       int             `gorm:"not null;default:1" json:"version"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Facturas        []Factura                   `gorm:"foreignKey:ClienteID" json:"facturas,omitempty"`
	Presupuestos    []Presupuesto               `gorm:"foreignKey:ClienteID" json:"presupuestos,omitempty"`
	CuentaCorriente []MovimientoCuentaCorriente `gorm:"foreignKey:ClienteID" json:"cuenta_corriente,omitempty"`
	PagosEfectivo   []PagoEfectivo              `gorm:"foreignKey:ClienteID" json:"pagos_efectivo,omitempty"`
	PagosBancarios  []PagoBancario              `gorm:"foreignKey:ClienteID" json:"pagos_bancarios,omitempty"`
	PagosCheque     []PagoCheque                `gorm:"foreignKey:ClienteID" json:"pagos_cheque,omitempty"`

	// Creditos is the unapplied part of past payments, oldest first. It is
	// derived on load and only non-empty while SaldoActual is negative.
	Creditos []CreditoPago `gorm:"-" json:"-"`
}

// Factura is an invoice issued to the client. SaldoPendiente drops as payments
// are imputed; Estado follows it.
type Factura struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClienteID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"cliente_id"`
	Numero           string          `gorm:"type:varchar(40);not null" json:"numero"`
	Fecha            time.Time       `gorm:"not null" json:"fecha"`
	FechaVencimiento time.Time       `gorm:"not null;index" json:"fecha_vencimiento"`
	Concepto         string          `json:"concepto"`
	Total            decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	SaldoPendiente   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"saldo_pendiente"`
	Estado           string          `gorm:"type:varchar(20);not null;default:'pendiente'" json:"estado"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Presupuesto is a quote. It has no effect on the balance.
type Presupuesto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClienteID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"cliente_id"`
	Numero      string          `gorm:"type:varchar(40);not null" json:"numero"`
	Fecha       time.Time       `gorm:"not null" json:"fecha"`
	ValidoHasta *time.Time      `json:"valido_hasta,omitempty"`
	Concepto    string          `json:"concepto"`
	Total       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MovimientoCuentaCorriente is one running-account entry.
type MovimientoCuentaCorriente struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClienteID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"cliente_id"`
	Tipo          string          `gorm:"type:varchar(10);not null" json:"tipo"`
	Concepto      string          `json:"concepto"`
	Monto         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monto"`
	SaldoAnterior decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"saldo_anterior"`
	SaldoActual   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"saldo_actual"`
	// ReferenciaTipo is "factura" or one of the payment methods.
	ReferenciaTipo string    `gorm:"type:varchar(20)" json:"referencia_tipo"`
	ReferenciaID   uuid.UUID `gorm:"type:uuid" json:"referencia_id"`
	Fecha          time.Time `gorm:"not null;index" json:"fecha"`
	CreatedBy      uuid.UUID `gorm:"type:uuid" json:"created_by"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoCuentaCorriente) TableName() string { return "movimientos_cuenta_corriente" }

// PagoEfectivo is a cash payment. CajaID, when set, receives an ingreso
// through an AcreditacionCaja.
type PagoEfectivo struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClienteID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"cliente_id"`
	NumeroRecibo string          `gorm:"type:varchar(40);not null" json:"numero_recibo"`
	Fecha        time.Time       `gorm:"not null" json:"fecha"`
	Monto        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monto"`
	Concepto     string          `json:"concepto"`
	CajaID       *uuid.UUID      `gorm:"type:uuid" json:"caja_id,omitempty"`
	CreatedBy    uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TableName overrides GORM's default pluralization.
func (PagoEfectivo) TableName() string { return "pagos_efectivo" }

// PagoBancario is a transfer or deposit.
type PagoBancario struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClienteID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"cliente_id"`
	NumeroRecibo    string          `gorm:"type:varchar(40);not null" json:"numero_recibo"`
	Fecha           time.Time       `gorm:"not null" json:"fecha"`
	Monto           decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monto"`
	Concepto        string          `json:"concepto"`
	Banco           string          `gorm:"type:varchar(100)" json:"banco"`
	NumeroOperacion string          `gorm:"type:varchar(50)" json:"numero_operacion"`
	TipoOperacion   string          `gorm:"type:varchar(20)" json:"tipo_operacion"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TableName overrides GORM's default pluralization.
func (PagoBancario) TableName() string { return "pagos_bancarios" }

// PagoCheque is a payment with a third-party cheque. ChequeraID and ChequeID
// point at the custody record when the cheque was deposited in a chequera.
type PagoCheque struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClienteID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"cliente_id"`
	NumeroRecibo     string          `gorm:"type:varchar(40);not null" json:"numero_recibo"`
	Fecha            time.Time       `gorm:"not null" json:"fecha"`
	Monto            decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monto"`
	Concepto         string          `json:"concepto"`
	NumeroCheque     string          `gorm:"type:varchar(30);not null" json:"numero_cheque"`
	Emisor           EmisorCheque    `gorm:"embedded;embeddedPrefix:emisor_" json:"emisor"`
	FechaEmision     time.Time       `json:"fecha_emision"`
	FechaVencimiento time.Time       `json:"fecha_vencimiento"`
	ChequeraID       *uuid.UUID      `gorm:"type:uuid" json:"chequera_id,omitempty"`
	ChequeID         *uuid.UUID      `gorm:"type:uuid" json:"cheque_id,omitempty"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TableName overrides GORM's default pluralization.
func (PagoCheque) TableName() string { return "pagos_cheque" }

// AplicacionPago records how much of a payment went to one invoice.
type AplicacionPago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClienteID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"cliente_id"`
	PagoID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"pago_id"`
	MetodoPago string          `gorm:"type:varchar(20);not null" json:"metodo_pago"`
	FacturaID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"factura_id"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monto"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName overrides GORM's default pluralization.
func (AplicacionPago) TableName() string { return "aplicaciones_pago" }

// CreditoPago is what is left of one payment after its applications.
type CreditoPago struct {
	PagoID     uuid.UUID
	MetodoPago string
	Fecha      time.Time
	Disponible decimal.Decimal
}

// CreditosPendientes subtracts the applications from each payment (Disponible
// holds the payment amount on input) and returns those with money left,
// oldest first.
func CreditosPendientes(pagos []CreditoPago, aplicaciones []AplicacionPago) []CreditoPago {
	aplicado := make(map[uuid.UUID]decimal.Decimal, len(aplicaciones))
	for _, a := range aplicaciones {
		aplicado[a.PagoID] = aplicado[a.PagoID].Add(a.Monto)
	}
	out := make([]CreditoPago, 0)
	for _, p := range pagos {
		p.Disponible = p.Disponible.Sub(aplicado[p.PagoID])
		if p.Disponible.IsPositive() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out
}

// NuevoCliente builds an active client with a zero balance.
func NuevoCliente(companyID uuid.UUID, nombre string, limiteCredito decimal.Decimal, actorID uuid.UUID) *Cliente {
	return &Cliente{
		ID:            uuid.New(),
		CompanyID:     companyID,
		Nombre:        nombre,
		LimiteCredito: limiteCredito,
		SaldoActual:   decimal.Zero,
		Activo:        true,
		Version:       1,
		CreatedBy:     actorID,
	}
}

// DatosFactura is the input of AgregarFactura.
type DatosFactura struct {
	Fecha            time.Time
	FechaVencimiento time.Time
	Concepto         string
	Total            decimal.Decimal
}

// AgregarFactura debits the invoice total and appends the matching cuenta
// corriente entry. numero comes from the factura Contador. A client in credit
// pays the new invoice out of its oldest unapplied payments first.
func (c *Cliente) AgregarFactura(in DatosFactura, numero string, actorID uuid.UUID) (*Factura, *Imputacion, error) {
	if !c.Activo {
		return nil, nil, ErrClienteInactivo
	}
	if !in.Total.IsPositive() {
		return nil, nil, ErrMontoInvalido
	}
	ahora := time.Now()
	fecha := in.Fecha
	if fecha.IsZero() {
		fecha = ahora
	}
	venc := in.FechaVencimiento
	if venc.IsZero() {
		venc = fecha
	}
	f := Factura{
		ID:               uuid.New(),
		ClienteID:        c.ID,
		Numero:           numero,
		Fecha:            fecha,
		FechaVencimiento: venc,
		Concepto:         in.Concepto,
		Total:            in.Total,
		SaldoPendiente:   in.Total,
		Estado:           FacturaPendiente,
		CreatedBy:        actorID,
		CreatedAt:        ahora,
		UpdatedAt:        ahora,
	}
	imp := &Imputacion{}
	if c.SaldoActual.IsNegative() {
		imp.Aplicaciones = c.consumirCreditos(&f, decimal.Min(c.SaldoActual.Neg(), in.Total), ahora)
	}
	c.Facturas = append(c.Facturas, f)
	concepto := "Factura " + numero
	if in.Concepto != "" {
		concepto += " - " + in.Concepto
	}
	imp.Movimiento = c.asentar(CuentaDebe, in.Total, concepto, "factura", f.ID, actorID, ahora)
	return &f, imp, nil
}

// consumirCreditos applies up to monto of the client's credits to f.
func (c *Cliente) consumirCreditos(f *Factura, monto decimal.Decimal, ahora time.Time) []AplicacionPago {
	var apps []AplicacionPago
	resto := monto
	quedan := c.Creditos[:0]
	for _, cr := range c.Creditos {
		if resto.IsPositive() {
			aplicado := decimal.Min(resto, cr.Disponible)
			resto = resto.Sub(aplicado)
			cr.Disponible = cr.Disponible.Sub(aplicado)
			f.SaldoPendiente = f.SaldoPendiente.Sub(aplicado)
			apps = append(apps, AplicacionPago{
				ID:         uuid.New(),
				ClienteID:  c.ID,
				PagoID:     cr.PagoID,
				MetodoPago: cr.MetodoPago,
				FacturaID:  f.ID,
				Monto:      aplicado,
				CreatedAt:  ahora,
			})
		}
		if cr.Disponible.IsPositive() {
			quedan = append(quedan, cr)
		}
	}
	c.Creditos = quedan
	switch {
	case f.SaldoPendiente.IsZero():
		f.Estado = FacturaPagada
	case f.SaldoPendiente.LessThan(f.Total):
		f.Estado = FacturaParcial
	}
	return apps
}

// DatosPresupuesto is the input of AgregarPresupuesto.
type DatosPresupuesto struct {
	Fecha       time.Time
	ValidoHasta *time.Time
	Concepto    string
	Total       decimal.Decimal
}

// AgregarPresupuesto appends a quote; the balance is not touched.
func (c *Cliente) AgregarPresupuesto(in DatosPresupuesto, numero string, actorID uuid.UUID) (*Presupuesto, error) {
	if !c.Activo {
		return nil, ErrClienteInactivo
	}
	if !in.Total.IsPositive() {
		return nil, ErrMontoInvalido
	}
	ahora := time.Now()
	fecha := in.Fecha
	if fecha.IsZero() {
		fecha = ahora
	}
	p := Presupuesto{
		ID:          uuid.New(),
		ClienteID:   c.ID,
		Numero:      numero,
		Fecha:       fecha,
		ValidoHasta: in.ValidoHasta,
		Concepto:    in.Concepto,
		Total:       in.Total,
		CreatedBy:   actorID,
		CreatedAt:   ahora,
	}
	c.Presupuestos = append(c.Presupuestos, p)
	return &p, nil
}

// DatosPago holds the fields every payment method shares.
type DatosPago struct {
	Fecha    time.Time
	Monto    decimal.Decimal
	Concepto string
}

// Imputacion is the ledger effect of one payment or invoice: its cuenta
// corriente entry, the invoice applications, and the already stored invoices
// whose saldo changed.
type Imputacion struct {
	Movimiento   MovimientoCuentaCorriente
	Aplicaciones []AplicacionPago
	Facturas     []Factura
}

// RegistrarPagoEfectivo credits a cash payment. cajaID is only recorded here;
// the caja ingreso is applied separately.
func (c *Cliente) RegistrarPagoEfectivo(in DatosPago, cajaID *uuid.UUID, numeroRecibo string, actorID uuid.UUID) (*PagoEfectivo, *Imputacion, error) {
	if err := c.validarPago(in); err != nil {
		return nil, nil, err
	}
	ahora := time.Now()
	p := PagoEfectivo{
		ID:           uuid.New(),
		ClienteID:    c.ID,
		NumeroRecibo: numeroRecibo,
		Fecha:        fechaOAhora(in.Fecha, ahora),
		Monto:        in.Monto,
		Concepto:     in.Concepto,
		CajaID:       cajaID,
		CreatedBy:    actorID,
		CreatedAt:    ahora,
	}
	c.PagosEfectivo = append(c.PagosEfectivo, p)
	imp := c.imputar(PagoEfectivoMetodo, p.ID, in.Monto, conceptoPago("efectivo", numeroRecibo, in.Concepto), actorID, ahora)
	return &p, imp, nil
}

// DatosPagoBancario is the input of RegistrarPagoBancario.
type DatosPagoBancario struct {
	DatosPago
	Banco           string
	NumeroOperacion string
	TipoOperacion   string
}

// RegistrarPagoBancario credits a bank transfer or deposit.
func (c *Cliente) RegistrarPagoBancario(in DatosPagoBancario, numeroRecibo string, actorID uuid.UUID) (*PagoBancario, *Imputacion, error) {
	if err := c.validarPago(in.DatosPago); err != nil {
		return nil, nil, err
	}
	tipo := in.TipoOperacion
	if tipo == "" {
		tipo = "transferencia"
	}
	ahora := time.Now()
	p := PagoBancario{
		ID:              uuid.New(),
		ClienteID:       c.ID,
		NumeroRecibo:    numeroRecibo,
		Fecha:           fechaOAhora(in.Fecha, ahora),
		Monto:           in.Monto,
		Concepto:        in.Concepto,
		Banco:           in.Banco,
		NumeroOperacion: in.NumeroOperacion,
		TipoOperacion:   tipo,
		CreatedBy:       actorID,
		CreatedAt:       ahora,
	}
	c.PagosBancarios = append(c.PagosBancarios, p)
	imp := c.imputar(PagoBancarioMetodo, p.ID, in.Monto, conceptoPago(tipo, numeroRecibo, in.Concepto), actorID, ahora)
	return &p, imp, nil
}

// DatosPagoCheque is the input of RegistrarPagoCheque.
type DatosPagoCheque struct {
	DatosPago
	NumeroCheque     string
	Emisor           EmisorCheque
	FechaEmision     time.Time
	FechaVencimiento time.Time
}

// RegistrarPagoCheque credits a cheque payment. chequeraID and chequeID are set
// when the cheque was taken into custody by a terceros chequera.
func (c *Cliente) RegistrarPagoCheque(in DatosPagoCheque, chequeraID, chequeID *uuid.UUID, numeroRecibo string, actorID uuid.UUID) (*PagoCheque, *Imputacion, error) {
	if err := c.validarPago(in.DatosPago); err != nil {
		return nil, nil, err
	}
	ahora := time.Now()
	p := PagoCheque{
		ID:               uuid.New(),
		ClienteID:        c.ID,
		NumeroRecibo:     numeroRecibo,
		Fecha:            fechaOAhora(in.Fecha, ahora),
		Monto:            in.Monto,
		Concepto:         in.Concepto,
		NumeroCheque:     in.NumeroCheque,
		Emisor:           in.Emisor,
		FechaEmision:     in.FechaEmision,
		FechaVencimiento: in.FechaVencimiento,
		ChequeraID:       chequeraID,
		ChequeID:         chequeID,
		CreatedBy:        actorID,
		CreatedAt:        ahora,
	}
	c.PagosCheque = append(c.PagosCheque, p)
	imp := c.imputar(PagoChequeMetodo, p.ID, in.Monto, conceptoPago("cheque N° "+in.NumeroCheque, numeroRecibo, in.Concepto), actorID, ahora)
	return &p, imp, nil
}

func (c *Cliente) validarPago(in DatosPago) error {
	if !c.Activo {
		return ErrClienteInactivo
	}
	if !in.Monto.IsPositive() {
		return ErrMontoInvalido
	}
	return nil
}

// imputar credits monto on the running account and applies it to the open
// invoices, oldest due date first. Any surplus stays as credit in SaldoActual
// and in Creditos, for the next invoice.
func (c *Cliente) imputar(metodo string, pagoID uuid.UUID, monto decimal.Decimal, concepto string, actorID uuid.UUID, ahora time.Time) *Imputacion {
	imp := &Imputacion{}
	imp.Movimiento = c.asentar(CuentaHaber, monto, concepto, metodo, pagoID, actorID, ahora)

	abiertas := make([]int, 0, len(c.Facturas))
	for i := range c.Facturas {
		if c.Facturas[i].SaldoPendiente.IsPositive() {
			abiertas = append(abiertas, i)
		}
	}
	sort.SliceStable(abiertas, func(a, b int) bool {
		fa, fb := c.Facturas[abiertas[a]], c.Facturas[abiertas[b]]
		if !fa.FechaVencimiento.Equal(fb.FechaVencimiento) {
			return fa.FechaVencimiento.Before(fb.FechaVencimiento)
		}
		return fa.Fecha.Before(fb.Fecha)
	})

	resto := monto
	for _, i := range abiertas {
		if !resto.IsPositive() {
			break
		}
		f := &c.Facturas[i]
		aplicado := decimal.Min(resto, f.SaldoPendiente)
		f.SaldoPendiente = f.SaldoPendiente.Sub(aplicado)
		if f.SaldoPendiente.IsZero() {
			f.Estado = FacturaPagada
		} else {
			f.Estado = FacturaParcial
		}
		f.UpdatedAt = ahora
		resto = resto.Sub(aplicado)

		imp.Aplicaciones = append(imp.Aplicaciones, AplicacionPago{
			ID:         uuid.New(),
			ClienteID:  c.ID,
			PagoID:     pagoID,
			MetodoPago: metodo,
			FacturaID:  f.ID,
			Monto:      aplicado,
			CreatedAt:  ahora,
		})
		imp.Facturas = append(imp.Facturas, *f)
	}
	if resto.IsPositive() {
		c.Creditos = append(c.Creditos, CreditoPago{PagoID: pagoID, MetodoPago: metodo, Fecha: ahora, Disponible: resto})
	}
	return imp
}

func (c *Cliente) asentar(tipo string, monto decimal.Decimal, concepto, refTipo string, refID, actorID uuid.UUID, ahora time.Time) MovimientoCuentaCorriente {
	anterior := c.SaldoActual
	if tipo == CuentaDebe {
		c.SaldoActual = c.SaldoActual.Add(monto)
	} else {
		c.SaldoActual = c.SaldoActual.Sub(monto)
	}
	mov := MovimientoCuentaCorriente{
		ID:             uuid.New(),
		ClienteID:      c.ID,
		Tipo:           tipo,
		Concepto:       concepto,
		Monto:          monto,
		SaldoAnterior:  anterior,
		SaldoActual:    c.SaldoActual,
		ReferenciaTipo: refTipo,
		ReferenciaID:   refID,
		Fecha:          ahora,
		CreatedBy:      actorID,
	}
	c.CuentaCorriente = append(c.CuentaCorriente, mov)
	return mov
}

func fechaOAhora(f, ahora time.Time) time.Time {
	if f.IsZero() {
		return ahora
	}
	return f
}

func conceptoPago(medio, recibo, concepto string) string {
	s := "Pago " + medio + " - Recibo " + recibo
	if concepto != "" {
		s += " - " + concepto
	}
	return s
}

// ResumenCliente aggregates the loaded sub-ledgers.
type ResumenCliente struct {
	TotalFacturado     decimal.Decimal `json:"total_facturado"`
	TotalPresupuestado decimal.Decimal `json:"total_presupuestado"`
	TotalEfectivo      decimal.Decimal `json:"total_pagado_efectivo"`
	TotalBancario      decimal.Decimal `json:"total_pagado_bancario"`
	TotalCheques       decimal.Decimal `json:"total_pagado_cheques"`
	TotalPagado        decimal.Decimal `json:"total_pagado"`
	CantidadFacturas   int             `json:"cantidad_facturas"`
	CantidadPagos      int             `json:"cantidad_pagos"`
	FacturasPendientes int             `json:"facturas_pendientes"`
	SaldoActual        decimal.Decimal `json:"saldo_actual"`
}

func (c *Cliente) Resumen() ResumenCliente {
	r := ResumenCliente{
		TotalFacturado:     decimal.Zero,
		TotalPresupuestado: decimal.Zero,
		TotalEfectivo:      decimal.Zero,
		TotalBancario:      decimal.Zero,
		TotalCheques:       decimal.Zero,
		CantidadFacturas:   len(c.Facturas),
		CantidadPagos:      len(c.PagosEfectivo) + len(c.PagosBancarios) + len(c.PagosCheque),
		SaldoActual:        c.SaldoActual,
	}
	for _, f := range c.Facturas {
		r.TotalFacturado = r.TotalFacturado.Add(f.Total)
		if f.Estado != FacturaPagada {
			r.FacturasPendientes++
		}
	}
	for _, p := range c.Presupuestos {
		r.TotalPresupuestado = r.TotalPresupuestado.Add(p.Total)
	}
	for _, p := range c.PagosEfectivo {
		r.TotalEfectivo = r.TotalEfectivo.Add(p.Monto)
	}
	for _, p := range c.PagosBancarios {
		r.TotalBancario = r.TotalBancario.Add(p.Monto)
	}
	for _, p := range c.PagosCheque {
		r.TotalCheques = r.TotalCheques.Add(p.Monto)
	}
	r.TotalPagado = r.TotalEfectivo.Add(r.TotalBancario).Add(r.TotalCheques)
	return r
}

// EstadoCrediticio is the credit position of a client at a point in time.
type EstadoCrediticio struct {
	SaldoActual       decimal.Decimal `json:"saldo_actual"`
	LimiteCredito     decimal.Decimal `json:"limite_credito"`
	CreditoDisponible decimal.Decimal `json:"credito_disponible"`
	LimiteExcedido    bool            `json:"limite_excedido"`
	FacturasVencidas  []Factura       `json:"facturas_vencidas"`
	MontoVencido      decimal.Decimal `json:"monto_vencido"`
}

// EstadoCrediticio lists unpaid invoices due before ahora. A zero
// LimiteCredito means no credit line, so any debt exceeds it.
func (c *Cliente) EstadoCrediticio(ahora time.Time) EstadoCrediticio {
	e := EstadoCrediticio{
		SaldoActual:       c.SaldoActual,
		LimiteCredito:     c.LimiteCredito,
		CreditoDisponible: c.LimiteCredito.Sub(c.SaldoActual),
		FacturasVencidas:  make([]Factura, 0),
		MontoVencido:      decimal.Zero,
	}
	e.LimiteExcedido = c.SaldoActual.GreaterThan(c.LimiteCredito)
	if e.CreditoDisponible.IsNegative() {
		e.CreditoDisponible = decimal.Zero
	}
	for _, f := range c.Facturas {
		if f.Estado != FacturaPagada && f.FechaVencimiento.Before(ahora) {
			e.FacturasVencidas = append(e.FacturasVencidas, f)
			e.MontoVencido = e.MontoVencido.Add(f.SaldoPendiente)
		}
	}
	return e
}

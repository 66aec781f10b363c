package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"tesoreria/internal/dto"
	"tesoreria/internal/model"
	"tesoreria/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. DB() returns nil, so services run their
// transaction bodies directly. Finders hand out copies so a rejected
// operation never leaks into the stored state.

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

// ── Contadores ───────────────────────────────────────────────────────────────

type fakeContadorRepo struct {
	mu         sync.Mutex
	contadores map[string]*model.Contador
}

func newFakeContadorRepo() *fakeContadorRepo {
	return &fakeContadorRepo{contadores: make(map[string]*model.Contador)}
}

func contadorKey(companyID uuid.UUID, tipo string) string { return companyID.String() + "/" + tipo }

func (r *fakeContadorRepo) Next(_ context.Context, _ *gorm.DB, companyID uuid.UUID, tipo string, defaults model.Contador, actorID uuid.UUID) (*model.Contador, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contadores[contadorKey(companyID, tipo)]
	if !ok {
		nuevo := defaults
		nuevo.ID = uuid.New()
		nuevo.CompanyID = companyID
		nuevo.TipoDocumento = tipo
		c = &nuevo
		r.contadores[contadorKey(companyID, tipo)] = c
	}
	c.Secuencia++
	c.UpdatedBy = actorID
	out := *c
	return &out, nil
}

func (r *fakeContadorRepo) Find(_ context.Context, companyID uuid.UUID, tipo string) (*model.Contador, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contadores[contadorKey(companyID, tipo)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *c
	return &out, nil
}

func (r *fakeContadorRepo) List(_ context.Context, companyID uuid.UUID) ([]model.Contador, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Contador, 0)
	for _, c := range r.contadores {
		if c.CompanyID == companyID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TipoDocumento < out[j].TipoDocumento })
	return out, nil
}

func (r *fakeContadorRepo) Upsert(_ context.Context, c *model.Contador, columnas []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual, ok := r.contadores[contadorKey(c.CompanyID, c.TipoDocumento)]
	if !ok {
		nuevo := *c
		r.contadores[contadorKey(c.CompanyID, c.TipoDocumento)] = &nuevo
		return nil
	}
	for _, col := range columnas {
		switch col {
		case "prefijo":
			actual.Prefijo = c.Prefijo
		case "sufijo":
			actual.Sufijo = c.Sufijo
		case "formato":
			actual.Formato = c.Formato
		case "punto_venta":
			actual.PuntoVenta = c.PuntoVenta
		case "updated_by":
			actual.UpdatedBy = c.UpdatedBy
		}
	}
	return nil
}

func (r *fakeContadorRepo) Reset(_ context.Context, companyID uuid.UUID, tipo string, valor int64, actorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contadores[contadorKey(companyID, tipo)]
	if !ok {
		return model.ErrContadorNoEncontrado
	}
	c.Secuencia = valor
	c.UpdatedBy = actorID
	return nil
}

var _ repository.ContadorRepository = (*fakeContadorRepo)(nil)

// ── Cajas ────────────────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	mu    sync.Mutex
	cajas map[uuid.UUID]model.Caja
	movs  []model.MovimientoCaja
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{cajas: make(map[uuid.UUID]model.Caja)}
}

func (r *fakeCajaRepo) DB() *gorm.DB { return nil }

func (r *fakeCajaRepo) Create(_ context.Context, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.cajas {
		if o.CompanyID == c.CompanyID && o.Activa && o.Nombre == c.Nombre {
			return model.ErrNombreCajaDuplicado
		}
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	guardada := *c
	guardada.Movimientos = nil
	r.cajas[c.ID] = guardada
	return nil
}

func (r *fakeCajaRepo) find(companyID, id uuid.UUID) (*model.Caja, error) {
	c, ok := r.cajas[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeCajaRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(companyID, id)
}

func (r *fakeCajaRepo) FindForUpdate(_ context.Context, _ *gorm.DB, companyID, id uuid.UUID) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(companyID, id)
}

func (r *fakeCajaRepo) FindWithMovimientos(_ context.Context, companyID, id uuid.UUID) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.find(companyID, id)
	if err != nil {
		return nil, err
	}
	for _, m := range r.movs {
		if m.CajaID == id {
			c.Movimientos = append(c.Movimientos, m)
		}
	}
	sort.Slice(c.Movimientos, func(i, j int) bool {
		return c.Movimientos[i].NumeroMovimiento < c.Movimientos[j].NumeroMovimiento
	})
	return c, nil
}

func (r *fakeCajaRepo) List(_ context.Context, companyID uuid.UUID, incluirInactivas bool, offset, limit int) ([]model.Caja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Caja, 0)
	for _, c := range r.cajas {
		if c.CompanyID == companyID && (incluirInactivas || c.Activa) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	total := int64(len(out))
	return pagina(out, offset, limit), total, nil
}

func (r *fakeCajaRepo) ExisteNombreActivo(_ context.Context, companyID uuid.UUID, nombre string, excluir uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cajas {
		if c.CompanyID == companyID && c.Activa && c.Nombre == nombre && c.ID != excluir {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCajaRepo) Update(_ context.Context, _ *gorm.DB, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual, ok := r.cajas[c.ID]
	if !ok || actual.Version != c.Version {
		return model.ErrConflictoConcurrencia
	}
	c.Version++
	guardada := *c
	guardada.Movimientos = nil
	r.cajas[c.ID] = guardada
	return nil
}

func (r *fakeCajaRepo) CreateMovimientos(_ context.Context, _ *gorm.DB, movs ...*model.MovimientoCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range movs {
		r.movs = append(r.movs, *m)
	}
	return nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, cajaID uuid.UUID, q repository.MovimientoCajaQuery) ([]model.MovimientoCaja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.MovimientoCaja, 0)
	for _, m := range r.movs {
		if m.CajaID != cajaID {
			continue
		}
		if q.Tipo != "" && m.Tipo != q.Tipo {
			continue
		}
		if q.Categoria != "" && (m.Categoria == nil || *m.Categoria != q.Categoria) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumeroMovimiento > out[j].NumeroMovimiento })
	total := int64(len(out))
	return pagina(out, q.Offset, q.Limit), total, nil
}

func (r *fakeCajaRepo) movimientosDe(cajaID uuid.UUID) []model.MovimientoCaja {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.MovimientoCaja, 0)
	for _, m := range r.movs {
		if m.CajaID == cajaID {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

// ── Acreditaciones ───────────────────────────────────────────────────────────

type fakeAcreditacionRepo struct {
	mu    sync.Mutex
	filas map[uuid.UUID]model.AcreditacionCaja
}

func newFakeAcreditacionRepo() *fakeAcreditacionRepo {
	return &fakeAcreditacionRepo{filas: make(map[uuid.UUID]model.AcreditacionCaja)}
}

func (r *fakeAcreditacionRepo) Create(_ context.Context, _ *gorm.DB, a *model.AcreditacionCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filas[a.ID] = *a
	return nil
}

func (r *fakeAcreditacionRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.AcreditacionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.filas[id]
	if !ok || a.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *fakeAcreditacionRepo) FindForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.AcreditacionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.filas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *fakeAcreditacionRepo) Update(_ context.Context, _ *gorm.DB, a *model.AcreditacionCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filas[a.ID] = *a
	return nil
}

func (r *fakeAcreditacionRepo) ListDue(_ context.Context, ahora time.Time, gracia time.Duration, limit int) ([]model.AcreditacionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AcreditacionCaja, 0)
	for _, a := range r.filas {
		if !a.Pendiente() {
			continue
		}
		if (a.NextRetryAt != nil && !a.NextRetryAt.After(ahora)) ||
			(a.NextRetryAt == nil && !a.CreatedAt.After(ahora.Add(-gracia))) {
			out = append(out, a)
		}
	}
	return pagina(out, 0, limit), nil
}

func (r *fakeAcreditacionRepo) List(_ context.Context, companyID uuid.UUID, estado string, offset, limit int) ([]model.AcreditacionCaja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AcreditacionCaja, 0)
	for _, a := range r.filas {
		if a.CompanyID == companyID && (estado == "" || a.Estado == estado) {
			out = append(out, a)
		}
	}
	total := int64(len(out))
	return pagina(out, offset, limit), total, nil
}

func (r *fakeAcreditacionRepo) get(id uuid.UUID) model.AcreditacionCaja {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filas[id]
}

var _ repository.AcreditacionRepository = (*fakeAcreditacionRepo)(nil)

// ── Chequeras ────────────────────────────────────────────────────────────────

type fakeChequeraRepo struct {
	mu        sync.Mutex
	chequeras map[uuid.UUID]model.Chequera
	cheques   map[uuid.UUID][]model.Cheque
	movs      map[uuid.UUID][]model.MovimientoCheque
}

func newFakeChequeraRepo() *fakeChequeraRepo {
	return &fakeChequeraRepo{
		chequeras: make(map[uuid.UUID]model.Chequera),
		cheques:   make(map[uuid.UUID][]model.Cheque),
		movs:      make(map[uuid.UUID][]model.MovimientoCheque),
	}
}

func (r *fakeChequeraRepo) DB() *gorm.DB { return nil }

func (r *fakeChequeraRepo) Create(_ context.Context, c *model.Chequera) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.chequeras {
		if o.CompanyID == c.CompanyID && o.Activa && o.Nombre == c.Nombre {
			return model.ErrNombreChequeraDuplicado
		}
	}
	guardada := *c
	guardada.Cheques, guardada.Movimientos = nil, nil
	r.chequeras[c.ID] = guardada
	return nil
}

func (r *fakeChequeraRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Chequera, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chequeras[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeChequeraRepo) FindFull(_ context.Context, companyID, id uuid.UUID) (*model.Chequera, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chequeras[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	for _, ch := range r.cheques[id] {
		ch.Historial = append([]model.HistorialEstadoCheque(nil), ch.Historial...)
		c.Cheques = append(c.Cheques, ch)
	}
	c.Movimientos = append([]model.MovimientoCheque(nil), r.movs[id]...)
	return &c, nil
}

func (r *fakeChequeraRepo) FindForUpdate(ctx context.Context, _ *gorm.DB, companyID, id uuid.UUID) (*model.Chequera, error) {
	return r.FindFull(ctx, companyID, id)
}

func (r *fakeChequeraRepo) List(_ context.Context, companyID uuid.UUID, tipo string, offset, limit int) ([]model.Chequera, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Chequera, 0)
	for _, c := range r.chequeras {
		if c.CompanyID == companyID && c.Activa && (tipo == "" || c.Tipo == tipo) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	total := int64(len(out))
	return pagina(out, offset, limit), total, nil
}

func (r *fakeChequeraRepo) ExisteNombreActivo(_ context.Context, companyID uuid.UUID, nombre string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chequeras {
		if c.CompanyID == companyID && c.Activa && c.Nombre == nombre {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeChequeraRepo) Update(_ context.Context, _ *gorm.DB, c *model.Chequera) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual, ok := r.chequeras[c.ID]
	if !ok || actual.Version != c.Version {
		return model.ErrConflictoConcurrencia
	}
	c.Version++
	guardada := *c
	guardada.Cheques, guardada.Movimientos = nil, nil
	r.chequeras[c.ID] = guardada
	return nil
}

func (r *fakeChequeraRepo) CreateCheque(_ context.Context, _ *gorm.DB, ch *model.Cheque, mov *model.MovimientoCheque) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.cheques[ch.ChequeraID] {
		if o.Numero == ch.Numero && o.Emisor.CUIT == ch.Emisor.CUIT {
			return model.ErrChequeDuplicado
		}
	}
	r.cheques[ch.ChequeraID] = append(r.cheques[ch.ChequeraID], *ch)
	r.movs[ch.ChequeraID] = append(r.movs[ch.ChequeraID], *mov)
	return nil
}

func (r *fakeChequeraRepo) UpdateEstadoCheque(_ context.Context, _ *gorm.DB, ch *model.Cheque, h *model.HistorialEstadoCheque) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs := r.cheques[ch.ChequeraID]
	for i := range cs {
		if cs[i].ID == ch.ID {
			cs[i].Estado = ch.Estado
			cs[i].UpdatedAt = ch.UpdatedAt
			cs[i].Historial = append(cs[i].Historial, *h)
			return nil
		}
	}
	return model.ErrChequeNoEncontrado
}

var _ repository.ChequeraRepository = (*fakeChequeraRepo)(nil)

// ── Clientes ─────────────────────────────────────────────────────────────────

type fakeClienteRepo struct {
	mu           sync.Mutex
	clientes     map[uuid.UUID]model.Cliente
	facturas     []model.Factura
	presupuestos []model.Presupuesto
	movs         []model.MovimientoCuentaCorriente
	pagos        []any
	aplicaciones []model.AplicacionPago
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]model.Cliente)}
}

func (r *fakeClienteRepo) DB() *gorm.DB { return nil }

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clientes[c.ID] = *c
	return nil
}

func (r *fakeClienteRepo) find(companyID, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(companyID, id)
}

func (r *fakeClienteRepo) FindFull(_ context.Context, companyID, id uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.find(companyID, id)
	if err != nil {
		return nil, err
	}
	for _, f := range r.facturas {
		if f.ClienteID == id {
			c.Facturas = append(c.Facturas, f)
		}
	}
	for _, p := range r.presupuestos {
		if p.ClienteID == id {
			c.Presupuestos = append(c.Presupuestos, p)
		}
	}
	for _, m := range r.movs {
		if m.ClienteID == id {
			c.CuentaCorriente = append(c.CuentaCorriente, m)
		}
	}
	for _, p := range r.pagos {
		switch p := p.(type) {
		case *model.PagoEfectivo:
			if p.ClienteID == id {
				c.PagosEfectivo = append(c.PagosEfectivo, *p)
			}
		case *model.PagoBancario:
			if p.ClienteID == id {
				c.PagosBancarios = append(c.PagosBancarios, *p)
			}
		case *model.PagoCheque:
			if p.ClienteID == id {
				c.PagosCheque = append(c.PagosCheque, *p)
			}
		}
	}
	return c, nil
}

func (r *fakeClienteRepo) FindForUpdate(_ context.Context, _ *gorm.DB, companyID, id uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.find(companyID, id)
	if err != nil {
		return nil, err
	}
	for _, f := range r.facturas {
		if f.ClienteID == id && f.SaldoPendiente.IsPositive() {
			c.Facturas = append(c.Facturas, f)
		}
	}
	if c.SaldoActual.IsNegative() {
		c.Creditos = r.creditos(id)
	}
	return c, nil
}

func (r *fakeClienteRepo) creditos(clienteID uuid.UUID) []model.CreditoPago {
	var pagos []model.CreditoPago
	for _, p := range r.pagos {
		switch p := p.(type) {
		case *model.PagoEfectivo:
			if p.ClienteID == clienteID {
				pagos = append(pagos, model.CreditoPago{PagoID: p.ID, MetodoPago: model.PagoEfectivoMetodo, Fecha: p.CreatedAt, Disponible: p.Monto})
			}
		case *model.PagoBancario:
			if p.ClienteID == clienteID {
				pagos = append(pagos, model.CreditoPago{PagoID: p.ID, MetodoPago: model.PagoBancarioMetodo, Fecha: p.CreatedAt, Disponible: p.Monto})
			}
		case *model.PagoCheque:
			if p.ClienteID == clienteID {
				pagos = append(pagos, model.CreditoPago{PagoID: p.ID, MetodoPago: model.PagoChequeMetodo, Fecha: p.CreatedAt, Disponible: p.Monto})
			}
		}
	}
	return model.CreditosPendientes(pagos, r.aplicaciones)
}

func (r *fakeClienteRepo) List(_ context.Context, companyID uuid.UUID, buscar string, offset, limit int) ([]model.Cliente, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Cliente, 0)
	buscar = strings.ToLower(buscar)
	for _, c := range r.clientes {
		if c.CompanyID != companyID || !c.Activo {
			continue
		}
		if buscar != "" && !strings.Contains(strings.ToLower(c.Nombre), buscar) &&
			(c.CUIT == nil || !strings.Contains(*c.CUIT, buscar)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	total := int64(len(out))
	return pagina(out, offset, limit), total, nil
}

func (r *fakeClienteRepo) Update(_ context.Context, _ *gorm.DB, c *model.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual, ok := r.clientes[c.ID]
	if !ok || actual.Version != c.Version {
		return model.ErrConflictoConcurrencia
	}
	c.Version++
	guardado := *c
	guardado.Facturas, guardado.Presupuestos, guardado.CuentaCorriente = nil, nil, nil
	guardado.Creditos = nil
	guardado.PagosEfectivo, guardado.PagosBancarios, guardado.PagosCheque = nil, nil, nil
	r.clientes[c.ID] = guardado
	return nil
}

func (r *fakeClienteRepo) CreateFactura(_ context.Context, _ *gorm.DB, f *model.Factura, imp *model.Imputacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.facturas = append(r.facturas, *f)
	r.movs = append(r.movs, imp.Movimiento)
	r.aplicaciones = append(r.aplicaciones, imp.Aplicaciones...)
	return nil
}

func (r *fakeClienteRepo) CreatePresupuesto(_ context.Context, _ *gorm.DB, p *model.Presupuesto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presupuestos = append(r.presupuestos, *p)
	return nil
}

func (r *fakeClienteRepo) CreatePago(_ context.Context, _ *gorm.DB, pago interface{}, imp *model.Imputacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pagos = append(r.pagos, pago)
	r.movs = append(r.movs, imp.Movimiento)
	r.aplicaciones = append(r.aplicaciones, imp.Aplicaciones...)
	for _, f := range imp.Facturas {
		for i := range r.facturas {
			if r.facturas[i].ID == f.ID {
				r.facturas[i].SaldoPendiente = f.SaldoPendiente
				r.facturas[i].Estado = f.Estado
			}
		}
	}
	return nil
}

func (r *fakeClienteRepo) ListCuentaCorriente(_ context.Context, clienteID uuid.UUID, offset, limit int) ([]model.MovimientoCuentaCorriente, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.MovimientoCuentaCorriente, 0)
	for i := len(r.movs) - 1; i >= 0; i-- {
		if r.movs[i].ClienteID == clienteID {
			out = append(out, r.movs[i])
		}
	}
	total := int64(len(out))
	return pagina(out, offset, limit), total, nil
}

var _ repository.ClienteRepository = (*fakeClienteRepo)(nil)

// ── Encolador ────────────────────────────────────────────────────────────────

type fakeEncolador struct {
	mu             sync.Mutex
	acreditaciones []uuid.UUID
	recibos        []dto.ReciboEmailJob
	err            error
}

func (e *fakeEncolador) EncolarAcreditacion(_ context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.acreditaciones = append(e.acreditaciones, id)
	return nil
}

func (e *fakeEncolador) EncolarRecibo(_ context.Context, job dto.ReciboEmailJob) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.recibos = append(e.recibos, job)
	return nil
}

var errColaCaida = errors.New("redis: connection refused")

func pagina[T any](items []T, offset, limit int) []T {
	if offset > len(items) {
		offset = len(items)
	}
	fin := len(items)
	if limit > 0 && offset+limit < fin {
		fin = offset + limit
	}
	return items[offset:fin]
}

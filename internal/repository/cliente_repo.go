package repository

import (
	"context"
	"strings"

	"tesoreria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Cliente, error)
	// FindFull loads every sub-ledger, for Resumen and EstadoCrediticio.
	FindFull(ctx context.Context, companyID, id uuid.UUID) (*model.Cliente, error)
	// FindForUpdate locks the client row and loads only the open invoices,
	// which is all payment imputation needs, plus the unapplied credits when
	// the client is in credit.
	FindForUpdate(ctx context.Context, tx *gorm.DB, companyID, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, companyID uuid.UUID, buscar string, offset, limit int) ([]model.Cliente, int64, error)

	Update(ctx context.Context, tx *gorm.DB, c *model.Cliente) error
	// CreateFactura inserts the invoice, its cuenta corriente entry and the
	// applications of earlier credit to it.
	CreateFactura(ctx context.Context, tx *gorm.DB, f *model.Factura, imp *model.Imputacion) error
	CreatePresupuesto(ctx context.Context, tx *gorm.DB, p *model.Presupuesto) error
	// CreatePago inserts the payment record (any of the three methods) and its
	// imputation: the cuenta corriente entry, the applications and the
	// invoices whose saldo changed.
	CreatePago(ctx context.Context, tx *gorm.DB, pago interface{}, imp *model.Imputacion) error
	ListCuentaCorriente(ctx context.Context, clienteID uuid.UUID, offset, limit int) ([]model.MovimientoCuentaCorriente, int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) DB() *gorm.DB { return r.db }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).
		Omit("Facturas", "Presupuestos", "CuentaCorriente", "PagosEfectivo", "PagosBancarios", "PagosCheque").
		Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id).First(&c).Error
	return &c, err
}

func porFecha(campo string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Order(campo + " ASC") }
}

func (r *clienteRepo) FindFull(ctx context.Context, companyID, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).
		Preload("Facturas", porFecha("fecha")).
		Preload("Presupuestos", porFecha("fecha")).
		Preload("CuentaCorriente", porFecha("fecha")).
		Preload("PagosEfectivo", porFecha("fecha")).
		Preload("PagosBancarios", porFecha("fecha")).
		Preload("PagosCheque", porFecha("fecha")).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&c).Error
	return &c, err
}

func (r *clienteRepo) FindForUpdate(ctx context.Context, tx *gorm.DB, companyID, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := forUpdate(conn(r.db, tx).WithContext(ctx)).
		Preload("Facturas", func(db *gorm.DB) *gorm.DB {
			return db.Where("saldo_pendiente > 0").Order("fecha_vencimiento ASC")
		}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&c).Error
	if err != nil || !c.SaldoActual.IsNegative() {
		return &c, err
	}
	c.Creditos, err = r.creditos(conn(r.db, tx).WithContext(ctx), c.ID)
	return &c, err
}

func (r *clienteRepo) creditos(db *gorm.DB, clienteID uuid.UUID) ([]model.CreditoPago, error) {
	var (
		efectivo     []model.PagoEfectivo
		bancarios    []model.PagoBancario
		cheques      []model.PagoCheque
		aplicaciones []model.AplicacionPago
	)
	if err := db.Where("cliente_id = ?", clienteID).Find(&efectivo).Error; err != nil {
		return nil, err
	}
	if err := db.Where("cliente_id = ?", clienteID).Find(&bancarios).Error; err != nil {
		return nil, err
	}
	if err := db.Where("cliente_id = ?", clienteID).Find(&cheques).Error; err != nil {
		return nil, err
	}
	if err := db.Where("cliente_id = ?", clienteID).Find(&aplicaciones).Error; err != nil {
		return nil, err
	}

	pagos := make([]model.CreditoPago, 0, len(efectivo)+len(bancarios)+len(cheques))
	for _, p := range efectivo {
		pagos = append(pagos, model.CreditoPago{PagoID: p.ID, MetodoPago: model.PagoEfectivoMetodo, Fecha: p.CreatedAt, Disponible: p.Monto})
	}
	for _, p := range bancarios {
		pagos = append(pagos, model.CreditoPago{PagoID: p.ID, MetodoPago: model.PagoBancarioMetodo, Fecha: p.CreatedAt, Disponible: p.Monto})
	}
	for _, p := range cheques {
		pagos = append(pagos, model.CreditoPago{PagoID: p.ID, MetodoPago: model.PagoChequeMetodo, Fecha: p.CreatedAt, Disponible: p.Monto})
	}
	return model.CreditosPendientes(pagos, aplicaciones), nil
}

func (r *clienteRepo) List(ctx context.Context, companyID uuid.UUID, buscar string, offset, limit int) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("company_id = ? AND activo = ?", companyID, true)
	if buscar != "" {
		like := "%" + strings.ToLower(buscar) + "%"
		q = q.Where("(LOWER(nombre) LIKE ? OR cuit LIKE ?)", like, like)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, offset, limit).Order("nombre ASC").Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Cliente) error {
	return updateVersioned(ctx, conn(r.db, tx), c, &c.Version)
}

func (r *clienteRepo) CreateFactura(ctx context.Context, tx *gorm.DB, f *model.Factura, imp *model.Imputacion) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Create(f).Error; err != nil {
		return err
	}
	if err := db.Create(&imp.Movimiento).Error; err != nil {
		return err
	}
	if len(imp.Aplicaciones) > 0 {
		return db.Create(&imp.Aplicaciones).Error
	}
	return nil
}

func (r *clienteRepo) CreatePresupuesto(ctx context.Context, tx *gorm.DB, p *model.Presupuesto) error {
	return conn(r.db, tx).WithContext(ctx).Create(p).Error
}

func (r *clienteRepo) CreatePago(ctx context.Context, tx *gorm.DB, pago interface{}, imp *model.Imputacion) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Create(pago).Error; err != nil {
		return err
	}
	if err := db.Create(&imp.Movimiento).Error; err != nil {
		return err
	}
	if len(imp.Aplicaciones) > 0 {
		if err := db.Create(&imp.Aplicaciones).Error; err != nil {
			return err
		}
	}
	for _, f := range imp.Facturas {
		err := db.Model(&model.Factura{}).Where("id = ?", f.ID).
			Updates(map[string]interface{}{
				"saldo_pendiente": f.SaldoPendiente,
				"estado":          f.Estado,
				"updated_at":      f.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *clienteRepo) ListCuentaCorriente(ctx context.Context, clienteID uuid.UUID, offset, limit int) ([]model.MovimientoCuentaCorriente, int64, error) {
	var movs []model.MovimientoCuentaCorriente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoCuentaCorriente{}).Where("cliente_id = ?", clienteID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, offset, limit).Order("fecha DESC").Find(&movs).Error
	return movs, total, err
}

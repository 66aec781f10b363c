package repository

import (
	"context"
	"errors"
	"time"

	"tesoreria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoCajaQuery narrows ListMovimientos. Empty fields do not filter.
type MovimientoCajaQuery struct {
	Tipo      string
	Categoria string
	Desde     *time.Time
	Hasta     *time.Time
	Offset    int
	Limit     int
}

type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Caja, error)
	// FindForUpdate locks the caja row until tx ends. Movements are not loaded:
	// RegistrarMovimiento only needs the counters on the row.
	FindForUpdate(ctx context.Context, tx *gorm.DB, companyID, id uuid.UUID) (*model.Caja, error)
	// FindWithMovimientos loads the full ledger in numero order.
	FindWithMovimientos(ctx context.Context, companyID, id uuid.UUID) (*model.Caja, error)
	List(ctx context.Context, companyID uuid.UUID, incluirInactivas bool, offset, limit int) ([]model.Caja, int64, error)
	ExisteNombreActivo(ctx context.Context, companyID uuid.UUID, nombre string, excluir uuid.UUID) (bool, error)

	// Update persists the root with the optimistic version check.
	Update(ctx context.Context, tx *gorm.DB, c *model.Caja) error
	CreateMovimientos(ctx context.Context, tx *gorm.DB, movs ...*model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, cajaID uuid.UUID, q MovimientoCajaQuery) ([]model.MovimientoCaja, int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	err := r.db.WithContext(ctx).Omit("Movimientos").Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrNombreCajaDuplicado
	}
	return err
}

func (r *cajaRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id).First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindForUpdate(ctx context.Context, tx *gorm.DB, companyID, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := forUpdate(conn(r.db, tx).WithContext(ctx)).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindWithMovimientos(ctx context.Context, companyID, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Preload("Movimientos", func(db *gorm.DB) *gorm.DB {
			return db.Order("numero_movimiento ASC")
		}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&c).Error
	return &c, err
}

func (r *cajaRepo) List(ctx context.Context, companyID uuid.UUID, incluirInactivas bool, offset, limit int) ([]model.Caja, int64, error) {
	var cajas []model.Caja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Caja{}).Where("company_id = ?", companyID)
	if !incluirInactivas {
		q = q.Where("activa = ?", true)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, offset, limit).Order("nombre ASC").Find(&cajas).Error
	return cajas, total, err
}

func (r *cajaRepo) ExisteNombreActivo(ctx context.Context, companyID uuid.UUID, nombre string, excluir uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Caja{}).
		Where("company_id = ? AND nombre = ? AND activa = ? AND id <> ?", companyID, nombre, true, excluir).
		Count(&n).Error
	return n > 0, err
}

func (r *cajaRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Caja) error {
	err := updateVersioned(ctx, conn(r.db, tx), c, &c.Version)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrNombreCajaDuplicado
	}
	return err
}

func (r *cajaRepo) CreateMovimientos(ctx context.Context, tx *gorm.DB, movs ...*model.MovimientoCaja) error {
	db := conn(r.db, tx).WithContext(ctx)
	for _, m := range movs {
		if err := db.Create(m).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, cajaID uuid.UUID, f MovimientoCajaQuery) ([]model.MovimientoCaja, int64, error) {
	var movs []model.MovimientoCaja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).Where("caja_id = ?", cajaID)
	if f.Tipo != "" {
		q = q.Where("tipo = ?", f.Tipo)
	}
	if f.Categoria != "" {
		q = q.Where("categoria = ?", f.Categoria)
	}
	if f.Desde != nil {
		q = q.Where("created_at >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("created_at <= ?", *f.Hasta)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	// newest first
	err := paginar(q, f.Offset, f.Limit).Order("numero_movimiento DESC").Find(&movs).Error
	return movs, total, err
}

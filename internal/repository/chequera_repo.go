package repository

import (
	"context"
	"errors"

	"tesoreria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChequeraRepository interface {
	Create(ctx context.Context, c *model.Chequera) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Chequera, error)
	// FindFull loads cheques (with their history) and movements.
	FindFull(ctx context.Context, companyID, id uuid.UUID) (*model.Chequera, error)
	// FindForUpdate is FindFull under a row lock held until tx ends.
	FindForUpdate(ctx context.Context, tx *gorm.DB, companyID, id uuid.UUID) (*model.Chequera, error)
	List(ctx context.Context, companyID uuid.UUID, tipo string, offset, limit int) ([]model.Chequera, int64, error)
	ExisteNombreActivo(ctx context.Context, companyID uuid.UUID, nombre string) (bool, error)

	Update(ctx context.Context, tx *gorm.DB, c *model.Chequera) error
	// CreateCheque inserts the cheque, its initial history and its movement.
	CreateCheque(ctx context.Context, tx *gorm.DB, ch *model.Cheque, mov *model.MovimientoCheque) error
	// UpdateEstadoCheque writes the new estado and appends h.
	UpdateEstadoCheque(ctx context.Context, tx *gorm.DB, ch *model.Cheque, h *model.HistorialEstadoCheque) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type chequeraRepo struct{ db *gorm.DB }

func NewChequeraRepository(db *gorm.DB) ChequeraRepository { return &chequeraRepo{db: db} }

func (r *chequeraRepo) DB() *gorm.DB { return r.db }

func (r *chequeraRepo) Create(ctx context.Context, c *model.Chequera) error {
	err := r.db.WithContext(ctx).Omit("Cheques", "Movimientos").Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrNombreChequeraDuplicado
	}
	return err
}

func (r *chequeraRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Chequera, error) {
	var c model.Chequera
	err := r.db.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id).First(&c).Error
	return &c, err
}

func preloadChequera(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Cheques", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Cheques.Historial", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC") }).
		Preload("Movimientos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC") })
}

func (r *chequeraRepo) FindFull(ctx context.Context, companyID, id uuid.UUID) (*model.Chequera, error) {
	var c model.Chequera
	err := preloadChequera(r.db.WithContext(ctx)).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&c).Error
	return &c, err
}

func (r *chequeraRepo) FindForUpdate(ctx context.Context, tx *gorm.DB, companyID, id uuid.UUID) (*model.Chequera, error) {
	var c model.Chequera
	err := preloadChequera(forUpdate(conn(r.db, tx).WithContext(ctx))).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&c).Error
	return &c, err
}

func (r *chequeraRepo) List(ctx context.Context, companyID uuid.UUID, tipo string, offset, limit int) ([]model.Chequera, int64, error) {
	var chequeras []model.Chequera
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Chequera{}).Where("company_id = ? AND activa = ?", companyID, true)
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, offset, limit).Order("nombre ASC").Find(&chequeras).Error
	return chequeras, total, err
}

func (r *chequeraRepo) ExisteNombreActivo(ctx context.Context, companyID uuid.UUID, nombre string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Chequera{}).
		Where("company_id = ? AND nombre = ? AND activa = ?", companyID, nombre, true).
		Count(&n).Error
	return n > 0, err
}

func (r *chequeraRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Chequera) error {
	return updateVersioned(ctx, conn(r.db, tx), c, &c.Version)
}

func (r *chequeraRepo) CreateCheque(ctx context.Context, tx *gorm.DB, ch *model.Cheque, mov *model.MovimientoCheque) error {
	db := conn(r.db, tx).WithContext(ctx)
	// Historial rows are inserted by the has-many association
	if err := db.Create(ch).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ErrChequeDuplicado
		}
		return err
	}
	return db.Create(mov).Error
}

func (r *chequeraRepo) UpdateEstadoCheque(ctx context.Context, tx *gorm.DB, ch *model.Cheque, h *model.HistorialEstadoCheque) error {
	db := conn(r.db, tx).WithContext(ctx)
	res := db.Model(&model.Cheque{}).Where("id = ?", ch.ID).
		Updates(map[string]interface{}{"estado": ch.Estado, "updated_at": ch.UpdatedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrChequeNoEncontrado
	}
	return db.Create(h).Error
}

package repository

import (
	"context"
	"time"

	"tesoreria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AcreditacionRepository persists the caja-credit outbox.
type AcreditacionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, a *model.AcreditacionCaja) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.AcreditacionCaja, error)
	// FindForUpdate looks up by id only: the worker has no tenant context.
	FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.AcreditacionCaja, error)
	Update(ctx context.Context, tx *gorm.DB, a *model.AcreditacionCaja) error
	// ListDue returns pendiente rows whose backoff elapsed, plus rows never
	// attempted that are older than gracia (their enqueue may have been lost).
	ListDue(ctx context.Context, ahora time.Time, gracia time.Duration, limit int) ([]model.AcreditacionCaja, error)
	List(ctx context.Context, companyID uuid.UUID, estado string, offset, limit int) ([]model.AcreditacionCaja, int64, error)
}

type acreditacionRepo struct{ db *gorm.DB }

func NewAcreditacionRepository(db *gorm.DB) AcreditacionRepository {
	return &acreditacionRepo{db: db}
}

func (r *acreditacionRepo) Create(ctx context.Context, tx *gorm.DB, a *model.AcreditacionCaja) error {
	return conn(r.db, tx).WithContext(ctx).Create(a).Error
}

func (r *acreditacionRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.AcreditacionCaja, error) {
	var a model.AcreditacionCaja
	err := r.db.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id).First(&a).Error
	return &a, err
}

func (r *acreditacionRepo) FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.AcreditacionCaja, error) {
	var a model.AcreditacionCaja
	err := forUpdate(conn(r.db, tx).WithContext(ctx)).Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *acreditacionRepo) Update(ctx context.Context, tx *gorm.DB, a *model.AcreditacionCaja) error {
	return conn(r.db, tx).WithContext(ctx).Model(a).
		Select("*").Omit("id", "created_at").
		Updates(a).Error
}

func (r *acreditacionRepo) ListDue(ctx context.Context, ahora time.Time, gracia time.Duration, limit int) ([]model.AcreditacionCaja, error) {
	var as []model.AcreditacionCaja
	err := r.db.WithContext(ctx).
		Where("estado = ?", model.AcreditacionPendiente).
		Where("(next_retry_at <= ? OR (next_retry_at IS NULL AND created_at <= ?))", ahora, ahora.Add(-gracia)).
		Order("created_at ASC").
		Limit(limit).
		Find(&as).Error
	return as, err
}

func (r *acreditacionRepo) List(ctx context.Context, companyID uuid.UUID, estado string, offset, limit int) ([]model.AcreditacionCaja, int64, error) {
	var as []model.AcreditacionCaja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.AcreditacionCaja{}).Where("company_id = ?", companyID)
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, offset, limit).Order("created_at DESC").Find(&as).Error
	return as, total, err
}

package repository

import (
	"context"
	"time"

	"tesoreria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContadorRepository owns the per-company document sequences.
// Next is the only way a sequence grows: a single UPDATE ... RETURNING, so
// concurrent callers never observe the same value.
type ContadorRepository interface {
	// Next creates the counter from defaults when missing, then increments it.
	// Pass the caller's tx to draw the number inside its transaction.
	Next(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, tipo string, defaults model.Contador, actorID uuid.UUID) (*model.Contador, error)
	Find(ctx context.Context, companyID uuid.UUID, tipo string) (*model.Contador, error)
	List(ctx context.Context, companyID uuid.UUID) ([]model.Contador, error)
	// Upsert inserts c or, on conflict, overwrites only the given columns.
	Upsert(ctx context.Context, c *model.Contador, columnas []string) error
	Reset(ctx context.Context, companyID uuid.UUID, tipo string, valor int64, actorID uuid.UUID) error
}

type contadorRepo struct{ db *gorm.DB }

func NewContadorRepository(db *gorm.DB) ContadorRepository { return &contadorRepo{db: db} }

var contadorConflicto = []clause.Column{{Name: "company_id"}, {Name: "tipo_documento"}}

func (r *contadorRepo) Next(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, tipo string, defaults model.Contador, actorID uuid.UUID) (*model.Contador, error) {
	db := conn(r.db, tx).WithContext(ctx)

	seed := defaults
	seed.ID = uuid.New()
	seed.CompanyID = companyID
	seed.TipoDocumento = tipo
	seed.Secuencia = 0
	seed.Activo = true
	seed.UpdatedBy = actorID
	if err := db.Clauses(clause.OnConflict{Columns: contadorConflicto, DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	// only plain columns come back from RETURNING; the rest is re-read below
	var sec struct {
		ID        uuid.UUID
		Secuencia int64
	}
	err := db.Raw(`UPDATE contadores
		SET secuencia = secuencia + 1, updated_by = ?, updated_at = ?
		WHERE company_id = ? AND tipo_documento = ?
		RETURNING id, secuencia`, actorID, time.Now(), companyID, tipo).Scan(&sec).Error
	if err != nil {
		return nil, err
	}
	if sec.ID == uuid.Nil {
		return nil, model.ErrContadorNoEncontrado
	}

	var c model.Contador
	if err := db.First(&c, "id = ?", sec.ID).Error; err != nil {
		return nil, err
	}
	c.Secuencia = sec.Secuencia
	return &c, nil
}

func (r *contadorRepo) Find(ctx context.Context, companyID uuid.UUID, tipo string) (*model.Contador, error) {
	var c model.Contador
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND tipo_documento = ?", companyID, tipo).
		First(&c).Error
	return &c, err
}

func (r *contadorRepo) List(ctx context.Context, companyID uuid.UUID) ([]model.Contador, error) {
	var cs []model.Contador
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("tipo_documento ASC").Find(&cs).Error
	return cs, err
}

func (r *contadorRepo) Upsert(ctx context.Context, c *model.Contador, columnas []string) error {
	onConflict := clause.OnConflict{Columns: contadorConflicto, DoNothing: true}
	if len(columnas) > 0 {
		onConflict = clause.OnConflict{Columns: contadorConflicto, DoUpdates: clause.AssignmentColumns(columnas)}
	}
	return r.db.WithContext(ctx).Clauses(onConflict).Create(c).Error
}

func (r *contadorRepo) Reset(ctx context.Context, companyID uuid.UUID, tipo string, valor int64, actorID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Contador{}).
		Where("company_id = ? AND tipo_documento = ?", companyID, tipo).
		Updates(map[string]interface{}{
			"secuencia":  valor,
			"updated_by": actorID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrContadorNoEncontrado
	}
	return nil
}

package repository

import (
	"context"

	"tesoreria/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// conn returns tx when the caller is inside a transaction, db otherwise.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// forUpdate adds SELECT ... FOR UPDATE. SQLite ignores the clause.
func forUpdate(q *gorm.DB) *gorm.DB {
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// updateVersioned writes every column of an aggregate root, guarded by the
// version it was read with. version is bumped in place; on a lost race it is
// restored and ErrConflictoConcurrencia is returned.
func updateVersioned(ctx context.Context, tx *gorm.DB, row any, version *int) error {
	leida := *version
	*version = leida + 1
	res := tx.WithContext(ctx).Model(row).
		Select("*").Omit(clause.Associations, "id", "created_at").
		Where("version = ?", leida).
		Updates(row)
	if res.Error != nil {
		*version = leida
		return res.Error
	}
	if res.RowsAffected == 0 {
		*version = leida
		return model.ErrConflictoConcurrencia
	}
	return nil
}

func paginar(q *gorm.DB, offset, limit int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

package infra

import (
	"fmt"

	"tesoreria/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrar(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrar creates every ledger table and index. The DDL is portable between
// PostgreSQL and SQLite so repository tests run against the same schema.
func Migrar(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Contador{},
		&model.Caja{},
		&model.MovimientoCaja{},
		&model.Chequera{},
		&model.Cheque{},
		&model.HistorialEstadoCheque{},
		&model.MovimientoCheque{},
		&model.Cliente{},
		&model.Factura{},
		&model.Presupuesto{},
		&model.MovimientoCuentaCorriente{},
		&model.PagoEfectivo{},
		&model.PagoBancario{},
		&model.PagoCheque{},
		&model.AplicacionPago{},
		&model.AcreditacionCaja{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own. Each statement uses IF NOT EXISTS so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// names are unique among active rows only: a retired caja frees its name
		{"cajas nombre activo", `CREATE UNIQUE INDEX IF NOT EXISTS idx_cajas_company_nombre_activa
			ON cajas (company_id, nombre) WHERE activa`},
		{"chequeras nombre activo", `CREATE UNIQUE INDEX IF NOT EXISTS idx_chequeras_company_nombre_activa
			ON chequeras (company_id, nombre) WHERE activa`},
		// backs the duplicate check of third-party cheques
		{"cheques numero emisor", `CREATE UNIQUE INDEX IF NOT EXISTS idx_cheques_chequera_numero_emisor
			ON cheques (chequera_id, numero, emisor_cuit)`},
		// retry cron scan
		{"acreditaciones pendientes", `CREATE INDEX IF NOT EXISTS idx_acreditaciones_pendientes
			ON acreditaciones_caja (next_retry_at) WHERE estado = 'pendiente'`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

package service

import (
	"context"
	"errors"

	"tesoreria/internal/dto"
	"tesoreria/internal/model"
	"tesoreria/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContadorService interface {
	SiguienteNumero(ctx context.Context, companyID uuid.UUID, tipo string, actorID uuid.UUID) (*dto.NumeroDocumentoResponse, error)
	Previsualizar(ctx context.Context, companyID uuid.UUID, tipo string) (*dto.NumeroDocumentoResponse, error)
	ConfigurarFormato(ctx context.Context, companyID uuid.UUID, tipo string, actorID uuid.UUID, req dto.ConfigurarFormatoRequest) (*model.Contador, error)
	Reiniciar(ctx context.Context, companyID uuid.UUID, tipo string, valor int64, actorID uuid.UUID) (*model.Contador, error)
	Listar(ctx context.Context, companyID uuid.UUID) ([]model.Contador, error)

	// NumeroTx draws the next formatted number inside the caller's transaction,
	// so a rolled back document does not burn its number.
	NumeroTx(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, tipo string, actorID uuid.UUID) (string, error)
}

// ContadorDefaults seeds counters created on first use.
type ContadorDefaults struct {
	Formato    int
	PuntoVenta string
}

type contadorService struct {
	repo     repository.ContadorRepository
	defaults ContadorDefaults
}

func NewContadorService(repo repository.ContadorRepository, defaults ContadorDefaults) ContadorService {
	if defaults.Formato <= 0 {
		defaults.Formato = 8
	}
	if defaults.PuntoVenta == "" {
		defaults.PuntoVenta = "0001"
	}
	return &contadorService{repo: repo, defaults: defaults}
}

func (s *contadorService) semilla() model.Contador {
	return model.Contador{Formato: s.defaults.Formato, PuntoVenta: s.defaults.PuntoVenta, Activo: true}
}

func numeroResponse(c *model.Contador, secuencia int64) *dto.NumeroDocumentoResponse {
	return &dto.NumeroDocumentoResponse{
		TipoDocumento: c.TipoDocumento,
		Numero:        c.Formatear(secuencia),
		Contador:      secuencia,
		Prefijo:       c.Prefijo,
		Sufijo:        c.Sufijo,
		PuntoVenta:    c.PuntoVenta,
	}
}

// ── SiguienteNumero ──────────────────────────────────────────────────────────
// Consumes one value of the sequence. Concurrent callers always get distinct
// numbers: the increment is a single UPDATE ... RETURNING in the repository.

func (s *contadorService) SiguienteNumero(ctx context.Context, companyID uuid.UUID, tipo string, actorID uuid.UUID) (*dto.NumeroDocumentoResponse, error) {
	if !model.TipoDocumentoValido(tipo) {
		return nil, model.ErrTipoDocumentoInvalido
	}
	c, err := s.repo.Next(ctx, nil, companyID, tipo, s.semilla(), actorID)
	if err != nil {
		return nil, err
	}
	return numeroResponse(c, c.Secuencia), nil
}

func (s *contadorService) NumeroTx(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, tipo string, actorID uuid.UUID) (string, error) {
	c, err := s.repo.Next(ctx, tx, companyID, tipo, s.semilla(), actorID)
	if err != nil {
		return "", err
	}
	return c.Formatear(c.Secuencia), nil
}

// ── Previsualizar ────────────────────────────────────────────────────────────
// Read-only: shows what SiguienteNumero would return right now. A missing
// counter previews the first number with the configured defaults.

func (s *contadorService) Previsualizar(ctx context.Context, companyID uuid.UUID, tipo string) (*dto.NumeroDocumentoResponse, error) {
	if !model.TipoDocumentoValido(tipo) {
		return nil, model.ErrTipoDocumentoInvalido
	}
	c, err := s.repo.Find(ctx, companyID, tipo)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		semilla := s.semilla()
		semilla.CompanyID = companyID
		semilla.TipoDocumento = tipo
		c = &semilla
	case err != nil:
		return nil, err
	}
	return numeroResponse(c, c.Secuencia+1), nil
}

// ── ConfigurarFormato ────────────────────────────────────────────────────────
// Upsert of the format columns that were sent; the sequence is never touched.

func (s *contadorService) ConfigurarFormato(ctx context.Context, companyID uuid.UUID, tipo string, actorID uuid.UUID, req dto.ConfigurarFormatoRequest) (*model.Contador, error) {
	if !model.TipoDocumentoValido(tipo) {
		return nil, model.ErrTipoDocumentoInvalido
	}
	c := s.semilla()
	c.ID = uuid.New()
	c.CompanyID = companyID
	c.TipoDocumento = tipo
	c.UpdatedBy = actorID

	columnas := []string{"updated_by", "updated_at"}
	if req.Prefijo != nil {
		c.Prefijo = *req.Prefijo
		columnas = append(columnas, "prefijo")
	}
	if req.Sufijo != nil {
		c.Sufijo = *req.Sufijo
		columnas = append(columnas, "sufijo")
	}
	if req.Formato != nil {
		c.Formato = *req.Formato
		columnas = append(columnas, "formato")
	}
	if req.PuntoVenta != nil {
		c.PuntoVenta = *req.PuntoVenta
		columnas = append(columnas, "punto_venta")
	}

	if err := s.repo.Upsert(ctx, &c, columnas); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, companyID, tipo)
}

// ── Reiniciar ────────────────────────────────────────────────────────────────
// Administrative overwrite of the sequence. It races with SiguienteNumero like
// any other write: whichever statement lands last wins.

func (s *contadorService) Reiniciar(ctx context.Context, companyID uuid.UUID, tipo string, valor int64, actorID uuid.UUID) (*model.Contador, error) {
	if !model.TipoDocumentoValido(tipo) {
		return nil, model.ErrTipoDocumentoInvalido
	}
	if err := s.repo.Reset(ctx, companyID, tipo, valor, actorID); err != nil {
		return nil, err
	}
	c, err := s.repo.Find(ctx, companyID, tipo)
	if err != nil {
		return nil, noEncontrado(err, model.ErrContadorNoEncontrado)
	}
	return c, nil
}

func (s *contadorService) Listar(ctx context.Context, companyID uuid.UUID) ([]model.Contador, error) {
	return s.repo.List(ctx, companyID)
}

package service

import (
	"context"
	"strings"

	"tesoreria/internal/dto"
	"tesoreria/internal/infra"
	"tesoreria/internal/model"
	"tesoreria/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChequeraService interface {
	Crear(ctx context.Context, companyID, actorID uuid.UUID, req dto.CrearChequeraRequest) (*model.Chequera, error)
	Obtener(ctx context.Context, companyID, id uuid.UUID) (*model.Chequera, error)
	Listar(ctx context.Context, companyID uuid.UUID, f dto.ChequeraFilter) (*dto.ListResponse[model.Chequera], error)
	Eliminar(ctx context.Context, companyID, id uuid.UUID) error

	EmitirCheque(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.EmitirChequeRequest) (*dto.ChequeOperacionResponse, error)
	AgregarChequeTerceros(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.ChequeTercerosRequest) (*dto.ChequeOperacionResponse, error)
	CambiarEstadoCheque(ctx context.Context, companyID, id, chequeID, actorID uuid.UUID, req dto.CambiarEstadoChequeRequest) (*dto.CambioEstadoChequeResponse, error)

	ListarCheques(ctx context.Context, companyID, id uuid.UUID, f dto.ChequeFilter) (*dto.ListResponse[model.Cheque], error)
	ObtenerCheque(ctx context.Context, companyID, id, chequeID uuid.UUID) (*model.Cheque, error)
	ListarMovimientos(ctx context.Context, companyID, id uuid.UUID, tipo string) ([]model.MovimientoCheque, error)
	Resumen(ctx context.Context, companyID, id uuid.UUID) (*model.ResumenChequera, error)
	// ComprobantePDF renders the printable voucher of one cheque.
	ComprobantePDF(ctx context.Context, companyID, id, chequeID uuid.UUID) ([]byte, *model.Cheque, error)
}

type chequeraService struct {
	repo    repository.ChequeraRepository
	empresa string
}

func NewChequeraService(repo repository.ChequeraRepository, empresa string) ChequeraService {
	return &chequeraService{repo: repo, empresa: empresa}
}

// ── Crear / Obtener / Listar / Eliminar ──────────────────────────────────────

func (s *chequeraService) Crear(ctx context.Context, companyID, actorID uuid.UUID, req dto.CrearChequeraRequest) (*model.Chequera, error) {
	nombre := strings.TrimSpace(req.Nombre)
	existe, err := s.repo.ExisteNombreActivo(ctx, companyID, nombre)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, model.ErrNombreChequeraDuplicado
	}

	banco := model.DatosBancarios{Banco: req.Banco, Sucursal: req.Sucursal, NumeroCuenta: req.NumeroCuenta}
	c, err := model.NuevaChequera(companyID, nombre, req.Tipo, banco, req.RangoDesde, req.RangoHasta, actorID)
	if err != nil {
		return nil, err
	}
	c.Observaciones = req.Observaciones
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *chequeraService) Obtener(ctx context.Context, companyID, id uuid.UUID) (*model.Chequera, error) {
	c, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, noEncontrado(err, model.ErrChequeraNoEncontrada)
	}
	return c, nil
}

func (s *chequeraService) Listar(ctx context.Context, companyID uuid.UUID, f dto.ChequeraFilter) (*dto.ListResponse[model.Chequera], error) {
	cs, total, err := s.repo.List(ctx, companyID, f.Tipo, f.Offset(), f.Limit)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[model.Chequera]{Data: cs, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// Eliminar soft-deletes the chequera; its cheques stay readable.
func (s *chequeraService) Eliminar(ctx context.Context, companyID, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrChequeraNoEncontrada)
		}
		c.Desactivar()
		return s.repo.Update(ctx, tx, c)
	})
}

// ── EmitirCheque ─────────────────────────────────────────────────────────────
// The chequera row stays locked until the cheque is written, so two
// concurrent emissions never draw the same number.

func (s *chequeraService) EmitirCheque(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.EmitirChequeRequest) (*dto.ChequeOperacionResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, model.ErrMontoInvalido
	}
	emision, err := parseFecha("fecha_emision", req.FechaEmision)
	if err != nil {
		return nil, err
	}
	vencimiento, err := parseFecha("fecha_vencimiento", req.FechaVencimiento)
	if err != nil {
		return nil, err
	}

	var resp dto.ChequeOperacionResponse
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrChequeraNoEncontrada)
		}
		ch, mov, err := c.EmitirChequePropio(model.DatosChequePropio{
			Monto:            req.Monto,
			FechaEmision:     emision,
			FechaVencimiento: vencimiento,
			Cliente:          model.ParteCheque{Nombre: req.Cliente.Nombre, CUIT: req.Cliente.CUIT},
			Concepto:         req.Concepto,
			Observaciones:    req.Observaciones,
		}, actorID)
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, c); err != nil {
			return err
		}
		if err := s.repo.CreateCheque(ctx, tx, ch, mov); err != nil {
			return err
		}
		proximo := c.ProximoCheque
		resp = dto.ChequeOperacionResponse{Cheque: *ch, Movimiento: *mov, ProximoCheque: &proximo, Resumen: c.Resumen()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── AgregarChequeTerceros ────────────────────────────────────────────────────

func (s *chequeraService) AgregarChequeTerceros(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.ChequeTercerosRequest) (*dto.ChequeOperacionResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, model.ErrMontoInvalido
	}
	emision, err := parseFecha("fecha_emision", req.FechaEmision)
	if err != nil {
		return nil, err
	}
	vencimiento, err := parseFecha("fecha_vencimiento", req.FechaVencimiento)
	if err != nil {
		return nil, err
	}

	var resp dto.ChequeOperacionResponse
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrChequeraNoEncontrada)
		}
		ch, mov, err := c.AgregarChequeTerceros(model.DatosChequeTerceros{
			Numero:           strings.TrimSpace(req.Numero),
			Monto:            req.Monto,
			FechaEmision:     emision,
			FechaVencimiento: vencimiento,
			Estado:           req.Estado,
			Cliente:          model.ParteCheque{Nombre: req.Cliente.Nombre, CUIT: req.Cliente.CUIT},
			Emisor:           emisorCheque(req.Emisor),
			Concepto:         req.Concepto,
			Observaciones:    req.Observaciones,
		}, actorID)
		if err != nil {
			return err
		}
		if err := s.repo.CreateCheque(ctx, tx, ch, mov); err != nil {
			return err
		}
		resp = dto.ChequeOperacionResponse{Cheque: *ch, Movimiento: *mov, Resumen: c.Resumen()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func emisorCheque(e dto.EmisorChequeRequest) model.EmisorCheque {
	return model.EmisorCheque{
		Nombre:       e.Nombre,
		CUIT:         strings.TrimSpace(e.CUIT),
		Banco:        e.Banco,
		Sucursal:     e.Sucursal,
		NumeroCuenta: e.NumeroCuenta,
	}
}

// ── CambiarEstadoCheque ──────────────────────────────────────────────────────
// Any estado may follow any other; every change is appended to the history.

func (s *chequeraService) CambiarEstadoCheque(ctx context.Context, companyID, id, chequeID, actorID uuid.UUID, req dto.CambiarEstadoChequeRequest) (*dto.CambioEstadoChequeResponse, error) {
	var resp dto.CambioEstadoChequeResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrChequeraNoEncontrada)
		}
		ch, h, err := c.CambiarEstadoCheque(chequeID, req.Estado, strings.TrimSpace(req.Motivo), actorID)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateEstadoCheque(ctx, tx, ch, h); err != nil {
			return err
		}
		resp = dto.CambioEstadoChequeResponse{Cheque: *ch, Resumen: c.Resumen()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *chequeraService) cargar(ctx context.Context, companyID, id uuid.UUID) (*model.Chequera, error) {
	c, err := s.repo.FindFull(ctx, companyID, id)
	if err != nil {
		return nil, noEncontrado(err, model.ErrChequeraNoEncontrada)
	}
	return c, nil
}

func (s *chequeraService) ListarCheques(ctx context.Context, companyID, id uuid.UUID, f dto.ChequeFilter) (*dto.ListResponse[model.Cheque], error) {
	desde, hasta, err := parseRango(f.RangoFechas)
	if err != nil {
		return nil, err
	}
	c, err := s.cargar(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	cheques := c.FiltrarCheques(model.FiltroCheques{
		Estado:      f.Estado,
		Tipo:        f.Tipo,
		EmisorCUIT:  f.EmisorCUIT,
		ClienteCUIT: f.ClienteCUIT,
		Desde:       desde,
		Hasta:       hasta,
	})
	resp := paginarSlice(cheques, f.Paginacion)
	return &resp, nil
}

func (s *chequeraService) ObtenerCheque(ctx context.Context, companyID, id, chequeID uuid.UUID) (*model.Cheque, error) {
	c, err := s.cargar(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return c.BuscarCheque(chequeID)
}

func (s *chequeraService) ListarMovimientos(ctx context.Context, companyID, id uuid.UUID, tipo string) ([]model.MovimientoCheque, error) {
	c, err := s.cargar(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return c.MovimientosPorTipo(tipo), nil
}

func (s *chequeraService) Resumen(ctx context.Context, companyID, id uuid.UUID) (*model.ResumenChequera, error) {
	c, err := s.cargar(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	r := c.Resumen()
	return &r, nil
}

func (s *chequeraService) ComprobantePDF(ctx context.Context, companyID, id, chequeID uuid.UUID) ([]byte, *model.Cheque, error) {
	c, err := s.cargar(ctx, companyID, id)
	if err != nil {
		return nil, nil, err
	}
	ch, err := c.BuscarCheque(chequeID)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := infra.GenerarComprobanteChequePDF(s.empresa, c, ch)
	if err != nil {
		return nil, nil, err
	}
	return pdf, ch, nil
}

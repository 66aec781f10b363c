package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tesoreria/internal/dto"
	"tesoreria/internal/model"
	"tesoreria/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CajaService interface {
	Crear(ctx context.Context, companyID, actorID uuid.UUID, req dto.CrearCajaRequest) (*model.Caja, error)
	Obtener(ctx context.Context, companyID, id uuid.UUID) (*model.Caja, error)
	Listar(ctx context.Context, companyID uuid.UUID, p dto.Paginacion) (*dto.ListResponse[model.Caja], error)
	Actualizar(ctx context.Context, companyID, id uuid.UUID, req dto.ActualizarCajaRequest) (*model.Caja, error)
	Eliminar(ctx context.Context, companyID, id uuid.UUID) error
	RegistrarMovimiento(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error)
	ListarMovimientos(ctx context.Context, companyID, id uuid.UUID, f dto.MovimientoCajaFilter) (*dto.ListResponse[model.MovimientoCaja], error)
	Resumen(ctx context.Context, companyID, id uuid.UUID, r dto.RangoFechas) (*model.ResumenCaja, error)

	// AplicarAcreditacion is run by the worker for each queued caja credit.
	AplicarAcreditacion(ctx context.Context, acreditacionID uuid.UUID) error
	ListarAcreditaciones(ctx context.Context, companyID uuid.UUID, f dto.AcreditacionFilter) (*dto.ListResponse[model.AcreditacionCaja], error)
	ReintentarAcreditacion(ctx context.Context, companyID, id uuid.UUID) (*model.AcreditacionCaja, error)
}

type cajaService struct {
	repo       repository.CajaRepository
	acredRepo  repository.AcreditacionRepository
	dispatcher Encolador
}

func NewCajaService(repo repository.CajaRepository, acredRepo repository.AcreditacionRepository, dispatcher Encolador) CajaService {
	return &cajaService{repo: repo, acredRepo: acredRepo, dispatcher: dispatcher}
}

// ── Crear / Obtener / Listar ─────────────────────────────────────────────────

func (s *cajaService) Crear(ctx context.Context, companyID, actorID uuid.UUID, req dto.CrearCajaRequest) (*model.Caja, error) {
	nombre := strings.TrimSpace(req.Nombre)
	existe, err := s.repo.ExisteNombreActivo(ctx, companyID, nombre, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, model.ErrNombreCajaDuplicado
	}

	caja, err := model.NuevaCaja(companyID, nombre, strings.ToUpper(req.Moneda), req.SaldoInicial, actorID)
	if err != nil {
		return nil, err
	}
	caja.Descripcion = req.Descripcion
	if err := s.repo.Create(ctx, caja); err != nil {
		return nil, err
	}
	return caja, nil
}

func (s *cajaService) Obtener(ctx context.Context, companyID, id uuid.UUID) (*model.Caja, error) {
	caja, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, noEncontrado(err, model.ErrCajaNoEncontrada)
	}
	return caja, nil
}

func (s *cajaService) Listar(ctx context.Context, companyID uuid.UUID, p dto.Paginacion) (*dto.ListResponse[model.Caja], error) {
	cajas, total, err := s.repo.List(ctx, companyID, false, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[model.Caja]{Data: cajas, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

// ── Actualizar ───────────────────────────────────────────────────────────────
// Only name and description; balances move exclusively through movements.

func (s *cajaService) Actualizar(ctx context.Context, companyID, id uuid.UUID, req dto.ActualizarCajaRequest) (*model.Caja, error) {
	var caja *model.Caja
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		caja, err = s.repo.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrCajaNoEncontrada)
		}
		if req.Nombre != nil {
			nombre := strings.TrimSpace(*req.Nombre)
			if nombre != caja.Nombre {
				existe, err := s.repo.ExisteNombreActivo(ctx, companyID, nombre, caja.ID)
				if err != nil {
					return err
				}
				if existe {
					return model.ErrNombreCajaDuplicado
				}
				caja.Nombre = nombre
			}
		}
		if req.Descripcion != nil {
			caja.Descripcion = req.Descripcion
		}
		return s.repo.Update(ctx, tx, caja)
	})
	if err != nil {
		return nil, err
	}
	return caja, nil
}

// ── Eliminar ─────────────────────────────────────────────────────────────────
// Soft delete; refused while the balance is not zero.

func (s *cajaService) Eliminar(ctx context.Context, companyID, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.repo.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrCajaNoEncontrada)
		}
		if err := caja.Desactivar(); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, caja)
	})
}

// ── RegistrarMovimiento ──────────────────────────────────────────────────────
// The caja row is locked for the whole transaction. A transferencia locks both
// cajas and writes both legs in the same transaction.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error) {
	in := model.NuevoMovimientoCaja{
		Tipo:        req.Tipo,
		Monto:       req.Monto,
		Descripcion: req.Descripcion,
		Referencia:  req.Referencia,
		Categoria:   req.Categoria,
		MetodoPago:  req.MetodoPago,
	}
	if req.Tipo == model.MovimientoTransferencia {
		relID, err := parseID("caja_relacionada_id", req.CajaRelacionadaID)
		if err != nil {
			return nil, err
		}
		in.CajaRelacionadaID = relID
	}

	var resp dto.MovimientoCajaResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if in.Tipo == model.MovimientoTransferencia {
			return s.transferir(ctx, tx, companyID, id, in, actorID, &resp)
		}
		caja, err := s.repo.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrCajaNoEncontrada)
		}
		mov, err := caja.RegistrarMovimiento(in, actorID)
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, caja); err != nil {
			return err
		}
		if err := s.repo.CreateMovimientos(ctx, tx, mov); err != nil {
			return err
		}
		resp = dto.MovimientoCajaResponse{Movimiento: *mov, SaldoActual: caja.SaldoActual, SaldoAnterior: caja.SaldoAnterior}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *cajaService) transferir(ctx context.Context, tx *gorm.DB, companyID, origenID uuid.UUID, in model.NuevoMovimientoCaja, actorID uuid.UUID, resp *dto.MovimientoCajaResponse) error {
	if in.CajaRelacionadaID == nil {
		return model.ErrCajaRelacionadaRequerida
	}
	destinoID := *in.CajaRelacionadaID
	if destinoID == origenID {
		return model.ErrCajaRelacionadaInvalida
	}

	origen, destino, err := s.bloquearPar(ctx, tx, companyID, origenID, destinoID)
	if err != nil {
		return err
	}
	if !destino.Activa {
		return model.ErrCajaRelacionadaNoEncontrada
	}
	if origen.Moneda != destino.Moneda {
		return model.ErrMonedaDistinta
	}

	salida, err := origen.RegistrarMovimiento(in, actorID)
	if err != nil {
		return err
	}
	entrada, err := destino.RegistrarMovimiento(model.NuevoMovimientoCaja{
		Tipo:                    model.MovimientoIngreso,
		Monto:                   in.Monto,
		Descripcion:             fmt.Sprintf("Transferencia desde %s - %s", origen.Nombre, in.Descripcion),
		Referencia:              in.Referencia,
		Categoria:               in.Categoria,
		MetodoPago:              in.MetodoPago,
		CajaRelacionadaID:       &origen.ID,
		MovimientoRelacionadoID: &salida.ID,
	}, actorID)
	if err != nil {
		return err
	}
	salida.MovimientoRelacionadoID = &entrada.ID

	if err := s.repo.Update(ctx, tx, origen); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, tx, destino); err != nil {
		return err
	}
	if err := s.repo.CreateMovimientos(ctx, tx, salida, entrada); err != nil {
		return err
	}

	*resp = dto.MovimientoCajaResponse{
		Movimiento:        *salida,
		SaldoActual:       origen.SaldoActual,
		SaldoAnterior:     origen.SaldoAnterior,
		MovimientoDestino: entrada,
	}
	return nil
}

// bloquearPar locks both cajas in ascending id order so two opposite
// transfers between the same pair cannot deadlock.
func (s *cajaService) bloquearPar(ctx context.Context, tx *gorm.DB, companyID, origenID, destinoID uuid.UUID) (*model.Caja, *model.Caja, error) {
	cargar := func(id uuid.UUID) (*model.Caja, error) {
		c, err := s.repo.FindForUpdate(ctx, tx, companyID, id)
		if err == nil {
			return c, nil
		}
		if id == destinoID {
			return nil, noEncontrado(err, model.ErrCajaRelacionadaNoEncontrada)
		}
		return nil, noEncontrado(err, model.ErrCajaNoEncontrada)
	}

	primero, segundo := origenID, destinoID
	if destinoID.String() < origenID.String() {
		primero, segundo = destinoID, origenID
	}
	a, err := cargar(primero)
	if err != nil {
		return nil, nil, err
	}
	b, err := cargar(segundo)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == origenID {
		return a, b, nil
	}
	return b, a, nil
}

// ── ListarMovimientos / Resumen ──────────────────────────────────────────────

func (s *cajaService) ListarMovimientos(ctx context.Context, companyID, id uuid.UUID, f dto.MovimientoCajaFilter) (*dto.ListResponse[model.MovimientoCaja], error) {
	if _, err := s.Obtener(ctx, companyID, id); err != nil {
		return nil, err
	}
	desde, hasta, err := parseRango(f.RangoFechas)
	if err != nil {
		return nil, err
	}
	movs, total, err := s.repo.ListMovimientos(ctx, id, repository.MovimientoCajaQuery{
		Tipo:      f.Tipo,
		Categoria: f.Categoria,
		Desde:     desde,
		Hasta:     hasta,
		Offset:    f.Offset(),
		Limit:     f.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[model.MovimientoCaja]{Data: movs, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *cajaService) Resumen(ctx context.Context, companyID, id uuid.UUID, r dto.RangoFechas) (*model.ResumenCaja, error) {
	desde, hasta, err := parseRango(r)
	if err != nil {
		return nil, err
	}
	caja, err := s.repo.FindWithMovimientos(ctx, companyID, id)
	if err != nil {
		return nil, noEncontrado(err, model.ErrCajaNoEncontrada)
	}
	if n := caja.Conciliar(); n != 0 {
		log.Error().Str("caja_id", caja.ID.String()).Int64("numero_movimiento", n).
			Msg("caja: el historial no reproduce los saldos")
	}
	resumen := caja.Resumen(desde, hasta)
	return &resumen, nil
}

// ── Acreditaciones ───────────────────────────────────────────────────────────
// A cash payment routed to a caja leaves an AcreditacionCaja row behind. The
// worker calls AplicarAcreditacion; the ingreso and the aplicada mark commit
// together, so a credit is never applied twice.

func (s *cajaService) AplicarAcreditacion(ctx context.Context, acreditacionID uuid.UUID) error {
	var mov *model.MovimientoCaja
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		a, err := s.acredRepo.FindForUpdate(ctx, tx, acreditacionID)
		if err != nil {
			return noEncontrado(err, model.ErrAcreditacionNoEncontrada)
		}
		if !a.Pendiente() {
			return nil
		}
		caja, err := s.repo.FindForUpdate(ctx, tx, a.CompanyID, a.CajaID)
		if err != nil {
			return noEncontrado(err, model.ErrCajaNoEncontrada)
		}
		categoria, metodo := "cobranza", model.PagoEfectivoMetodo
		referencia := a.Referencia
		mov, err = caja.RegistrarMovimiento(model.NuevoMovimientoCaja{
			Tipo:        model.MovimientoIngreso,
			Monto:       a.Monto,
			Descripcion: a.Descripcion,
			Referencia:  &referencia,
			Categoria:   &categoria,
			MetodoPago:  &metodo,
		}, a.CreatedBy)
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, caja); err != nil {
			return err
		}
		if err := s.repo.CreateMovimientos(ctx, tx, mov); err != nil {
			return err
		}
		a.MarcarAplicada(mov.ID)
		return s.acredRepo.Update(ctx, tx, a)
	})
	if txErr == nil {
		if mov != nil {
			log.Info().Str("acreditacion_id", acreditacionID.String()).
				Str("movimiento_id", mov.ID.String()).Msg("acreditacion: aplicada")
		}
		return nil
	}
	if errors.Is(txErr, model.ErrAcreditacionNoEncontrada) {
		return txErr
	}

	// the credit stays pendiente with backoff, or becomes fallida
	reintentable := true
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		a, err := s.acredRepo.FindForUpdate(ctx, tx, acreditacionID)
		if err != nil {
			return err
		}
		if !a.Pendiente() {
			return nil
		}
		reintentable = a.MarcarFallo(txErr.Error())
		return s.acredRepo.Update(ctx, tx, a)
	})
	if err != nil {
		log.Error().Err(err).Str("acreditacion_id", acreditacionID.String()).
			Msg("acreditacion: no se pudo registrar el fallo")
	}
	if !reintentable {
		return fmt.Errorf("%w: %v", model.ErrAcreditacionAgotada, txErr)
	}
	return txErr
}

func (s *cajaService) ListarAcreditaciones(ctx context.Context, companyID uuid.UUID, f dto.AcreditacionFilter) (*dto.ListResponse[model.AcreditacionCaja], error) {
	as, total, err := s.acredRepo.List(ctx, companyID, f.Estado, f.Offset(), f.Limit)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[model.AcreditacionCaja]{Data: as, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ReintentarAcreditacion gives a fallida credit a fresh retry budget and
// queues it again.
func (s *cajaService) ReintentarAcreditacion(ctx context.Context, companyID, id uuid.UUID) (*model.AcreditacionCaja, error) {
	var a *model.AcreditacionCaja
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		a, err = s.acredRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return noEncontrado(err, model.ErrAcreditacionNoEncontrada)
		}
		if a.CompanyID != companyID {
			return model.ErrAcreditacionNoEncontrada
		}
		if !a.Reintentar() {
			return model.ErrAcreditacionNoReintentable
		}
		return s.acredRepo.Update(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		if err := s.dispatcher.EncolarAcreditacion(ctx, a.ID); err != nil {
			// the retry cron picks it up anyway
			log.Warn().Err(err).Str("acreditacion_id", a.ID.String()).Msg("acreditacion: no se pudo encolar")
		}
	}
	return a, nil
}

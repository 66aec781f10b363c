package service

import (
	"context"
	"strings"
	"time"

	"tesoreria/internal/dto"
	"tesoreria/internal/model"
	"tesoreria/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ClienteService interface {
	Crear(ctx context.Context, companyID, actorID uuid.UUID, req dto.CrearClienteRequest) (*model.Cliente, error)
	Obtener(ctx context.Context, companyID, id uuid.UUID) (*model.Cliente, error)
	Listar(ctx context.Context, companyID uuid.UUID, f dto.ClienteFilter) (*dto.ListResponse[model.Cliente], error)

	AgregarFactura(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.FacturaRequest) (*dto.FacturaResponse, error)
	AgregarPresupuesto(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.PresupuestoRequest) (*model.Presupuesto, error)

	RegistrarPagoEfectivo(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.PagoEfectivoRequest) (*dto.PagoResponse, error)
	RegistrarPagoBancario(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.PagoBancarioRequest) (*dto.PagoResponse, error)
	RegistrarPagoCheque(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.PagoChequeRequest) (*dto.PagoResponse, error)

	Resumen(ctx context.Context, companyID, id uuid.UUID) (*model.ResumenCliente, error)
	EstadoCrediticio(ctx context.Context, companyID, id uuid.UUID) (*model.EstadoCrediticio, error)
	CuentaCorriente(ctx context.Context, companyID, id uuid.UUID, p dto.Paginacion) (*dto.ListResponse[model.MovimientoCuentaCorriente], error)
}

// ClienteDeps groups the collaborators of ClienteService. Dispatcher may be nil.
type ClienteDeps struct {
	Clientes       repository.ClienteRepository
	Cajas          repository.CajaRepository
	Chequeras      repository.ChequeraRepository
	Acreditaciones repository.AcreditacionRepository
	Contadores     ContadorService
	Dispatcher     Encolador
	// MaxReintentos bounds the attempts of each caja credit.
	MaxReintentos int
}

type clienteService struct {
	ClienteDeps
	ahora func() time.Time
}

func NewClienteService(deps ClienteDeps) ClienteService {
	return &clienteService{ClienteDeps: deps, ahora: time.Now}
}

// ── Crear / Obtener / Listar ─────────────────────────────────────────────────

func (s *clienteService) Crear(ctx context.Context, companyID, actorID uuid.UUID, req dto.CrearClienteRequest) (*model.Cliente, error) {
	if req.LimiteCredito.IsNegative() {
		return nil, model.ErrMontoInvalido
	}
	c := model.NuevoCliente(companyID, strings.TrimSpace(req.Nombre), req.LimiteCredito, actorID)
	c.CUIT = req.CUIT
	c.Email = req.Email
	c.Telefono = req.Telefono
	c.Direccion = req.Direccion
	if err := s.Clientes.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clienteService) Obtener(ctx context.Context, companyID, id uuid.UUID) (*model.Cliente, error) {
	c, err := s.Clientes.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, noEncontrado(err, model.ErrClienteNoEncontrado)
	}
	return c, nil
}

func (s *clienteService) Listar(ctx context.Context, companyID uuid.UUID, f dto.ClienteFilter) (*dto.ListResponse[model.Cliente], error) {
	cs, total, err := s.Clientes.List(ctx, companyID, strings.TrimSpace(f.Buscar), f.Offset(), f.Limit)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[model.Cliente]{Data: cs, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ── Facturas / Presupuestos ──────────────────────────────────────────────────
// Document numbers are drawn inside the same transaction, so a rejected
// document does not leave a gap in the sequence.

func (s *clienteService) AgregarFactura(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.FacturaRequest) (*dto.FacturaResponse, error) {
	if !req.Total.IsPositive() {
		return nil, model.ErrMontoInvalido
	}
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	venc, err := parseFecha("fecha_vencimiento", req.FechaVencimiento)
	if err != nil {
		return nil, err
	}

	var resp dto.FacturaResponse
	err = runTx(ctx, s.Clientes.DB(), func(tx *gorm.DB) error {
		c, err := s.Clientes.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrClienteNoEncontrado)
		}
		if !c.Activo {
			return model.ErrClienteInactivo
		}
		numero, err := s.Contadores.NumeroTx(ctx, tx, companyID, model.DocumentoFactura, actorID)
		if err != nil {
			return err
		}
		f, imp, err := c.AgregarFactura(model.DatosFactura{
			Fecha:            fecha,
			FechaVencimiento: venc,
			Concepto:         req.Concepto,
			Total:            req.Total,
		}, numero, actorID)
		if err != nil {
			return err
		}
		if err := s.Clientes.Update(ctx, tx, c); err != nil {
			return err
		}
		if err := s.Clientes.CreateFactura(ctx, tx, f, imp); err != nil {
			return err
		}
		resp = dto.FacturaResponse{
			Factura:      *f,
			Movimiento:   imp.Movimiento,
			Aplicaciones: imp.Aplicaciones,
			SaldoActual:  c.SaldoActual,
		}
		if resp.Aplicaciones == nil {
			resp.Aplicaciones = []model.AplicacionPago{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *clienteService) AgregarPresupuesto(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.PresupuestoRequest) (*model.Presupuesto, error) {
	if !req.Total.IsPositive() {
		return nil, model.ErrMontoInvalido
	}
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	var validoHasta *time.Time
	if req.ValidoHasta != "" {
		v, err := parseFecha("valido_hasta", req.ValidoHasta)
		if err != nil {
			return nil, err
		}
		validoHasta = &v
	}

	var p *model.Presupuesto
	err = runTx(ctx, s.Clientes.DB(), func(tx *gorm.DB) error {
		c, err := s.Clientes.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrClienteNoEncontrado)
		}
		if !c.Activo {
			return model.ErrClienteInactivo
		}
		numero, err := s.Contadores.NumeroTx(ctx, tx, companyID, model.DocumentoPresupuesto, actorID)
		if err != nil {
			return err
		}
		p, err = c.AgregarPresupuesto(model.DatosPresupuesto{
			Fecha:       fecha,
			ValidoHasta: validoHasta,
			Concepto:    req.Concepto,
			Total:       req.Total,
		}, numero, actorID)
		if err != nil {
			return err
		}
		return s.Clientes.CreatePresupuesto(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ── Pagos ────────────────────────────────────────────────────────────────────
// Every method follows the same path: lock the client, draw the recibo
// number, let the model impute the payment against open invoices, persist.
// Background work (caja credit, e-mailed receipt) is queued after commit.

// medioPago applies one payment method to the locked client. It may write
// its own rows through tx and fill the method-specific fields of resp.
type medioPago func(tx *gorm.DB, c *model.Cliente, recibo string, resp *dto.PagoResponse) (any, *model.Imputacion, error)

func (s *clienteService) registrarPago(ctx context.Context, companyID, id, actorID uuid.UUID, metodo string, aplicar medioPago) (*dto.PagoResponse, error) {
	var (
		resp    dto.PagoResponse
		cliente *model.Cliente
	)
	err := runTx(ctx, s.Clientes.DB(), func(tx *gorm.DB) error {
		c, err := s.Clientes.FindForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return noEncontrado(err, model.ErrClienteNoEncontrado)
		}
		if !c.Activo {
			return model.ErrClienteInactivo
		}
		recibo, err := s.Contadores.NumeroTx(ctx, tx, companyID, model.DocumentoRecibo, actorID)
		if err != nil {
			return err
		}
		pago, imp, err := aplicar(tx, c, recibo, &resp)
		if err != nil {
			return err
		}
		if err := s.Clientes.Update(ctx, tx, c); err != nil {
			return err
		}
		if err := s.Clientes.CreatePago(ctx, tx, pago, imp); err != nil {
			return err
		}
		resp.Pago = pago
		resp.NumeroRecibo = recibo
		resp.Movimiento = imp.Movimiento
		resp.Aplicaciones = imp.Aplicaciones
		if resp.Aplicaciones == nil {
			resp.Aplicaciones = []model.AplicacionPago{}
		}
		resp.SaldoActual = c.SaldoActual
		cliente = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.despacharPago(ctx, cliente, metodo, &resp)
	return &resp, nil
}

// despacharPago is best-effort: the payment is already committed and the
// retry cron sweeps any credit whose enqueue was lost.
func (s *clienteService) despacharPago(ctx context.Context, c *model.Cliente, metodo string, resp *dto.PagoResponse) {
	if s.Dispatcher == nil {
		return
	}
	if resp.AcreditacionID != nil {
		if err := s.Dispatcher.EncolarAcreditacion(ctx, *resp.AcreditacionID); err != nil {
			log.Warn().Err(err).Str("acreditacion_id", resp.AcreditacionID.String()).
				Msg("pago: no se pudo encolar la acreditación")
		}
	}
	if c.Email == nil || *c.Email == "" {
		return
	}
	job := dto.ReciboEmailJob{
		Destinatario:  *c.Email,
		ClienteNombre: c.Nombre,
		NumeroRecibo:  resp.NumeroRecibo,
		MetodoPago:    metodo,
		Fecha:         resp.Movimiento.Fecha.Format(time.RFC3339),
		Monto:         resp.Movimiento.Monto,
		Concepto:      resp.Movimiento.Concepto,
		SaldoActual:   resp.SaldoActual,
	}
	if c.CUIT != nil {
		job.ClienteCUIT = *c.CUIT
	}
	if err := s.Dispatcher.EncolarRecibo(ctx, job); err != nil {
		log.Warn().Err(err).Str("recibo", resp.NumeroRecibo).Msg("pago: no se pudo encolar el recibo")
	}
}

// RegistrarPagoEfectivo optionally routes the cash into a caja. The credit is
// an outbox row written with the payment; the worker applies it.
func (s *clienteService) RegistrarPagoEfectivo(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.PagoEfectivoRequest) (*dto.PagoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, model.ErrMontoInvalido
	}
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	cajaID, err := parseID("caja_id", req.CajaID)
	if err != nil {
		return nil, err
	}
	if cajaID != nil {
		caja, err := s.Cajas.FindByID(ctx, companyID, *cajaID)
		if err != nil {
			return nil, noEncontrado(err, model.ErrCajaNoEncontrada)
		}
		if !caja.Activa {
			return nil, model.ErrCajaInactiva
		}
	}

	return s.registrarPago(ctx, companyID, id, actorID, model.PagoEfectivoMetodo,
		func(tx *gorm.DB, c *model.Cliente, recibo string, resp *dto.PagoResponse) (any, *model.Imputacion, error) {
			pago, imp, err := c.RegistrarPagoEfectivo(model.DatosPago{
				Fecha:    fecha,
				Monto:    req.Monto,
				Concepto: req.Concepto,
			}, cajaID, recibo, actorID)
			if err != nil {
				return nil, nil, err
			}
			if cajaID != nil {
				a := model.NuevaAcreditacion(companyID, *cajaID, c.ID, pago.ID, pago.Monto,
					"Cobranza "+c.Nombre+" - Recibo "+recibo, recibo, s.MaxReintentos, actorID)
				if err := s.Acreditaciones.Create(ctx, tx, a); err != nil {
					return nil, nil, err
				}
				resp.AcreditacionID = &a.ID
			}
			return pago, imp, nil
		})
}

func (s *clienteService) RegistrarPagoBancario(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.PagoBancarioRequest) (*dto.PagoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, model.ErrMontoInvalido
	}
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}

	return s.registrarPago(ctx, companyID, id, actorID, model.PagoBancarioMetodo,
		func(_ *gorm.DB, c *model.Cliente, recibo string, _ *dto.PagoResponse) (any, *model.Imputacion, error) {
			return c.RegistrarPagoBancario(model.DatosPagoBancario{
				DatosPago:       model.DatosPago{Fecha: fecha, Monto: req.Monto, Concepto: req.Concepto},
				Banco:           req.Banco,
				NumeroOperacion: req.NumeroOperacion,
				TipoOperacion:   req.TipoOperacion,
			}, recibo, actorID)
		})
}

// RegistrarPagoCheque takes the cheque into custody in the given terceros
// chequera, inside the payment transaction, when chequera_id is sent.
func (s *clienteService) RegistrarPagoCheque(ctx context.Context, companyID, id, actorID uuid.UUID, req dto.PagoChequeRequest) (*dto.PagoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, model.ErrMontoInvalido
	}
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	emision, err := parseFecha("fecha_emision", req.FechaEmision)
	if err != nil {
		return nil, err
	}
	vencimiento, err := parseFecha("fecha_vencimiento", req.FechaVencimiento)
	if err != nil {
		return nil, err
	}
	chequeraID, err := parseID("chequera_id", req.ChequeraID)
	if err != nil {
		return nil, err
	}
	emisor := emisorCheque(req.Emisor)
	numero := strings.TrimSpace(req.NumeroCheque)

	return s.registrarPago(ctx, companyID, id, actorID, model.PagoChequeMetodo,
		func(tx *gorm.DB, c *model.Cliente, recibo string, resp *dto.PagoResponse) (any, *model.Imputacion, error) {
			var chequeID *uuid.UUID
			if chequeraID != nil {
				chequera, err := s.Chequeras.FindForUpdate(ctx, tx, companyID, *chequeraID)
				if err != nil {
					return nil, nil, noEncontrado(err, model.ErrChequeraNoEncontrada)
				}
				parte := model.ParteCheque{Nombre: c.Nombre}
				if c.CUIT != nil {
					parte.CUIT = *c.CUIT
				}
				concepto := "Recibo " + recibo
				ch, mov, err := chequera.AgregarChequeTerceros(model.DatosChequeTerceros{
					Numero:           numero,
					Monto:            req.Monto,
					FechaEmision:     emision,
					FechaVencimiento: vencimiento,
					Cliente:          parte,
					Emisor:           emisor,
					Concepto:         &concepto,
				}, actorID)
				if err != nil {
					return nil, nil, err
				}
				if err := s.Chequeras.CreateCheque(ctx, tx, ch, mov); err != nil {
					return nil, nil, err
				}
				chequeID = &ch.ID
				resp.Cheque = ch
			}
			return c.RegistrarPagoCheque(model.DatosPagoCheque{
				DatosPago:        model.DatosPago{Fecha: fecha, Monto: req.Monto, Concepto: req.Concepto},
				NumeroCheque:     numero,
				Emisor:           emisor,
				FechaEmision:     emision,
				FechaVencimiento: vencimiento,
			}, chequeraID, chequeID, recibo, actorID)
		})
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *clienteService) Resumen(ctx context.Context, companyID, id uuid.UUID) (*model.ResumenCliente, error) {
	c, err := s.Clientes.FindFull(ctx, companyID, id)
	if err != nil {
		return nil, noEncontrado(err, model.ErrClienteNoEncontrado)
	}
	r := c.Resumen()
	return &r, nil
}

func (s *clienteService) EstadoCrediticio(ctx context.Context, companyID, id uuid.UUID) (*model.EstadoCrediticio, error) {
	c, err := s.Clientes.FindFull(ctx, companyID, id)
	if err != nil {
		return nil, noEncontrado(err, model.ErrClienteNoEncontrado)
	}
	e := c.EstadoCrediticio(s.ahora())
	return &e, nil
}

func (s *clienteService) CuentaCorriente(ctx context.Context, companyID, id uuid.UUID, p dto.Paginacion) (*dto.ListResponse[model.MovimientoCuentaCorriente], error) {
	if _, err := s.Obtener(ctx, companyID, id); err != nil {
		return nil, err
	}
	movs, total, err := s.Clientes.ListCuentaCorriente(ctx, id, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[model.MovimientoCuentaCorriente]{Data: movs, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

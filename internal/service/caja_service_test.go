package service_test

import (
	"context"
	"testing"

	"tesoreria/internal/dto"
	"tesoreria/internal/model"
	"tesoreria/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cajaFixture struct {
	svc     service.CajaService
	repo    *fakeCajaRepo
	acred   *fakeAcreditacionRepo
	cola    *fakeEncolador
	company uuid.UUID
	actor   uuid.UUID
}

func newCajaFixture() *cajaFixture {
	f := &cajaFixture{
		repo:    newFakeCajaRepo(),
		acred:   newFakeAcreditacionRepo(),
		cola:    &fakeEncolador{},
		company: uuid.New(),
		actor:   uuid.New(),
	}
	f.svc = service.NewCajaService(f.repo, f.acred, f.cola)
	return f
}

func (f *cajaFixture) crear(t *testing.T, nombre, moneda, saldo string) *model.Caja {
	t.Helper()
	c, err := f.svc.Crear(context.Background(), f.company, f.actor, dto.CrearCajaRequest{
		Nombre:       nombre,
		Moneda:       moneda,
		SaldoInicial: dec(saldo),
	})
	require.NoError(t, err)
	return c
}

func (f *cajaFixture) movimiento(tipo, monto string, relacionada *uuid.UUID) dto.MovimientoCajaRequest {
	req := dto.MovimientoCajaRequest{Tipo: tipo, Monto: dec(monto), Descripcion: "test"}
	if relacionada != nil {
		req.CajaRelacionadaID = strPtr(relacionada.String())
	}
	return req
}

// ── Crear ────────────────────────────────────────────────────────────────────

func TestCrearCaja(t *testing.T) {
	f := newCajaFixture()
	c := f.crear(t, "Principal", "", "1500")

	assert.Equal(t, "ARS", c.Moneda)
	assert.True(t, c.SaldoActual.Equal(dec("1500")))
	assert.True(t, c.SaldoAnterior.Equal(dec("1500")))
	assert.True(t, c.Activa)
}

func TestCrearCaja_NombreDuplicado(t *testing.T) {
	f := newCajaFixture()
	f.crear(t, "Principal", "ARS", "0")

	_, err := f.svc.Crear(context.Background(), f.company, f.actor, dto.CrearCajaRequest{Nombre: "Principal"})
	assert.ErrorIs(t, err, model.ErrNombreCajaDuplicado)

	// another company may reuse the name
	_, err = f.svc.Crear(context.Background(), uuid.New(), f.actor, dto.CrearCajaRequest{Nombre: "Principal"})
	assert.NoError(t, err)
}

func TestCrearCaja_SaldoNegativo(t *testing.T) {
	f := newCajaFixture()
	_, err := f.svc.Crear(context.Background(), f.company, f.actor, dto.CrearCajaRequest{
		Nombre: "Principal", SaldoInicial: dec("-1"),
	})
	assert.ErrorIs(t, err, model.ErrSaldoInicialInvalido)
}

func TestObtenerCaja_OtraEmpresa(t *testing.T) {
	f := newCajaFixture()
	c := f.crear(t, "Principal", "ARS", "0")

	_, err := f.svc.Obtener(context.Background(), uuid.New(), c.ID)
	assert.ErrorIs(t, err, model.ErrCajaNoEncontrada)
}

// ── Movimientos ──────────────────────────────────────────────────────────────

func TestRegistrarMovimiento_IngresoYEgreso(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	c := f.crear(t, "Principal", "ARS", "1000")

	r, err := f.svc.RegistrarMovimiento(ctx, f.company, c.ID, f.actor, f.movimiento(model.MovimientoIngreso, "250.50", nil))
	require.NoError(t, err)
	assert.True(t, r.SaldoActual.Equal(dec("1250.50")))
	assert.True(t, r.SaldoAnterior.Equal(dec("1000")))
	assert.Equal(t, int64(1), r.Movimiento.NumeroMovimiento)

	r, err = f.svc.RegistrarMovimiento(ctx, f.company, c.ID, f.actor, f.movimiento(model.MovimientoEgreso, "1250.50", nil))
	require.NoError(t, err)
	assert.True(t, r.SaldoActual.IsZero())
	assert.Equal(t, int64(2), r.Movimiento.NumeroMovimiento)
	assert.Nil(t, r.MovimientoDestino)
}

func TestRegistrarMovimiento_FondosInsuficientesNoModifica(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	c := f.crear(t, "Principal", "ARS", "100")

	_, err := f.svc.RegistrarMovimiento(ctx, f.company, c.ID, f.actor, f.movimiento(model.MovimientoEgreso, "100.01", nil))
	assert.ErrorIs(t, err, model.ErrFondosInsuficientes)

	got, err := f.svc.Obtener(ctx, f.company, c.ID)
	require.NoError(t, err)
	assert.True(t, got.SaldoActual.Equal(dec("100")))
	assert.Equal(t, int64(0), got.UltimoNumeroMovimiento)
	assert.Empty(t, f.repo.movimientosDe(c.ID))
}

func TestRegistrarMovimiento_CajaInexistente(t *testing.T) {
	f := newCajaFixture()
	_, err := f.svc.RegistrarMovimiento(context.Background(), f.company, uuid.New(), f.actor, f.movimiento(model.MovimientoIngreso, "1", nil))
	assert.ErrorIs(t, err, model.ErrCajaNoEncontrada)
}

func TestTransferencia_MueveAmbosSaldos(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	origen := f.crear(t, "Principal", "ARS", "1000")
	destino := f.crear(t, "Chica", "ARS", "50")

	r, err := f.svc.RegistrarMovimiento(ctx, f.company, origen.ID, f.actor, f.movimiento(model.MovimientoTransferencia, "300", &destino.ID))
	require.NoError(t, err)
	require.NotNil(t, r.MovimientoDestino)

	assert.True(t, r.SaldoActual.Equal(dec("700")))
	assert.Equal(t, model.MovimientoTransferencia, r.Movimiento.Tipo)
	assert.Equal(t, model.MovimientoIngreso, r.MovimientoDestino.Tipo)
	assert.True(t, r.MovimientoDestino.SaldoPosterior.Equal(dec("350")))

	// both legs point at each other
	require.NotNil(t, r.Movimiento.MovimientoRelacionadoID)
	assert.Equal(t, r.MovimientoDestino.ID, *r.Movimiento.MovimientoRelacionadoID)
	require.NotNil(t, r.MovimientoDestino.MovimientoRelacionadoID)
	assert.Equal(t, r.Movimiento.ID, *r.MovimientoDestino.MovimientoRelacionadoID)
	assert.Equal(t, origen.ID, *r.MovimientoDestino.CajaRelacionadaID)

	d, err := f.svc.Obtener(ctx, f.company, destino.ID)
	require.NoError(t, err)
	assert.True(t, d.SaldoActual.Equal(dec("350")))
	assert.Len(t, f.repo.movimientosDe(destino.ID), 1)
}

func TestTransferencia_Validaciones(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	origen := f.crear(t, "Principal", "ARS", "1000")
	dolares := f.crear(t, "Dólares", "USD", "0")
	vacia := f.crear(t, "Cerrada", "ARS", "0")
	require.NoError(t, f.svc.Eliminar(ctx, f.company, vacia.ID))
	inexistente := uuid.New()

	cases := []struct {
		name    string
		destino *uuid.UUID
		want    error
	}{
		{"sin destino", nil, model.ErrCajaRelacionadaRequerida},
		{"misma caja", &origen.ID, model.ErrCajaRelacionadaInvalida},
		{"destino inexistente", &inexistente, model.ErrCajaRelacionadaNoEncontrada},
		{"destino inactivo", &vacia.ID, model.ErrCajaRelacionadaNoEncontrada},
		{"otra moneda", &dolares.ID, model.ErrMonedaDistinta},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.RegistrarMovimiento(ctx, f.company, origen.ID, f.actor, f.movimiento(model.MovimientoTransferencia, "10", tc.destino))
			assert.ErrorIs(t, err, tc.want)
		})
	}

	got, err := f.svc.Obtener(ctx, f.company, origen.ID)
	require.NoError(t, err)
	assert.True(t, got.SaldoActual.Equal(dec("1000")))
}

func TestTransferencia_FondosInsuficientes(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	origen := f.crear(t, "Principal", "ARS", "10")
	destino := f.crear(t, "Chica", "ARS", "0")

	_, err := f.svc.RegistrarMovimiento(ctx, f.company, origen.ID, f.actor, f.movimiento(model.MovimientoTransferencia, "11", &destino.ID))
	assert.ErrorIs(t, err, model.ErrFondosInsuficientes)
	assert.Empty(t, f.repo.movimientosDe(destino.ID))
}

// ── Actualizar / Eliminar ────────────────────────────────────────────────────

func TestActualizarCaja(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	c := f.crear(t, "Principal", "ARS", "0")
	f.crear(t, "Chica", "ARS", "0")

	_, err := f.svc.Actualizar(ctx, f.company, c.ID, dto.ActualizarCajaRequest{Nombre: strPtr("Chica")})
	assert.ErrorIs(t, err, model.ErrNombreCajaDuplicado)

	got, err := f.svc.Actualizar(ctx, f.company, c.ID, dto.ActualizarCajaRequest{
		Nombre:      strPtr("Mostrador"),
		Descripcion: strPtr("caja del local"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mostrador", got.Nombre)
	assert.Equal(t, 2, got.Version)
}

func TestEliminarCaja(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	c := f.crear(t, "Principal", "ARS", "10")

	assert.ErrorIs(t, f.svc.Eliminar(ctx, f.company, c.ID), model.ErrSaldoDistintoDeCero)

	_, err := f.svc.RegistrarMovimiento(ctx, f.company, c.ID, f.actor, f.movimiento(model.MovimientoEgreso, "10", nil))
	require.NoError(t, err)
	require.NoError(t, f.svc.Eliminar(ctx, f.company, c.ID))

	lista, err := f.svc.Listar(ctx, f.company, dto.Paginacion{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(0), lista.Total)

	_, err = f.svc.RegistrarMovimiento(ctx, f.company, c.ID, f.actor, f.movimiento(model.MovimientoIngreso, "1", nil))
	assert.ErrorIs(t, err, model.ErrCajaInactiva)
}

// ── Consultas ────────────────────────────────────────────────────────────────

func TestResumenCaja(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	c := f.crear(t, "Principal", "ARS", "100")
	otra := f.crear(t, "Chica", "ARS", "0")

	for _, req := range []dto.MovimientoCajaRequest{
		f.movimiento(model.MovimientoIngreso, "50", nil),
		f.movimiento(model.MovimientoEgreso, "20", nil),
		f.movimiento(model.MovimientoTransferencia, "30", &otra.ID),
	} {
		_, err := f.svc.RegistrarMovimiento(ctx, f.company, c.ID, f.actor, req)
		require.NoError(t, err)
	}

	r, err := f.svc.Resumen(ctx, f.company, c.ID, dto.RangoFechas{})
	require.NoError(t, err)
	assert.Equal(t, 3, r.CantidadMovimientos)
	assert.True(t, r.TotalIngresos.Equal(dec("50")))
	assert.True(t, r.TotalEgresos.Equal(dec("20")))
	assert.True(t, r.TotalTransferenciasSalida.Equal(dec("30")))
	assert.True(t, r.MovimientoNeto.Equal(dec("30")))
	assert.True(t, r.SaldoActual.Equal(dec("100")))

	_, err = f.svc.Resumen(ctx, f.company, c.ID, dto.RangoFechas{Desde: "ayer"})
	assert.ErrorIs(t, err, service.ErrFechaInvalida)
}

func TestListarMovimientosCaja(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	c := f.crear(t, "Principal", "ARS", "0")
	for i := 0; i < 3; i++ {
		_, err := f.svc.RegistrarMovimiento(ctx, f.company, c.ID, f.actor, f.movimiento(model.MovimientoIngreso, "1", nil))
		require.NoError(t, err)
	}

	r, err := f.svc.ListarMovimientos(ctx, f.company, c.ID, dto.MovimientoCajaFilter{Paginacion: dto.Paginacion{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.Total)
	require.Len(t, r.Data, 2)
	assert.Equal(t, int64(3), r.Data[0].NumeroMovimiento)

	_, err = f.svc.ListarMovimientos(ctx, uuid.New(), c.ID, dto.MovimientoCajaFilter{Paginacion: dto.Paginacion{Page: 1, Limit: 2}})
	assert.ErrorIs(t, err, model.ErrCajaNoEncontrada)
}

// ── Acreditaciones ───────────────────────────────────────────────────────────

func (f *cajaFixture) acreditacion(cajaID uuid.UUID, monto string, maxRetries int) *model.AcreditacionCaja {
	a := model.NuevaAcreditacion(f.company, cajaID, uuid.New(), uuid.New(), dec(monto),
		"Cobranza Cliente", "0001-00000001", maxRetries, f.actor)
	_ = f.acred.Create(context.Background(), nil, a)
	return a
}

func TestAplicarAcreditacion_EsIdempotente(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	c := f.crear(t, "Principal", "ARS", "0")
	a := f.acreditacion(c.ID, "500", 3)

	require.NoError(t, f.svc.AplicarAcreditacion(ctx, a.ID))
	require.NoError(t, f.svc.AplicarAcreditacion(ctx, a.ID))

	got, err := f.svc.Obtener(ctx, f.company, c.ID)
	require.NoError(t, err)
	assert.True(t, got.SaldoActual.Equal(dec("500")))

	movs := f.repo.movimientosDe(c.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, "cobranza", *movs[0].Categoria)
	assert.Equal(t, model.PagoEfectivoMetodo, *movs[0].MetodoPago)

	aplicada := f.acred.get(a.ID)
	assert.Equal(t, model.AcreditacionAplicada, aplicada.Estado)
	assert.Equal(t, movs[0].ID, *aplicada.MovimientoID)
}

func TestAplicarAcreditacion_AgotaReintentos(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	c := f.crear(t, "Principal", "ARS", "0")
	require.NoError(t, f.svc.Eliminar(ctx, f.company, c.ID))
	a := f.acreditacion(c.ID, "500", 2)

	err := f.svc.AplicarAcreditacion(ctx, a.ID)
	assert.ErrorIs(t, err, model.ErrCajaInactiva)
	assert.NotErrorIs(t, err, model.ErrAcreditacionAgotada)
	pendiente := f.acred.get(a.ID)
	assert.Equal(t, model.AcreditacionPendiente, pendiente.Estado)
	assert.Equal(t, 1, pendiente.RetryCount)
	assert.NotNil(t, pendiente.NextRetryAt)

	err = f.svc.AplicarAcreditacion(ctx, a.ID)
	assert.ErrorIs(t, err, model.ErrAcreditacionAgotada)
	assert.Equal(t, model.AcreditacionFallida, f.acred.get(a.ID).Estado)
}

func TestAplicarAcreditacion_Inexistente(t *testing.T) {
	f := newCajaFixture()
	err := f.svc.AplicarAcreditacion(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrAcreditacionNoEncontrada)
}

func TestReintentarAcreditacion(t *testing.T) {
	f := newCajaFixture()
	ctx := context.Background()
	c := f.crear(t, "Principal", "ARS", "0")
	a := f.acreditacion(c.ID, "10", 1)

	_, err := f.svc.ReintentarAcreditacion(ctx, f.company, a.ID)
	assert.ErrorIs(t, err, model.ErrAcreditacionNoReintentable)

	fallida := f.acred.get(a.ID)
	fallida.MarcarFallo("caja bloqueada")
	require.NoError(t, f.acred.Update(ctx, nil, &fallida))

	_, err = f.svc.ReintentarAcreditacion(ctx, uuid.New(), a.ID)
	assert.ErrorIs(t, err, model.ErrAcreditacionNoEncontrada)

	got, err := f.svc.ReintentarAcreditacion(ctx, f.company, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AcreditacionPendiente, got.Estado)
	assert.Equal(t, 0, got.RetryCount)
	assert.Equal(t, []uuid.UUID{a.ID}, f.cola.acreditaciones)

	lista, err := f.svc.ListarAcreditaciones(ctx, f.company, dto.AcreditacionFilter{
		Paginacion: dto.Paginacion{Page: 1, Limit: 10},
		Estado:     model.AcreditacionPendiente,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), lista.Total)
}

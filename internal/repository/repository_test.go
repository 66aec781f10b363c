package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tesoreria/internal/infra"
	"tesoreria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.Migrar(db))
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Contador ─────────────────────────────────────────────────────────────────

func TestContadorRepo_NextCreaEIncrementa(t *testing.T) {
	repo := NewContadorRepository(newTestDB(t))
	ctx := context.Background()
	company, actor := uuid.New(), uuid.New()
	defaults := model.Contador{Formato: 6, PuntoVenta: "0002"}

	c1, err := repo.Next(ctx, nil, company, model.DocumentoRecibo, defaults, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c1.Secuencia)
	assert.Equal(t, 6, c1.Formato)
	assert.Equal(t, "0002", c1.PuntoVenta)
	assert.Equal(t, actor, c1.UpdatedBy)

	c2, err := repo.Next(ctx, nil, company, model.DocumentoRecibo, defaults, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), c2.Secuencia)
	assert.Equal(t, c1.ID, c2.ID)

	// sequences are independent per company and per document type
	otro, err := repo.Next(ctx, nil, uuid.New(), model.DocumentoRecibo, defaults, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), otro.Secuencia)
	fac, err := repo.Next(ctx, nil, company, model.DocumentoFactura, defaults, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fac.Secuencia)

	todos, err := repo.List(ctx, company)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestContadorRepo_NextDentroDeTransaccion(t *testing.T) {
	db := newTestDB(t)
	repo := NewContadorRepository(db)
	ctx := context.Background()
	company := uuid.New()
	defaults := model.Contador{Formato: 8, PuntoVenta: "0001"}

	_, err := repo.Next(ctx, nil, company, model.DocumentoFactura, defaults, uuid.New())
	require.NoError(t, err)

	// a rolled back transaction gives its number back
	err = db.Transaction(func(tx *gorm.DB) error {
		c, err := repo.Next(ctx, tx, company, model.DocumentoFactura, defaults, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(2), c.Secuencia)
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	c, err := repo.Find(ctx, company, model.DocumentoFactura)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Secuencia)
}

func TestContadorRepo_UpsertSoloColumnasIndicadas(t *testing.T) {
	repo := NewContadorRepository(newTestDB(t))
	ctx := context.Background()
	company := uuid.New()

	_, err := repo.Next(ctx, nil, company, model.DocumentoFactura, model.Contador{Formato: 8, PuntoVenta: "0001"}, uuid.New())
	require.NoError(t, err)

	err = repo.Upsert(ctx, &model.Contador{
		ID:            uuid.New(),
		CompanyID:     company,
		TipoDocumento: model.DocumentoFactura,
		Prefijo:       "FA-",
		Formato:       4,
		PuntoVenta:    "0009",
		Activo:        true,
	}, []string{"prefijo", "updated_by", "updated_at"})
	require.NoError(t, err)

	c, err := repo.Find(ctx, company, model.DocumentoFactura)
	require.NoError(t, err)
	assert.Equal(t, "FA-", c.Prefijo)
	assert.Equal(t, 8, c.Formato)
	assert.Equal(t, "0001", c.PuntoVenta)
	assert.Equal(t, int64(1), c.Secuencia)
}

func TestContadorRepo_Reset(t *testing.T) {
	repo := NewContadorRepository(newTestDB(t))
	ctx := context.Background()
	company := uuid.New()

	err := repo.Reset(ctx, company, model.DocumentoRecibo, 10, uuid.New())
	assert.ErrorIs(t, err, model.ErrContadorNoEncontrado)

	_, err = repo.Next(ctx, nil, company, model.DocumentoRecibo, model.Contador{Formato: 8, PuntoVenta: "0001"}, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Reset(ctx, company, model.DocumentoRecibo, 100, uuid.New()))

	c, err := repo.Next(ctx, nil, company, model.DocumentoRecibo, model.Contador{}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(101), c.Secuencia)
}

// ── Caja ─────────────────────────────────────────────────────────────────────

func crearCaja(t *testing.T, repo CajaRepository, company uuid.UUID, nombre, saldo string) *model.Caja {
	t.Helper()
	c, err := model.NuevaCaja(company, nombre, "ARS", dec(saldo), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestCajaRepo_UpdateDetectaVersionVieja(t *testing.T) {
	repo := NewCajaRepository(newTestDB(t))
	ctx := context.Background()
	company := uuid.New()
	c := crearCaja(t, repo, company, "Principal", "100")

	a, err := repo.FindForUpdate(ctx, nil, company, c.ID)
	require.NoError(t, err)
	b, err := repo.FindForUpdate(ctx, nil, company, c.ID)
	require.NoError(t, err)

	mov, err := a.RegistrarMovimiento(model.NuevoMovimientoCaja{Tipo: model.MovimientoEgreso, Monto: dec("30"), Descripcion: "x"}, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, nil, a))
	require.NoError(t, repo.CreateMovimientos(ctx, nil, mov))
	assert.Equal(t, 2, a.Version)

	_, err = b.RegistrarMovimiento(model.NuevoMovimientoCaja{Tipo: model.MovimientoEgreso, Monto: dec("50"), Descripcion: "y"}, uuid.New())
	require.NoError(t, err)
	err = repo.Update(ctx, nil, b)
	assert.ErrorIs(t, err, model.ErrConflictoConcurrencia)
	assert.Equal(t, 1, b.Version)

	got, err := repo.FindWithMovimientos(ctx, company, c.ID)
	require.NoError(t, err)
	assert.True(t, got.SaldoActual.Equal(dec("70")))
	assert.Equal(t, int64(1), got.UltimoNumeroMovimiento)
	require.Len(t, got.Movimientos, 1)
	assert.Equal(t, int64(0), got.Conciliar())
}

func TestCajaRepo_NombreActivoUnico(t *testing.T) {
	repo := NewCajaRepository(newTestDB(t))
	ctx := context.Background()
	company := uuid.New()
	c := crearCaja(t, repo, company, "Chica", "0")

	dup, err := model.NuevaCaja(company, "Chica", "ARS", decimal.Zero, uuid.New())
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), model.ErrNombreCajaDuplicado)

	existe, err := repo.ExisteNombreActivo(ctx, company, "Chica", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, existe)
	existe, err = repo.ExisteNombreActivo(ctx, company, "Chica", c.ID)
	require.NoError(t, err)
	assert.False(t, existe)

	// a retired caja frees its name
	require.NoError(t, c.Desactivar())
	require.NoError(t, repo.Update(ctx, nil, c))
	assert.NoError(t, repo.Create(ctx, dup))

	// another company may reuse it
	crearCaja(t, repo, uuid.New(), "Chica", "0")
}

func TestCajaRepo_ListMovimientosFiltraYOrdena(t *testing.T) {
	repo := NewCajaRepository(newTestDB(t))
	ctx := context.Background()
	company := uuid.New()
	c := crearCaja(t, repo, company, "Principal", "1000")

	cobranza := "cobranza"
	for _, in := range []model.NuevoMovimientoCaja{
		{Tipo: model.MovimientoIngreso, Monto: dec("10"), Descripcion: "a", Categoria: &cobranza},
		{Tipo: model.MovimientoEgreso, Monto: dec("20"), Descripcion: "b"},
		{Tipo: model.MovimientoIngreso, Monto: dec("30"), Descripcion: "c"},
		{Tipo: model.MovimientoIngreso, Monto: dec("40"), Descripcion: "d", Categoria: &cobranza},
	} {
		mov, err := c.RegistrarMovimiento(in, uuid.New())
		require.NoError(t, err)
		require.NoError(t, repo.CreateMovimientos(ctx, nil, mov))
	}
	require.NoError(t, repo.Update(ctx, nil, c))

	movs, total, err := repo.ListMovimientos(ctx, c.ID, MovimientoCajaQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, movs, 2)
	assert.Equal(t, int64(4), movs[0].NumeroMovimiento)
	assert.Equal(t, int64(3), movs[1].NumeroMovimiento)

	movs, total, err = repo.ListMovimientos(ctx, c.ID, MovimientoCajaQuery{Tipo: model.MovimientoIngreso, Categoria: "cobranza"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "d", movs[0].Descripcion)

	futuro := time.Now().Add(time.Hour)
	_, total, err = repo.ListMovimientos(ctx, c.ID, MovimientoCajaQuery{Desde: &futuro})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestCajaRepo_ListSoloActivasDeLaEmpresa(t *testing.T) {
	repo := NewCajaRepository(newTestDB(t))
	ctx := context.Background()
	company := uuid.New()
	crearCaja(t, repo, company, "B", "0")
	inactiva := crearCaja(t, repo, company, "A", "0")
	crearCaja(t, repo, uuid.New(), "C", "0")

	require.NoError(t, inactiva.Desactivar())
	require.NoError(t, repo.Update(ctx, nil, inactiva))

	cajas, total, err := repo.List(ctx, company, false, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "B", cajas[0].Nombre)

	_, total, err = repo.List(ctx, company, true, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, err = repo.FindByID(ctx, uuid.New(), inactiva.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// ── Chequera ─────────────────────────────────────────────────────────────────

func TestChequeraRepo_ChequesHistorialYMovimientos(t *testing.T) {
	repo := NewChequeraRepository(newTestDB(t))
	ctx := context.Background()
	company, actor := uuid.New(), uuid.New()

	ch, err := model.NuevaChequera(company, "Galicia CC", model.ChequeraPropia,
		model.DatosBancarios{Banco: "Galicia", NumeroCuenta: "123"}, 100, 101, actor)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, ch))

	locked, err := repo.FindForUpdate(ctx, nil, company, ch.ID)
	require.NoError(t, err)
	cheque, mov, err := locked.EmitirChequePropio(model.DatosChequePropio{
		Monto: dec("500"), FechaVencimiento: time.Now().AddDate(0, 1, 0),
	}, actor)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, nil, locked))
	require.NoError(t, repo.CreateCheque(ctx, nil, cheque, mov))

	locked, err = repo.FindForUpdate(ctx, nil, company, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(101), locked.ProximoCheque)
	actualizado, h, err := locked.CambiarEstadoCheque(cheque.ID, model.EstadoCobrado, "", actor)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateEstadoCheque(ctx, nil, actualizado, h))

	full, err := repo.FindFull(ctx, company, ch.ID)
	require.NoError(t, err)
	require.Len(t, full.Cheques, 1)
	assert.Equal(t, "100", full.Cheques[0].Numero)
	assert.Equal(t, model.EstadoCobrado, full.Cheques[0].Estado)
	assert.Equal(t, "Galicia", full.Cheques[0].DatosBancarios.Banco)
	require.Len(t, full.Cheques[0].Historial, 2)
	assert.Equal(t, model.EstadoEmitido, full.Cheques[0].Historial[0].EstadoNuevo)
	assert.Equal(t, model.EstadoCobrado, full.Cheques[0].Historial[1].EstadoNuevo)
	require.Len(t, full.Movimientos, 1)
	assert.Equal(t, model.MovimientoEgreso, full.Movimientos[0].Tipo)

	r := full.Resumen()
	require.NotNil(t, r.ChequesRestantes)
	assert.Equal(t, int64(1), *r.ChequesRestantes)
}

func TestChequeraRepo_ChequeTercerosDuplicado(t *testing.T) {
	repo := NewChequeraRepository(newTestDB(t))
	ctx := context.Background()
	company, actor := uuid.New(), uuid.New()

	ch, err := model.NuevaChequera(company, "Cartera", model.ChequeraTerceros, model.DatosBancarios{}, 0, 0, actor)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, ch))

	in := model.DatosChequeTerceros{
		Numero: "555", Monto: dec("1000"),
		FechaEmision: time.Now(), FechaVencimiento: time.Now().AddDate(0, 0, 30),
		Emisor: model.EmisorCheque{Nombre: "ACME", CUIT: "30-1-1", Banco: "Nación"},
	}
	// two stale copies bypass the in-memory duplicate check; the index still holds
	a, err := repo.FindFull(ctx, company, ch.ID)
	require.NoError(t, err)
	b, err := repo.FindFull(ctx, company, ch.ID)
	require.NoError(t, err)

	c1, m1, err := a.AgregarChequeTerceros(in, actor)
	require.NoError(t, err)
	require.NoError(t, repo.CreateCheque(ctx, nil, c1, m1))

	c2, m2, err := b.AgregarChequeTerceros(in, actor)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.CreateCheque(ctx, nil, c2, m2), model.ErrChequeDuplicado)

	full, err := repo.FindFull(ctx, company, ch.ID)
	require.NoError(t, err)
	require.Len(t, full.Cheques, 1)
	require.Len(t, full.Cheques[0].Historial, 1)
	assert.Nil(t, full.Cheques[0].Historial[0].EstadoAnterior)
	assert.Equal(t, "Nación", full.Cheques[0].Emisor.Banco)

	lista, total, err := repo.List(ctx, company, model.ChequeraTerceros, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Cartera", lista[0].Nombre)
}

// ── Cliente ──────────────────────────────────────────────────────────────────

func TestClienteRepo_PagoImputaFacturas(t *testing.T) {
	repo := NewClienteRepository(newTestDB(t))
	ctx := context.Background()
	company, actor := uuid.New(), uuid.New()

	c := model.NuevoCliente(company, "Ferretería Norte", dec("10000"), actor)
	require.NoError(t, repo.Create(ctx, c))

	locked, err := repo.FindForUpdate(ctx, nil, company, c.ID)
	require.NoError(t, err)
	for i, total := range []string{"600", "400"} {
		f, imp, err := locked.AgregarFactura(model.DatosFactura{
			Total: dec(total), FechaVencimiento: time.Now().AddDate(0, 0, i),
		}, fmt.Sprintf("F-%d", i+1), actor)
		require.NoError(t, err)
		require.NoError(t, repo.CreateFactura(ctx, nil, f, imp))
	}
	require.NoError(t, repo.Update(ctx, nil, locked))

	locked, err = repo.FindForUpdate(ctx, nil, company, c.ID)
	require.NoError(t, err)
	require.Len(t, locked.Facturas, 2)
	pago, imp, err := locked.RegistrarPagoBancario(model.DatosPagoBancario{
		DatosPago: model.DatosPago{Monto: dec("700")}, Banco: "BBVA",
	}, "0001-00000001", actor)
	require.NoError(t, err)
	require.NoError(t, repo.CreatePago(ctx, nil, pago, imp))
	require.NoError(t, repo.Update(ctx, nil, locked))

	// only the partially paid invoice is still open
	locked, err = repo.FindForUpdate(ctx, nil, company, c.ID)
	require.NoError(t, err)
	require.Len(t, locked.Facturas, 1)
	assert.Equal(t, "F-2", locked.Facturas[0].Numero)
	assert.True(t, locked.Facturas[0].SaldoPendiente.Equal(dec("300")))
	assert.Equal(t, model.FacturaParcial, locked.Facturas[0].Estado)
	assert.True(t, locked.SaldoActual.Equal(dec("300")))

	full, err := repo.FindFull(ctx, company, c.ID)
	require.NoError(t, err)
	r := full.Resumen()
	assert.True(t, r.TotalFacturado.Equal(dec("1000")))
	assert.True(t, r.TotalBancario.Equal(dec("700")))
	assert.Equal(t, 1, r.FacturasPendientes)

	movs, total, err := repo.ListCuentaCorriente(ctx, c.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, model.CuentaHaber, movs[0].Tipo)
}

// A surplus payment survives a reload as credit and pays the next invoice.
func TestClienteRepo_CreditoAFavorPagaFacturaPosterior(t *testing.T) {
	repo := NewClienteRepository(newTestDB(t))
	ctx := context.Background()
	company, actor := uuid.New(), uuid.New()

	c := model.NuevoCliente(company, "Anticipos SA", dec("0"), actor)
	require.NoError(t, repo.Create(ctx, c))

	locked, err := repo.FindForUpdate(ctx, nil, company, c.ID)
	require.NoError(t, err)
	assert.Empty(t, locked.Creditos)
	pago, imp, err := locked.RegistrarPagoEfectivo(model.DatosPago{Monto: dec("100")}, nil, "R-1", actor)
	require.NoError(t, err)
	require.NoError(t, repo.CreatePago(ctx, nil, pago, imp))
	require.NoError(t, repo.Update(ctx, nil, locked))

	locked, err = repo.FindForUpdate(ctx, nil, company, c.ID)
	require.NoError(t, err)
	require.Len(t, locked.Creditos, 1)
	assert.Equal(t, pago.ID, locked.Creditos[0].PagoID)
	assert.True(t, locked.Creditos[0].Disponible.Equal(dec("100")))

	f, imp, err := locked.AgregarFactura(model.DatosFactura{
		Total: dec("100"), FechaVencimiento: time.Now().Add(-48 * time.Hour),
	}, "F-1", actor)
	require.NoError(t, err)
	require.NoError(t, repo.CreateFactura(ctx, nil, f, imp))
	require.NoError(t, repo.Update(ctx, nil, locked))

	locked, err = repo.FindForUpdate(ctx, nil, company, c.ID)
	require.NoError(t, err)
	assert.Empty(t, locked.Facturas)
	assert.Empty(t, locked.Creditos)
	assert.True(t, locked.SaldoActual.IsZero())

	full, err := repo.FindFull(ctx, company, c.ID)
	require.NoError(t, err)
	require.Len(t, full.Facturas, 1)
	assert.Equal(t, model.FacturaPagada, full.Facturas[0].Estado)
	e := full.EstadoCrediticio(time.Now())
	assert.Empty(t, e.FacturasVencidas)
	assert.True(t, e.MontoVencido.IsZero())
}

func TestClienteRepo_ListBuscaPorNombreOCUIT(t *testing.T) {
	repo := NewClienteRepository(newTestDB(t))
	ctx := context.Background()
	company := uuid.New()
	cuit := "20-30405060-7"

	a := model.NuevoCliente(company, "Panadería Sol", decimal.Zero, uuid.New())
	b := model.NuevoCliente(company, "Kiosco Luna", decimal.Zero, uuid.New())
	b.CUIT = &cuit
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	got, total, err := repo.List(ctx, company, "panader", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, got[0].ID)

	got, _, err = repo.List(ctx, company, "30405060", 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

// ── Acreditaciones ───────────────────────────────────────────────────────────

func TestAcreditacionRepo_ListDue(t *testing.T) {
	repo := NewAcreditacionRepository(newTestDB(t))
	ctx := context.Background()
	company := uuid.New()
	nueva := func() *model.AcreditacionCaja {
		return model.NuevaAcreditacion(company, uuid.New(), uuid.New(), uuid.New(), dec("10"), "Pago", "R", 3, uuid.New())
	}
	ahora := time.Now()

	reciente := nueva()
	require.NoError(t, repo.Create(ctx, nil, reciente))

	perdida := nueva()
	perdida.CreatedAt = ahora.Add(-10 * time.Minute)
	require.NoError(t, repo.Create(ctx, nil, perdida))

	vencida := nueva()
	vencida.MarcarFallo("timeout")
	pasado := ahora.Add(-time.Second)
	vencida.NextRetryAt = &pasado
	require.NoError(t, repo.Create(ctx, nil, vencida))

	esperando := nueva()
	esperando.MarcarFallo("timeout")
	futuro := ahora.Add(time.Hour)
	esperando.NextRetryAt = &futuro
	require.NoError(t, repo.Create(ctx, nil, esperando))

	aplicada := nueva()
	aplicada.CreatedAt = ahora.Add(-10 * time.Minute)
	aplicada.MarcarAplicada(uuid.New())
	require.NoError(t, repo.Create(ctx, nil, aplicada))

	due, err := repo.ListDue(ctx, ahora, time.Minute, 10)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(due))
	for _, a := range due {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{perdida.ID, vencida.ID}, ids)

	_, total, err := repo.List(ctx, company, model.AcreditacionPendiente, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestAcreditacionRepo_UpdateGuardaNulos(t *testing.T) {
	repo := NewAcreditacionRepository(newTestDB(t))
	ctx := context.Background()
	a := model.NuevaAcreditacion(uuid.New(), uuid.New(), uuid.New(), uuid.New(), dec("10"), "Pago", "R", 3, uuid.New())
	a.MarcarFallo("caja bloqueada")
	require.NoError(t, repo.Create(ctx, nil, a))

	locked, err := repo.FindForUpdate(ctx, nil, a.ID)
	require.NoError(t, err)
	require.NotNil(t, locked.LastError)
	locked.MarcarAplicada(uuid.New())
	require.NoError(t, repo.Update(ctx, nil, locked))

	got, err := repo.FindByID(ctx, a.CompanyID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AcreditacionAplicada, got.Estado)
	assert.Nil(t, got.LastError)
	assert.Nil(t, got.NextRetryAt)
	assert.NotNil(t, got.MovimientoID)
}

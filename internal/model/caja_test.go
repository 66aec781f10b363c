package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nuevaCajaTest(t *testing.T, saldo string) *Caja {
	t.Helper()
	c, err := NuevaCaja(uuid.New(), "Principal", "", dec(saldo), uuid.New())
	require.NoError(t, err)
	return c
}

func TestNuevaCaja_Defaults(t *testing.T) {
	c := nuevaCajaTest(t, "1000")
	assert.Equal(t, "ARS", c.Moneda)
	assert.True(t, c.Activa)
	assert.Equal(t, "1000", c.SaldoActual.String())
	assert.Equal(t, int64(0), c.UltimoNumeroMovimiento)
}

func TestNuevaCaja_SaldoNegativo(t *testing.T) {
	_, err := NuevaCaja(uuid.New(), "X", "ARS", dec("-1"), uuid.New())
	assert.ErrorIs(t, err, ErrSaldoInicialInvalido)
}

func TestRegistrarMovimiento_EgresoYSaldoInsuficiente(t *testing.T) {
	c := nuevaCajaTest(t, "1000")

	mov, err := c.RegistrarMovimiento(NuevoMovimientoCaja{
		Tipo: MovimientoEgreso, Monto: dec("200"), Descripcion: "rent",
	}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(1), mov.NumeroMovimiento)
	assert.Equal(t, "800", mov.SaldoPosterior.String())
	assert.Equal(t, "800", c.SaldoActual.String())
	assert.Equal(t, "1000", c.SaldoAnterior.String())

	_, err = c.RegistrarMovimiento(NuevoMovimientoCaja{
		Tipo: MovimientoEgreso, Monto: dec("900"), Descripcion: "too much",
	}, uuid.New())
	assert.ErrorIs(t, err, ErrFondosInsuficientes)
	assert.Equal(t, "800", c.SaldoActual.String())
	assert.Equal(t, "1000", c.SaldoAnterior.String())
	assert.Equal(t, int64(1), c.UltimoNumeroMovimiento)
	assert.Len(t, c.Movimientos, 1)
}

func TestRegistrarMovimiento_Guardas(t *testing.T) {
	c := nuevaCajaTest(t, "100")
	otra := uuid.New()

	cases := []struct {
		name string
		in   NuevoMovimientoCaja
		want error
	}{
		{"monto cero", NuevoMovimientoCaja{Tipo: MovimientoIngreso, Monto: decimal.Zero}, ErrMontoInvalido},
		{"monto negativo", NuevoMovimientoCaja{Tipo: MovimientoIngreso, Monto: dec("-5")}, ErrMontoInvalido},
		{"tipo desconocido", NuevoMovimientoCaja{Tipo: "ajuste", Monto: dec("5")}, ErrTipoMovimientoInvalido},
		{"transferencia sin destino", NuevoMovimientoCaja{Tipo: MovimientoTransferencia, Monto: dec("5")}, ErrCajaRelacionadaRequerida},
		{"transferencia a si misma", NuevoMovimientoCaja{Tipo: MovimientoTransferencia, Monto: dec("5"), CajaRelacionadaID: &c.ID}, ErrCajaRelacionadaInvalida},
		{"transferencia sin fondos", NuevoMovimientoCaja{Tipo: MovimientoTransferencia, Monto: dec("500"), CajaRelacionadaID: &otra}, ErrFondosInsuficientes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.RegistrarMovimiento(tc.in, uuid.New())
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, "100", c.SaldoActual.String())
			assert.Empty(t, c.Movimientos)
		})
	}
}

func TestRegistrarMovimiento_CajaInactiva(t *testing.T) {
	c := nuevaCajaTest(t, "0")
	require.NoError(t, c.Desactivar())
	_, err := c.RegistrarMovimiento(NuevoMovimientoCaja{Tipo: MovimientoIngreso, Monto: dec("1")}, uuid.New())
	assert.ErrorIs(t, err, ErrCajaInactiva)
}

// Random walk over every movement type: the balance never goes negative,
// numbering has no gaps and replaying the history reproduces each snapshot.
func TestRegistrarMovimiento_Invariantes(t *testing.T) {
	c := nuevaCajaTest(t, "50")
	destino := uuid.New()
	tipos := []string{MovimientoIngreso, MovimientoEgreso, MovimientoTransferencia}
	montos := []string{"10", "35.50", "70", "0.01", "120", "5"}

	for i := 0; i < 60; i++ {
		in := NuevoMovimientoCaja{
			Tipo:        tipos[i%len(tipos)],
			Monto:       dec(montos[(i*7)%len(montos)]),
			Descripcion: "mov",
		}
		if in.Tipo == MovimientoTransferencia {
			in.CajaRelacionadaID = &destino
		}
		antes := c.SaldoActual
		numAntes := c.UltimoNumeroMovimiento
		_, err := c.RegistrarMovimiento(in, uuid.New())
		if err != nil {
			require.ErrorIs(t, err, ErrFondosInsuficientes)
			assert.True(t, antes.Equal(c.SaldoActual))
			assert.Equal(t, numAntes, c.UltimoNumeroMovimiento)
		}
		assert.False(t, c.SaldoActual.IsNegative())
	}

	for i, m := range c.Movimientos {
		assert.Equal(t, int64(i+1), m.NumeroMovimiento)
	}
	assert.Equal(t, int64(0), c.Conciliar())
}

func TestConciliar_DetectaDesvio(t *testing.T) {
	c := nuevaCajaTest(t, "100")
	_, err := c.RegistrarMovimiento(NuevoMovimientoCaja{Tipo: MovimientoIngreso, Monto: dec("10")}, uuid.New())
	require.NoError(t, err)
	_, err = c.RegistrarMovimiento(NuevoMovimientoCaja{Tipo: MovimientoIngreso, Monto: dec("10")}, uuid.New())
	require.NoError(t, err)

	c.Movimientos[1].SaldoPosterior = dec("999")
	assert.Equal(t, int64(2), c.Conciliar())
}

func TestDesactivar_SaldoDistintoDeCero(t *testing.T) {
	c := nuevaCajaTest(t, "10")
	assert.ErrorIs(t, c.Desactivar(), ErrSaldoDistintoDeCero)
	assert.True(t, c.Activa)

	_, err := c.RegistrarMovimiento(NuevoMovimientoCaja{Tipo: MovimientoEgreso, Monto: dec("10")}, uuid.New())
	require.NoError(t, err)
	require.NoError(t, c.Desactivar())
	assert.False(t, c.Activa)
}

func TestResumenCaja(t *testing.T) {
	c := nuevaCajaTest(t, "1000")
	destino := uuid.New()
	movs := []NuevoMovimientoCaja{
		{Tipo: MovimientoIngreso, Monto: dec("300")},
		{Tipo: MovimientoEgreso, Monto: dec("100")},
		{Tipo: MovimientoTransferencia, Monto: dec("50"), CajaRelacionadaID: &destino},
	}
	for _, m := range movs {
		_, err := c.RegistrarMovimiento(m, uuid.New())
		require.NoError(t, err)
	}

	r := c.Resumen(nil, nil)
	assert.Equal(t, "300", r.TotalIngresos.String())
	assert.Equal(t, "100", r.TotalEgresos.String())
	assert.Equal(t, "50", r.TotalTransferenciasSalida.String())
	assert.Equal(t, "200", r.MovimientoNeto.String())
	assert.Equal(t, "1150", r.SaldoActual.String())
	assert.Equal(t, "1200", r.SaldoAnterior.String())
	assert.Equal(t, 3, r.CantidadMovimientos)

	futuro := time.Now().Add(time.Hour)
	r = c.Resumen(&futuro, nil)
	assert.Equal(t, 0, r.CantidadMovimientos)
	assert.True(t, r.MovimientoNeto.IsZero())
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContadorFormatear(t *testing.T) {
	cases := []struct {
		name string
		c    Contador
		sec  int64
		want string
	}{
		{"default", Contador{Formato: 8, PuntoVenta: "0001"}, 1, "0001-00000001"},
		{"prefijo y sufijo", Contador{Prefijo: "FA-", Sufijo: "/B", Formato: 4, PuntoVenta: "0003"}, 42, "FA-0003-0042/B"},
		{"desborda el ancho", Contador{Formato: 2, PuntoVenta: "1"}, 12345, "1-12345"},
		{"sin relleno", Contador{Formato: 0, PuntoVenta: "0001"}, 7, "0001-7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.c.Formatear(tc.sec))
		})
	}
}

func TestTipoDocumentoValido(t *testing.T) {
	assert.True(t, TipoDocumentoValido(DocumentoFactura))
	assert.True(t, TipoDocumentoValido(DocumentoOrdenPago))
	assert.False(t, TipoDocumentoValido("remito"))
	assert.False(t, TipoDocumentoValido(""))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsYEntorno(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CONTADOR_PUNTO_VENTA_DEFAULT", "0005")
	t.Setenv("ACREDITACION_MAX_REINTENTOS", "7")
	t.Setenv("JWT_SECRET", "s3cr3t")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0005", cfg.ContadorPuntoVentaDefault)
	assert.Equal(t, 7, cfg.AcreditacionMaxReintentos)
	assert.Equal(t, 8, cfg.ContadorFormatoDefault)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "s3cr3t", cfg.JWTSecret)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, 1000, cfg.RateLimitPorMinuto)
}

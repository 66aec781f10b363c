package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tesoreria/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestHealth_SinRedis(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", Health(db, nil, infra.NewCircuitBreaker("smtp", infra.DefaultCBConfig())))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		OK          bool           `json:"ok"`
		DB          string         `json:"db"`
		Redis       string         `json:"redis"`
		SMTPCircuit infra.Snapshot `json:"smtp_circuit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Equal(t, "connected", body.DB)
	assert.Equal(t, "error", body.Redis)
	assert.Equal(t, "closed", body.SMTPCircuit.Estado)
}

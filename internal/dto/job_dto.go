package dto

import "github.com/shopspring/decimal"

// ─── Async job payloads ──────────────────────────────────────────────────────

// AcreditacionJob asks the worker to apply one AcreditacionCaja.
type AcreditacionJob struct {
	AcreditacionID string `json:"acreditacion_id"`
}

// ReciboEmailJob carries everything the e-mail worker needs to render the
// receipt PDF in memory and mail it; nothing is read back from the database.
type ReciboEmailJob struct {
	Destinatario  string          `json:"destinatario"`
	ClienteNombre string          `json:"cliente_nombre"`
	ClienteCUIT   string          `json:"cliente_cuit"`
	NumeroRecibo  string          `json:"numero_recibo"`
	MetodoPago    string          `json:"metodo_pago"`
	Fecha         string          `json:"fecha"` // RFC 3339
	Monto         decimal.Decimal `json:"monto"`
	Concepto      string          `json:"concepto"`
	SaldoActual   decimal.Decimal `json:"saldo_actual"`
}

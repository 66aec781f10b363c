package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ConfigurarFormatoRequest updates only the fields that are present.
type ConfigurarFormatoRequest struct {
	Prefijo    *string `json:"prefijo"     validate:"omitempty,max=10"`
	Sufijo     *string `json:"sufijo"      validate:"omitempty,max=10"`
	Formato    *int    `json:"formato"     validate:"omitempty,min=1,max=20"`
	PuntoVenta *string `json:"punto_venta" validate:"omitempty,min=1,max=10"`
}

type ReiniciarContadorRequest struct {
	Valor int64 `json:"valor" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type NumeroDocumentoResponse struct {
	TipoDocumento string `json:"tipo_documento"`
	Numero        string `json:"numero"`
	Contador      int64  `json:"contador"`
	Prefijo       string `json:"prefijo"`
	Sufijo        string `json:"sufijo"`
	PuntoVenta    string `json:"punto_venta"`
}

// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// Machine-readable error classes carried in APIError.Codigo.
const (
	CodigoNoEncontrado  = "no_encontrado"
	CodigoConflicto     = "conflicto"
	CodigoNegocio       = "regla_de_negocio"
	CodigoSolicitud     = "solicitud_invalida"
	CodigoValidacion    = "validacion"
	CodigoInterno       = "interno"
	CodigoAutenticacion = "no_autenticado"
	CodigoLimite        = "limite_excedido"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Detail is the user-facing message, returned verbatim from the domain.
type APIError struct {
	Detail string `json:"detail"`
	Codigo string `json:"codigo,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCodigo builds an error tagged with one of the Codigo* classes.
func WithCodigo(codigo, msg string) *APIError {
	return &APIError{Detail: msg, Codigo: codigo}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Codigo string            `json:"codigo"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Codigo: CodigoValidacion, Fields: fields}
}

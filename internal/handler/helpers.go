package handler

import (
	"errors"
	"net/http"
	"reflect"

	"tesoreria/internal/apierror"
	"tesoreria/internal/middleware"
	"tesoreria/internal/model"
	"tesoreria/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCodigo(apierror.CodigoSolicitud, "JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for list filters in the query string.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCodigo(apierror.CodigoSolicitud, "Parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		c.JSON(http.StatusBadRequest, apierror.WithCodigo(apierror.CodigoSolicitud, err.Error()))
		return false
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// uuidParam parses a path parameter, answering 400 when it is not a uuid.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCodigo(apierror.CodigoSolicitud, "ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// identidad returns the tenant and actor set by middleware.JWTAuth.
func identidad(c *gin.Context) (companyID, actorID uuid.UUID, ok bool) {
	companyID, actorID, ok = middleware.Identidad(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.WithCodigo(apierror.CodigoAutenticacion, "Autenticacion requerida"))
	}
	return companyID, actorID, ok
}

// ── Domain error → HTTP status ───────────────────────────────────────────────

var erroresNoEncontrado = []error{
	model.ErrContadorNoEncontrado,
	model.ErrCajaNoEncontrada,
	model.ErrCajaInactiva,
	model.ErrCajaRelacionadaNoEncontrada,
	model.ErrChequeraNoEncontrada,
	model.ErrChequeraInactiva,
	model.ErrChequeNoEncontrado,
	model.ErrClienteNoEncontrado,
	model.ErrClienteInactivo,
	model.ErrAcreditacionNoEncontrada,
}

var erroresNegocio = []error{
	model.ErrMontoInvalido,
	model.ErrTipoDocumentoInvalido,
	model.ErrCajaRelacionadaRequerida,
	model.ErrCajaRelacionadaInvalida,
	model.ErrMonedaDistinta,
	model.ErrFondosInsuficientes,
	model.ErrTipoMovimientoInvalido,
	model.ErrSaldoDistintoDeCero,
	model.ErrNombreCajaDuplicado,
	model.ErrSaldoInicialInvalido,
	model.ErrTipoChequeraIncorrecto,
	model.ErrRangoAgotado,
	model.ErrRangoInvalido,
	model.ErrChequeDuplicado,
	model.ErrEstadoChequeInvalido,
	model.ErrNombreChequeraDuplicado,
	model.ErrAcreditacionAgotada,
	model.ErrAcreditacionNoReintentable,
	service.ErrFechaInvalida,
	service.ErrIDInvalido,
}

func esAlguno(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// responderError writes the domain message verbatim with its status:
// 404 for missing or inactive aggregates, 409 for lost optimistic updates,
// 400 for rule violations. Anything else is logged and hidden behind a 500.
func responderError(c *gin.Context, err error) {
	switch {
	case esAlguno(err, erroresNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.WithCodigo(apierror.CodigoNoEncontrado, err.Error()))
	case errors.Is(err, model.ErrConflictoConcurrencia):
		c.JSON(http.StatusConflict, apierror.WithCodigo(apierror.CodigoConflicto, err.Error()))
	case esAlguno(err, erroresNegocio):
		c.JSON(http.StatusBadRequest, apierror.WithCodigo(apierror.CodigoNegocio, err.Error()))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("error no clasificado")
		c.JSON(http.StatusInternalServerError, apierror.WithCodigo(apierror.CodigoInterno, "Error interno del servidor"))
	}
}

package handler

import (
	"net/http"

	"tesoreria/internal/dto"
	"tesoreria/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Crear godoc
// @Summary Crea una caja
// @Tags cajas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCajaRequest true "Datos de la caja"
// @Success 201 {object} model.Caja
// @Failure 400 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/cajas [post]
func (h *CajaHandler) Crear(c *gin.Context) {
	var req dto.CrearCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista las cajas activas
// @Tags cajas
// @Produce json
// @Security BearerAuth
// @Param page query int false "Pagina"
// @Param limit query int false "Tamaño de pagina"
// @Success 200 {object} dto.ListResponse[model.Caja]
// @Router /v1/cajas [get]
func (h *CajaHandler) Listar(c *gin.Context) {
	var p dto.Paginacion
	if !bindQuery(c, &p) {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), companyID, p)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene una caja
// @Tags cajas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Success 200 {object} model.Caja
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id} [get]
func (h *CajaHandler) Obtener(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), companyID, id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza nombre y descripcion de una caja
// @Tags cajas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Param body body dto.ActualizarCajaRequest true "Campos a modificar"
// @Success 200 {object} model.Caja
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/cajas/{id} [put]
func (h *CajaHandler) Actualizar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), companyID, id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Desactiva una caja con saldo cero
// @Tags cajas
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id} [delete]
func (h *CajaHandler) Eliminar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), companyID, id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegistrarMovimiento godoc
// @Summary      Registra un movimiento de caja
// @Description  Ingreso, egreso o transferencia. Las transferencias debitan esta caja y acreditan caja_relacionada_id en la misma transaccion.
// @Tags         cajas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "ID de la caja"
// @Param        body body dto.MovimientoCajaRequest true "Movimiento"
// @Success      201  {object} dto.MovimientoCajaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cajas/{id}/movimientos [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.MovimientoCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), companyID, id, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarMovimientos godoc
// @Summary Lista los movimientos de una caja
// @Tags cajas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Param tipo query string false "ingreso | egreso | transferencia"
// @Param categoria query string false "Categoria"
// @Param desde query string false "Fecha desde (AAAA-MM-DD)"
// @Param hasta query string false "Fecha hasta (AAAA-MM-DD)"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamaño de pagina"
// @Success 200 {object} dto.ListResponse[model.MovimientoCaja]
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id}/movimientos [get]
func (h *CajaHandler) ListarMovimientos(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var f dto.MovimientoCajaFilter
	if !bindQuery(c, &f) {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), companyID, id, f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary Totales de una caja en un rango de fechas
// @Tags cajas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Param desde query string false "Fecha desde (AAAA-MM-DD)"
// @Param hasta query string false "Fecha hasta (AAAA-MM-DD)"
// @Success 200 {object} model.ResumenCaja
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id}/resumen [get]
func (h *CajaHandler) Resumen(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var r dto.RangoFechas
	if !bindQuery(c, &r) {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), companyID, id, r)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarAcreditaciones godoc
// @Summary      Lista las acreditaciones de cobranzas en efectivo hacia cajas
// @Tags         acreditaciones
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "pendiente | aplicada | fallida"
// @Param        page   query int false "Pagina"
// @Param        limit  query int false "Tamaño de pagina"
// @Success      200 {object} dto.ListResponse[model.AcreditacionCaja]
// @Router       /v1/acreditaciones [get]
func (h *CajaHandler) ListarAcreditaciones(c *gin.Context) {
	var f dto.AcreditacionFilter
	if !bindQuery(c, &f) {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarAcreditaciones(c.Request.Context(), companyID, f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReintentarAcreditacion godoc
// @Summary      Reencola una acreditacion fallida
// @Tags         acreditaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID de la acreditacion"
// @Success      202 {object} model.AcreditacionCaja
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/acreditaciones/{id}/reintentar [post]
func (h *CajaHandler) ReintentarAcreditacion(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.ReintentarAcreditacion(c.Request.Context(), companyID, id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

package handler

import (
	"net/http"

	"tesoreria/internal/dto"
	"tesoreria/internal/service"

	"github.com/gin-gonic/gin"
)

type ContadoresHandler struct{ svc service.ContadorService }

func NewContadoresHandler(svc service.ContadorService) *ContadoresHandler {
	return &ContadoresHandler{svc: svc}
}

// Listar godoc
// @Summary Lista los contadores de documentos de la empresa
// @Tags contadores
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Contador
// @Router /v1/contadores [get]
func (h *ContadoresHandler) Listar(c *gin.Context) {
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), companyID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Previsualizar godoc
// @Summary      Muestra el proximo numero sin consumirlo
// @Tags         contadores
// @Produce      json
// @Security     BearerAuth
// @Param        tipo path string true "factura | recibo | presupuesto | nota_credito | nota_debito | orden_pago"
// @Success      200 {object} dto.NumeroDocumentoResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/contadores/next-number/{tipo} [get]
func (h *ContadoresHandler) Previsualizar(c *gin.Context) {
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Previsualizar(c.Request.Context(), companyID, c.Param("tipo"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Generar godoc
// @Summary      Consume y devuelve el proximo numero
// @Description  El incremento es atomico: llamadas concurrentes nunca reciben el mismo numero.
// @Tags         contadores
// @Produce      json
// @Security     BearerAuth
// @Param        tipo path string true "Tipo de documento"
// @Success      201 {object} dto.NumeroDocumentoResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/contadores/generate-number/{tipo} [post]
func (h *ContadoresHandler) Generar(c *gin.Context) {
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.SiguienteNumero(c.Request.Context(), companyID, c.Param("tipo"), actorID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ConfigurarFormato godoc
// @Summary Cambia prefijo, sufijo, ancho o punto de venta de un contador
// @Tags contadores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tipo path string true "Tipo de documento"
// @Param body body dto.ConfigurarFormatoRequest true "Formato"
// @Success 200 {object} model.Contador
// @Failure 400 {object} apierror.APIError
// @Router /v1/contadores/{tipo}/formato [put]
func (h *ContadoresHandler) ConfigurarFormato(c *gin.Context) {
	var req dto.ConfigurarFormatoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.ConfigurarFormato(c.Request.Context(), companyID, c.Param("tipo"), actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reiniciar godoc
// @Summary Reinicia la secuencia de un contador
// @Tags contadores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tipo path string true "Tipo de documento"
// @Param body body dto.ReiniciarContadorRequest true "Nuevo valor; el proximo numero sera valor+1"
// @Success 200 {object} model.Contador
// @Failure 404 {object} apierror.APIError
// @Router /v1/contadores/{tipo}/reset [put]
func (h *ContadoresHandler) Reiniciar(c *gin.Context) {
	var req dto.ReiniciarContadorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Reiniciar(c.Request.Context(), companyID, c.Param("tipo"), req.Valor, actorID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

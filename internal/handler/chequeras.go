package handler

import (
	"fmt"
	"net/http"

	"tesoreria/internal/dto"
	"tesoreria/internal/service"

	"github.com/gin-gonic/gin"
)

type ChequerasHandler struct{ svc service.ChequeraService }

func NewChequerasHandler(svc service.ChequeraService) *ChequerasHandler {
	return &ChequerasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crea una chequera
// @Description  Las chequeras propias requieren banco, cuenta y rango de numeracion; las de terceros custodian cheques recibidos.
// @Tags         chequeras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearChequeraRequest true "Datos de la chequera"
// @Success      201  {object} model.Chequera
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/chequeras [post]
func (h *ChequerasHandler) Crear(c *gin.Context) {
	var req dto.CrearChequeraRequest
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
// @Summary      Lista las chequeras activas
// @Tags         chequeras
// @Produce      json
// @Security     BearerAuth
// @Param        tipo  query string false "propia | terceros"
// @Param        page  query int false "Pagina"
// @Param        limit query int false "Tamaño de pagina"
// @Success      200 {object} dto.ListResponse[model.Chequera]
// @Router       /v1/chequeras [get]
func (h *ChequerasHandler) Listar(c *gin.Context) {
	var f dto.ChequeraFilter
	if !bindQuery(c, &f) {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), companyID, f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtiene una chequera
// @Tags         chequeras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID de la chequera"
// @Success      200 {object} model.Chequera
// @Failure      404 {object} apierror.APIError
// @Router       /v1/chequeras/{id} [get]
func (h *ChequerasHandler) Obtener(c *gin.Context) {
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

// Eliminar godoc
// @Summary      Desactiva una chequera
// @Tags         chequeras
// @Security     BearerAuth
// @Param        id path string true "ID de la chequera"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/chequeras/{id} [delete]
func (h *ChequerasHandler) Eliminar(c *gin.Context) {
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

// EmitirCheque godoc
// @Summary      Emite un cheque propio
// @Description  Toma el proximo numero del rango de la chequera y registra el egreso.
// @Tags         chequeras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "ID de la chequera"
// @Param        body body dto.EmitirChequeRequest true "Datos del cheque"
// @Success      201  {object} dto.ChequeOperacionResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/chequeras/{id}/cheques/emitir [post]
func (h *ChequerasHandler) EmitirCheque(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.EmitirChequeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.EmitirCheque(c.Request.Context(), companyID, id, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AgregarChequeTerceros godoc
// @Summary      Recibe un cheque de terceros en custodia
// @Tags         chequeras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "ID de la chequera"
// @Param        body body dto.ChequeTercerosRequest true "Datos del cheque"
// @Success      201  {object} dto.ChequeOperacionResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/chequeras/{id}/cheques/terceros [post]
func (h *ChequerasHandler) AgregarChequeTerceros(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.ChequeTercerosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.AgregarChequeTerceros(c.Request.Context(), companyID, id, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CambiarEstadoCheque godoc
// @Summary      Cambia el estado de un cheque
// @Description  Cualquier transicion entre estados validos es aceptada y queda registrada en el historial.
// @Tags         chequeras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string true "ID de la chequera"
// @Param        chequeId path string true "ID del cheque"
// @Param        body     body dto.CambiarEstadoChequeRequest true "Nuevo estado"
// @Success      200 {object} dto.CambioEstadoChequeResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/chequeras/{id}/cheques/{chequeId} [patch]
func (h *ChequerasHandler) CambiarEstadoCheque(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	chequeID, ok := uuidParam(c, "chequeId")
	if !ok {
		return
	}
	var req dto.CambiarEstadoChequeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.CambiarEstadoCheque(c.Request.Context(), companyID, id, chequeID, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarCheques godoc
// @Summary      Lista los cheques de una chequera
// @Tags         chequeras
// @Produce      json
// @Security     BearerAuth
// @Param        id           path  string true  "ID de la chequera"
// @Param        estado       query string false "Estado"
// @Param        tipo         query string false "propio | tercero"
// @Param        emisor_cuit  query string false "CUIT del emisor"
// @Param        cliente_cuit query string false "CUIT del cliente"
// @Param        desde        query string false "Emitidos desde (AAAA-MM-DD)"
// @Param        hasta        query string false "Emitidos hasta (AAAA-MM-DD)"
// @Param        page         query int    false "Pagina"
// @Param        limit        query int    false "Tamaño de pagina"
// @Success      200 {object} dto.ListResponse[model.Cheque]
// @Failure      404 {object} apierror.APIError
// @Router       /v1/chequeras/{id}/cheques [get]
func (h *ChequerasHandler) ListarCheques(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var f dto.ChequeFilter
	if !bindQuery(c, &f) {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarCheques(c.Request.Context(), companyID, id, f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerCheque godoc
// @Summary      Obtiene un cheque con su historial de estados
// @Tags         chequeras
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string true "ID de la chequera"
// @Param        chequeId path string true "ID del cheque"
// @Success      200 {object} model.Cheque
// @Failure      404 {object} apierror.APIError
// @Router       /v1/chequeras/{id}/cheques/{chequeId} [get]
func (h *ChequerasHandler) ObtenerCheque(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	chequeID, ok := uuidParam(c, "chequeId")
	if !ok {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerCheque(c.Request.Context(), companyID, id, chequeID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos godoc
// @Summary      Lista los movimientos de una chequera
// @Tags         chequeras
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string true  "ID de la chequera"
// @Param        tipo query string false "ingreso | egreso"
// @Success      200 {array} model.MovimientoCheque
// @Failure      404 {object} apierror.APIError
// @Router       /v1/chequeras/{id}/movimientos [get]
func (h *ChequerasHandler) ListarMovimientos(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var f dto.MovimientoChequeFilter
	if !bindQuery(c, &f) {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), companyID, id, f.Tipo)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary      Resumen de una chequera
// @Tags         chequeras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID de la chequera"
// @Success      200 {object} model.ResumenChequera
// @Failure      404 {object} apierror.APIError
// @Router       /v1/chequeras/{id}/resumen [get]
func (h *ChequerasHandler) Resumen(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), companyID, id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarComprobante godoc
// @Summary      Descarga el comprobante PDF de un cheque
// @Tags         chequeras
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id       path string true "ID de la chequera"
// @Param        chequeId path string true "ID del cheque"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/chequeras/{id}/cheques/{chequeId}/comprobante [get]
func (h *ChequerasHandler) DescargarComprobante(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	chequeID, ok := uuidParam(c, "chequeId")
	if !ok {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	pdf, cheque, err := h.svc.ComprobantePDF(c.Request.Context(), companyID, id, chequeID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="cheque-%s.pdf"`, cheque.Numero))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

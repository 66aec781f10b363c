package handler

import (
	"net/http"

	"tesoreria/internal/dto"
	"tesoreria/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearClienteRequest true "Datos del cliente"
// @Success 201 {object} model.Cliente
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
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
// @Summary Lista clientes
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busca por nombre o CUIT"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamaño de pagina"
// @Success 200 {object} dto.ListResponse[model.Cliente]
// @Router /v1/clientes [get]
func (h *ClientesHandler) Listar(c *gin.Context) {
	var f dto.ClienteFilter
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
// @Summary Obtiene un cliente
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cliente"
// @Success 200 {object} model.Cliente
// @Failure 404 {object} apierror.APIError
// @Router /v1/clientes/{id} [get]
func (h *ClientesHandler) Obtener(c *gin.Context) {
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

// AgregarFactura godoc
// @Summary      Registra una factura en la cuenta corriente
// @Description  Numera la factura con el contador de la empresa y debita la cuenta corriente.
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "ID del cliente"
// @Param        body body dto.FacturaRequest true "Factura"
// @Success      201  {object} dto.FacturaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clientes/{id}/facturas [post]
func (h *ClientesHandler) AgregarFactura(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.FacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.AgregarFactura(c.Request.Context(), companyID, id, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AgregarPresupuesto godoc
// @Summary Registra un presupuesto (no afecta el saldo)
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cliente"
// @Param body body dto.PresupuestoRequest true "Presupuesto"
// @Success 201 {object} model.Presupuesto
// @Failure 404 {object} apierror.APIError
// @Router /v1/clientes/{id}/presupuestos [post]
func (h *ClientesHandler) AgregarPresupuesto(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.PresupuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.AgregarPresupuesto(c.Request.Context(), companyID, id, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarPagoEfectivo godoc
// @Summary      Registra una cobranza en efectivo
// @Description  Emite recibo, imputa a facturas pendientes y, si se indica caja_id, encola la acreditacion en esa caja.
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "ID del cliente"
// @Param        body body dto.PagoEfectivoRequest true "Pago"
// @Success      201  {object} dto.PagoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clientes/{id}/pagos/efectivo [post]
func (h *ClientesHandler) RegistrarPagoEfectivo(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.PagoEfectivoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegistrarPagoEfectivo(c.Request.Context(), companyID, id, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarPagoBancario godoc
// @Summary      Registra una cobranza por transferencia o deposito
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "ID del cliente"
// @Param        body body dto.PagoBancarioRequest true "Pago"
// @Success      201  {object} dto.PagoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clientes/{id}/pagos/bancario [post]
func (h *ClientesHandler) RegistrarPagoBancario(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.PagoBancarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegistrarPagoBancario(c.Request.Context(), companyID, id, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarPagoCheque godoc
// @Summary      Registra una cobranza con cheque
// @Description  Con chequera_id el cheque queda en custodia en esa chequera de terceros.
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "ID del cliente"
// @Param        body body dto.PagoChequeRequest true "Pago"
// @Success      201  {object} dto.PagoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clientes/{id}/pagos/cheque [post]
func (h *ClientesHandler) RegistrarPagoCheque(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.PagoChequeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	companyID, actorID, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegistrarPagoCheque(c.Request.Context(), companyID, id, actorID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Resumen godoc
// @Summary Totales de facturacion y cobranza de un cliente
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cliente"
// @Success 200 {object} model.ResumenCliente
// @Failure 404 {object} apierror.APIError
// @Router /v1/clientes/{id}/resumen [get]
func (h *ClientesHandler) Resumen(c *gin.Context) {
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

// EstadoCrediticio godoc
// @Summary Saldo frente al limite de credito
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cliente"
// @Success 200 {object} model.EstadoCrediticio
// @Failure 404 {object} apierror.APIError
// @Router /v1/clientes/{id}/estado-crediticio [get]
func (h *ClientesHandler) EstadoCrediticio(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.EstadoCrediticio(c.Request.Context(), companyID, id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CuentaCorriente godoc
// @Summary Movimientos de la cuenta corriente
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cliente"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamaño de pagina"
// @Success 200 {object} dto.ListResponse[model.MovimientoCuentaCorriente]
// @Failure 404 {object} apierror.APIError
// @Router /v1/clientes/{id}/cuenta-corriente [get]
func (h *ClientesHandler) CuentaCorriente(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var p dto.Paginacion
	if !bindQuery(c, &p) {
		return
	}
	companyID, _, ok := identidad(c)
	if !ok {
		return
	}
	resp, err := h.svc.CuentaCorriente(c.Request.Context(), companyID, id, p)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

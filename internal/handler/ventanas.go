package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mostrador/internal/dto"
	"mostrador/internal/service"
)

type VentanasHandler struct{ svc service.VentanaService }

func NewVentanasHandler(svc service.VentanaService) *VentanasHandler {
	return &VentanasHandler{svc: svc}
}

// Crear godoc
// @Summary Abre una nueva ventana de venta
// @Tags ventanas
// @Accept json
// @Produce json
// @Param body body dto.CrearVentanaRequest true "Nombre opcional"
// @Success 201 {object} dto.VentanaResponse
// @Router /v1/ventanas [post]
func (h *VentanasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentanaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista las ventanas de venta activas
// @Tags ventanas
// @Produce json
// @Success 200 {array} dto.VentanaResponse
// @Router /v1/ventanas [get]
func (h *VentanasHandler) Listar(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.svc.Listar(c.Request.Context())})
}

// Obtener godoc
// @Summary Devuelve una ventana por id
// @Tags ventanas
// @Produce json
// @Param id path int true "ID de ventana"
// @Success 200 {object} dto.VentanaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ventanas/{id} [get]
func (h *VentanasHandler) Obtener(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quitar godoc
// @Summary Elimina una ventana de la lista activa
// @Tags ventanas
// @Param id path int true "ID de ventana"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/ventanas/{id} [delete]
func (h *VentanasHandler) Quitar(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	if err := h.svc.Quitar(c.Request.Context(), id); err != nil {
		writeCoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AgregarProducto godoc
// @Summary Agrega un producto a la ventana (merge por producto_id)
// @Tags ventanas
// @Accept json
// @Produce json
// @Param id path int true "ID de ventana"
// @Param body body dto.AgregarProductoRequest true "Linea"
// @Success 200 {object} dto.VentanaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ventanas/{id}/productos [post]
func (h *VentanasHandler) AgregarProducto(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	var req dto.AgregarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarProducto(c.Request.Context(), id, req)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuitarProducto removes one line by product id.
func (h *VentanasHandler) QuitarProducto(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	resp, err := h.svc.QuitarProducto(c.Request.Context(), id, c.Param("productoId"))
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarCantidad sets the quantity of one line.
func (h *VentanasHandler) ActualizarCantidad(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	var req dto.ActualizarCantidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCantidad(c.Request.Context(), id, c.Param("productoId"), req)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AsignarCliente attaches (or clears) the window's customer.
func (h *VentanasHandler) AsignarCliente(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	var req dto.AsignarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarCliente(c.Request.Context(), id, req)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarPago adds or replaces a payment entry.
func (h *VentanasHandler) AgregarPago(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	var req dto.AgregarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarPago(c.Request.Context(), id, req)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuitarPago removes a payment entry by id.
func (h *VentanasHandler) QuitarPago(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	resp, err := h.svc.QuitarPago(c.Request.Context(), id, c.Param("pagoId"))
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AplicarDescuento sets the window discount (porcentaje XOR monto).
func (h *VentanasHandler) AplicarDescuento(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	var req dto.AplicarDescuentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AplicarDescuento(c.Request.Context(), id, req)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AsignarNotas sets the window note.
func (h *VentanasHandler) AsignarNotas(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	var req dto.AsignarNotasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarNotas(c.Request.Context(), id, req)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

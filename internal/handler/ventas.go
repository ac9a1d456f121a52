package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mostrador/internal/apierror"
	"mostrador/internal/dto"
	"mostrador/internal/service"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Completar godoc
// @Summary Convierte una ventana pagada en una venta completada
// @Tags ventas
// @Accept json
// @Produce json
// @Param id path int true "ID de ventana"
// @Param body body dto.CompletarVentaRequest true "Metadatos de la venta"
// @Success 201 {object} dto.VentaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/ventanas/{id}/completar [post]
func (h *VentasHandler) Completar(c *gin.Context) {
	id, ok := ventanaID(c)
	if !ok {
		return
	}
	var req dto.CompletarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Completar(c.Request.Context(), id, req)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista ventas completadas, paginado y filtrable por fecha/tipo
// @Tags ventas
// @Produce json
// @Success 200 {object} dto.VentaListResponse
// @Router /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtros inválidos: "+err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DelTurno returns the current shift's in-memory completed-sales log.
func (h *VentasHandler) DelTurno(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.svc.DelTurno(c.Request.Context())})
}

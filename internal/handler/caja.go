package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mostrador/internal/apierror"
	"mostrador/internal/dto"
	"mostrador/internal/service"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre una nueva sesion de caja en esta terminal
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.SesionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Declara el conteo del cajón y cierra la sesion
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.CerrarCajaRequest true "Declaracion de cierre"
// @Success 200 {object} dto.SesionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actual godoc
// @Summary Devuelve la sesion de caja vigente de la terminal
// @Tags caja
// @Produce json
// @Success 200 {object} dto.SesionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/actual [get]
func (h *CajaHandler) Actual(c *gin.Context) {
	resp, err := h.svc.Actual(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("Sin sesión de caja"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial returns a paginated list of closed sessions for this terminal.
func (h *CajaHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	data, total, err := h.svc.Historial(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}

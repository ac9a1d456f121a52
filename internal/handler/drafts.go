package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mostrador/internal/apierror"
	"mostrador/internal/dto"
	"mostrador/internal/service"
)

type DraftsHandler struct{ svc service.DraftService }

func NewDraftsHandler(svc service.DraftService) *DraftsHandler { return &DraftsHandler{svc: svc} }

// Sync godoc
// @Summary Empuja inmediatamente todas las ventanas sucias al espejo de drafts
// @Tags drafts
// @Produce json
// @Success 200 {object} dto.SyncResponse
// @Router /v1/drafts/sync [post]
func (h *DraftsHandler) Sync(c *gin.Context) {
	resp, err := h.svc.PushSucias(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista los drafts persistidos de la terminal
// @Tags drafts
// @Produce json
// @Success 200 {object} dto.DraftListResponse
// @Router /v1/drafts [get]
func (h *DraftsHandler) Listar(c *gin.Context) {
	drafts, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.DraftListResponse{Data: drafts})
}

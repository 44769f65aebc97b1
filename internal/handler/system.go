package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/service"
)

type SystemHandler struct {
	configs *service.SiteConfigService
}

func NewSystemHandler(configs *service.SiteConfigService) *SystemHandler {
	return &SystemHandler{configs: configs}
}

// Config godoc
// @Summary Get public site settings
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/system/config [get]
func (h *SystemHandler) Config(c *gin.Context) {
	public, err := h.configs.PublicConfig(c.Request.Context())
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, public)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/model"
	"github.com/neon-social/backend/internal/service"
)

type AdminHandler struct {
	admin   *service.AdminService
	configs *service.SiteConfigService
	media   *service.MediaService
}

func NewAdminHandler(admin *service.AdminService, configs *service.SiteConfigService, media *service.MediaService) *AdminHandler {
	return &AdminHandler{admin: admin, configs: configs, media: media}
}

// ListUsers godoc
// @Summary List accounts with moderation state
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.PaginatedResponse[model.AdminUserResponse]
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := pagination(c)
	result, err := h.admin.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BanUser godoc
// @Summary Ban an account
// @Description A nil until means the ban does not expire.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body model.BanRequest true "Reason and optional expiry"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/admin/users/{id}/ban [post]
func (h *AdminHandler) BanUser(c *gin.Context) {
	admin := GetCurrentUser(c)
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := h.admin.BanUser(c.Request.Context(), admin.ID, targetID, req); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// UnbanUser godoc
// @Summary Lift a ban
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/admin/users/{id}/ban [delete]
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.admin.UnbanUser(c.Request.Context(), targetID); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// ListConfigs godoc
// @Summary List site settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Success 200 {array} model.SiteConfigResponse
// @Router /api/v1/admin/configs [get]
func (h *AdminHandler) ListConfigs(c *gin.Context) {
	configs, err := h.configs.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

// SetConfig godoc
// @Summary Create or update a site setting
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SetConfigRequest true "Key, value, category"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/admin/configs [put]
func (h *AdminHandler) SetConfig(c *gin.Context) {
	var req model.SetConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := h.configs.Set(c.Request.Context(), req); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// ListMedia godoc
// @Summary List uploaded media
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.PaginatedResponse[model.MediaResponse]
// @Router /api/v1/admin/media [get]
func (h *AdminHandler) ListMedia(c *gin.Context) {
	page, pageSize := pagination(c)
	result, err := h.media.List(c.Request.Context(), page, pageSize)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

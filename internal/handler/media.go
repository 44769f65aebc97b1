package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/model"
	"github.com/neon-social/backend/internal/service"
)

type MediaHandler struct {
	media *service.MediaService
}

func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Presign godoc
// @Summary Presign a direct upload
// @Description Returns a short-lived PUT URL; the client uploads straight to the bucket.
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PresignRequest true "Filename and content type"
// @Success 200 {object} model.PresignResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/v1/media/presign [post]
func (h *MediaHandler) Presign(c *gin.Context) {
	user := GetCurrentUser(c)

	var req model.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	resp, err := h.media.PresignUpload(c.Request.Context(), user.ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm godoc
// @Summary Record a completed upload
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ConfirmUploadRequest true "Uploaded object details"
// @Success 201 {object} model.MediaResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/media/confirm [post]
func (h *MediaHandler) Confirm(c *gin.Context) {
	user := GetCurrentUser(c)

	var req model.ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	media, err := h.media.ConfirmUpload(c.Request.Context(), user.ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

// List godoc
// @Summary Browse the media gallery
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.PaginatedResponse[model.MediaResponse]
// @Router /api/v1/media [get]
func (h *MediaHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	result, err := h.media.List(c.Request.Context(), page, pageSize)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

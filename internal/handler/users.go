package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/model"
	"github.com/neon-social/backend/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Profile godoc
// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.UserProfileResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID, GetCurrentUser(c))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Follow godoc
// @Summary Follow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{id}/follow [post]
func (h *UserHandler) Follow(c *gin.Context) {
	user := GetCurrentUser(c)
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.users.Follow(c.Request.Context(), user.ID, targetID); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// Unfollow godoc
// @Summary Unfollow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.SuccessResponse
// @Router /api/v1/users/{id}/follow [delete]
func (h *UserHandler) Unfollow(c *gin.Context) {
	user := GetCurrentUser(c)
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.users.Unfollow(c.Request.Context(), user.ID, targetID); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// Followers godoc
// @Summary List a user's followers
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.PaginatedResponse[model.UserBrief]
// @Router /api/v1/users/{id}/followers [get]
func (h *UserHandler) Followers(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	result, err := h.users.ListFollowers(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Following godoc
// @Summary List who a user follows
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.PaginatedResponse[model.UserBrief]
// @Router /api/v1/users/{id}/following [get]
func (h *UserHandler) Following(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	result, err := h.users.ListFollowing(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

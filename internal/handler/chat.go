package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/model"
	"github.com/neon-social/backend/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Send godoc
// @Summary Send a message to the AI assistant
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ChatRequest true "Message"
// @Success 200 {object} model.ChatResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/v1/chat [post]
func (h *ChatHandler) Send(c *gin.Context) {
	user := GetCurrentUser(c)

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	resp, err := h.chat.Chat(c.Request.Context(), user.ID, req.Message)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary Get recent assistant conversation
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max messages (default 50)"
// @Success 200 {array} model.ChatMessageResponse
// @Router /api/v1/chat/history [get]
func (h *ChatHandler) History(c *gin.Context) {
	user := GetCurrentUser(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := h.chat.History(c.Request.Context(), user.ID, limit)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

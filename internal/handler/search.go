package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/model"
	"github.com/neon-social/backend/internal/service"
)

type SearchHandler struct {
	posts      *service.PostService
	users      *service.UserService
	embeddings *service.EmbeddingService
}

func NewSearchHandler(posts *service.PostService, users *service.UserService, embeddings *service.EmbeddingService) *SearchHandler {
	return &SearchHandler{posts: posts, users: users, embeddings: embeddings}
}

// Posts godoc
// @Summary Search posts by content
// @Tags search
// @Produce json
// @Param q query string true "Search term"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.PaginatedResponse[model.PostResponse]
// @Router /api/v1/search/posts [get]
func (h *SearchHandler) Posts(c *gin.Context) {
	page, pageSize := pagination(c)
	result, err := h.posts.Search(c.Request.Context(), c.Query("q"), page, pageSize, GetCurrentUser(c))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Users godoc
// @Summary Search users by name or email
// @Tags search
// @Produce json
// @Param q query string true "Search term"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.PaginatedResponse[model.UserResponse]
// @Router /api/v1/search/users [get]
func (h *SearchHandler) Users(c *gin.Context) {
	page, pageSize := pagination(c)
	result, err := h.users.Search(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RelatedPosts godoc
// @Summary Find posts similar to a post
// @Description Vector similarity over post embeddings. Empty when indexing is off.
// @Tags search
// @Produce json
// @Param id path int true "Post ID"
// @Param limit query int false "Max results (default 10)"
// @Success 200 {array} model.PostResponse
// @Router /api/v1/posts/{id}/related [get]
func (h *SearchHandler) RelatedPosts(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if h.embeddings == nil {
		c.JSON(http.StatusOK, []model.PostResponse{})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	ids, err := h.embeddings.RelatedPostIDs(c.Request.Context(), postID, limit)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	viewer := GetCurrentUser(c)
	items := make([]model.PostResponse, 0, len(ids))
	for _, id := range ids {
		post, err := h.posts.Get(c.Request.Context(), id, viewer)
		if err != nil {
			continue
		}
		items = append(items, *post)
	}
	c.JSON(http.StatusOK, items)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/model"
	"github.com/neon-social/backend/internal/service"
)

type PostHandler struct {
	posts *service.PostService
}

func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreatePostRequest true "Post content"
// @Success 201 {object} model.PostResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	user := GetCurrentUser(c)

	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// List godoc
// @Summary List posts
// @Tags posts
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Param category_id query int false "Filter by category"
// @Param user_id query int false "Filter by author"
// @Success 200 {object} model.PaginatedResponse[model.PostResponse]
// @Router /api/v1/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	query := model.PostListQuery{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: queryInt64(c, "category_id"),
		UserID:     queryInt64(c, "user_id"),
	}

	result, err := h.posts.List(c.Request.Context(), query, GetCurrentUser(c))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByUser godoc
// @Summary List a user's posts
// @Tags posts
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.PaginatedResponse[model.PostResponse]
// @Router /api/v1/users/{id}/posts [get]
func (h *PostHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	query := model.PostListQuery{Page: page, PageSize: pageSize, UserID: &userID}

	result, err := h.posts.List(c.Request.Context(), query, GetCurrentUser(c))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.PostResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.posts.Get(c.Request.Context(), postID, GetCurrentUser(c))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary Edit a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body model.UpdatePostRequest true "New content"
// @Success 200 {object} model.PostResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	user := GetCurrentUser(c)
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), user.ID, postID, req.Content)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete a post
// @Description Authors delete their own posts; admins delete any.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	user := GetCurrentUser(c)
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), user.ID, postID, user.IsAdmin); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// Interact godoc
// @Summary Toggle a like or favorite
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body model.InteractRequest true "Interaction type (like or favorite)"
// @Success 200 {object} model.InteractResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/posts/{id}/interact [post]
func (h *PostHandler) Interact(c *gin.Context) {
	user := GetCurrentUser(c)
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.InteractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	action, err := h.posts.Interact(c.Request.Context(), user.ID, postID, req.InteractionType)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.InteractResponse{Action: action})
}

// CreateComment godoc
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body model.CreateCommentRequest true "Comment content"
// @Success 201 {object} model.CommentResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/posts/{id}/comments [post]
func (h *PostHandler) CreateComment(c *gin.Context) {
	user := GetCurrentUser(c)
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	comment, err := h.posts.CreateComment(c.Request.Context(), user.ID, postID, req.Content)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments godoc
// @Summary List a post's comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} model.CommentResponse
// @Router /api/v1/posts/{id}/comments [get]
func (h *PostHandler) ListComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.posts.ListComments(c.Request.Context(), postID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Repost godoc
// @Summary Repost with an optional comment
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body model.RepostRequest true "Optional comment"
// @Success 201 {object} model.PostResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/posts/{id}/repost [post]
func (h *PostHandler) Repost(c *gin.Context) {
	user := GetCurrentUser(c)
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.RepostRequest
	_ = c.ShouldBindJSON(&req)

	post, err := h.posts.Repost(c.Request.Context(), user.ID, postID, req.Content)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func queryInt64(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}

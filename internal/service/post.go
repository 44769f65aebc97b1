package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/neon-social/backend/internal/db"
	"github.com/neon-social/backend/internal/model"
)

const (
	maxPostLength    = 5000
	maxCommentLength = 1000
)

// PostEmbedder indexes post content for related-post search. Nil disables
// indexing.
type PostEmbedder interface {
	IndexPost(ctx context.Context, postID int64, content string) error
}

type PostService struct {
	repo     *db.Postgres
	embedder PostEmbedder
}

func NewPostService(repo *db.Postgres, embedder PostEmbedder) *PostService {
	return &PostService{repo: repo, embedder: embedder}
}

func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.PostResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" || len(content) > maxPostLength {
		return nil, ErrInvalidInput
	}

	mediaType := req.MediaType
	if len(req.MediaURLs) == 0 {
		mediaType = model.MediaTypeText
	} else if mediaType != model.MediaTypeImage && mediaType != model.MediaTypeVideo {
		return nil, ErrInvalidInput
	}

	post, err := s.repo.CreatePost(ctx, userID, content, mediaType, req.MediaURLs, req.CategoryID, nil)
	if err != nil {
		return nil, err
	}

	s.indexPost(ctx, post.ID, content)

	return s.buildResponse(ctx, post, &userID)
}

func (s *PostService) List(ctx context.Context, q model.PostListQuery, viewer *model.User) (*model.PaginatedResponse[model.PostResponse], error) {
	posts, total, err := s.repo.ListPosts(ctx, q)
	if err != nil {
		return nil, err
	}

	var viewerID *int64
	if viewer != nil {
		viewerID = &viewer.ID
	}

	items := make([]model.PostResponse, 0, len(posts))
	for i := range posts {
		resp, err := s.buildResponse(ctx, &posts[i], viewerID)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &model.PaginatedResponse[model.PostResponse]{Total: total, Page: q.Page, PageSize: q.PageSize, Items: items}, nil
}

// Get returns a post and bumps its view counter.
func (s *PostService) Get(ctx context.Context, postID int64, viewer *model.User) (*model.PostResponse, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViewCount(ctx, postID); err != nil {
		return nil, err
	}
	post.ViewCount++

	var viewerID *int64
	if viewer != nil {
		viewerID = &viewer.ID
	}
	return s.buildResponse(ctx, post, viewerID)
}

func (s *PostService) Update(ctx context.Context, userID, postID int64, content string) (*model.PostResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > maxPostLength {
		return nil, ErrInvalidInput
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdatePostContent(ctx, postID, content, time.Now())
	if err != nil {
		return nil, err
	}

	s.indexPost(ctx, postID, content)

	return s.buildResponse(ctx, updated, &userID)
}

func (s *PostService) Delete(ctx context.Context, userID, postID int64, isAdmin bool) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return s.repo.DeletePost(ctx, postID)
}

// Interact toggles a like or favorite; liking someone else's post notifies
// the author.
func (s *PostService) Interact(ctx context.Context, userID, postID int64, interactionType string) (string, error) {
	if interactionType != model.InteractionLike && interactionType != model.InteractionFavorite {
		return "", ErrInvalidInput
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return "", err
	}

	added, err := s.repo.ToggleInteraction(ctx, userID, postID, interactionType)
	if err != nil {
		return "", err
	}
	if !added {
		return "removed", nil
	}

	if interactionType == model.InteractionLike && post.UserID != userID {
		if err := s.repo.CreateNotification(ctx, post.UserID, userID, model.NotificationLike, &postID); err != nil {
			return "", err
		}
	}
	return "added", nil
}

func (s *PostService) CreateComment(ctx context.Context, userID, postID int64, content string) (*model.CommentResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > maxCommentLength {
		return nil, ErrInvalidInput
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.CreateComment(ctx, userID, postID, content)
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		if err := s.repo.CreateNotification(ctx, post.UserID, userID, model.NotificationComment, &postID); err != nil {
			return nil, err
		}
	}

	return s.commentResponse(ctx, comment)
}

func (s *PostService) ListComments(ctx context.Context, postID int64) ([]model.CommentResponse, error) {
	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	items := make([]model.CommentResponse, 0, len(comments))
	for i := range comments {
		resp, err := s.commentResponse(ctx, &comments[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return items, nil
}

func (s *PostService) Repost(ctx context.Context, userID, postID int64, content string) (*model.PostResponse, error) {
	original, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.CreatePost(ctx, userID, strings.TrimSpace(content), model.MediaTypeText, nil, nil, &postID)
	if err != nil {
		return nil, err
	}

	if original.UserID != userID {
		if err := s.repo.CreateNotification(ctx, original.UserID, userID, model.NotificationRepost, &postID); err != nil {
			return nil, err
		}
	}

	return s.buildResponse(ctx, post, &userID)
}

func (s *PostService) Search(ctx context.Context, term string, page, pageSize int, viewer *model.User) (*model.PaginatedResponse[model.PostResponse], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return &model.PaginatedResponse[model.PostResponse]{Page: page, PageSize: pageSize, Items: []model.PostResponse{}}, nil
	}
	return s.List(ctx, model.PostListQuery{Page: page, PageSize: pageSize, Search: term}, viewer)
}

func (s *PostService) getPost(ctx context.Context, postID int64) (*model.Post, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// indexPost is best effort: a missing embedding only degrades related-post
// search, it must never fail the write.
func (s *PostService) indexPost(ctx context.Context, postID int64, content string) {
	if s.embedder == nil {
		return
	}
	if err := s.embedder.IndexPost(ctx, postID, content); err != nil {
		log.Printf("post: failed to index post %d: %v", postID, err)
	}
}

func (s *PostService) buildResponse(ctx context.Context, post *model.Post, viewerID *int64) (*model.PostResponse, error) {
	likeCount, commentCount, isLiked, isCollected, err := s.repo.GetPostCounters(ctx, post.ID, viewerID)
	if err != nil {
		return nil, err
	}

	var userInfo *model.UserBrief
	if author, err := s.repo.GetUserByID(ctx, post.UserID); err == nil {
		userInfo = &model.UserBrief{ID: author.ID, Username: author.Username, Avatar: author.Avatar}
	} else if !db.IsNoRows(err) {
		return nil, err
	}

	return &model.PostResponse{
		ID:             post.ID,
		UserID:         post.UserID,
		Content:        post.Content,
		MediaType:      post.MediaType,
		MediaURLs:      post.MediaURLs,
		CategoryID:     post.CategoryID,
		RepostSourceID: post.RepostSourceID,
		CreatedAt:      post.CreatedAt,
		LikeCount:      likeCount,
		CommentCount:   commentCount,
		ViewCount:      post.ViewCount,
		IsLiked:        isLiked,
		IsCollected:    isCollected,
		User:           userInfo,
	}, nil
}

func (s *PostService) commentResponse(ctx context.Context, comment *model.Comment) (*model.CommentResponse, error) {
	var userInfo *model.UserBrief
	if author, err := s.repo.GetUserByID(ctx, comment.UserID); err == nil {
		userInfo = &model.UserBrief{ID: author.ID, Username: author.Username, Avatar: author.Avatar}
	} else if !db.IsNoRows(err) {
		return nil, err
	}

	return &model.CommentResponse{
		ID:        comment.ID,
		UserID:    comment.UserID,
		PostID:    comment.PostID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		User:      userInfo,
	}, nil
}

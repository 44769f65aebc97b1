package model

import "time"

const (
	MediaTypeText  = "text"
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

const (
	InteractionLike     = "like"
	InteractionFavorite = "favorite"
)

type Post struct {
	ID             int64
	UserID         int64
	Content        string
	MediaType      string
	MediaURLs      []string
	CategoryID     *int64
	RepostSourceID *int64
	ViewCount      int64
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

type Comment struct {
	ID        int64
	UserID    int64
	PostID    int64
	Content   string
	CreatedAt time.Time
}

type CreatePostRequest struct {
	Content    string   `json:"content"`
	MediaType  string   `json:"media_type"`
	MediaURLs  []string `json:"media_urls"`
	CategoryID *int64   `json:"category_id"`
}

type UpdatePostRequest struct {
	Content string `json:"content"`
}

type RepostRequest struct {
	Content string `json:"content"`
}

type InteractRequest struct {
	InteractionType string `json:"interaction_type"`
}

type InteractResponse struct {
	Action string `json:"action"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type PostResponse struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Content        string     `json:"content"`
	MediaType      string     `json:"media_type"`
	MediaURLs      []string   `json:"media_urls"`
	CategoryID     *int64     `json:"category_id"`
	RepostSourceID *int64     `json:"repost_source_id"`
	CreatedAt      time.Time  `json:"created_at"`
	LikeCount      int64      `json:"like_count"`
	CommentCount   int64      `json:"comment_count"`
	ViewCount      int64      `json:"view_count"`
	IsLiked        bool       `json:"is_liked"`
	IsCollected    bool       `json:"is_collected"`
	User           *UserBrief `json:"user"`
}

type CommentResponse struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	PostID    int64      `json:"post_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	User      *UserBrief `json:"user"`
}

type PostListQuery struct {
	Page       int
	PageSize   int
	CategoryID *int64
	UserID     *int64
	Search     string
}

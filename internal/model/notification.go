package model

import "time"

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationRepost  = "repost"
)

type Notification struct {
	ID        int64
	UserID    int64
	ActorID   int64
	Type      string
	PostID    *int64
	IsRead    bool
	CreatedAt time.Time
}

type NotificationResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ActorID       int64     `json:"actor_id"`
	ActorUsername string    `json:"actor_username"`
	ActorAvatar   *string   `json:"actor_avatar"`
	Type          string    `json:"type"`
	PostID        *int64    `json:"post_id"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReadAllResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

package db

import (
	"context"
	"time"

	"github.com/neon-social/backend/internal/model"
)

const postColumns = `id, user_id, content, media_type, media_urls, category_id, repost_source_id, view_count, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&post.MediaType,
		&post.MediaURLs,
		&post.CategoryID,
		&post.RepostSourceID,
		&post.ViewCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if post.MediaURLs == nil {
		post.MediaURLs = []string{}
	}
	return &post, nil
}

func (db *Postgres) CreatePost(ctx context.Context, userID int64, content, mediaType string, mediaURLs []string, categoryID, repostSourceID *int64) (*model.Post, error) {
	query := `
		INSERT INTO posts (user_id, content, media_type, media_urls, category_id, repost_source_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + postColumns
	return scanPost(db.Pool.QueryRow(ctx, query, userID, content, mediaType, mediaURLs, categoryID, repostSourceID))
}

func (db *Postgres) GetPostByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(db.Pool.QueryRow(ctx, query, postID))
}

func (db *Postgres) IncrementViewCount(ctx context.Context, postID int64) error {
	_, err := db.Pool.Exec(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, postID)
	return err
}

func (db *Postgres) UpdatePostContent(ctx context.Context, postID int64, content string, updatedAt time.Time) (*model.Post, error) {
	query := `
		UPDATE posts
		SET content = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + postColumns
	return scanPost(db.Pool.QueryRow(ctx, query, postID, content, updatedAt))
}

func (db *Postgres) DeletePost(ctx context.Context, postID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	return err
}

func (db *Postgres) ListPosts(ctx context.Context, q model.PostListQuery) ([]model.Post, int64, error) {
	where := `WHERE ($1::bigint IS NULL OR category_id = $1)
		AND ($2::bigint IS NULL OR user_id = $2)
		AND ($3 = '' OR content ILIKE '%' || $3 || '%')`

	var total int64
	countQuery := `SELECT COUNT(*) FROM posts ` + where
	if err := db.Pool.QueryRow(ctx, countQuery, q.CategoryID, q.UserID, q.Search).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + postColumns + ` FROM posts ` + where + `
		ORDER BY created_at DESC
		OFFSET $4 LIMIT $5`
	rows, err := db.Pool.Query(ctx, query, q.CategoryID, q.UserID, q.Search, (q.Page-1)*q.PageSize, q.PageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *post)
	}
	return posts, total, rows.Err()
}

// GetPostCounters returns like and comment counts plus the viewer's own
// like/favorite state in a single round trip.
func (db *Postgres) GetPostCounters(ctx context.Context, postID int64, viewerID *int64) (likeCount, commentCount int64, isLiked, isCollected bool, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM interactions WHERE post_id = $1 AND type = 'like'),
			(SELECT COUNT(*) FROM comments WHERE post_id = $1),
			EXISTS (SELECT 1 FROM interactions WHERE post_id = $1 AND type = 'like' AND user_id = COALESCE($2, 0)),
			EXISTS (SELECT 1 FROM interactions WHERE post_id = $1 AND type = 'favorite' AND user_id = COALESCE($2, 0))
	`
	err = db.Pool.QueryRow(ctx, query, postID, viewerID).Scan(&likeCount, &commentCount, &isLiked, &isCollected)
	return
}

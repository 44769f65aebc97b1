package db

import (
	"context"

	"github.com/neon-social/backend/internal/model"
)

func (db *Postgres) CreateComment(ctx context.Context, userID, postID int64, content string) (*model.Comment, error) {
	query := `
		INSERT INTO comments (user_id, post_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, post_id, content, created_at
	`
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, query, userID, postID, content).Scan(
		&comment.ID,
		&comment.UserID,
		&comment.PostID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (db *Postgres) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	query := `
		SELECT id, user_id, post_id, content, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(&comment.ID, &comment.UserID, &comment.PostID, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

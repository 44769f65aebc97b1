package db

import (
	"context"

	"github.com/neon-social/backend/internal/model"
)

func (db *Postgres) InsertChatMessage(ctx context.Context, userID int64, role, content string) (*model.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (user_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, role, content, created_at
	`
	var msg model.ChatMessage
	err := db.Pool.QueryRow(ctx, query, userID, role, content).Scan(
		&msg.ID,
		&msg.UserID,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetRecentChatMessages returns the newest messages in chronological order.
func (db *Postgres) GetRecentChatMessages(ctx context.Context, userID int64, limit int) ([]model.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, content, created_at
		FROM (
			SELECT id, user_id, role, content, created_at
			FROM chat_messages
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`
	rows, err := db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.ChatMessage{}
	for rows.Next() {
		var msg model.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

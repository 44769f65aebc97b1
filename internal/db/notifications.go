package db

import (
	"context"

	"github.com/neon-social/backend/internal/model"
)

func (db *Postgres) CreateNotification(ctx context.Context, userID, actorID int64, notificationType string, postID *int64) error {
	query := `
		INSERT INTO notifications (user_id, actor_id, type, post_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err := db.Pool.Exec(ctx, query, userID, actorID, notificationType, postID)
	return err
}

func (db *Postgres) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, offset, limit int) ([]model.NotificationResponse, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)`
	if err := db.Pool.QueryRow(ctx, countQuery, userID, unreadOnly).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT n.id, n.user_id, n.actor_id, u.username, u.avatar, n.type, n.post_id, n.is_read, n.created_at
		FROM notifications n
		JOIN users u ON u.id = n.actor_id
		WHERE n.user_id = $1 AND ($2 = FALSE OR n.is_read = FALSE)
		ORDER BY n.created_at DESC
		OFFSET $3 LIMIT $4
	`
	rows, err := db.Pool.Query(ctx, query, userID, unreadOnly, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []model.NotificationResponse{}
	for rows.Next() {
		var item model.NotificationResponse
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ActorID,
			&item.ActorUsername,
			&item.ActorAvatar,
			&item.Type,
			&item.PostID,
			&item.IsRead,
			&item.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (db *Postgres) MarkNotificationRead(ctx context.Context, notificationID, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	_, err := db.Pool.Exec(ctx, query, notificationID, userID)
	return err
}

func (db *Postgres) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	tag, err := db.Pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

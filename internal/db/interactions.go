package db

import "context"

// ToggleInteraction removes an existing like/favorite or creates a missing
// one. Returns true when the interaction now exists.
func (db *Postgres) ToggleInteraction(ctx context.Context, userID, postID int64, interactionType string) (bool, error) {
	deleteQuery := `
		DELETE FROM interactions
		WHERE user_id = $1 AND post_id = $2 AND type = $3
	`
	tag, err := db.Pool.Exec(ctx, deleteQuery, userID, postID, interactionType)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	insertQuery := `
		INSERT INTO interactions (user_id, post_id, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, post_id, type) DO NOTHING
	`
	if _, err := db.Pool.Exec(ctx, insertQuery, userID, postID, interactionType); err != nil {
		return false, err
	}
	return true, nil
}

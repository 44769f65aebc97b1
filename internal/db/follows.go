package db

import (
	"context"

	"github.com/neon-social/backend/internal/model"
)

func (db *Postgres) CreateFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	tag, err := db.Pool.Exec(ctx, query, followerID, followingID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (db *Postgres) DeleteFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	tag, err := db.Pool.Exec(ctx, query, followerID, followingID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (db *Postgres) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	var following bool
	err := db.Pool.QueryRow(ctx, query, followerID, followingID).Scan(&following)
	return following, err
}

func (db *Postgres) GetFollowCounts(ctx context.Context, userID int64) (following, followers int64, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1),
			(SELECT COUNT(*) FROM follows WHERE following_id = $1)
	`
	err = db.Pool.QueryRow(ctx, query, userID).Scan(&following, &followers)
	return
}

func (db *Postgres) ListFollowers(ctx context.Context, userID int64, offset, limit int) ([]model.UserBrief, int64, error) {
	return db.listFollowSide(ctx, userID, offset, limit, true)
}

func (db *Postgres) ListFollowing(ctx context.Context, userID int64, offset, limit int) ([]model.UserBrief, int64, error) {
	return db.listFollowSide(ctx, userID, offset, limit, false)
}

func (db *Postgres) listFollowSide(ctx context.Context, userID int64, offset, limit int, followers bool) ([]model.UserBrief, int64, error) {
	matchCol, joinCol := "following_id", "follower_id"
	if !followers {
		matchCol, joinCol = "follower_id", "following_id"
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM follows WHERE ` + matchCol + ` = $1`
	if err := db.Pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.username, u.avatar
		FROM follows f
		JOIN users u ON u.id = f.` + joinCol + `
		WHERE f.` + matchCol + ` = $1
		ORDER BY f.created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := db.Pool.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []model.UserBrief{}
	for rows.Next() {
		var brief model.UserBrief
		if err := rows.Scan(&brief.ID, &brief.Username, &brief.Avatar); err != nil {
			return nil, 0, err
		}
		users = append(users, brief)
	}
	return users, total, rows.Err()
}

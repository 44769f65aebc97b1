package db

import (
	"context"
	"time"

	"github.com/neon-social/backend/internal/model"
)

const userColumns = `id, email, username, password_hash, avatar, is_verified, is_admin, is_banned, ban_reason, banned_until, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Avatar,
		&user.IsVerified,
		&user.IsAdmin,
		&user.IsBanned,
		&user.BanReason,
		&user.BannedUntil,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) CreateUser(ctx context.Context, email, username, passwordHash string) (*model.User, error) {
	query := `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, email, username, passwordHash))
}

func (db *Postgres) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, userID))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, username))
}

func (db *Postgres) UpdateUserProfile(ctx context.Context, userID int64, username *string, avatar *string) (*model.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    avatar = COALESCE($3, avatar)
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, userID, username, avatar))
}

func (db *Postgres) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	_, err := db.Pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	return err
}

func (db *Postgres) SetAdmin(ctx context.Context, userID int64) error {
	_, err := db.Pool.Exec(ctx, `UPDATE users SET is_admin = TRUE, is_verified = TRUE WHERE id = $1`, userID)
	return err
}

func (db *Postgres) MarkUserVerified(ctx context.Context, userID int64) error {
	_, err := db.Pool.Exec(ctx, `UPDATE users SET is_verified = TRUE WHERE id = $1`, userID)
	return err
}

func (db *Postgres) SetBan(ctx context.Context, userID int64, reason string, until *time.Time) error {
	query := `
		UPDATE users
		SET is_banned = TRUE, ban_reason = $2, banned_until = $3
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, userID, reason, until)
	return err
}

// ClearBan lifts a ban and wipes its metadata in one statement. The
// is_banned guard keeps the auto-unban path idempotent under concurrent
// requests.
func (db *Postgres) ClearBan(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET is_banned = FALSE, ban_reason = NULL, banned_until = NULL
		WHERE id = $1 AND is_banned = TRUE
	`
	_, err := db.Pool.Exec(ctx, query, userID)
	return err
}

func (db *Postgres) ListUsers(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	rows, err := db.Pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (db *Postgres) SearchUsers(ctx context.Context, term string, offset, limit int) ([]model.User, int64, error) {
	pattern := "%" + term + "%"

	var total int64
	countQuery := `SELECT COUNT(*) FROM users WHERE username ILIKE $1 OR email ILIKE $1`
	if err := db.Pool.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username ILIKE $1 OR email ILIKE $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := db.Pool.Query(ctx, query, pattern, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (db *Postgres) GetUserStats(ctx context.Context, userID int64) (*model.UserStatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM posts WHERE user_id = $1),
			(SELECT COUNT(*) FROM interactions WHERE user_id = $1 AND type = 'like'),
			(SELECT COUNT(*) FROM interactions WHERE user_id = $1 AND type = 'favorite'),
			(SELECT COUNT(*) FROM comments WHERE user_id = $1)
	`
	var stats model.UserStatsResponse
	err := db.Pool.QueryRow(ctx, query, userID).Scan(
		&stats.PostCount,
		&stats.LikeCount,
		&stats.FavoriteCount,
		&stats.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

package db

import (
	"context"
	"time"

	"github.com/neon-social/backend/internal/model"
)

// InsertVerificationCode stores a fresh code after marking earlier unused
// codes of the same type as used, so only the newest code stays valid.
func (db *Postgres) InsertVerificationCode(ctx context.Context, userID int64, code, codeType string, expiresAt time.Time) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, `
		UPDATE verification_codes
		SET used = TRUE
		WHERE user_id = $1 AND type = $2 AND used = FALSE
	`, userID, codeType); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO verification_codes (user_id, code, type, expires_at)
		VALUES ($1, $2, $3, $4)
	`, userID, code, codeType, expiresAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (db *Postgres) GetVerificationCode(ctx context.Context, code, codeType string) (*model.VerificationCode, error) {
	query := `
		SELECT id, user_id, code, type, expires_at, used, created_at
		FROM verification_codes
		WHERE code = $1 AND type = $2
	`
	var vc model.VerificationCode
	err := db.Pool.QueryRow(ctx, query, code, codeType).Scan(
		&vc.ID,
		&vc.UserID,
		&vc.Code,
		&vc.Type,
		&vc.ExpiresAt,
		&vc.Used,
		&vc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

// MarkVerificationCodeUsed reports whether this call consumed the code,
// mirroring the refresh-token conditional update.
func (db *Postgres) MarkVerificationCodeUsed(ctx context.Context, codeID int64) (bool, error) {
	query := `UPDATE verification_codes SET used = TRUE WHERE id = $1 AND used = FALSE`
	tag, err := db.Pool.Exec(ctx, query, codeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/neon-social/backend/internal/db"
	"github.com/neon-social/backend/internal/model"
)

const (
	emailVerifyTTL   = 24 * time.Hour
	passwordResetTTL = time.Hour
)

var ErrInvalidCode = errors.New("invalid verification code")

type VerificationStore interface {
	InsertVerificationCode(ctx context.Context, userID int64, code, codeType string, expiresAt time.Time) error
	GetVerificationCode(ctx context.Context, code, codeType string) (*model.VerificationCode, error)
	MarkVerificationCodeUsed(ctx context.Context, codeID int64) (bool, error)
}

// VerificationService manages single-use codes for email verification and
// password reset. Unlike refresh tokens these codes are never rotated: a code
// is valid once, and issuing a new one supersedes older codes of the same
// type.
type VerificationService struct {
	store VerificationStore
	now   func() time.Time
}

func NewVerificationService(store VerificationStore) *VerificationService {
	return &VerificationService{store: store, now: time.Now}
}

func (s *VerificationService) CreateCode(ctx context.Context, userID int64, codeType string) (string, error) {
	ttl := emailVerifyTTL
	if codeType == model.VerificationPasswordReset {
		ttl = passwordResetTTL
	}

	code, err := newVerificationCode()
	if err != nil {
		return "", err
	}

	if err := s.store.InsertVerificationCode(ctx, userID, code, codeType, s.now().Add(ttl)); err != nil {
		return "", err
	}
	return code, nil
}

// ConsumeCode validates and burns a code, returning the owning user id. Not
// found, already used and expired all collapse into ErrInvalidCode.
func (s *VerificationService) ConsumeCode(ctx context.Context, code, codeType string) (int64, error) {
	record, err := s.store.GetVerificationCode(ctx, code, codeType)
	if err != nil {
		if db.IsNoRows(err) {
			return 0, ErrInvalidCode
		}
		return 0, err
	}

	if record.Used || !s.now().Before(record.ExpiresAt) {
		return 0, ErrInvalidCode
	}

	used, err := s.store.MarkVerificationCodeUsed(ctx, record.ID)
	if err != nil {
		return 0, err
	}
	if !used {
		return 0, ErrInvalidCode
	}

	return record.UserID, nil
}

func newVerificationCode() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

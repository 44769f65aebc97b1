package model

import "time"

const (
	VerificationEmailVerify   = "email_verify"
	VerificationPasswordReset = "password_reset"
)

type VerificationCode struct {
	ID        int64
	UserID    int64
	Code      string
	Type      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

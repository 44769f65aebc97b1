package model

import "time"

type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Avatar       *string
	IsVerified   bool
	IsAdmin      bool
	IsBanned     bool
	BanReason    *string
	BannedUntil  *time.Time
	CreatedAt    time.Time
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// AuthUser is the identity decoded from an access token. Ban state is
// resolved separately against the users table on every request.
type AuthUser struct {
	ID       int64
	Username string
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	IsVerified   bool   `json:"is_verified"`
}

type VerifyEmailRequest struct {
	Code string `json:"code"`
}

type ResendVerifyRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type UpdateMeRequest struct {
	Username *string `json:"username"`
	Avatar   *string `json:"avatar"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar"`
}

type BanRequest struct {
	Reason string     `json:"reason"`
	Until  *time.Time `json:"until"`
}

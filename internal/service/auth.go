package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/neon-social/backend/internal/config"
	"github.com/neon-social/backend/internal/db"
	"github.com/neon-social/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenType   = "access"
	minUsernameLength = 3
	minPasswordLength = 8
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrMisconfigured = errors.New("auth config invalid")
)

// BannedError is deliberately distinct from ErrUnauthorized: the caller's
// identity is already proven, the rejection is a policy decision and the
// user is entitled to know why and until when.
type BannedError struct {
	Reason string
	Until  *time.Time
}

func (e *BannedError) Error() string {
	if e.Until == nil {
		return "account banned indefinitely"
	}
	return "account banned until " + e.Until.Format(time.RFC3339)
}

type UserStore interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (*model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error
	SetAdmin(ctx context.Context, userID int64) error
	MarkUserVerified(ctx context.Context, userID int64) error
	ClearBan(ctx context.Context, userID int64) error
}

type TokenStore interface {
	InsertRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	ConsumeRefreshToken(ctx context.Context, tokenID int64) (bool, error)
	RevokeRefreshTokenByHash(ctx context.Context, tokenHash string) (bool, error)
	RevokeAllRefreshTokens(ctx context.Context, userID int64) (int64, error)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService issues, verifies, rotates and revokes the access/refresh token
// pair, and gates banned accounts when an access token is resolved to a user.
type AuthService struct {
	users      UserStore
	tokens     TokenStore
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type authClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

func NewAuthService(users UserStore, tokens TokenStore, cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	accessTTL, err := time.ParseDuration(cfg.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	refreshTTL, err := time.ParseDuration(cfg.JWTRefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_REFRESH_TTL", ErrMisconfigured)
	}

	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AuthConfig) error {
	if strings.TrimSpace(cfg.AdminUsername) == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return nil
	}

	_, err := s.users.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	email := cfg.AdminEmail
	if email == "" {
		email = cfg.AdminUsername + "@localhost"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := s.users.CreateUser(ctx, email, cfg.AdminUsername, string(hash))
	if err != nil {
		return err
	}
	return s.users.SetAdmin(ctx, user.ID)
}

func (s *AuthService) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	if err := validateCredentials(email, username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, email, username, string(hash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrUnauthorized
	}

	pair, err := s.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// IssueTokenPair mints a signed access token and a persisted opaque refresh
// token. The refresh token row is written before the pair is returned, so a
// handed-out token is always durably known to the store.
func (s *AuthService) IssueTokenPair(ctx context.Context, userID int64) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshHash, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.tokens.InsertRefreshToken(ctx, userID, refreshHash, s.now().Add(s.refreshTTL)); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ParseAccessToken verifies signature, token type and expiry. Every failure
// collapses into ErrUnauthorized so callers cannot tell which check failed.
// No storage access happens here.
func (s *AuthService) ParseAccessToken(tokenStr string) (*model.AuthUser, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	if claims.TokenType != accessTokenType {
		return nil, ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}

	return &model.AuthUser{ID: userID}, nil
}

// Refresh rotates a refresh token: the old token is consumed with a
// conditional update, then a fresh pair is issued. When two requests race on
// the same token, the conditional update lets exactly one of them through.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *model.User, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, nil, ErrUnauthorized
	}

	record, err := s.tokens.GetRefreshTokenByHash(ctx, hashRefreshToken(refreshToken))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}

	if record.RevokedAt != nil || !s.now().Before(record.ExpiresAt) {
		return nil, nil, ErrUnauthorized
	}

	consumed, err := s.tokens.ConsumeRefreshToken(ctx, record.ID)
	if err != nil {
		return nil, nil, err
	}
	if !consumed {
		return nil, nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByID(ctx, record.UserID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}

	pair, err := s.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Logout revokes the refresh token if it exists. Missing or already revoked
// tokens are not an error, so the endpoint never leaks token validity.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	_, err := s.tokens.RevokeRefreshTokenByHash(ctx, hashRefreshToken(refreshToken))
	return err
}

// RevokeAllForUser invalidates every active session, e.g. after a password
// reset. Returns how many tokens were revoked.
func (s *AuthService) RevokeAllForUser(ctx context.Context, userID int64) (int64, error) {
	return s.tokens.RevokeAllRefreshTokens(ctx, userID)
}

// ResetPassword stores the new credential hash and forces re-login on every
// device.
func (s *AuthService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if len(newPassword) < minPasswordLength || len(newPassword) > 128 {
		return ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return err
	}

	_, err = s.RevokeAllForUser(ctx, userID)
	return err
}

// MarkVerified flags the account's email as confirmed.
func (s *AuthService) MarkVerified(ctx context.Context, userID int64) error {
	return s.users.MarkUserVerified(ctx, userID)
}

// LookupByEmail is used by the resend-verification and forgot-password flows.
func (s *AuthService) LookupByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrNotFound
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ResolveUser loads the user behind an access token and applies the ban
// policy. Access tokens carry no ban state, so this read happens on every
// privileged request; a ban takes effect on the next request even while the
// token is still valid.
func (s *AuthService) ResolveUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !user.IsBanned {
		return user, nil
	}

	if user.BannedUntil != nil && user.BannedUntil.Before(s.now()) {
		if err := s.users.ClearBan(ctx, user.ID); err != nil {
			return nil, err
		}
		user.IsBanned = false
		user.BanReason = nil
		user.BannedUntil = nil
		return user, nil
	}

	return nil, &BannedError{Reason: strValue(user.BanReason), Until: user.BannedUntil}
}

// ResolveUserOptional is the anonymous-friendly variant: a banned user is
// treated as logged out instead of rejected. Expired bans are still cleared.
func (s *AuthService) ResolveUserOptional(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.ResolveUser(ctx, userID)
	if err != nil {
		var banned *BannedError
		if errors.Is(err, ErrUnauthorized) || errors.As(err, &banned) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) generateAccessToken(userID int64) (string, error) {
	now := s.now()
	claims := authClaims{
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func validateCredentials(email, username, password string) error {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if len(email) < 3 || len(email) > 254 || !strings.Contains(email, "@") {
		return ErrInvalidInput
	}
	if len(username) < minUsernameLength || len(username) > 64 {
		return ErrInvalidInput
	}
	if len(password) < minPasswordLength || len(password) > 128 {
		return ErrInvalidInput
	}
	return nil
}

// newRefreshToken returns the opaque value handed to the client and the hash
// stored server-side. 32 random bytes keep the value comfortably above the
// 256-bit entropy floor.
func newRefreshToken() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	return token, hashRefreshToken(token), nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func strValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

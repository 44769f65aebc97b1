package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/neon-social/backend/internal/config"
	"github.com/neon-social/backend/internal/model"
)

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User), nextID: 1}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, email, username, passwordHash string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return nil, errors.New("duplicate key value violates unique constraint")
		}
	}
	user := &model.User{ID: f.nextID, Email: email, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[user.ID] = user
	f.nextID++
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserStore) SetAdmin(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		user.IsAdmin = true
		user.IsVerified = true
	}
	return nil
}

func (f *fakeUserStore) MarkUserVerified(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		user.IsVerified = true
	}
	return nil
}

func (f *fakeUserStore) ClearBan(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		user.IsBanned = false
		user.BanReason = nil
		user.BannedUntil = nil
	}
	return nil
}

func (f *fakeUserStore) ban(userID int64, reason string, until *time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	user.IsBanned = true
	user.BanReason = &reason
	user.BannedUntil = until
}

func (f *fakeUserStore) add(user *model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*model.RefreshToken
	nextID int64
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*model.RefreshToken), nextID: 1}
}

func (f *fakeTokenStore) InsertRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[tokenHash] = &model.RefreshToken{
		ID:        f.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	f.nextID++
	return nil
}

func (f *fakeTokenStore) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenHash]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *token
	return &copied, nil
}

// ConsumeRefreshToken mirrors the conditional UPDATE: only the first caller
// for a given id wins.
func (f *fakeTokenStore) ConsumeRefreshToken(ctx context.Context, tokenID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, token := range f.tokens {
		if token.ID == tokenID {
			if token.RevokedAt != nil {
				return false, nil
			}
			now := time.Now()
			token.RevokedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTokenStore) RevokeRefreshTokenByHash(ctx context.Context, tokenHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenHash]
	if !ok || token.RevokedAt != nil {
		return false, nil
	}
	now := time.Now()
	token.RevokedAt = &now
	return true, nil
}

func (f *fakeTokenStore) RevokeAllRefreshTokens(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	now := time.Now()
	for _, token := range f.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
			count++
		}
	}
	return count, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret",
		JWTAccessTTL:  "30m",
		JWTRefreshTTL: "168h",
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc, err := NewAuthService(users, tokens, testAuthConfig())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc, users, tokens
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(newFakeUserStore(), newFakeTokenStore(), config.AuthConfig{JWTAccessTTL: "30m", JWTRefreshTTL: "168h"})
	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

func TestIssueAndParseTokenPair(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	for _, userID := range []int64{0, 1, 42, math.MaxInt64} {
		pair, err := svc.IssueTokenPair(context.Background(), userID)
		if err != nil {
			t.Fatalf("IssueTokenPair(%d): %v", userID, err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Fatalf("empty token in pair for user %d", userID)
		}

		authUser, err := svc.ParseAccessToken(pair.AccessToken)
		if err != nil {
			t.Fatalf("ParseAccessToken: %v", err)
		}
		if authUser.ID != userID {
			t.Fatalf("expected subject %d, got %d", userID, authUser.ID)
		}
	}
}

func TestParseAccessTokenExpiry(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	pair, err := svc.IssueTokenPair(context.Background(), 7)
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(svc.accessTTL - time.Second) }
	if _, err := svc.ParseAccessToken(pair.AccessToken); err != nil {
		t.Fatalf("token should still be valid just before expiry: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(svc.accessTTL + time.Second) }
	if _, err := svc.ParseAccessToken(pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after expiry, got %v", err)
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", token, err)
		}
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	other, err := NewAuthService(newFakeUserStore(), newFakeTokenStore(), config.AuthConfig{
		JWTSecret:     "another-secret",
		JWTAccessTTL:  "30m",
		JWTRefreshTTL: "168h",
	})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	pair, err := other.IssueTokenPair(context.Background(), 1)
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}
	if _, err := svc.ParseAccessToken(pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestRefreshRotatesAndBurnsOldToken(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.add(&model.User{ID: 1, Email: "a@b.c", Username: "alice"})

	pair, err := svc.IssueTokenPair(context.Background(), 1)
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	newPair, user, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected user 1, got %d", user.ID)
	}
	if newPair.RefreshToken == pair.RefreshToken {
		t.Fatalf("rotation returned the same refresh token")
	}

	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("consumed token should be rejected, got %v", err)
	}

	if _, _, err := svc.Refresh(context.Background(), newPair.RefreshToken); err != nil {
		t.Fatalf("rotated token should work: %v", err)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.add(&model.User{ID: 1, Email: "a@b.c", Username: "alice"})

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	pair, err := svc.IssueTokenPair(context.Background(), 1)
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(svc.refreshTTL + time.Second) }
	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired refresh token, got %v", err)
	}
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	if _, _, err := svc.Refresh(context.Background(), "never-issued"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestConcurrentRefreshHasSingleWinner(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.add(&model.User{ID: 1, Email: "a@b.c", Username: "alice"})

	pair, err := svc.IssueTokenPair(context.Background(), 1)
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Refresh(context.Background(), pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrUnauthorized):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one winner, got %d", successes)
	}
	if rejections != workers-1 {
		t.Fatalf("expected %d rejections, got %d", workers-1, rejections)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.add(&model.User{ID: 1, Email: "a@b.c", Username: "alice"})

	pair, err := svc.IssueTokenPair(context.Background(), 1)
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("second Logout should be a no-op: %v", err)
	}
	if err := svc.Logout(context.Background(), "never-issued"); err != nil {
		t.Fatalf("Logout with unknown token should be a no-op: %v", err)
	}

	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("revoked token should be rejected, got %v", err)
	}
}

func TestRevokeAllForUser(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.add(&model.User{ID: 1, Email: "a@b.c", Username: "alice"})
	users.add(&model.User{ID: 2, Email: "x@y.z", Username: "bob"})

	var pairs []*TokenPair
	for i := 0; i < 3; i++ {
		pair, err := svc.IssueTokenPair(context.Background(), 1)
		if err != nil {
			t.Fatalf("IssueTokenPair: %v", err)
		}
		pairs = append(pairs, pair)
	}
	otherPair, err := svc.IssueTokenPair(context.Background(), 2)
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	count, err := svc.RevokeAllForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 revoked tokens, got %d", count)
	}

	for _, pair := range pairs {
		if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized after mass revocation, got %v", err)
		}
	}
	if _, _, err := svc.Refresh(context.Background(), otherPair.RefreshToken); err != nil {
		t.Fatalf("other user's token must survive: %v", err)
	}
}

func TestResetPasswordRevokesSessions(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "a@b.c", "alice", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := svc.IssueTokenPair(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), user.ID, "newpassword456"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old session should be revoked, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@b.c", "password123"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old password should be rejected, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@b.c", "newpassword456"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), user.ID, "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	cases := []struct {
		name     string
		email    string
		username string
		password string
	}{
		{"bad email", "not-an-email", "alice", "password123"},
		{"short username", "a@b.c", "ab", "password123"},
		{"short password", "a@b.c", "alice", "short"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.email, tc.username, tc.password); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "a@b.c", "alice", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "a@b.c", "wrong-password"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@b.c", "password123"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}

func TestResolveUserAppliesBanPolicy(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.add(&model.User{ID: 1, Email: "a@b.c", Username: "alice"})

	if _, err := svc.ResolveUser(context.Background(), 1); err != nil {
		t.Fatalf("unbanned user should resolve: %v", err)
	}

	until := time.Now().Add(time.Hour)
	users.ban(1, "spam", &until)

	_, err := svc.ResolveUser(context.Background(), 1)
	var banned *BannedError
	if !errors.As(err, &banned) {
		t.Fatalf("expected BannedError, got %v", err)
	}
	if banned.Reason != "spam" {
		t.Fatalf("expected reason to round-trip, got %q", banned.Reason)
	}
	if banned.Until == nil || !banned.Until.Equal(until) {
		t.Fatalf("expected until %v, got %v", until, banned.Until)
	}
}

func TestResolveUserIndefiniteBan(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.add(&model.User{ID: 1, Email: "a@b.c", Username: "alice"})
	users.ban(1, "abuse", nil)

	_, err := svc.ResolveUser(context.Background(), 1)
	var banned *BannedError
	if !errors.As(err, &banned) {
		t.Fatalf("expected BannedError, got %v", err)
	}
	if banned.Until != nil {
		t.Fatalf("indefinite ban must carry no lift time, got %v", banned.Until)
	}
}

func TestResolveUserLiftsExpiredBan(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.add(&model.User{ID: 1, Email: "a@b.c", Username: "alice"})

	until := time.Now().Add(-time.Minute)
	users.ban(1, "cooldown", &until)

	user, err := svc.ResolveUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("expired ban should be lifted, got %v", err)
	}
	if user.IsBanned || user.BanReason != nil || user.BannedUntil != nil {
		t.Fatalf("resolved user still carries ban state: %+v", user)
	}

	stored, _ := users.GetUserByID(context.Background(), 1)
	if stored.IsBanned {
		t.Fatalf("ban should be cleared in the store")
	}

	// A second resolve must not trip over the already-lifted ban.
	if _, err := svc.ResolveUser(context.Background(), 1); err != nil {
		t.Fatalf("second resolve after auto-unban: %v", err)
	}
}

func TestResolveUserUnknownID(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	if _, err := svc.ResolveUser(context.Background(), 999); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for missing user, got %v", err)
	}
}

func TestResolveUserOptional(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.add(&model.User{ID: 1, Email: "a@b.c", Username: "alice"})
	users.add(&model.User{ID: 2, Email: "x@y.z", Username: "bob"})
	users.ban(2, "spam", nil)

	user, err := svc.ResolveUserOptional(context.Background(), 1)
	if err != nil || user == nil {
		t.Fatalf("expected user, got user=%v err=%v", user, err)
	}

	user, err = svc.ResolveUserOptional(context.Background(), 2)
	if err != nil || user != nil {
		t.Fatalf("banned user should be anonymous, got user=%v err=%v", user, err)
	}

	user, err = svc.ResolveUserOptional(context.Background(), 999)
	if err != nil || user != nil {
		t.Fatalf("unknown user should be anonymous, got user=%v err=%v", user, err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	cfg := testAuthConfig()
	cfg.AdminUsername = "admin"
	cfg.AdminEmail = "admin@example.com"
	cfg.AdminPassword = "supersecret1"

	if err := svc.EnsureAdmin(context.Background(), cfg); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	admin, err := users.GetUserByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("admin account missing: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatalf("admin flag not set")
	}

	// Second run is a no-op.
	if err := svc.EnsureAdmin(context.Background(), cfg); err != nil {
		t.Fatalf("EnsureAdmin rerun: %v", err)
	}
}

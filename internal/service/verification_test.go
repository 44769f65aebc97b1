package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/neon-social/backend/internal/model"
)

type fakeVerificationStore struct {
	mu     sync.Mutex
	codes  map[string]*model.VerificationCode
	nextID int64
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{codes: make(map[string]*model.VerificationCode), nextID: 1}
}

func (f *fakeVerificationStore) InsertVerificationCode(ctx context.Context, userID int64, code, codeType string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Issuing a code burns older unused codes of the same type, like the
	// transactional insert does.
	for _, existing := range f.codes {
		if existing.UserID == userID && existing.Type == codeType && !existing.Used {
			existing.Used = true
		}
	}
	f.codes[code] = &model.VerificationCode{
		ID:        f.nextID,
		UserID:    userID,
		Code:      code,
		Type:      codeType,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	f.nextID++
	return nil
}

func (f *fakeVerificationStore) GetVerificationCode(ctx context.Context, code, codeType string) (*model.VerificationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.codes[code]
	if !ok || record.Type != codeType {
		return nil, pgx.ErrNoRows
	}
	copied := *record
	return &copied, nil
}

func (f *fakeVerificationStore) MarkVerificationCodeUsed(ctx context.Context, codeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.codes {
		if record.ID == codeID {
			if record.Used {
				return false, nil
			}
			record.Used = true
			return true, nil
		}
	}
	return false, nil
}

func TestVerificationCodeIsSingleUse(t *testing.T) {
	svc := NewVerificationService(newFakeVerificationStore())

	code, err := svc.CreateCode(context.Background(), 1, model.VerificationEmailVerify)
	if err != nil {
		t.Fatalf("CreateCode: %v", err)
	}

	userID, err := svc.ConsumeCode(context.Background(), code, model.VerificationEmailVerify)
	if err != nil {
		t.Fatalf("ConsumeCode: %v", err)
	}
	if userID != 1 {
		t.Fatalf("expected user 1, got %d", userID)
	}

	if _, err := svc.ConsumeCode(context.Background(), code, model.VerificationEmailVerify); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("second consume should fail, got %v", err)
	}
}

func TestVerificationCodeTypeMismatch(t *testing.T) {
	svc := NewVerificationService(newFakeVerificationStore())

	code, err := svc.CreateCode(context.Background(), 1, model.VerificationPasswordReset)
	if err != nil {
		t.Fatalf("CreateCode: %v", err)
	}

	if _, err := svc.ConsumeCode(context.Background(), code, model.VerificationEmailVerify); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("reset code must not verify email, got %v", err)
	}
}

func TestVerificationCodeExpiry(t *testing.T) {
	store := newFakeVerificationStore()
	svc := NewVerificationService(store)

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	code, err := svc.CreateCode(context.Background(), 1, model.VerificationPasswordReset)
	if err != nil {
		t.Fatalf("CreateCode: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	if _, err := svc.ConsumeCode(context.Background(), code, model.VerificationPasswordReset); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expired code should be rejected, got %v", err)
	}
}

func TestNewCodeSupersedesOldOne(t *testing.T) {
	svc := NewVerificationService(newFakeVerificationStore())

	oldCode, err := svc.CreateCode(context.Background(), 1, model.VerificationEmailVerify)
	if err != nil {
		t.Fatalf("CreateCode: %v", err)
	}
	newCode, err := svc.CreateCode(context.Background(), 1, model.VerificationEmailVerify)
	if err != nil {
		t.Fatalf("CreateCode: %v", err)
	}

	if _, err := svc.ConsumeCode(context.Background(), oldCode, model.VerificationEmailVerify); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("superseded code should be rejected, got %v", err)
	}
	if _, err := svc.ConsumeCode(context.Background(), newCode, model.VerificationEmailVerify); err != nil {
		t.Fatalf("latest code should work: %v", err)
	}
}

func TestUnknownCode(t *testing.T) {
	svc := NewVerificationService(newFakeVerificationStore())
	if _, err := svc.ConsumeCode(context.Background(), "nope", model.VerificationEmailVerify); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

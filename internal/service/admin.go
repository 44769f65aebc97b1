package service

import (
	"context"
	"strings"
	"time"

	"github.com/neon-social/backend/internal/db"
	"github.com/neon-social/backend/internal/model"
)

type AdminService struct {
	repo *db.Postgres
	now  func() time.Time
}

func NewAdminService(repo *db.Postgres) *AdminService {
	return &AdminService{repo: repo, now: time.Now}
}

func (s *AdminService) ListUsers(ctx context.Context, page, pageSize int) (*model.PaginatedResponse[model.AdminUserResponse], error) {
	users, total, err := s.repo.ListUsers(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]model.AdminUserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, model.AdminUserResponse{
			ID:          user.ID,
			Email:       user.Email,
			Username:    user.Username,
			IsVerified:  user.IsVerified,
			IsAdmin:     user.IsAdmin,
			IsBanned:    user.IsBanned,
			BanReason:   user.BanReason,
			BannedUntil: user.BannedUntil,
			CreatedAt:   user.CreatedAt,
		})
	}
	return &model.PaginatedResponse[model.AdminUserResponse]{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

// BanUser marks the account banned. Outstanding tokens stay valid; the ban is
// enforced when the token is resolved to a user, so it bites on the banned
// account's next request.
func (s *AdminService) BanUser(ctx context.Context, actorID, targetID int64, req model.BanRequest) error {
	if actorID == targetID {
		return ErrInvalidInput
	}
	if req.Until != nil && !req.Until.After(s.now()) {
		return ErrInvalidInput
	}

	target, err := s.repo.GetUserByID(ctx, targetID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	if target.IsAdmin {
		return ErrForbidden
	}

	return s.repo.SetBan(ctx, targetID, strings.TrimSpace(req.Reason), req.Until)
}

func (s *AdminService) UnbanUser(ctx context.Context, targetID int64) error {
	if _, err := s.repo.GetUserByID(ctx, targetID); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.ClearBan(ctx, targetID)
}

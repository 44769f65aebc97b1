package service

import (
	"context"
	"strings"

	"github.com/neon-social/backend/internal/db"
	"github.com/neon-social/backend/internal/model"
)

type UserService struct {
	repo *db.Postgres
}

func NewUserService(repo *db.Postgres) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetProfile(ctx context.Context, userID int64, viewer *model.User) (*model.UserProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	stats, err := s.repo.GetUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	following, followers, err := s.repo.GetFollowCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewer != nil && viewer.ID != userID {
		isFollowing, err = s.repo.IsFollowing(ctx, viewer.ID, userID)
		if err != nil {
			return nil, err
		}
	}

	return &model.UserProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Avatar:         user.Avatar,
		IsVerified:     user.IsVerified,
		CreatedAt:      user.CreatedAt,
		PostCount:      stats.PostCount,
		FollowingCount: following,
		FollowerCount:  followers,
		IsFollowing:    isFollowing,
	}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateMeRequest) (*model.User, error) {
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if len(username) < minUsernameLength || len(username) > 64 {
			return nil, ErrInvalidInput
		}
		existing, err := s.repo.GetUserByUsername(ctx, username)
		if err != nil && !db.IsNoRows(err) {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrConflict
		}
		req.Username = &username
	}

	user, err := s.repo.UpdateUserProfile(ctx, userID, req.Username, req.Avatar)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetStats(ctx context.Context, userID int64) (*model.UserStatsResponse, error) {
	return s.repo.GetUserStats(ctx, userID)
}

func (s *UserService) Follow(ctx context.Context, followerID, targetID int64) error {
	if followerID == targetID {
		return ErrInvalidInput
	}

	if _, err := s.repo.GetUserByID(ctx, targetID); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	created, err := s.repo.CreateFollow(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if created {
		if err := s.repo.CreateNotification(ctx, targetID, followerID, model.NotificationFollow, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, targetID int64) error {
	_, err := s.repo.DeleteFollow(ctx, followerID, targetID)
	return err
}

func (s *UserService) ListFollowers(ctx context.Context, userID int64, page, pageSize int) (*model.PaginatedResponse[model.UserBrief], error) {
	users, total, err := s.repo.ListFollowers(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &model.PaginatedResponse[model.UserBrief]{Total: total, Page: page, PageSize: pageSize, Items: users}, nil
}

func (s *UserService) ListFollowing(ctx context.Context, userID int64, page, pageSize int) (*model.PaginatedResponse[model.UserBrief], error) {
	users, total, err := s.repo.ListFollowing(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &model.PaginatedResponse[model.UserBrief]{Total: total, Page: page, PageSize: pageSize, Items: users}, nil
}

func (s *UserService) Search(ctx context.Context, term string, page, pageSize int) (*model.PaginatedResponse[model.UserResponse], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return &model.PaginatedResponse[model.UserResponse]{Page: page, PageSize: pageSize, Items: []model.UserResponse{}}, nil
	}

	users, total, err := s.repo.SearchUsers(ctx, term, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]model.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, model.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			Username:   user.Username,
			Avatar:     user.Avatar,
			IsVerified: user.IsVerified,
			CreatedAt:  user.CreatedAt,
		})
	}
	return &model.PaginatedResponse[model.UserResponse]{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

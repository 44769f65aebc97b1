package service

import (
	"context"
	"strings"

	"github.com/neon-social/backend/internal/db"
	"github.com/neon-social/backend/internal/model"
)

// publicConfigKeys are the only keys exposed without authentication.
var publicConfigKeys = map[string]bool{
	"site_name":        true,
	"site_description": true,
	"site_logo":        true,
	"frontend_url":     true,
}

type SiteConfigService struct {
	repo *db.Postgres
}

func NewSiteConfigService(repo *db.Postgres) *SiteConfigService {
	return &SiteConfigService{repo: repo}
}

func (s *SiteConfigService) Get(ctx context.Context, key string) (string, error) {
	return s.repo.GetConfigValue(ctx, key)
}

func (s *SiteConfigService) Set(ctx context.Context, req model.SetConfigRequest) error {
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return ErrInvalidInput
	}
	category := req.Category
	if category == "" {
		category = "general"
	}
	return s.repo.SetConfigValue(ctx, key, req.Value, category, req.Description)
}

func (s *SiteConfigService) List(ctx context.Context, category string) ([]model.SiteConfigResponse, error) {
	configs, err := s.repo.ListConfigs(ctx, category)
	if err != nil {
		return nil, err
	}
	items := make([]model.SiteConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		items = append(items, model.SiteConfigResponse{
			Key:         cfg.Key,
			Value:       cfg.Value,
			Category:    cfg.Category,
			Description: cfg.Description,
			UpdatedAt:   cfg.UpdatedAt,
		})
	}
	return items, nil
}

// PublicConfig returns the allow-listed settings served to anonymous clients.
func (s *SiteConfigService) PublicConfig(ctx context.Context) (map[string]string, error) {
	configs, err := s.repo.ListConfigs(ctx, "")
	if err != nil {
		return nil, err
	}
	public := map[string]string{}
	for _, cfg := range configs {
		if publicConfigKeys[cfg.Key] {
			public[cfg.Key] = cfg.Value
		}
	}
	return public, nil
}

package db

import (
	"context"

	"github.com/neon-social/backend/internal/model"
)

func (db *Postgres) GetConfigValue(ctx context.Context, key string) (string, error) {
	var value string
	err := db.Pool.QueryRow(ctx, `SELECT value FROM site_configs WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (db *Postgres) SetConfigValue(ctx context.Context, key, value, category, description string) error {
	query := `
		INSERT INTO site_configs (key, value, category, description, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    category = EXCLUDED.category,
		    description = CASE WHEN EXCLUDED.description <> '' THEN EXCLUDED.description ELSE site_configs.description END,
		    updated_at = NOW()
	`
	_, err := db.Pool.Exec(ctx, query, key, value, category, description)
	return err
}

func (db *Postgres) ListConfigs(ctx context.Context, category string) ([]model.SiteConfig, error) {
	query := `
		SELECT id, key, value, category, description, updated_at
		FROM site_configs
		WHERE $1 = '' OR category = $1
		ORDER BY key
	`
	rows, err := db.Pool.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := []model.SiteConfig{}
	for rows.Next() {
		var cfg model.SiteConfig
		if err := rows.Scan(&cfg.ID, &cfg.Key, &cfg.Value, &cfg.Category, &cfg.Description, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

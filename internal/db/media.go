package db

import (
	"context"

	"github.com/neon-social/backend/internal/model"
)

func (db *Postgres) InsertMedia(ctx context.Context, media model.Media) (*model.Media, error) {
	query := `
		INSERT INTO media (filename, original_name, file_path, file_type, file_size, width, height, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := db.Pool.QueryRow(ctx, query,
		media.Filename,
		media.OriginalName,
		media.FilePath,
		media.FileType,
		media.FileSize,
		media.Width,
		media.Height,
		media.UploadedBy,
	).Scan(&media.ID, &media.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (db *Postgres) ListMedia(ctx context.Context, offset, limit int) ([]model.Media, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM media`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, filename, original_name, file_path, file_type, file_size, width, height, uploaded_by, created_at
		FROM media
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`
	rows, err := db.Pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []model.Media{}
	for rows.Next() {
		var media model.Media
		if err := rows.Scan(
			&media.ID,
			&media.Filename,
			&media.OriginalName,
			&media.FilePath,
			&media.FileType,
			&media.FileSize,
			&media.Width,
			&media.Height,
			&media.UploadedBy,
			&media.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, media)
	}
	return items, total, rows.Err()
}

package db

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

func (db *Postgres) UpsertPostEmbedding(ctx context.Context, postID int64, model string, vector []float32) (int64, error) {
	query := `
		INSERT INTO post_embeddings (post_id, embedding, model)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id) DO UPDATE
		SET embedding = EXCLUDED.embedding, model = EXCLUDED.model
		RETURNING id
	`
	var id int64
	err := db.Pool.QueryRow(ctx, query, postID, pgvector.NewVector(vector), model).Scan(&id)
	return id, err
}

// FindRelatedPostIDs orders other posts by cosine distance to the given
// post's embedding.
func (db *Postgres) FindRelatedPostIDs(ctx context.Context, postID int64, limit int) ([]int64, error) {
	query := `
		SELECT other.post_id
		FROM post_embeddings other,
		     (SELECT embedding FROM post_embeddings WHERE post_id = $1) target
		WHERE other.post_id <> $1
		ORDER BY other.embedding <=> target.embedding
		LIMIT $2
	`
	rows, err := db.Pool.Query(ctx, query, postID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

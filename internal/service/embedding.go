package service

import (
	"context"
	"fmt"
)

type EmbeddingRepo interface {
	UpsertPostEmbedding(ctx context.Context, postID int64, model string, vector []float32) (int64, error)
	FindRelatedPostIDs(ctx context.Context, postID int64, limit int) ([]int64, error)
}

type EmbeddingClient interface {
	EmbedText(ctx context.Context, text string) ([]float32, string, error)
}

type EmbeddingService struct {
	repo   EmbeddingRepo
	client EmbeddingClient
}

func NewEmbeddingService(repo EmbeddingRepo, client EmbeddingClient) *EmbeddingService {
	return &EmbeddingService{repo: repo, client: client}
}

// IndexPost embeds post content and stores the vector for related-post
// lookups. Satisfies PostEmbedder.
func (s *EmbeddingService) IndexPost(ctx context.Context, postID int64, content string) error {
	if content == "" {
		return fmt.Errorf("content is required")
	}
	vector, embeddingModel, err := s.client.EmbedText(ctx, content)
	if err != nil {
		return err
	}
	_, err = s.repo.UpsertPostEmbedding(ctx, postID, embeddingModel, vector)
	return err
}

func (s *EmbeddingService) RelatedPostIDs(ctx context.Context, postID int64, limit int) ([]int64, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.repo.FindRelatedPostIDs(ctx, postID, limit)
}

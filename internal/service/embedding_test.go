package service

import (
	"context"
	"testing"
)

type fakeEmbeddingClient struct{}

func (f *fakeEmbeddingClient) EmbedText(ctx context.Context, text string) ([]float32, string, error) {
	return []float32{0.1}, "text-embedding-004", nil
}

type fakeEmbeddingRepo struct {
	upserts int
}

func (f *fakeEmbeddingRepo) UpsertPostEmbedding(ctx context.Context, postID int64, model string, vector []float32) (int64, error) {
	f.upserts++
	return 1, nil
}

func (f *fakeEmbeddingRepo) FindRelatedPostIDs(ctx context.Context, postID int64, limit int) ([]int64, error) {
	return []int64{2, 3}, nil
}

func TestIndexPost(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	svc := NewEmbeddingService(repo, &fakeEmbeddingClient{})

	if err := svc.IndexPost(context.Background(), 1, "hello world"); err != nil {
		t.Fatalf("IndexPost: %v", err)
	}
	if repo.upserts != 1 {
		t.Fatalf("expected one upsert, got %d", repo.upserts)
	}

	if err := svc.IndexPost(context.Background(), 1, ""); err == nil {
		t.Fatalf("empty content should be rejected")
	}
}

func TestRelatedPostIDs(t *testing.T) {
	svc := NewEmbeddingService(&fakeEmbeddingRepo{}, &fakeEmbeddingClient{})
	ids, err := svc.RelatedPostIDs(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("RelatedPostIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
}

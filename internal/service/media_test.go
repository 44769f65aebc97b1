package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/neon-social/backend/internal/client"
	"github.com/neon-social/backend/internal/model"
)

type fakeMediaStore struct {
	items      []model.Media
	lastOffset int
	lastLimit  int
}

func (f *fakeMediaStore) InsertMedia(ctx context.Context, media model.Media) (*model.Media, error) {
	media.ID = int64(len(f.items) + 1)
	media.CreatedAt = time.Now()
	f.items = append(f.items, media)
	return &media, nil
}

func (f *fakeMediaStore) ListMedia(ctx context.Context, offset, limit int) ([]model.Media, int64, error) {
	f.lastOffset = offset
	f.lastLimit = limit
	return f.items, int64(len(f.items)), nil
}

type fakeUploader struct{}

func (f *fakeUploader) PresignUpload(ctx context.Context, objectKey, contentType string) (*client.PresignedUpload, error) {
	return &client.PresignedUpload{
		UploadURL: "https://bucket.example.com/" + objectKey + "?sig=x",
		PublicURL: "https://cdn.example.com/" + objectKey,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil
}

func (f *fakeUploader) PublicURL(objectKey string) string {
	return "https://cdn.example.com/" + objectKey
}

func TestPresignUploadRejectsUnknownContentType(t *testing.T) {
	svc := NewMediaService(nil, &fakeUploader{})
	_, err := svc.PresignUpload(context.Background(), 1, model.PresignRequest{
		Filename:    "script.sh",
		ContentType: "application/x-sh",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPresignUploadScopesKeyToUser(t *testing.T) {
	svc := NewMediaService(nil, &fakeUploader{})
	resp, err := svc.PresignUpload(context.Background(), 42, model.PresignRequest{
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}
	if !strings.HasPrefix(resp.ObjectKey, "uploads/42/") {
		t.Fatalf("object key not scoped to user: %q", resp.ObjectKey)
	}
	if !strings.HasSuffix(resp.ObjectKey, ".jpg") {
		t.Fatalf("extension not derived from content type: %q", resp.ObjectKey)
	}
}

func TestMediaListPaginates(t *testing.T) {
	store := &fakeMediaStore{}
	svc := NewMediaService(store, &fakeUploader{})

	if _, err := store.InsertMedia(context.Background(), model.Media{Filename: "a.jpg", FileType: "image/jpeg"}); err != nil {
		t.Fatalf("InsertMedia: %v", err)
	}

	result, err := svc.List(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.lastOffset != 20 || store.lastLimit != 10 {
		t.Fatalf("expected offset 20 limit 10, got %d/%d", store.lastOffset, store.lastLimit)
	}
	if result.Total != 1 || len(result.Items) != 1 {
		t.Fatalf("unexpected result: total=%d items=%d", result.Total, len(result.Items))
	}
	if result.Items[0].Filename != "a.jpg" {
		t.Fatalf("unexpected item: %+v", result.Items[0])
	}
}

func TestPresignUploadWithoutStorage(t *testing.T) {
	svc := NewMediaService(nil, nil)
	_, err := svc.PresignUpload(context.Background(), 1, model.PresignRequest{
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
	})
	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

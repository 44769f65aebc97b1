package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/model"
	"github.com/neon-social/backend/internal/service"
)

type galleryStore struct {
	items []model.Media
}

func (g *galleryStore) InsertMedia(ctx context.Context, media model.Media) (*model.Media, error) {
	media.ID = int64(len(g.items) + 1)
	media.CreatedAt = time.Now()
	g.items = append(g.items, media)
	return &media, nil
}

func (g *galleryStore) ListMedia(ctx context.Context, offset, limit int) ([]model.Media, int64, error) {
	return g.items, int64(len(g.items)), nil
}

func TestMediaGallery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &galleryStore{items: []model.Media{
		{ID: 1, Filename: "a.jpg", FilePath: "https://cdn.example.com/a.jpg", FileType: "image/jpeg", CreatedAt: time.Now()},
	}}
	h := NewMediaHandler(service.NewMediaService(store, nil))

	r := gin.New()
	r.GET("/media", h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media?page=1&page_size=20", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp model.PaginatedResponse[model.MediaResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 || resp.Items[0].Filename != "a.jpg" {
		t.Fatalf("unexpected gallery page: %+v", resp)
	}
}

func TestMediaPresignValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewMediaHandler(service.NewMediaService(&galleryStore{}, nil))
	r := gin.New()
	r.POST("/media/presign", func(c *gin.Context) {
		c.Set(currentUserKey, &model.User{ID: 1})
		h.Presign(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/media/presign", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", w.Code)
	}
}

package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neon-social/backend/internal/client"
	"github.com/neon-social/backend/internal/model"
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

// Uploader presigns direct-to-bucket uploads. Nil disables media uploads.
type Uploader interface {
	PresignUpload(ctx context.Context, objectKey, contentType string) (*client.PresignedUpload, error)
	PublicURL(objectKey string) string
}

type MediaStore interface {
	InsertMedia(ctx context.Context, media model.Media) (*model.Media, error)
	ListMedia(ctx context.Context, offset, limit int) ([]model.Media, int64, error)
}

type MediaService struct {
	store    MediaStore
	uploader Uploader
}

func NewMediaService(store MediaStore, uploader Uploader) *MediaService {
	return &MediaService{store: store, uploader: uploader}
}

func (s *MediaService) PresignUpload(ctx context.Context, userID int64, req model.PresignRequest) (*model.PresignResponse, error) {
	if s.uploader == nil {
		return nil, ErrMisconfigured
	}
	ext, ok := allowedContentTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, ErrInvalidInput
	}

	objectKey := fmt.Sprintf("uploads/%d/%s/%s%s",
		userID,
		time.Now().UTC().Format("2006/01"),
		uuid.NewString(),
		ext,
	)

	presigned, err := s.uploader.PresignUpload(ctx, objectKey, req.ContentType)
	if err != nil {
		return nil, err
	}

	return &model.PresignResponse{
		UploadURL: presigned.UploadURL,
		PublicURL: presigned.PublicURL,
		ObjectKey: presigned.ObjectKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// ConfirmUpload records a completed browser-side upload.
func (s *MediaService) ConfirmUpload(ctx context.Context, userID int64, req model.ConfirmUploadRequest) (*model.MediaResponse, error) {
	if s.uploader == nil {
		return nil, ErrMisconfigured
	}
	if req.ObjectKey == "" || !strings.HasPrefix(req.ObjectKey, fmt.Sprintf("uploads/%d/", userID)) {
		return nil, ErrInvalidInput
	}
	if _, ok := allowedContentTypes[strings.ToLower(req.ContentType)]; !ok {
		return nil, ErrInvalidInput
	}

	media, err := s.store.InsertMedia(ctx, model.Media{
		Filename:     path.Base(req.ObjectKey),
		OriginalName: req.OriginalName,
		FilePath:     s.uploader.PublicURL(req.ObjectKey),
		FileType:     req.ContentType,
		FileSize:     req.FileSize,
		Width:        req.Width,
		Height:       req.Height,
		UploadedBy:   &userID,
	})
	if err != nil {
		return nil, err
	}
	return mediaResponse(media), nil
}

func (s *MediaService) List(ctx context.Context, page, pageSize int) (*model.PaginatedResponse[model.MediaResponse], error) {
	items, total, err := s.store.ListMedia(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	responses := make([]model.MediaResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *mediaResponse(&items[i]))
	}
	return &model.PaginatedResponse[model.MediaResponse]{Total: total, Page: page, PageSize: pageSize, Items: responses}, nil
}

func mediaResponse(media *model.Media) *model.MediaResponse {
	return &model.MediaResponse{
		ID:        media.ID,
		Filename:  media.Filename,
		FilePath:  media.FilePath,
		FileType:  media.FileType,
		FileSize:  media.FileSize,
		CreatedAt: media.CreatedAt,
	}
}

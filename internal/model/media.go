package model

import "time"

type Media struct {
	ID           int64
	Filename     string
	OriginalName string
	FilePath     string
	FileType     string
	FileSize     int64
	Width        *int
	Height       *int
	UploadedBy   *int64
	CreatedAt    time.Time
}

type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type PresignResponse struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ObjectKey string    `json:"object_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ConfirmUploadRequest struct {
	ObjectKey    string `json:"object_key"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	FileSize     int64  `json:"file_size"`
	Width        *int   `json:"width"`
	Height       *int   `json:"height"`
}

type MediaResponse struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	FilePath  string    `json:"file_path"`
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}

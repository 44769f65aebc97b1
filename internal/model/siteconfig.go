package model

import "time"

type SiteConfig struct {
	ID          int64
	Key         string
	Value       string
	Category    string
	Description string
	UpdatedAt   time.Time
}

type SetConfigRequest struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type SiteConfigResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

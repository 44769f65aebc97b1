package service

import (
	"context"
	"errors"
	"testing"

	"github.com/neon-social/backend/internal/config"
)

type errConfigReader struct{}

func (e *errConfigReader) GetConfigValue(ctx context.Context, key string) (string, error) {
	return "", errors.New("connection refused")
}

func TestLoadSettingsPrefersSiteConfig(t *testing.T) {
	fallback := config.SMTPConfig{
		Host:        "env.example.com",
		Port:        "587",
		User:        "env-user",
		FrontendURL: "http://env.example.com",
	}
	configs := &fakeConfigReader{values: map[string]string{
		"smtp_host":    "db.example.com",
		"frontend_url": "http://db.example.com",
	}}

	svc := NewEmailService(configs, fallback)
	settings := svc.loadSettings(context.Background())

	if settings.Host != "db.example.com" {
		t.Fatalf("expected site config host, got %q", settings.Host)
	}
	if settings.FrontendURL != "http://db.example.com" {
		t.Fatalf("expected site config frontend url, got %q", settings.FrontendURL)
	}
	// Keys absent from site config keep the env fallback.
	if settings.Port != "587" || settings.User != "env-user" {
		t.Fatalf("fallback values lost: %+v", settings)
	}
}

func TestLoadSettingsSurvivesConfigStoreOutage(t *testing.T) {
	fallback := config.SMTPConfig{
		Host:        "env.example.com",
		Port:        "587",
		User:        "env-user",
		FrontendURL: "http://env.example.com",
	}

	svc := NewEmailService(&errConfigReader{}, fallback)
	settings := svc.loadSettings(context.Background())

	if settings.Host != fallback.Host || settings.Port != fallback.Port ||
		settings.User != fallback.User || settings.FrontendURL != fallback.FrontendURL {
		t.Fatalf("expected env fallbacks when the config store is down, got %+v", settings)
	}
}

func TestSendIsNoOpWithoutSMTP(t *testing.T) {
	svc := NewEmailService(nil, config.SMTPConfig{FrontendURL: "http://localhost"})
	if err := svc.SendVerificationEmail(context.Background(), "a@b.c", "alice", "code"); err != nil {
		t.Fatalf("unconfigured SMTP must not fail: %v", err)
	}
}

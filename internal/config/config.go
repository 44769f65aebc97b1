package config

import (
	"os"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Postgres PostgresConfig
	AI       AIConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

type AuthConfig struct {
	JWTSecret     string
	JWTAccessTTL  string
	JWTRefreshTTL string
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type AIConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
}

type SMTPConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	FromEmail   string
	FrontendURL string
}

type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr:        getenv("LISTEN_ADDR", ":8080"),
			CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			JWTAccessTTL:  getenv("JWT_ACCESS_TTL", "30m"),
			JWTRefreshTTL: getenv("JWT_REFRESH_TTL", "168h"),
			AdminUsername: os.Getenv("ADMIN_USERNAME"),
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		AI: AIConfig{
			APIKey:         os.Getenv("AI_API_KEY"),
			ChatModel:      getenv("AI_CHAT_MODEL", "gemini-2.0-flash"),
			EmbeddingModel: getenv("AI_EMBEDDING_MODEL", "text-embedding-004"),
		},
		SMTP: SMTPConfig{
			Host:        os.Getenv("SMTP_HOST"),
			Port:        getenv("SMTP_PORT", "587"),
			User:        os.Getenv("SMTP_USER"),
			Password:    os.Getenv("SMTP_PASSWORD"),
			FromEmail:   os.Getenv("FROM_EMAIL"),
			FrontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),
		},
		Storage: StorageConfig{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          getenv("S3_REGION", "auto"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("S3_BUCKET"),
			PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

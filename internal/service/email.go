package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"

	"github.com/neon-social/backend/internal/config"
)

type ConfigReader interface {
	GetConfigValue(ctx context.Context, key string) (string, error)
}

type smtpSettings struct {
	Host        string
	Port        string
	User        string
	Password    string
	FromEmail   string
	FrontendURL string
}

// EmailService sends verification and password-reset mail. SMTP settings are
// re-read from the site_configs table on every send (env values are the
// fallback), so admins can fix mail settings without a restart.
type EmailService struct {
	configs  ConfigReader
	fallback config.SMTPConfig
}

func NewEmailService(configs ConfigReader, fallback config.SMTPConfig) *EmailService {
	return &EmailService{configs: configs, fallback: fallback}
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, toEmail, username, code string) error {
	settings := s.loadSettings(ctx)
	link := fmt.Sprintf("%s/verify-email?code=%s", settings.FrontendURL, code)
	body := fmt.Sprintf("Hi %s,\n\nVerify your email address by opening the link below:\n%s\n\nThe link expires in 24 hours.", username, link)
	return s.send(settings, toEmail, "Verify your email", body)
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, username, code string) error {
	settings := s.loadSettings(ctx)
	link := fmt.Sprintf("%s/reset-password?code=%s", settings.FrontendURL, code)
	body := fmt.Sprintf("Hi %s,\n\nReset your password by opening the link below:\n%s\n\nThe link expires in 1 hour. If you did not request this, ignore this mail.", username, link)
	return s.send(settings, toEmail, "Reset your password", body)
}

func (s *EmailService) loadSettings(ctx context.Context) smtpSettings {
	settings := smtpSettings{
		Host:        s.fallback.Host,
		Port:        s.fallback.Port,
		User:        s.fallback.User,
		Password:    s.fallback.Password,
		FromEmail:   s.fallback.FromEmail,
		FrontendURL: s.fallback.FrontendURL,
	}
	if s.configs == nil {
		return settings
	}

	overrides := []struct {
		key    string
		target *string
	}{
		{"smtp_host", &settings.Host},
		{"smtp_port", &settings.Port},
		{"smtp_user", &settings.User},
		{"smtp_password", &settings.Password},
		{"from_email", &settings.FromEmail},
		{"frontend_url", &settings.FrontendURL},
	}
	var failed []string
	for _, override := range overrides {
		value, err := s.configs.GetConfigValue(ctx, override.key)
		if err != nil {
			failed = append(failed, override.key)
			continue
		}
		if value != "" {
			*override.target = value
		}
	}
	if len(failed) > 0 {
		log.Printf("email: failed to read site configs %v, using env fallbacks", failed)
	}
	return settings
}

// send is a no-op when SMTP is not configured; registration must not fail
// just because mail is off in a dev environment.
func (s *EmailService) send(settings smtpSettings, toEmail, subject, body string) error {
	if settings.Host == "" || settings.User == "" || settings.Password == "" {
		log.Printf("email: SMTP not configured, skipping %q to %s", subject, toEmail)
		return nil
	}

	from := settings.FromEmail
	if from == "" {
		from = settings.User
	}

	msg := []byte("From: " + from + "\r\n" +
		"To: " + toEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body)

	addr := net.JoinHostPort(settings.Host, settings.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: settings.Host}); err != nil {
		return err
	}
	if err := client.Auth(smtp.PlainAuth("", settings.User, settings.Password, settings.Host)); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(toEmail); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(msg); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "GALLABOX_API_KEY", "CORS_ALLOWED_ORIGINS", "MAIL_PORT", "MAIL_HOST", "MAIL_FROM", "FOLLOWUP_REMINDER_TO"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "https://backend.gallabox.com", cfg.GallaboxBaseURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 587, cfg.MailPort)
	assert.False(t, cfg.MailConfigured())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "3001")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_FROM", "crm@example.com")
	t.Setenv("FOLLOWUP_REMINDER_TO", "team@example.com")

	cfg := Load()

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, 2525, cfg.MailPort)
	assert.True(t, cfg.MailConfigured())
}

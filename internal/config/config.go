package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string

	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	GallaboxBaseURL      string
	GallaboxAPIKey       string
	EnrolledTemplateName string

	CORSAllowedOrigins []string
	SentryDSN          string
	RedisURL           string
	AMQPURL            string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	FollowUpReminderTo       string
	FollowUpReminderSchedule string
}

// Load lê o .env (se existir) e o ambiente. Credenciais ausentes não
// derrubam o boot: a operação que precisa delas responde CONFIGURATION_ERROR.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("Nenhum arquivo .env encontrado, usando variáveis do ambiente")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		GallaboxBaseURL:      getEnv("GALLABOX_BASE_URL", "https://backend.gallabox.com"),
		GallaboxAPIKey:       os.Getenv("GALLABOX_API_KEY"),
		EnrolledTemplateName: os.Getenv("ENROLLED_TEMPLATE_NAME"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		RedisURL:           os.Getenv("REDIS_URL"),
		AMQPURL:            os.Getenv("AMQP_URL"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: getEnvInt("MAIL_PORT", 587),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: os.Getenv("MAIL_FROM"),

		FollowUpReminderTo:       os.Getenv("FOLLOWUP_REMINDER_TO"),
		FollowUpReminderSchedule: getEnv("FOLLOWUP_REMINDER_SCHEDULE", "@every 15m"),
	}
}

func (c *Config) MailConfigured() bool {
	return c.MailHost != "" && c.MailFrom != "" && c.FollowUpReminderTo != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warn("⚠️ valor inteiro inválido, usando padrão")
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

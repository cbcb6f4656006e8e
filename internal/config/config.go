// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"dealdesk-service/internal/db"
	"dealdesk-service/internal/pkg/jwt"
	"dealdesk-service/internal/service/email"
)

type AppConfig struct {
	// Server
	HTTPAddr        string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Storage
	Postgres db.PostgresConfig
	Redis    db.RedisConfig

	// JWT
	JWT jwt.Config

	// Auth
	LoginMaxAttempts int64
	LoginWindow      time.Duration
	AdminEmail       string
	AdminPassword    string

	// SMTP
	SMTP email.Config

	// Drafts
	DraftTTL time.Duration
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8000"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:     getEnvSlice("CORS_ORIGINS", nil),

		Postgres: db.PostgresConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:        int32(getEnvInt("DB_MIN_CONNS", 1)),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour),
		},

		Redis: db.RedisConfig{
			ClusterMode: strings.ToLower(getEnv("REDIS_CLUSTER", "false")) == "true",
			Addresses:   getEnvSlice("REDIS_ADDR", []string{"localhost:6379"}),
			Password:    getEnv("REDIS_PASS", ""),
			DB:          int(getEnvInt("REDIS_DB", 0)),
			PoolSize:    int(getEnvInt("REDIS_POOL_SIZE", 10)),
		},

		JWT: jwt.Config{
			PrivPath: getEnv("JWT_PRIVATE_KEY_PATH", "/app/secrets/jwt_private.pem"),
			PubPath:  getEnv("JWT_PUBLIC_KEY_PATH", "/app/secrets/jwt_public.pem"),
			Issuer:   getEnv("JWT_ISSUER", "dealdesk"),
			Audience: getEnv("JWT_AUDIENCE", "dealdesk-merchants"),
			TTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
			KID:      getEnv("JWT_KID", "dealdesk-key"),
		},

		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      getEnvDuration("LOGIN_WINDOW", 15*time.Minute),
		AdminEmail:       getEnv("ADMIN_EMAIL", ""),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),

		SMTP: email.Config{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "465"),
			User:     getEnv("SMTP_USER", ""),
			Pass:     getEnv("SMTP_PASS", ""),
			FromName: getEnv("SMTP_FROM_NAME", "DealDesk"),
			Secure:   strings.ToLower(getEnv("SMTP_SECURE", "true")) == "true",
		},

		DraftTTL: getEnvDuration("DRAFT_TTL", 7*24*time.Hour),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

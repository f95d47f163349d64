package config

import (
	"os"
	"time"
)

// Config carries everything the application reads from the environment.
// AuthURL and AuthAnonKey may legitimately be empty: the routing guard
// then degrades to fail-open pass-through so a fresh checkout still
// serves pages.
type Config struct {
	AppPort string
	BaseURL string

	// hosted auth provider
	AuthURL     string
	AuthAnonKey string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	SessionMaxAge time.Duration
}

func Load() Config {
	cfg := Config{
		AppPort: getenv("APP_PORT", "3000"),
		BaseURL: getenv("BASE_URL", "http://localhost:3000"),

		AuthURL:     os.Getenv("AUTH_URL"),
		AuthAnonKey: os.Getenv("AUTH_ANON_KEY"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		SessionMaxAge: 24 * time.Hour,
	}

	if raw := os.Getenv("SESSION_MAX_AGE"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.SessionMaxAge = d
		}
	}

	return cfg
}

// ProviderConfigured reports whether the hosted auth backend is
// reachable by configuration. When false the guard must fail open.
func (c Config) ProviderConfigured() bool {
	return c.AuthURL != "" && c.AuthAnonKey != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"medalbank/pkg/db"
)

// AuthConfig selects and configures the token provider.
type AuthConfig struct {
	Provider  string // "stub" or "jwt"
	JWTSecret string
}

// RateLimitConfig tunes the sliding-window request limiter.
type RateLimitConfig struct {
	RequestsPerMinute int
}

// RedisConfig configures the optional Redis backend. An empty Addr means
// Redis is not used and in-process state is kept instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort     string
	Env            string // "development" or "production"
	AllowedOrigins []string
	DB             db.Config
	Auth           AuthConfig
	RateLimit      RateLimitConfig
	Redis          RedisConfig
}

// Development reports whether the app runs in development mode, in which
// error responses may carry internal details.
func (c *AppConfig) Development() bool {
	return c.Env == "development"
}

// LoadConfig loads configuration from environment variables via viper,
// falling back to local-development defaults.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "medalbank")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("AUTH_PROVIDER", "stub")
	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("RATE_LIMIT_RPM", 100)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	cfg := &AppConfig{
		ServerPort:     v.GetString("SERVER_PORT"),
		Env:            v.GetString("APP_ENV"),
		AllowedOrigins: splitOrigins(v.GetString("CORS_ALLOWED_ORIGINS")),
		DB: db.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Auth: AuthConfig{
			Provider:  v.GetString("AUTH_PROVIDER"),
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: v.GetInt("RATE_LIMIT_RPM"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}

	if cfg.Auth.Provider != "stub" && cfg.Auth.Provider != "jwt" {
		return nil, fmt.Errorf("invalid AUTH_PROVIDER %q: must be \"stub\" or \"jwt\"", cfg.Auth.Provider)
	}
	if cfg.Auth.Provider == "jwt" && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_PROVIDER=jwt")
	}
	if cfg.RateLimit.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPM %d: must be positive", cfg.RateLimit.RequestsPerMinute)
	}

	return cfg, nil
}

// splitOrigins parses a comma-separated origin list, dropping empty entries.
func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

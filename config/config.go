package config

import (
	"os"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Path string
}

// AdminConfig holds the secrets gating both admin surfaces. The defaults are
// insecure placeholders and must be overridden in any real deployment.
type AdminConfig struct {
	Password      string
	APIToken      string
	SessionSecret string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "data/reviews.db"),
		},
		Admin: AdminConfig{
			Password:      getEnv("ADMIN_PASSWORD", "admin123"),
			APIToken:      getEnv("ADMIN_API_TOKEN", "supersecrettoken"),
			SessionSecret: getEnv("SESSION_SECRET", "dev-session-secret"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

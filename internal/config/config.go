package config

import "os"

// Config holds the runtime settings for the API server, read from the
// environment (optionally via a .env file loaded in main).
type Config struct {
	Port         string
	DatabasePath string
	JWTSecret    string
	LogLevel     string
	LogFormat    string
}

// Load reads the configuration from environment variables, applying defaults
// for everything except JWT_SECRET, which has no safe default.
func Load() Config {
	return Config{
		Port:         getenv("APP_PORT", "3005"),
		DatabasePath: getenv("DATABASE_PATH", "./painel-ti.sqlite"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "console"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

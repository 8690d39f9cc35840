package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and only read afterwards.
type Config struct {
	ServerPort     string
	DBDriver       string
	DatabaseURL    string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration
	BcryptCost     int
	CORSOrigins    []string
	SwaggerHost    string
	ResetDB        bool
}

var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		SecretKey:   strings.TrimSpace(os.Getenv("SECRET_KEY")),
		Algorithm:   strings.ToUpper(getEnv("ALGORITHM", "HS256")),
		BcryptCost:  getEnvInt("BCRYPT_COST", 10),
		CORSOrigins: parseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		ResetDB:     os.Getenv("RESET_DB") == "true",
	}

	minutes := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if minutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", minutes)
	}
	cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("SECRET_KEY is required")
	}
	if !supportedAlgorithms[cfg.Algorithm] {
		return nil, fmt.Errorf("ALGORITHM %q is not a supported HMAC algorithm", cfg.Algorithm)
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "mysql" {
		return nil, fmt.Errorf("DB_DRIVER %q is not supported", cfg.DBDriver)
	}

	return cfg, nil
}

// HTTPAddress returns the address the HTTP server binds to.
func (c *Config) HTTPAddress() string {
	return ":" + c.ServerPort
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

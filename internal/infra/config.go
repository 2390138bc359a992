package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	UploadsBasePath  string
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiTextModel  string
	VeoModel         string
	PollInterval     time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	AllowedOrigins   []string
	DefaultLocale    string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. GEMINI_API_KEY is optional: when absent the
// capability gate starts closed and a key must be set through the
// integrations endpoint before generation works.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		UploadsBasePath:  getEnv("UPLOADS_BASE_PATH", "./data/uploads"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		VeoModel:         getEnv("VEO_MODEL", "veo-3.1-fast-generate-preview"),
		PollInterval:     time.Second * time.Duration(getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 5)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 600)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS"),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

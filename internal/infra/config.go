package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	AccessPassword   string
	GeminiAPIKey     string
	GeminiBaseURL    string
	TextModel        string
	ImageModel       string
	VideoModel       string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	VideoPollEvery   time.Duration
	AllowedOrigins   []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// GEMINI_API_KEY may be empty; the proxy rejects provider calls per-request in
// that case rather than refusing to boot.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		AccessPassword:   getEnv("ACCESS_PASSWORD", "professor"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		TextModel:        getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		ImageModel:       getEnv("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-002"),
		VideoModel:       getEnv("GEMINI_VIDEO_MODEL", "veo-2.0-generate-001"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 0)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		VideoPollEvery:   time.Second * time.Duration(getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 10)),
		AllowedOrigins:   []string{getEnv("ALLOWED_ORIGIN", "*")},
	}

	if cfg.AccessPassword == "" {
		return nil, fmt.Errorf("ACCESS_PASSWORD must not be empty")
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

package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	VideoAPIBaseURL    string
	VideoAPIKey        string
	VideoCustomerID    string
	VideoModel         string
	GenerateTimeout    time.Duration
	HistoryDir         string
	HistoryLimit       int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		VideoAPIBaseURL:  getEnv("VIDEO_API_BASE_URL", "https://oi-server.onrender.com"),
		VideoAPIKey:      os.Getenv("VIDEO_API_KEY"),
		VideoCustomerID:  os.Getenv("VIDEO_CUSTOMER_ID"),
		VideoModel:       getEnv("VIDEO_MODEL", "replicate/google/veo-3"),
		GenerateTimeout:  time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 900)),
		HistoryDir:       getEnv("HISTORY_DIR", "./data"),
		HistoryLimit:     getEnvInt("HISTORY_LIMIT", 20),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 960)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if origins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	}

	if cfg.VideoAPIKey == "" {
		return nil, fmt.Errorf("VIDEO_API_KEY is required")
	}

	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 900 * time.Second
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}

	// The write timeout must outlive the upstream generation window, otherwise the
	// server cuts the response off mid-flight.
	if cfg.HTTPWriteTimeout <= cfg.GenerateTimeout {
		cfg.HTTPWriteTimeout = cfg.GenerateTimeout + 60*time.Second
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

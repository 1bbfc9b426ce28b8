package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// APIBaseURL is the base URL of the customer management REST API,
	// including the /api prefix.
	APIBaseURL string
	ListenAddr string
	StaticDir  string
	LogLevel   string
	// ServiceName is attached to every log line for log aggregation.
	ServiceName string
	// PageSize is the default number of customers per page.
	PageSize int
}

func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:  getEnv("CMS_API_URL", "http://localhost:8080/api"),
		ListenAddr:  getEnv("LISTEN_ADDR", ":3001"),
		StaticDir:   getEnv("STATIC_DIR", "./dist"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServiceName: getEnv("SERVICE_NAME", ""),
		PageSize:    10,
	}

	if v := os.Getenv("CMS_PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid CMS_PAGE_SIZE %q", v)
		}
		cfg.PageSize = size
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

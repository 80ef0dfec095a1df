package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultImageHost     = "drive.google.com"
	defaultDBPath        = "sheetblog.db"
	defaultSearchMode    = "like"
	defaultCacheTTL      = 7 * 24 * time.Hour
	defaultSyncInterval  = 3 * time.Second
	defaultMaxImageBytes = 5 * 1024 * 1024
	defaultLocale        = "ko"
	defaultLogLevel      = "info"
	defaultLogPath       = "sheetblog.log"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	ServiceURL    string
	ImageHost     string
	DBPath        string
	SearchMode    string
	CacheTTL      time.Duration
	SyncInterval  time.Duration
	// AssumeFocus starts background sync without waiting for a terminal
	// focus report, for terminals that never send one.
	AssumeFocus   bool
	MaxImageBytes int64
	Locale        string
	LogLevel      string
	LogPath       string
}

// LoadDotEnv loads variables from path into the process environment without
// overriding anything already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		ServiceURL: strings.TrimSpace(os.Getenv("SHEETBLOG_SERVICE_URL")),
		ImageHost:  os.Getenv("SHEETBLOG_IMAGE_HOST"),
		DBPath:     os.Getenv("SHEETBLOG_DB_PATH"),
		SearchMode: os.Getenv("SHEETBLOG_SEARCH_MODE"),
		Locale:     os.Getenv("SHEETBLOG_LOCALE"),
		LogLevel:   os.Getenv("SHEETBLOG_LOG_LEVEL"),
		LogPath:    os.Getenv("SHEETBLOG_LOG_PATH"),
	}

	if cfg.ImageHost == "" {
		cfg.ImageHost = defaultImageHost
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.SearchMode == "" {
		cfg.SearchMode = defaultSearchMode
	}
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.LogPath == "" {
		cfg.LogPath = defaultLogPath
	}

	var err error
	if cfg.CacheTTL, err = durationFromEnv("SHEETBLOG_CACHE_TTL", defaultCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.SyncInterval, err = durationFromEnv("SHEETBLOG_SYNC_INTERVAL", defaultSyncInterval); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("SHEETBLOG_ASSUME_FOCUS")); raw != "" {
		if cfg.AssumeFocus, err = strconv.ParseBool(raw); err != nil {
			return Config{}, fmt.Errorf("SHEETBLOG_ASSUME_FOCUS must be a boolean: %s", raw)
		}
	}
	cfg.MaxImageBytes = defaultMaxImageBytes
	if raw := strings.TrimSpace(os.Getenv("SHEETBLOG_MAX_IMAGE_BYTES")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("SHEETBLOG_MAX_IMAGE_BYTES must be an integer: %s", raw)
		}
		cfg.MaxImageBytes = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.ServiceURL == "" {
		return errors.New("SHEETBLOG_SERVICE_URL is required")
	}
	if c.ServiceURL[len(c.ServiceURL)-1] == '/' {
		return fmt.Errorf("ServiceURL must not end with '/': %s", c.ServiceURL)
	}
	parsed, err := url.Parse(c.ServiceURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("ServiceURL must be an http(s) URL: %s", c.ServiceURL)
	}
	if c.ImageHost == "" {
		return errors.New("ImageHost is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.SearchMode != "like" && c.SearchMode != "fts" {
		return fmt.Errorf("SearchMode must be like or fts: %s", c.SearchMode)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CacheTTL must be positive: %s", c.CacheTTL)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("SyncInterval must be positive: %s", c.SyncInterval)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MaxImageBytes must be positive: %d", c.MaxImageBytes)
	}
	if c.Locale != "ko" && c.Locale != "en" {
		return fmt.Errorf("Locale must be ko or en: %s", c.Locale)
	}
	return nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %s", key, raw)
	}
	return d, nil
}

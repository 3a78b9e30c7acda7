// ABOUTME: Configuration loader for the rev client
// ABOUTME: Merges environment, .env file and optional config.yaml with defaults

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL       = "http://localhost:8080"
	DefaultTimeout      = 30  // seconds
	DefaultCacheTTL     = 60  // seconds, 0 disables response caching
	DefaultCrawlTimeout = 120 // seconds

	fileName = "config.yaml"
)

type Config struct {
	// Backend
	APIURL       string
	Timeout      int // seconds, per API call
	CrawlTimeout int // seconds, for the admin performance crawl
	CacheTTL     int // seconds

	// Local state
	ConfigDir string // holds tokens.json, config.yaml and debug.log

	// Logging
	LogLevel  string
	LogFormat string
}

// fileConfig mirrors config.yaml. Zero values mean "not set".
type fileConfig struct {
	APIURL       string `yaml:"api_url"`
	Timeout      int    `yaml:"timeout"`
	CrawlTimeout int    `yaml:"crawl_timeout"`
	CacheTTL     *int   `yaml:"cache_ttl"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

// RequestTimeout returns the per-call timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// CrawlDeadline returns the crawl trigger timeout as a duration
func (c *Config) CrawlDeadline() time.Duration {
	return time.Duration(c.CrawlTimeout) * time.Second
}

// CacheDuration returns the response cache TTL as a duration
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Load reads configuration. Environment wins over .env, which wins over
// config.yaml, which wins over defaults.
func Load() (*Config, error) {
	return LoadDir("")
}

// LoadDir is Load with an explicit config directory. An empty dir falls
// back to REV_CONFIG_DIR and then the XDG default.
func LoadDir(dir string) (*Config, error) {
	// A missing .env is normal; godotenv never overrides variables already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	configDir := dir
	if configDir == "" {
		configDir = getEnv("REV_CONFIG_DIR", DefaultConfigDir())
	}

	fc, err := readFile(filepath.Join(configDir, fileName))
	if err != nil {
		return nil, err
	}

	cacheTTL := DefaultCacheTTL
	if fc.CacheTTL != nil {
		cacheTTL = *fc.CacheTTL
	}

	cfg := &Config{
		APIURL:       ensureScheme(strings.TrimRight(getEnv("REV_API_URL", orDefault(fc.APIURL, DefaultAPIURL)), "/")),
		Timeout:      getEnvInt("REV_TIMEOUT", orDefaultInt(fc.Timeout, DefaultTimeout)),
		CrawlTimeout: getEnvInt("REV_CRAWL_TIMEOUT", orDefaultInt(fc.CrawlTimeout, DefaultCrawlTimeout)),
		CacheTTL:     getEnvInt("REV_CACHE_TTL", cacheTTL),
		ConfigDir:    configDir,
		LogLevel:     getEnv("LOG_LEVEL", orDefault(fc.LogLevel, "info")),
		LogFormat:    getEnv("LOG_FORMAT", orDefault(fc.LogFormat, "text")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail on first use
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("REV_API_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("REV_API_URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("REV_API_URL has no host: %q", c.APIURL)
	}

	for _, v := range []struct {
		name  string
		value int
	}{
		{"REV_TIMEOUT", c.Timeout},
		{"REV_CRAWL_TIMEOUT", c.CrawlTimeout},
	} {
		if v.value < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", v.name, v.value)
		}
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("REV_CACHE_TTL must not be negative, got %d", c.CacheTTL)
	}
	return nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/rev, or ~/.config/rev
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rev")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rev")
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fc, nil
	}
	if err != nil {
		return fc, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDefaultInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}

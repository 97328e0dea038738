package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Fallback policies for data pages whose fetch fails.
const (
	FallbackDemo  = "demo"  // show the fixed sample dataset
	FallbackError = "error" // show an error state with no records
)

// Config holds the dashboard settings, populated from environment variables.
type Config struct {
	APIBaseURL   string
	APITimeout   time.Duration // 0 leaves the transport default in place
	SessionFile  string
	FallbackMode string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("API_TIMEOUT", "0s"))
	if err != nil || apiTimeout < 0 {
		return nil, errors.New("invalid API_TIMEOUT")
	}

	cfg := &Config{
		APIBaseURL:      sharedcfg.EnvOrDefault("API_BASE_URL", "http://localhost:9000"),
		APITimeout:      apiTimeout,
		SessionFile:     sharedcfg.EnvOrDefault("SESSION_FILE", defaultSessionFile()),
		FallbackMode:    sharedcfg.EnvOrDefault("FALLBACK_MODE", FallbackDemo),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if err := validateBaseURL(cfg.APIBaseURL); err != nil {
		return nil, err
	}
	if cfg.FallbackMode != FallbackDemo && cfg.FallbackMode != FallbackError {
		return nil, fmt.Errorf("invalid FALLBACK_MODE %q: want %q or %q", cfg.FallbackMode, FallbackDemo, FallbackError)
	}

	return cfg, nil
}

// MockAPIConfig holds the settings of the demo monitoring API.
type MockAPIConfig struct {
	HTTPAddr     string
	JWTSecret    string
	TokenTTL     time.Duration
	DemoUsername string
	DemoPassword string

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// LoadMockAPI reads the demo API configuration from environment variables.
func LoadMockAPI() (*MockAPIConfig, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(sharedcfg.EnvOrDefault("MOCKAPI_TOKEN_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return nil, errors.New("invalid MOCKAPI_TOKEN_TTL")
	}

	cfg := &MockAPIConfig{
		HTTPAddr:        sharedcfg.EnvOrDefault("MOCKAPI_ADDR", ":9000"),
		JWTSecret:       sharedcfg.EnvOrDefault("MOCKAPI_JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:        ttl,
		DemoUsername:    sharedcfg.EnvOrDefault("MOCKAPI_USERNAME", "admin"),
		DemoPassword:    sharedcfg.EnvOrDefault("MOCKAPI_PASSWORD", "password"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if len(cfg.JWTSecret) < 8 {
		return nil, errors.New("MOCKAPI_JWT_SECRET must be at least 8 characters")
	}
	if cfg.DemoUsername == "" || cfg.DemoPassword == "" {
		return nil, errors.New("MOCKAPI_USERNAME and MOCKAPI_PASSWORD are required")
	}

	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the environment without
// overriding values already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q: must be an absolute http(s) URL", raw)
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".water-monitor", "session.json")
	}
	return filepath.Join(home, ".water-monitor", "session.json")
}

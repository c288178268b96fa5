// Package config loads the fin command configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds application configuration
type Config struct {
	DataDir        string // directory holding the snapshot store
	Store          string // StoreFile or StoreSQLite
	LogLevel       string
	LogPretty      bool
	Model          string        // model used for note enhancement and assist
	EnhanceTimeout time.Duration // upper bound of one enhancement call
	APIKey         string        // Gemini API key, empty disables the advisory
}

// Load reads configuration from environment variables. Variables already
// set in the environment win over those in files (".env" when none given);
// missing files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	dataDir := getEnv("FINTRACK_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".fintrack")
	}
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	cfg := &Config{
		DataDir:        absDataDir,
		Store:          getEnv("FINTRACK_STORE", StoreFile),
		LogLevel:       getEnv("FINTRACK_LOG_LEVEL", "warn"),
		LogPretty:      getEnvAsBool("FINTRACK_LOG_PRETTY", true),
		Model:          getEnv("FINTRACK_MODEL", "gemini-2.5-flash"),
		EnhanceTimeout: getEnvAsDuration("FINTRACK_ENHANCE_TIMEOUT", 10*time.Second),
		APIKey:         getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a closed set of choices.
func (c *Config) Validate() error {
	var errs error
	if c.Store != StoreFile && c.Store != StoreSQLite {
		errs = errors.Join(errs, fmt.Errorf("unknown store %q, want %q or %q", c.Store, StoreFile, StoreSQLite))
	}
	if c.EnhanceTimeout <= 0 {
		errs = errors.Join(errs, fmt.Errorf("enhance timeout must be positive, got %v", c.EnhanceTimeout))
	}
	if c.DataDir == "" {
		errs = errors.Join(errs, errors.New("data directory is empty"))
	}
	return errs
}

// RegisterFlags exposes the configuration as flags whose defaults are the
// loaded values.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataDir, "data", c.DataDir, "directory holding the fintrack data")
	fs.StringVar(&c.Store, "store", c.Store, "storage backend: file or sqlite")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "log level: debug, info, warn, error or disabled")
	fs.BoolVar(&c.LogPretty, "log-pretty", c.LogPretty, "human readable logs")
	fs.StringVar(&c.Model, "model", c.Model, "Gemini model for note enhancement and assist")
	fs.DurationVar(&c.EnhanceTimeout, "enhance-timeout", c.EnhanceTimeout, "timeout of one note enhancement")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

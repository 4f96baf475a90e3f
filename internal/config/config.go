// Package config provides configuration loading and management for the sync service.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FeedTypeMock serves the built-in fixture batch, used in development and tests
	FeedTypeMock = "mock"

	// FeedTypeHTTP fetches normalized jobs from a live affiliate feed endpoint
	FeedTypeHTTP = "http"
)

const (
	// defaultExpiryHours is the grace period before an unseen affiliate job is expired
	defaultExpiryHours = 48

	// defaultStaleBatchLimit bounds how many stale jobs one sweep may expire
	defaultStaleBatchLimit = 1000
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Database *DatabaseConfig `yaml:"database,omitempty"`
	Feed     FeedConfig      `yaml:"feed"`
	Sync     SyncConfig      `yaml:"sync"`
	Redis    *RedisConfig    `yaml:"redis,omitempty"`
}

// ServerConfig defines the HTTP listener settings
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080"
	Address string `yaml:"address,omitempty"`

	// SyncSecretFile is the path to a file containing the shared secret that
	// guards the sync trigger endpoints. Recommended for production.
	// The file should contain only the secret with optional trailing whitespace.
	SyncSecretFile string `yaml:"syncSecretFile,omitempty"`
}

// FeedConfig selects and configures the affiliate feed adapter
type FeedConfig struct {
	// Type is the adapter implementation: mock or http
	Type string `yaml:"type"`

	// HTTP holds settings for the http adapter
	HTTP *HTTPFeedConfig `yaml:"http,omitempty"`
}

// HTTPFeedConfig defines the live affiliate feed endpoint
type HTTPFeedConfig struct {
	// Endpoint is the full URL returning a JSON array of normalized jobs
	Endpoint string `yaml:"endpoint"`
}

// SyncConfig defines reconciliation pass settings
type SyncConfig struct {
	// ExpiryHours is the staleness window: affiliate jobs unseen for longer
	// than this are soft-expired by the sweep. Defaults to 48.
	ExpiryHours int `yaml:"expiryHours,omitempty"`

	// StaleBatchLimit bounds the number of jobs one staleness sweep may
	// expire. Defaults to 1000.
	StaleBatchLimit int `yaml:"staleBatchLimit,omitempty"`

	// Schedule is an optional cron spec (e.g. "@every 6h") for in-process
	// periodic sync passes. Empty disables the scheduler; an external cron
	// hitting the sync endpoint works the same way.
	Schedule string `yaml:"schedule,omitempty"`
}

// RedisConfig defines the optional Redis cache used by the click tracker
type RedisConfig struct {
	// URL is a redis connection URL, e.g. "redis://localhost:6379/0"
	URL string `yaml:"url"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// This is the recommended approach for production deployments
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from FJA_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	// Priority 1: Read from file if specified
	if d.PasswordFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		// Trim whitespace (including newlines) from file content
		password := strings.TrimSpace(string(data))
		return password, nil
	}

	// Priority 2: Check environment variable
	if envPassword := os.Getenv("FJA_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or FJA_DATABASE_PASSWORD environment variable",
	)
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	// URL-escape the password to handle special characters
	escapedPassword := url.QueryEscape(password)

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		escapedPassword,
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// GetSyncSecret returns the shared sync trigger secret using the following
// priority:
// 1. Read from SyncSecretFile if specified
// 2. Read from FJA_SYNC_SECRET environment variable
//
// An error here means the sync endpoints must reject every request.
func (s *ServerConfig) GetSyncSecret() (string, error) {
	if s.SyncSecretFile != "" {
		cleanPath := filepath.Clean(s.SyncSecretFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read sync secret from file %s: %w", s.SyncSecretFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envSecret := os.Getenv("FJA_SYNC_SECRET"); envSecret != "" {
		return envSecret, nil
	}

	return "", fmt.Errorf(
		"no sync secret configured: set syncSecretFile or FJA_SYNC_SECRET environment variable",
	)
}

// GetAddress returns the listen address, using ":8080" if not specified
func (s *ServerConfig) GetAddress() string {
	if s.Address == "" {
		return ":8080"
	}
	return s.Address
}

// GetExpiryWindow returns the staleness window as a duration
func (s *SyncConfig) GetExpiryWindow() time.Duration {
	hours := s.ExpiryHours
	if hours <= 0 {
		hours = defaultExpiryHours
	}
	return time.Duration(hours) * time.Hour
}

// GetStaleBatchLimit returns the bounded batch size for the staleness sweep
func (s *SyncConfig) GetStaleBatchLimit() int {
	if s.StaleBatchLimit <= 0 {
		return defaultStaleBatchLimit
	}
	return s.StaleBatchLimit
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	// As of now, this is required because there's no other options to load
	// configuration. Once we add more options, we can remove this check.
	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	// Read the entire file into memory
	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML content
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Validate the config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := c.validateFeedConfig(); err != nil {
		return err
	}

	if err := c.validateSyncConfig(); err != nil {
		return err
	}

	if c.Redis != nil && c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required when redis is configured")
	}

	return nil
}

// validateFeedConfig validates the feed adapter selection
func (c *Config) validateFeedConfig() error {
	switch c.Feed.Type {
	case FeedTypeMock:
		return nil
	case FeedTypeHTTP:
		if c.Feed.HTTP == nil || c.Feed.HTTP.Endpoint == "" {
			return fmt.Errorf("feed.http.endpoint is required when feed.type is %s", FeedTypeHTTP)
		}
		if _, err := url.ParseRequestURI(c.Feed.HTTP.Endpoint); err != nil {
			return fmt.Errorf("feed.http.endpoint must be a valid URL: %w", err)
		}
		return nil
	case "":
		return fmt.Errorf("feed.type is required (one of: %s, %s)", FeedTypeMock, FeedTypeHTTP)
	default:
		return fmt.Errorf("unrecognized feed.type %q (one of: %s, %s)", c.Feed.Type, FeedTypeMock, FeedTypeHTTP)
	}
}

// validateSyncConfig validates reconciliation pass settings
func (c *Config) validateSyncConfig() error {
	if c.Sync.ExpiryHours < 0 {
		return fmt.Errorf("sync.expiryHours must not be negative")
	}
	if c.Sync.StaleBatchLimit < 0 {
		return fmt.Errorf("sync.staleBatchLimit must not be negative")
	}
	return nil
}

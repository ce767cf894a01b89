package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `env:"SERVER" yaml:"server"`

	// Storage configuration
	Storage StorageConfig `env:"STORAGE" yaml:"storage"`

	// Logging configuration
	Logging LoggingConfig `env:"LOGGING" yaml:"logging"`

	// Metrics configuration
	Metrics MetricsConfig `env:"METRICS" yaml:"metrics"`

	// Configuration file path
	ConfigFile string `env:"CONFIG_FILE" yaml:"-"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	// HTTP server address
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080" yaml:"http_addr"`
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	// Data directory path
	DataDir string `env:"DATA_DIR" envDefault:"./data" yaml:"data_dir"`

	// Size threshold in bytes above which the active segment is rolled
	SegmentSizeLimit int64 `env:"SEGMENT_SIZE_LIMIT" envDefault:"1048576" yaml:"segment_size_limit"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	// Log level: "debug", "info", "warn", "error"
	Level string `env:"LOG_LEVEL" envDefault:"info" yaml:"level"`

	// Log format: "json", "text"
	Format string `env:"LOG_FORMAT" envDefault:"json" yaml:"format"`

	// Log file path (empty for stdout)
	Output string `env:"LOG_OUTPUT" envDefault:"" yaml:"output"`

	// Enable log rotation
	Rotation bool `env:"LOG_ROTATION" envDefault:"true" yaml:"rotation"`

	// Max log file size in MB
	MaxSize int `env:"LOG_MAX_SIZE" envDefault:"100" yaml:"max_size"`

	// Number of backup files to keep
	MaxBackups int `env:"LOG_MAX_BACKUPS" envDefault:"7" yaml:"max_backups"`

	// Max age in days
	MaxAge int `env:"LOG_MAX_AGE" envDefault:"30" yaml:"max_age"`
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	// Enable Prometheus metrics
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true" yaml:"enabled"`

	// Metrics server address
	Addr string `env:"METRICS_ADDR" envDefault:":9090" yaml:"addr"`
}

// Load loads configuration from multiple sources:
// 1. Default values
// 2. Environment variables
// 3. Command line flags
// 4. Configuration file (YAML)
func Load() (*Config, error) {
	cfg := &Config{}

	// Load from environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	// Parse command line flags
	flag.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to configuration file")
	flag.StringVar(&cfg.Server.HTTPAddr, "http-addr", cfg.Server.HTTPAddr, "HTTP server address")
	flag.StringVar(&cfg.Storage.DataDir, "data-dir", cfg.Storage.DataDir, "Data directory path")
	flag.Int64Var(&cfg.Storage.SegmentSizeLimit, "segment-size-limit", cfg.Storage.SegmentSizeLimit, "Segment size limit in bytes")
	flag.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "Log format (json, text)")
	flag.Parse()

	// Load from config file if specified
	if cfg.ConfigFile != "" {
		if err := loadFromFile(cfg, cfg.ConfigFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Normalize paths
	cfg.Storage.DataDir = filepath.Clean(cfg.Storage.DataDir)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("http server address cannot be empty")
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Storage.SegmentSizeLimit <= 0 {
		return fmt.Errorf("segment size limit must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics address is required when metrics are enabled")
	}

	return nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// Package config loads anger-log configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/rcliao/anger-log/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ANGERLOG_"

const maxConfigFileSize = 1024 * 1024

// Config is the complete runtime configuration.
type Config struct {
	Server ServerConfig   `koanf:"server"`
	Store  StoreConfig    `koanf:"store"`
	Log    logging.Config `koanf:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AnalyzeRate     float64       `koanf:"analyze_rate"` // requests/second per client; negative disables
}

// StoreConfig selects the record store.
type StoreConfig struct {
	Driver string `koanf:"driver"` // sqlite or memory
	Path   string `koanf:"path"`
}

// DefaultDir is where the database and config file live by default.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".anger-log")
}

// Load reads configuration from a YAML file, then environment overrides,
// then fills defaults.
//
// Precedence (highest first):
//  1. ANGERLOG_DB for the database path
//  2. ANGERLOG_<SECTION>_<FIELD>, e.g. ANGERLOG_SERVER_ADDR -> server.addr
//  3. YAML file (configPath, or ~/.anger-log/config.yaml when it exists)
//  4. Defaults
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(DefaultDir(), "config.yaml")
	}

	content, err := readConfigFile(configPath)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if p := os.Getenv(EnvPrefix + "DB"); p != "" {
		cfg.Store.Path = p
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps ANGERLOG_SERVER_SHUTDOWN_TIMEOUT to server.shutdown_timeout.
// Only the first underscore after the prefix separates section from field.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.AnalyzeRate == 0 {
		cfg.Server.AnalyzeRate = 20
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "sqlite"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(DefaultDir(), "journal.db")
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("store.driver must be sqlite or memory, got %q", c.Store.Driver)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must be non-negative, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

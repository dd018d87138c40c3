package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/seedvault"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "numfind.yaml"

// Config holds all numfind configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Seeds    SeedsConfig    `yaml:"seeds"`
	Script   ScriptConfig   `yaml:"script"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// DatabaseConfig configures result storage. An empty path disables it.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// SeedsConfig configures the server seed vault.
type SeedsConfig struct {
	Service string `yaml:"service"`
	// FallbackPath is used when the OS keychain is unavailable.
	FallbackPath string `yaml:"fallback_path"`
}

// ScriptConfig limits autoplay scripts.
type ScriptConfig struct {
	InitTimeout string `yaml:"init_timeout"`
	CallTimeout string `yaml:"call_timeout"`
	MaxClicks   int    `yaml:"max_clicks"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8077",
			ShutdownTimeout: "10s",
		},
		Database: DatabaseConfig{
			Path: "numfind.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Seeds: SeedsConfig{
			Service:      seedvault.DefaultService,
			FallbackPath: filepath.Join(".numfind", "seeds.json"),
		},
		Script: ScriptConfig{
			InitTimeout: "2s",
			CallTimeout: "1s",
			MaxClicks:   10_000,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("NUMFIND_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path, ok := os.LookupEnv("NUMFIND_DB"); ok {
		// set but empty disables the database
		c.Database.Path = path
	}
	if level := os.Getenv("NUMFIND_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	if service := os.Getenv("NUMFIND_SEED_SERVICE"); service != "" {
		c.Seeds.Service = service
	}
}

// GetShutdownTimeout returns the server shutdown timeout.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// GetInitTimeout returns the script load timeout.
func (c *Config) GetInitTimeout() time.Duration {
	return parseDuration(c.Script.InitTimeout, 2*time.Second)
}

// GetCallTimeout returns the per-pick script timeout.
func (c *Config) GetCallTimeout() time.Duration {
	return parseDuration(c.Script.CallTimeout, time.Second)
}

// GetLogLevel parses Logging.Level.
func (c *Config) GetLogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	for name, v := range map[string]string{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"script.init_timeout":     c.Script.InitTimeout,
		"script.call_timeout":     c.Script.CallTimeout,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			return fmt.Errorf("invalid %s: %q", name, v)
		}
	}
	if c.Script.MaxClicks < 0 {
		return fmt.Errorf("script.max_clicks must not be negative")
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

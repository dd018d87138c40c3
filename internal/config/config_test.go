package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"NUMFIND_ADDR", "NUMFIND_LOG_LEVEL", "NUMFIND_SEED_SERVICE"} {
		t.Setenv(k, "")
	}
	// NUMFIND_DB distinguishes unset from empty
	t.Setenv("NUMFIND_DB", "")
	os.Unsetenv("NUMFIND_DB")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "numfind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
logging:
  level: debug
  development: true
script:
  call_timeout: 250ms
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, zapcore.DebugLevel, cfg.GetLogLevel())
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 250*time.Millisecond, cfg.GetCallTimeout())
	// untouched sections keep their defaults
	assert.Equal(t, "numfind.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Second, cfg.GetInitTimeout())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("values replace file settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NUMFIND_ADDR", "0.0.0.0:80")
		t.Setenv("NUMFIND_LOG_LEVEL", "WARN")
		t.Setenv("NUMFIND_SEED_SERVICE", "numfind-test")
		t.Setenv("NUMFIND_DB", "/tmp/x.db")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:80", cfg.Server.Addr)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "numfind-test", cfg.Seeds.Service)
		assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	})

	t.Run("empty NUMFIND_DB disables the database", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NUMFIND_DB", "")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Empty(t, cfg.Database.Path)
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		clearEnv(t)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, "server.addr"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad timeout", func(c *Config) { c.Script.CallTimeout = "soon" }, "script.call_timeout"},
		{"negative timeout", func(c *Config) { c.Server.ShutdownTimeout = "-1s" }, "server.shutdown_timeout"},
		{"negative clicks", func(c *Config) { c.Script.MaxClicks = -1 }, "script.max_clicks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "numfind.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":1234"
	cfg.Script.MaxClicks = 42
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeout())
	assert.Equal(t, time.Second, cfg.GetCallTimeout())
	assert.Equal(t, zapcore.InfoLevel, cfg.GetLogLevel())
}

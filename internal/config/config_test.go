package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 20.0, cfg.Server.AnalyzeRate)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, filepath.Join(DefaultDir(), "journal.db"), cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  addr: ":9000"
  shutdown_timeout: 3s
store:
  driver: memory
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("ANGERLOG_SERVER_ADDR", ":9100")
	t.Setenv("ANGERLOG_SERVER_ANALYZE_RATE", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr, "env overrides file")
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2.5, cfg.Server.AnalyzeRate)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_DBEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANGERLOG_DB", "/tmp/custom.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Store.Path)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit path must exist")

	t.Setenv("ANGERLOG_STORE_DRIVER", "postgres")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.addr", envKey("ANGERLOG_SERVER_ADDR"))
	assert.Equal(t, "server.shutdown_timeout", envKey("ANGERLOG_SERVER_SHUTDOWN_TIMEOUT"))
	assert.Equal(t, "log.level", envKey("ANGERLOG_LOG_LEVEL"))
	assert.Equal(t, "db", envKey("ANGERLOG_DB"))
}

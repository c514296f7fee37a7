// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/veripaper/pkg/types"
)

// inTempDir runs the test from an empty directory with HOME pointed at it,
// so no real veripaper.yaml is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := inTempDir(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, types.StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(dir, ".local", "share", "veripaper"), cfg.Store.Dir)
	assert.True(t, cfg.Store.UseSSL)
	assert.Equal(t, 10, cfg.History.Capacity)
	assert.Equal(t, "https://veripaper.onrender.com/api", cfg.Analyzer.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Analyzer.Timeout)
	assert.Equal(t, 3, cfg.Analyzer.MaxRetries)
	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := inTempDir(t)

	yaml := `
store:
  driver: badger
  dir: /var/lib/veripaper
history:
  capacity: 25
analyzer:
  timeout: 90s
server:
  allowed_origins: ["https://veripaper.example"]
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "veripaper.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, types.StoreBadger, cfg.Store.Driver)
	assert.Equal(t, "/var/lib/veripaper", cfg.Store.Dir)
	assert.Equal(t, 25, cfg.History.Capacity)
	assert.Equal(t, 90*time.Second, cfg.Analyzer.Timeout)
	assert.Equal(t, []string{"https://veripaper.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values.
	assert.Equal(t, 3, cfg.Analyzer.MaxRetries)
}

func TestLoadFromHomeConfigDir(t *testing.T) {
	dir := inTempDir(t)
	cfgDir := filepath.Join(dir, ".config", "veripaper")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "veripaper.yaml"), []byte("store:\n  driver: file\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, types.StoreFile, cfg.Store.Driver)
}

func TestLoadExplicitFile(t *testing.T) {
	inTempDir(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: 0.0.0.0:9000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	inTempDir(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "veripaper.yaml"), []byte("store:\n  driver: file\nlog:\n  level: debug\n"), 0o644))

	t.Setenv("VERIPAPER_STORE_DRIVER", "memory")
	t.Setenv("VERIPAPER_LOG_LEVEL", "warn")
	t.Setenv("VERIPAPER_ANALYZER_API_KEY", "vp_env")
	t.Setenv("VERIPAPER_STORE_DSN", "root@tcp(localhost:3306)/veripaper")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, types.StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "vp_env", cfg.Analyzer.APIKey)
	assert.Equal(t, "root@tcp(localhost:3306)/veripaper", cfg.Store.DSN)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{"unknown driver", map[string]string{"VERIPAPER_STORE_DRIVER": "redis"}, "store.driver"},
		{"zero capacity", map[string]string{"VERIPAPER_HISTORY_CAPACITY": "0"}, "history.capacity"},
		{"negative retries", map[string]string{"VERIPAPER_ANALYZER_MAX_RETRIES": "-1"}, "max_retries"},
		{"bad log format", map[string]string{"VERIPAPER_LOG_FORMAT": "xml"}, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestInitLogger(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	require.NoError(t, InitLogger(types.LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(types.LogConfig{Level: "warn", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))

	assert.Error(t, InitLogger(types.LogConfig{Level: "invalid", Format: "json"}))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads settings from veripaper.yaml and VERIPAPER_*
// environment variables, and sets up the global logger.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/veripaper/internal/analyzer"
	"github.com/pdiddy/veripaper/internal/history"
	"github.com/pdiddy/veripaper/pkg/types"
)

// Name is the config file base name and the directory name under
// ~/.config and ~/.local/share.
const Name = "veripaper"

// EnvPrefix prefixes every environment override, e.g. VERIPAPER_STORE_DRIVER.
const EnvPrefix = "VERIPAPER"

// DataDir returns the default data directory, ~/.local/share/veripaper,
// or .veripaper when the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + Name
	}
	return filepath.Join(home, ".local", "share", Name)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", string(types.StoreSQLite))
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.dir", DataDir())
	v.SetDefault("store.endpoint", "")
	v.SetDefault("store.bucket", "")
	v.SetDefault("store.region", "")
	v.SetDefault("store.access_key", "")
	v.SetDefault("store.secret_key", "")
	v.SetDefault("store.use_ssl", true)
	v.SetDefault("history.capacity", history.DefaultCapacity)
	v.SetDefault("analyzer.base_url", analyzer.DefaultBaseURL)
	v.SetDefault("analyzer.timeout", 5*time.Minute)
	v.SetDefault("analyzer.max_retries", 3)
	v.SetDefault("analyzer.user_agent", Name+"-cli")
	v.SetDefault("analyzer.api_key", "")
	v.SetDefault("server.addr", "127.0.0.1:8787")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads the config file and environment. When file is empty,
// veripaper.yaml is searched in the working directory and then in
// ~/.config/veripaper; a missing file is not an error.
func Load(file string) (*types.Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	} else {
		zap.L().Debug("using config file", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can run with.
func Validate(cfg *types.Config) error {
	switch cfg.Store.Driver {
	case types.StoreMemory, types.StoreFile, types.StoreSQLite, types.StoreMySQL,
		types.StorePostgres, types.StoreBadger, types.StoreObject:
	default:
		return eris.Errorf("config: store.driver %q is not one of memory, file, sqlite3, mysql, pgx, badger, s3", cfg.Store.Driver)
	}
	if cfg.History.Capacity < 1 {
		return eris.Errorf("config: history.capacity must be at least 1, got %d", cfg.History.Capacity)
	}
	if cfg.Analyzer.MaxRetries < 0 {
		return eris.Errorf("config: analyzer.max_retries must not be negative, got %d", cfg.Analyzer.MaxRetries)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return eris.Errorf("config: log.format must be json or console, got %q", cfg.Log.Format)
	}
	return nil
}

// InitLogger builds the global zap logger. "console" selects the
// development encoder; anything else logs JSON.
func InitLogger(cfg types.LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.DisableStacktrace = true
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreDriver selects the persistence backend for history.
type StoreDriver string

const (
	StoreMemory   StoreDriver = "memory"
	StoreFile     StoreDriver = "file"
	StoreSQLite   StoreDriver = "sqlite3"
	StoreMySQL    StoreDriver = "mysql"
	StorePostgres StoreDriver = "pgx"
	StoreBadger   StoreDriver = "badger"
	StoreObject   StoreDriver = "s3"
)

// StoreConfig holds settings for the key-value persistence backend.
type StoreConfig struct {
	// Driver selects the backend (default sqlite3).
	Driver StoreDriver `json:"driver" yaml:"driver" mapstructure:"driver"`

	// DSN is the database connection string for the SQL drivers. For sqlite3
	// an empty DSN resolves to Dir/veripaper.db.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`

	// Dir is the data directory used by the file, sqlite3, and badger backends.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Endpoint is the S3-compatible host:port for the s3 backend.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	// Bucket is the bucket holding history objects for the s3 backend.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty" mapstructure:"bucket"`

	// Region is the bucket region for the s3 backend.
	Region string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`

	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty" mapstructure:"secret_key"`
	UseSSL    bool   `json:"use_ssl" yaml:"use_ssl" mapstructure:"use_ssl"`
}

// HistoryConfig holds settings for the local analysis history.
type HistoryConfig struct {
	// Capacity is the maximum number of entries kept (default 10).
	Capacity int `json:"capacity" yaml:"capacity" mapstructure:"capacity"`
}

// AnalyzerConfig holds settings for the remote scoring service client.
type AnalyzerConfig struct {
	// BaseURL is the service API root; requests go to BaseURL/analyze.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single analyze request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the number of retries on HTTP 429 and cold-start 5xx
	// responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// UserAgent is sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// APIKey is sent as a bearer token when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ServerConfig holds settings for the local HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default 127.0.0.1:8787).
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists the CORS origins permitted to call the API.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" or "console".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups the settings of every component.
type Config struct {
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	History  HistoryConfig  `json:"history" yaml:"history" mapstructure:"history"`
	Analyzer AnalyzerConfig `json:"analyzer" yaml:"analyzer" mapstructure:"analyzer"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

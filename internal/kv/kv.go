// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kv provides the string key-value persistence surface the history
// cache writes through, with backends for memory, plain files, SQL
// databases, an embedded Badger store, and S3-compatible object storage.
package kv

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/pdiddy/veripaper/pkg/types"
)

// Backend stores string values under string keys. Get reports a missing key
// with ok == false and a nil error. Delete of a missing key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ErrUnsupportedDriver is returned by Open for an unknown store driver.
var ErrUnsupportedDriver = eris.New("unsupported store driver")

// ErrInvalidKey is returned for keys that cannot be mapped onto every backend.
var ErrInvalidKey = eris.New("invalid key")

// keyPattern restricts keys to characters that are safe as file and object names.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return eris.Wrapf(ErrInvalidKey, "key %q", key)
	}
	return nil
}

const sqliteFile = "veripaper.db"

// Open returns the backend selected by cfg.Driver. An empty driver means sqlite3.
func Open(ctx context.Context, cfg types.StoreConfig) (Backend, error) {
	switch cfg.Driver {
	case types.StoreMemory:
		return NewMemory(), nil
	case types.StoreFile:
		return NewFile(cfg.Dir)
	case types.StoreSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = filepath.Join(cfg.Dir, sqliteFile)
		}
		return OpenSQL(ctx, types.StoreSQLite, dsn)
	case types.StoreMySQL, types.StorePostgres:
		if cfg.DSN == "" {
			return nil, eris.Errorf("store driver %s requires a dsn", cfg.Driver)
		}
		return OpenSQL(ctx, cfg.Driver, cfg.DSN)
	case types.StoreBadger:
		return OpenBadger(filepath.Join(cfg.Dir, "badger"))
	case types.StoreObject:
		return OpenObject(ctx, cfg)
	default:
		return nil, eris.Wrapf(ErrUnsupportedDriver, "driver %q: use memory, file, sqlite3, mysql, pgx, badger, or s3", cfg.Driver)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kv

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
	"github.com/rotisserie/eris"

	"github.com/pdiddy/veripaper/pkg/types"
)

// dialect holds the statements that differ between SQL drivers.
type dialect struct {
	create string
	get    string
	upsert string
	delete string
}

var dialects = map[types.StoreDriver]dialect{
	types.StoreSQLite: {
		create: `CREATE TABLE IF NOT EXISTS kv_store (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		get: `SELECT v FROM kv_store WHERE k = ?`,
		upsert: `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(k) DO UPDATE SET v=excluded.v, updated_at=excluded.updated_at`,
		delete: `DELETE FROM kv_store WHERE k = ?`,
	},
	types.StoreMySQL: {
		create: `CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(255) PRIMARY KEY,
			v LONGTEXT NOT NULL,
			updated_at VARCHAR(40) NOT NULL
		)`,
		get: `SELECT v FROM kv_store WHERE k = ?`,
		upsert: `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)`,
		delete: `DELETE FROM kv_store WHERE k = ?`,
	},
	types.StorePostgres: {
		create: `CREATE TABLE IF NOT EXISTS kv_store (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		get: `SELECT v FROM kv_store WHERE k = $1`,
		upsert: `INSERT INTO kv_store (k, v, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = EXCLUDED.updated_at`,
		delete: `DELETE FROM kv_store WHERE k = $1`,
	},
}

// SQL stores keys in a single kv_store table of a SQLite, MySQL, or
// PostgreSQL database.
type SQL struct {
	db      *sql.DB
	driver  types.StoreDriver
	dialect dialect
}

var _ Backend = (*SQL)(nil)

// OpenSQL opens the database and creates the kv_store table if it does not
// exist. For sqlite3 a plain file path DSN gets its directory created and
// WAL mode enabled.
func OpenSQL(ctx context.Context, driver types.StoreDriver, dsn string) (*SQL, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, eris.Wrapf(ErrUnsupportedDriver, "sql driver %q", driver)
	}

	if driver == types.StoreSQLite {
		var err error
		if dsn, err = prepareSQLitePath(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, eris.Wrapf(err, "sql store: open %s", driver)
	}
	if driver == types.StoreSQLite {
		// A single connection avoids "database is locked" under WAL.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrapf(err, "sql store: connect %s", driver)
	}
	if _, err := db.ExecContext(ctx, d.create); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sql store: create schema")
	}

	return &SQL{db: db, driver: driver, dialect: d}, nil
}

func prepareSQLitePath(dsn string) (string, error) {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, "?") {
		return dsn, nil
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return "", eris.Wrapf(err, "sql store: create directory for %s", dsn)
	}
	return dsn + "?_journal_mode=WAL&_busy_timeout=5000", nil
}

// Get implements Backend.
func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&v)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, eris.Wrapf(err, "sql store: get %s", key)
	}
	return v, true, nil
}

// Set implements Backend.
func (s *SQL) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value, now); err != nil {
		return eris.Wrapf(err, "sql store: set %s", key)
	}
	return nil
}

// Delete implements Backend.
func (s *SQL) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.delete, key); err != nil {
		return eris.Wrapf(err, "sql store: delete %s", key)
	}
	return nil
}

// Close releases the database connection.
func (s *SQL) Close() error {
	return s.db.Close()
}

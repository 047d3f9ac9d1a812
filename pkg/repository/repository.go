// Package repository implements persistent storage of dashboard settings on top of SQLite.
package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/adrg/xdg"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql
var schema string

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories contains all repository instances
type Repositories struct {
	Setting *SettingRepository
	DB      *sqlx.DB
}

// DefaultDSN returns the database location under the XDG data directory
func DefaultDSN() (string, error) {
	path, err := xdg.DataFile("tweetboard/tweetboard.db")
	if err != nil {
		return "", fmt.Errorf("resolve data file: %w", err)
	}
	return "file:" + path + "?cache=shared&mode=rwc&_txlock=immediate", nil
}

// NewRepositories creates all repositories with a shared database connection
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	if cfg.DSN == "" {
		dsn, err := DefaultDSN()
		if err != nil {
			return nil, err
		}
		cfg.DSN = dsn
	}

	db, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repositories{
		Setting: NewSettingRepository(db),
		DB:      db,
	}, nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Ping verifies the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// runMigrations brings tables created by older versions up to date
func runMigrations(ctx context.Context, db *sqlx.DB) error {
	// settings created before updated_at tracking have only key and value
	var count int
	err := db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM pragma_table_info('settings') WHERE name = 'updated_at'`)
	if err != nil {
		return fmt.Errorf("check updated_at column: %w", err)
	}
	if count == 0 {
		// sqlite refuses non-constant defaults in ALTER TABLE ADD COLUMN
		if _, err := db.ExecContext(ctx, `ALTER TABLE settings ADD COLUMN updated_at DATETIME`); err != nil {
			return fmt.Errorf("add updated_at column: %w", err)
		}
	}
	return nil
}

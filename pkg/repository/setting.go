package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/tweetboard/pkg/domain"
)

// SettingRepository handles setting-related database operations, implements settings.Store
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get retrieves a setting value, ok is false if the key was never stored
func (r *SettingRepository) Get(ctx context.Context, key domain.SettingKey) (value string, ok bool, err error) {
	err = r.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", string(key))
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting: %w", err)
	}
	return value, true, nil
}

// Set stores a setting value
func (r *SettingRepository) Set(ctx context.Context, key domain.SettingKey, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	return r.exec(ctx, "set setting", query, string(key), value)
}

// Clear removes all settings
func (r *SettingRepository) Clear(ctx context.Context) error {
	return r.exec(ctx, "clear settings", "DELETE FROM settings")
}

// Len returns the number of stored settings
func (r *SettingRepository) Len(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM settings"); err != nil {
		return 0, fmt.Errorf("count settings: %w", err)
	}
	return count, nil
}

// exec runs a write statement, retrying while the database is locked
func (r *SettingRepository) exec(ctx context.Context, op, query string, args ...any) error {
	err := newRetrier().Do(ctx, func() error {
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("%s: %w", op, err)}
		}
		return nil
	}, errCritical)
	return unwrapCritical(err)
}

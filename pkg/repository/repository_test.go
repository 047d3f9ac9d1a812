package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tweetboard/pkg/domain"
	"github.com/umputun/tweetboard/pkg/settings"
)

// setupTestDB creates an in-memory database with all repositories
func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(context.Background(), Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos
}

func TestRepositories_Integration(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repos.Ping(ctx))

	s := settings.New(repos.Setting)
	for _, key := range domain.SettingKeys {
		assert.Equal(t, key.Default(), s.Get(ctx, key))
	}

	require.NoError(t, s.Set(ctx, domain.SettingLeftCol, "nasa"))
	require.NoError(t, s.Set(ctx, domain.SettingVolume, "10"))
	assert.Equal(t, "nasa", s.Handle(ctx, domain.ColumnLeft))
	assert.Equal(t, 10, s.Volume(ctx))

	require.NoError(t, s.ResetAll(ctx))
	for _, key := range domain.SettingKeys {
		assert.Equal(t, key.Default(), s.Get(ctx, key))
	}
}

func TestSettingRepository(t *testing.T) {
	repos := setupTestDB(t)
	repo := repos.Setting
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		value, ok, err := repo.Get(ctx, domain.SettingLeftCol)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, value)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, domain.SettingLeftCol, "nasa"))
		value, ok, err := repo.Get(ctx, domain.SettingLeftCol)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "nasa", value)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, domain.SettingLeftCol, "esa"))
		value, ok, err := repo.Get(ctx, domain.SettingLeftCol)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "esa", value)

		n, err := repo.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("empty value is stored", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, domain.SettingStartDate, ""))
		value, ok, err := repo.Get(ctx, domain.SettingStartDate)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, value)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx))
		n, err := repo.Len(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		_, ok, err := repo.Get(ctx, domain.SettingLeftCol)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("closed database", func(t *testing.T) {
		db, err := sqlx.Open("sqlite", ":memory:")
		require.NoError(t, err)
		require.NoError(t, db.Close())
		closed := NewSettingRepository(db)

		_, _, err = closed.Get(ctx, domain.SettingLeftCol)
		require.Error(t, err)
		err = closed.Set(ctx, domain.SettingLeftCol, "nasa")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "set setting")
		assert.NotErrorIs(t, err, errCritical)
		_, err = closed.Len(ctx)
		require.Error(t, err)
	})
}

func TestSettingRepository_Concurrent(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := domain.SettingKeys[i%len(domain.SettingKeys)]
			assert.NoError(t, repos.Setting.Set(ctx, key, fmt.Sprintf("v%d", i)))
		}(i)
	}
	wg.Wait()

	n, err := repos.Setting.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(domain.SettingKeys), n)
}

func TestRunMigrations_AddUpdatedAtColumn(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)
	ctx := context.Background()

	_, err = db.ExecContext(ctx, `CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('leftCol', 'nasa')`)
	require.NoError(t, err)

	require.NoError(t, runMigrations(ctx, db))
	require.NoError(t, runMigrations(ctx, db), "migrations must be idempotent")

	var count int
	err = db.GetContext(ctx, &count, `SELECT COUNT(*) FROM pragma_table_info('settings') WHERE name = 'updated_at'`)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	repo := NewSettingRepository(db)
	value, ok, err := repo.Get(ctx, domain.SettingLeftCol)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "nasa", value)
	require.NoError(t, repo.Set(ctx, domain.SettingLeftCol, "esa"))
}

func TestCriticalError(t *testing.T) {
	orig := errors.New("boom")
	err := error(&criticalError{err: orig})
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, errCritical)
	assert.ErrorIs(t, err, orig)
	assert.Equal(t, orig, unwrapCritical(err))
	assert.Equal(t, orig, unwrapCritical(orig))
}

func TestIsLockError(t *testing.T) {
	assert.False(t, isLockError(nil))
	assert.True(t, isLockError(errors.New("SQLITE_BUSY: busy")))
	assert.True(t, isLockError(errors.New("database is locked")))
	assert.True(t, isLockError(errors.New("database table is locked")))
	assert.False(t, isLockError(errors.New("no such table")))
}

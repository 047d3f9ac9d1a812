package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tweetboard/pkg/domain"
)

// failingStore returns errors for every operation
type failingStore struct{}

func (failingStore) Get(context.Context, domain.SettingKey) (string, bool, error) {
	return "", false, errors.New("get failed")
}
func (failingStore) Set(context.Context, domain.SettingKey, string) error {
	return errors.New("set failed")
}
func (failingStore) Clear(context.Context) error { return errors.New("clear failed") }
func (failingStore) Len(context.Context) (int, error) { return 1, nil }

func TestSettings_GetDefaults(t *testing.T) {
	ctx := context.Background()
	stores := map[string]Store{
		"empty memory store": NewMemoryStore(),
		"nil store":          nil,
		"failing store":      failingStore{},
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			s := New(store)
			for _, key := range domain.SettingKeys {
				assert.Equal(t, key.Default(), s.Get(ctx, key), "key %s", key)
			}
			assert.Equal(t, 30, s.Volume(ctx))
			assert.Equal(t, domain.DefaultTheme(), s.Theme(ctx))
			assert.Equal(t, [3]string{"makeschool", "laughingsquid", "techcrunch"}, s.Handles(ctx))
		})
	}
}

func TestSettings_SetGet(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())

	require.NoError(t, s.Set(ctx, domain.SettingLeftCol, "nasa"))
	require.NoError(t, s.Set(ctx, domain.SettingStartDate, "2024-01-01"))
	require.NoError(t, s.Set(ctx, domain.SettingBgColor, "#000000"))

	assert.Equal(t, "nasa", s.Get(ctx, domain.SettingLeftCol))
	assert.Equal(t, "nasa", s.Handle(ctx, domain.ColumnLeft))
	assert.Equal(t, "laughingsquid", s.Handle(ctx, domain.ColumnCenter))
	start, end := s.DateRange(ctx)
	assert.Equal(t, "2024-01-01", start)
	assert.Empty(t, end)
	assert.Equal(t, "#000000", s.Theme(ctx).Background)
	assert.Equal(t, "#222222", s.Theme(ctx).Title)

	t.Run("empty stored value resolves to default", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, domain.SettingRightCol, ""))
		assert.Equal(t, "techcrunch", s.Get(ctx, domain.SettingRightCol))
		raw, ok := s.Raw(ctx, domain.SettingRightCol)
		assert.True(t, ok)
		assert.Empty(t, raw)
	})

	t.Run("snapshot", func(t *testing.T) {
		snap := s.Snapshot(ctx)
		assert.Len(t, snap, len(domain.SettingKeys))
		assert.Equal(t, "nasa", snap[domain.SettingLeftCol])
		assert.Equal(t, "#1EAEDB", snap[domain.SettingLinkColor])
	})
}

func TestSettings_ResetAll(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())
	for _, key := range domain.SettingKeys {
		require.NoError(t, s.Set(ctx, key, "custom-"+string(key)))
	}
	for _, key := range domain.SettingKeys {
		assert.Equal(t, "custom-"+string(key), s.Get(ctx, key))
	}

	require.NoError(t, s.ResetAll(ctx))
	for _, key := range domain.SettingKeys {
		assert.Equal(t, key.Default(), s.Get(ctx, key), "key %s", key)
		_, ok := s.Raw(ctx, key)
		assert.False(t, ok)
	}
}

func TestSettings_FailingStore(t *testing.T) {
	ctx := context.Background()
	s := New(failingStore{})
	err := s.Set(ctx, domain.SettingLeftCol, "nasa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set leftCol")
	require.Error(t, s.ResetAll(ctx))
	raw, ok := s.Raw(ctx, domain.SettingLeftCol)
	assert.False(t, ok)
	assert.Empty(t, raw)
}

func TestSettings_Volume(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())

	require.NoError(t, s.Set(ctx, domain.SettingVolume, "50"))
	assert.Equal(t, 50, s.Volume(ctx))

	require.NoError(t, s.Set(ctx, domain.SettingVolume, "lots"))
	assert.Equal(t, 30, s.Volume(ctx))
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"30", 30},
		{"5", 5},
		{" 12 ", 12},
		{"25 posts", 25},
		{"+7", 7},
		{"abc", 30},
		{"", 30},
		{"0", 30},
		{"-5", 30},
		{"+", 30},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVolume(tt.in))
		})
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	n, err := m.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, m.Set(ctx, domain.SettingLeftCol, "nasa"))
	v, ok, err := m.Get(ctx, domain.SettingLeftCol)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "nasa", v)

	_, ok, err = m.Get(ctx, domain.SettingRightCol)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Clear(ctx))
	n, err = m.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tweetboard/pkg/domain"
)

// Settings is a typed accessor over Store. Every key resolves to the stored
// value or to its default, store failures are logged and never reach callers.
type Settings struct {
	store Store
}

// New makes Settings on top of store, nil store always yields defaults
func New(store Store) *Settings {
	if store == nil {
		store = noopStore{}
	}
	return &Settings{store: store}
}

// Get returns the stored value of key if the store is not empty and the value is set,
// the default otherwise. Stored empty strings count as unset.
func (s *Settings) Get(ctx context.Context, key domain.SettingKey) string {
	n, err := s.store.Len(ctx)
	if err != nil {
		lgr.Printf("[WARN] can't get settings count: %v", err)
		return key.Default()
	}
	if n == 0 {
		return key.Default()
	}
	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		lgr.Printf("[WARN] can't get setting %s: %v", key, err)
		return key.Default()
	}
	if !ok || value == "" {
		return key.Default()
	}
	return value
}

// Raw returns the stored value of key without defaults applied
func (s *Settings) Raw(ctx context.Context, key domain.SettingKey) (string, bool) {
	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		lgr.Printf("[WARN] can't get raw setting %s: %v", key, err)
		return "", false
	}
	return value, ok
}

// Set stores value for key as is
func (s *Settings) Set(ctx context.Context, key domain.SettingKey, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// ResetAll removes every stored value, all keys resolve to defaults afterwards
func (s *Settings) ResetAll(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	return nil
}

// Handle returns the handle shown in column
func (s *Settings) Handle(ctx context.Context, col domain.Column) string {
	return s.Get(ctx, col.HandleKey())
}

// Handles returns the handles of all columns in display order
func (s *Settings) Handles(ctx context.Context) [domain.NumColumns]string {
	var res [domain.NumColumns]string
	for _, col := range domain.Columns {
		res[col] = s.Handle(ctx, col)
	}
	return res
}

// Volume returns the number of posts to request, non-numeric or non-positive values give the default
func (s *Settings) Volume(ctx context.Context) int {
	return ParseVolume(s.Get(ctx, domain.SettingVolume))
}

// DateRange returns the stored start and end dates
func (s *Settings) DateRange(ctx context.Context) (start, end string) {
	return s.Get(ctx, domain.SettingStartDate), s.Get(ctx, domain.SettingEndDate)
}

// Theme returns the current page colors
func (s *Settings) Theme(ctx context.Context) domain.Theme {
	return domain.Theme{
		Background: s.Get(ctx, domain.SettingBgColor),
		Title:      s.Get(ctx, domain.SettingTitleColor),
		Font:       s.Get(ctx, domain.SettingFontColor),
		Link:       s.Get(ctx, domain.SettingLinkColor),
	}
}

// Snapshot returns resolved values of all settings
func (s *Settings) Snapshot(ctx context.Context) map[domain.SettingKey]string {
	res := make(map[domain.SettingKey]string, len(domain.SettingKeys))
	for _, key := range domain.SettingKeys {
		res[key] = s.Get(ctx, key)
	}
	return res
}

// ParseVolume converts a stored volume to a post count. Leading digits are
// accepted ("25 posts" is 25), anything without them falls back to the default.
func ParseVolume(v string) int {
	v = strings.TrimSpace(v)
	end := 0
	if end < len(v) && (v[end] == '+' || v[end] == '-') {
		end++
	}
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil || n <= 0 {
		return domain.DefaultVolume
	}
	return n
}

// Package board keeps the rendered state of the dashboard: three columns of cards, page theme and
// visibility of the settings form. It is the sink for fetch outcomes.
package board

import (
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/tweetboard/pkg/domain"
)

// State of a column
type State string

// column states
const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// ThemeSource provides the current page colors
type ThemeSource interface {
	Theme(ctx context.Context) domain.Theme
}

// Card is a rendered post
type Card struct {
	ID        string        `json:"id"`
	Author    string        `json:"author"`
	AuthorURL string        `json:"author_url"`
	URL       string        `json:"url"`
	Text      template.HTML `json:"text"`
	PostedAt  time.Time     `json:"posted_at,omitzero"`
	Ago       string        `json:"ago"`
}

// ColumnView is the rendered state of a column, either cards or a single message
type ColumnView struct {
	Column  domain.Column `json:"column"`
	State   State         `json:"state"`
	Cards   []Card        `json:"cards,omitempty"`
	Message string        `json:"message,omitempty"`
	Updated time.Time     `json:"updated,omitzero"`
}

// Snapshot is a copy of the whole board
type Snapshot struct {
	Columns      [domain.NumColumns]ColumnView `json:"columns"`
	Theme        domain.Theme                  `json:"theme"`
	SettingsOpen bool                          `json:"settings_open"`
}

// Board is the rendering surface, safe for concurrent use
type Board struct {
	themes    ThemeSource
	now       func() time.Time
	sanitizer *bluemonday.Policy

	mu           sync.RWMutex
	columns      [domain.NumColumns]ColumnView
	theme        domain.Theme
	settingsOpen bool
}

// Option customizes Board
type Option func(b *Board)

// WithClock sets the time source used for relative timestamps
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// New makes a board with all columns loading, nil themes means the default theme
func New(themes ThemeSource, opts ...Option) *Board {
	res := &Board{
		themes:    themes,
		now:       time.Now,
		sanitizer: bluemonday.StrictPolicy(),
		theme:     domain.DefaultTheme(),
	}
	for _, opt := range opts {
		opt(res)
	}
	for _, col := range domain.Columns {
		res.columns[col] = ColumnView{Column: col, State: StateLoading}
	}
	return res
}

// Render replaces the contents of col with outcome and reapplies the theme.
// Populated outcomes become one card per post in order, others a single message.
func (b *Board) Render(col domain.Column, outcome domain.Outcome) {
	if !col.Valid() {
		lgr.Printf("[WARN] can't render %s: %v", col, domain.ErrInvalidColumn)
		return
	}

	now := b.now()
	view := ColumnView{Column: col, State: StateReady, Updated: now}
	if outcome.IsError() {
		view.State = StateError
		view.Message = outcome.Message
	} else {
		view.Cards = make([]Card, 0, len(outcome.Posts))
		for _, p := range outcome.Posts {
			view.Cards = append(view.Cards, b.card(p, now))
		}
	}

	b.mu.Lock()
	b.columns[col] = view
	b.mu.Unlock()

	b.ApplyTheme()
}

// Loading puts col back to the loading state
func (b *Board) Loading(col domain.Column) {
	if !col.Valid() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.columns[col] = ColumnView{Column: col, State: StateLoading}
}

// ApplyTheme reads the theme from the source and makes it current
func (b *Board) ApplyTheme() {
	theme := domain.DefaultTheme()
	if b.themes != nil {
		theme = b.themes.Theme(context.Background())
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.theme = theme
}

// OpenSettings shows the settings form
func (b *Board) OpenSettings() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settingsOpen = true
}

// CloseSettings hides the settings form
func (b *Board) CloseSettings() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settingsOpen = false
}

// SettingsOpen reports whether the settings form is shown
func (b *Board) SettingsOpen() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.settingsOpen
}

// Column returns the current view of col
func (b *Board) Column(col domain.Column) ColumnView {
	if !col.Valid() {
		return ColumnView{Column: col, State: StateError, Message: domain.MessageNetworkError}
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.columns[col]
}

// Theme returns the current theme
func (b *Board) Theme() domain.Theme {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.theme
}

// Snapshot returns a copy of the board
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{Columns: b.columns, Theme: b.theme, SettingsOpen: b.settingsOpen}
}

// card makes a card for p, an unparseable timestamp leaves the time fields empty
func (b *Board) card(p domain.Post, now time.Time) Card {
	res := Card{
		ID:        p.ID,
		Author:    "@" + p.User.Name,
		AuthorURL: p.AuthorURL(),
		URL:       p.URL(),
		Text:      template.HTML(b.sanitizer.Sanitize(p.Text)), //nolint:gosec // sanitized by bluemonday
	}
	if created, err := p.Created(); err == nil {
		res.PostedAt = created
		res.Ago = humanize.RelTime(created, now, "ago", "from now")
	}
	return res
}

// Package controller applies, resets and loads user settings and refreshes the board after changes.
package controller

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tweetboard/pkg/domain"
)

// Settings is the persisted settings accessor
type Settings interface {
	Get(ctx context.Context, key domain.SettingKey) string
	Raw(ctx context.Context, key domain.SettingKey) (string, bool)
	Set(ctx context.Context, key domain.SettingKey, value string) error
	ResetAll(ctx context.Context) error
	Handles(ctx context.Context) [domain.NumColumns]string
}

// Fetcher fetches all columns and waits for the results
type Fetcher interface {
	FetchAll(ctx context.Context, handles [domain.NumColumns]string) ([domain.NumColumns]domain.Outcome, error)
}

// Surface is the part of the board the controller drives
type Surface interface {
	Loading(col domain.Column)
	ApplyTheme()
	CloseSettings()
}

// FormValues are the values of the settings form. Volume is kept as typed.
type FormValues struct {
	Handles    [domain.NumColumns]string `json:"handles"`
	Volume     string                    `json:"tweets_volume"`
	StartDate  string                    `json:"start_date"`
	EndDate    string                    `json:"end_date"`
	BgColor    string                    `json:"bg_color"`
	TitleColor string                    `json:"title_color"`
	FontColor  string                    `json:"font_color"`
	LinkColor  string                    `json:"link_color"`
}

// Controller handles settings form actions
type Controller struct {
	settings Settings
	fetcher  Fetcher
	surface  Surface
}

// New makes a Controller
func New(settings Settings, fetcher Fetcher, surface Surface) *Controller {
	return &Controller{settings: settings, fetcher: fetcher, surface: surface}
}

// LoadForm returns the form filled with current resolved values
func (c *Controller) LoadForm(ctx context.Context) FormValues {
	res := FormValues{
		Volume:     c.settings.Get(ctx, domain.SettingVolume),
		StartDate:  c.settings.Get(ctx, domain.SettingStartDate),
		EndDate:    c.settings.Get(ctx, domain.SettingEndDate),
		BgColor:    c.settings.Get(ctx, domain.SettingBgColor),
		TitleColor: c.settings.Get(ctx, domain.SettingTitleColor),
		FontColor:  c.settings.Get(ctx, domain.SettingFontColor),
		LinkColor:  c.settings.Get(ctx, domain.SettingLinkColor),
	}
	for _, col := range domain.Columns {
		res.Handles[col] = c.settings.Get(ctx, col.HandleKey())
	}
	return res
}

// ClearDates returns form with both dates blank, nothing is persisted
func ClearDates(form FormValues) FormValues {
	form.StartDate, form.EndDate = "", ""
	return form
}

// ApplySettings persists form and refetches every column. Volume, dates and colors are
// always written, a handle only if it differs from the stored one. All columns are
// refetched with the form's handles, then the theme is applied and the form closed.
func (c *Controller) ApplySettings(ctx context.Context, form FormValues) ([domain.NumColumns]domain.Outcome, error) {
	values := []struct {
		key   domain.SettingKey
		value string
	}{
		{domain.SettingVolume, form.Volume},
		{domain.SettingStartDate, form.StartDate},
		{domain.SettingEndDate, form.EndDate},
		{domain.SettingBgColor, form.BgColor},
		{domain.SettingTitleColor, form.TitleColor},
		{domain.SettingFontColor, form.FontColor},
		{domain.SettingLinkColor, form.LinkColor},
	}
	for _, v := range values {
		c.set(ctx, v.key, v.value)
	}

	for _, col := range domain.Columns {
		key := col.HandleKey()
		if stored, _ := c.settings.Raw(ctx, key); stored != form.Handles[col] {
			c.set(ctx, key, form.Handles[col])
		}
	}

	c.loading()
	outcomes, err := c.fetcher.FetchAll(ctx, form.Handles)
	if err != nil {
		return outcomes, fmt.Errorf("refetch columns: %w", err)
	}
	c.surface.ApplyTheme()
	c.surface.CloseSettings()
	lgr.Printf("[INFO] settings applied, columns %v", form.Handles)
	return outcomes, nil
}

// ResetToDefaults clears all settings and applies the defaults as if submitted from the form
func (c *Controller) ResetToDefaults(ctx context.Context) ([domain.NumColumns]domain.Outcome, error) {
	if err := c.settings.ResetAll(ctx); err != nil {
		lgr.Printf("[WARN] %v", err)
	}
	return c.ApplySettings(ctx, c.LoadForm(ctx))
}

// Refresh fetches all columns with stored handles
func (c *Controller) Refresh(ctx context.Context) ([domain.NumColumns]domain.Outcome, error) {
	c.loading()
	outcomes, err := c.fetcher.FetchAll(ctx, c.settings.Handles(ctx))
	if err != nil {
		return outcomes, fmt.Errorf("refresh columns: %w", err)
	}
	return outcomes, nil
}

// loading marks every column as waiting for its fetch
func (c *Controller) loading() {
	for _, col := range domain.Columns {
		c.surface.Loading(col)
	}
}

// set persists a single value, failures are logged and don't stop the apply
func (c *Controller) set(ctx context.Context, key domain.SettingKey, value string) {
	if err := c.settings.Set(ctx, key, value); err != nil {
		lgr.Printf("[WARN] can't save setting: %v", err)
	}
}

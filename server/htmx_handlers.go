package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tweetboard/pkg/board"
	"github.com/umputun/tweetboard/pkg/controller"
	"github.com/umputun/tweetboard/pkg/domain"
	"github.com/umputun/tweetboard/pkg/fetcher"
)

// template data
type (
	pageData struct {
		Theme    themeData
		Columns  []columnData
		Settings settingsData
	}

	columnData struct {
		Index  int
		Handle string
		View   board.ColumnView
		OOB    bool
	}

	themeData struct {
		Theme domain.Theme
		OOB   bool
	}

	settingsData struct {
		Open bool
		Form controller.FormValues
		OOB  bool
	}
)

// indexHandler renders the full page, columns start loading and fetch themselves
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.board.ApplyTheme()

	data := pageData{
		Theme:    themeData{Theme: s.board.Theme()},
		Settings: settingsData{Open: s.board.SettingsOpen(), Form: s.controller.LoadForm(ctx)},
	}
	for _, col := range domain.Columns {
		data.Columns = append(data.Columns, columnData{
			Index:  int(col),
			Handle: s.settings.Handle(ctx, col),
			View:   board.ColumnView{Column: col, State: board.StateLoading},
		})
	}
	s.renderHTML(w, "index.html", data)
}

// columnHandler fetches the column and renders it with the current theme
func (s *Server) columnHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	col, err := domain.ParseColumn(r.PathValue("idx"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	handle := s.settings.Handle(ctx, col)
	if _, err := fetcher.Await(ctx, s.fetcher.FetchColumn(ctx, col, handle)); err != nil {
		lgr.Printf("[WARN] column %s request canceled: %v", col, err)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "column", s.columnData(ctx, col, false)); err != nil {
		s.templateError(w, "column", err)
		return
	}
	if err := s.templates.ExecuteTemplate(&buf, "theme", themeData{Theme: s.board.Theme(), OOB: true}); err != nil {
		s.templateError(w, "theme", err)
		return
	}
	s.writeHTML(w, buf.Bytes())
}

// settingsHandler opens the settings form filled with current values
func (s *Server) settingsHandler(w http.ResponseWriter, r *http.Request) {
	s.board.OpenSettings()
	s.renderHTML(w, "settings", settingsData{Open: true, Form: s.controller.LoadForm(r.Context())})
}

// applySettingsHandler saves the form, refetches all columns and closes the form
func (s *Server) applySettingsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, fmt.Errorf("invalid form data: %w", err), http.StatusBadRequest)
		return
	}
	form := formValues(r, s.controller.LoadForm(r.Context()))
	if _, err := s.controller.ApplySettings(r.Context(), form); err != nil {
		lgr.Printf("[WARN] can't apply settings: %v", err)
		renderError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	s.renderRefreshed(w, r)
}

// resetSettingsHandler restores defaults, refetches all columns and closes the form
func (s *Server) resetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.controller.ResetToDefaults(r.Context()); err != nil {
		lgr.Printf("[WARN] can't reset settings: %v", err)
		renderError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	s.renderRefreshed(w, r)
}

// closeSettingsHandler hides the settings form without saving
func (s *Server) closeSettingsHandler(w http.ResponseWriter, _ *http.Request) {
	s.board.CloseSettings()
	s.renderHTML(w, "settings", settingsData{})
}

// clearDatesHandler returns the form as submitted with both dates blank, nothing is saved
func (s *Server) clearDatesHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, fmt.Errorf("invalid form data: %w", err), http.StatusBadRequest)
		return
	}
	form := controller.ClearDates(formValues(r, s.controller.LoadForm(r.Context())))
	s.renderHTML(w, "settings", settingsData{Open: true, Form: form})
}

// renderRefreshed writes the closed form with all columns and the theme swapped out-of-band
func (s *Server) renderRefreshed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "settings", settingsData{Open: s.board.SettingsOpen()}); err != nil {
		s.templateError(w, "settings", err)
		return
	}
	for _, col := range domain.Columns {
		if err := s.templates.ExecuteTemplate(&buf, "column", s.columnData(ctx, col, true)); err != nil {
			s.templateError(w, "column", err)
			return
		}
	}
	if err := s.templates.ExecuteTemplate(&buf, "theme", themeData{Theme: s.board.Theme(), OOB: true}); err != nil {
		s.templateError(w, "theme", err)
		return
	}
	s.writeHTML(w, buf.Bytes())
}

func (s *Server) columnData(ctx context.Context, col domain.Column, oob bool) columnData {
	return columnData{Index: int(col), Handle: s.settings.Handle(ctx, col), View: s.board.Column(col), OOB: oob}
}

// formValues reads the settings form, fields missing from the request keep values of defaults
func formValues(r *http.Request, defaults controller.FormValues) controller.FormValues {
	res := defaults
	str := func(key domain.SettingKey, dst *string) {
		if _, ok := r.Form[string(key)]; ok {
			*dst = r.Form.Get(string(key))
		}
	}
	for _, col := range domain.Columns {
		str(col.HandleKey(), &res.Handles[col])
	}
	str(domain.SettingVolume, &res.Volume)
	str(domain.SettingStartDate, &res.StartDate)
	str(domain.SettingEndDate, &res.EndDate)
	str(domain.SettingBgColor, &res.BgColor)
	str(domain.SettingTitleColor, &res.TitleColor)
	str(domain.SettingFontColor, &res.FontColor)
	str(domain.SettingLinkColor, &res.LinkColor)
	return res
}

// renderHTML executes a template into a buffer and writes it, template errors give 500
func (s *Server) renderHTML(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.templateError(w, name, err)
		return
	}
	s.writeHTML(w, buf.Bytes())
}

func (s *Server) writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(body); err != nil {
		lgr.Printf("[WARN] failed to write response: %v", err)
	}
}

func (s *Server) templateError(w http.ResponseWriter, name string, err error) {
	lgr.Printf("[ERROR] failed to render %s: %v", name, err)
	http.Error(w, "Failed to render page", http.StatusInternalServerError)
}

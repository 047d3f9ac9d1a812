// Package server serves the dashboard page, its htmx partials, RSS feeds of columns and the JSON API.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umputun/tweetboard/pkg/board"
	"github.com/umputun/tweetboard/pkg/controller"
	"github.com/umputun/tweetboard/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/pinger.go -pkg mocks -skip-ensure -fmt goimports . Pinger

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	config     ConfigProvider
	settings   Settings
	board      Board
	fetcher    Fetcher
	controller Controller
	db         Pinger
	version    string
	debug      bool

	templates  *template.Template
	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
}

// Settings resolves persisted settings
type Settings interface {
	Handle(ctx context.Context, col domain.Column) string
	Snapshot(ctx context.Context) map[domain.SettingKey]string
}

// Board is the rendered state of the dashboard
type Board interface {
	Column(col domain.Column) board.ColumnView
	Theme() domain.Theme
	Snapshot() board.Snapshot
	ApplyTheme()
	OpenSettings()
	CloseSettings()
	SettingsOpen() bool
}

// Fetcher issues column fetches
type Fetcher interface {
	FetchColumn(ctx context.Context, col domain.Column, handle string) <-chan domain.Outcome
}

// Controller handles settings form actions
type Controller interface {
	LoadForm(ctx context.Context) controller.FormValues
	ApplySettings(ctx context.Context, form controller.FormValues) ([domain.NumColumns]domain.Outcome, error)
	ResetToDefaults(ctx context.Context) ([domain.NumColumns]domain.Outcome, error)
}

// Pinger checks the settings database
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services used by handlers, DB is optional
type Deps struct {
	Settings   Settings
	Board      Board
	Fetcher    Fetcher
	Controller Controller
	DB         Pinger
}

// New initializes a new server instance
func New(cfg ConfigProvider, deps Deps, version string, debug bool) *Server {
	s := &Server{
		config:     cfg,
		settings:   deps.Settings,
		board:      deps.Board,
		fetcher:    deps.Fetcher,
		controller: deps.Controller,
		db:         deps.DB,
		version:    version,
		debug:      debug,
		templates:  template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")),
		router:     routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("tweetboard", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// web UI and htmx partials
	s.router.HandleFunc("GET /{$}", s.indexHandler)
	s.router.HandleFunc("GET /columns/{idx}", s.columnHandler)
	s.router.HandleFunc("GET /settings", s.settingsHandler)
	s.router.HandleFunc("POST /settings", s.applySettingsHandler)
	s.router.HandleFunc("POST /settings/reset", s.resetSettingsHandler)
	s.router.HandleFunc("POST /settings/close", s.closeSettingsHandler)
	s.router.HandleFunc("GET /settings/clear-dates", s.clearDatesHandler)

	// RSS of a column
	s.router.HandleFunc("GET /rss/{idx}", s.rssHandler)

	// API routes
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /settings", s.settingsAPIHandler)
		r.HandleFunc("GET /columns", s.columnsAPIHandler)
	})

	s.router.Handle("GET /metrics", promhttp.Handler())
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

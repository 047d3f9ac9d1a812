package server

import (
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
)

// statusHandler returns server status, 503 if the database doesn't respond
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	if s.db == nil {
		renderJSON(w, r, http.StatusOK, status)
		return
	}
	if err := s.db.Ping(r.Context()); err != nil {
		lgr.Printf("[WARN] database ping failed: %v", err)
		status["status"] = "error"
		status["database"] = err.Error()
		renderJSON(w, r, http.StatusServiceUnavailable, status)
		return
	}
	status["database"] = "ok"
	renderJSON(w, r, http.StatusOK, status)
}

// settingsAPIHandler returns resolved values of all settings
func (s *Server) settingsAPIHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.settings.Snapshot(r.Context()))
}

// columnsAPIHandler returns the rendered state of the board
func (s *Server) columnsAPIHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.board.Snapshot())
}

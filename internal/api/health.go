package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string         `json:"status"`
	App       string         `json:"app,omitempty"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Watchlist string `json:"watchlist"`
}

// handleHealth never calls FMP.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	watch := "disabled"
	if s.watcher != nil {
		watch = "stopped"
		if s.watcher.Running() {
			watch = "running"
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		App:       s.opts.AppName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  healthServices{Watchlist: watch},
	})
}

// Package httpserver serves the optional observability endpoints of a
// batch run: liveness, extraction progress, and Prometheus metrics. The
// server lives only as long as the run that started it.
package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProgressReporter reports how far the run in flight has come.
type ProgressReporter interface {
	// Progress returns records extracted so far and sources finished
	// out of the total configured.
	Progress() (records, sourcesDone, sourcesTotal int)
}

// Server exposes health, progress, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	progress   ProgressReporter
}

// NewServer creates an HTTP server with /healthz, /readyz, /progressz,
// and /metrics routes.
func NewServer(addr string, progress ProgressReporter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:   logger,
		progress: progress,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /progressz", s.handleProgress)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type progressBody struct {
	Status       string `json:"status"`
	Records      int    `json:"records"`
	SourcesDone  int    `json:"sources_done"`
	SourcesTotal int    `json:"sources_total"`
}

func (s *Server) snapshot() progressBody {
	records, done, total := s.progress.Progress()
	status := "extracting"
	if records > 0 {
		status = "producing"
	}
	return progressBody{Status: status, Records: records, SourcesDone: done, SourcesTotal: total}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports 503 until the run has extracted its first records,
// so a scrape target stays out of rotation while there is nothing to show.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	body := s.snapshot()
	if body.Records == 0 {
		body.Status = "not ready"
		writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	body.Status = "ready"
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleProgress(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}

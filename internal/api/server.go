// Package api exposes a finished dataset run over HTTP: a JSON surface
// for summaries and profiles, plus the rendered report. The dataset is
// loaded in the background at startup, so every data endpoint answers
// 503 until the load lands.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"propscope/domain/table"
	"propscope/internal/report"
)

// Server serves the results of a dataset run.
type Server struct {
	router *chi.Mux

	mu      sync.RWMutex
	ready   bool
	loadErr error
	frame   table.Frame
	mapping table.Mapping
	rpt     *report.Report
}

// NewServer creates a server in the loading state.
func NewServer() *Server {
	s := &Server{router: chi.NewRouter()}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/summary", s.handleSummary)
	s.router.Get("/api/columns", s.handleColumns)
	s.router.Get("/api/group/city", s.handleGroupCity)
	s.router.Get("/report", s.handleReport)
}

// Router returns the HTTP handler for mounting or testing.
func (s *Server) Router() http.Handler { return s.router }

// SetResult publishes a finished run. Data endpoints serve it from the
// next request on.
func (s *Server) SetResult(f table.Frame, m table.Mapping, rpt *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
	s.mapping = m
	s.rpt = rpt
	s.ready = true
	s.loadErr = nil
}

// SetError records a failed background load. The server stays up so
// /healthz can report the failure.
func (s *Server) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = false
	s.loadErr = err
}

// Start listens on addr and blocks until the listener fails or ctx is
// cancelled, draining in-flight requests on shutdown.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("[API] Listening on %s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Printf("[API] Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ready, loadErr := s.ready, s.loadErr
	s.mu.RUnlock()

	body := map[string]string{"status": "loading"}
	switch {
	case ready:
		body["status"] = "ready"
	case loadErr != nil:
		body["status"] = "failed"
		body["error"] = loadErr.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	rpt, ok := s.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":           rpt.ID,
		"source":       rpt.Source,
		"generated_at": rpt.GeneratedAt,
		"rows":         rpt.Rows,
		"cols":         rpt.Cols,
		"mapping":      rpt.Mapping,
		"run":          rpt.Run,
	})
}

func (s *Server) handleColumns(w http.ResponseWriter, _ *http.Request) {
	rpt, ok := s.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"columns": rpt.Profiles})
}

// handleGroupCity aggregates total price per city over the loaded frame.
func (s *Server) handleGroupCity(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ready := s.ready
	frame := s.frame
	mapping := s.mapping
	s.mu.RUnlock()
	if !ready {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
		return
	}

	cityCol, err := mapping.Require(table.ColCity)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	priceCol, err := mapping.Require(table.ColPrice)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	grouped, err := frame.GroupSum(cityCol, priceCol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type groupRow struct {
		City       string  `json:"city"`
		TotalPrice float64 `json:"total_price"`
	}
	cities := grouped.Col(cityCol).Records()
	totals := grouped.Col(priceCol + "_SUM").Float()
	rows := make([]groupRow, 0, len(cities))
	for i := range cities {
		rows = append(rows, groupRow{City: cities[i], TotalPrice: totals[i]})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": rows})
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	rpt, ok := s.snapshot(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.RenderHTML(rpt.Markdown()))
}

// snapshot returns the published report, or answers 503 and reports
// false while the background load is still in flight.
func (s *Server) snapshot(w http.ResponseWriter) (*report.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
		return nil, false
	}
	return s.rpt, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

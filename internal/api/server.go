// Package api serves report generation over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/a3tai/mcp-intake-report/internal/pdf"
)

// DefaultMaxBodyBytes caps a submitted answer record
const DefaultMaxBodyBytes = 2 * 1024 * 1024

// Server is the HTTP API server for report generation.
type Server struct {
	router       chi.Router
	reports      *pdf.Service
	log          *slog.Logger
	maxBodyBytes int64
}

// NewServer creates and configures the HTTP server.
func NewServer(reports *pdf.Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		reports:      reports,
		log:          log,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sections", s.handleSections)
		r.Post("/sections", s.handleSections)

		r.Post("/reports", s.handleGenerate)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{name}", s.handleInspectReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

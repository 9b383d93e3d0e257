// Package server provides the HTTP API for docqa.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/docqa/internal/config"
	"github.com/hyperjump/docqa/internal/session"
	"go.uber.org/zap"
)

// requestTimeout bounds one request. Scanned PDFs go through OCR page by page.
const requestTimeout = 10 * time.Minute

// WatchService reports the inbox directories being watched.
type WatchService interface {
	Directories() []string
}

// Server is the HTTP server for the docqa API.
type Server struct {
	session *session.Session
	config  *config.Config
	logger  *zap.Logger
	watch   WatchService // optional; nil when no inbox is configured
	server  *http.Server
}

// NewServer creates a server with the given dependencies. watch may be nil.
func NewServer(sess *session.Session, cfg *config.Config, logger *zap.Logger, watch WatchService) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		session: sess,
		config:  cfg,
		logger:  logger,
		watch:   watch,
	}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", s.handleUploadDocuments)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{name}", s.handleGetDocument)
		r.Post("/documents/{name}/reprocess", s.handleReprocessDocument)
		r.Post("/ask", s.handleAsk)
		r.Get("/history", s.handleHistory)
		r.Get("/status", s.handleStatus)
		r.Get("/watch/directories", s.handleWatchDirectoriesList)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

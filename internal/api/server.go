// Package api exposes the evaluation facade over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/evaluation"
)

// Server serves the evaluation endpoints
type Server struct {
	service      *evaluation.Service
	port         int
	corsAllowAll bool
	server       *http.Server
	logger       *logrus.Logger
}

// NewServer creates the API server
func NewServer(service *evaluation.Service, port int, corsAllowAll bool, logger *logrus.Logger) *Server {
	return &Server{
		service:      service,
		port:         port,
		corsAllowAll: corsAllowAll,
		logger:       logger,
	}
}

// Handler builds the full route tree with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/evaluate/single", s.requirePost(s.handleEvaluateSingle))
	mux.HandleFunc("/evaluate/parlay", s.requirePost(s.handleEvaluateParlay))
	mux.HandleFunc("/evaluate/batch", s.requirePost(s.handleEvaluateBatch))
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/refresh-data", s.requirePost(s.handleRefresh))
	mux.HandleFunc("/health", s.handleHealth)
	return s.withCORS(s.withLogging(mux))
}

// Start starts the API server in the background
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.port).Info("Evaluation API server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Evaluation API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Evaluation API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// withCORS applies the permissive CORS policy when enabled
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsAllowAll {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its duration
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Request handled")
	})
}

// requirePost rejects non-POST requests for mutating endpoints
func (s *Server) requirePost(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		next(w, r)
	}
}

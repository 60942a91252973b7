// Package server is the thin HTTP boundary around the stencil core: it
// decodes uploads, reads the two controls from query parameters, invokes the
// pipeline, and streams the PNG back.
package server

import (
	"context"
	"net/http"
	"time"

	"stencil-snap/internal/logger"
	"stencil-snap/internal/pipeline"
)

// Config carries the service settings read from the environment at startup.
type Config struct {
	Addr           string
	MaxUploadBytes int64
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		MaxUploadBytes: 20 << 20,
	}
}

type Server struct {
	config Config
	logger logger.Logger
	loader *pipeline.Loader
	saver  *pipeline.Saver
	http   *http.Server
}

func New(config Config, log logger.Logger) *Server {
	s := &Server{
		config: config,
		logger: log,
		loader: pipeline.NewLoader(log),
		saver:  pipeline.NewSaver(log),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /stencil", s.handleStencil)
	mux.HandleFunc("POST /stencil/legacy", s.handleStencilLegacy)

	s.http = &http.Server{
		Addr:              config.Addr,
		Handler:           corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("Server", "listening", map[string]interface{}{
		"addr":       s.config.Addr,
		"max_upload": s.config.MaxUploadBytes,
	})

	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Server", "shutting down", nil)
	return s.http.Shutdown(ctx)
}

// Handler exposes the routing stack, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// corsMiddleware mirrors the upstream service's permissive cross-origin
// policy: any origin, method, and header.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

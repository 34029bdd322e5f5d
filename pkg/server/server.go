package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"halo-hq/titan/pkg/config"
	"halo-hq/titan/pkg/server/handlers"
	"halo-hq/titan/pkg/server/middleware"
	"halo-hq/titan/pkg/telemetry/metrics"
)

// Server is the gateway's HTTP server.
type Server struct {
	cfg        config.ServerConfig
	httpServer *http.Server

	mu      sync.Mutex
	running bool
}

// Config assembles a Server.
type Config struct {
	Server config.ServerConfig

	// Handlers is the endpoint set.
	Handlers *handlers.Handlers

	// Verifier validates caller identity. Defaults to middleware.AcceptAll.
	Verifier middleware.TokenVerifier

	// Metrics is optional; when set, /metrics is exposed and requests are
	// counted.
	Metrics *metrics.Metrics
}

// New builds the server with its full route table and middleware chain.
func New(cfg Config) *Server {
	verifier := cfg.Verifier
	if verifier == nil {
		verifier = middleware.AcceptAll{}
	}

	mux := http.NewServeMux()
	h := cfg.Handlers
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("POST /api/chat", h.Chat)
	mux.HandleFunc("POST /api/document/analyze", h.AnalyzeDocument)
	mux.HandleFunc("POST /api/voice/transcribe", h.Transcribe)
	mux.HandleFunc("POST /api/voice/speak", h.Speak)
	mux.HandleFunc("POST /api/research", h.Research)
	mux.HandleFunc("POST /api/image/generate", h.GenerateImage)
	for _, sp := range handlers.Specialists {
		mux.HandleFunc("POST "+sp.Route, h.SpecialistHandler(sp))
	}
	mux.HandleFunc("GET /api/name", h.GetName)
	mux.HandleFunc("POST /api/name/set", h.SetName)
	mux.HandleFunc("POST /api/name/initial", h.InitialName)
	mux.HandleFunc("GET /api/conversations", h.ListConversations)
	mux.HandleFunc("GET /api/conversations/{id}", h.GetConversation)
	mux.HandleFunc("POST /api/settings/keys", h.UpdateKey)
	mux.HandleFunc("GET /api/settings/keys", h.ListKeys)
	mux.HandleFunc("POST /api/settings/user-keys", h.UpdateUserKey)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.Identity(verifier)(handler)
	handler = middleware.Logging(cfg.Metrics)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return &Server{
		cfg: cfg.Server,
		httpServer: &http.Server{
			Addr:         cfg.Server.ListenAddress,
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// Handler exposes the composed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving and blocks until the listener closes. A closed
// listener after Shutdown is not an error.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.mu.Unlock()

	slog.Info("server listening", "address", s.cfg.ListenAddress)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

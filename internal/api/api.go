package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/consultflow/consultflow/internal/flow"
	"github.com/consultflow/consultflow/internal/models"
	"github.com/consultflow/consultflow/internal/store"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// Completer runs consultation turns. Satisfied by *flow.Orchestrator.
type Completer interface {
	Complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
	CompleteStream(ctx context.Context, req *models.ChatRequest, emit flow.StreamEmitter) error
}

// Opts holds configuration options for the server.
type Opts struct {
	Addr    string
	Archive store.Store
}

// Option defines a configuration option for the server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithArchive enables the consultation listing endpoint over a store.
func WithArchive(s store.Store) Option {
	return func(o *Opts) { o.Archive = s }
}

// Server is the ConsultFlow HTTP server. A nil orchestrator puts the server
// in configuration-error mode: chat requests get the fixed localized config
// error without any model call.
type Server struct {
	orchestrator Completer
	archive      store.Store
	addr         string
	mux          *http.ServeMux
}

// NewServer creates a Server around an orchestrator and registers routes.
func NewServer(orchestrator Completer, opts ...Option) *Server {
	o := Opts{Addr: DefaultAddr}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Server{
		orchestrator: orchestrator,
		archive:      o.Archive,
		addr:         o.Addr,
		mux:          http.NewServeMux(),
	}
	s.mux.HandleFunc("/health", s.healthHandler)
	s.mux.HandleFunc("/api/chat", s.chatHandler)
	s.mux.HandleFunc("/api/consultations", s.consultationsHandler)
	return s
}

// Handler returns the route multiplexer, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
// WriteTimeout stays at zero: streamed replies hold the connection for up to
// the completion deadline and are bounded by it, not by the server.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("Server.Run: shut down cleanly")
	return nil
}

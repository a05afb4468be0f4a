// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/routers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shahar-caura/marino/internal/dialogue"
	"github.com/shahar-caura/marino/internal/notifier"
	"github.com/shahar-caura/marino/internal/outbox"
)

// Chatter answers a chat message. *dialogue.Bot implements it.
type Chatter interface {
	HandleMessage(ctx context.Context, text string) dialogue.Reply
}

// Options configures a Server. Store, Notifier and Gatherer are optional.
type Options struct {
	Port     int
	Version  string
	Bot      Chatter
	Store    *outbox.Store
	Notifier notifier.Notifier
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Server is the marino HTTP API server.
type Server struct {
	port      int
	version   string
	startTime time.Time
	bot       Chatter
	store     *outbox.Store
	notifier  notifier.Notifier
	gatherer  prometheus.Gatherer
	router    routers.Router
	sseHub    *SSEHub
	logger    *slog.Logger
}

// New creates a Server. It fails only if the embedded API description is invalid.
func New(ctx context.Context, opts Options) (*Server, error) {
	router, err := loadRouter(ctx)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		port:      opts.Port,
		version:   opts.Version,
		startTime: time.Now(),
		bot:       opts.Bot,
		store:     opts.Store,
		notifier:  opts.Notifier,
		gatherer:  opts.Gatherer,
		router:    router,
		logger:    logger,
	}
	if s.store != nil {
		s.sseHub = NewSSEHub(s.store, logger)
	}
	return s, nil
}

// Handler returns the request-validated API mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/reminders", s.handleListReminders)
	mux.HandleFunc("GET /api/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openapiSpec)
	})

	// SSE endpoint (streaming; not part of the validated API description).
	if s.sseHub != nil {
		mux.Handle("GET /api/events", s.sseHub)
	}
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return validateRequests(s.router, mux)
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start SSE hub watcher.
	if s.sseHub != nil {
		go s.sseHub.Start(ctx)
	}

	// Start listener so we can log the actual port.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.logger.Info("chat server started", "addr", ln.Addr().String())

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

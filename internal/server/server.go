// File: internal/server/server.go

// Package server hosts the HTTP API consumed by the browser extension and
// the web dashboard: health, form parsing, and the streaming fill endpoint.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/internal/config"
	"github.com/xkilldash9x/formfill-cli/internal/generator"
	"github.com/xkilldash9x/formfill-cli/internal/llmclient"
	"github.com/xkilldash9x/formfill-cli/internal/network"
	"github.com/xkilldash9x/formfill-cli/internal/observability"
	"github.com/xkilldash9x/formfill-cli/internal/orchestrator"
	"github.com/xkilldash9x/formfill-cli/internal/submitter"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/formparser"
)

// Server wires the pipeline together and hosts it over HTTP.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpServer *http.Server
	handlers   *Handlers
}

// New initializes the server and the whole pipeline behind it. A missing
// generation credential is not fatal: AI requests then degrade to canned
// answers, which the generator handles.
func New(cfg *config.Config, version string, logger *zap.Logger) (*Server, error) {
	// Fetch client follows redirects (the form page itself may redirect);
	// the submission client must not, so the 302-on-success is observable.
	fetchCfg := network.NewDefaultClientConfig()
	fetchCfg.RequestTimeout = cfg.Network.RequestTimeout
	fetchCfg.UserAgent = cfg.Network.UserAgent
	fetchCfg.Logger = logger

	submitCfg := network.NewDefaultClientConfig()
	submitCfg.RequestTimeout = cfg.Network.RequestTimeout
	submitCfg.UserAgent = cfg.Network.UserAgent
	submitCfg.FollowRedirects = false
	submitCfg.Logger = logger

	parser := formparser.New(network.NewClient(fetchCfg), logger)
	submitClient := submitter.New(network.NewClient(submitCfg), logger)

	var textGen schemas.TextGenerator
	if cfg.Generator.APIKey == "" {
		logger.Warn("no generation API key configured (GEMINI_API_KEY); AI answers will use canned fallbacks")
	} else {
		var err error
		textGen, err = llmclient.New(cfg.Generator, logger)
		if err != nil {
			return nil, err
		}
	}
	gen := generator.New(textGen, logger)

	orch, err := orchestrator.New(parser, gen, submitClient, cfg.Fill.SubmitDelay, logger)
	if err != nil {
		return nil, err
	}

	handlers := NewHandlers(logger, parser, orch, version, cfg.Fill.MaxResponses)

	return &Server{
		cfg:      cfg,
		logger:   logger.Named("server"),
		handlers: handlers,
	}, nil
}

// Router builds the HTTP routing table. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The extension popup and the dashboard dev server run on different
	// origins than the API.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.handlers.RegisterRoutes(r)
	return r
}

// Start runs the HTTP listener with graceful shutdown on SIGINT/SIGTERM.
func (s *Server) Start() error {
	defer observability.Sync()

	s.httpServer = &http.Server{
		Addr:    s.cfg.Server.ListenAddr,
		Handler: s.Router(),
		// No WriteTimeout: the fill stream is long lived by design; its
		// lifetime is bounded by the request context instead.
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("server starting", zap.String("address", s.cfg.Server.ListenAddr))

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		s.logger.Info("received shutdown signal, shutting down gracefully")

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("HTTP server ListenAndServe error", zap.Error(err))
		return err
	}

	<-idleConnsClosed
	s.logger.Info("server stopped")
	return nil
}

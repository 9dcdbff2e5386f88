// Package server exposes the audit and quote flow over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"aeocheck/internal/catalog"
	"aeocheck/internal/metrics"
	aeomiddleware "aeocheck/internal/server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Auditor   Auditor
	Pricer    Pricer
	Catalog   catalog.Catalog
	Recipient string
	Metrics   *metrics.Metrics
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	h := NewHandler(config.Dependencies)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(aeomiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", h.Health)
	if config.Dependencies.Metrics != nil {
		router.Handle("/metrics", config.Dependencies.Metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Post("/audit", h.Audit)
		r.Post("/quote", h.Quote)
		r.Get("/catalog", h.Catalog)
	})

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// Handler returns the routed handler, mainly for tests.
func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", w.server.Addr)
	if err != nil {
		return err
	}
	return w.Serve(ctx, ln)
}

func (w *WebAPI) Serve(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", ln.Addr().String()).Msg("starting server")
		serverErrors <- w.server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

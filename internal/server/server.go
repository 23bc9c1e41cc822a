// Package server exposes generation over HTTP and a preview WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matthewbaird/admingen/internal/generate"
	"github.com/matthewbaird/admingen/internal/history"
	"github.com/matthewbaird/admingen/internal/logger"
	"github.com/matthewbaird/admingen/internal/metrics"
)

// Config holds server configuration.
type Config struct {
	Port           int
	RateLimitRPS   float64
	RateLimitBurst int

	// TrustProxy rewrites RemoteAddr from forwarding headers before the
	// rate limiter sees it.
	TrustProxy bool

	Generator *generate.Service
	History   history.Store
	Metrics   *metrics.Metrics
}

// NewRouter registers every route behind the middleware stack.
func NewRouter(cfg Config) http.Handler {
	h := &handlers{gen: cfg.Generator, history: cfg.History}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(recovery)
	r.Use(logging(cfg.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).middleware)

		r.Get("/kinds", h.listKinds)
		r.Post("/generate", h.generate)
		r.Get("/generations", h.listGenerations)
		r.Get("/generations/{id}", h.getGeneration)
		r.Get("/preview", newPreviewHandler(cfg.Generator).ServeHTTP)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Get().Errorw("server shutdown", "error", err)
		}
	}()

	logger.Get().Infow("starting server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

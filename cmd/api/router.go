package main

import (
	"context"
	"net/http"
	"time"

	"booksbackend/internal/book"
	"booksbackend/internal/category"
	"booksbackend/internal/config"
	"booksbackend/internal/httpx"

	"github.com/sirupsen/logrus"
)

const apiPrefix = "/v1"

// newRouter registers every route and wraps the mux in the middleware chain.
// ctx bounds the rate limiter's background cleanup.
func newRouter(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, st *stores) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := st.ping(pingCtx); err != nil {
			logger.WithError(err).Warn("readiness check failed")
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	category.NewHTTPHandler(category.NewService(st.categories, logger)).RegisterRoutes(mux, apiPrefix)
	book.NewHTTPHandler(book.NewService(st.books, logger)).RegisterRoutes(mux, apiPrefix)

	limiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}

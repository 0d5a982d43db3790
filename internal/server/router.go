package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"restaurant-staffing/internal/httpx"
	"restaurant-staffing/internal/logger"
)

// RouteMounter is implemented by every feature handler
type RouteMounter interface {
	Routes(r chi.Router)
}

// HealthCheck reports whether a backing dependency is usable
type HealthCheck func(ctx context.Context) error

// NewRouter assembles the HTTP surface: /health at the root and every
// handler under /api
func NewRouter(log *logger.Logger, health HealthCheck, handlers ...RouteMounter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpx.WithLogging(log))
	r.Use(httpx.Recover(log))

	r.Get("/health", healthHandler(log, health))

	r.Route("/api", func(r chi.Router) {
		for _, h := range handlers {
			h.Routes(r)
		}
	})

	return r
}

func healthHandler(log *logger.Logger, check HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := httpx.RequestID(r.Context())

		status := http.StatusOK
		body := map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		}

		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			if err := check(ctx); err != nil {
				log.Error("health_check_failed", "Dependency health check failed", requestID, err, nil)
				status = http.StatusServiceUnavailable
				body["status"] = "unavailable"
			}
		}

		httpx.WriteJSON(w, status, body)
	}
}

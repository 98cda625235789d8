package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Worthit/internal/broker"
	"github.com/MikeSquared-Agency/Worthit/internal/store"
)

func NewRouter(s store.Store, b *broker.Broker, adminToken string, requestsPerMinute int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if requestsPerMinute > 0 {
		r.Use(RateLimitMiddleware(requestsPerMinute))
	}

	decisions := NewDecisionsHandler(b)
	history := NewHistoryHandler(s, b)
	presets := NewPresetsHandler(b)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/presets", presets.Presets)
		r.Get("/defaults", presets.Defaults)

		r.Post("/decisions", decisions.Compute)
		r.Post("/decisions/summary", decisions.Summary)

		r.Post("/history", history.Create)
		r.Get("/history", history.List)
		r.Get("/history/export", history.Export)
		r.Get("/history/{id}", history.Get)
		r.Get("/history/{id}/summary", history.Summary)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Post("/history/import", history.Import)
			r.Delete("/history/{id}", history.Delete)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

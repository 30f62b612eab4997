package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zkdrop/internal/platform/metrics"
	"zkdrop/internal/platform/middleware"
)

// NewRouter wires the public claim API, the guarded admin surface, and the
// operational endpoints behind the shared middleware chain.
func NewRouter(h *Handler, validator middleware.JWTValidator, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/claims", h.handleSubmitClaim)
		r.Post("/claims/encode", h.handleEncodeClaim)
		r.Get("/eligibility", h.handleEligibility)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth(validator, logger))
			r.Get("/settlements", h.handleAdminSettlements)
		})
	})

	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

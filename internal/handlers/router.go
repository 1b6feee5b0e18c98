package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ukydev/fleet-lifecycle/internal/auth"
	"github.com/ukydev/fleet-lifecycle/internal/middleware"
	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// RouterConfig wires the HTTP API.
type RouterConfig struct {
	AuthService       *auth.Service
	Auth              *AuthHandler
	Analysis          *AnalysisHandler
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the API routes behind logging, rate limiting and JWT
// authentication.
func NewRouter(cfg RouterConfig) http.Handler {
	authMw := middleware.NewAuthMiddleware(cfg.AuthService)
	rateLimit := middleware.NewRateLimitMiddleware()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	if cfg.RateLimitRequests > 0 {
		r.Use(rateLimit.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}
	r.Use(authMw.Authenticate)

	r.Get("/health", Health)

	view := authMw.RequirePermission(models.ActionViewAnalysis)
	a := cfg.Analysis
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", cfg.Auth.Login)
		r.With(authMw.RequirePermission(models.ActionRunAnalysis)).Post("/analysis", a.Analyze)

		r.Route("/assets/{id}", func(r chi.Router) {
			r.Use(view)
			r.Get("/analysis", a.AssetAnalysis)
			r.Get("/breakeven", a.BreakEven)
			r.Get("/costs", a.Costs)
			r.Get("/projection", a.Projection)
			r.Get("/predictions", a.Predictions)
		})

		r.Route("/fleet", func(r chi.Router) {
			r.With(view).Get("/analysis", a.FleetAnalysis)
			r.With(view).Get("/critical", a.CriticalAssets)
			r.With(authMw.RequirePermission(models.ActionPublishAlerts)).Post("/critical/alerts", a.PublishCriticalAlerts)
		})
	})
	return r
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

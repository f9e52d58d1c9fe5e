package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/wonny/astroquant/internal/api/handlers"
	"github.com/wonny/astroquant/internal/api/middleware"
	"github.com/wonny/astroquant/internal/metrics"
	"github.com/wonny/astroquant/internal/ratelimit"
	"github.com/wonny/astroquant/pkg/logger"
)

// Handlers bundles the endpoint handlers the router mounts
type Handlers struct {
	Health   *handlers.HealthHandler
	Astro    *handlers.AstroHandler
	Scores   *handlers.ScoreHandler
	Prices   *handlers.PriceHandler
	Research *handlers.ResearchHandler
}

// RouterOptions toggles optional router features
type RouterOptions struct {
	MetricsEnabled bool
	Global         *rate.Limiter      // nil disables the global ceiling
	ClientLimiter  *ratelimit.Limiter // nil disables per-client limits
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, opts RouterOptions, log *logger.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	// Health check
	r.HandleFunc("/health", h.Health.Health).Methods("GET")

	if opts.MetricsEnabled {
		metrics.Register()
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// API
	api := r.PathPrefix("/api").Subrouter()

	// Horoscope & feature endpoints
	api.HandleFunc("/horoscopes", h.Astro.Generate).Methods("POST")
	api.HandleFunc("/horoscopes/batch", h.Astro.GenerateBatch).Methods("POST")
	api.HandleFunc("/features", h.Astro.Features).Methods("POST")

	// Scoring endpoints
	api.HandleFunc("/scores", h.Scores.Aggregate).Methods("POST")
	api.HandleFunc("/scores/rank", h.Scores.Rank).Methods("POST")
	api.HandleFunc("/scores/distribution", h.Scores.Distribution).Methods("POST")
	api.HandleFunc("/scoring/config", h.Scores.Config).Methods("GET")

	// Price endpoints
	api.HandleFunc("/prices/series", h.Prices.Series).Methods("POST")
	api.HandleFunc("/prices/stats", h.Prices.Stats).Methods("POST")

	// Research endpoints
	api.HandleFunc("/research", h.Research.Run).Methods("POST")
	api.HandleFunc("/research", h.Research.List).Methods("GET")
	api.HandleFunc("/research/{id}", h.Research.Get).Methods("GET")

	// Apply middleware (outermost first)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log, "/health", "/metrics"))
	if opts.MetricsEnabled {
		r.Use(middleware.Metrics)
	}
	if opts.Global != nil {
		r.Use(middleware.GlobalLimit(opts.Global))
	}
	if opts.ClientLimiter != nil {
		r.Use(middleware.ClientLimit(opts.ClientLimiter, log, "/health", "/metrics"))
	}

	return r
}

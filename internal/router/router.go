package router

import (
	"net/http"

	"github.com/evyataryagoni/geotarget/internal/handler"
	"github.com/evyataryagoni/geotarget/internal/limiter"
	"github.com/evyataryagoni/geotarget/internal/logger"
	"github.com/evyataryagoni/geotarget/internal/metrics"
	custommiddleware "github.com/evyataryagoni/geotarget/internal/middleware"
	v1 "github.com/evyataryagoni/geotarget/internal/router/v1"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates the chi router with all middleware and routes.
// gatherer backs /metrics; pass prometheus.DefaultGatherer in production.
func SetupRouter(storefrontHandler *handler.StorefrontHandler, rateLimiter limiter.Limiter, m *metrics.Metrics, gatherer prometheus.Gatherer, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	// Order matters: RealIP must run before logging and rate limiting see RemoteAddr
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.MetricsMiddleware(m))

	// Only the geolocating API is rate limited; probes and scrapes are not
	r.Group(func(r chi.Router) {
		r.Use(custommiddleware.RateLimitMiddleware(rateLimiter, log))
		r.Mount("/v1", v1.SetupRoutes(storefrontHandler))
	})

	r.Get("/health", healthCheckHandler)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

// healthCheckHandler returns 200 while the process is serving
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/evyataryagoni/geotarget/internal/limiter"
	"github.com/evyataryagoni/geotarget/internal/logger"
)

const rateLimitMessage = "Rate limit exceeded. Please try again later."

// ClientIP returns the host part of r.RemoteAddr.
// Mount chi's RealIP first so proxy headers are already applied.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}

// RateLimitMiddleware enforces the limiter per client IP (429 when exceeded)
func RateLimitMiddleware(lim limiter.Limiter, log *logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("RateLimit")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			if !lim.Allow(ip) {
				log.Warn().Str("client_ip", ip).Str("path", r.URL.Path).Msg("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": rateLimitMessage})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

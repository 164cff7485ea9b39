package web

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"gardencal/internal/config"
	appLog "gardencal/internal/log"
)

// rateLimitMiddleware applies one process-wide token bucket to the API.
// /health is never limited. RPS 0 disables limiting.
func rateLimitMiddleware(cfg config.RateLimitConfig, next http.Handler) http.Handler {
	if cfg.RPS <= 0 {
		return next
	}
	burst := cfg.Burst
	if burst < cfg.RPS {
		burst = cfg.RPS
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RPS), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		appLog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

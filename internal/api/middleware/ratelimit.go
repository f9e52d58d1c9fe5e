package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/astroquant/internal/metrics"
	"github.com/wonny/astroquant/internal/ratelimit"
	"github.com/wonny/astroquant/pkg/logger"
)

// GlobalLimit caps the whole process with a token bucket
func GlobalLimit(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				metrics.RateLimitRejections.WithLabelValues("global").Inc()
				w.Header().Set("Retry-After", "1")
				writeRateLimited(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientLimit applies a per-client sliding window. Store errors let the
// request through and are logged.
func ClientLimit(limiter *ratelimit.Limiter, log *logger.Logger, skipPaths ...string) mux.MiddlewareFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			d, err := limiter.Allow(r.Context(), ClientKey(r))
			if err != nil {
				log.WithError(err).Warn("Rate limit store unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

			if !d.Allowed {
				metrics.RateLimitRejections.WithLabelValues("client").Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.Window()/time.Second)))
				writeRateLimited(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientKey identifies the caller: first X-Forwarded-For hop, else the remote IP
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       "RATE_LIMIT_EXCEEDED",
			"message":    "Rate limit exceeded",
			"request_id": GetRequestID(r),
			"timestamp":  time.Now().UTC(),
		},
	})
}

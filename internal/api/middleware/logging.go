package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/astroquant/internal/metrics"
	"github.com/wonny/astroquant/pkg/logger"
)

// Logging logs each request; 4xx at warn, 5xx at error. skipPaths are not logged.
func Logging(log *logger.Logger, skipPaths ...string) mux.MiddlewareFunc {
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

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			entry := log.WithFields(map[string]interface{}{
				"request_id":  GetRequestID(r),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sw.status,
				"bytes":       sw.written,
				"duration_ms": time.Since(start).Milliseconds(),
			})

			switch {
			case sw.status >= 500:
				entry.Error("HTTP request failed")
			case sw.status >= 400:
				entry.Warn("HTTP request rejected")
			default:
				entry.Debug("HTTP request")
			}
		})
	}
}

// Metrics records request counts and latency by route template
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)
		metrics.ObserveHTTP(routeLabel(r), r.Method, sw.status, time.Since(start))
	})
}

// routeLabel prefers the mux route template to keep label cardinality low
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

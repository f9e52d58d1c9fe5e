package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/astroquant/pkg/logger"
)

// Recovery turns panics into a 500 error envelope
func Recovery(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error":      err,
						"path":       r.URL.Path,
						"request_id": GetRequestID(r),
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"error": map[string]interface{}{
							"code":       "INTERNAL_SERVER_ERROR",
							"message":    "An unexpected error occurred",
							"request_id": GetRequestID(r),
							"timestamp":  time.Now().UTC(),
						},
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"hampuff/hampuff/internal/logging"
)

// APIKeyMiddleware guards admin routes with a static key checked against
// the X-API-Key header. An empty configured key disables the check, which
// is only intended for local development.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				logging.Warn("Rejected request with missing or invalid API key",
					"endpoint", r.URL.Path,
				)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

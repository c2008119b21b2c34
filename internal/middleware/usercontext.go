package middleware

import (
	"net/http"

	"docvault/internal/httputil"
)

// UserContext copies the caller identity from the X-User-ID header into the
// request context. The header is set by the authenticating gateway in front
// of this service; requests arriving without it fail per-handler with 401.
func UserContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID := r.Header.Get("X-User-ID"); userID != "" {
				r = httputil.WithUserID(r, userID)
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	"mdstash/internal/auth"
	"mdstash/internal/httputil"
)

// Session guards every route except the login endpoint and the health check,
// requiring a valid session cookie.
func Session(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/login" || r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if err := authService.Verify(cookie.Value); err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

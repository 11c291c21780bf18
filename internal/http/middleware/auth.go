package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/neoncare/neoncare-platform/internal/api/respond"
	"github.com/neoncare/neoncare-platform/internal/auth"
	"github.com/neoncare/neoncare-platform/internal/session"
)

// RequireUser enforces a bearer session token and attaches the session to
// the request context.
func RequireUser(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				respond.Error(w, http.StatusUnauthorized, "auth disabled")
				return
			}
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respond.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			claims, err := auth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid token subject")
				return
			}
			ctx := session.WithSession(r.Context(), session.Session{UserID: userID, Email: claims.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

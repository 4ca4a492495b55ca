package http

import (
	"context"
	"net/http"
	"strings"

	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/security"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID int64
	Email  string
	Name   string
}

func principalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// AuthMiddleware validates the Bearer token on every request and stashes the
// principal in the request context. Identity is minted externally; a missing
// or invalid token is a 401 here, never a domain error.
func AuthMiddleware(validator security.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody{Kind: "UNAUTHORIZED", Message: "missing bearer token"})
				return
			}

			claims, err := validator.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Kind: "UNAUTHORIZED", Message: err.Error()})
				return
			}

			p := &Principal{UserID: claims.UserID, Email: claims.Email, Name: claims.Name}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
		})
	}
}

// LoggingMiddleware logs each request at debug level.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("http request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

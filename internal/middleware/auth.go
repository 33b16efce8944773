// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenValidator resolves an opaque bearer token to a user id.
type TokenValidator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

// BearerAuth is a middleware that enforces opaque bearer-token
// authentication.
//
// It extracts the token from the Authorization header ("Bearer <token>"),
// validates it against the token store and places the resolved user id
// in the request context. Requests with a missing, malformed, unknown or
// expired token are rejected with 401 before any handler logic runs.
func BearerAuth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "authorization required", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Authenticate(r.Context(), parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user id from the
// request context. Returns 0 if not found.
func GetUserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userKey).(int64); ok {
		return id
	}
	return 0
}

// WithUserID returns a context carrying the given user id. Intended for
// tests that exercise handlers without the full middleware chain.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

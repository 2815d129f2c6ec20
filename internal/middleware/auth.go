// Package middleware provides HTTP middlewares for authentication,
// request logging and login rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenResolver resolves a bearer token to the owning user id.
type TokenResolver interface {
	UserIDForToken(ctx context.Context, token string) (string, error)
}

// TokenAuth is a middleware that enforces bearer-token authentication.
//
// It extracts the token from the Authorization header, resolves it to a
// user id and stores the id in the request context, so it can be used
// downstream as the authenticated user ID. Requests without a valid
// token are rejected with 401.
func TokenAuth(resolver TokenResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" || token == r.Header.Get("Authorization") {
				http.Error(w, "no auth token provided", http.StatusUnauthorized)
				return
			}
			userID, err := resolver.UserIDForToken(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid auth token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user id from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	userID string
	err    error
}

func (s *stubResolver) UserIDForToken(context.Context, string) (string, error) {
	return s.userID, s.err
}

func TestTokenAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		resolver   *stubResolver
		wantStatus int
		wantUser   string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer tok",
			resolver:   &stubResolver{userID: "u1"},
			wantStatus: http.StatusOK,
			wantUser:   "u1",
		},
		{
			name:       "missing header",
			authHeader: "",
			resolver:   &stubResolver{userID: "u1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic YWJjOnh5eg==",
			resolver:   &stubResolver{userID: "u1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "revoked token",
			authHeader: "Bearer stale",
			resolver:   &stubResolver{err: errors.New("invalid credentials")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			TokenAuth(tt.resolver)(next).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	assert.Equal(t, "", GetUserIDFromContext(context.Background()))
}

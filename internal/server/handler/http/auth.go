// Package http provides the HTTP handlers for the Dream Land API:
// identity, profile documents, bookmarks, reviews and the catalog feed.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/binukalewke/dreamland/internal/metrics"
	"github.com/binukalewke/dreamland/internal/middleware"
	"github.com/binukalewke/dreamland/internal/models"
	"github.com/binukalewke/dreamland/internal/service"
)

// AuthService defines the interface for identity operations required by
// the HTTP handlers.
type AuthService interface {
	SignUp(ctx context.Context, email, password, username string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, string, error)
	SignOut(ctx context.Context, token string) error
	Profile(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id, username, email, password string) error
}

// AuthHandler handles HTTP requests for signup, login, logout and profiles.
type AuthHandler struct {
	// AuthService performs the underlying identity operations.
	AuthService AuthService
	// Metrics counts login and signup outcomes; may be nil in tests.
	Metrics *metrics.Collector
}

// SignUpRequest represents the JSON payload for user registration.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /api/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	id, err := h.AuthService.SignUp(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordSignup()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// Login handles POST /api/login. On success it returns the user id and an
// opaque bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	id, token, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.RecordLogin(false)
		}
		writeAuthError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordLogin(true)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id, "token": token})
}

// Logout handles POST /api/logout. It revokes the presented bearer token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" || token == r.Header.Get("Authorization") {
		http.Error(w, "no auth token provided", http.StatusUnauthorized)
		return
	}
	if err := h.AuthService.SignOut(r.Context(), token); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me. It returns the profile of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	h.writeProfile(w, r, userID)
}

// GetProfile handles GET /api/users/{id}.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.writeProfile(w, r, chi.URLParam(r, "id"))
}

func (h *AuthHandler) writeProfile(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.AuthService.Profile(r.Context(), id)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

// UpdateProfileRequest represents the JSON payload for profile edits.
// An empty password leaves the stored one unchanged.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// UpdateProfile handles PATCH /api/users/{id}. Users may only edit their
// own profile document.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != middleware.GetUserIDFromContext(r.Context()) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.UpdateProfile(r.Context(), id, req.Username, req.Email, req.Password); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeAuthError maps service errors onto HTTP status codes.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, service.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/binukalewke/dreamland/internal/middleware"
	"github.com/binukalewke/dreamland/internal/models"
	"github.com/binukalewke/dreamland/internal/service"
)

// BookmarkService defines the interface for bookmark operations required
// by the BookmarkHandler.
type BookmarkService interface {
	List(ctx context.Context, userID string) ([]models.CatalogEntry, error)
	Put(ctx context.Context, userID string, e models.CatalogEntry) error
	Remove(ctx context.Context, userID, title string) error
}

// BookmarkHandler handles HTTP requests for the per-user bookmark set.
// All routes require an authenticated user id in the request context.
type BookmarkHandler struct {
	BookmarkService BookmarkService
}

// List handles GET /api/bookmarks.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	entries, err := h.BookmarkService.List(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.CatalogEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

// Put handles PUT /api/bookmarks/{title}. The URL title wins over any
// title in the body.
func (h *BookmarkHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil || title == "" {
		http.Error(w, "invalid title", http.StatusBadRequest)
		return
	}

	var entry models.CatalogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	entry.Title = title

	if err := h.BookmarkService.Put(r.Context(), userID, entry); err != nil {
		if errors.Is(err, service.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/bookmarks/{title}.
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil || title == "" {
		http.Error(w, "invalid title", http.StatusBadRequest)
		return
	}

	if err := h.BookmarkService.Remove(r.Context(), userID, title); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/binukalewke/dreamland/internal/metrics"
	"github.com/binukalewke/dreamland/internal/models"
	"github.com/binukalewke/dreamland/internal/service"
)

// CatalogService defines the interface for catalog feed operations
// required by the CatalogHandler.
type CatalogService interface {
	List(ctx context.Context) ([]models.CatalogEntry, error)
}

// ReviewService defines the interface for review operations required by
// the CatalogHandler.
type ReviewService interface {
	List(ctx context.Context, title string) ([]models.Review, error)
	Add(ctx context.Context, title string, r models.Review) (models.Review, error)
}

// CatalogHandler serves the hosted catalog feed and per-title reviews.
type CatalogHandler struct {
	CatalogService CatalogService
	ReviewService  ReviewService
	// Metrics counts served feed responses; may be nil in tests.
	Metrics *metrics.Collector
}

// Feed handles GET /api/catalog. The response is a plain JSON array in the
// shape the client's bundled catalog uses.
func (h *CatalogHandler) Feed(w http.ResponseWriter, r *http.Request) {
	entries, err := h.CatalogService.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	if h.Metrics != nil {
		h.Metrics.RecordCatalogServed()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

// ListReviews handles GET /api/movies/{title}/reviews.
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil || title == "" {
		http.Error(w, "invalid title", http.StatusBadRequest)
		return
	}

	reviews, err := h.ReviewService.List(r.Context(), title)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reviews)
}

// AddReview handles POST /api/movies/{title}/reviews.
func (h *CatalogHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil || title == "" {
		http.Error(w, "invalid title", http.StatusBadRequest)
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	stored, err := h.ReviewService.Add(r.Context(), title, review)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(stored)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/binukalewke/dreamland/internal/models"
)

// ReviewRepository defines the persistence operations required by the
// review service.
type ReviewRepository interface {
	ListByTitle(ctx context.Context, title string) ([]models.Review, error)
	Insert(ctx context.Context, title string, r models.Review) error
}

// ReviewService implements per-title review operations by delegating to
// a ReviewRepository.
type ReviewService struct {
	repo ReviewRepository
}

// NewReviewService constructs a new ReviewService using the provided repository.
func NewReviewService(repo ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo}
}

// List returns all reviews for the given title, newest first.
func (s *ReviewService) List(ctx context.Context, title string) ([]models.Review, error) {
	return s.repo.ListByTitle(ctx, title)
}

// Add stores a new review for the title, assigning its id and defaulting
// the date to now when the client left it empty.
func (s *ReviewService) Add(ctx context.Context, title string, r models.Review) (models.Review, error) {
	if title == "" || r.Text == "" || r.Username == "" {
		return models.Review{}, fmt.Errorf("%w: review fields cannot be empty", ErrValidation)
	}
	r.ID = uuid.NewString()
	if r.Date == "" {
		r.Date = time.Now().UTC().Format(time.RFC3339)
	}
	if err := s.repo.Insert(ctx, title, r); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

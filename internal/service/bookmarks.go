package service

import (
	"context"
	"fmt"

	"github.com/binukalewke/dreamland/internal/models"
)

// BookmarkRepository defines the persistence operations required by the
// bookmark service.
type BookmarkRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.CatalogEntry, error)
	Upsert(ctx context.Context, userID string, e models.CatalogEntry) error
	Delete(ctx context.Context, userID, title string) error
}

// BookmarkService implements per-user bookmark operations by delegating
// to a BookmarkRepository.
type BookmarkService struct {
	repo BookmarkRepository
}

// NewBookmarkService constructs a new BookmarkService using the provided repository.
func NewBookmarkService(repo BookmarkRepository) *BookmarkService {
	return &BookmarkService{repo: repo}
}

// List returns all bookmarks for the user.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]models.CatalogEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Put stores a bookmark for the user, keyed by title.
func (s *BookmarkService) Put(ctx context.Context, userID string, e models.CatalogEntry) error {
	if e.Title == "" {
		return fmt.Errorf("%w: bookmark title cannot be empty", ErrValidation)
	}
	return s.repo.Upsert(ctx, userID, e)
}

// Remove deletes the user's bookmark with the given title.
func (s *BookmarkService) Remove(ctx context.Context, userID, title string) error {
	return s.repo.Delete(ctx, userID, title)
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/binukalewke/dreamland/internal/models"
)

// CatalogRepository defines the persistence operations required by the
// catalog service.
type CatalogRepository interface {
	ListAll(ctx context.Context) ([]models.CatalogEntry, error)
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, e models.CatalogEntry) error
}

// CatalogService serves the hosted catalog feed.
type CatalogService struct {
	repo CatalogRepository
}

// NewCatalogService constructs a new CatalogService using the provided repository.
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List returns all catalog entries.
func (s *CatalogService) List(ctx context.Context) ([]models.CatalogEntry, error) {
	return s.repo.ListAll(ctx)
}

// Seed populates an empty catalog table from the given entries. A non-empty
// table is left untouched so manual edits survive restarts.
func (s *CatalogService) Seed(ctx context.Context, entries []models.CatalogEntry, log *zap.Logger) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, e := range entries {
		if err := s.repo.Upsert(ctx, e); err != nil {
			return err
		}
	}
	log.Info("seeded catalog", zap.Int("entries", len(entries)))
	return nil
}

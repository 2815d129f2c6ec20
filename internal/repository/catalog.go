package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/binukalewke/dreamland/internal/models"
)

// PostgresCatalogRepository implements catalog persistence against a
// PostgreSQL database. The catalog is the hosted equivalent of the
// client's bundled JSON; entries are keyed by (title, category) so a
// title may appear in more than one section.
type PostgresCatalogRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository using
// the provided *sql.DB.
func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{DB: db}
}

// ListAll fetches every catalog entry.
func (s *PostgresCatalogRepository) ListAll(ctx context.Context) ([]models.CatalogEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT title, poster_name, rating, description, type, category FROM catalog
	`)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	defer rows.Close()

	var entries []models.CatalogEntry
	for rows.Next() {
		var e models.CatalogEntry
		if err := rows.Scan(&e.Title, &e.PosterName, &e.Rating, &e.Description, &e.Type, &e.Category); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of catalog entries.
func (s *PostgresCatalogRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

// Upsert inserts a catalog entry, replacing an existing one with the same
// title and category.
func (s *PostgresCatalogRepository) Upsert(ctx context.Context, e models.CatalogEntry) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO catalog (title, poster_name, rating, description, type, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (title, category) DO UPDATE SET
			poster_name = EXCLUDED.poster_name,
			rating = EXCLUDED.rating,
			description = EXCLUDED.description,
			type = EXCLUDED.type
	`, e.Title, e.PosterName, e.Rating, e.Description, e.Type, e.Category)
	if err != nil {
		return fmt.Errorf("upsert catalog entry: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/binukalewke/dreamland/internal/models"
)

// PostgresBookmarkRepository implements per-user bookmark persistence against
// a PostgreSQL database. Bookmarks are keyed by (user_id, title); the title
// is the natural key carried over from the catalog.
type PostgresBookmarkRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresBookmarkRepository creates a new PostgresBookmarkRepository using
// the provided *sql.DB.
func NewPostgresBookmarkRepository(db *sql.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{DB: db}
}

// ListByUser fetches all bookmarks for the specified user.
func (s *PostgresBookmarkRepository) ListByUser(ctx context.Context, userID string) ([]models.CatalogEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT title, poster_name, rating, description, type, category FROM bookmarks WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
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

// Upsert inserts a bookmark for the user, replacing any existing document
// with the same title.
func (s *PostgresBookmarkRepository) Upsert(ctx context.Context, userID string, e models.CatalogEntry) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO bookmarks (user_id, title, poster_name, rating, description, type, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, title) DO UPDATE SET
			poster_name = EXCLUDED.poster_name,
			rating = EXCLUDED.rating,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			category = EXCLUDED.category
	`, userID, e.Title, e.PosterName, e.Rating, e.Description, e.Type, e.Category)
	if err != nil {
		return fmt.Errorf("upsert bookmark: %w", err)
	}
	return nil
}

// Delete removes the user's bookmark with the given title. Deleting a
// title that is not bookmarked is not an error.
func (s *PostgresBookmarkRepository) Delete(ctx context.Context, userID, title string) error {
	_, err := s.DB.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE user_id = $1 AND title = $2
	`, userID, title)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/binukalewke/dreamland/internal/models"
)

// PostgresReviewRepository implements review persistence against a
// PostgreSQL database. Reviews are grouped per movie title.
type PostgresReviewRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresReviewRepository creates a new PostgresReviewRepository using
// the provided *sql.DB.
func NewPostgresReviewRepository(db *sql.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{DB: db}
}

// ListByTitle fetches all reviews for the given movie title, newest first.
func (s *PostgresReviewRepository) ListByTitle(ctx context.Context, title string) ([]models.Review, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, username, text, rating, date FROM reviews WHERE movie_title = $1 ORDER BY date DESC
	`, title)
	if err != nil {
		return nil, fmt.Errorf("ListByTitle: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.Username, &r.Text, &r.Rating, &r.Date); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// Insert stores a new review for the given movie title.
func (s *PostgresReviewRepository) Insert(ctx context.Context, title string, r models.Review) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO reviews (id, movie_title, username, text, rating, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.ID, title, r.Username, r.Text, r.Rating, r.Date)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// Package repository provides persistence implementations for the
// identity, bookmark, review and catalog services.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/binukalewke/dreamland/internal/models"
)

// PostgresAuthRepository implements identity persistence using a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// EmailExists checks whether a user with the specified email exists.
func (s *PostgresAuthRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// UsernameExists checks whether a user with the specified username exists.
func (s *PostgresAuthRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user record.
func (s *PostgresAuthRepository) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Username, u.Email, u.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UserByEmail fetches a user record by email.
// Returns sql.ErrNoRows if no such user exists.
func (s *PostgresAuthRepository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByID fetches a user record by id.
// Returns sql.ErrNoRows if no such user exists.
func (s *PostgresAuthRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile updates the mutable profile fields of a user. A nil or
// empty hash keeps the stored password hash unchanged.
func (s *PostgresAuthRepository) UpdateProfile(ctx context.Context, id, username, email string, hash []byte) error {
	var err error
	if len(hash) > 0 {
		_, err = s.DB.ExecContext(ctx, `
			UPDATE users SET username = $2, email = $3, password_hash = $4 WHERE id = $1
		`, id, username, email, hash)
	} else {
		_, err = s.DB.ExecContext(ctx, `
			UPDATE users SET username = $2, email = $3 WHERE id = $1
		`, id, username, email)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// InsertToken stores an issued auth token for the user.
func (s *PostgresAuthRepository) InsertToken(ctx context.Context, token, userID string, issuedAt int64) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO tokens (token, user_id, issued_at) VALUES ($1, $2, $3)`,
		token, userID, issuedAt,
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// UserIDByToken resolves an auth token to the owning user id.
// Returns sql.ErrNoRows for unknown tokens.
func (s *PostgresAuthRepository) UserIDByToken(ctx context.Context, token string) (string, error) {
	var userID string
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT user_id FROM tokens WHERE token = $1`,
		token,
	).Scan(&userID)
	return userID, err
}

// DeleteToken revokes an issued auth token.
func (s *PostgresAuthRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM tokens WHERE token = $1`, token)
	return err
}

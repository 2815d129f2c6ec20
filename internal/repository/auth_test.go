package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/binukalewke/dreamland/internal/models"
)

func setupAuthMock(t *testing.T) (*PostgresAuthRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresAuthRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestEmailExists_True(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	email := "a@b.com"
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Errorf("expected email to exist, got false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUsernameExists_False(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`)).
		WithArgs("ann").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.UsernameExists(context.Background(), "ann")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Errorf("expected username to not exist, got true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	u := models.User{ID: "u1", Username: "ann", Email: "a@b.com", PasswordHash: []byte("hash")}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)`)).
		WithArgs(u.ID, u.Username, u.Email, u.PasswordHash).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password_hash FROM users WHERE email = $1`)).
		WithArgs("missing@b.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UserByEmail(context.Background(), "missing@b.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUserByID_Success(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
		AddRow("u1", "ann", "a@b.com", []byte("hash"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password_hash FROM users WHERE id = $1`)).
		WithArgs("u1").
		WillReturnRows(rows)

	u, err := repo.UserByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "ann" || u.Email != "a@b.com" {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestUpdateProfile_WithoutPassword(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET username = $2, email = $3 WHERE id = $1`)).
		WithArgs("u1", "ann", "a@b.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateProfile(context.Background(), "u1", "ann", "a@b.com", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpdateProfile_WithPassword(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	hash := []byte("newhash")
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET username = $2, email = $3, password_hash = $4 WHERE id = $1`)).
		WithArgs("u1", "ann", "a@b.com", hash).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateProfile(context.Background(), "u1", "ann", "a@b.com", hash); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokens_RoundTrip(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tokens (token, user_id, issued_at) VALUES ($1, $2, $3)`)).
		WithArgs("tok-1", "u1", int64(100)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM tokens WHERE token = $1`)).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tokens WHERE token = $1`)).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	if err := repo.InsertToken(ctx, "tok-1", "u1", 100); err != nil {
		t.Fatalf("InsertToken failed: %v", err)
	}
	userID, err := repo.UserIDByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("UserIDByToken failed: %v", err)
	}
	if userID != "u1" {
		t.Errorf("userID = %q; want u1", userID)
	}
	if err := repo.DeleteToken(ctx, "tok-1"); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

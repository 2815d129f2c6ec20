// Package service provides the business logic for identity, bookmarks,
// reviews and the catalog, delegating persistence to repositories.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/binukalewke/dreamland/internal/models"
)

var (
	// ErrEmailTaken is returned when signing up with an email already in use.
	ErrEmailTaken = errors.New("email already in use")
	// ErrUsernameTaken is returned when signing up with a username already in use.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned when email or password do not match a user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a requested user document does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrValidation is the base error for rejected input; wrapped with a reason.
	ErrValidation = errors.New("validation failed")
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, u models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, username, email string, hash []byte) error
	InsertToken(ctx context.Context, token, userID string, issuedAt int64) error
	UserIDByToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, token string) error
}

// AuthService implements signup, login and profile operations by delegating
// to an AuthRepository.
type AuthService struct {
	repo AuthRepository
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// ValidateSignUp checks signup input before any persistence call.
// Email and username are normalized to lowercase by the caller.
func ValidateSignUp(email, password, username string) error {
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: fields cannot be empty", ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: please enter a valid email address", ErrValidation)
	}
	return nil
}

// SignUp registers a new user and returns the generated user id.
// The password is stored as a bcrypt hash, never in plaintext.
func (s *AuthService) SignUp(ctx context.Context, email, password, username string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.ToLower(strings.TrimSpace(username))

	if err := ValidateSignUp(email, password, username); err != nil {
		return "", err
	}

	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrUsernameTaken
	}

	taken, err = s.repo.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// SignIn verifies the email/password pair and issues an opaque bearer token.
// Returns the user id and the token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", fmt.Errorf("%w: email and password cannot be empty", ErrValidation)
	}

	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.repo.InsertToken(ctx, token, user.ID, time.Now().Unix()); err != nil {
		return "", "", err
	}
	return user.ID, token, nil
}

// SignOut revokes the given token. Revoking an unknown token is not an error.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.repo.DeleteToken(ctx, token)
}

// UserIDForToken resolves a bearer token to its user id.
func (s *AuthService) UserIDForToken(ctx context.Context, token string) (string, error) {
	userID, err := s.repo.UserIDByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return userID, nil
}

// Profile returns the remote profile document for the given user id.
func (s *AuthService) Profile(ctx context.Context, id string) (*models.Profile, error) {
	user, err := s.repo.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &models.Profile{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// UpdateProfile updates the user's profile fields. An empty password keeps
// the stored hash unchanged; a non-empty one is re-hashed.
func (s *AuthService) UpdateProfile(ctx context.Context, id, username, email, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return fmt.Errorf("%w: fields cannot be empty", ErrValidation)
	}
	if password != "" && len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	var hash []byte
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}
	return s.repo.UpdateProfile(ctx, id, username, email, hash)
}

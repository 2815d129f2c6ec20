// Package api implements the HTTP client for the Dream Land backend:
// identity, profile documents, bookmarks, reviews and the catalog feed.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/binukalewke/dreamland/internal/models"
)

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when credentials or the stored token are rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// Client talks to the Dream Land API. It keeps the issued bearer token
// and the resolved user id for the current run.
type Client struct {
	http    *http.Client
	baseURL string

	mu     sync.Mutex
	token  string
	userID string
}

// New creates a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetAuth restores a previously issued token and user id, typically read
// from the local credential record at startup.
func (c *Client) SetAuth(token, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.userID = userID
}

// CurrentUserID reports the user id of the live remote identity, or an
// empty string when no token is held.
func (c *Client) CurrentUserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" {
		return ""
	}
	return c.userID
}

// Token returns the held bearer token, empty when signed out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// SignUp registers a new account and returns the created user id.
func (c *Client) SignUp(ctx context.Context, email, password, username string) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/signup", map[string]string{
		"email":    email,
		"password": password,
		"username": username,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// SignIn authenticates the email/password pair, stores the issued token
// and returns the user id.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.userID = resp.ID
	c.mu.Unlock()
	return resp.ID, nil
}

// SignOut revokes the held token remotely and forgets it locally. The
// local state is cleared even when the remote call fails.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", struct{}{}, nil)

	c.mu.Lock()
	c.token = ""
	c.userID = ""
	c.mu.Unlock()
	return err
}

// Profile fetches the remote profile document for the given user id.
func (c *Client) Profile(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile updates the user's profile fields. An empty password
// leaves the remote one unchanged.
func (c *Client) UpdateProfile(ctx context.Context, id, username, email, password string) error {
	return c.do(ctx, http.MethodPatch, "/api/users/"+url.PathEscape(id), map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
}

// Bookmarks fetches all bookmark documents of the authenticated user.
func (c *Client) Bookmarks(ctx context.Context) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	if err := c.do(ctx, http.MethodGet, "/api/bookmarks", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// PutBookmark stores a bookmark document keyed by its title.
func (c *Client) PutBookmark(ctx context.Context, e models.CatalogEntry) error {
	return c.do(ctx, http.MethodPut, "/api/bookmarks/"+url.PathEscape(e.Title), e, nil)
}

// DeleteBookmark removes the bookmark document with the given title.
func (c *Client) DeleteBookmark(ctx context.Context, title string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookmarks/"+url.PathEscape(title), nil, nil)
}

// FetchCatalog downloads the hosted catalog feed.
func (c *Client) FetchCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	if err := c.do(ctx, http.MethodGet, "/api/catalog", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Reviews fetches all reviews for the given title.
func (c *Client) Reviews(ctx context.Context, title string) ([]models.Review, error) {
	var reviews []models.Review
	err := c.do(ctx, http.MethodGet, "/api/movies/"+url.PathEscape(title)+"/reviews", nil, &reviews)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// AddReview submits a review for the given title and returns the stored
// document.
func (c *Client) AddReview(ctx context.Context, title string, r models.Review) (models.Review, error) {
	var stored models.Review
	err := c.do(ctx, http.MethodPost, "/api/movies/"+url.PathEscape(title)+"/reviews", r, &stored)
	if err != nil {
		return models.Review{}, err
	}
	return stored, nil
}

// do performs one JSON request against the API and decodes the response
// into out when it is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server error: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

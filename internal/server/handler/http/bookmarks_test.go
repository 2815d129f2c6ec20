package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binukalewke/dreamland/internal/middleware"
	"github.com/binukalewke/dreamland/internal/models"
)

type fakeBookmarkService struct {
	ListFunc   func(ctx context.Context, userID string) ([]models.CatalogEntry, error)
	PutFunc    func(ctx context.Context, userID string, e models.CatalogEntry) error
	RemoveFunc func(ctx context.Context, userID, title string) error
}

func (f *fakeBookmarkService) List(ctx context.Context, userID string) ([]models.CatalogEntry, error) {
	return f.ListFunc(ctx, userID)
}
func (f *fakeBookmarkService) Put(ctx context.Context, userID string, e models.CatalogEntry) error {
	return f.PutFunc(ctx, userID, e)
}
func (f *fakeBookmarkService) Remove(ctx context.Context, userID, title string) error {
	return f.RemoveFunc(ctx, userID, title)
}

func bookmarkRouter(h *BookmarkHandler) http.Handler {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenAuth(&fakeResolver{userID: "u1"}))
		r.Get("/api/bookmarks", h.List)
		r.Put("/api/bookmarks/{title}", h.Put)
		r.Delete("/api/bookmarks/{title}", h.Delete)
	})
	return r
}

func authedRequest(t *testing.T, method, url string, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	return req
}

func TestBookmarkHandler_List(t *testing.T) {
	svc := &fakeBookmarkService{
		ListFunc: func(_ context.Context, userID string) ([]models.CatalogEntry, error) {
			require.Equal(t, "u1", userID)
			return []models.CatalogEntry{{Title: "Interstellar", Type: string(models.Movie)}}, nil
		},
	}
	srv := httptest.NewServer(bookmarkRouter(&BookmarkHandler{BookmarkService: svc}))
	defer srv.Close()

	resp, err := http.DefaultClient.Do(authedRequest(t, http.MethodGet, srv.URL+"/api/bookmarks", ""))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.CatalogEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Interstellar", got[0].Title)
}

func TestBookmarkHandler_List_EmptyIsArray(t *testing.T) {
	svc := &fakeBookmarkService{
		ListFunc: func(context.Context, string) ([]models.CatalogEntry, error) { return nil, nil },
	}
	srv := httptest.NewServer(bookmarkRouter(&BookmarkHandler{BookmarkService: svc}))
	defer srv.Close()

	resp, err := http.DefaultClient.Do(authedRequest(t, http.MethodGet, srv.URL+"/api/bookmarks", ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	var got []models.CatalogEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBookmarkHandler_Put_URLTitleWins(t *testing.T) {
	var stored models.CatalogEntry
	svc := &fakeBookmarkService{
		PutFunc: func(_ context.Context, userID string, e models.CatalogEntry) error {
			require.Equal(t, "u1", userID)
			stored = e
			return nil
		},
	}
	srv := httptest.NewServer(bookmarkRouter(&BookmarkHandler{BookmarkService: svc}))
	defer srv.Close()

	title := url.PathEscape("Dune: Part Two")
	body := `{"title":"Something Else","type":"movie","category":"popular"}`
	resp, err := http.DefaultClient.Do(authedRequest(t, http.MethodPut, srv.URL+"/api/bookmarks/"+title, body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "Dune: Part Two", stored.Title)
	assert.Equal(t, string(models.Popular), stored.Category)
}

func TestBookmarkHandler_Delete(t *testing.T) {
	var removed string
	svc := &fakeBookmarkService{
		RemoveFunc: func(_ context.Context, _ string, title string) error {
			removed = title
			return nil
		},
	}
	srv := httptest.NewServer(bookmarkRouter(&BookmarkHandler{BookmarkService: svc}))
	defer srv.Close()

	resp, err := http.DefaultClient.Do(authedRequest(t, http.MethodDelete, srv.URL+"/api/bookmarks/Oppenheimer", ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "Oppenheimer", removed)
}

func TestBookmarkHandler_RequiresToken(t *testing.T) {
	srv := httptest.NewServer(bookmarkRouter(&BookmarkHandler{BookmarkService: &fakeBookmarkService{}}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/bookmarks")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

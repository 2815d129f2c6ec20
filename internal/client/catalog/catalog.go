// Package catalog decides, per browsing section, whether the remote feed
// or the bundled local catalog backs the UI. The bundled catalog is
// compiled into the binary; the remote feed is fetched once per run into
// an in-memory cache.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/binukalewke/dreamland/internal/models"
)

//go:embed movies.json
var bundled []byte

// Section identifies one logical part of the browsing UI. An empty Type
// matches both movies and anime (used by the banner).
type Section struct {
	Type     models.ContentType
	Category models.Category
}

// Predefined browsing sections.
var (
	NewMovies     = Section{Type: models.Movie, Category: models.New}
	PopularMovies = Section{Type: models.Movie, Category: models.Popular}
	NewAnime      = Section{Type: models.Anime, Category: models.New}
	PopularAnime  = Section{Type: models.Anime, Category: models.Popular}
	BannerItems   = Section{Category: models.Banner}
)

// Matches reports whether the entry belongs to the section.
func (s Section) Matches(e models.CatalogEntry) bool {
	if s.Type != "" && e.Type != string(s.Type) {
		return false
	}
	return e.Category == string(s.Category)
}

// Fetcher downloads the hosted catalog feed.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]models.CatalogEntry, error)
}

// Prober reports point-in-time connectivity.
type Prober interface {
	Online() bool
}

// Library selects the data source for each section: the remote feed when
// online and already fetched, the bundled catalog otherwise. Selection is
// re-evaluated on every call, so a feed that finishes loading after the
// first render transparently takes over.
type Library struct {
	local []models.CatalogEntry
	probe Prober
	log   *zap.Logger

	mu   sync.RWMutex
	feed []models.CatalogEntry

	fetchOnce sync.Once
}

// NewLibrary loads the bundled catalog and returns a Library with an
// empty feed cache.
func NewLibrary(probe Prober, log *zap.Logger) (*Library, error) {
	var local []models.CatalogEntry
	if err := json.Unmarshal(bundled, &local); err != nil {
		return nil, err
	}
	return &Library{local: local, probe: probe, log: log}, nil
}

// StartFeedFetch fires the one-per-run feed download in the background.
// A failed fetch leaves the cache empty; there is no retry, the bundled
// catalog simply keeps serving.
func (l *Library) StartFeedFetch(ctx context.Context, fetcher Fetcher) {
	l.fetchOnce.Do(func() {
		go func() {
			entries, err := fetcher.FetchCatalog(ctx)
			if err != nil {
				l.log.Warn("catalog feed fetch failed, using bundled catalog", zap.Error(err))
				return
			}
			l.mu.Lock()
			l.feed = entries
			l.mu.Unlock()
			l.log.Info("catalog feed loaded", zap.Int("entries", len(entries)))
		}()
	})
}

// FeedLoaded reports whether the remote feed cache holds any entries.
func (l *Library) FeedLoaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.feed) > 0
}

// Select returns the entries for a section from the authoritative source:
// the remote feed when connectivity is present and the cache is non-empty,
// the bundled catalog otherwise. A pending or failed fetch is
// indistinguishable from an empty cache and falls back.
func (l *Library) Select(section Section) []models.CatalogEntry {
	l.mu.RLock()
	feed := l.feed
	l.mu.RUnlock()

	source := l.local
	if l.probe.Online() && len(feed) > 0 {
		source = feed
	}

	var out []models.CatalogEntry
	for _, e := range source {
		if section.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// All returns every entry of the currently selected source, unfiltered.
// Used by the search screen.
func (l *Library) All() []models.CatalogEntry {
	l.mu.RLock()
	feed := l.feed
	l.mu.RUnlock()

	if l.probe.Online() && len(feed) > 0 {
		return append([]models.CatalogEntry(nil), feed...)
	}
	return append([]models.CatalogEntry(nil), l.local...)
}

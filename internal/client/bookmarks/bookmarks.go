// Package bookmarks maintains the in-memory bookmark set for the current
// user, mirrored to the remote document store. Mutations are optimistic:
// the set changes immediately and the remote write is fire-and-forget,
// with failures logged and never rolled back.
package bookmarks

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/binukalewke/dreamland/internal/models"
)

// ErrOffline is returned when a bookmark mutation is attempted without
// connectivity. The set is left unchanged.
var ErrOffline = errors.New("cannot add bookmark during offline")

// RemoteStore is the per-user bookmark collection in the remote document
// store.
type RemoteStore interface {
	Bookmarks(ctx context.Context) ([]models.CatalogEntry, error)
	PutBookmark(ctx context.Context, e models.CatalogEntry) error
	DeleteBookmark(ctx context.Context, title string) error
}

// Identity reports the live remote user id, empty when signed out or
// offline-only.
type Identity interface {
	CurrentUserID() string
}

// Prober reports point-in-time connectivity.
type Prober interface {
	Online() bool
}

// Manager holds the in-memory bookmark set. The title is the natural
// key: the set never contains two entries with the same title.
type Manager struct {
	remote   RemoteStore
	identity Identity
	probe    Prober
	log      *zap.Logger

	mu      sync.Mutex
	entries []models.CatalogEntry
}

// NewManager constructs an empty bookmark manager.
func NewManager(remote RemoteStore, identity Identity, probe Prober, log *zap.Logger) *Manager {
	return &Manager{remote: remote, identity: identity, probe: probe, log: log}
}

// All returns a copy of the current bookmark set.
func (m *Manager) All() []models.CatalogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CatalogEntry(nil), m.entries...)
}

// Load replaces the in-memory set with the remote collection. Without a
// live remote identity it is a silent no-op: the set stays whatever it
// was and no network call is made. The set is only cleared once the
// remote fetch succeeds.
func (m *Manager) Load(ctx context.Context) error {
	if m.identity.CurrentUserID() == "" {
		return nil
	}

	entries, err := m.remote.Bookmarks(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
	return nil
}

// Add inserts the entry into the set and mirrors it remotely. Offline
// calls are rejected with ErrOffline before touching the set. Adding a
// title already present is a no-op, so Add is idempotent per title. The
// remote write is fire-and-forget; a failure is logged and the
// optimistic insert stands.
func (m *Manager) Add(entry models.CatalogEntry) error {
	if !m.probe.Online() {
		return ErrOffline
	}

	m.mu.Lock()
	for _, e := range m.entries {
		if e.Title == entry.Title {
			m.mu.Unlock()
			return nil
		}
	}
	m.entries = append(m.entries, entry)
	m.mu.Unlock()

	go func() {
		if err := m.remote.PutBookmark(context.Background(), entry); err != nil {
			m.log.Error("error saving bookmark", zap.String("title", entry.Title), zap.Error(err))
		}
	}()
	return nil
}

// Remove deletes the entry with the given title from the set and mirrors
// the delete remotely, fire-and-forget with the same failure policy as Add.
func (m *Manager) Remove(title string) {
	m.mu.Lock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.Title != title {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	m.mu.Unlock()

	go func() {
		if err := m.remote.DeleteBookmark(context.Background(), title); err != nil {
			m.log.Error("error removing bookmark", zap.String("title", title), zap.Error(err))
		}
	}()
}

// Contains reports whether a title is bookmarked.
func (m *Manager) Contains(title string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Title == title {
			return true
		}
	}
	return false
}

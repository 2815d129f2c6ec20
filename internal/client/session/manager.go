package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/binukalewke/dreamland/internal/client/api"
	"github.com/binukalewke/dreamland/internal/models"
)

// User-visible errors surfaced by the login/signup/edit flows. They are
// checked before any remote call where possible.
var (
	ErrEmptyFields      = errors.New("fields cannot be empty")
	ErrOffline          = errors.New("network error, please connect to the internet")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrUserDataNotFound = errors.New("user data not found")
	ErrBadCredentials   = errors.New("incorrect email or password")
	ErrNotSignedIn      = errors.New("not signed in")
)

// Identity is the remote identity service consumed by the manager.
type Identity interface {
	CurrentUserID() string
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password, username string) (string, error)
	SignOut(ctx context.Context) error
	Token() string
}

// ProfileStore is the remote document store holding per-user profiles.
type ProfileStore interface {
	Profile(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id, username, email, password string) error
}

// CredentialStore is the local cache of the last successful login.
type CredentialStore interface {
	Email() string
	Password() string
	Username() string
	HasLocalLogin() bool
	LoggedOut() bool
	SetLoggedOut(v bool) error
	SaveCredentials(email, password, username string) error
	ClearCredentials() error
	SetAuthState(token, userID string) error
	ClearAuthState() error
}

// Prober reports point-in-time connectivity.
type Prober interface {
	Online() bool
}

// Manager owns the session for one application run. It is constructed at
// startup and passed to whichever component needs the resolved identity;
// there is no ambient global state.
type Manager struct {
	identity Identity
	profiles ProfileStore
	creds    CredentialStore
	probe    Prober
	notifier Notifier
	log      *zap.Logger

	mu      sync.Mutex
	current Session
}

// NewManager constructs a Manager. notifier may not be nil; pass a no-op
// NotifierFunc when the caller does not surface notices.
func NewManager(identity Identity, profiles ProfileStore, creds CredentialStore, probe Prober, notifier Notifier, log *zap.Logger) *Manager {
	return &Manager{
		identity: identity,
		profiles: profiles,
		creds:    creds,
		probe:    probe,
		notifier: notifier,
		log:      log,
		current:  Session{Source: SourceNone},
	}
}

// Session returns the current resolved session.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manager) set(s Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
}

// Resolve determines the active identity at application start. The remote
// identity is consulted first and wins when its profile document loads;
// any remote failure only downgrades to the local credential record. The
// local record counts only when both email and password are cached and
// the user did not explicitly log out; that path emits one offline
// notice. Resolution runs once per call and never returns an error:
// remote trouble yields a weaker source, not a crash.
func (m *Manager) Resolve(ctx context.Context) Session {
	if uid := m.identity.CurrentUserID(); uid != "" {
		profile, err := m.profiles.Profile(ctx, uid)
		if err == nil {
			s := Session{
				Username: profile.Username,
				Email:    profile.Email,
				// The remote document never holds the password.
				Password: m.creds.Password(),
				Source:   SourceRemote,
			}
			m.set(s)
			return s
		}
		m.log.Warn("remote profile unavailable, trying local cache", zap.Error(err))
	}

	if m.creds.HasLocalLogin() && !m.creds.LoggedOut() {
		s := Session{
			Username: m.creds.Username(),
			Email:    m.creds.Email(),
			Password: m.creds.Password(),
			Source:   SourceLocalCache,
		}
		m.set(s)
		m.notifier.Notify("operating in offline mode")
		return s
	}

	s := Session{Source: SourceNone}
	m.set(s)
	return s
}

// Login authenticates the email/password pair remotely, loads the
// profile document and writes the credential record through. The email
// stored in the session comes from the remote document, not the input.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, ErrEmptyFields
	}
	if !m.probe.Online() {
		return Session{}, ErrOffline
	}

	emailLower := strings.ToLower(strings.TrimSpace(email))
	uid, err := m.identity.SignIn(ctx, emailLower, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return Session{}, ErrBadCredentials
		}
		return Session{}, err
	}

	profile, err := m.profiles.Profile(ctx, uid)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return Session{}, ErrUserDataNotFound
		}
		return Session{}, err
	}

	s := Session{
		Username: profile.Username,
		Email:    profile.Email,
		Password: password,
		Source:   SourceRemote,
	}
	m.set(s)

	if err := m.creds.SaveCredentials(profile.Email, password, profile.Username); err != nil {
		m.log.Error("failed to cache credentials", zap.Error(err))
	}
	if err := m.creds.SetLoggedOut(false); err != nil {
		m.log.Error("failed to clear logged-out flag", zap.Error(err))
	}
	if err := m.creds.SetAuthState(m.identity.Token(), uid); err != nil {
		m.log.Error("failed to persist auth state", zap.Error(err))
	}
	return s, nil
}

// SignUp validates the input, registers the account remotely, signs in
// and writes the credential record through.
func (m *Manager) SignUp(ctx context.Context, username, email, password, confirm string) (Session, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" || confirm == "" {
		return Session{}, ErrEmptyFields
	}
	if password != confirm {
		return Session{}, ErrPasswordMismatch
	}
	if len(password) < 6 {
		return Session{}, ErrPasswordTooShort
	}
	if !m.probe.Online() {
		return Session{}, ErrOffline
	}

	emailLower := strings.ToLower(strings.TrimSpace(email))
	usernameLower := strings.ToLower(strings.TrimSpace(username))

	if _, err := m.identity.SignUp(ctx, emailLower, password, usernameLower); err != nil {
		return Session{}, err
	}
	uid, err := m.identity.SignIn(ctx, emailLower, password)
	if err != nil {
		return Session{}, err
	}

	s := Session{
		Username: usernameLower,
		Email:    emailLower,
		Password: password,
		Source:   SourceRemote,
	}
	m.set(s)

	if err := m.creds.SaveCredentials(emailLower, password, usernameLower); err != nil {
		m.log.Error("failed to cache credentials", zap.Error(err))
	}
	if err := m.creds.SetLoggedOut(false); err != nil {
		m.log.Error("failed to clear logged-out flag", zap.Error(err))
	}
	if err := m.creds.SetAuthState(m.identity.Token(), uid); err != nil {
		m.log.Error("failed to persist auth state", zap.Error(err))
	}
	return s, nil
}

// UpdateProfile edits the remote profile document and mirrors the change
// into the session and the credential record. Editing requires a live
// remote identity; the local cache is never edited on its own.
func (m *Manager) UpdateProfile(ctx context.Context, username, email, password string) (Session, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return Session{}, ErrEmptyFields
	}
	if !m.probe.Online() {
		return Session{}, ErrOffline
	}
	uid := m.identity.CurrentUserID()
	if uid == "" {
		return Session{}, ErrNotSignedIn
	}

	if err := m.profiles.UpdateProfile(ctx, uid, username, email, password); err != nil {
		return Session{}, err
	}

	s := Session{
		Username: strings.ToLower(strings.TrimSpace(username)),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
		Source:   SourceRemote,
	}
	m.set(s)

	if err := m.creds.SaveCredentials(s.Email, s.Password, s.Username); err != nil {
		m.log.Error("failed to cache credentials", zap.Error(err))
	}
	return s, nil
}

// Logout signs out remotely (best effort), clears the identity fields of
// the credential record and marks the explicit logout. Preference flags
// survive. The session resets to SourceNone.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.identity.SignOut(ctx); err != nil {
		m.log.Warn("remote sign-out failed", zap.Error(err))
	}
	if err := m.creds.ClearCredentials(); err != nil {
		m.log.Error("failed to clear credentials", zap.Error(err))
	}
	if err := m.creds.SetLoggedOut(true); err != nil {
		m.log.Error("failed to set logged-out flag", zap.Error(err))
	}
	if err := m.creds.ClearAuthState(); err != nil {
		m.log.Error("failed to clear auth state", zap.Error(err))
	}
	m.set(Session{Source: SourceNone})
}

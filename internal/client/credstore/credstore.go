// Package credstore persists the last successful login and the user's
// preference flags in a local JSON key-value file. It is the offline
// fallback source for identity: the cached plaintext password is what
// offline login compares against.
package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	keyEmail        = "email"
	keyPassword     = "password"
	keyUsername     = "username"
	keyToken        = "auth_token"
	keyUserID       = "user_id"
	keyDarkMode     = "is_dark_mode"
	keyLoggedOut    = "logged_out"
	keyProfileImage = "profile_image"
	keyShowBattery  = "show_battery"
	keyShowAmbient  = "show_ambient_light_alert"
)

const storeFile = "credentials.json"

// Store is a file-backed key-value store for the credential record.
// Every setter writes through to disk.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]any
}

// Open loads (or initializes) the credential record under dir.
func Open(dir string) (*Store, error) {
	s := &Store{
		path:   filepath.Join(dir, storeFile),
		values: make(map[string]any),
	}
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&s.values); err != nil {
		return nil, fmt.Errorf("decode credential store: %w", err)
	}
	return s, nil
}

// save persists the current values. Callers must hold mu.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(s.values)
}

func (s *Store) setString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

func (s *Store) getString(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return ""
}

func (s *Store) setBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

func (s *Store) getBool(key string, def bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return def
}

// SaveCredentials stores the identity fields of the last successful login.
func (s *Store) SaveCredentials(email, password, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[keyEmail] = email
	s.values[keyPassword] = password
	s.values[keyUsername] = username
	return s.save()
}

// ClearCredentials removes the identity fields and the logged-out flag.
// Preference flags survive.
func (s *Store) ClearCredentials() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, keyEmail)
	delete(s.values, keyPassword)
	delete(s.values, keyUsername)
	delete(s.values, keyLoggedOut)
	return s.save()
}

// Email returns the cached login email, empty when absent.
func (s *Store) Email() string { return s.getString(keyEmail) }

// Password returns the cached plaintext password, empty when absent.
func (s *Store) Password() string { return s.getString(keyPassword) }

// Username returns the cached display name, empty when absent.
func (s *Store) Username() string { return s.getString(keyUsername) }

// HasLocalLogin reports whether both email and password are cached.
func (s *Store) HasLocalLogin() bool {
	return s.Email() != "" && s.Password() != ""
}

// SetLoggedOut records an explicit logout. While set, cached credentials
// do not count as a local login.
func (s *Store) SetLoggedOut(v bool) error { return s.setBool(keyLoggedOut, v) }

// LoggedOut reports whether the user explicitly logged out.
func (s *Store) LoggedOut() bool { return s.getBool(keyLoggedOut, false) }

// SetAuthState stores the remote auth token and user id so the remote
// identity survives restarts.
func (s *Store) SetAuthState(token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[keyToken] = token
	s.values[keyUserID] = userID
	return s.save()
}

// AuthState returns the stored remote auth token and user id.
func (s *Store) AuthState() (token, userID string) {
	return s.getString(keyToken), s.getString(keyUserID)
}

// ClearAuthState removes the stored remote auth token and user id.
func (s *Store) ClearAuthState() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, keyToken)
	delete(s.values, keyUserID)
	return s.save()
}

// SetDarkMode stores the dark mode preference. Default is light mode.
func (s *Store) SetDarkMode(v bool) error { return s.setBool(keyDarkMode, v) }

// DarkMode returns the dark mode preference, false by default.
func (s *Store) DarkMode() bool { return s.getBool(keyDarkMode, false) }

// SetShowBatteryAlert stores the battery alert preference.
func (s *Store) SetShowBatteryAlert(v bool) error { return s.setBool(keyShowBattery, v) }

// ShowBatteryAlert returns the battery alert preference, true by default.
func (s *Store) ShowBatteryAlert() bool { return s.getBool(keyShowBattery, true) }

// SetShowAmbientAlert stores the ambient light alert preference.
func (s *Store) SetShowAmbientAlert(v bool) error { return s.setBool(keyShowAmbient, v) }

// ShowAmbientAlert returns the ambient light alert preference, false by default.
func (s *Store) ShowAmbientAlert() bool { return s.getBool(keyShowAmbient, false) }

// SetProfileImage stores a reference to the chosen profile picture.
func (s *Store) SetProfileImage(ref string) error { return s.setString(keyProfileImage, ref) }

// ProfileImage returns the stored profile picture reference, empty when unset.
func (s *Store) ProfileImage() string { return s.getString(keyProfileImage) }

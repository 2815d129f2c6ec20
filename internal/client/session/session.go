// Package session resolves the active user identity for an application
// run and owns the explicit login, signup, profile-edit and logout
// transitions. Remote identity always wins; the local credential record
// is strictly a connectivity fallback.
package session

// Source names the backing store that is authoritative for the current
// session's identity data.
type Source string

const (
	// SourceRemote means a live remote identity backs the session.
	SourceRemote Source = "remote"
	// SourceLocalCache means the session was restored from the local
	// credential record without a reachable remote identity.
	SourceLocalCache Source = "local_cache"
	// SourceNone means no identity resolved; the user must log in.
	SourceNone Source = "none"
)

// Session is the resolved identity for the current application run.
type Session struct {
	// Username is the display name.
	Username string
	// Email is the login key.
	Email string
	// Password is kept only for offline comparison; remote storage never
	// holds it.
	Password string
	// Source records which store is authoritative for this session.
	Source Source
}

// IsAuthenticated reports whether any identity resolved.
func (s Session) IsAuthenticated() bool {
	return s.Source != SourceNone
}

// Notifier receives non-blocking user-visible notices, e.g. the offline
// mode message. Implementations must not block.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(msg string)

// Notify calls f(msg).
func (f NotifierFunc) Notify(msg string) { f(msg) }

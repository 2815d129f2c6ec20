package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/binukalewke/dreamland/internal/client/api"
	"github.com/binukalewke/dreamland/internal/client/session"
	"github.com/binukalewke/dreamland/internal/models"
)

type fakeIdentity struct {
	currentID  string
	signInID   string
	signInErr  error
	signUpID   string
	signUpErr  error
	signOutErr error
	token      string
}

func (f *fakeIdentity) CurrentUserID() string { return f.currentID }
func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (string, error) {
	if f.signInErr != nil {
		return "", f.signInErr
	}
	f.currentID = f.signInID
	return f.signInID, nil
}
func (f *fakeIdentity) SignUp(ctx context.Context, email, password, username string) (string, error) {
	return f.signUpID, f.signUpErr
}
func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.currentID = ""
	return f.signOutErr
}
func (f *fakeIdentity) Token() string { return f.token }

type fakeProfiles struct {
	profile *models.Profile
	err     error
	updated bool
}

func (f *fakeProfiles) Profile(ctx context.Context, id string) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}
func (f *fakeProfiles) UpdateProfile(ctx context.Context, id, username, email, password string) error {
	f.updated = true
	return f.err
}

type fakeCreds struct {
	email, password, username string
	loggedOut                 bool
	cleared                   bool
	savedEmail                string
	savedUsername             string
	token, userID             string
}

func (f *fakeCreds) Email() string       { return f.email }
func (f *fakeCreds) Password() string    { return f.password }
func (f *fakeCreds) Username() string    { return f.username }
func (f *fakeCreds) HasLocalLogin() bool { return f.email != "" && f.password != "" }
func (f *fakeCreds) LoggedOut() bool     { return f.loggedOut }
func (f *fakeCreds) SetLoggedOut(v bool) error {
	f.loggedOut = v
	return nil
}
func (f *fakeCreds) SaveCredentials(email, password, username string) error {
	f.email, f.password, f.username = email, password, username
	f.savedEmail, f.savedUsername = email, username
	return nil
}
func (f *fakeCreds) ClearCredentials() error {
	f.email, f.password, f.username = "", "", ""
	f.loggedOut = false
	f.cleared = true
	return nil
}
func (f *fakeCreds) SetAuthState(token, userID string) error {
	f.token, f.userID = token, userID
	return nil
}
func (f *fakeCreds) ClearAuthState() error {
	f.token, f.userID = "", ""
	return nil
}

type fakeProbe struct{ online bool }

func (f *fakeProbe) Online() bool { return f.online }

type recordingNotifier struct{ notices []string }

func (r *recordingNotifier) Notify(msg string) { r.notices = append(r.notices, msg) }

func newManager(id *fakeIdentity, p *fakeProfiles, c *fakeCreds, probe *fakeProbe, n *recordingNotifier) *session.Manager {
	return session.NewManager(id, p, c, probe, n, zap.NewNop())
}

func TestResolve_RemoteWins(t *testing.T) {
	identity := &fakeIdentity{currentID: "u1"}
	profiles := &fakeProfiles{profile: &models.Profile{ID: "u1", Username: "ann", Email: "remote@b.com"}}
	// The cached email differs from the remote document; remote must win.
	creds := &fakeCreds{email: "stale@b.com", password: "secret", username: "old"}
	notifier := &recordingNotifier{}

	m := newManager(identity, profiles, creds, &fakeProbe{online: true}, notifier)
	s := m.Resolve(context.Background())

	assert.Equal(t, session.SourceRemote, s.Source)
	assert.Equal(t, "remote@b.com", s.Email)
	assert.Equal(t, "ann", s.Username)
	// The password always comes from the local cache.
	assert.Equal(t, "secret", s.Password)
	assert.True(t, s.IsAuthenticated())
	assert.Empty(t, notifier.notices)
}

func TestResolve_RemoteFetchFailureFallsBackToCache(t *testing.T) {
	identity := &fakeIdentity{currentID: "u1"}
	profiles := &fakeProfiles{err: errors.New("network down")}
	creds := &fakeCreds{email: "a@b.com", password: "secret", username: "ann"}
	notifier := &recordingNotifier{}

	m := newManager(identity, profiles, creds, &fakeProbe{}, notifier)
	s := m.Resolve(context.Background())

	assert.Equal(t, session.SourceLocalCache, s.Source)
	assert.Equal(t, "a@b.com", s.Email)
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "operating in offline mode", notifier.notices[0])
}

func TestResolve_LocalCacheOffline(t *testing.T) {
	identity := &fakeIdentity{}
	creds := &fakeCreds{email: "a@b.com", password: "secret", username: "Ann"}
	notifier := &recordingNotifier{}

	m := newManager(identity, &fakeProfiles{}, creds, &fakeProbe{}, notifier)
	s := m.Resolve(context.Background())

	assert.Equal(t, session.Session{
		Username: "Ann",
		Email:    "a@b.com",
		Password: "secret",
		Source:   session.SourceLocalCache,
	}, s)
	require.Len(t, notifier.notices, 1)
}

func TestResolve_LoggedOutBlocksLocalCache(t *testing.T) {
	identity := &fakeIdentity{}
	creds := &fakeCreds{email: "a@b.com", password: "secret", username: "ann", loggedOut: true}
	notifier := &recordingNotifier{}

	m := newManager(identity, &fakeProfiles{}, creds, &fakeProbe{}, notifier)
	s := m.Resolve(context.Background())

	assert.Equal(t, session.SourceNone, s.Source)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, notifier.notices)
}

func TestResolve_NoIdentityAnywhere(t *testing.T) {
	m := newManager(&fakeIdentity{}, &fakeProfiles{}, &fakeCreds{}, &fakeProbe{}, &recordingNotifier{})
	s := m.Resolve(context.Background())

	assert.Equal(t, session.SourceNone, s.Source)
}

func TestLogin_Success(t *testing.T) {
	identity := &fakeIdentity{signInID: "u1", token: "tok-1"}
	profiles := &fakeProfiles{profile: &models.Profile{ID: "u1", Username: "ann", Email: "a@b.com"}}
	creds := &fakeCreds{loggedOut: true}

	m := newManager(identity, profiles, creds, &fakeProbe{online: true}, &recordingNotifier{})
	s, err := m.Login(context.Background(), "A@B.com ", "secret")

	require.NoError(t, err)
	assert.Equal(t, session.SourceRemote, s.Source)
	// Session email comes from the remote document, not the typed input.
	assert.Equal(t, "a@b.com", s.Email)
	assert.Equal(t, "secret", s.Password)
	assert.Equal(t, "a@b.com", creds.savedEmail)
	assert.False(t, creds.loggedOut)
	assert.Equal(t, "tok-1", creds.token)
	assert.Equal(t, "u1", creds.userID)
}

func TestLogin_Validation(t *testing.T) {
	m := newManager(&fakeIdentity{}, &fakeProfiles{}, &fakeCreds{}, &fakeProbe{online: true}, &recordingNotifier{})

	_, err := m.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, session.ErrEmptyFields)

	_, err = m.Login(context.Background(), "a@b.com", "")
	assert.ErrorIs(t, err, session.ErrEmptyFields)
}

func TestLogin_Offline(t *testing.T) {
	m := newManager(&fakeIdentity{}, &fakeProfiles{}, &fakeCreds{}, &fakeProbe{online: false}, &recordingNotifier{})

	_, err := m.Login(context.Background(), "a@b.com", "secret")
	assert.ErrorIs(t, err, session.ErrOffline)
}

func TestLogin_BadCredentials(t *testing.T) {
	identity := &fakeIdentity{signInErr: api.ErrUnauthorized}
	m := newManager(identity, &fakeProfiles{}, &fakeCreds{}, &fakeProbe{online: true}, &recordingNotifier{})

	_, err := m.Login(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, session.ErrBadCredentials)
}

func TestLogin_ProfileDocumentMissing(t *testing.T) {
	identity := &fakeIdentity{signInID: "u1"}
	profiles := &fakeProfiles{err: api.ErrNotFound}
	m := newManager(identity, profiles, &fakeCreds{}, &fakeProbe{online: true}, &recordingNotifier{})

	_, err := m.Login(context.Background(), "a@b.com", "secret")
	assert.ErrorIs(t, err, session.ErrUserDataNotFound)
}

func TestSignUp_Validation(t *testing.T) {
	m := newManager(&fakeIdentity{}, &fakeProfiles{}, &fakeCreds{}, &fakeProbe{online: true}, &recordingNotifier{})
	ctx := context.Background()

	_, err := m.SignUp(ctx, "", "a@b.com", "secret1", "secret1")
	assert.ErrorIs(t, err, session.ErrEmptyFields)

	_, err = m.SignUp(ctx, "ann", "a@b.com", "secret1", "secret2")
	assert.ErrorIs(t, err, session.ErrPasswordMismatch)

	_, err = m.SignUp(ctx, "ann", "a@b.com", "abc", "abc")
	assert.ErrorIs(t, err, session.ErrPasswordTooShort)
}

func TestSignUp_Success(t *testing.T) {
	identity := &fakeIdentity{signUpID: "u1", signInID: "u1", token: "tok-1"}
	creds := &fakeCreds{}
	m := newManager(identity, &fakeProfiles{}, creds, &fakeProbe{online: true}, &recordingNotifier{})

	s, err := m.SignUp(context.Background(), "Ann", "A@B.com", "secret1", "secret1")

	require.NoError(t, err)
	assert.Equal(t, session.SourceRemote, s.Source)
	assert.Equal(t, "ann", s.Username)
	assert.Equal(t, "a@b.com", s.Email)
	assert.Equal(t, "a@b.com", creds.savedEmail)
	assert.Equal(t, "ann", creds.savedUsername)
}

func TestLogout_ClearsIdentityAndSetsFlag(t *testing.T) {
	identity := &fakeIdentity{currentID: "u1"}
	creds := &fakeCreds{email: "a@b.com", password: "secret", username: "ann"}
	m := newManager(identity, &fakeProfiles{}, creds, &fakeProbe{online: true}, &recordingNotifier{})

	m.Logout(context.Background())

	assert.Equal(t, session.SourceNone, m.Session().Source)
	assert.True(t, creds.cleared)
	assert.True(t, creds.loggedOut)
	assert.Empty(t, creds.token)
	assert.Empty(t, identity.CurrentUserID())
}

func TestUpdateProfile_RequiresRemoteIdentity(t *testing.T) {
	m := newManager(&fakeIdentity{}, &fakeProfiles{}, &fakeCreds{}, &fakeProbe{online: true}, &recordingNotifier{})

	_, err := m.UpdateProfile(context.Background(), "ann", "a@b.com", "secret1")
	assert.ErrorIs(t, err, session.ErrNotSignedIn)
}

func TestUpdateProfile_Success(t *testing.T) {
	identity := &fakeIdentity{currentID: "u1"}
	profiles := &fakeProfiles{}
	creds := &fakeCreds{}
	m := newManager(identity, profiles, creds, &fakeProbe{online: true}, &recordingNotifier{})

	s, err := m.UpdateProfile(context.Background(), "New", "new@b.com", "secret2")

	require.NoError(t, err)
	assert.True(t, profiles.updated)
	assert.Equal(t, "new", s.Username)
	assert.Equal(t, "new@b.com", creds.savedEmail)
}

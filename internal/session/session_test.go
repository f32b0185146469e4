package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	t.Setenv(session.EnvToken, "")
	return session.New(t.TempDir())
}

func TestLoginPersistsAndLogoutClears(t *testing.T) {
	s := newTestSession(t)

	assert.False(t, s.IsAuthenticated(), "fresh session must not be authenticated")
	assert.Nil(t, s.Current())

	require.NoError(t, s.Login("abc123", "bearer"))

	assert.True(t, s.IsAuthenticated(), "token presence implies authenticated")
	assert.Equal(t, "abc123", s.Token())

	creds, err := s.Credentials()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "bearer", creds.TokenType)
	assert.Equal(t, "file", creds.Source)

	require.NoError(t, s.Logout())
	assert.False(t, s.IsAuthenticated())
	creds, err = s.Credentials()
	require.NoError(t, err)
	assert.Nil(t, creds, "logout must clear token and token_type together")
}

func TestLogoutWhenNotLoggedIn(t *testing.T) {
	s := newTestSession(t)
	assert.NoError(t, s.Logout(), "logging out twice is not an error")
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	s := newTestSession(t)
	assert.Error(t, s.Login("", "bearer"))
	assert.Error(t, s.Login("   ", "bearer"))
}

func TestLoginStripsBearerPrefix(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Login("Bearer abc123", "bearer"))
	assert.Equal(t, "abc123", s.Token())
}

func TestEnvTokenOverride(t *testing.T) {
	s := session.New(t.TempDir())
	t.Setenv(session.EnvToken, "env-token")

	creds, err := s.Credentials()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "env-token", creds.Token)
	assert.Equal(t, "env", creds.Source)
	assert.True(t, s.IsAuthenticated())
}

func TestCurrentSynthesizesPlaceholderUser(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Login("opaque-token", "bearer"))

	u := s.Current()
	require.NotNil(t, u, "token presence must yield a current user")
	assert.Equal(t, "user", u.Username)
	assert.Equal(t, "کاربر", u.FullName)
	assert.True(t, u.IsActive)
}

func TestCredentialsFilePermissions(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(session.EnvToken, "")
	s := session.New(dir)
	require.NoError(t, s.Login("abc123", "bearer"))

	fi, err := os.Stat(filepath.Join(dir, "credentials.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm(), "credentials file must be owner-only")
}

func TestExpiresAtOpaqueToken(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Login("not-a-jwt", "bearer"))
	assert.Nil(t, s.ExpiresAt(), "opaque tokens have no introspectable expiry")
}

func TestExpiresAtJWT(t *testing.T) {
	s := newTestSession(t)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("secret"))
	require.NoError(t, err)

	require.NoError(t, s.Login(tok, "bearer"))
	got := s.ExpiresAt()
	require.NotNil(t, got)
	assert.True(t, got.Equal(exp), "expiry claim should round-trip")
}

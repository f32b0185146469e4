package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskdash/internal/model"
)

const credFileName = "credentials.json"

// EnvToken overrides the stored token when set.
const EnvToken = "TASKDASH_TOKEN"

// Credentials is what gets persisted between runs. The token is the
// only credential; token_type travels with it and both are cleared
// together on logout.
type Credentials struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	Source    string    `json:"source"` // "env" | "file"
	CreatedAt time.Time `json:"created_at"`
}

// Session owns the persisted authentication state. Login and Logout
// are the only mutators; everything else derives from what they wrote.
type Session struct {
	dir string
}

// New returns a session backed by dir (e.g. ~/.taskdash).
func New(dir string) *Session {
	return &Session{dir: dir}
}

func (s *Session) credPath() string {
	return filepath.Join(s.dir, credFileName)
}

// Credentials returns the active credentials, or nil when logged out.
// An env token wins over the stored one.
func (s *Session) Credentials() (*Credentials, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &Credentials{Token: stripBearer(env), TokenType: "bearer", Source: "env"}, nil
	}

	b, err := os.ReadFile(s.credPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	c.Token = stripBearer(c.Token)
	if c.Source == "" {
		c.Source = "file"
	}
	return &c, nil
}

// Token returns just the bearer token, "" when logged out.
func (s *Session) Token() string {
	c, err := s.Credentials()
	if err != nil || c == nil {
		return ""
	}
	return c.Token
}

// IsAuthenticated is true iff a token is currently available.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Login persists the token and its type. This and Logout are the only
// writers of the credentials file.
func (s *Session) Login(token, tokenType string) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if tokenType == "" {
		tokenType = "bearer"
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	c := Credentials{
		Token:     token,
		TokenType: tokenType,
		Source:    "file",
		CreatedAt: time.Now(),
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	// owner-only: this file is the credential
	if err := os.WriteFile(s.credPath(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Logout removes the credentials file. Removing an already-absent file
// is not an error. An env-provided token cannot be deleted here.
func (s *Session) Logout() error {
	if err := os.Remove(s.credPath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Current synthesizes the signed-in user from token presence alone.
// No profile round trip happens on restore; `whoami` is the explicit
// way to fetch the real profile.
func (s *Session) Current() *model.User {
	if !s.IsAuthenticated() {
		return nil
	}
	return &model.User{
		ID:       1,
		Username: "user",
		Email:    "user@example.com",
		FullName: "کاربر",
		IsActive: true,
	}
}

// ExpiresAt best-effort decodes the token as an unverified JWT and
// returns its expiry claim. Opaque tokens yield nil.
func (s *Session) ExpiresAt() *time.Time {
	tok := s.Token()
	if tok == "" {
		return nil
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}

// Package session keeps the operator's bearer credential between commands.
// The console never issues or verifies tokens; the platform signs them and a
// request rejected with 401 ends the session outright.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn is returned when no credential is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Claims are the admin token claims this console cares about.
type Claims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Session is a file-backed credential holder.
type Session struct {
	path  string
	token string
}

// Open loads any stored credential from path. A missing file is not an
// error; Token reports ErrNotLoggedIn instead.
func Open(path string) (*Session, error) {
	s := &Session{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read token: %w", err)
	}
	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the stored credential.
func (s *Session) Token() (string, error) {
	if s.token == "" {
		return "", ErrNotLoggedIn
	}
	return s.token, nil
}

// Save stores a new credential on disk, replacing any previous one.
func (s *Session) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	s.token = token
	return nil
}

// Clear removes the stored credential. Called on logout and whenever the
// platform rejects the token.
func (s *Session) Clear() error {
	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// ExpiresAt peeks at the token's expiry claim without verifying the
// signature (the secret lives on the server). Zero time means the token
// carries no expiry.
func (s *Session) ExpiresAt() (time.Time, error) {
	if s.token == "" {
		return time.Time{}, ErrNotLoggedIn
	}

	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// Expired reports whether the stored token is already past its expiry.
func (s *Session) Expired(now time.Time) bool {
	exp, err := s.ExpiresAt()
	if err != nil || exp.IsZero() {
		return false
	}
	return exp.Before(now)
}

// Package session keeps the CLI login between runs.
//
// The token is stored as JSON in a private file inside the configured session
// directory. The user id is read from the token's "id" claim without
// verifying the signature; the server remains the authority on validity.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/loveletters/internal/filex"
	"github.com/golang-jwt/jwt/v5"
)

const fileName = "session.json"

var ErrBadToken = errors.New("malformed token")

type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the token's exp claim is in the past.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"id"`
}

// FromToken builds a Session from a token issued by the server.
func FromToken(token, email string) (*Session, error) {
	c := &claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	if c.UserID == 0 {
		return nil, fmt.Errorf("%w: no user id", ErrBadToken)
	}

	s := &Session{Token: token, UserID: c.UserID, Email: email}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}

type Store struct {
	path string
}

func NewStore(dir string) (*Store, error) {
	d, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(d, fileName)}, nil
}

func (s *Store) Save(ss *Session) error {
	b, err := json.Marshal(ss)
	if err != nil {
		return err
	}
	return filex.WriteFilePrivate(s.path, b)
}

// Load returns the saved session or nil when there is none.
func (s *Store) Load() (*Session, error) {
	b, ok, err := filex.ReadIfExists(s.path)
	if err != nil || !ok {
		return nil, err
	}

	var ss Session
	if err := json.Unmarshal(b, &ss); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return &ss, nil
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

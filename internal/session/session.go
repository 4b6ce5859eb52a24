// Package session holds the signed-in state of a browser: the backend token
// and the user record it was issued for.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"aviorie-web/internal/role"
	"aviorie-web/internal/user"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrEmptyToken   = errors.New("session token is empty")
	ErrCorruptValue = errors.New("stored session is corrupt")
)

// Session pairs a backend token with the user it belongs to. A Session
// always has both: construct it with New.
type Session struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func New(token string, u user.User) (Session, error) {
	if token == "" {
		return Session{}, ErrEmptyToken
	}
	return Session{Token: token, User: u}, nil
}

// Role resolves the session user's role; ok is false for roles this frontend
// does not know.
func (s Session) Role() (role.Role, bool) {
	return s.User.RoleOf()
}

// Store persists sessions keyed by visitor id. Save writes the token and user
// in one operation, so readers see either the whole pair or nothing.
type Store interface {
	Save(ctx context.Context, id string, s Session) error
	// Load returns ErrNotFound when id has no session.
	Load(ctx context.Context, id string) (*Session, error)
	Clear(ctx context.Context, id string) error
}

func encode(s Session) ([]byte, error) {
	if s.Token == "" {
		return nil, ErrEmptyToken
	}
	return json.Marshal(s)
}

func decode(raw []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptValue, err)
	}
	if s.Token == "" {
		return nil, ErrCorruptValue
	}
	return &s, nil
}

type ctxKey struct{}

// WithSession attaches a loaded session to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by WithSession, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

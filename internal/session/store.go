// Package session owns the authenticated/unauthenticated state of the
// console and its persistence across runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"storeadmin/internal/storage"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

var ErrEmptyToken = errors.New("token must not be empty")

// Store holds the current session. The token and user profile are persisted
// in the local key/value store and restored at startup; Login and Logout are
// the only mutators. A user profile may be present only together with a
// token, and both are cleared together.
type Store struct {
	kv storage.Repository

	mu    sync.RWMutex
	token string
	user  map[string]any
}

func NewStore(kv storage.Repository) *Store {
	return &Store{kv: kv}
}

// Restore loads the persisted session. A missing token leaves the store
// unauthenticated. A missing or malformed user profile is not an error:
// the token alone is sufficient, the profile falls back to nil.
func (s *Store) Restore(ctx context.Context) error {
	tokenRaw, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		return err
	}
	if len(tokenRaw) == 0 {
		return nil
	}

	var user map[string]any
	if userRaw, err := s.kv.Get(ctx, keyUser); err == nil && len(userRaw) > 0 {
		if jsonErr := json.Unmarshal(userRaw, &user); jsonErr != nil {
			user = nil
		}
	}

	s.mu.Lock()
	s.token = string(tokenRaw)
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login persists the credentials and marks the session authenticated.
// The token must be non-empty; user may be nil.
func (s *Store) Login(ctx context.Context, token string, user map[string]any) error {
	if token == "" {
		return ErrEmptyToken
	}

	if err := s.kv.Set(ctx, keyToken, []byte(token)); err != nil {
		return err
	}
	userRaw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyUser, userRaw); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// Logout clears both the persisted and the in-memory session. It is
// idempotent: logging out when already logged out is not an error.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return nil
}

// Token returns the current access token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current profile, possibly nil even when authenticated.
func (s *Store) User() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

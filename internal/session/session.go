// Package session tracks who is logged in and which reminders have already
// been shown to them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nhle/taskboard/internal/api"
	"github.com/nhle/taskboard/internal/logger"
	"github.com/nhle/taskboard/internal/model"
)

// ErrNotLoggedIn is returned by RequireLogin when no user is logged in.
var ErrNotLoggedIn = errors.New("please log in first")

// TokenStore persists the auth token between runs.
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// MeFunc fetches the user the current token belongs to.
type MeFunc func(ctx context.Context) (model.User, error)

// Session is the explicit login context shared by the API client, the
// overdue watcher and the views. It is safe for concurrent use.
type Session struct {
	store TokenStore

	mu       sync.RWMutex
	token    string
	user     *model.User
	notified map[int64]struct{}
}

// New returns a logged-out session persisting its token in store. A nil
// store keeps the token in memory only.
func New(store TokenStore) *Session {
	return &Session{
		store:    store,
		notified: make(map[int64]struct{}),
	}
}

// Token returns the bearer token, or "" when logged out. It satisfies
// api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged-in user.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// LoggedIn reports whether a user is logged in.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// RequireLogin returns ErrNotLoggedIn unless a user is logged in. Every
// mutating action calls it first.
func (s *Session) RequireLogin() error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

// Restore loads the persisted token and validates it with me. It reports
// whether the session ended up logged in. A token the backend rejects is
// cleared without surfacing an error; other failures leave the persisted
// token alone and are returned.
func (s *Session) Restore(ctx context.Context, me MeFunc) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	token, err := s.store.LoadToken()
	if err != nil {
		return false, fmt.Errorf("loading saved token: %w", err)
	}
	if token == "" {
		return false, nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := me(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			logger.L().Info("saved token rejected, logging out")
			return false, s.End()
		}
		s.reset()
		return false, fmt.Errorf("restoring session: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return true, nil
}

// Begin installs a freshly issued token and user and persists the token.
func (s *Session) Begin(token string, user model.User) error {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.notified = make(map[int64]struct{})
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.SaveToken(token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// SetUser replaces the cached user after a profile edit.
func (s *Session) SetUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		s.user = &user
	}
}

// End logs out: the token, the user and the notified set are dropped and the
// persisted token is removed.
func (s *Session) End() error {
	s.reset()
	if s.store == nil {
		return nil
	}
	if err := s.store.ClearToken(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.notified = make(map[int64]struct{})
}

// MarkNotified records ids as reminded and returns those that were not
// already recorded, in input order. The set only grows until End.
func (s *Session) MarkNotified(ids []int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []int64
	for _, id := range ids {
		if _, ok := s.notified[id]; ok {
			continue
		}
		s.notified[id] = struct{}{}
		fresh = append(fresh, id)
	}
	return fresh
}

// Notified reports whether a reminder was already shown for id.
func (s *Session) Notified(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.notified[id]
	return ok
}

// Package session owns the client-side login state.
//
// The state is persisted under two keys of a store.KV ("user_id" and "access_token"), so it
// survives restarts. Readers take an immutable Snapshot; Login, Logout and Clear are the only
// mutators. Loading never contacts the server: a stored token counts as "logged in".
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"bookclub-cli/internal/model"
	"bookclub-cli/internal/store"

	"go.uber.org/zap"
)

const (
	KeyUserID      = "user_id"
	KeyAccessToken = "access_token"
)

// Remote is the server side of logout.
type Remote interface {
	Logout(ctx context.Context) error
}

type Store struct {
	mu     sync.RWMutex
	kv     store.KV
	logger *zap.Logger
	cur    model.Session
}

// Open loads the persisted session from kv.
func Open(ctx context.Context, kv store.KV, logger *zap.Logger) (*Store, error) {
	if kv == nil {
		return nil, errors.New("session: nil store")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{kv: kv, logger: logger}

	token, err := kv.Get(ctx, KeyAccessToken)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	userID, err := kv.Get(ctx, KeyUserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	token = strings.TrimSpace(token)
	s.cur = model.Session{
		UserID:        strings.TrimSpace(userID),
		Token:         token,
		Authenticated: token != "",
	}
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	return s.Snapshot().Token
}

// Login records a session the caller already obtained from the server.
func (s *Store) Login(ctx context.Context, userID, token string) error {
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("session: empty token")
	}
	if err := s.kv.Put(ctx, map[string]string{KeyUserID: userID, KeyAccessToken: token}); err != nil {
		return err
	}
	s.set(model.Session{UserID: userID, Token: token, Authenticated: true})
	s.logger.Info("logged in", zap.String("user_id", userID))
	return nil
}

// Logout asks the server to invalidate the token, then forgets it locally.
//
// When the server call fails the local session is left untouched and the error is returned.
func (s *Store) Logout(ctx context.Context, remote Remote) error {
	if remote == nil {
		return errors.New("session: nil remote")
	}
	if err := remote.Logout(ctx); err != nil {
		s.logger.Error("logout failed", zap.Error(err))
		return err
	}
	return s.Clear(ctx)
}

// Clear forgets the session locally without contacting the server.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyUserID, KeyAccessToken); err != nil {
		return err
	}
	s.set(model.Session{})
	s.logger.Info("session cleared")
	return nil
}

func (s *Store) set(next model.Session) {
	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()
}

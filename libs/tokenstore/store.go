// Package tokenstore keeps the gateway's single bearer token in memory and
// mirrors it to a durable backend so a restart resumes the session.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Key is the name the token is stored under in every backend.
const Key = "auth_token"

// ErrNoToken is returned by backends when nothing is stored under Key.
var ErrNoToken = errors.New("tokenstore: no token stored")

// Backend is durable storage for one string value.
type Backend interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value string) error
	Delete(ctx context.Context) error
	Close() error
}

type Store struct {
	mu      sync.RWMutex
	token   string
	backend Backend
	sealer  *Sealer
	secret  string
	log     *slog.Logger
}

type Option func(*Store)

// WithSealer encrypts the durable copy with a key derived from secret.
func WithSealer(secret string) Option {
	return func(s *Store) { s.secret = secret }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.log = logger }
}

// Open hydrates a Store from backend before returning. A missing or
// unreadable token leaves the store anonymous; only backend failures are
// returned as errors.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.secret != "" {
		sealer, err := NewSealer([]byte(s.secret))
		if err != nil {
			return nil, err
		}
		s.sealer = sealer
	}

	stored, err := backend.Load(ctx)
	if errors.Is(err, ErrNoToken) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	token, err := s.unseal(stored)
	if err != nil {
		s.log.Warn("stored token unreadable, starting anonymous", "err", err)
		return s, nil
	}
	s.token = token
	return s, nil
}

// Token returns the current token and whether one is set.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set persists token and then makes it current. An empty token clears.
func (s *Store) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	stored, err := s.seal(token)
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, stored); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear forgets the token in memory and deletes the durable copy. The
// in-memory token is dropped even when the delete fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	if err := s.backend.Delete(ctx); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) seal(token string) (string, error) {
	if s.sealer == nil {
		return token, nil
	}
	return s.sealer.Seal(token)
}

func (s *Store) unseal(stored string) (string, error) {
	if s.sealer == nil || !IsSealed(stored) {
		return stored, nil
	}
	return s.sealer.Open(stored)
}

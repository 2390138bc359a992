package keygate

import (
	"context"
	"errors"
	"strings"
	"sync"

	"videowizard/internal/domain"
)

// Gate answers whether a generation API credential is currently held
// and hands it out to callers that passed the check. The credential is
// externally owned and may be set, replaced or cleared between any two
// operations, so callers must re-check per operation rather than cache
// a prior answer.
type Gate interface {
	HasCredential(ctx context.Context) bool
	Credential(ctx context.Context) (string, error)
}

// Store holds the Gemini API key in memory behind a lock. It is the
// process-wide credential source: the integrations endpoint writes it,
// every backend-facing operation reads it.
type Store struct {
	mu  sync.RWMutex
	key string
}

// NewStore returns a store seeded with the given key. An empty seed
// leaves the gate closed until a key is set.
func NewStore(seed string) *Store {
	return &Store{key: strings.TrimSpace(seed)}
}

// SetAPIKey replaces the stored key.
func (s *Store) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("gemini api key is required")
	}
	s.mu.Lock()
	s.key = key
	s.mu.Unlock()
	return nil
}

// Clear removes the stored key, closing the gate.
func (s *Store) Clear() {
	s.mu.Lock()
	s.key = ""
	s.mu.Unlock()
}

// HasCredential reports whether a key is currently configured.
func (s *Store) HasCredential(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != ""
}

// Credential returns the configured key or domain.ErrCredentialMissing.
func (s *Store) Credential(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == "" {
		return "", domain.ErrCredentialMissing
	}
	return s.key, nil
}

var _ Gate = (*Store)(nil)

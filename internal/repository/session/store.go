// Package session stores login sessions keyed by an opaque token.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Store persists principals behind session tokens.
type Store interface {
	Save(ctx context.Context, token string, principal models.Principal, ttl time.Duration) error
	Get(ctx context.Context, token string) (models.Principal, error)
	Delete(ctx context.Context, token string) error
}

type memoryEntry struct {
	principal models.Principal
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, token string, principal models.Principal, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memoryEntry{principal: principal, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (models.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return models.Principal{}, ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, token)
		return models.Principal{}, ErrNotFound
	}
	return entry.principal, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// Store persists sessions. Load returns apperrors.ErrSessionNotFound for
// unknown or expired ids.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Close() error
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps encoded sessions in process. Sessions are lost on
// restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
	writes  int
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// Load implements Store
func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	entry, ok := m.entries[id]
	if ok && !m.now().Before(entry.expires) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return decode(entry.data)
}

// Save implements Store
func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	data, err := s.encode()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = memoryEntry{data: data, expires: m.now().Add(ttl)}

	m.writes++
	if m.writes%256 == 0 {
		m.sweepLocked()
	}
	return nil
}

// Delete implements Store
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Close implements Store
func (m *MemoryStore) Close() error { return nil }

// Len returns the number of stored sessions, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) sweepLocked() {
	now := m.now()
	for id, entry := range m.entries {
		if !now.Before(entry.expires) {
			delete(m.entries, id)
		}
	}
}

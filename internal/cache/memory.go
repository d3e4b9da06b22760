package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryStore struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory builds an in-process store. Entries default to the supplied TTL
// when an upsert arrives without an expiry; stale entries are dropped lazily
// on lookup.
func NewMemory(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &memoryStore{ttl: ttl, entries: make(map[string]Entry)}
}

func (s *memoryStore) Lookup(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	if entry.Stale(time.Now()) {
		delete(s.entries, key)
		return Entry{}, false, nil
	}
	return cloneEntry(entry), true, nil
}

func (s *memoryStore) Upsert(_ context.Context, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.StoredAt.IsZero() {
		entry.StoredAt = time.Now().UTC()
	}
	if entry.ExpiresAt.IsZero() || entry.ExpiresAt.Before(entry.StoredAt) {
		entry.ExpiresAt = entry.StoredAt.Add(s.ttl)
	}
	s.entries[key] = cloneEntry(entry)
	return nil
}

func (s *memoryStore) DeletePrefix(_ context.Context, prefix string) error {
	if prefix == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	return nil
}

func (s *memoryStore) Size(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

func (s *memoryStore) Close(_ context.Context) error {
	return nil
}

func cloneEntry(in Entry) Entry {
	out := Entry{
		StoredAt:  in.StoredAt,
		ExpiresAt: in.ExpiresAt,
	}
	if len(in.Payload) > 0 {
		out.Payload = append(out.Payload[:0], in.Payload...)
	}
	return out
}

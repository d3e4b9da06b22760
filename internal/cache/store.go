package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is one cached catalog answer. Payload holds the response envelope
// exactly as it was sent to the first caller so repeat hits are byte
// identical.
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	StoredAt  time.Time       `json:"storedAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Stale reports whether the entry has outlived its TTL at the given instant.
func (e Entry) Stale(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store is a durable key-value store with per-entry expiry. Lookup is an
// exact-key probe that treats stale entries as absent; Upsert replaces any
// prior entry under the key, last writer wins.
type Store interface {
	Lookup(ctx context.Context, key string) (Entry, bool, error)
	Upsert(ctx context.Context, key string, entry Entry) error
	DeletePrefix(ctx context.Context, prefix string) error
	Size(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}

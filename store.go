package patina

import (
	"context"
	"sync"
)

// Store persists a single serialized configuration blob under a fixed key.
// Backend implementations live in the subpackages (file, consul, etcd, nats,
// zookeeper, redis, postgres, firestore).
type Store interface {
	// Load reads the blob. ok is false when no value has ever been saved;
	// that is not an error.
	Load(ctx context.Context) (data []byte, ok bool, err error)

	// Save durably writes the blob, replacing any previous value.
	Save(ctx context.Context, data []byte) error
}

// MemoryStore is an in-process Store. Useful for testing and for callers
// that handle durability themselves.
type MemoryStore struct {
	mu      sync.Mutex
	data    []byte
	present bool
	saveErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith creates a MemoryStore seeded with an initial blob.
func NewMemoryStoreWith(data []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), data...), present: true}
}

// Load returns the stored blob, or ok=false if nothing has been saved.
func (s *MemoryStore) Load(_ context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return nil, false, nil
	}
	return append([]byte(nil), s.data...), true, nil
}

// Save stores the blob, or returns the configured failure.
func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = append([]byte(nil), data...)
	s.present = true
	return nil
}

// FailSaves makes every subsequent Save return err. Pass nil to restore
// normal operation. Useful for exercising commit failure paths in tests.
func (s *MemoryStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Bytes returns a copy of the stored blob and whether one is present.
func (s *MemoryStore) Bytes() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return nil, false
	}
	return append([]byte(nil), s.data...), true
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

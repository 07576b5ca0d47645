// Package nats provides a patina.Store backed by a NATS JetStream KV key.
package nats

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Store persists the configuration blob under a single NATS KV key.
type Store struct {
	kv  jetstream.KeyValue
	key string
}

// Option configures a Store.
type Option func(*Store)

// New creates a Store for the given NATS KV key.
func New(kv jetstream.KeyValue, key string, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		key: key,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the key. An absent key is not an error; it reports ok=false.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	entry, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get key %s: %w", s.key, err)
	}
	return entry.Value(), true, nil
}

// Save writes the blob to the key.
func (s *Store) Save(ctx context.Context, data []byte) error {
	if _, err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to put key %s: %w", s.key, err)
	}
	return nil
}

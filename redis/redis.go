// Package redis provides a patina.Store backed by a Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store persists the configuration blob under a single Redis key.
type Store struct {
	client *redis.Client
	key    string
}

// Option configures a Store.
type Option func(*Store)

// New creates a Store for the given Redis key.
func New(client *redis.Client, key string, opts ...Option) *Store {
	s := &Store{
		client: client,
		key:    key,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the key. An absent key is not an error; it reports ok=false.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get key %s: %w", s.key, err)
	}
	return data, true, nil
}

// Save writes the blob to the key with no expiry.
func (s *Store) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", s.key, err)
	}
	return nil
}

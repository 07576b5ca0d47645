// Package consul provides a patina.Store backed by a Consul KV key.
package consul

import (
	"context"
	"fmt"

	"github.com/hashicorp/consul/api"
)

// Store persists the configuration blob under a single Consul KV key.
type Store struct {
	client *api.Client
	key    string
}

// Option configures a Store.
type Option func(*Store)

// New creates a Store for the given Consul KV key.
func New(client *api.Client, key string, opts ...Option) *Store {
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
	opts := (&api.QueryOptions{}).WithContext(ctx)
	pair, _, err := s.client.KV().Get(s.key, opts)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", s.key, err)
	}
	if pair == nil {
		return nil, false, nil
	}
	return pair.Value, true, nil
}

// Save writes the blob to the key.
func (s *Store) Save(ctx context.Context, data []byte) error {
	opts := (&api.WriteOptions{}).WithContext(ctx)
	_, err := s.client.KV().Put(&api.KVPair{Key: s.key, Value: data}, opts)
	if err != nil {
		return fmt.Errorf("failed to put key %s: %w", s.key, err)
	}
	return nil
}

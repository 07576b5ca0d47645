// Package etcd provides a patina.Store backed by an etcd key.
package etcd

import (
	"context"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Store persists the configuration blob under a single etcd key.
type Store struct {
	client *clientv3.Client
	key    string
}

// Option configures a Store.
type Option func(*Store)

// New creates a Store for the given etcd key.
func New(client *clientv3.Client, key string, opts ...Option) *Store {
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
	resp, err := s.client.Get(ctx, s.key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", s.key, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, false, nil
	}
	return resp.Kvs[0].Value, true, nil
}

// Save writes the blob to the key.
func (s *Store) Save(ctx context.Context, data []byte) error {
	if _, err := s.client.Put(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to put key %s: %w", s.key, err)
	}
	return nil
}

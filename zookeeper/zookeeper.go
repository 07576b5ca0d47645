// Package zookeeper provides a patina.Store backed by a ZooKeeper node.
package zookeeper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-zookeeper/zk"
)

// Store persists the configuration blob in a single ZooKeeper node.
// The node and its parents are created on first save.
type Store struct {
	conn *zk.Conn
	path string
}

// Option configures a Store.
type Option func(*Store)

// New creates a Store for the given ZooKeeper node path.
func New(conn *zk.Conn, path string, opts ...Option) *Store {
	s := &Store{
		conn: conn,
		path: path,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the node. An absent node is not an error; it reports ok=false.
func (s *Store) Load(_ context.Context) ([]byte, bool, error) {
	data, _, err := s.conn.Get(s.path)
	if err != nil {
		if errors.Is(err, zk.ErrNoNode) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get node %s: %w", s.path, err)
	}
	return data, true, nil
}

// Save writes the blob to the node, creating it (and any missing parents)
// if necessary.
func (s *Store) Save(_ context.Context, data []byte) error {
	exists, _, err := s.conn.Exists(s.path)
	if err != nil {
		return fmt.Errorf("failed to check node %s: %w", s.path, err)
	}

	if exists {
		if _, err := s.conn.Set(s.path, data, -1); err != nil {
			return fmt.Errorf("failed to set node %s: %w", s.path, err)
		}
		return nil
	}

	if err := s.ensureParents(); err != nil {
		return err
	}
	_, err = s.conn.Create(s.path, data, 0, zk.WorldACL(zk.PermAll))
	if err != nil {
		if errors.Is(err, zk.ErrNodeExists) {
			// Raced another writer; last writer wins.
			if _, err := s.conn.Set(s.path, data, -1); err != nil {
				return fmt.Errorf("failed to set node %s: %w", s.path, err)
			}
			return nil
		}
		return fmt.Errorf("failed to create node %s: %w", s.path, err)
	}
	return nil
}

// ensureParents creates any missing ancestors of the node path.
func (s *Store) ensureParents() error {
	parts := strings.Split(strings.Trim(s.path, "/"), "/")
	current := ""
	for _, part := range parts[:len(parts)-1] {
		current += "/" + part
		_, err := s.conn.Create(current, nil, 0, zk.WorldACL(zk.PermAll))
		if err != nil && !errors.Is(err, zk.ErrNodeExists) {
			return fmt.Errorf("failed to create node %s: %w", current, err)
		}
	}
	return nil
}

// Package firestore provides a patina.Store backed by a Firestore document.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store persists the configuration blob in one field of a single Firestore
// document.
type Store struct {
	client     *firestore.Client
	collection string
	document   string
	field      string
}

// Option configures a Store.
type Option func(*Store)

// WithField sets the document field holding the blob. Defaults to "value".
func WithField(field string) Option {
	return func(s *Store) {
		s.field = field
	}
}

// New creates a Store for the given Firestore document.
func New(client *firestore.Client, collection, document string, opts ...Option) *Store {
	s := &Store{
		client:     client,
		collection: collection,
		document:   document,
		field:      "value",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the document. An absent document is not an error; it reports
// ok=false.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	snap, err := s.client.Collection(s.collection).Doc(s.document).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get document %s/%s: %w", s.collection, s.document, err)
	}

	raw, err := snap.DataAt(s.field)
	if err != nil {
		return nil, false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("document %s/%s field %s is not bytes", s.collection, s.document, s.field)
	}
	return data, true, nil
}

// Save writes the blob to the document field, creating the document if
// necessary.
func (s *Store) Save(ctx context.Context, data []byte) error {
	_, err := s.client.Collection(s.collection).Doc(s.document).Set(ctx, map[string]any{
		s.field: data,
	})
	if err != nil {
		return fmt.Errorf("failed to set document %s/%s: %w", s.collection, s.document, err)
	}
	return nil
}

// Package memory is an in-process db.Store used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/streamflex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps documents per collection in insertion order.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]db.Document
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[string][]db.Document)}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Find returns projected copies of matching documents in insertion order.
func (s *Store) Find(ctx context.Context, collection string, q db.Query, projection []string) ([]db.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	if err := q.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []db.Document
	for _, doc := range s.collections[collection] {
		if q.Matches(doc) {
			out = append(out, db.Project(doc, projection))
		}
	}
	return out, nil
}

// InsertOne appends a shallow copy of doc.
func (s *Store) InsertOne(ctx context.Context, collection string, doc db.Document) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpInsertOne, Err: err}
	}
	if doc == nil {
		return &db.Error{Op: db.OpInsertOne, Err: fmt.Errorf("nil document: %w", db.ErrInvalidDocument)}
	}

	c := make(db.Document, len(doc))
	for k, v := range doc {
		c[k] = v
	}

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], c)
	s.mu.Unlock()
	return nil
}

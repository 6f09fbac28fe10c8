package title

import (
	"context"

	"github.com/kailas-cloud/streamflex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn      func(ctx context.Context, collection string, q db.Query, projection []string) ([]db.Document, error)
	insertOneFn func(ctx context.Context, collection string, doc db.Document) error
}

func (m *mockStore) Find(
	ctx context.Context, collection string, q db.Query, projection []string,
) ([]db.Document, error) {
	if m.findFn != nil {
		return m.findFn(ctx, collection, q, projection)
	}
	return nil, nil
}

func (m *mockStore) InsertOne(ctx context.Context, collection string, doc db.Document) error {
	if m.insertOneFn != nil {
		return m.insertOneFn(ctx, collection, doc)
	}
	return nil
}

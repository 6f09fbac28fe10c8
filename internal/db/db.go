package db

import (
	"context"
	"time"
)

// Document is a stored record keyed by field name.
type Document map[string]any

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	Finder
	Inserter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Finder reads documents matching a query.
// Only the projected fields are returned; the internal identifier never is.
// Result order is the backend's natural order.
type Finder interface {
	Find(ctx context.Context, collection string, q Query, projection []string) ([]Document, error)
}

// Inserter appends a single document.
type Inserter interface {
	InsertOne(ctx context.Context, collection string, doc Document) error
}

// Project returns a copy of doc holding only the listed fields that are present.
func Project(doc Document, projection []string) Document {
	out := make(Document, len(projection))
	for _, f := range projection {
		if f == IDField {
			continue
		}
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}

package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/kailas-cloud/streamflex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const disconnectTimeout = 5 * time.Second

// Config holds connection parameters for a MongoDB store.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store implements db.Store over a single MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore creates the process-wide client. The driver connects lazily,
// so an unreachable server surfaces on the first Ping, not here.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("uri is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database is required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// Ping checks connectivity against the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Find runs a filtered query with a projection that always excludes _id.
func (s *Store) Find(ctx context.Context, collection string, q db.Query, projection []string) ([]db.Document, error) {
	filter, err := FilterFromQuery(q)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	opts := options.Find().SetProjection(ProjectionFromFields(projection))
	cur, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	docs := make([]db.Document, len(raw))
	for i, m := range raw {
		docs[i] = fromBSON(m)
	}
	return docs, nil
}

// InsertOne stores a single document; MongoDB assigns the identifier.
func (s *Store) InsertOne(ctx context.Context, collection string, doc db.Document) error {
	if doc == nil {
		return &db.Error{Op: db.OpInsertOne, Err: fmt.Errorf("nil document: %w", db.ErrInvalidDocument)}
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, bson.M(doc)); err != nil {
		return &db.Error{Op: db.OpInsertOne, Err: err}
	}
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/streamflex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultKeyPrefix namespaces collection lists.
const DefaultKeyPrefix = "streamflex:"

// Config holds connection parameters for a Redis or Valkey store.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Store implements db.Store via rueidis. Each collection is one list of JSON
// documents; predicates are evaluated in process.
type Store struct {
	client rueidis.Client
	prefix string
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true,
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
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

// Find loads the whole collection list and filters it in process.
func (s *Store) Find(ctx context.Context, collection string, q db.Query, projection []string) ([]db.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	cmd := s.client.B().Lrange().Key(s.key(collection)).Start(0).Stop(-1).Build()
	items, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}

	var out []db.Document
	for i, raw := range items {
		var doc db.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, &db.Error{Op: db.OpLRange, Err: fmt.Errorf("decode item %d: %w", i, err)}
		}
		if q.Matches(doc) {
			out = append(out, db.Project(doc, projection))
		}
	}
	return out, nil
}

// InsertOne appends the JSON-encoded document to the collection list.
func (s *Store) InsertOne(ctx context.Context, collection string, doc db.Document) error {
	if doc == nil {
		return &db.Error{Op: db.OpInsertOne, Err: fmt.Errorf("nil document: %w", db.ErrInvalidDocument)}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return &db.Error{Op: db.OpInsertOne, Err: fmt.Errorf("%w: %w", db.ErrInvalidDocument, err)}
	}

	cmd := s.client.B().Rpush().Key(s.key(collection)).Element(string(data)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpRPush, Err: err}
	}
	return nil
}

func (s *Store) key(collection string) string {
	return s.prefix + collection
}

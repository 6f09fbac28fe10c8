package title

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/streamflex/internal/db"
	"github.com/kailas-cloud/streamflex/internal/domain"
	"github.com/kailas-cloud/streamflex/internal/domain/search/filter"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
)

// Stored field names.
const (
	fieldTitle       = "title"
	fieldKind        = "kind"
	fieldRating      = "rating"
	fieldGenres      = "genres"
	fieldReleasedAt  = "release_timestamp"
	fieldRecommended = "recommended"
)

// listProjection is the field set returned to callers; the store identifier is never included.
var listProjection = []string{fieldTitle, fieldKind, fieldRating, fieldGenres, fieldRecommended}

// store is the consumer interface for titles (ISP).
type store interface {
	Find(ctx context.Context, collection string, q db.Query, projection []string) ([]db.Document, error)
	InsertOne(ctx context.Context, collection string, doc db.Document) error
}

// Repo implements usecase/catalog.Repository.
type Repo struct {
	store      store
	collection string
}

// New creates a title repository over the given collection.
func New(s store, collection string) *Repo {
	return &Repo{store: s, collection: collection}
}

// Search passes the expression to the store and hydrates the projected documents.
func (r *Repo) Search(ctx context.Context, expr filter.Expression) ([]domtitle.Title, error) {
	q, err := queryFromExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("translate filter: %w", err)
	}

	docs, err := r.store.Find(ctx, r.collection, q, listProjection)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w: %w", r.collection, domain.ErrStoreUnavailable, err)
	}

	titles := make([]domtitle.Title, 0, len(docs))
	for _, d := range docs {
		titles = append(titles, parseDoc(d))
	}
	return titles, nil
}

// Insert writes a new title document.
func (r *Repo) Insert(ctx context.Context, t *domtitle.Title) error {
	if err := r.store.InsertOne(ctx, r.collection, buildDoc(t)); err != nil {
		return fmt.Errorf("insert into %s: %w: %w", r.collection, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// queryFromExpression maps each filter condition one-to-one onto a store condition.
func queryFromExpression(expr filter.Expression) (db.Query, error) {
	b := db.NewQuery()
	for _, c := range expr.Conditions() {
		switch c.Op() {
		case filter.OpEquals:
			b.Eq(c.Field(), c.Text())
		case filter.OpContainsFold:
			b.ContainsFold(c.Field(), c.Text())
		case filter.OpAtLeast:
			b.Gte(c.Field(), c.Number())
		default:
			return db.Query{}, fmt.Errorf("unsupported filter op %q on %q", c.Op(), c.Field())
		}
	}
	return b.Build()
}

func buildDoc(t *domtitle.Title) db.Document {
	genres := t.Genres()
	if genres == nil {
		genres = []string{}
	}
	return db.Document{
		fieldTitle:       t.Title(),
		fieldKind:        string(t.Kind()),
		fieldRating:      t.Rating(),
		fieldGenres:      genres,
		fieldReleasedAt:  t.ReleasedAt().UTC(),
		fieldRecommended: t.Recommended(),
	}
}

// parseDoc hydrates a Title from a stored document, tolerating missing fields.
func parseDoc(d db.Document) domtitle.Title {
	name, _ := d[fieldTitle].(string)
	kind, _ := d[fieldKind].(string)
	recommended, _ := d[fieldRecommended].(bool)

	return domtitle.Reconstruct(
		name,
		domtitle.Kind(kind),
		toFloat(d[fieldRating]),
		toStrings(d[fieldGenres]),
		toTime(d[fieldReleasedAt]),
		recommended,
	)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		// Older documents may hold a single genre as a plain string.
		return []string{t}
	}
	return []string{}
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

package catalog

import (
	"context"

	"github.com/kailas-cloud/streamflex/internal/domain/search/filter"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
)

// Repository defines the storage contract for catalog titles.
type Repository interface {
	Search(ctx context.Context, expr filter.Expression) ([]domtitle.Title, error)
	Insert(ctx context.Context, t *domtitle.Title) error
}

// Observer receives catalog activity for metrics.
type Observer interface {
	TitleCreated(kind domtitle.Kind)
	SearchCompleted(results int)
}

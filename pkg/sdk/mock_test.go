package streamflex

import (
	"context"

	"github.com/kailas-cloud/streamflex/internal/domain/search/filter"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
	cataloguc "github.com/kailas-cloud/streamflex/internal/usecase/catalog"
)

type mockCatalogUC struct {
	searchFn func(ctx context.Context, c filter.Criteria) ([]domtitle.Title, error)
	addFn    func(ctx context.Context, in cataloguc.NewTitle) (domtitle.Title, error)
}

func (m *mockCatalogUC) Search(ctx context.Context, c filter.Criteria) ([]domtitle.Title, error) {
	return m.searchFn(ctx, c)
}

func (m *mockCatalogUC) Add(ctx context.Context, in cataloguc.NewTitle) (domtitle.Title, error) {
	return m.addFn(ctx, in)
}

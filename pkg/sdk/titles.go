package streamflex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/streamflex/internal/domain/search/filter"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
	cataloguc "github.com/kailas-cloud/streamflex/internal/usecase/catalog"
)

// TitleService searches and adds catalog titles.
type TitleService struct {
	svc catalogUseCase
	obs *observer
}

// SearchOptions are the optional search inputs. Zero values impose no constraint,
// including a MinRating of 0.
type SearchOptions struct {
	Kind          Kind
	TitleContains string
	GenreContains string
	MinRating     float64
}

// Search returns every title matching opts in store order.
func (s *TitleService) Search(ctx context.Context, opts SearchOptions) (_ []Title, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err) }()

	crit := filter.Criteria{
		Kind:           filter.KindFilter(opts.Kind),
		TitleSubstring: opts.TitleContains,
		GenreSubstring: opts.GenreContains,
		MinRating:      opts.MinRating,
	}
	if err = crit.Validate(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	titles, err := s.svc.Search(ctx, crit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	s.obs.searchResults(len(titles))
	return fromDomainTitles(titles), nil
}

// Add validates and stores a new title. The returned title carries the
// derived recommended flag and creation timestamp.
func (s *TitleService) Add(ctx context.Context, in NewTitle) (_ Title, err error) {
	start := time.Now()
	defer func() { s.obs.observe("add", start, err) }()

	kind, err := domtitle.ParseKind(string(in.Kind))
	if err != nil {
		return Title{}, fmt.Errorf("add: %w", err)
	}

	t, err := s.svc.Add(ctx, cataloguc.NewTitle{
		Title:  in.Title,
		Kind:   kind,
		Rating: in.Rating,
		Genres: in.Genres,
	})
	if err != nil {
		return Title{}, fmt.Errorf("add: %w", err)
	}
	return fromDomainTitle(&t), nil
}

// Find starts a fluent search.
func (s *TitleService) Find() *SearchBuilder {
	return &SearchBuilder{svc: s}
}

// SearchBuilder is a fluent builder for title searches.
type SearchBuilder struct {
	svc  *TitleService
	opts SearchOptions
}

// Kind restricts results to movies or series.
func (b *SearchBuilder) Kind(k Kind) *SearchBuilder {
	b.opts.Kind = k
	return b
}

// TitleContains keeps titles whose name contains s, ignoring case.
func (b *SearchBuilder) TitleContains(s string) *SearchBuilder {
	b.opts.TitleContains = s
	return b
}

// GenreContains keeps titles with a genre containing s, ignoring case.
func (b *SearchBuilder) GenreContains(s string) *SearchBuilder {
	b.opts.GenreContains = s
	return b
}

// MinRating keeps titles rated at least r. Zero means no constraint.
func (b *SearchBuilder) MinRating(r float64) *SearchBuilder {
	b.opts.MinRating = r
	return b
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) ([]Title, error) {
	return b.svc.Search(ctx, b.opts)
}

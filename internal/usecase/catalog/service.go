package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/streamflex/internal/domain/search/filter"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
)

// NewTitle is the input for adding a catalog entry.
type NewTitle struct {
	Title  string
	Kind   domtitle.Kind
	Rating float64
	Genres []string
}

// Service searches and appends catalog titles.
type Service struct {
	repo     Repository
	observer Observer
	now      func() time.Time
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{
		repo:     repo,
		observer: nopObserver{},
		now:      time.Now,
	}
}

// WithObserver attaches a metrics observer.
func (s *Service) WithObserver(o Observer) *Service {
	if o != nil {
		s.observer = o
	}
	return s
}

// WithClock overrides the creation-time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Search builds a predicate from the criteria and returns every matching title
// in store order. The criteria are not validated here.
func (s *Service) Search(ctx context.Context, c filter.Criteria) ([]domtitle.Title, error) {
	titles, err := s.repo.Search(ctx, filter.Build(c))
	if err != nil {
		return nil, fmt.Errorf("search titles: %w", err)
	}
	s.observer.SearchCompleted(len(titles))
	return titles, nil
}

// Add validates and stores a new title stamped with the current time.
func (s *Service) Add(ctx context.Context, in NewTitle) (domtitle.Title, error) {
	t, err := domtitle.New(in.Title, in.Kind, in.Rating, in.Genres, s.now())
	if err != nil {
		return domtitle.Title{}, err
	}

	if err := s.repo.Insert(ctx, &t); err != nil {
		return domtitle.Title{}, fmt.Errorf("add title: %w", err)
	}
	s.observer.TitleCreated(t.Kind())
	return t, nil
}

type nopObserver struct{}

func (nopObserver) TitleCreated(domtitle.Kind) {}
func (nopObserver) SearchCompleted(int)        {}

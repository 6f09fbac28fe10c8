package streamflex

import (
	"time"

	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
)

// Kind is the content kind of a title.
type Kind string

// Title kinds. KindAny is accepted by searches only.
const (
	KindAny    Kind = "Any"
	KindMovie  Kind = Kind(domtitle.KindMovie)
	KindSeries Kind = Kind(domtitle.KindSeries)
)

// RecommendThreshold is the rating at or above which new titles are flagged as recommended.
const RecommendThreshold = domtitle.RecommendThreshold

// Title is a stored catalog entry.
type Title struct {
	Title       string
	Kind        Kind
	Rating      float64
	Genres      []string
	ReleasedAt  time.Time
	Recommended bool
}

// NewTitle is the input for adding a title.
type NewTitle struct {
	Title  string
	Kind   Kind
	Rating float64
	Genres []string
}

func fromDomainTitle(t *domtitle.Title) Title {
	return Title{
		Title:       t.Title(),
		Kind:        Kind(t.Kind()),
		Rating:      t.Rating(),
		Genres:      t.Genres(),
		ReleasedAt:  t.ReleasedAt(),
		Recommended: t.Recommended(),
	}
}

func fromDomainTitles(titles []domtitle.Title) []Title {
	out := make([]Title, len(titles))
	for i := range titles {
		out[i] = fromDomainTitle(&titles[i])
	}
	return out
}

package title

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/streamflex/internal/domain"
)

// RecommendThreshold is the rating at or above which a title is flagged as recommended on creation.
const RecommendThreshold = 8.5

// Rating bounds.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// MaxTitleLength is the maximum title length in characters.
const MaxTitleLength = 400

// Title is the catalog record (immutable value object).
type Title struct {
	title       string
	kind        Kind
	rating      float64
	genres      []string
	releasedAt  time.Time
	recommended bool
}

// New validates and creates a Title.
// The recommended flag is derived here once and never recomputed afterwards.
func New(name string, kind Kind, rating float64, genres []string, now time.Time) (Title, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Title{}, fmt.Errorf("title is required: %w", domain.ErrInvalidTitle)
	}
	if utf8.RuneCountInString(name) > MaxTitleLength {
		return Title{}, fmt.Errorf("title too long (max %d): %w", MaxTitleLength, domain.ErrInvalidTitle)
	}
	if !kind.Valid() {
		return Title{}, fmt.Errorf("unknown kind %q: %w", kind, domain.ErrInvalidTitle)
	}
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return Title{}, fmt.Errorf("rating %v out of range [%v, %v]: %w",
			rating, MinRating, MaxRating, domain.ErrInvalidTitle)
	}

	return Title{
		title:       name,
		kind:        kind,
		rating:      rating,
		genres:      cloneStrings(genres),
		releasedAt:  now,
		recommended: rating >= RecommendThreshold,
	}, nil
}

// Reconstruct creates a Title without validation (storage hydration).
// The stored recommended flag is kept as is.
func Reconstruct(
	name string, kind Kind, rating float64, genres []string,
	releasedAt time.Time, recommended bool,
) Title {
	return Title{
		title: name, kind: kind, rating: rating, genres: genres,
		releasedAt: releasedAt, recommended: recommended,
	}
}

// Title returns the display title.
func (t *Title) Title() string { return t.title }

// Kind returns the content kind.
func (t *Title) Kind() Kind { return t.kind }

// Rating returns the rating in [0, 10].
func (t *Title) Rating() float64 { return t.rating }

// Genres returns the genre labels in order.
func (t *Title) Genres() []string { return t.genres }

// ReleasedAt returns the creation timestamp.
func (t *Title) ReleasedAt() time.Time { return t.releasedAt }

// Recommended reports the flag captured at creation time.
func (t *Title) Recommended() bool { return t.recommended }

// ParseGenres splits a comma-separated genre list, trimming blanks and dropping empty labels.
func ParseGenres(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}

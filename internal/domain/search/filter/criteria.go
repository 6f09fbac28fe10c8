package filter

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/streamflex/internal/domain"
	"github.com/kailas-cloud/streamflex/internal/domain/title"
)

// KindFilter selects titles by kind. The zero value behaves as KindAny.
type KindFilter string

const (
	// KindAny imposes no kind constraint.
	KindAny KindFilter = "Any"
	// KindMovie keeps movies only.
	KindMovie KindFilter = KindFilter(title.KindMovie)
	// KindSeries keeps series only.
	KindSeries KindFilter = KindFilter(title.KindSeries)
)

// Criteria are the optional search inputs. Every field may be left at its zero value.
type Criteria struct {
	Kind           KindFilter
	TitleSubstring string
	GenreSubstring string
	MinRating      float64
}

// Validate checks values that arrive from untrusted input. Build never calls it.
func (c Criteria) Validate() error {
	switch c.Kind {
	case "", KindAny, KindMovie, KindSeries:
	default:
		return fmt.Errorf("kind must be one of Any, Movie, Series, got %q: %w", c.Kind, domain.ErrInvalidCriteria)
	}
	if math.IsNaN(c.MinRating) || c.MinRating < title.MinRating || c.MinRating > title.MaxRating {
		return fmt.Errorf("min_rating must be between %v and %v, got %v: %w",
			title.MinRating, title.MaxRating, c.MinRating, domain.ErrInvalidCriteria)
	}
	return nil
}

// Build maps criteria to a store predicate. Absent or default inputs add no condition.
// A MinRating of exactly 0 is treated as absent.
func Build(c Criteria) Expression {
	var conds []Condition

	if c.Kind != "" && c.Kind != KindAny {
		conds = append(conds, Equals(FieldKind, string(c.Kind)))
	}
	if c.TitleSubstring != "" {
		conds = append(conds, ContainsFold(FieldTitle, c.TitleSubstring))
	}
	if c.GenreSubstring != "" {
		conds = append(conds, ContainsFold(FieldGenres, c.GenreSubstring))
	}
	if c.MinRating > 0 {
		conds = append(conds, AtLeast(FieldRating, c.MinRating))
	}

	return NewExpression(conds...)
}

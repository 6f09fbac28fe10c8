package title

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/streamflex/internal/domain"
)

// Kind is the content kind of a catalog title.
type Kind string

const (
	// KindMovie is a feature film.
	KindMovie Kind = "Movie"
	// KindSeries is an episodic series.
	KindSeries Kind = "Series"
)

// Kinds lists every known kind in display order.
func Kinds() []Kind { return []Kind{KindMovie, KindSeries} }

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

func (k Kind) String() string { return string(k) }

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q: %w", s, domain.ErrInvalidTitle)
}

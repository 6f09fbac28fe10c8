package streamflex

import "github.com/kailas-cloud/streamflex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidTitle     = domain.ErrInvalidTitle
	ErrInvalidCriteria  = domain.ErrInvalidCriteria
	ErrStoreUnavailable = domain.ErrStoreUnavailable
)

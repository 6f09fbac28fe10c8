package domain

import "errors"

var (
	// ErrInvalidTitle signals a title that failed validation on creation.
	ErrInvalidTitle = errors.New("invalid title")
	// ErrInvalidCriteria signals search criteria outside the accepted ranges.
	ErrInvalidCriteria = errors.New("invalid search criteria")
	// ErrStoreUnavailable signals that the document store could not serve the request.
	ErrStoreUnavailable = errors.New("store unavailable")
)

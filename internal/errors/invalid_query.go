package errors

import "errors"

// InvalidQueryError represents a search request rejected before any
// network access, e.g. a metadata search with neither title nor author.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return e.Reason
}

// NewInvalidQueryError creates an InvalidQueryError with the given reason.
func NewInvalidQueryError(reason string) *InvalidQueryError {
	return &InvalidQueryError{Reason: reason}
}

// IsInvalidQueryError reports whether err is an InvalidQueryError (even when wrapped).
func IsInvalidQueryError(err error) bool {
	var queryErr *InvalidQueryError
	return errors.As(err, &queryErr)
}

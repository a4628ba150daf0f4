package errors

import (
	stdErrors "errors"
	"fmt"
)

// UpstreamRequestError represents a request the HTTP layer gave up on
// after exhausting its retry budget. The cause is the error from the
// final attempt.
type UpstreamRequestError struct {
	URL      string
	Attempts int
	Cause    error
}

func (e *UpstreamRequestError) Error() string {
	return fmt.Sprintf("request to %s failed after %d attempts: %v", e.URL, e.Attempts, e.Cause)
}

func (e *UpstreamRequestError) Unwrap() error {
	return e.Cause
}

// NewUpstreamRequestError creates an UpstreamRequestError for the given URL.
func NewUpstreamRequestError(url string, attempts int, cause error) *UpstreamRequestError {
	return &UpstreamRequestError{URL: url, Attempts: attempts, Cause: cause}
}

// IsUpstreamRequestError reports whether err is an UpstreamRequestError (even when wrapped).
func IsUpstreamRequestError(err error) bool {
	var reqErr *UpstreamRequestError
	return stdErrors.As(err, &reqErr)
}

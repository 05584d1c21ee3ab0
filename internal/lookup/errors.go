package lookup

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means the service answered but had no usable data
	ErrNotFound = errors.New("not found")
	// ErrIneligible means the word was never sent to the service
	ErrIneligible = errors.New("ineligible for lookup")
	// ErrMalformed means the response body did not have the expected shape
	ErrMalformed = errors.New("malformed response")
)

// StatusError is a non-2xx answer from a lookup service
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, http.StatusText(e.Code))
}

// Retryable reports whether another attempt may succeed
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

package omeda

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates a 2xx response body that could not be
// decoded into a match list.
var ErrMalformedResponse = errors.New("malformed API response")

// APIError represents a non-2xx response from the Omeda API. The caller
// treats every status the same way: the current window's pagination stops.
type APIError struct {
	Epoch      uint64
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("omeda API error for epoch %d (status %d): %s",
		e.Epoch, e.StatusCode, e.Status)
}

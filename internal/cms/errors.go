package cms

import (
	"errors"
	"fmt"
)

// APIError is a failure reported by the backend: either a structured error
// envelope with a message, or a bare HTTP error status. A transport failure
// (no response received at all) is never an APIError.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("cms API: HTTP %d", e.Status)
}

// AsAPIError unwraps err to an *APIError if the backend reported the failure.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

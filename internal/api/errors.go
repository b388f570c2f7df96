package api

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures to reach the backend at all (dial, timeout,
// undecodable body). Match with errors.Is.
var ErrTransport = errors.New("transport error")

// ServerError is a non-2xx reply from the backend.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsServerError reports whether err carries a backend-reported failure.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

package fetch

import (
	"errors"
	"fmt"
)

// TransportError wraps a failed remote call.
type TransportError struct {
	// Op is the remote operation: "dataset" or "records".
	Op string

	// Identity is the key identity of a records call.
	Identity string

	// Err is the underlying failure.
	Err error
}

func (e *TransportError) Error() string {
	if e.Identity != "" {
		return fmt.Sprintf("fetch %s (key=%s): %v", e.Op, e.Identity, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport returns true if err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusError is returned by HTTPSource for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

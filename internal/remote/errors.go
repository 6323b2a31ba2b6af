package remote

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a resource that vanished server-side. Callers
// isolate it per product and move on.
var ErrNotFound = errors.New("remote resource not found")

// NetworkError reports a transport-level failure: the remote service
// was unreachable. Recovered by leaving local state unsynchronized.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("remote %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a non-2xx response from the remote service.
type ServerError struct {
	Op     string
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("remote %s: server returned %d: %s", e.Op, e.Status, e.Body)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package api

import (
	"errors"
	"fmt"
)

// ErrTimeout reports that the remote API did not answer within the client
// timeout.
var ErrTimeout = errors.New("request timed out")

// HTTPError is a non-2xx response. Message carries the server-provided error
// text when the body had one.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NetworkError is a transport-level failure: the request never produced an
// HTTP response (connection refused, DNS failure, reset).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == status
}

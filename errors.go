package verbiage

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload marks a payload that is null, empty, an array or not an
// object. Such payloads are dropped and the cached value is kept; the error is
// only reported through the diagnostics hook, never returned from Sync.
var ErrMalformedPayload = errors.New("malformed payload")

// TransportError indicates a failed remote fetch (network failure, non-2xx
// status, undecodable body).
type TransportError struct {
	Op         string // "last-update" or "generate"
	URL        string
	StatusCode int // Zero when no response was received
	Cause      error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("transport error: %s", e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// StoreError indicates a failed write or removal in the persistent store.
type StoreError struct {
	Op    string // "set" or "remove"
	Key   string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error: %s %s: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("store error: %s %s", e.Op, e.Key)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// IsTransportError reports whether err wraps a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

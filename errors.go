package foundations

import (
	"errors"
	"fmt"
)

// Common errors returned by the Foundations client.
var (
	// ErrNotFound is returned when a record does not exist on the
	// remote store.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed is returned when operating on a closed cache store.
	ErrStoreClosed = errors.New("cache store is closed")

	// ErrNoGateway is returned when a remote operation is attempted
	// without a configured gateway.
	ErrNoGateway = errors.New("no remote gateway configured")

	// ErrInvalidImport is returned when an import payload is neither a
	// property array nor an export object.
	ErrInvalidImport = errors.New("invalid import format")

	// ErrInvalidStatus is returned when an unrecognised property status
	// is provided.
	ErrInvalidStatus = errors.New("invalid property status")
)

// ValidationError is returned when configuration validation fails.
// Extractable via errors.As().
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// GatewayError is returned when a remote gateway call fails, carrying
// the HTTP status when one was received. Extractable via errors.As().
// Supports Unwrap().
type GatewayError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway: %s failed (status %d): %v", e.Operation, e.StatusCode, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// IsNotFound reports whether err represents a missing remote record.
// The queue replay and update fallback paths key off this.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var ge *GatewayError
	return errors.As(err, &ge) && ge.StatusCode == 404
}

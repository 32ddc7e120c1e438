package foundations_test

import (
	"errors"
	"fmt"
	"testing"

	foundations "github.com/Jcblmao/Foundations"
)

func TestSentinelErrors_ErrorsIs(t *testing.T) {
	tests := []struct {
		name     string
		sentinel error
	}{
		{"ErrNotFound", foundations.ErrNotFound},
		{"ErrStoreClosed", foundations.ErrStoreClosed},
		{"ErrNoGateway", foundations.ErrNoGateway},
		{"ErrInvalidImport", foundations.ErrInvalidImport},
		{"ErrInvalidStatus", foundations.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("operation failed: %w", tt.sentinel)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(wrapped, %v) = false, want true", tt.sentinel)
			}
		})
	}
}

func TestValidationError_ErrorsAs(t *testing.T) {
	err := &foundations.ValidationError{Field: "CachePath", Message: "required: path to local cache database"}

	var ve *foundations.ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("errors.As failed to extract ValidationError")
	}
	if ve.Field != "CachePath" {
		t.Errorf("Field = %q, want %q", ve.Field, "CachePath")
	}
}

func TestValidationError_ErrorFormat(t *testing.T) {
	err := &foundations.ValidationError{Field: "CachePath", Message: "required: path to local cache database"}
	want := "config: CachePath: required: path to local cache database"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestGatewayError_ErrorsAs(t *testing.T) {
	inner := errors.New("connection refused")
	err := &foundations.GatewayError{Operation: "create", StatusCode: 503, Err: inner}

	var ge *foundations.GatewayError
	if !errors.As(err, &ge) {
		t.Fatal("errors.As failed to extract GatewayError")
	}
	if ge.Operation != "create" {
		t.Errorf("Operation = %q, want %q", ge.Operation, "create")
	}
	if ge.StatusCode != 503 {
		t.Errorf("StatusCode = %d, want %d", ge.StatusCode, 503)
	}
}

func TestGatewayError_ErrorFormat(t *testing.T) {
	inner := errors.New("connection refused")
	err := &foundations.GatewayError{Operation: "create", StatusCode: 503, Err: inner}
	want := "gateway: create failed (status 503): connection refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestGatewayError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &foundations.GatewayError{Operation: "create", StatusCode: 503, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is(gatewayErr, inner) = false, want true (Unwrap should expose inner)")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", foundations.ErrNotFound, true},
		{"wrapped sentinel", fmt.Errorf("update: %w", foundations.ErrNotFound), true},
		{"gateway 404", &foundations.GatewayError{Operation: "delete", StatusCode: 404, Err: errors.New("Not Found")}, true},
		{"gateway 500", &foundations.GatewayError{Operation: "create", StatusCode: 500, Err: errors.New("Internal Server Error")}, false},
		{"unrelated", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := foundations.IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

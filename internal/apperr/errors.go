// Package apperr defines the application error taxonomy.
//
// Validation errors carry per-field detail and are safe to return to the
// caller verbatim. Store and external-service errors wrap the underlying
// cause for server-side logging; handlers translate them into generic
// response bodies so internal diagnostics never leak.
package apperr

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrNotFound signals a point lookup for an unknown id.
var ErrNotFound = errors.New("not found")

// ValidationError enumerates every violated constraint of a payload.
type ValidationError struct {
	// Fields maps field names to violation messages. ozzo's
	// validation.Errors marshals to a {"field": "message"} JSON object.
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// StoreError wraps an infrastructure failure from the note store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ExternalServiceError wraps a failure of an outbound collaborator call.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// AsValidation returns the *ValidationError inside err, or nil.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

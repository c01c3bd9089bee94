package models

import "fmt"

// ValidationError reports a malformed domain object. It is surfaced to the
// caller of the write operation, never silently corrected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NotFoundError reports a missing conversation, post or user.
type NotFoundError struct {
	Resource string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s was not found: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("%s was not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// AuthorizationError means the resource exists but the caller may not touch
// it. Kept distinct from NotFoundError so clients can tell the two apart.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

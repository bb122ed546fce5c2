package application

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAuthRequired is returned when an operation needs a Google login first.
	ErrAuthRequired = errors.New("application: google authorization required")
	// ErrInvalidCredentials is returned when a supplied password does not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrNoEvents is returned when a monthly summary has nothing to report.
	ErrNoEvents = errors.New("application: no events for month")
	// ErrUpstreamFetch is returned when Google Sheets cannot be read.
	ErrUpstreamFetch = errors.New("application: upstream fetch failed")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

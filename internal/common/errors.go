// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
)

// Common application errors.
var (
	// Session errors.
	ErrNoToken      = errors.New("not logged in")
	ErrTokenExpired = errors.New("session expired")

	// Storage errors.
	ErrNotFound = errors.New("not found")

	// API errors.
	ErrNetwork = errors.New("network error")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Kind classifies a boundary-crossing failure so every screen can surface it
// the same way.
type Kind string

// Error kinds.
const (
	KindValidation      Kind = "validation"
	KindAuth            Kind = "auth"
	KindUnauthenticated Kind = "unauthenticated"
	KindNetwork         Kind = "network"
	KindHTTP            Kind = "http"
	KindSchema          Kind = "schema"
	KindUnknown         Kind = "unknown"
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// ValidationError carries per-field messages from client-side form checks.
// It is raised before any network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for a field, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AuthError is returned when the server rejects credentials on login or
// registration.
type AuthError struct {
	Err     error
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NetworkError wraps transport failures: no connectivity, timeouts, or a
// cancelled request.
type NetworkError struct {
	Err    error
	Method string
	Path   string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNetwork) match every NetworkError.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// HTTPError is a 4xx or 5xx response.
type HTTPError struct {
	Method string
	Path   string
	Body   string
	Status int
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, body)
}

// SchemaError is returned when a response does not have the shape the client
// expects.
type SchemaError struct {
	Err    error
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "unexpected response: " + e.Reason
	}
	return fmt.Sprintf("unexpected response: %s: %s", e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Classify maps err onto an error Kind.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	var authErr *AuthError
	var httpErr *HTTPError
	var schemaErr *SchemaError
	var netErr net.Error

	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.Is(err, ErrNoToken), errors.Is(err, ErrTokenExpired):
		return KindUnauthenticated
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &httpErr):
		if httpErr.Status == 401 {
			return KindUnauthenticated
		}
		return KindHTTP
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.Is(err, ErrNetwork),
		errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// UserMessage returns the message shown in the blocking alert for err.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	switch Classify(err) {
	case KindValidation:
		return err.Error()
	case KindAuth:
		var authErr *AuthError
		errors.As(err, &authErr)
		return authErr.Message
	case KindUnauthenticated:
		return "Please log in again."
	case KindNetwork:
		return "Cannot reach the server. Check your connection and try again."
	case KindHTTP:
		return "The server could not complete the request. Please try again."
	case KindSchema:
		return "The server sent data this app does not understand."
	default:
		return "Something went wrong."
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError indicates malformed input. No state was changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError indicates a referenced question, user, test or result is absent.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// UpstreamServiceError indicates an LLM provider or the persistence backend
// is unreachable or failing.
type UpstreamServiceError struct {
	Service string
	Err     error
}

func (e *UpstreamServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s unavailable", e.Service)
}

func (e *UpstreamServiceError) Unwrap() error { return e.Err }

// AuthorizationError indicates a missing or expired credential, or a role
// that is not allowed to perform the action.
type AuthorizationError struct {
	Reason string
	// Forbidden is true when the caller is authenticated but lacks the role.
	Forbidden bool
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized: %s", e.Reason)
}

// Validation builds a *ValidationError.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a *NotFoundError.
func NotFound(resource string, id any) error {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

// Upstream builds an *UpstreamServiceError.
func Upstream(service string, err error) error {
	return &UpstreamServiceError{Service: service, Err: err}
}

// Unauthorized builds an *AuthorizationError for a missing or bad credential.
func Unauthorized(reason string) error {
	return &AuthorizationError{Reason: reason}
}

// Forbidden builds an *AuthorizationError for an insufficient role.
func Forbidden(reason string) error {
	return &AuthorizationError{Reason: reason, Forbidden: true}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		upstream   *UpstreamServiceError
		auth       *AuthorizationError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &auth):
		if auth.Forbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case errors.As(err, &upstream):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

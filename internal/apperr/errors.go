// Package apperr defines the error taxonomy shared by services and handlers.
// Services return these types; the HTTP layer maps them to status codes once.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a missing or invalid field. Extra is flattened into the
// response body next to the message.
type ValidationError struct {
	Message string
	Extra   map[string]any
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports a duplicate unique key.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnauthorizedError reports a missing or invalid session.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// ForbiddenError reports an authenticated principal without the required role.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// InternalError wraps an unexpected failure from the data layer.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// Validation builds a ValidationError.
func Validation(msg string) error { return &ValidationError{Message: msg} }

// ValidationWith builds a ValidationError carrying extra response fields.
func ValidationWith(msg string, extra map[string]any) error {
	return &ValidationError{Message: msg, Extra: extra}
}

// NotFound builds a NotFoundError.
func NotFound(msg string) error { return &NotFoundError{Message: msg} }

// Conflict builds a ConflictError.
func Conflict(msg string) error { return &ConflictError{Message: msg} }

// Unauthorized builds an UnauthorizedError.
func Unauthorized(msg string) error { return &UnauthorizedError{Message: msg} }

// Forbidden builds a ForbiddenError.
func Forbidden(msg string) error { return &ForbiddenError{Message: msg} }

// Internal wraps err as an InternalError with a user-facing message.
func Internal(msg string, err error) error { return &InternalError{Message: msg, Err: err} }

// StatusCode maps an error to its HTTP status. Unknown errors are 500.
func StatusCode(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		conflict     *ConflictError
		unauthorized *UnauthorizedError
		forbidden    *ForbiddenError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Body renders the JSON error payload: {"error": msg, "details"?: ...} plus any
// validation extras.
func Body(err error, fallback string) map[string]any {
	body := map[string]any{}

	var (
		validation *ValidationError
		internal   *InternalError
	)
	switch {
	case errors.As(err, &validation):
		for k, v := range validation.Extra {
			body[k] = v
		}
		body["error"] = validation.Message
	case errors.As(err, &internal):
		body["error"] = internal.Message
		if internal.Err != nil {
			body["details"] = internal.Err.Error()
		}
	case StatusCode(err) == http.StatusInternalServerError:
		body["error"] = fallback
		if err != nil {
			body["details"] = err.Error()
		}
	default:
		body["error"] = err.Error()
	}

	return body
}

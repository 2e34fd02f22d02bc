package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrMalformedQuery is returned when a query parameter holds invalid JSON.
	// It is wrapped with the name of the offending parameter.
	ErrMalformedQuery = errors.New("malformed query parameter")
	// ErrInvalidID is returned when an identifier fails format validation.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidDeadline is returned when a deadline cannot be interpreted
	// as epoch milliseconds or a date string.
	ErrInvalidDeadline = errors.New("invalid deadline")
	// ErrInvalidAssignee is returned when an assignee id is malformed.
	ErrInvalidAssignee = errors.New("invalid assignee id")
	// ErrAssigneeNotFound is returned when the assignee id references no user.
	ErrAssigneeNotFound = errors.New("assigned user not found")
	// ErrDuplicateEmail is returned when a user email is already taken.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound is returned when a task is not found.
	ErrTaskNotFound = errors.New("task not found")
)

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Sentinels may arrive
// wrapped (malformed-query errors carry the parameter name), so matching
// uses errors.Is rather than equality.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMalformedQuery):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MALFORMED_QUERY")
	case errors.Is(err, ErrInvalidID):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ID")
	case errors.Is(err, ErrInvalidDeadline):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DEADLINE")
	case errors.Is(err, ErrInvalidAssignee):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ASSIGNEE")
	case errors.Is(err, ErrAssigneeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ASSIGNEE_NOT_FOUND")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Error is the canonical error the service layer returns to handlers.
// Status drives the HTTP response code; Detail is always safe to expose.
type Error struct {
	Status int               `json:"-"`
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`

	// internal carries the underlying cause for logs; never serialized.
	internal error
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.internal }

// WithCause attaches the underlying error for structured logging.
func (e *Error) WithCause(err error) *Error {
	e.internal = err
	return e
}

func NewValidation(detail string, fields map[string]string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "validation_error", Detail: detail, Fields: fields}
}

func NewNotFound(detail string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Detail: detail}
}

// NewConflict reports a uniqueness violation; field names the offending column.
func NewConflict(detail, field string) *Error {
	return &Error{
		Status: http.StatusConflict,
		Code:   "conflict",
		Detail: detail,
		Fields: map[string]string{field: "duplicate"},
	}
}

func NewRateLimited(detail string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Code: "rate_limited", Detail: detail}
}

func NewUnauthorized(detail string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Detail: detail}
}

func NewForbidden(detail string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "forbidden", Detail: detail}
}

// NewInternal wraps an unexpected failure. The cause is kept for the logs;
// the client only ever sees the generic detail.
func NewInternal(err error) *Error {
	return &Error{
		Status:   http.StatusInternalServerError,
		Code:     "internal_error",
		Detail:   "Erro interno do servidor",
		internal: err,
	}
}

// From normalizes any error into an *Error. Already-typed errors pass
// through; everything else becomes an internal error.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternal(err)
}

package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrConfiguration    = errors.New("configuration error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUpstream         = errors.New("identity provider error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource already exists")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidInput     = errors.New("invalid input")
)

// AppError carries an error kind together with the message that is safe to
// show to the caller and, when present, the provider payload behind it.
type AppError struct {
	Code    string
	Message string
	// Detail is either the provider's error payload (json.RawMessage) or a
	// kind-specific value such as the list of roles already held.
	Detail any
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail returns a copy of e carrying detail.
func (e *AppError) WithDetail(detail any) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// Constructors
func Configuration(msg string) *AppError {
	return &AppError{Code: "CONFIGURATION_ERROR", Message: msg, Err: ErrConfiguration}
}

func PermissionDenied(msg string) *AppError {
	return &AppError{Code: "PERMISSION_DENIED", Message: msg, Err: ErrPermissionDenied}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

// Upstream wraps cause so both errors.Is(err, ErrUpstream) and the transport
// error remain reachable.
func Upstream(msg string, cause error) *AppError {
	if cause == nil {
		return &AppError{Code: "UPSTREAM_ERROR", Message: msg, Err: ErrUpstream}
	}
	return &AppError{Code: "UPSTREAM_ERROR", Message: msg, Err: fmt.Errorf("%w: %w", ErrUpstream, cause)}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func AlreadyExists(msg string) *AppError {
	return &AppError{Code: "ALREADY_EXISTS", Message: msg, Err: ErrAlreadyExists}
}

func InvalidInput(msg string) *AppError {
	return &AppError{Code: "INVALID_INPUT", Message: msg, Err: ErrInvalidInput}
}

// As is a shorthand for errors.As with an *AppError target.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

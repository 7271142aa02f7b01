package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "identity-gateway/pkg/errors"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Detail    any    `json:"detail,omitempty"`
	RequestID string `json:"request_id"`
}

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps error kinds to HTTP status codes, forwards provider detail on client
// errors only, and logs errors with request context.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := statusFor(err)
	var detail any
	var errCode string

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else if appErr, ok := apperrors.As(err); ok {
		errCode = appErr.Code
		if code < http.StatusInternalServerError {
			message = appErr.Message
			detail = appErr.Detail
		}
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}

	if code >= http.StatusInternalServerError {
		if errors.Is(err, apperrors.ErrConfiguration) {
			c.Logger().Errorf("CONFIGURATION ERROR request_id=%s: %v", requestID, err)
		} else {
			c.Logger().Errorf("internal_server_error request_id=%s status=%d: %v", requestID, code, err)
		}
		// Don't expose internal errors to clients
		detail = nil
	} else {
		c.Logger().Warnf("client_error request_id=%s status=%d: %v", requestID, code, err)
	}

	if err := c.JSON(code, errorResponse{Error: message, Code: errCode, Detail: detail, RequestID: requestID}); err != nil {
		c.Logger().Error(err)
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "Resource already exists"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, "Already exists"
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway, "Identity provider unavailable"
	case errors.Is(err, apperrors.ErrConfiguration):
		return http.StatusInternalServerError, "Internal server error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

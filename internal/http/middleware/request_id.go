package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"identity-gateway/internal/audit"
)

// RequestIDContextKey is the echo context key for the request ID
const RequestIDContextKey = "request_id"

// RequestID takes the caller's X-Request-ID or generates one, echoes it in
// the response and attaches it to the request context for audit events.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Set(RequestIDContextKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.SetRequest(req.WithContext(audit.WithActor(req.Context(), audit.Actor{RequestID: requestID})))

			return next(c)
		}
	}
}

// GetRequestID extracts the request ID from the context
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}

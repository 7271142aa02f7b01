package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"identity-gateway/internal/audit"
	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac"
	apperrors "identity-gateway/pkg/errors"
)

// SessionResolver validates a session token with the identity provider.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*kratos.Session, error)
}

type Middleware struct {
	sessions SessionResolver
}

func NewMiddleware(sessions SessionResolver) *Middleware {
	return &Middleware{sessions: sessions}
}

// RequireSession resolves the bearer token into the caller's identity and
// roles and stores them in the echo context.
func (m *Middleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return apperrors.Unauthorized(msgMissingAuthorization)
			}

			req := c.Request()
			session, err := m.sessions.ResolveSession(req.Context(), token)
			if err != nil {
				return err
			}

			identityID := ""
			roles := []rbac.Role{}
			if session.Identity != nil {
				identityID = session.Identity.ID
				roles = rbac.Roles(session.Identity.Traits.UserRole)
			}

			c.Set(ContextKeySessionToken, token)
			c.Set(ContextKeyIdentityID, identityID)
			c.Set(ContextKeyRoles, roles)

			actor, _ := audit.ActorFromContext(req.Context())
			actor.ID = identityID
			if actor.RequestID == "" {
				actor.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			c.SetRequest(req.WithContext(audit.WithActor(req.Context(), actor)))

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

// BearerToken returns the bearer token of the request, if any.
func BearerToken(c echo.Context) string {
	return extractBearerToken(c)
}

func GetSessionToken(c echo.Context) (string, error) {
	token, ok := c.Get(ContextKeySessionToken).(string)
	if !ok || token == "" {
		return "", apperrors.Unauthorized(msgUserNotAuthenticated)
	}
	return token, nil
}

func GetIdentityID(c echo.Context) string {
	id, _ := c.Get(ContextKeyIdentityID).(string)
	return id
}

func GetRoles(c echo.Context) ([]rbac.Role, error) {
	v := c.Get(ContextKeyRoles)
	if v == nil {
		return nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	roles, ok := v.([]rbac.Role)
	if !ok {
		return nil, apperrors.Configuration(msgInvalidRolesCtx)
	}
	return roles, nil
}

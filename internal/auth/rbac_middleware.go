package auth

import (
	"errors"

	"github.com/labstack/echo/v4"

	"identity-gateway/internal/rbac"
	apperrors "identity-gateway/pkg/errors"
)

// Authorizer decides resource access for a role set. *rbac.Authorizer
// implements it.
type Authorizer interface {
	Authorize(resource rbac.Resource, roles []rbac.Role) error
}

type RBACMiddleware struct {
	authorizer Authorizer
}

func NewRBACMiddleware(authorizer Authorizer) *RBACMiddleware {
	return &RBACMiddleware{authorizer: authorizer}
}

// RequirePermission lets the request through when the session roles set by
// RequireSession grant access to resource.
func (m *RBACMiddleware) RequirePermission(resource rbac.Resource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, err := GetRoles(c)
			if err != nil {
				return err
			}

			if err := m.authorizer.Authorize(resource, roles); err != nil {
				if errors.Is(err, apperrors.ErrConfiguration) {
					c.Logger().Errorf("rbac: CONFIGURATION ERROR resource=%s: %v", resource, err)
				}
				return err
			}

			return next(c)
		}
	}
}

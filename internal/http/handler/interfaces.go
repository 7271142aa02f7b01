package handler

import (
	"context"

	"identity-gateway/internal/gateway"
	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type Authenticator interface {
	Register(ctx context.Context, in gateway.RegistrationInput) (*gateway.RegistrationResult, error)
	Login(ctx context.Context, username, password string) (*gateway.LoginResult, error)
	Logout(ctx context.Context, token string) (string, error)
}

// IdentityHandler interfaces
type IdentityAdmin interface {
	AddRoles(ctx context.Context, identityID string, roles []string) (*gateway.RoleUpdateResult, error)
	DeleteIdentity(ctx context.Context, id string) (*kratos.RawResponse, error)
}

type PermissionChecker interface {
	IsAuthorized(resource rbac.Resource, roles []rbac.Role) (bool, error)
	Resources() []rbac.Resource
}

package gateway

import (
	"context"
	"net/http"

	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac"
	apperrors "identity-gateway/pkg/errors"
)

// ResolveRoles returns the roles of the identity behind token. An identity
// without a userrole trait has no roles.
func (g *Gateway) ResolveRoles(ctx context.Context, token string) ([]rbac.Role, error) {
	s, err := g.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.Identity == nil {
		return []rbac.Role{}, nil
	}
	return rbac.Roles(s.Identity.Traits.UserRole), nil
}

// ResolveSession validates token with the provider. 401 becomes an
// UnauthorizedError carrying the provider detail; any other failure is an
// UpstreamError.
func (g *Gateway) ResolveSession(ctx context.Context, token string) (*kratos.Session, error) {
	s, err := g.provider.WhoAmI(ctx, token)
	if err != nil {
		se, ok := kratos.AsStatusError(err)
		if ok && se.StatusCode == http.StatusUnauthorized {
			return nil, apperrors.Unauthorized(msgSessionInvalid).WithDetail(se.ErrorDetail())
		}
		return nil, upstream(msgProviderUnavailable, err)
	}
	if !s.Active {
		return nil, apperrors.Unauthorized(msgSessionInactive)
	}
	return s, nil
}

// Logout revokes the session behind token.
func (g *Gateway) Logout(ctx context.Context, token string) (string, error) {
	err := g.provider.Logout(ctx, token)
	if err == nil {
		return msgLogoutSuccess, nil
	}
	if se, ok := kratos.AsStatusError(err); ok && se.StatusCode == http.StatusBadRequest {
		return "", apperrors.Unauthorized(msgSessionInvalid).WithDetail(se.ErrorDetail())
	}
	return "", upstream(msgProviderUnavailable, err)
}

type LoginResult struct {
	Details string `json:"details"`
	Token   string `json:"token"`
}

// Login exchanges credentials for a session token. Every rejection of the
// submission is reported as the same UnauthorizedError.
func (g *Gateway) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	flow, err := g.provider.InitLoginFlow(ctx)
	if err != nil {
		return nil, upstream(msgProviderUnavailable, err)
	}

	res, err := g.provider.SubmitLogin(ctx, flow, username, password)
	if err != nil {
		if _, ok := kratos.AsStatusError(err); ok {
			return nil, apperrors.Unauthorized(msgInvalidCredential)
		}
		return nil, upstream(msgProviderUnavailable, err)
	}

	return &LoginResult{Details: msgLoginSuccess, Token: res.SessionToken}, nil
}

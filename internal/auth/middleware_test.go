package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-gateway/internal/audit"
	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac"
	"identity-gateway/internal/rbac/presets"
	apperrors "identity-gateway/pkg/errors"
)

type stubSessions map[string]*kratos.Session

func (s stubSessions) ResolveSession(_ context.Context, token string) (*kratos.Session, error) {
	if sess, ok := s[token]; ok {
		return sess, nil
	}
	return nil, apperrors.Unauthorized("session is invalid or expired")
}

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(headerAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"Bearer a b", ""},
		{"", ""},
	}
	for _, tt := range tests {
		c, _ := newContext(tt.header)
		assert.Equal(t, tt.want, extractBearerToken(c), tt.header)
	}
}

func TestRequireSession(t *testing.T) {
	sessions := stubSessions{
		"good": {Active: true, Identity: &kratos.Identity{ID: "id-1", Traits: kratos.Traits{UserRole: kratos.RoleList{"VachanAdmin"}}}},
		"bare": {Active: true, Identity: &kratos.Identity{ID: "id-2"}},
	}
	mw := NewMiddleware(sessions).RequireSession()

	t.Run("valid session", func(t *testing.T) {
		c, _ := newContext("Bearer good")
		var actor audit.Actor
		err := mw(func(c echo.Context) error {
			actor, _ = audit.ActorFromContext(c.Request().Context())
			return nil
		})(c)
		require.NoError(t, err)

		roles, err := GetRoles(c)
		require.NoError(t, err)
		assert.Equal(t, []rbac.Role{"VachanAdmin"}, roles)
		assert.Equal(t, "id-1", GetIdentityID(c))
		assert.Equal(t, "id-1", actor.ID)

		token, err := GetSessionToken(c)
		require.NoError(t, err)
		assert.Equal(t, "good", token)
	})

	t.Run("no role trait", func(t *testing.T) {
		c, _ := newContext("Bearer bare")
		require.NoError(t, mw(func(echo.Context) error { return nil })(c))
		roles, err := GetRoles(c)
		require.NoError(t, err)
		assert.Empty(t, roles)
	})

	t.Run("missing header", func(t *testing.T) {
		c, _ := newContext("")
		err := mw(func(echo.Context) error { return nil })(c)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		c, _ := newContext("Bearer expired")
		called := false
		err := mw(func(echo.Context) error { called = true; return nil })(c)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.False(t, called)
	})
}

func TestRequirePermission(t *testing.T) {
	authz := NewRBACMiddleware(rbac.MustNew(presets.Vachan()))

	tests := []struct {
		name     string
		resource rbac.Resource
		roles    []rbac.Role
		wantErr  error
	}{
		{"admin on bibles", presets.ResourceBibles, []rbac.Role{presets.RoleVachanAdmin}, nil},
		{"user on bibles", presets.ResourceBibles, []rbac.Role{presets.RoleAgUser}, apperrors.ErrPermissionDenied},
		{"admin on userRole", presets.ResourceUserRole, []rbac.Role{presets.RoleVachanAdmin}, apperrors.ErrPermissionDenied},
		{"super on delete", presets.ResourceDeleteIdentity, []rbac.Role{presets.RoleSuperAdmin}, nil},
		{"no roles", presets.ResourceBibles, []rbac.Role{}, apperrors.ErrPermissionDenied},
		{"unknown resource", "unknownResource", []rbac.Role{presets.RoleSuperAdmin}, apperrors.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext("")
			c.Set(ContextKeyRoles, tt.roles)

			called := false
			err := authz.RequirePermission(tt.resource)(func(echo.Context) error { called = true; return nil })(c)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.True(t, called)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, called)
		})
	}
}

func TestRequirePermission_WithoutSession(t *testing.T) {
	c, _ := newContext("")
	err := NewRBACMiddleware(rbac.MustNew(presets.Vachan())).RequirePermission(presets.ResourceBibles)(func(echo.Context) error { return nil })(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"identity-gateway/internal/auth"
	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac"
	apperrors "identity-gateway/pkg/errors"
	"identity-gateway/pkg/validator"
)

type IdentityHandler struct {
	admin       IdentityAdmin
	permissions PermissionChecker
}

func NewIdentityHandler(admin IdentityAdmin, permissions PermissionChecker) *IdentityHandler {
	return &IdentityHandler{admin: admin, permissions: permissions}
}

// UserRoleRequest accepts roles as a list or as a single string.
type UserRoleRequest struct {
	UserID string          `json:"userid"`
	Roles  kratos.RoleList `json:"roles"`
}

type PermissionResponse struct {
	Resource   rbac.Resource `json:"resource"`
	Authorized bool          `json:"authorized"`
}

func (h *IdentityHandler) Roles(c echo.Context) error {
	roles, err := auth.GetRoles(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]string{jsonKeyRoles: rbac.Strings(roles)})
}

// CheckPermission reports whether the caller's roles grant access to the
// resource named in the path.
func (h *IdentityHandler) CheckPermission(c echo.Context) error {
	resource := rbac.Resource(c.Param(paramResource))
	if !h.knownResource(resource) {
		return apperrors.InvalidInput(msgUnknownResource)
	}

	roles, err := auth.GetRoles(c)
	if err != nil {
		return err
	}

	ok, err := h.permissions.IsAuthorized(resource, roles)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PermissionResponse{Resource: resource, Authorized: ok})
}

func (h *IdentityHandler) UpdateUserRole(c echo.Context) error {
	var req UserRoleRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return apperrors.InvalidInput(msgIdentityIDRequired)
	}
	for _, r := range req.Roles {
		if err := validator.RoleName(r); err != nil {
			return apperrors.InvalidInput(err.Error())
		}
	}

	res, err := h.admin.AddRoles(c.Request().Context(), req.UserID, []string(req.Roles))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// DeleteIdentity answers with the provider's status and body unchanged.
func (h *IdentityHandler) DeleteIdentity(c echo.Context) error {
	id := strings.TrimSpace(c.Param(paramID))
	if id == "" {
		return apperrors.InvalidInput(msgIdentityIDRequired)
	}

	raw, err := h.admin.DeleteIdentity(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if len(raw.Body) == 0 {
		return c.NoContent(raw.StatusCode)
	}
	return c.Blob(raw.StatusCode, echo.MIMEApplicationJSON, raw.Body)
}

func (h *IdentityHandler) knownResource(resource rbac.Resource) bool {
	for _, r := range h.permissions.Resources() {
		if r == resource {
			return true
		}
	}
	return false
}

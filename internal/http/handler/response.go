package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"identity-gateway/internal/gateway"
)

type RegisteredDetails struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions"`
}

type RegisterResponse struct {
	Details           string            `json:"details"`
	RegisteredDetails RegisteredDetails `json:"registered_details"`
	Token             string            `json:"token,omitempty"`
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}

// respondRegistration writes the registration outcome. An unverified role
// grant is answered with the role update result itself.
func respondRegistration(c echo.Context, res *gateway.RegistrationResult) error {
	if res.Outcome == gateway.OutcomeRoleGrantUnverified && res.RoleUpdate != nil {
		return c.JSON(http.StatusOK, res.RoleUpdate)
	}

	return c.JSON(http.StatusOK, RegisterResponse{
		Details: res.Details,
		RegisteredDetails: RegisteredDetails{
			ID:          res.Identity.ID,
			Email:       res.Identity.Email,
			Name:        res.Identity.Name,
			Permissions: res.Identity.Permissions,
		},
		Token: res.Token,
	})
}

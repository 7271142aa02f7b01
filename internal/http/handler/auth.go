package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"identity-gateway/internal/auth"
	"identity-gateway/internal/gateway"
	apperrors "identity-gateway/pkg/errors"
	"identity-gateway/pkg/validator"
)

type AuthHandler struct {
	authenticator Authenticator
}

func NewAuthHandler(authenticator Authenticator) *AuthHandler {
	return &AuthHandler{authenticator: authenticator}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	AppName   string `json:"appname"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := validator.Email(req.Email); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if err := validator.Password(req.Password); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if err := validateName(req.FirstName, msgFirstNameRequired); err != nil {
		return err
	}
	if err := validateName(req.LastName, msgLastNameRequired); err != nil {
		return err
	}
	if err := validator.AppName(req.AppName); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	res, err := h.authenticator.Register(c.Request().Context(), gateway.RegistrationInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AppName:   req.AppName,
	})
	if err != nil {
		return err
	}

	return respondRegistration(c, res)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return apperrors.InvalidInput(msgUsernameRequired)
	}

	res, err := h.authenticator.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := auth.GetSessionToken(c)
	if err != nil {
		return err
	}

	msg, err := h.authenticator.Logout(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, msg)
}

func validateName(name, missing string) error {
	if name == "" {
		return apperrors.InvalidInput(missing)
	}
	if len(name) > maxNameLength {
		return apperrors.InvalidInput(msgNameTooLong)
	}
	if err := validator.DisplayText(name); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}

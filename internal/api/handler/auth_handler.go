package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/accounts-api/internal/api/middleware"
	"github.com/shopstack/accounts-api/internal/core/ports"
)

// AuthHandler exposes the account lifecycle over HTTP. Domain errors pass
// through to the central error handler, which owns the status mapping.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account and sends a verification email.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{
		Message: "Registration successful, please check your email to verify your account",
	})
}

// VerifyEmail consumes a verification link.
//
// @Summary      Verify an email address
// @Tags         auth
// @Produce      json
// @Param        id     path      string  true  "Account ID"
// @Param        token  path      string  true  "Verification token"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /verify/{id}/{token} [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.authService.VerifyEmail(c.Request().Context(), c.Param("id"), c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Email verified successfully"})
}

// Login authenticates an account and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		ID:       result.Account.ID,
		Username: result.Account.Username,
		Email:    result.Account.Email,
		Token:    result.SessionToken,
	})
}

// Me returns the authenticated account's public projection.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	accountID, _ := c.Get(middleware.AccountIDKey).(string)
	if accountID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	account, err := h.authService.GetAccount(c.Request().Context(), accountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountResponse{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		Verified: account.Verified,
	})
}

// ForgotPassword emails a password-reset link.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset link sent to email"})
}

// ResetPassword redeems a reset token and sets a new password.
//
// @Summary      Reset a password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        id     path      string                true  "Account ID"
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  errorResponse
// @Router       /reset-password/{id}/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), ports.ResetPasswordInput{
		AccountID:   c.Param("id"),
		Token:       c.Param("token"),
		NewPassword: req.Password,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully"})
}

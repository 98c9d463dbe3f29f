package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trailbook/cmd/server/handlers/handlerutil"
	"trailbook/cmd/server/handlers/httperr"
	"trailbook/internal/config"
	"trailbook/internal/logger"
	"trailbook/internal/services/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthService defines the interface for auth service
type AuthService interface {
	SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.AuthResponse, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error)
	ForgotPassword(ctx context.Context, email, resetURLBase string) error
	ResetPassword(ctx context.Context, rawToken string, req auth.ResetPasswordRequest) (*auth.AuthResponse, error)
	UpdatePassword(ctx context.Context, user *auth.User, req auth.UpdatePasswordRequest) (*auth.AuthResponse, error)
}

// Handlers contains the auth HTTP handlers
type Handlers struct {
	authService AuthService
	validator   *validator.Validate
	cfg         config.Config
}

// NewHandlers creates new auth handlers
func NewHandlers(authService AuthService, validator *validator.Validate, cfg config.Config) *Handlers {
	return &Handlers{
		authService: authService,
		validator:   validator,
		cfg:         cfg,
	}
}

// setTokenCookie mirrors the issued token into an http-only cookie so
// browser clients get session behavior without touching localStorage.
func (h *Handlers) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.cfg.CookieExpiresMinutes) * time.Minute),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
	})
}

// SignUp handles user registration
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.SignUpRequest true "Sign up request"
// @Success 201 {object} auth.AuthResponse
// @Failure 400 {object} httperr.E
// @Router /users/signup [post]
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req auth.SignUpRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "SignUp"); err != nil {
		return err
	}

	resp, err := h.authService.SignUp(c.Context(), req)
	if err != nil {
		logger.L().Error("signup service failed", "handler", "SignUp", "email", req.Email, "error", err)
		return httperr.Fail(httperr.E{
			Status:  400,
			Message: err.Error(),
		})
	}

	h.setTokenCookie(c, resp.Token)
	return c.Status(201).JSON(resp)
}

// Login handles user authentication
// @Summary Authenticate a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Login request"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 429 {object} httperr.E
// @Router /users/login [post]
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Login"); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Context(), req)
	if err != nil {
		logger.L().Info("login service failed", "handler", "Login", "email", req.Email, "error", err)
		return httperr.Fail(httperr.E{
			Status:  401,
			Message: err.Error(),
		})
	}

	h.setTokenCookie(c, resp.Token)
	return c.JSON(resp)
}

// ForgotPassword emails a password-reset link
// @Summary Request a password reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httperr.E
// @Failure 500 {object} httperr.E
// @Router /users/forgotPassword [post]
func (h *Handlers) ForgotPassword(c *fiber.Ctx) error {
	var req auth.ForgotPasswordRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "ForgotPassword"); err != nil {
		return err
	}

	resetURLBase := fmt.Sprintf("%s://%s/api/v1/users/resetPassword/", c.Protocol(), c.Hostname())

	if err := h.authService.ForgotPassword(c.Context(), req.Email, resetURLBase); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return httperr.Fail(httperr.E{
				Status:  404,
				Message: "There is no user with that email address",
			})
		}
		logger.L().Error("forgot password service failed", "handler", "ForgotPassword", "error", err)
		return httperr.Fail(httperr.InternalError("There was an error sending the email. Try again later!"))
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Token sent to email!",
	})
}

// ResetPassword consumes a reset token and sets a new password
// @Summary Reset password with an emailed token
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Raw reset token"
// @Param request body auth.ResetPasswordRequest true "Reset password request"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} httperr.E
// @Router /users/resetPassword/{token} [patch]
func (h *Handlers) ResetPassword(c *fiber.Ctx) error {
	rawToken := c.Params("token")
	if rawToken == "" {
		return httperr.Fail(httperr.ErrBadRequest)
	}

	var req auth.ResetPasswordRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "ResetPassword"); err != nil {
		return err
	}

	resp, err := h.authService.ResetPassword(c.Context(), rawToken, req)
	if err != nil {
		logger.L().Info("reset password service failed", "handler", "ResetPassword", "error", err)
		return httperr.Fail(httperr.E{
			Status:  400,
			Message: err.Error(),
		})
	}

	h.setTokenCookie(c, resp.Token)
	return c.JSON(resp)
}

// UpdatePassword changes the password of the authenticated user
// @Summary Update the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body auth.UpdatePasswordRequest true "Update password request"
// @Success 200 {object} auth.AuthResponse
// @Failure 401 {object} httperr.E
// @Router /users/updateMyPassword [patch]
func (h *Handlers) UpdatePassword(c *fiber.Ctx) error {
	user, err := handlerutil.CurrentUser(c)
	if err != nil {
		return err
	}

	var req auth.UpdatePasswordRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "UpdatePassword"); err != nil {
		return err
	}

	resp, err := h.authService.UpdatePassword(c.Context(), user, req)
	if err != nil {
		if errors.Is(err, auth.ErrCurrentPasswordWrong) {
			return httperr.Fail(httperr.E{
				Status:  401,
				Message: err.Error(),
			})
		}
		logger.L().Error("update password service failed", "handler", "UpdatePassword", "user_id", user.ID.Hex(), "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	h.setTokenCookie(c, resp.Token)
	return c.JSON(resp)
}

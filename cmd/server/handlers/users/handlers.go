package users

import (
	"context"
	"errors"

	"trailbook/cmd/server/handlers/handlerutil"
	"trailbook/cmd/server/handlers/httperr"
	"trailbook/internal/services/auth"
	"trailbook/internal/services/users"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UsersService defines the interface for users service
type UsersService interface {
	List(ctx context.Context) (*users.ListUsersResponse, error)
	Get(ctx context.Context, id bson.ObjectID) (*users.UserResponse, error)
	UpdateMe(ctx context.Context, userID bson.ObjectID, req users.UpdateMeRequest) (*users.UserResponse, error)
	DeleteMe(ctx context.Context, userID bson.ObjectID) error
	AdminUpdate(ctx context.Context, id bson.ObjectID, req users.AdminUpdateUserRequest) (*users.UserResponse, error)
	AdminDelete(ctx context.Context, id bson.ObjectID) error
}

// Handlers contains the users HTTP handlers
type Handlers struct {
	usersService UsersService
	validator    *validator.Validate
}

// NewHandlers creates new users handlers
func NewHandlers(usersService UsersService, validator *validator.Validate) *Handlers {
	return &Handlers{
		usersService: usersService,
		validator:    validator,
	}
}

// Me returns the authenticated user's profile
// @Summary Get current user
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} users.UserResponse
// @Failure 401 {object} httperr.E
// @Router /users/me [get]
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := handlerutil.CurrentUser(c)
	if err != nil {
		return err
	}

	return c.JSON(users.UserResponse{
		Status: "success",
		User:   user,
	})
}

// UpdateMe updates the authenticated user's profile
// @Summary Update current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body users.UpdateMeRequest true "Profile update"
// @Success 200 {object} users.UserResponse
// @Failure 400 {object} httperr.E
// @Router /users/updateMe [patch]
func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	user, err := handlerutil.CurrentUser(c)
	if err != nil {
		return err
	}

	var req users.UpdateMeRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "UpdateMe"); err != nil {
		return err
	}

	resp, err := h.usersService.UpdateMe(c.Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, users.ErrPasswordUpdateNotAllowed) || errors.Is(err, auth.ErrDuplicate) {
			return httperr.Fail(httperr.E{Status: 400, Message: err.Error()})
		}
		return handlerutil.HandleServiceError(err, "UpdateMe", auth.ErrUserNotFound)
	}

	return c.JSON(resp)
}

// DeleteMe soft-deletes the authenticated user's account
// @Summary Deactivate current user's account
// @Tags users
// @Security Bearer
// @Success 204
// @Failure 401 {object} httperr.E
// @Router /users/deleteMe [delete]
func (h *Handlers) DeleteMe(c *fiber.Ctx) error {
	user, err := handlerutil.CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.usersService.DeleteMe(c.Context(), user.ID); err != nil {
		return handlerutil.HandleServiceError(err, "DeleteMe", auth.ErrUserNotFound)
	}

	return c.SendStatus(204)
}

// List returns all active users (admin only)
// @Summary List users
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} users.ListUsersResponse
// @Failure 403 {object} httperr.E
// @Router /users [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	resp, err := h.usersService.List(c.Context())
	if err != nil {
		return handlerutil.HandleServiceError(err, "List", nil)
	}
	return c.JSON(resp)
}

// Get returns a single user (admin only)
// @Summary Get a user
// @Tags users
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Success 200 {object} users.UserResponse
// @Failure 404 {object} httperr.E
// @Router /users/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractID(c, "Get", auth.ErrUserNotFound)
	if err != nil {
		return err
	}

	resp, err := h.usersService.Get(c.Context(), id)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Get", auth.ErrUserNotFound)
	}

	return c.JSON(resp)
}

// Update applies an admin-side user update
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Param request body users.AdminUpdateUserRequest true "User update"
// @Success 200 {object} users.UserResponse
// @Failure 404 {object} httperr.E
// @Router /users/{id} [patch]
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractID(c, "Update", auth.ErrUserNotFound)
	if err != nil {
		return err
	}

	var req users.AdminUpdateUserRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Update"); err != nil {
		return err
	}

	resp, err := h.usersService.AdminUpdate(c.Context(), id, req)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicate) {
			return httperr.Fail(httperr.E{Status: 400, Message: err.Error()})
		}
		return handlerutil.HandleServiceError(err, "Update", auth.ErrUserNotFound)
	}

	return c.JSON(resp)
}

// Delete permanently removes a user (admin only)
// @Summary Delete a user
// @Tags users
// @Security Bearer
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} httperr.E
// @Router /users/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractID(c, "Delete", auth.ErrUserNotFound)
	if err != nil {
		return err
	}

	if err := h.usersService.AdminDelete(c.Context(), id); err != nil {
		return handlerutil.HandleServiceError(err, "Delete", auth.ErrUserNotFound)
	}

	return c.SendStatus(204)
}

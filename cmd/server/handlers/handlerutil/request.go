package handlerutil

import (
	"errors"

	"trailbook/cmd/server/handlers/httperr"
	"trailbook/internal/logger"
	"trailbook/internal/services/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CurrentUserKey is the Locals key under which the protect middleware stores
// the authenticated user.
const CurrentUserKey = "currentUser"

// CurrentUser extracts the authenticated user placed in Locals by the
// protect middleware.
func CurrentUser(c *fiber.Ctx) (*auth.User, error) {
	user, ok := c.Locals(CurrentUserKey).(*auth.User)
	if !ok || user == nil {
		logger.L().Error("authenticated user not found in context", "path", c.Path())
		return nil, httperr.Fail(httperr.ErrUserNotAuthenticated)
	}
	return user, nil
}

// ParseAndValidateBody parses request body and validates it
func ParseAndValidateBody(c *fiber.Ctx, req any, validator *validator.Validate, handlerName string) error {
	if err := c.BodyParser(req); err != nil {
		logger.L().Warn("failed to parse request body", "handler", handlerName, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := validator.Struct(req); err != nil {
		logger.L().Warn("request validation failed", "handler", handlerName, "error", err)
		return httperr.InvalidInput(err)
	}

	return nil
}

// ExtractID extracts and validates an ObjectID from the :id URL parameter.
// Malformed IDs map to the caller's not-found error so the response does not
// leak whether the ID was syntactically valid.
func ExtractID(c *fiber.Ctx, handlerName string, notFoundErr error) (bson.ObjectID, error) {
	idStr := c.Params("id")
	if idStr == "" {
		logger.L().Warn("missing ID parameter", "handler", handlerName, "path", c.Path())
		return bson.ObjectID{}, httperr.NotFound(notFoundErr)
	}

	id, err := bson.ObjectIDFromHex(idStr)
	if err != nil {
		logger.L().Warn("invalid ID parameter", "handler", handlerName, "idStr", idStr, "error", err)
		return bson.ObjectID{}, httperr.NotFound(notFoundErr)
	}

	return id, nil
}

// HandleServiceError maps a service error to the standard response: the
// expected not-found error renders 404, anything else renders 500.
func HandleServiceError(err error, handlerName string, notFoundErr error) error {
	if notFoundErr != nil && errors.Is(err, notFoundErr) {
		logger.L().Info("resource not found", "handler", handlerName, "error", err)
		return httperr.NotFound(notFoundErr)
	}

	logger.L().Error("service operation failed", "handler", handlerName, "error", err)
	return httperr.Fail(httperr.E{
		Status:  500,
		Message: err.Error(),
	})
}

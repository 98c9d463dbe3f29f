package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// E represents an HTTP error with status code and message
type E struct {
	Status  int    `json:"-" example:"400"`
	Message string `json:"message" example:"Bad Request"`
}

// Error implements the error interface
func (e E) Error() string {
	return e.Message
}

// body is the wire shape for error responses: 4xx renders status "fail",
// 5xx renders status "error".
type body struct {
	Status  string `json:"status" example:"fail"`
	Message string `json:"message" example:"Bad Request"`
}

func statusWord(status int) string {
	if status >= 400 && status < 500 {
		return "fail"
	}
	return "error"
}

// JSON returns the error as JSON response
func (e E) JSON(c *fiber.Ctx) error {
	return c.Status(e.Status).JSON(body{
		Status:  statusWord(e.Status),
		Message: e.Message,
	})
}

// Fail returns the error for Fiber's global error handler to process
func Fail(err E) error {
	return err
}

// InvalidInput wraps a validation error and returns the standard response.
func InvalidInput(err error) error {
	return Fail(E{
		Status:  400,
		Message: "Invalid input: " + err.Error(),
	})
}

// NotFound wraps a lookup error and returns the standard response.
func NotFound(err error) error {
	return Fail(E{
		Status:  404,
		Message: err.Error(),
	})
}

// InternalError returns an internal server error with the given message
func InternalError(message string) E {
	return E{Status: 500, Message: message}
}

// Pre-defined HTTP errors
var (
	ErrBadRequest           = E{Status: 400, Message: "Bad Request"}
	ErrInvalidID            = E{Status: 400, Message: "Invalid ID"}
	ErrUnauthorized         = E{Status: 401, Message: "Unauthorized"}
	ErrUserNotAuthenticated = E{Status: 401, Message: "You are not logged in! Please log in to get access."}
	ErrForbidden            = E{Status: 403, Message: "You do not have permission to perform this action"}
	ErrTooManyRequests      = E{Status: 429, Message: "Too many requests from this IP, please try again later!"}
	ErrInternal             = InternalError("Internal Server Error")
)

var debugDetail bool

// SetDebugDetail makes unrecognized errors surface their message in the 500
// body instead of the generic one. Meant for non-production environments;
// call once at startup.
func SetDebugDetail(on bool) {
	debugDetail = on
}

// Handler is the global error handler for Fiber
func Handler(c *fiber.Ctx, err error) error {
	// Check if it's our custom error type
	var e E
	if errors.As(err, &e) {
		return e.JSON(c)
	}

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return E{
			Status:  fiberError.Code,
			Message: fiberError.Message,
		}.JSON(c)
	}

	if debugDetail {
		return InternalError(err.Error()).JSON(c)
	}
	return ErrInternal.JSON(c)
}

package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/oklog/ulid/v2"
)

// RequestID tags every request with a ULID in the X-Request-Id header.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Generator: func() string {
			return ulid.Make().String()
		},
	})
}

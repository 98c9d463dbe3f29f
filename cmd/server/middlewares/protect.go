package middlewares

import (
	"context"
	"time"

	"trailbook/cmd/server/handlers/handlerutil"
	"trailbook/cmd/server/handlers/httperr"
	"trailbook/internal/config"
	"trailbook/internal/logger"
	"trailbook/internal/services/auth"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserResolver resolves verified token claims to a live user.
type UserResolver interface {
	CurrentUser(ctx context.Context, userIDHex string, issuedAt time.Time) (*auth.User, error)
}

// Protect returns a configured Fiber middleware that:
//
//   - validates the token signature and expiry using cfg.JWTSecret, reading
//     it from the Bearer header or the "jwt" cookie
//   - resolves the "user_id" claim to a live user and rejects tokens issued
//     before that user's last password change
//   - stores the user in ctx.Locals so downstream handlers can trust it.
//
// On any problem it bubbles up a 401 via the global httperr handler.
func Protect(cfg config.Config, resolver UserResolver) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		TokenLookup: "header:Authorization,cookie:jwt",
		AuthScheme:  "Bearer",
		SuccessHandler: func(c *fiber.Ctx) error {
			// Token already verified at this point.
			token := c.Locals("user").(*jwt.Token)
			claims, _ := token.Claims.(jwt.MapClaims)

			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				return httperr.Fail(httperr.ErrUserNotAuthenticated)
			}

			iat, ok := claims["iat"].(float64)
			if !ok {
				return httperr.Fail(httperr.ErrUserNotAuthenticated)
			}
			issuedAt := time.Unix(int64(iat), 0)

			user, err := resolver.CurrentUser(c.Context(), userID, issuedAt)
			if err != nil {
				logger.L().Info("token rejected", "user_id", userID, "error", err)
				return httperr.Fail(httperr.E{Status: 401, Message: err.Error()})
			}

			c.Locals(handlerutil.CurrentUserKey, user)
			return c.Next()
		},

		// Override the default "unauthorized" JSON to match the project style
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return httperr.Fail(httperr.ErrUserNotAuthenticated)
		},
	})
}

// RestrictTo returns a middleware allowing only the listed roles through.
// It must run after Protect.
func RestrictTo(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := handlerutil.CurrentUser(c)
		if err != nil {
			return err
		}
		if !user.HasRole(roles...) {
			return httperr.Fail(httperr.ErrForbidden)
		}
		return c.Next()
	}
}

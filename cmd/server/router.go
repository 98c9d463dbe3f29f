package main

import (
	"context"
	"fmt"
	"time"

	"trailbook/cmd/server/handlers"
	authHandlers "trailbook/cmd/server/handlers/auth"
	"trailbook/cmd/server/handlers/httperr"
	reviewsHandlers "trailbook/cmd/server/handlers/reviews"
	toursHandlers "trailbook/cmd/server/handlers/tours"
	usersHandlers "trailbook/cmd/server/handlers/users"
	"trailbook/cmd/server/middlewares"
	"trailbook/internal/clients/mongo"
	"trailbook/internal/config"
	"trailbook/internal/logger"
	"trailbook/internal/mailer"
	authServices "trailbook/internal/services/auth"
	reviewsServices "trailbook/internal/services/reviews"
	toursServices "trailbook/internal/services/tours"
	usersServices "trailbook/internal/services/users"
	"trailbook/internal/utils/crypto"

	_ "trailbook/docs" // Load swagger docs

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(ctx context.Context, cfg config.Config) *fiber.App {

	// Initialize validator and register password validation
	v := validator.New()
	if err := crypto.RegisterPasswordValidator(v); err != nil {
		logger.L().Error("failed to register password validator", "err", err)
		panic(err)
	}

	httperr.SetDebugDetail(!cfg.IsProduction())

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		BodyLimit:    10 * 1024,
		Immutable:    true, // make Fiber copy all request-derived strings
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(middlewares.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Authorization",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app)
	}

	// Health check endpoint, outside versioned API to appease scanners and to avoid logging
	app.Get("/healthz", handlers.Healthz)

	app.Get("/docs/*", swagger.HandlerDefault)

	limiterMW := middlewares.BuildRateLimiter(
		cfg.RateLimitMax,
		time.Duration(cfg.RateLimitWindowMin)*time.Minute,
	)

	var v1 fiber.Router
	if cfg.RequestLoggingEnabled {
		v1 = app.Group("/api/v1", fiberlogger.New(), limiterMW)
		logger.L().Info("request logging enabled")
	} else {
		v1 = app.Group("/api/v1", limiterMW)
		logger.L().Info("request logging disabled")
	}

	usersRepo, newUsersRepoErr := mongo.NewUsersRepo(ctx, mongo.DB())
	if newUsersRepoErr != nil {
		logger.L().Error("failed to create users repository", "error", newUsersRepoErr)
		panic(newUsersRepoErr)
	}
	toursRepo, newToursRepoErr := mongo.NewToursRepo(ctx, mongo.DB())
	if newToursRepoErr != nil {
		logger.L().Error("failed to create tours repository", "error", newToursRepoErr)
		panic(newToursRepoErr)
	}
	reviewsRepo, newReviewsRepoErr := mongo.NewReviewsRepo(ctx, mongo.DB())
	if newReviewsRepoErr != nil {
		logger.L().Error("failed to create reviews repository", "error", newReviewsRepoErr)
		panic(newReviewsRepoErr)
	}

	smtp, smtpErr := mailer.NewSMTP(cfg, logger.L())
	if smtpErr != nil {
		logger.L().Error("failed to create mailer", "error", smtpErr)
		panic(smtpErr)
	}

	authSvc := authServices.NewService(usersRepo, smtp, cfg, logger.L())
	toursSvc := toursServices.NewService(toursRepo, logger.L())
	reviewsSvc := reviewsServices.NewService(reviewsRepo, logger.L())
	usersSvc := usersServices.NewService(usersRepo, logger.L())

	authH := authHandlers.NewHandlers(authSvc, v, cfg)
	toursH := toursHandlers.NewHandlers(toursSvc, v)
	reviewsH := reviewsHandlers.NewHandlers(reviewsSvc, v)
	usersH := usersHandlers.NewHandlers(usersSvc, v)

	protect := middlewares.Protect(cfg, authSvc)
	adminOnly := middlewares.RestrictTo(authServices.RoleAdmin)

	// User + auth routes
	usersGrp := v1.Group("/users")
	usersGrp.Post("/signup", authH.SignUp)
	usersGrp.Post("/login", authH.Login)
	usersGrp.Post("/forgotPassword", authH.ForgotPassword)
	usersGrp.Patch("/resetPassword/:token", authH.ResetPassword)

	usersGrp.Patch("/updateMyPassword", protect, authH.UpdatePassword)
	usersGrp.Get("/me", protect, usersH.Me)
	usersGrp.Patch("/updateMe", protect, usersH.UpdateMe)
	usersGrp.Delete("/deleteMe", protect, usersH.DeleteMe)

	usersGrp.Get("/", protect, adminOnly, usersH.List)
	usersGrp.Get("/:id", protect, adminOnly, usersH.Get)
	usersGrp.Patch("/:id", protect, adminOnly, usersH.Update)
	usersGrp.Delete("/:id", protect, adminOnly, usersH.Delete)

	// Tour routes
	toursGrp := v1.Group("/tours")
	toursGrp.Get("/", toursH.List)
	toursGrp.Get("/top-5-cheap", toursH.TopCheap)
	toursGrp.Get("/stats", toursH.Stats)
	toursGrp.Get("/:id", toursH.Get)

	manageTours := middlewares.RestrictTo(authServices.RoleAdmin, authServices.RoleLeadGuide)
	toursGrp.Post("/", protect, manageTours, toursH.Create)
	toursGrp.Patch("/:id", protect, manageTours, toursH.Update)
	toursGrp.Delete("/:id", protect, manageTours, toursH.Delete)

	// Review routes
	reviewsGrp := v1.Group("/reviews")
	reviewsGrp.Get("/", reviewsH.List)
	reviewsGrp.Get("/:id", reviewsH.Get)
	manageReviews := middlewares.RestrictTo(authServices.RoleUser, authServices.RoleAdmin)
	reviewsGrp.Post("/", protect, middlewares.RestrictTo(authServices.RoleUser), reviewsH.Create)
	reviewsGrp.Patch("/:id", protect, manageReviews, reviewsH.Update)
	reviewsGrp.Delete("/:id", protect, manageReviews, reviewsH.Delete)

	// Unmatched routes
	app.Use(func(c *fiber.Ctx) error {
		return httperr.Fail(httperr.E{
			Status:  404,
			Message: fmt.Sprintf("Can't find %s on this server!", c.OriginalURL()),
		})
	})

	return app
}

// Package docs TrailBook API
//
// @title  TrailBook API
// @version 0.1.0
// @description Tour catalog, bookable-trip reviews, and user accounts.
// @host      localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package docs

import (
	_ "trailbook/cmd/server/handlers/httperr"
	_ "trailbook/internal/services/auth"
	_ "trailbook/internal/services/reviews"
	_ "trailbook/internal/services/tours"
	_ "trailbook/internal/services/users"
)

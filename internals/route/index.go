// file: internals/route/index.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	configs "eventpulse_backend/internals/configs"
	authModel "eventpulse_backend/internals/features/users/auth/model"
	helper "eventpulse_backend/internals/helpers"
	middlewares "eventpulse_backend/internals/middlewares"
	authMw "eventpulse_backend/internals/middlewares/auth"

	eventRoutes "eventpulse_backend/internals/features/events/events/route"
	analyticsRoutes "eventpulse_backend/internals/features/registrations/analytics/route"
	regRoutes "eventpulse_backend/internals/features/registrations/registration/route"
	uploadRoutes "eventpulse_backend/internals/features/uploads/route"
	authRoutes "eventpulse_backend/internals/features/users/auth/route"
)

// SetupRoutes wires every feature under /api:
//
//	/api        — public (auth, event discovery)
//	/api/u      — authenticated participants
//	/api/h      — hosts (role-gated inside controllers)
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")
	api.Use(middlewares.DBMiddleware(db))

	// ---------- public ----------
	authRoutes.AuthRoutes(api, db)
	eventRoutes.AllEventRoutes(api, db)

	jwtGuard := authMw.AuthJWT(authMw.AuthJWTOpts{
		Secret: configs.JWTSecret,
		BlacklistChecker: func(raw string) (bool, error) {
			return authModel.IsTokenBlacklisted(db, raw)
		},
		AllowCookieFallback: true,
	})

	// ---------- authenticated participants ----------
	u := api.Group("/u", jwtGuard)
	authRoutes.AuthUserRoutes(u, db)
	regRoutes.RegistrationUserRoutes(u, db)
	uploadRoutes.UploadUserRoutes(u)

	// ---------- hosts ----------
	h := api.Group("/h", jwtGuard)
	eventRoutes.EventHostRoutes(h, db)
	regRoutes.RegistrationHostRoutes(h, db)
	analyticsRoutes.AnalyticsHostRoutes(h, db)
	uploadRoutes.UploadHostRoutes(h)

	// ---------- fallback ----------
	app.Use(func(c *fiber.Ctx) error {
		return helper.JsonError(c, fiber.StatusNotFound, "route not found")
	})
}

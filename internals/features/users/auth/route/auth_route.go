// file: internals/features/users/auth/route/auth_route.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authCtl "eventpulse_backend/internals/features/users/auth/controller"
	"eventpulse_backend/internals/middlewares"
)

// =========================
// PUBLIC auth routes
// /auth
// =========================
func AuthRoutes(r fiber.Router, db *gorm.DB) {
	ctl := authCtl.NewAuthController(db)

	grp := r.Group("/auth")
	grp.Post("/register", middlewares.RegisterRateLimiter(), ctl.Register)
	grp.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	grp.Post("/refresh-token", ctl.RefreshToken)
	grp.Post("/logout", ctl.Logout)
}

// =========================
// USER routes (authenticated)
// mounted behind auth middleware
// =========================
func AuthUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := authCtl.NewAuthController(db)

	r.Get("/me", ctl.Me)
	r.Post("/change-password", ctl.ChangePassword)
}

// file: internals/features/registrations/analytics/route/analytics_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	anCtl "eventpulse_backend/internals/features/registrations/analytics/controller"
)

// =========================
// HOST routes (analytics & export)
// mounted behind auth middleware
// =========================
func AnalyticsHostRoutes(r fiber.Router, db *gorm.DB) {
	ctl := anCtl.NewAnalyticsController(db)

	r.Get("/events/:id/participants", ctl.Participants)
	r.Get("/events/:id/participants/export", ctl.Export)
}

// file: internals/features/events/events/route/event_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	evCtl "eventpulse_backend/internals/features/events/events/controller"
)

// =========================
// PUBLIC routes (read-only)
// /events
// =========================
func AllEventRoutes(r fiber.Router, db *gorm.DB) {
	ctl := evCtl.NewEventController(db)

	grp := r.Group("/events")
	grp.Get("/", ctl.ListPublic)
	grp.Get("/list", ctl.ListPublic)
	grp.Get("/:slug", ctl.GetBySlug)
	grp.Get("/:slug/registration-form", ctl.GetRegistrationForm)
}

// =========================
// HOST routes (manage own events)
// /events — mounted behind auth middleware
// =========================
func EventHostRoutes(r fiber.Router, db *gorm.DB) {
	ctl := evCtl.NewEventController(db)

	grp := r.Group("/events")
	grp.Get("/", ctl.ListMine)
	grp.Post("/", ctl.Create)
	grp.Patch("/:id", ctl.Patch)
	grp.Delete("/:id", ctl.Delete)

	// incremental field editing
	grp.Post("/:id/fields", ctl.AddField)
	grp.Post("/:id/fields/finalize", ctl.FinalizeFields)
	grp.Patch("/:id/fields/:index", ctl.UpdateField)
	grp.Delete("/:id/fields/:index", ctl.RemoveField)
}

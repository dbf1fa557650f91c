// file: internals/features/registrations/registration/route/registration_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	regCtl "eventpulse_backend/internals/features/registrations/registration/controller"
	"eventpulse_backend/internals/middlewares"
)

// =========================
// USER routes (authenticated participants)
// mounted behind auth middleware
// =========================
func RegistrationUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := regCtl.NewRegistrationController(db)

	r.Post("/events/:slug/register", middlewares.SubmitRateLimiter(), ctl.Register)

	r.Get("/registrations", ctl.ListMine)
	r.Post("/registrations", middlewares.SubmitRateLimiter(), ctl.CreateRegistration)

	r.Get("/waiting-list", ctl.ListMyWaiting)
	r.Post("/waiting-list", middlewares.SubmitRateLimiter(), ctl.CreateWaitingList)
}

// =========================
// HOST routes (review)
// mounted behind auth middleware
// =========================
func RegistrationHostRoutes(r fiber.Router, db *gorm.DB) {
	ctl := regCtl.NewRegistrationController(db)

	r.Get("/events/:id/registrations", ctl.ListByEvent)
	r.Get("/events/:id/waiting-list", ctl.ListWaitingByEvent)
	r.Post("/waiting-list/:id/approve", ctl.Approve)
	r.Post("/waiting-list/:id/reject", ctl.Reject)
}

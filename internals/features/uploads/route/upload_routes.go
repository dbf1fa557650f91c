// file: internals/features/uploads/route/upload_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"

	upCtl "eventpulse_backend/internals/features/uploads/controller"
)

// =========================
// USER routes (authenticated)
// =========================
func UploadUserRoutes(r fiber.Router) {
	ctl := upCtl.NewUploadController()

	r.Post("/upload/payment-proof", ctl.PaymentProof)
}

// =========================
// HOST routes
// =========================
func UploadHostRoutes(r fiber.Router) {
	ctl := upCtl.NewUploadController()

	r.Post("/upload/event-poster", ctl.EventPoster)
	r.Post("/upload/payment-qr", ctl.PaymentQR)
}

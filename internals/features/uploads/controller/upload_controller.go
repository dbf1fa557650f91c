// file: internals/features/uploads/controller/upload_controller.go
package controller

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	helper "eventpulse_backend/internals/helpers"
	helperAuth "eventpulse_backend/internals/helpers/auth"
	ossHelper "eventpulse_backend/internals/helpers/oss"
)

/* =========================
   Controller
   ========================= */

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// uploadImage pushes one multipart image to OSS as webp under keyPrefix and
// returns the public URL keyed as wantKey in the response data.
func (ctl *UploadController) uploadImage(c *fiber.Ctx, formField, keyPrefix, wantKey string) error {
	if _, err := helperAuth.GetUserIDFromLocals(c); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusUnauthorized, err.Error())
	}

	fh, err := c.FormFile(formField)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "missing file field "+formField)
	}

	svc, err := ossHelper.NewOSSServiceFromEnv("uploads")
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	url, err := svc.UploadAsWebP(c.Context(), fh, keyPrefix)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Uploaded", fiber.Map{wantKey: url})
}

/*
=========================================================

	PAYMENT PROOF
	POST /api/u/upload/payment-proof (multipart, field "file")
	→ {payment_proof: url}, consumed before intake
	=========================================================
*/
func (ctl *UploadController) PaymentProof(c *fiber.Ctx) error {
	return ctl.uploadImage(c, "file", "payment-proofs", "payment_proof")
}

/*
=========================================================

	EVENT POSTER
	POST /api/h/upload/event-poster (multipart, field "file")
	=========================================================
*/
func (ctl *UploadController) EventPoster(c *fiber.Ctx) error {
	if err := helperAuth.EnsureHost(c); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusForbidden, err.Error())
	}
	return ctl.uploadImage(c, "file", "event-posters", "poster_url")
}

/*
=========================================================

	PAYMENT QR
	POST /api/h/upload/payment-qr (multipart, field "file")
	=========================================================
*/
func (ctl *UploadController) PaymentQR(c *fiber.Ctx) error {
	if err := helperAuth.EnsureHost(c); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusForbidden, err.Error())
	}
	return ctl.uploadImage(c, "file", "payment-qr", "payment_qr_url")
}

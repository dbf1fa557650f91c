// file: internals/features/registrations/registration/controller/registration_controller.go
package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	helper "eventpulse_backend/internals/helpers"
	helperAuth "eventpulse_backend/internals/helpers/auth"

	evmodel "eventpulse_backend/internals/features/events/events/model"
	fieldsvc "eventpulse_backend/internals/features/events/fields/service"
	dto "eventpulse_backend/internals/features/registrations/registration/dto"
	model "eventpulse_backend/internals/features/registrations/registration/model"
)

/* =========================
   Controller
   ========================= */

type RegistrationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewRegistrationController(db *gorm.DB) *RegistrationController {
	return &RegistrationController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =========================
   Small helpers
   ========================= */

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "23505")
}

// requireUser: authenticated caller; replies on failure so callers just return nil.
func (ctl *RegistrationController) requireUser(c *fiber.Ctx) (uuid.UUID, error) {
	userID, err := helperAuth.GetUserIDFromLocals(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			_ = helper.JsonError(c, fe.Code, fe.Message)
			return uuid.Nil, err
		}
		_ = helper.JsonError(c, http.StatusUnauthorized, err.Error())
		return uuid.Nil, err
	}
	return userID, nil
}

func (ctl *RegistrationController) findEventBySlug(c *fiber.Ctx, slug string) (*evmodel.EventModel, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, helper.JsonError(c, http.StatusBadRequest, "missing slug")
	}
	var ev evmodel.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("LOWER(event_slug) = ? AND event_is_published = TRUE AND event_deleted_at IS NULL", slug).
		First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, http.StatusNotFound, "event not found")
		}
		return nil, helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return &ev, nil
}

func (ctl *RegistrationController) findEventByID(c *fiber.Ctx, id uuid.UUID) (*evmodel.EventModel, error) {
	var ev evmodel.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("event_id = ? AND event_is_published = TRUE AND event_deleted_at IS NULL", id).
		First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, http.StatusNotFound, "event not found")
		}
		return nil, helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return &ev, nil
}

// alreadyRegistered: a live registration or a pending waiting-list entry for
// the same (event, user) blocks a second submission.
func (ctl *RegistrationController) alreadyRegistered(c *fiber.Ctx, eventID, userID uuid.UUID) (bool, error) {
	var n int64
	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.RegistrationModel{}).
		Where("registration_event_id = ? AND registration_user_id = ? AND registration_deleted_at IS NULL", eventID, userID).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.WaitingListModel{}).
		Where("waiting_list_event_id = ? AND waiting_list_user_id = ? AND waiting_list_status = ? AND waiting_list_deleted_at IS NULL",
			eventID, userID, model.WaitingPending).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// capacityReached: capacity counts confirmed registrations only.
func capacityReached(capacity *int, confirmed int64) bool {
	return capacity != nil && confirmed >= int64(*capacity)
}

// createConfirmed inserts a confirmed registration with the capacity
// re-checked under a row lock on the event, so two concurrent submissions
// cannot both pass the check and overshoot. Conflicts come back as
// *fiber.Error so callers can reply with the right status.
func (ctl *RegistrationController) createConfirmed(c *fiber.Ctx, eventID uuid.UUID, m *model.RegistrationModel) error {
	return ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var ev evmodel.EventModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ? AND event_deleted_at IS NULL", eventID).
			First(&ev).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.
			Model(&model.RegistrationModel{}).
			Where("registration_event_id = ? AND registration_deleted_at IS NULL", eventID).
			Count(&n).Error; err != nil {
			return err
		}
		if capacityReached(ev.EventCapacity, n) {
			return fiber.NewError(http.StatusConflict, "event is full")
		}

		if err := tx.Create(m).Error; err != nil {
			if isDuplicateKey(err) {
				return fiber.NewError(http.StatusConflict, "you are already registered for this event")
			}
			return err
		}
		return nil
	})
}

/*
=========================================================

	REGISTER (flat form)
	POST /api/u/events/:slug/register
	Body: RegisterFormRequest — raw field_{idx} keyed input.
	Validates and normalizes server-side, then persists a
	Registration or (payment review) WaitingList entry.
	=========================================================
*/
func (ctl *RegistrationController) Register(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return nil
	}

	ev, err := ctl.findEventBySlug(c, c.Params("slug"))
	if err != nil {
		return nil
	}
	if !ev.RegistrationOpen(time.Now()) {
		return helper.JsonError(c, http.StatusBadRequest, "registration for this event is closed")
	}

	var req dto.RegisterFormRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	tc := ev.TeamConfig()
	teamSize, err := tc.ResolveSize(req.ChosenSize())
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	fields, err := ev.Fields()
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	if err := fieldsvc.ValidateFilled(fields, tc, teamSize, req.FormData); err != nil {
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}

	fallback := fieldsvc.FallbackIdentity{
		Name:   helperAuth.GetUserNameFromLocals(c),
		Email:  helperAuth.GetUserEmailFromLocals(c),
		Manual: req.ManualParticipants,
	}
	sub, err := fieldsvc.Normalize(fields, tc, teamSize, req.FormData, fallback)
	if err != nil {
		if errors.Is(err, fieldsvc.ErrNoMeaningfulData) {
			return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
		}
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	dup, err := ctl.alreadyRegistered(c, ev.EventID, userID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if dup {
		return helper.JsonError(c, http.StatusConflict, "you are already registered for this event")
	}

	if ev.EventPaymentEnabled {
		if req.PaymentProofURL == nil {
			return helper.JsonError(c, http.StatusBadRequest, "payment_proof is required for this event")
		}
		wreq := dto.CreateWaitingListRequest{
			EventID:         ev.EventID,
			TeamName:        req.TeamName,
			Responses:       sub.Responses,
			Participants:    sub.Participants,
			PaymentProofURL: req.PaymentProofURL,
		}
		if err := wreq.Validate(ctl.Validator); err != nil {
			return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
		}
		m, err := wreq.ToModel(userID)
		if err != nil {
			return helper.JsonError(c, http.StatusInternalServerError, err.Error())
		}
		if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
			return helper.JsonError(c, http.StatusInternalServerError, err.Error())
		}
		return helper.JsonCreated(c, "Registration submitted for payment review", dto.FromWaitingListModel(m))
	}

	rreq := dto.CreateRegistrationRequest{
		EventID:         ev.EventID,
		TeamName:        req.TeamName,
		Responses:       sub.Responses,
		Participants:    sub.Participants,
		PaymentProofURL: req.PaymentProofURL,
	}
	m, err := rreq.ToModel(userID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := ctl.createConfirmed(c, ev.EventID, m); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Registered", dto.FromRegistrationModel(m))
}

/*
=========================================================

	REGISTRATION INTAKE (pre-normalized)
	POST /api/u/registrations
	Body: CreateRegistrationRequest {event_id, responses,
	participants}. Only for events without payment review.
	=========================================================
*/
func (ctl *RegistrationController) CreateRegistration(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return nil
	}

	var req dto.CreateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		if errors.Is(err, fieldsvc.ErrNoMeaningfulData) {
			return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
		}
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	ev, err := ctl.findEventByID(c, req.EventID)
	if err != nil {
		return nil
	}
	if ev.EventPaymentEnabled {
		return helper.JsonError(c, http.StatusBadRequest, "this event requires payment review; use the waiting-list intake")
	}
	if !ev.RegistrationOpen(time.Now()) {
		return helper.JsonError(c, http.StatusBadRequest, "registration for this event is closed")
	}

	dup, err := ctl.alreadyRegistered(c, ev.EventID, userID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if dup {
		return helper.JsonError(c, http.StatusConflict, "you are already registered for this event")
	}

	m, err := req.ToModel(userID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := ctl.createConfirmed(c, ev.EventID, m); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Registered", dto.FromRegistrationModel(m))
}

/*
=========================================================

	WAITING-LIST INTAKE (pre-normalized)
	POST /api/u/waiting-list
	Body: CreateWaitingListRequest — payment_proof required.
	=========================================================
*/
func (ctl *RegistrationController) CreateWaitingList(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return nil
	}

	var req dto.CreateWaitingListRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		if errors.Is(err, fieldsvc.ErrNoMeaningfulData) {
			return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
		}
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	ev, err := ctl.findEventByID(c, req.EventID)
	if err != nil {
		return nil
	}
	if !ev.EventPaymentEnabled {
		return helper.JsonError(c, http.StatusBadRequest, "this event does not use payment review; use the registration intake")
	}
	if !ev.RegistrationOpen(time.Now()) {
		return helper.JsonError(c, http.StatusBadRequest, "registration for this event is closed")
	}

	dup, err := ctl.alreadyRegistered(c, ev.EventID, userID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if dup {
		return helper.JsonError(c, http.StatusConflict, "you are already registered for this event")
	}

	m, err := req.ToModel(userID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Submitted for payment review", dto.FromWaitingListModel(m))
}

/*
=========================================================

	MY REGISTRATIONS
	GET /api/u/registrations
	GET /api/u/waiting-list
	=========================================================
*/
func (ctl *RegistrationController) ListMine(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return nil
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	tx := ctl.DB.WithContext(c.Context()).
		Model(&model.RegistrationModel{}).
		Where("registration_user_id = ? AND registration_deleted_at IS NULL", userID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []model.RegistrationModel
	if err := tx.
		Order("registration_created_at DESC").
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
	return helper.JsonList(c, "ok", dto.FromRegistrationModels(rows), &pg)
}

func (ctl *RegistrationController) ListMyWaiting(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return nil
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	tx := ctl.DB.WithContext(c.Context()).
		Model(&model.WaitingListModel{}).
		Where("waiting_list_user_id = ? AND waiting_list_deleted_at IS NULL", userID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []model.WaitingListModel
	if err := tx.
		Order("waiting_list_created_at DESC").
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
	return helper.JsonList(c, "ok", dto.FromWaitingListModels(rows), &pg)
}

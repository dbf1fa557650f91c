// file: internals/features/registrations/analytics/controller/analytics_controller.go
package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "eventpulse_backend/internals/helpers"
	helperAuth "eventpulse_backend/internals/helpers/auth"

	evmodel "eventpulse_backend/internals/features/events/events/model"
	service "eventpulse_backend/internals/features/registrations/analytics/service"
	regmodel "eventpulse_backend/internals/features/registrations/registration/model"
	usermodel "eventpulse_backend/internals/features/users/user/model"
)

/* =========================
   Controller
   ========================= */

type AnalyticsController struct {
	DB *gorm.DB
}

func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{DB: db}
}

func (ctl *AnalyticsController) requireHost(c *fiber.Ctx) (uuid.UUID, error) {
	hostID, err := helperAuth.GetUserIDFromLocals(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			_ = helper.JsonError(c, fe.Code, fe.Message)
			return uuid.Nil, err
		}
		_ = helper.JsonError(c, http.StatusUnauthorized, err.Error())
		return uuid.Nil, err
	}
	if err := helperAuth.EnsureHost(c); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			_ = helper.JsonError(c, fe.Code, fe.Message)
			return uuid.Nil, err
		}
		_ = helper.JsonError(c, http.StatusForbidden, err.Error())
		return uuid.Nil, err
	}
	return hostID, nil
}

func (ctl *AnalyticsController) findOwnedEvent(c *fiber.Ctx, hostID uuid.UUID) (*evmodel.EventModel, error) {
	param := strings.TrimSpace(c.Params("id"))
	eventID, err := uuid.Parse(param)
	if err != nil {
		return nil, helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}
	var ev evmodel.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("event_id = ? AND event_deleted_at IS NULL", eventID).
		First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, http.StatusNotFound, "event not found")
		}
		return nil, helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if ev.EventHostID != hostID {
		return nil, helper.JsonError(c, http.StatusForbidden, "you do not own this event")
	}
	return &ev, nil
}

/* =========================
   Entry assembly
   ========================= */

// loadUserMap fetches name/email for every registrant so extraction has its
// last-resort source.
func (ctl *AnalyticsController) loadUserMap(c *fiber.Ctx, ids []uuid.UUID) (map[uuid.UUID]map[string]any, error) {
	out := map[uuid.UUID]map[string]any{}
	if len(ids) == 0 {
		return out, nil
	}
	var users []usermodel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Select("id", "user_name", "email").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		u := &users[i]
		out[u.ID] = map[string]any{
			"name":  u.UserName,
			"email": u.Email,
		}
	}
	return out, nil
}

// collectEntries flattens every registration and waiting-list row of one event
// into extraction sources.
func (ctl *AnalyticsController) collectEntries(c *fiber.Ctx, eventID uuid.UUID) ([]service.SourceEntry, int, int, error) {
	var regs []regmodel.RegistrationModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("registration_event_id = ? AND registration_deleted_at IS NULL", eventID).
		Order("registration_created_at ASC").
		Find(&regs).Error; err != nil {
		return nil, 0, 0, err
	}

	var waiting []regmodel.WaitingListModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("waiting_list_event_id = ? AND waiting_list_deleted_at IS NULL", eventID).
		Order("waiting_list_created_at ASC").
		Find(&waiting).Error; err != nil {
		return nil, 0, 0, err
	}

	ids := make([]uuid.UUID, 0, len(regs)+len(waiting))
	for i := range regs {
		ids = append(ids, regs[i].RegistrationUserID)
	}
	for i := range waiting {
		ids = append(ids, waiting[i].WaitingListUserID)
	}
	userMap, err := ctl.loadUserMap(c, ids)
	if err != nil {
		return nil, 0, 0, err
	}

	entries := make([]service.SourceEntry, 0, len(regs)+len(waiting))
	for i := range regs {
		r := &regs[i]
		entries = append(entries, service.SourceEntry{
			Responses:       map[string]any(r.RegistrationResponses),
			Participants:    r.RegistrationParticipants,
			User:            userMap[r.RegistrationUserID],
			TeamName:        r.RegistrationTeamName,
			PaymentProofURL: r.RegistrationPaymentProofURL,
			Status:          "confirmed",
		})
	}
	for i := range waiting {
		w := &waiting[i]
		// approved entries already have a registration row; skip to avoid
		// double counting
		if w.WaitingListStatus == regmodel.WaitingApproved {
			continue
		}
		entries = append(entries, service.SourceEntry{
			Responses:       map[string]any(w.WaitingListResponses),
			Participants:    w.WaitingListParticipants,
			User:            userMap[w.WaitingListUserID],
			TeamName:        w.WaitingListTeamName,
			PaymentProofURL: w.WaitingListPaymentProofURL,
			Status:          string(w.WaitingListStatus),
		})
	}
	return entries, len(regs), len(waiting), nil
}

/*
=========================================================

	PARTICIPANTS TABLE
	GET /api/h/events/:id/participants
	=========================================================
*/
func (ctl *AnalyticsController) Participants(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}
	ev, err := ctl.findOwnedEvent(c, hostID)
	if err != nil {
		return nil
	}

	entries, regCount, waitingCount, err := ctl.collectEntries(c, ev.EventID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	rows := []service.ParticipantRow{}
	for _, e := range entries {
		rows = append(rows, service.ExtractParticipants(e)...)
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"event_id":            ev.EventID,
		"event_slug":          ev.EventSlug,
		"total_registrations": regCount,
		"total_waiting":       waitingCount,
		"participant_count":   len(rows),
		"extra_columns":       service.ExtraColumns(rows),
		"participants":        rows,
	})
}

/*
=========================================================

	CSV EXPORT
	GET /api/h/events/:id/participants/export
	?format=json for the raw rows instead of CSV.
	=========================================================
*/
func (ctl *AnalyticsController) Export(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}
	ev, err := ctl.findOwnedEvent(c, hostID)
	if err != nil {
		return nil
	}

	entries, _, _, err := ctl.collectEntries(c, ev.EventID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	rows := []service.ParticipantRow{}
	for _, e := range entries {
		rows = append(rows, service.ExtractParticipants(e)...)
	}

	if strings.EqualFold(c.Query("format"), "json") {
		return helper.JsonOK(c, "ok", fiber.Map{
			"header":       append(append([]string{}, service.CanonicalColumns...), service.ExtraColumns(rows)...),
			"participants": rows,
		})
	}

	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, rows); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	filename := fmt.Sprintf("%s-participants.csv", ev.EventSlug)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Status(http.StatusOK).Send(buf.Bytes())
}

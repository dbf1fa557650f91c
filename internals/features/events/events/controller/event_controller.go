// file: internals/features/events/events/controller/event_controller.go
package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	helper "eventpulse_backend/internals/helpers"
	helperAuth "eventpulse_backend/internals/helpers/auth"

	dto "eventpulse_backend/internals/features/events/events/dto"
	model "eventpulse_backend/internals/features/events/events/model"
	fieldsvc "eventpulse_backend/internals/features/events/fields/service"
)

/* =========================
   Controller
   ========================= */

type EventController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =========================
   Small helpers
   ========================= */

func (ctl *EventController) getID(c *fiber.Ctx) (uuid.UUID, error) {
	param := strings.TrimSpace(c.Params("id"))
	if param == "" {
		return uuid.Nil, errors.New("missing id")
	}
	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, errors.New("invalid id")
	}
	return id, nil
}

// isDuplicateKey: Postgres unique violation (SQLSTATE 23505).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "23505")
}

// requireHost: authenticated + role gate; replies on failure so callers just return nil.
func (ctl *EventController) requireHost(c *fiber.Ctx) (uuid.UUID, error) {
	userID, err := helperAuth.GetUserIDFromLocals(c)
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
	return userID, nil
}

// findOwnedEvent loads an event row and enforces ownership.
func (ctl *EventController) findOwnedEvent(c *fiber.Ctx, id, hostID uuid.UUID, lock bool) (*model.EventModel, error) {
	tx := ctl.DB.WithContext(c.Context())
	if lock {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m model.EventModel
	if err := tx.
		Where("event_id = ? AND event_deleted_at IS NULL", id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, http.StatusNotFound, "event not found")
		}
		return nil, helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if m.EventHostID != hostID {
		return nil, helper.JsonError(c, http.StatusForbidden, "you do not own this event")
	}
	return &m, nil
}

/*
=========================================================

	CREATE
	POST /api/h/events
	Body: JSON CreateEventRequest
	=========================================================
*/
func (ctl *EventController) Create(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil // response already sent by the helper
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	// sub-event: the parent must be the caller's own event and a root event
	if req.EventParentID != nil {
		var parent model.EventModel
		if err := ctl.DB.WithContext(c.Context()).
			Where("event_id = ? AND event_deleted_at IS NULL", *req.EventParentID).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, http.StatusBadRequest, "parent event not found")
			}
			return helper.JsonError(c, http.StatusInternalServerError, err.Error())
		}
		if parent.EventHostID != hostID {
			return helper.JsonError(c, http.StatusForbidden, "you do not own the parent event")
		}
		if parent.EventParentID != nil {
			return helper.JsonError(c, http.StatusBadRequest, "events nest only one level deep")
		}
	}

	base := helper.Slugify(req.EventTitle, 100)
	slug, err := helper.EnsureUniqueSlugCI(c.Context(), ctl.DB, "events", "event_slug", base, nil, 120)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	m, err := req.ToModel(hostID, slug)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, http.StatusConflict, "an event with this slug already exists")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Event created", dto.FromModel(m))
}

/*
=========================================================

	PATCH
	PATCH /api/h/events/:id
	Body: JSON PatchEventRequest (tri-state)
	=========================================================
*/
func (ctl *EventController) Patch(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}

	id, err := ctl.getID(c)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var req dto.PatchEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.ValidatePartial(); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	m, err := ctl.findOwnedEvent(c, id, hostID, true)
	if err != nil {
		return nil
	}

	if err := req.ApplyPatch(m); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	// re-check cross-field coherence after the patch landed
	if err := m.TeamConfig().Validate(); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if m.EventEndAt != nil && m.EventEndAt.Before(m.EventStartAt) {
		return helper.JsonError(c, http.StatusBadRequest, "event_end_at must not be before event_start_at")
	}
	if m.EventPaymentEnabled && m.EventPaymentAmount == nil {
		return helper.JsonError(c, http.StatusBadRequest, "event_payment_amount is required when payment is enabled")
	}

	if err := ctl.DB.WithContext(c.Context()).Save(m).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, http.StatusConflict, "an event with this slug already exists")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Event updated", dto.FromModel(m))
}

/*
=========================================================

	DELETE (soft)
	DELETE /api/h/events/:id
	=========================================================
*/
func (ctl *EventController) Delete(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}

	id, err := ctl.getID(c)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	m, err := ctl.findOwnedEvent(c, id, hostID, false)
	if err != nil {
		return nil
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonDeleted(c, "Event deleted", fiber.Map{
		"event_id": id,
	})
}

/*
=========================================================

	LIST (host)
	GET /api/h/events
	Query: q, tag, is_published, page, per_page, sort_by, order
	=========================================================
*/
var eventSortable = map[string]string{
	"created_at": "event_created_at",
	"start_at":   "event_start_at",
	"title":      "event_title",
}

func (ctl *EventController) ListMine(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}

	var q dto.ListEventQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	q.Normalize()

	p := helper.ParseFiber(c, "created_at", "desc", helper.HostOpts)
	order, err := p.SafeOrderClause(eventSortable, "created_at")
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	tx := ctl.DB.WithContext(c.Context()).
		Model(&model.EventModel{}).
		Where("event_host_id = ? AND event_deleted_at IS NULL", hostID)
	tx = applyEventFilters(tx, &q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []model.EventModel
	if err := tx.
		Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

/*
=========================================================

	LIST (public)
	GET /api/events
	=========================================================
*/
func (ctl *EventController) ListPublic(c *fiber.Ctx) error {
	var q dto.ListEventQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	q.Normalize()
	published := true
	q.IsPublished = &published

	p := helper.ParseFiber(c, "start_at", "asc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(eventSortable, "start_at")
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	tx := ctl.DB.WithContext(c.Context()).
		Model(&model.EventModel{}).
		Where("event_deleted_at IS NULL")
	tx = applyEventFilters(tx, &q)
	if q.OnlyOpen {
		now := time.Now()
		tx = tx.Where("event_start_at > ?", now).
			Where("event_registration_close_at IS NULL OR event_registration_close_at > ?", now)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []model.EventModel
	if err := tx.
		Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

func applyEventFilters(tx *gorm.DB, q *dto.ListEventQuery) *gorm.DB {
	if q.IsPublished != nil {
		tx = tx.Where("event_is_published = ?", *q.IsPublished)
	}
	if q.ParentID != nil {
		if pid, err := uuid.Parse(*q.ParentID); err == nil {
			tx = tx.Where("event_parent_id = ?", pid)
		}
	}
	if q.Search != nil {
		tx = tx.Where("event_title ILIKE ?", "%"+*q.Search+"%")
	}
	if q.Tag != nil {
		tx = tx.Where("? = ANY(event_tags)", *q.Tag)
	}
	return tx
}

/*
=========================================================

	DETAIL (public)
	GET /api/events/:slug
	=========================================================
*/
func (ctl *EventController) GetBySlug(c *fiber.Ctx) error {
	slug := strings.ToLower(strings.TrimSpace(c.Params("slug")))
	if slug == "" {
		return helper.JsonError(c, http.StatusBadRequest, "missing slug")
	}

	var m model.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("LOWER(event_slug) = ? AND event_is_published = TRUE AND event_deleted_at IS NULL", slug).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "event not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", dto.FromModel(&m))
}

/*
=========================================================

	REGISTRATION FORM (public)
	GET /api/events/:slug/registration-form?team_size=N
	Expands the field list into concrete input slots.
	=========================================================
*/
func (ctl *EventController) GetRegistrationForm(c *fiber.Ctx) error {
	slug := strings.ToLower(strings.TrimSpace(c.Params("slug")))
	if slug == "" {
		return helper.JsonError(c, http.StatusBadRequest, "missing slug")
	}

	var m model.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("LOWER(event_slug) = ? AND event_is_published = TRUE AND event_deleted_at IS NULL", slug).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "event not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	chosen := 0
	if v := strings.TrimSpace(c.Query("team_size")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return helper.JsonError(c, http.StatusBadRequest, "invalid team_size")
		}
		chosen = n
	}

	fields, err := m.Fields()
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	tc := m.TeamConfig()

	instances, err := fieldsvc.ExpandForm(fields, tc, chosen)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	resolved, _ := tc.ResolveSize(chosen)
	return helper.JsonOK(c, "ok", fiber.Map{
		"event_id":           m.EventID,
		"event_slug":         m.EventSlug,
		"team_size":          resolved,
		"flexible_team_size": m.EventFlexibleTeamSize,
		"team_size_min":      m.EventTeamSizeMin,
		"team_size_max":      m.EventTeamSizeMax,
		"inputs":             instances,
	})
}

// file: internals/features/events/events/controller/event_field_controller.go
package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "eventpulse_backend/internals/helpers"

	fieldsvc "eventpulse_backend/internals/features/events/fields/service"
)

/* =========================================================
   Incremental field editing on an event's custom form.
   Each call loads the stored list, applies one builder op,
   and writes the list back under a row lock.
   ========================================================= */

func (ctl *EventController) getFieldIndex(c *fiber.Ctx) (int, error) {
	v := strings.TrimSpace(c.Params("index"))
	idx, err := strconv.Atoi(v)
	if err != nil || idx < 0 {
		return 0, errors.New("invalid field index")
	}
	return idx, nil
}

/*
=========================================================

	ADD FIELD
	POST /api/h/events/:id/fields
	Appends a blank field; refused while the last one is
	still incomplete.
	=========================================================
*/
func (ctl *EventController) AddField(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}
	id, err := ctl.getID(c)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	m, err := ctl.findOwnedEvent(c, id, hostID, true)
	if err != nil {
		return nil
	}

	fields, err := m.Fields()
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	b := fieldsvc.NewFieldListBuilder(fields)
	if err := b.AddField(); err != nil {
		var incomplete *fieldsvc.IncompleteFieldError
		if errors.As(err, &incomplete) {
			return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
		}
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	if err := m.SetFields(b.Fields()); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := ctl.DB.WithContext(c.Context()).Save(m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Field added", fiber.Map{
		"event_id": m.EventID,
		"fields":   b.Fields(),
	})
}

/*
=========================================================

	UPDATE FIELD
	PATCH /api/h/events/:id/fields/:index
	Body: {"key": "...", "value": ...}
	key ∈ label|type|required|options|is_individual
	=========================================================
*/
type updateFieldRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func (ctl *EventController) UpdateField(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}
	id, err := ctl.getID(c)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	idx, err := ctl.getFieldIndex(c)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var req updateFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" {
		return helper.JsonError(c, http.StatusBadRequest, "missing key")
	}

	m, err := ctl.findOwnedEvent(c, id, hostID, true)
	if err != nil {
		return nil
	}

	fields, err := m.Fields()
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	b := fieldsvc.NewFieldListBuilder(fields)
	if err := b.UpdateField(idx, req.Key, req.Value); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	if err := m.SetFields(b.Fields()); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := ctl.DB.WithContext(c.Context()).Save(m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Field updated", fiber.Map{
		"event_id": m.EventID,
		"fields":   b.Fields(),
	})
}

/*
=========================================================

	REMOVE FIELD
	DELETE /api/h/events/:id/fields/:index
	=========================================================
*/
func (ctl *EventController) RemoveField(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}
	id, err := ctl.getID(c)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	idx, err := ctl.getFieldIndex(c)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	m, err := ctl.findOwnedEvent(c, id, hostID, true)
	if err != nil {
		return nil
	}

	fields, err := m.Fields()
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	b := fieldsvc.NewFieldListBuilder(fields)
	if err := b.RemoveField(idx); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	if err := m.SetFields(b.Fields()); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := ctl.DB.WithContext(c.Context()).Save(m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonDeleted(c, "Field removed", fiber.Map{
		"event_id": m.EventID,
		"fields":   b.Fields(),
	})
}

/*
=========================================================

	FINALIZE FIELDS
	POST /api/h/events/:id/fields/finalize
	Verifies every field is complete; used before publish.
	=========================================================
*/
func (ctl *EventController) FinalizeFields(c *fiber.Ctx) error {
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

	fields, err := m.Fields()
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	b := fieldsvc.NewFieldListBuilder(fields)
	final, err := b.Finalize()
	if err != nil {
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}

	return helper.JsonOK(c, "Field list is complete", fiber.Map{
		"event_id": m.EventID,
		"fields":   final,
	})
}

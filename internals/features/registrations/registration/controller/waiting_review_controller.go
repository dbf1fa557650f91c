// file: internals/features/registrations/registration/controller/waiting_review_controller.go
package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	helper "eventpulse_backend/internals/helpers"
	helperAuth "eventpulse_backend/internals/helpers/auth"

	evmodel "eventpulse_backend/internals/features/events/events/model"
	dto "eventpulse_backend/internals/features/registrations/registration/dto"
	model "eventpulse_backend/internals/features/registrations/registration/model"
)

/* =========================================================
   Host review of registrations & the waiting list.
   ========================================================= */

func (ctl *RegistrationController) requireHost(c *fiber.Ctx) (uuid.UUID, error) {
	hostID, err := ctl.requireUser(c)
	if err != nil {
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

func (ctl *RegistrationController) getUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	v := strings.TrimSpace(c.Params(name))
	if v == "" {
		return uuid.Nil, errors.New("missing " + name)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, errors.New("invalid " + name)
	}
	return id, nil
}

// findOwnedEvent: the event must exist and belong to the caller.
func (ctl *RegistrationController) findOwnedEvent(c *fiber.Ctx, eventID, hostID uuid.UUID) (*evmodel.EventModel, error) {
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

/*
=========================================================

	LIST REGISTRATIONS (host)
	GET /api/h/events/:id/registrations
	=========================================================
*/
func (ctl *RegistrationController) ListByEvent(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}
	eventID, err := ctl.getUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if _, err := ctl.findOwnedEvent(c, eventID, hostID); err != nil {
		return nil
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.HostOpts)

	tx := ctl.DB.WithContext(c.Context()).
		Model(&model.RegistrationModel{}).
		Where("registration_event_id = ? AND registration_deleted_at IS NULL", eventID)

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

/*
=========================================================

	LIST WAITING ENTRIES (host)
	GET /api/h/events/:id/waiting-list?status=pending
	=========================================================
*/
func (ctl *RegistrationController) ListWaitingByEvent(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}
	eventID, err := ctl.getUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if _, err := ctl.findOwnedEvent(c, eventID, hostID); err != nil {
		return nil
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.HostOpts)

	tx := ctl.DB.WithContext(c.Context()).
		Model(&model.WaitingListModel{}).
		Where("waiting_list_event_id = ? AND waiting_list_deleted_at IS NULL", eventID)

	if s := model.WaitingListStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))); s != "" {
		if !s.Valid() {
			return helper.JsonError(c, http.StatusBadRequest, "invalid status filter")
		}
		tx = tx.Where("waiting_list_status = ?", s)
	}

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

/*
=========================================================

	APPROVE
	POST /api/h/waiting-list/:id/approve
	Copies the payload into a registration inside one
	transaction, then marks the entry approved.
	=========================================================
*/
func (ctl *RegistrationController) Approve(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}
	entryID, err := ctl.getUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var created *model.RegistrationModel
	txErr := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var entry model.WaitingListModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("waiting_list_id = ? AND waiting_list_deleted_at IS NULL", entryID).
			First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(http.StatusNotFound, "waiting-list entry not found")
			}
			return err
		}

		var ev evmodel.EventModel
		if err := tx.
			Where("event_id = ? AND event_deleted_at IS NULL", entry.WaitingListEventID).
			First(&ev).Error; err != nil {
			return err
		}
		if ev.EventHostID != hostID {
			return fiber.NewError(http.StatusForbidden, "you do not own this event")
		}
		if entry.WaitingListStatus != model.WaitingPending {
			return fiber.NewError(http.StatusConflict, "entry has already been reviewed")
		}

		if ev.EventCapacity != nil {
			var n int64
			if err := tx.
				Model(&model.RegistrationModel{}).
				Where("registration_event_id = ? AND registration_deleted_at IS NULL", ev.EventID).
				Count(&n).Error; err != nil {
				return err
			}
			if n >= int64(*ev.EventCapacity) {
				return fiber.NewError(http.StatusConflict, "event is full")
			}
		}

		reg := &model.RegistrationModel{
			RegistrationEventID:         entry.WaitingListEventID,
			RegistrationUserID:          entry.WaitingListUserID,
			RegistrationTeamName:        entry.WaitingListTeamName,
			RegistrationResponses:       entry.WaitingListResponses,
			RegistrationParticipants:    entry.WaitingListParticipants,
			RegistrationPaymentProofURL: entry.WaitingListPaymentProofURL,
		}
		if err := tx.Create(reg).Error; err != nil {
			if isDuplicateKey(err) {
				return fiber.NewError(http.StatusConflict, "user is already registered for this event")
			}
			return err
		}

		now := time.Now()
		entry.WaitingListStatus = model.WaitingApproved
		entry.WaitingListReviewedAt = &now
		entry.WaitingListReviewedBy = &hostID
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}

		created = reg
		return nil
	})
	if txErr != nil {
		if fe, ok := txErr.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusInternalServerError, txErr.Error())
	}

	return helper.JsonOK(c, "Approved", dto.FromRegistrationModel(created))
}

/*
=========================================================

	REJECT
	POST /api/h/waiting-list/:id/reject
	=========================================================
*/
func (ctl *RegistrationController) Reject(c *fiber.Ctx) error {
	hostID, err := ctl.requireHost(c)
	if err != nil {
		return nil
	}
	entryID, err := ctl.getUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var entry model.WaitingListModel
	txErr := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("waiting_list_id = ? AND waiting_list_deleted_at IS NULL", entryID).
			First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(http.StatusNotFound, "waiting-list entry not found")
			}
			return err
		}

		var ev evmodel.EventModel
		if err := tx.
			Where("event_id = ? AND event_deleted_at IS NULL", entry.WaitingListEventID).
			First(&ev).Error; err != nil {
			return err
		}
		if ev.EventHostID != hostID {
			return fiber.NewError(http.StatusForbidden, "you do not own this event")
		}
		if entry.WaitingListStatus != model.WaitingPending {
			return fiber.NewError(http.StatusConflict, "entry has already been reviewed")
		}

		now := time.Now()
		entry.WaitingListStatus = model.WaitingRejected
		entry.WaitingListReviewedAt = &now
		entry.WaitingListReviewedBy = &hostID
		return tx.Save(&entry).Error
	})
	if txErr != nil {
		if fe, ok := txErr.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusInternalServerError, txErr.Error())
	}

	return helper.JsonOK(c, "Rejected", dto.FromWaitingListModel(&entry))
}

// file: internals/features/events/events/dto/event_dto.go
package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"

	model "eventpulse_backend/internals/features/events/events/model"
	fieldmodel "eventpulse_backend/internals/features/events/fields/model"
	fieldsvc "eventpulse_backend/internals/features/events/fields/service"
)

/* =========================================================
   Shared helpers
   ========================================================= */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

/* =========================================================
   PatchField (tri-state): absent | null | value
   ========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

/* =========================================================
   Requests: CREATE
   ========================================================= */

type CreateEventRequest struct {
	// HostID is forced from the token, never the body
	EventParentID    *uuid.UUID `json:"event_parent_id"` // sub-event of a mega event
	EventTitle       string     `json:"event_title" validate:"required,max=200"`
	EventDescription *string    `json:"event_description" validate:"omitempty,max=10000"`
	EventLocation    *string    `json:"event_location" validate:"omitempty,max=200"`

	EventStartAt             time.Time  `json:"event_start_at" validate:"required"`
	EventEndAt               *time.Time `json:"event_end_at"`
	EventRegistrationCloseAt *time.Time `json:"event_registration_close_at"`

	EventCapacity       *int     `json:"event_capacity" validate:"omitempty,min=1"`
	EventPaymentEnabled bool     `json:"event_payment_enabled"`
	EventPaymentAmount  *float64 `json:"event_payment_amount" validate:"omitempty,gt=0"`

	EventTeamSize         *int `json:"event_team_size"`
	EventFlexibleTeamSize bool `json:"event_flexible_team_size"`
	EventTeamSizeMin      *int `json:"event_team_size_min"`
	EventTeamSizeMax      *int `json:"event_team_size_max"`

	EventCustomFields []fieldmodel.FieldDefinition `json:"event_custom_fields"`
	EventTags         []string                     `json:"event_tags" validate:"omitempty,max=10,dive,max=40"`
	EventIsPublished  bool                         `json:"event_is_published"`
}

func (r *CreateEventRequest) Normalize() {
	r.EventTitle = strings.TrimSpace(r.EventTitle)
	r.EventDescription = trimPtr(r.EventDescription)
	r.EventLocation = trimPtr(r.EventLocation)
	r.EventTags = normalizeTags(r.EventTags)
}

func (r *CreateEventRequest) teamConfig() fieldmodel.TeamConfig {
	return fieldmodel.TeamConfig{
		TeamSize:         r.EventTeamSize,
		FlexibleTeamSize: r.EventFlexibleTeamSize,
		TeamSizeMin:      r.EventTeamSizeMin,
		TeamSizeMax:      r.EventTeamSizeMax,
	}
}

func (r *CreateEventRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(r); err != nil {
		return err
	}
	if r.EventEndAt != nil && r.EventEndAt.Before(r.EventStartAt) {
		return errors.New("event_end_at must not be before event_start_at")
	}
	if r.EventRegistrationCloseAt != nil && r.EventRegistrationCloseAt.After(r.EventStartAt) {
		return errors.New("event_registration_close_at must not be after event_start_at")
	}
	if r.EventPaymentEnabled && r.EventPaymentAmount == nil {
		return errors.New("event_payment_amount is required when payment is enabled")
	}
	if err := r.teamConfig().Validate(); err != nil {
		return err
	}
	if err := fieldsvc.ValidateFieldList(r.EventCustomFields); err != nil {
		return err
	}
	return nil
}

func (r *CreateEventRequest) ToModel(hostID uuid.UUID, slug string) (*model.EventModel, error) {
	m := &model.EventModel{
		EventHostID:              hostID,
		EventParentID:            r.EventParentID,
		EventTitle:               r.EventTitle,
		EventSlug:                slug,
		EventDescription:         r.EventDescription,
		EventLocation:            r.EventLocation,
		EventStartAt:             r.EventStartAt,
		EventEndAt:               r.EventEndAt,
		EventRegistrationCloseAt: r.EventRegistrationCloseAt,
		EventCapacity:            r.EventCapacity,
		EventPaymentEnabled:      r.EventPaymentEnabled,
		EventPaymentAmount:       r.EventPaymentAmount,
		EventTeamSize:            r.EventTeamSize,
		EventFlexibleTeamSize:    r.EventFlexibleTeamSize,
		EventTeamSizeMin:         r.EventTeamSizeMin,
		EventTeamSizeMax:         r.EventTeamSizeMax,
		EventTags:                pq.StringArray(r.EventTags),
		EventIsPublished:         r.EventIsPublished,
	}
	if err := m.SetFields(r.EventCustomFields); err != nil {
		return nil, err
	}
	return m, nil
}

/* =========================================================
   Requests: PATCH (partial)
   ========================================================= */

type PatchEventRequest struct {
	EventTitle       PatchField[string] `json:"event_title"`
	EventDescription PatchField[string] `json:"event_description"`
	EventLocation    PatchField[string] `json:"event_location"`

	EventStartAt             PatchField[time.Time] `json:"event_start_at"`
	EventEndAt               PatchField[time.Time] `json:"event_end_at"`
	EventRegistrationCloseAt PatchField[time.Time] `json:"event_registration_close_at"`

	EventCapacity       PatchField[int]     `json:"event_capacity"`
	EventPaymentEnabled PatchField[bool]    `json:"event_payment_enabled"`
	EventPaymentAmount  PatchField[float64] `json:"event_payment_amount"`

	EventTeamSize         PatchField[int]  `json:"event_team_size"`
	EventFlexibleTeamSize PatchField[bool] `json:"event_flexible_team_size"`
	EventTeamSizeMin      PatchField[int]  `json:"event_team_size_min"`
	EventTeamSizeMax      PatchField[int]  `json:"event_team_size_max"`

	EventCustomFields PatchField[[]fieldmodel.FieldDefinition] `json:"event_custom_fields"`
	EventTags         PatchField[[]string]                     `json:"event_tags"`
	EventIsPublished  PatchField[bool]                         `json:"event_is_published"`
}

func (p *PatchEventRequest) Normalize() {
	if p.EventTitle.Present && p.EventTitle.Value != nil {
		v := strings.TrimSpace(*p.EventTitle.Value)
		p.EventTitle.Value = &v
	}
	if p.EventDescription.Present {
		p.EventDescription.Value = trimPtr(p.EventDescription.Value)
	}
	if p.EventLocation.Present {
		p.EventLocation.Value = trimPtr(p.EventLocation.Value)
	}
	if p.EventTags.Present && p.EventTags.Value != nil {
		v := normalizeTags(*p.EventTags.Value)
		p.EventTags.Value = &v
	}
}

// ValidatePartial: basic validation for the fields that were sent only
func (p *PatchEventRequest) ValidatePartial() error {
	if p.EventTitle.Present {
		if p.EventTitle.Value == nil || *p.EventTitle.Value == "" {
			return errors.New("event_title cannot be empty")
		}
		if len(*p.EventTitle.Value) > 200 {
			return errors.New("event_title max 200 characters")
		}
	}
	if p.EventCapacity.Present && p.EventCapacity.Value != nil && *p.EventCapacity.Value < 1 {
		return errors.New("event_capacity must be at least 1")
	}
	if p.EventPaymentAmount.Present && p.EventPaymentAmount.Value != nil && *p.EventPaymentAmount.Value <= 0 {
		return errors.New("event_payment_amount must be positive")
	}
	if p.EventCustomFields.Present && p.EventCustomFields.Value != nil {
		if err := fieldsvc.ValidateFieldList(*p.EventCustomFields.Value); err != nil {
			return err
		}
	}
	return nil
}

// ApplyPatch: mutate the model in place for every Present field.
// Team-config and time coherence are re-checked by the controller afterwards.
func (p *PatchEventRequest) ApplyPatch(m *model.EventModel) error {
	if val, ok := p.EventTitle.Get(); ok && val != nil {
		m.EventTitle = *val
	}
	if val, ok := p.EventDescription.Get(); ok {
		m.EventDescription = val
	}
	if val, ok := p.EventLocation.Get(); ok {
		m.EventLocation = val
	}
	if val, ok := p.EventStartAt.Get(); ok && val != nil {
		m.EventStartAt = *val
	}
	if val, ok := p.EventEndAt.Get(); ok {
		m.EventEndAt = val
	}
	if val, ok := p.EventRegistrationCloseAt.Get(); ok {
		m.EventRegistrationCloseAt = val
	}
	if val, ok := p.EventCapacity.Get(); ok {
		m.EventCapacity = val
	}
	if val, ok := p.EventPaymentEnabled.Get(); ok && val != nil {
		m.EventPaymentEnabled = *val
	}
	if val, ok := p.EventPaymentAmount.Get(); ok {
		m.EventPaymentAmount = val
	}
	if val, ok := p.EventTeamSize.Get(); ok {
		m.EventTeamSize = val
	}
	if val, ok := p.EventFlexibleTeamSize.Get(); ok && val != nil {
		m.EventFlexibleTeamSize = *val
	}
	if val, ok := p.EventTeamSizeMin.Get(); ok {
		m.EventTeamSizeMin = val
	}
	if val, ok := p.EventTeamSizeMax.Get(); ok {
		m.EventTeamSizeMax = val
	}
	if val, ok := p.EventCustomFields.Get(); ok {
		fields := []fieldmodel.FieldDefinition{}
		if val != nil {
			fields = *val
		}
		if err := m.SetFields(fields); err != nil {
			return err
		}
	}
	if val, ok := p.EventTags.Get(); ok {
		if val == nil {
			m.EventTags = nil
		} else {
			m.EventTags = pq.StringArray(*val)
		}
	}
	if val, ok := p.EventIsPublished.Get(); ok && val != nil {
		m.EventIsPublished = *val
	}
	return nil
}

/* =========================================================
   Query (list): filter/sort/paging handled via helper.Params
   ========================================================= */

type ListEventQuery struct {
	Search      *string `query:"q"`         // ILIKE title
	Tag         *string `query:"tag"`       // single tag match
	OnlyOpen    bool    `query:"only_open"` // registration still open
	IsPublished *bool   `query:"is_published"`
	ParentID    *string `query:"parent_id"` // sub-events of one mega event
}

func (q *ListEventQuery) Normalize() {
	q.Search = trimPtr(q.Search)
	q.ParentID = trimPtr(q.ParentID)
	if q.Tag != nil {
		v := strings.ToLower(strings.TrimSpace(*q.Tag))
		if v == "" {
			q.Tag = nil
		} else {
			q.Tag = &v
		}
	}
}

/* =========================================================
   Response DTO
   ========================================================= */

type EventResponse struct {
	EventID          uuid.UUID  `json:"event_id"`
	EventHostID      uuid.UUID  `json:"event_host_id"`
	EventParentID    *uuid.UUID `json:"event_parent_id,omitempty"`
	EventTitle       string     `json:"event_title"`
	EventSlug        string     `json:"event_slug"`
	EventDescription *string    `json:"event_description,omitempty"`
	EventLocation    *string    `json:"event_location,omitempty"`
	EventPosterURL   *string    `json:"event_poster_url,omitempty"`

	EventStartAt             time.Time  `json:"event_start_at"`
	EventEndAt               *time.Time `json:"event_end_at,omitempty"`
	EventRegistrationCloseAt *time.Time `json:"event_registration_close_at,omitempty"`

	EventCapacity       *int     `json:"event_capacity,omitempty"`
	EventPaymentEnabled bool     `json:"event_payment_enabled"`
	EventPaymentAmount  *float64 `json:"event_payment_amount,omitempty"`
	EventPaymentQRURL   *string  `json:"event_payment_qr_url,omitempty"`

	EventTeamSize         *int `json:"event_team_size,omitempty"`
	EventFlexibleTeamSize bool `json:"event_flexible_team_size"`
	EventTeamSizeMin      *int `json:"event_team_size_min,omitempty"`
	EventTeamSizeMax      *int `json:"event_team_size_max,omitempty"`

	EventCustomFields []fieldmodel.FieldDefinition `json:"event_custom_fields"`
	EventTags         []string                     `json:"event_tags,omitempty"`
	EventIsPublished  bool                         `json:"event_is_published"`

	EventCreatedAt string `json:"event_created_at"`
	EventUpdatedAt string `json:"event_updated_at"`
}

func FromModel(m *model.EventModel) EventResponse {
	fields, err := m.Fields()
	if err != nil {
		fields = []fieldmodel.FieldDefinition{}
	}
	return EventResponse{
		EventID:                  m.EventID,
		EventHostID:              m.EventHostID,
		EventParentID:            m.EventParentID,
		EventTitle:               m.EventTitle,
		EventSlug:                m.EventSlug,
		EventDescription:         m.EventDescription,
		EventLocation:            m.EventLocation,
		EventPosterURL:           m.EventPosterURL,
		EventStartAt:             m.EventStartAt,
		EventEndAt:               m.EventEndAt,
		EventRegistrationCloseAt: m.EventRegistrationCloseAt,
		EventCapacity:            m.EventCapacity,
		EventPaymentEnabled:      m.EventPaymentEnabled,
		EventPaymentAmount:       m.EventPaymentAmount,
		EventPaymentQRURL:        m.EventPaymentQRURL,
		EventTeamSize:            m.EventTeamSize,
		EventFlexibleTeamSize:    m.EventFlexibleTeamSize,
		EventTeamSizeMin:         m.EventTeamSizeMin,
		EventTeamSizeMax:         m.EventTeamSizeMax,
		EventCustomFields:        fields,
		EventTags:                []string(m.EventTags),
		EventIsPublished:         m.EventIsPublished,
		EventCreatedAt:           m.EventCreatedAt.Format(time.RFC3339),
		EventUpdatedAt:           m.EventUpdatedAt.Format(time.RFC3339),
	}
}

func FromModels(list []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

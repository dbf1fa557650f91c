// file: internals/features/events/events/model/event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	fieldmodel "eventpulse_backend/internals/features/events/fields/model"
)

/* ===================== Model ===================== */

type EventModel struct {
	// PK & owner
	EventID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:event_id" json:"event_id"`
	EventHostID uuid.UUID `gorm:"type:uuid;not null;index;column:event_host_id"                  json:"event_host_id"`

	// Mega event → sub-events (one level deep)
	EventParentID *uuid.UUID `gorm:"type:uuid;index;column:event_parent_id" json:"event_parent_id,omitempty"`

	// Core info
	EventTitle       string  `gorm:"type:varchar(200);not null;column:event_title"        json:"event_title"`
	EventSlug        string  `gorm:"type:varchar(120);not null;uniqueIndex;column:event_slug" json:"event_slug"`
	EventDescription *string `gorm:"type:text;column:event_description"                   json:"event_description,omitempty"`
	EventLocation    *string `gorm:"type:varchar(200);column:event_location"              json:"event_location,omitempty"`
	EventPosterURL   *string `gorm:"type:text;column:event_poster_url"                    json:"event_poster_url,omitempty"`

	// Timing
	EventStartAt             time.Time  `gorm:"type:timestamptz;not null;column:event_start_at"        json:"event_start_at"`
	EventEndAt               *time.Time `gorm:"type:timestamptz;column:event_end_at"                   json:"event_end_at,omitempty"`
	EventRegistrationCloseAt *time.Time `gorm:"type:timestamptz;column:event_registration_close_at"    json:"event_registration_close_at,omitempty"`

	// Capacity & payment
	EventCapacity       *int     `gorm:"type:int;column:event_capacity"                json:"event_capacity,omitempty"`
	EventPaymentEnabled bool     `gorm:"not null;default:false;column:event_payment_enabled" json:"event_payment_enabled"`
	EventPaymentAmount  *float64 `gorm:"type:numeric(12,2);column:event_payment_amount" json:"event_payment_amount,omitempty"`
	EventPaymentQRURL   *string  `gorm:"type:text;column:event_payment_qr_url"         json:"event_payment_qr_url,omitempty"`

	// Team configuration (solo when all unset)
	EventTeamSize         *int `gorm:"type:int;column:event_team_size"           json:"event_team_size,omitempty"`
	EventFlexibleTeamSize bool `gorm:"not null;default:false;column:event_flexible_team_size" json:"event_flexible_team_size"`
	EventTeamSizeMin      *int `gorm:"type:int;column:event_team_size_min"       json:"event_team_size_min,omitempty"`
	EventTeamSizeMax      *int `gorm:"type:int;column:event_team_size_max"       json:"event_team_size_max,omitempty"`

	// Custom registration form (ordered FieldDefinition array)
	EventCustomFields datatypes.JSON `gorm:"type:jsonb;column:event_custom_fields" json:"event_custom_fields,omitempty"`

	// Discovery
	EventTags        pq.StringArray `gorm:"type:text[];column:event_tags"                  json:"event_tags,omitempty"`
	EventIsPublished bool           `gorm:"not null;default:false;column:event_is_published" json:"event_is_published"`

	// Audit
	EventCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:event_created_at" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:event_updated_at" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at"                                                        json:"event_deleted_at,omitempty"`
}

func (EventModel) TableName() string { return "events" }

/* ===================== Derived views ===================== */

// TeamConfig assembles the team columns into the shape the form services consume.
func (m *EventModel) TeamConfig() fieldmodel.TeamConfig {
	return fieldmodel.TeamConfig{
		TeamSize:         m.EventTeamSize,
		FlexibleTeamSize: m.EventFlexibleTeamSize,
		TeamSizeMin:      m.EventTeamSizeMin,
		TeamSizeMax:      m.EventTeamSizeMax,
	}
}

// Fields decodes event_custom_fields; absent/null JSONB yields an empty slice.
func (m *EventModel) Fields() ([]fieldmodel.FieldDefinition, error) {
	return fieldmodel.DecodeFieldDefinitions(m.EventCustomFields)
}

// SetFields re-encodes the field list back into the JSONB column.
func (m *EventModel) SetFields(fields []fieldmodel.FieldDefinition) error {
	raw, err := fieldmodel.EncodeFieldDefinitions(fields)
	if err != nil {
		return err
	}
	m.EventCustomFields = raw
	return nil
}

// RegistrationOpen reports whether the event still accepts registrations at t.
func (m *EventModel) RegistrationOpen(t time.Time) bool {
	if !m.EventIsPublished {
		return false
	}
	if m.EventRegistrationCloseAt != nil && t.After(*m.EventRegistrationCloseAt) {
		return false
	}
	return t.Before(m.EventStartAt)
}

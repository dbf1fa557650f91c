// file: internals/features/registrations/registration/model/registration_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Model ===================== */

// RegistrationModel is a confirmed registration. registration_participants is
// stored as raw JSONB on purpose: historical rows may hold an array, an object
// keyed by index, or null, and are never re-validated against the current
// field list.
type RegistrationModel struct {
	RegistrationID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:registration_id" json:"registration_id"`
	RegistrationEventID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_registration_event_user,where:registration_deleted_at IS NULL;column:registration_event_id" json:"registration_event_id"`
	RegistrationUserID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_registration_event_user,where:registration_deleted_at IS NULL;column:registration_user_id"  json:"registration_user_id"`

	RegistrationTeamName *string `gorm:"type:varchar(120);column:registration_team_name" json:"registration_team_name,omitempty"`

	// Normalized submission payload
	RegistrationResponses    datatypes.JSONMap `gorm:"type:jsonb;column:registration_responses"    json:"registration_responses,omitempty"`
	RegistrationParticipants datatypes.JSON    `gorm:"type:jsonb;column:registration_participants" json:"registration_participants,omitempty"`

	RegistrationPaymentProofURL *string `gorm:"type:text;column:registration_payment_proof_url" json:"registration_payment_proof_url,omitempty"`

	// Audit
	RegistrationCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:registration_created_at" json:"registration_created_at"`
	RegistrationUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:registration_updated_at" json:"registration_updated_at"`
	RegistrationDeletedAt gorm.DeletedAt `gorm:"column:registration_deleted_at"                                                        json:"registration_deleted_at,omitempty"`
}

func (RegistrationModel) TableName() string { return "registrations" }

// file: internals/features/registrations/registration/model/waiting_list_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enums (Go-side) ===================== */

// varchar(16) in the DB, with CHECK pending|approved|rejected
type WaitingListStatus string

const (
	WaitingPending  WaitingListStatus = "pending"
	WaitingApproved WaitingListStatus = "approved"
	WaitingRejected WaitingListStatus = "rejected"
)

func (s WaitingListStatus) Valid() bool {
	switch s {
	case WaitingPending, WaitingApproved, WaitingRejected:
		return true
	}
	return false
}

/* ===================== Model ===================== */

// WaitingListModel is a registration parked for payment-proof review. Approval
// copies the payload into a RegistrationModel row; the entry itself keeps its
// final status for audit.
type WaitingListModel struct {
	WaitingListID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:waiting_list_id" json:"waiting_list_id"`
	WaitingListEventID uuid.UUID `gorm:"type:uuid;not null;index;column:waiting_list_event_id"                 json:"waiting_list_event_id"`
	WaitingListUserID  uuid.UUID `gorm:"type:uuid;not null;index;column:waiting_list_user_id"                  json:"waiting_list_user_id"`

	WaitingListTeamName *string `gorm:"type:varchar(120);column:waiting_list_team_name" json:"waiting_list_team_name,omitempty"`

	WaitingListResponses    datatypes.JSONMap `gorm:"type:jsonb;column:waiting_list_responses"    json:"waiting_list_responses,omitempty"`
	WaitingListParticipants datatypes.JSON    `gorm:"type:jsonb;column:waiting_list_participants" json:"waiting_list_participants,omitempty"`

	WaitingListPaymentProofURL *string `gorm:"type:text;column:waiting_list_payment_proof_url" json:"waiting_list_payment_proof_url,omitempty"`

	WaitingListStatus     WaitingListStatus `gorm:"type:varchar(16);not null;default:'pending';column:waiting_list_status" json:"waiting_list_status"`
	WaitingListReviewedAt *time.Time        `gorm:"type:timestamptz;column:waiting_list_reviewed_at"                       json:"waiting_list_reviewed_at,omitempty"`
	WaitingListReviewedBy *uuid.UUID        `gorm:"type:uuid;column:waiting_list_reviewed_by"                              json:"waiting_list_reviewed_by,omitempty"`

	// Audit
	WaitingListCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:waiting_list_created_at" json:"waiting_list_created_at"`
	WaitingListUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:waiting_list_updated_at" json:"waiting_list_updated_at"`
	WaitingListDeletedAt gorm.DeletedAt `gorm:"column:waiting_list_deleted_at"                                                        json:"waiting_list_deleted_at,omitempty"`
}

func (WaitingListModel) TableName() string { return "waiting_list" }

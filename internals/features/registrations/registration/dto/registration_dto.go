// file: internals/features/registrations/registration/dto/registration_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	fieldsvc "eventpulse_backend/internals/features/events/fields/service"
	analytics "eventpulse_backend/internals/features/registrations/analytics/service"
	model "eventpulse_backend/internals/features/registrations/registration/model"
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

func toJSONMap(m map[string]string) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toAnyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func encodeParticipants(list []fieldsvc.ParticipantRecord) (datatypes.JSON, error) {
	if list == nil {
		list = []fieldsvc.ParticipantRecord{}
	}
	raw, err := sonic.Marshal(list)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// resolveTeamName: explicit value wins, else peek the responses through the
// alias table.
func resolveTeamName(explicit *string, responses map[string]string) *string {
	if v := trimPtr(explicit); v != nil {
		return v
	}
	if v := analytics.ResolveField(analytics.ColTeamName, toAnyMap(responses)); v != "" {
		return &v
	}
	return nil
}

func submissionIsEmpty(responses map[string]string, participants []fieldsvc.ParticipantRecord) bool {
	for _, v := range responses {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	for _, rec := range participants {
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
	}
	return true
}

/* =========================================================
   Requests: pre-normalized intake
   ========================================================= */

// CreateRegistrationRequest carries an already-normalized submission for an
// event without payment review.
type CreateRegistrationRequest struct {
	EventID         uuid.UUID                    `json:"event_id" validate:"required"`
	TeamName        *string                      `json:"team_name" validate:"omitempty,max=120"`
	Responses       map[string]string            `json:"responses"`
	Participants    []fieldsvc.ParticipantRecord `json:"participants"`
	PaymentProofURL *string                      `json:"payment_proof" validate:"omitempty,url"`
}

func (r *CreateRegistrationRequest) Normalize() {
	r.TeamName = trimPtr(r.TeamName)
	r.PaymentProofURL = trimPtr(r.PaymentProofURL)
}

func (r *CreateRegistrationRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(r); err != nil {
		return err
	}
	if submissionIsEmpty(r.Responses, r.Participants) {
		return fieldsvc.ErrNoMeaningfulData
	}
	return nil
}

func (r *CreateRegistrationRequest) ToModel(userID uuid.UUID) (*model.RegistrationModel, error) {
	parts, err := encodeParticipants(r.Participants)
	if err != nil {
		return nil, err
	}
	return &model.RegistrationModel{
		RegistrationEventID:         r.EventID,
		RegistrationUserID:          userID,
		RegistrationTeamName:        resolveTeamName(r.TeamName, r.Responses),
		RegistrationResponses:       toJSONMap(r.Responses),
		RegistrationParticipants:    parts,
		RegistrationPaymentProofURL: r.PaymentProofURL,
	}, nil
}

// CreateWaitingListRequest carries an already-normalized submission for an
// event whose registrations need payment review.
type CreateWaitingListRequest struct {
	EventID         uuid.UUID                    `json:"event_id" validate:"required"`
	TeamName        *string                      `json:"team_name" validate:"omitempty,max=120"`
	Responses       map[string]string            `json:"responses"`
	Participants    []fieldsvc.ParticipantRecord `json:"participants"`
	PaymentProofURL *string                      `json:"payment_proof" validate:"required,url"`
}

func (r *CreateWaitingListRequest) Normalize() {
	r.TeamName = trimPtr(r.TeamName)
	r.PaymentProofURL = trimPtr(r.PaymentProofURL)
}

func (r *CreateWaitingListRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(r); err != nil {
		return err
	}
	if submissionIsEmpty(r.Responses, r.Participants) {
		return fieldsvc.ErrNoMeaningfulData
	}
	return nil
}

func (r *CreateWaitingListRequest) ToModel(userID uuid.UUID) (*model.WaitingListModel, error) {
	parts, err := encodeParticipants(r.Participants)
	if err != nil {
		return nil, err
	}
	return &model.WaitingListModel{
		WaitingListEventID:         r.EventID,
		WaitingListUserID:          userID,
		WaitingListTeamName:        resolveTeamName(r.TeamName, r.Responses),
		WaitingListResponses:       toJSONMap(r.Responses),
		WaitingListParticipants:    parts,
		WaitingListPaymentProofURL: r.PaymentProofURL,
		WaitingListStatus:          model.WaitingPending,
	}, nil
}

/* =========================================================
   Requests: flat form registration
   ========================================================= */

// RegisterFormRequest is the raw keyed form as the dynamic form produces it:
// field_{idx} / field_{idx}_participant_{p}. The server validates required
// answers and normalizes before persisting.
type RegisterFormRequest struct {
	TeamSize           *int                         `json:"team_size" validate:"omitempty,min=1,max=10"`
	TeamName           *string                      `json:"team_name" validate:"omitempty,max=120"`
	FormData           map[string]string            `json:"form_data"`
	ManualParticipants []fieldsvc.ManualParticipant `json:"manual_participants"`
	PaymentProofURL    *string                      `json:"payment_proof" validate:"omitempty,url"`
}

func (r *RegisterFormRequest) Normalize() {
	r.TeamName = trimPtr(r.TeamName)
	r.PaymentProofURL = trimPtr(r.PaymentProofURL)
}

func (r *RegisterFormRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

func (r *RegisterFormRequest) ChosenSize() int {
	if r.TeamSize == nil {
		return 0
	}
	return *r.TeamSize
}

/* =========================================================
   Responses
   ========================================================= */

type RegistrationResponse struct {
	RegistrationID              uuid.UUID                    `json:"registration_id"`
	RegistrationEventID         uuid.UUID                    `json:"registration_event_id"`
	RegistrationUserID          uuid.UUID                    `json:"registration_user_id"`
	RegistrationTeamName        *string                      `json:"registration_team_name,omitempty"`
	RegistrationResponses       datatypes.JSONMap            `json:"registration_responses"`
	RegistrationParticipants    []fieldsvc.ParticipantRecord `json:"registration_participants"`
	RegistrationPaymentProofURL *string                      `json:"registration_payment_proof_url,omitempty"`
	RegistrationCreatedAt       string                       `json:"registration_created_at"`
}

func decodeParticipantRecords(raw datatypes.JSON) []fieldsvc.ParticipantRecord {
	out := []fieldsvc.ParticipantRecord{}
	if len(raw) == 0 {
		return out
	}
	// best effort; historical rows may not be an array at all
	_ = sonic.Unmarshal(raw, &out)
	return out
}

func FromRegistrationModel(m *model.RegistrationModel) RegistrationResponse {
	return RegistrationResponse{
		RegistrationID:              m.RegistrationID,
		RegistrationEventID:         m.RegistrationEventID,
		RegistrationUserID:          m.RegistrationUserID,
		RegistrationTeamName:        m.RegistrationTeamName,
		RegistrationResponses:       m.RegistrationResponses,
		RegistrationParticipants:    decodeParticipantRecords(m.RegistrationParticipants),
		RegistrationPaymentProofURL: m.RegistrationPaymentProofURL,
		RegistrationCreatedAt:       m.RegistrationCreatedAt.Format(time.RFC3339),
	}
}

func FromRegistrationModels(list []model.RegistrationModel) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(list))
	for i := range list {
		out = append(out, FromRegistrationModel(&list[i]))
	}
	return out
}

type WaitingListResponse struct {
	WaitingListID              uuid.UUID                    `json:"waiting_list_id"`
	WaitingListEventID         uuid.UUID                    `json:"waiting_list_event_id"`
	WaitingListUserID          uuid.UUID                    `json:"waiting_list_user_id"`
	WaitingListTeamName        *string                      `json:"waiting_list_team_name,omitempty"`
	WaitingListResponses       datatypes.JSONMap            `json:"waiting_list_responses"`
	WaitingListParticipants    []fieldsvc.ParticipantRecord `json:"waiting_list_participants"`
	WaitingListPaymentProofURL *string                      `json:"waiting_list_payment_proof_url,omitempty"`
	WaitingListStatus          model.WaitingListStatus      `json:"waiting_list_status"`
	WaitingListReviewedAt      *string                      `json:"waiting_list_reviewed_at,omitempty"`
	WaitingListCreatedAt       string                       `json:"waiting_list_created_at"`
}

func FromWaitingListModel(m *model.WaitingListModel) WaitingListResponse {
	var reviewedAt *string
	if m.WaitingListReviewedAt != nil {
		v := m.WaitingListReviewedAt.Format(time.RFC3339)
		reviewedAt = &v
	}
	return WaitingListResponse{
		WaitingListID:              m.WaitingListID,
		WaitingListEventID:         m.WaitingListEventID,
		WaitingListUserID:          m.WaitingListUserID,
		WaitingListTeamName:        m.WaitingListTeamName,
		WaitingListResponses:       m.WaitingListResponses,
		WaitingListParticipants:    decodeParticipantRecords(m.WaitingListParticipants),
		WaitingListPaymentProofURL: m.WaitingListPaymentProofURL,
		WaitingListStatus:          m.WaitingListStatus,
		WaitingListReviewedAt:      reviewedAt,
		WaitingListCreatedAt:       m.WaitingListCreatedAt.Format(time.RFC3339),
	}
}

func FromWaitingListModels(list []model.WaitingListModel) []WaitingListResponse {
	out := make([]WaitingListResponse, 0, len(list))
	for i := range list {
		out = append(out, FromWaitingListModel(&list[i]))
	}
	return out
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Submission types accepted by the portal.
const (
	SubmissionGrievance  = "grievance"
	SubmissionInnovation = "innovation"
)

type Submission struct {
	ID              uuid.UUID       `json:"id"`
	SessionID       *uuid.UUID      `json:"session_id,omitempty"`
	Type            string          `json:"type"`
	ReferenceNumber string          `json:"reference_number"`
	Content         json.RawMessage `json:"content"`
	CreatedAt       time.Time       `json:"created_at"`
}

type SurveyResponse struct {
	ID              uuid.UUID       `json:"id"`
	SessionID       *uuid.UUID      `json:"session_id,omitempty"`
	ReferenceNumber string          `json:"reference_number"`
	Location        *string         `json:"location,omitempty"`
	Tenure          string          `json:"tenure"`
	Responses       json.RawMessage `json:"responses"`
	OpenFeedback    json.RawMessage `json:"open_feedback"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IntakeSubmission carries the structured intake columns plus a catch-all
// form_data payload for fields the intake form adds over time.
type IntakeSubmission struct {
	ID                       uuid.UUID       `json:"id"`
	SessionID                *uuid.UUID      `json:"session_id,omitempty"`
	ReferenceNumber          string          `json:"reference_number"`
	FirstName                *string         `json:"first_name,omitempty"`
	LastName                 *string         `json:"last_name,omitempty"`
	DateOfBirth              *string         `json:"date_of_birth,omitempty"`
	Phone                    *string         `json:"phone,omitempty"`
	Email                    *string         `json:"email,omitempty"`
	Address                  *string         `json:"address,omitempty"`
	City                     *string         `json:"city,omitempty"`
	State                    *string         `json:"state,omitempty"`
	ZipCode                  *string         `json:"zip_code,omitempty"`
	EmergencyContactName     *string         `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone    *string         `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation *string         `json:"emergency_contact_relationship,omitempty"`
	ReferralSource           *string         `json:"referral_source,omitempty"`
	FormData                 json.RawMessage `json:"form_data,omitempty"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

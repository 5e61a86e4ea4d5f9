package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity tags recorded in a session's audit trail. Consumers may log
// arbitrary tags; these are the ones the portal itself produces.
const (
	ActivitySessionStarted  = "session_started"
	ActivityNavigation      = "navigation"
	ActivityGrievance       = "grievance_submitted"
	ActivityInnovation      = "innovation_submitted"
	ActivityIntake          = "intake_submitted"
	ActivitySurveySubmitted = "survey_submitted"
	ActivitySurveyBypassed  = "survey_bypassed"
	ActivityExternalLink    = "external_link_click"
	ActivityTimeoutIdle     = "session_timeout_idle"
	ActivityTimeoutDuration = "session_timeout_duration"
)

// ActivityRecord is one audit-trail entry. Records are immutable once
// appended and their insertion order is significant.
type ActivityRecord struct {
	Timestamp time.Time              `json:"timestamp"`
	Activity  string                 `json:"activity"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

type Session struct {
	ID          uuid.UUID        `json:"id"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     *time.Time       `json:"end_time,omitempty"`
	Duration    *int             `json:"duration,omitempty"` // whole seconds of budget consumed
	ActivityLog []ActivityRecord `json:"activity_log"`
	CreatedAt   time.Time        `json:"created_at"`
}

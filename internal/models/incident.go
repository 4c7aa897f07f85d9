package models

import (
	"time"

	"github.com/google/uuid"
)

type IncidentStatus string

const (
	StatusPending  IncidentStatus = "pending"
	StatusApproved IncidentStatus = "approved"
	StatusRejected IncidentStatus = "rejected"
	StatusResolved IncidentStatus = "resolved"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type ApprovalAction string

const (
	ActionApprove ApprovalAction = "approve"
	ActionReject  ApprovalAction = "reject"
	ActionResolve ApprovalAction = "resolve"
)

// AnonymousReporter is recorded when a report carries no reporter id.
const AnonymousReporter = "anonymous"

type Incident struct {
	ID             uuid.UUID      `json:"id"`
	Type           string         `json:"type"`
	Latitude       float64        `json:"lat"`
	Longitude      float64        `json:"lng"`
	Description    string         `json:"description"`
	Severity       Severity       `json:"severity"`
	Status         IncidentStatus `json:"status"`
	ReporterID     string         `json:"reporter_id"`
	ApprovedBy     *string        `json:"approved_by,omitempty"`
	ResolvedBy     *string        `json:"resolved_by,omitempty"`
	ApprovalCount  int            `json:"approval_count"`
	RejectionCount int            `json:"rejection_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IncidentAction is a single volunteer disposition. At most one row exists per
// (incident, volunteer); a later action by the same volunteer replaces it.
type IncidentAction struct {
	IncidentID  uuid.UUID      `json:"incident_id"`
	VolunteerID string         `json:"volunteer_id"`
	Action      ApprovalAction `json:"action"`
	Comment     string         `json:"comment,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

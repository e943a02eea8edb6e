package events

import (
	"time"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffHired      EventType = "staff_hired"
	EventStaffPromoted   EventType = "staff_promoted"
	EventStaffDemoted    EventType = "staff_demoted"
	EventStaffFired      EventType = "staff_fired"
	EventCaseOpened      EventType = "case_opened"
	EventCaseAccepted    EventType = "case_accepted"
	EventCaseDeclined    EventType = "case_declined"
	EventCaseClosed      EventType = "case_closed"
	EventCaseAssigned    EventType = "case_assigned"
	EventCaseUnassigned  EventType = "case_unassigned"
	EventCaseReassigned  EventType = "case_reassigned"
	EventBypassConfirmed EventType = "bypass_confirmed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuildID   string      `json:"guild_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffRoleChangedPayload payload for hire, promotion, demotion and fire events.
type StaffRoleChangedPayload struct {
	StaffID  string           `json:"staff_id"`
	UserID   string           `json:"user_id"`
	FromRole domain.StaffRole `json:"from_role"`
	ToRole   domain.StaffRole `json:"to_role"`
	Reason   string           `json:"reason,omitempty"`
}

// CaseLifecyclePayload payload for open, accept, decline and close events.
type CaseLifecyclePayload struct {
	CaseID     string             `json:"case_id"`
	CaseNumber int64              `json:"case_number"`
	Status     domain.CaseStatus  `json:"status"`
	Result     *domain.CaseResult `json:"result,omitempty"`
	Notes      string             `json:"notes,omitempty"`
}

// CaseAssignmentPayload payload for assign, unassign and reassign events. For
// reassigns CaseID is the destination and FromCaseID the source.
type CaseAssignmentPayload struct {
	CaseID         string  `json:"case_id"`
	CaseNumber     int64   `json:"case_number"`
	LawyerID       string  `json:"lawyer_id"`
	FromCaseID     string  `json:"from_case_id,omitempty"`
	FromCaseNumber int64   `json:"from_case_number,omitempty"`
	LeadAttorneyID *string `json:"lead_attorney_id,omitempty"`
}

// BypassConfirmedPayload payload for owner bypass confirmations.
type BypassConfirmedPayload struct {
	BypassType domain.BypassType `json:"bypass_type"`
	RuleCode   string            `json:"rule_code"`
	Command    string            `json:"command"`
	Reason     string            `json:"reason,omitempty"`
}

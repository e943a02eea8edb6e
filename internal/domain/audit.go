package domain

import "time"

// AuditAction enumerates audit-worthy actions.
type AuditAction string

const (
	AuditStaffHired      AuditAction = "staff_hired"
	AuditStaffPromoted   AuditAction = "staff_promoted"
	AuditStaffDemoted    AuditAction = "staff_demoted"
	AuditStaffFired      AuditAction = "staff_fired"
	AuditCaseOpened      AuditAction = "case_opened"
	AuditCaseAccepted    AuditAction = "case_accepted"
	AuditCaseDeclined    AuditAction = "case_declined"
	AuditCaseClosed      AuditAction = "case_closed"
	AuditCaseAssigned    AuditAction = "case_assigned"
	AuditCaseReassigned  AuditAction = "case_reassigned"
	AuditBypassConfirmed AuditAction = "bypass_confirmed"
)

// AuditLog is one immutable audit trail entry.
type AuditLog struct {
	ID        string
	GuildID   string
	Action    AuditAction
	ActorID   string
	TargetID  string
	Details   map[string]any
	CreatedAt time.Time
}

package domain

import (
	"fmt"
	"time"

	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// CaseStatus enumerates lifecycle states for cases.
type CaseStatus string

const (
	CaseStatusPending    CaseStatus = "pending"
	CaseStatusOpen       CaseStatus = "open"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusClosed     CaseStatus = "closed"
)

// CasePriority enumerates urgency.
type CasePriority string

const (
	CasePriorityLow    CasePriority = "low"
	CasePriorityMedium CasePriority = "medium"
	CasePriorityHigh   CasePriority = "high"
	CasePriorityUrgent CasePriority = "urgent"
)

// CaseResult records how a case ended.
type CaseResult string

const (
	CaseResultWin        CaseResult = "win"
	CaseResultLoss       CaseResult = "loss"
	CaseResultSettlement CaseResult = "settlement"
	CaseResultDismissed  CaseResult = "dismissed"
	CaseResultWithdrawn  CaseResult = "withdrawn"
)

// Case is the aggregate for one client matter.
type Case struct {
	ID                string
	GuildID           string
	CaseNumber        int64
	ClientID          string
	ClientUsername    string
	Title             string
	Description       string
	Status            CaseStatus
	Priority          CasePriority
	LeadAttorneyID    *string
	AssignedLawyerIDs []string
	Result            *CaseResult
	ResultNotes       string
	ClosedAt          *time.Time
	ClosedBy          *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewCase constructs a pending case with its guild-sequential number.
func NewCase(guildID string, caseNumber int64, clientID, clientUsername, title, description string, priority CasePriority) *Case {
	if priority == "" {
		priority = CasePriorityMedium
	}
	return &Case{
		GuildID:        guildID,
		CaseNumber:     caseNumber,
		ClientID:       clientID,
		ClientUsername: clientUsername,
		Title:          title,
		Description:    description,
		Status:         CaseStatusPending,
		Priority:       priority,
	}
}

// IsTerminal reports whether the case can no longer change state.
func (c *Case) IsTerminal() bool {
	return c.Status == CaseStatusClosed
}

// HasAssignee reports whether the lawyer is already on the case.
func (c *Case) HasAssignee(lawyerID string) bool {
	for _, id := range c.AssignedLawyerIDs {
		if id == lawyerID {
			return true
		}
	}
	return false
}

// Accept moves a pending or open case in progress, making the accepting lawyer
// lead attorney and first assignee. Concurrent accepts are expected to be
// serialized by the operation queue so only one wins.
func (c *Case) Accept(lawyerID string, now time.Time) error {
	if c.Status != CaseStatusPending && c.Status != CaseStatusOpen {
		return apperrors.NewStateConflict(
			fmt.Sprintf("case %d cannot be accepted in status %s", c.CaseNumber, c.Status),
			map[string]any{"status": c.Status},
		)
	}
	c.Status = CaseStatusInProgress
	c.LeadAttorneyID = &lawyerID
	if !c.HasAssignee(lawyerID) {
		c.AssignedLawyerIDs = append(c.AssignedLawyerIDs, lawyerID)
	}
	c.UpdatedAt = now
	return nil
}

// AssignLawyer adds an assignee. Adding someone already present is a no-op.
func (c *Case) AssignLawyer(lawyerID string, now time.Time) error {
	if c.IsTerminal() {
		return apperrors.NewStateConflict("cannot assign lawyers to a closed case", nil)
	}
	if c.HasAssignee(lawyerID) {
		return nil
	}
	c.AssignedLawyerIDs = append(c.AssignedLawyerIDs, lawyerID)
	if c.LeadAttorneyID == nil {
		c.LeadAttorneyID = &lawyerID
	}
	c.UpdatedAt = now
	return nil
}

// UnassignLawyer removes an assignee. Removing the lead promotes the first
// remaining assignee in list order, or clears the lead when none remain.
// Unassigning someone not present is a no-op.
func (c *Case) UnassignLawyer(lawyerID string, now time.Time) error {
	if c.IsTerminal() {
		return apperrors.NewStateConflict("cannot unassign lawyers from a closed case", nil)
	}
	if !c.HasAssignee(lawyerID) {
		return nil
	}
	remaining := make([]string, 0, len(c.AssignedLawyerIDs)-1)
	for _, id := range c.AssignedLawyerIDs {
		if id != lawyerID {
			remaining = append(remaining, id)
		}
	}
	c.AssignedLawyerIDs = remaining
	if c.LeadAttorneyID != nil && *c.LeadAttorneyID == lawyerID {
		if len(remaining) > 0 {
			lead := remaining[0]
			c.LeadAttorneyID = &lead
		} else {
			c.LeadAttorneyID = nil
		}
	}
	c.UpdatedAt = now
	return nil
}

// Close transitions an open or in-progress case to its terminal state. A second
// close attempt fails and leaves the first closure's data untouched.
func (c *Case) Close(result CaseResult, notes, closedBy string, now time.Time) error {
	if c.Status == CaseStatusClosed {
		return apperrors.NewStateConflict(
			fmt.Sprintf("case %d is already closed", c.CaseNumber),
			map[string]any{"closed_at": c.ClosedAt},
		)
	}
	if c.Status != CaseStatusOpen && c.Status != CaseStatusInProgress {
		return apperrors.NewStateConflict(
			fmt.Sprintf("case %d cannot be closed in status %s", c.CaseNumber, c.Status),
			map[string]any{"status": c.Status},
		)
	}
	c.Status = CaseStatusClosed
	c.Result = &result
	c.ResultNotes = notes
	c.ClosedAt = &now
	c.ClosedBy = &closedBy
	c.UpdatedAt = now
	return nil
}

// Decline closes a pending case nobody accepted, with a dismissed result.
func (c *Case) Decline(reason, declinedBy string, now time.Time) error {
	if c.Status != CaseStatusPending {
		return apperrors.NewStateConflict(
			fmt.Sprintf("case %d cannot be declined in status %s", c.CaseNumber, c.Status),
			map[string]any{"status": c.Status},
		)
	}
	result := CaseResultDismissed
	c.Status = CaseStatusClosed
	c.Result = &result
	c.ResultNotes = reason
	c.ClosedAt = &now
	c.ClosedBy = &declinedBy
	c.UpdatedAt = now
	return nil
}

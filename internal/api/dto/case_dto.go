package dto

import (
	"time"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// OpenCaseRequest payload.
type OpenCaseRequest struct {
	ClientID       string `json:"client_id"`
	ClientUsername string `json:"client_username,omitempty"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Priority       string `json:"priority,omitempty"`
}

// CloseCaseRequest payload.
type CloseCaseRequest struct {
	Result string `json:"result"`
	Notes  string `json:"notes,omitempty"`
}

// DeclineCaseRequest payload.
type DeclineCaseRequest struct {
	Reason string `json:"reason,omitempty"`
}

// AssignLawyerRequest payload for assign and unassign.
type AssignLawyerRequest struct {
	LawyerID string `json:"lawyer_id"`
}

// ReassignLawyerRequest payload.
type ReassignLawyerRequest struct {
	FromCaseID string `json:"from_case_id"`
	ToCaseID   string `json:"to_case_id"`
	LawyerID   string `json:"lawyer_id"`
}

// CaseResponse is the API shape of a case.
type CaseResponse struct {
	ID                string     `json:"id"`
	GuildID           string     `json:"guild_id"`
	CaseNumber        int64      `json:"case_number"`
	ClientID          string     `json:"client_id"`
	ClientUsername    string     `json:"client_username,omitempty"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	LeadAttorneyID    *string    `json:"lead_attorney_id,omitempty"`
	AssignedLawyerIDs []string   `json:"assigned_lawyer_ids,omitempty"`
	Result            *string    `json:"result,omitempty"`
	ResultNotes       string     `json:"result_notes,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	ClosedBy          *string    `json:"closed_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// FromCase maps the domain aggregate to its API shape.
func FromCase(c *domain.Case) CaseResponse {
	var result *string
	if c.Result != nil {
		s := string(*c.Result)
		result = &s
	}
	return CaseResponse{
		ID:                c.ID,
		GuildID:           c.GuildID,
		CaseNumber:        c.CaseNumber,
		ClientID:          c.ClientID,
		ClientUsername:    c.ClientUsername,
		Title:             c.Title,
		Description:       c.Description,
		Status:            string(c.Status),
		Priority:          string(c.Priority),
		LeadAttorneyID:    c.LeadAttorneyID,
		AssignedLawyerIDs: c.AssignedLawyerIDs,
		Result:            result,
		ResultNotes:       c.ResultNotes,
		ClosedAt:          c.ClosedAt,
		ClosedBy:          c.ClosedBy,
		CreatedAt:         c.CreatedAt,
	}
}

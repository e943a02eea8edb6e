package domain

import "time"

// EntityType names the aggregate a command targets.
type EntityType string

const (
	EntityStaff EntityType = "staff"
	EntityCase  EntityType = "case"
)

// PermissionContext identifies the actor issuing a command.
type PermissionContext struct {
	GuildID      string
	UserID       string
	UserRoles    []string
	IsGuildOwner bool
}

// ValidationContext is the ephemeral value object built per command invocation.
// It is never persisted.
type ValidationContext struct {
	Permission     PermissionContext
	EntityType     EntityType
	Operation      string
	Data           map[string]any
	CommandName    string
	SubcommandName string
	IssuedAt       time.Time
}

// DataString reads a string field from the command-argument bag.
func (vc *ValidationContext) DataString(key string) string {
	if vc.Data == nil {
		return ""
	}
	if v, ok := vc.Data[key].(string); ok {
		return v
	}
	return ""
}

// IssueSeverity classifies a validation issue.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes the strategies emit.
const (
	IssueCodeRoleLimit      = "ROLE_LIMIT_EXCEEDED"
	IssueCodeStaffNotFound  = "STAFF_NOT_FOUND"
	IssueCodeCaseLimit      = "CLIENT_CASE_LIMIT"
	IssueCodeCaseLimitNear  = "CLIENT_CASE_LIMIT_NEAR"
	IssueCodePermission     = "PERMISSION_DENIED"
	IssueCodeStrategyError  = "STRATEGY_ERROR"
	IssueCodeOpenReminders  = "UNRESOLVED_REMINDERS"
	IssueCodeActiveCaseLoad = "ACTIVE_CASE_ASSIGNMENTS"
)

// BypassType tags which rule a bypass request would override.
type BypassType string

const (
	BypassRoleLimit BypassType = "role_limit"
)

// ValidationIssue is one finding from a strategy.
type ValidationIssue struct {
	Severity IssueSeverity  `json:"severity"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Field    string         `json:"field,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ValidationResult is the outcome of one strategy, or a merged aggregate.
// Bypass eligibility is a declared property of the violated rule, never
// inferred from the actor.
type ValidationResult struct {
	Valid           bool
	Issues          []ValidationIssue
	StrategyName    string
	BypassAvailable bool
	BypassType      BypassType
	Metadata        map[string]any
}

// ValidResult returns a passing result for a strategy.
func ValidResult(strategy string) *ValidationResult {
	return &ValidationResult{Valid: true, StrategyName: strategy}
}

// AddError appends a blocking issue and marks the result invalid.
func (r *ValidationResult) AddError(code, message string, metadata map[string]any) {
	r.Valid = false
	r.Issues = append(r.Issues, ValidationIssue{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Metadata: metadata,
	})
}

// AddWarning appends a non-blocking issue.
func (r *ValidationResult) AddWarning(code, message string, metadata map[string]any) {
	r.Issues = append(r.Issues, ValidationIssue{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Metadata: metadata,
	})
}

// Errors returns only blocking issues.
func (r *ValidationResult) Errors() []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

// BypassRequest packages one bypass-eligible violation awaiting owner approval.
type BypassRequest struct {
	Type         BypassType     `json:"type"`
	StrategyName string         `json:"strategy_name"`
	Issues       []ValidationIssue `json:"issues"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// PendingBypass is an owner-initiated override awaiting confirmation. Keyed by
// actor ID in the orchestrator's store; lazily expired after its TTL.
type PendingBypass struct {
	ActorID   string
	GuildID   string
	Requests  []BypassRequest
	Context   *ValidationContext
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the pending entry is past its TTL at the given time.
func (p *PendingBypass) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

package validation

import (
	"context"
	"fmt"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
)

// Client-facing case limits.
const (
	maxCasesPerClient     = 5
	caseLimitWarnDistance = 2
)

// BusinessRuleStrategy enforces firm capacity rules: per-role staff limits,
// staff existence for role changes, and per-client open-case limits. Only the
// role-limit rule declares bypass eligibility.
type BusinessRuleStrategy struct {
	staff repository.StaffRepository
	cases repository.CaseRepository
}

// NewBusinessRuleStrategy constructs the strategy.
func NewBusinessRuleStrategy(staff repository.StaffRepository, cases repository.CaseRepository) *BusinessRuleStrategy {
	return &BusinessRuleStrategy{staff: staff, cases: cases}
}

func (s *BusinessRuleStrategy) Name() string {
	return StrategyBusinessRule
}

func (s *BusinessRuleStrategy) CanHandle(vc *domain.ValidationContext) bool {
	switch vc.EntityType {
	case domain.EntityStaff:
		switch vc.Operation {
		case "hire", "promote", "demote", "fire":
			return true
		}
	case domain.EntityCase:
		return vc.Operation == "open"
	}
	return false
}

func (s *BusinessRuleStrategy) Validate(ctx context.Context, vc *domain.ValidationContext) (*domain.ValidationResult, error) {
	result := domain.ValidResult(StrategyBusinessRule)

	switch vc.EntityType {
	case domain.EntityStaff:
		if vc.Operation == "hire" || vc.Operation == "promote" {
			if err := s.checkRoleLimit(ctx, vc, result); err != nil {
				return nil, err
			}
		}
		if vc.Operation == "fire" || vc.Operation == "promote" || vc.Operation == "demote" {
			if err := s.checkStaffExists(ctx, vc, result); err != nil {
				return nil, err
			}
		}
	case domain.EntityCase:
		if vc.Operation == "open" {
			if err := s.checkClientCaseLimit(ctx, vc, result); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// checkRoleLimit compares active holders of the target role against its
// capacity. At or over the limit the violation is bypass-eligible for the
// guild owner.
func (s *BusinessRuleStrategy) checkRoleLimit(ctx context.Context, vc *domain.ValidationContext, result *domain.ValidationResult) error {
	role := domain.StaffRole(vc.DataString("role"))
	if !role.IsValid() {
		result.AddError(domain.IssueCodeRoleLimit, fmt.Sprintf("unknown role %q", vc.DataString("role")), nil)
		return nil
	}

	current, err := s.staff.CountActiveByRole(ctx, vc.Permission.GuildID, role)
	if err != nil {
		return err
	}
	if current >= role.MaxCount() {
		result.AddError(domain.IssueCodeRoleLimit,
			fmt.Sprintf("Maximum limit of %d reached for role %s (currently %d)", role.MaxCount(), role.DisplayName(), current),
			nil,
		)
		result.BypassAvailable = true
		result.BypassType = domain.BypassRoleLimit
		result.Metadata = map[string]any{
			"currentCount": current,
			"maxCount":     role.MaxCount(),
			"roleName":     role.DisplayName(),
		}
	}
	return nil
}

// checkStaffExists verifies the target of a fire/promote/demote is an active
// staff record. Not bypassable.
func (s *BusinessRuleStrategy) checkStaffExists(ctx context.Context, vc *domain.ValidationContext, result *domain.ValidationResult) error {
	userID := vc.DataString("user_id")
	if userID == "" {
		result.AddError(domain.IssueCodeStaffNotFound, "no target staff member provided", nil)
		return nil
	}
	staff, err := s.staff.GetByUserID(ctx, vc.Permission.GuildID, userID)
	if err != nil {
		if repository.IsNoRows(err) {
			result.AddError(domain.IssueCodeStaffNotFound,
				fmt.Sprintf("user %s is not a staff member", userID), nil)
			return nil
		}
		return err
	}
	if !staff.IsActive() {
		result.AddError(domain.IssueCodeStaffNotFound,
			fmt.Sprintf("user %s is not an active staff member", userID),
			map[string]any{"status": staff.Status},
		)
	}
	return nil
}

// checkClientCaseLimit blocks case creation at the per-client ceiling and warns
// as the client approaches it. Not bypassable.
func (s *BusinessRuleStrategy) checkClientCaseLimit(ctx context.Context, vc *domain.ValidationContext, result *domain.ValidationResult) error {
	clientID := vc.DataString("client_id")
	if clientID == "" {
		result.AddError(domain.IssueCodeCaseLimit, "no client provided", nil)
		return nil
	}
	open, err := s.cases.CountOpenByClient(ctx, vc.Permission.GuildID, clientID)
	if err != nil {
		return err
	}
	if open >= maxCasesPerClient {
		result.AddError(domain.IssueCodeCaseLimit,
			fmt.Sprintf("client has reached the maximum of %d active cases", maxCasesPerClient),
			map[string]any{"currentCount": open, "maxCount": maxCasesPerClient},
		)
		return nil
	}
	if open >= maxCasesPerClient-caseLimitWarnDistance {
		result.AddWarning(domain.IssueCodeCaseLimitNear,
			fmt.Sprintf("client has %d of %d allowed active cases", open, maxCasesPerClient),
			map[string]any{"currentCount": open, "maxCount": maxCasesPerClient},
		)
	}
	return nil
}
